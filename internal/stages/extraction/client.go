// internal/stages/extraction/client.go
package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/metrics"
	"loan-evaluation/internal/common/validation"
	"loan-evaluation/internal/models"
	"loan-evaluation/internal/stages/stagecall"
)

const StageName = "extraction"

var (
	ErrExtractionUnavailable = errors.New("extraction stage unavailable")
	ErrExtractionTimeout     = errors.New("extraction stage timed out")
)

// Client calls the extraction collaborator over HTTP.
type Client struct {
	config config.StageConfig
	client *http.Client
	logger logger.Logger
}

func NewClient(cfg config.StageConfig, log logger.Logger) *Client {
	return &Client{
		config: cfg,
		client: &http.Client{Timeout: cfg.GetTimeout()},
		logger: log,
	}
}

// Extract sends the free-form request text and returns the structured
// applicant record. A transport failure is fatal to the pipeline; a malformed
// or unparseable payload is not, and yields the defaulted record instead.
func (c *Client) Extract(ctx context.Context, text string) (models.ApplicantRecord, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(Request{Text: text})
	if err != nil {
		return models.ApplicantRecord{}, err
	}

	data, err := stagecall.Post(ctx, c.client, c.config, StageName, c.config.BaseURL+"/extract", body)
	if err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "transport").Inc()
		if errors.Is(err, stagecall.ErrTimeout) {
			return models.ApplicantRecord{}, ErrExtractionTimeout
		}
		c.logger.WithError(err).Error("extraction call failed")
		return models.ApplicantRecord{}, ErrExtractionUnavailable
	}

	var payload map[string]interface{}
	if err := json.Unmarshal(data, &payload); err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "malformed").Inc()
		c.logger.WithError(err).Warn("extraction payload unparseable, using defaults")
		return models.DefaultApplicantRecord(), nil
	}
	if err := validation.ValidateExtractionPayload(payload); err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "malformed").Inc()
		c.logger.WithError(err).Warn("extraction payload failed validation, using defaults")
		return models.DefaultApplicantRecord(), nil
	}

	return models.ApplicantFromPayload(payload), nil
}
