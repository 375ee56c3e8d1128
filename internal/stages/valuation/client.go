// internal/stages/valuation/client.go
package valuation

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/metrics"
	"loan-evaluation/internal/models"
	"loan-evaluation/internal/stages/stagecall"
)

const StageName = "valuation"

var (
	ErrValuationUnavailable = errors.New("valuation stage unavailable")
	ErrValuationTimeout     = errors.New("valuation stage timed out")
)

// Client calls the valuation collaborator over HTTP. Any failure here is
// fatal to the submission.
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

// Evaluate estimates the market value of the described property.
func (c *Client) Evaluate(ctx context.Context, applicant models.ApplicantRecord) (models.PropertyValuation, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(Request{
		PropertyDescription: applicant.PropertyDescription,
		LoanAmount:          applicant.LoanAmount,
	})
	if err != nil {
		return models.PropertyValuation{}, err
	}

	data, err := stagecall.Post(ctx, c.client, c.config, StageName, c.config.BaseURL+"/evaluate-property", body)
	if err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "transport").Inc()
		if errors.Is(err, stagecall.ErrTimeout) {
			return models.PropertyValuation{}, ErrValuationTimeout
		}
		c.logger.WithError(err).Error("valuation call failed")
		return models.PropertyValuation{}, ErrValuationUnavailable
	}

	// A malformed payload is recovered by defaulting. A zero estimated value
	// sends the loan-to-value ratio to its worst case downstream.
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "malformed").Inc()
		c.logger.WithError(err).Warn("valuation response unparseable, using defaults")
		resp = Response{}
	}

	return models.PropertyValuation{
		EstimatedValue: resp.EstimatedValue,
		Compliant:      resp.Compliant,
		Details:        resp.Details,
	}, nil
}
