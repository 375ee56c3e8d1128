// internal/stages/notification/client.go
package notification

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/metrics"
	"loan-evaluation/internal/stages/stagecall"
)

const StageName = "notification"

var ErrNotificationFailed = errors.New("notification delivery failed")

// Client calls the notification collaborator over HTTP. Callers treat a
// failure here as non-fatal; the error is returned so it can be logged.
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

// Notify delivers the decision message to the applicant.
func (c *Client) Notify(ctx context.Context, req Request) error {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(req)
	if err != nil {
		return err
	}

	if _, err := stagecall.Post(ctx, c.client, c.config, StageName, c.config.BaseURL+"/notify", body); err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "transport").Inc()
		c.logger.WithError(err).Warn("notification call failed")
		return ErrNotificationFailed
	}

	return nil
}
