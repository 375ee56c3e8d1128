// internal/stages/credit/client.go
package credit

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"net/http"
	"time"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/metrics"
	"loan-evaluation/internal/models"
	"loan-evaluation/internal/stages/stagecall"
)

const StageName = "credit"

var (
	ErrCreditUnavailable = errors.New("credit stage unavailable")
	ErrCreditTimeout     = errors.New("credit stage timed out")
)

// Client calls the credit collaborator over HTTP. Any failure here is fatal
// to the submission.
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

// Check assesses the applicant's solvency.
func (c *Client) Check(ctx context.Context, applicant models.ApplicantRecord) (models.CreditAssessment, error) {
	start := time.Now()
	defer func() {
		metrics.StageDuration.WithLabelValues(StageName).Observe(time.Since(start).Seconds())
	}()

	body, err := json.Marshal(Request{
		MonthlyIncome:   applicant.MonthlyIncome,
		MonthlyExpenses: applicant.MonthlyExpenses,
		LoanAmount:      applicant.LoanAmount,
	})
	if err != nil {
		return models.CreditAssessment{}, err
	}

	data, err := stagecall.Post(ctx, c.client, c.config, StageName, c.config.BaseURL+"/credit-check", body)
	if err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "transport").Inc()
		if errors.Is(err, stagecall.ErrTimeout) {
			return models.CreditAssessment{}, ErrCreditTimeout
		}
		c.logger.WithError(err).Error("credit call failed")
		return models.CreditAssessment{}, ErrCreditUnavailable
	}

	// A malformed payload is recovered by defaulting, same as extraction.
	// Only transport failures abort the submission.
	var resp Response
	if err := json.Unmarshal(data, &resp); err != nil {
		metrics.StageFailuresTotal.WithLabelValues(StageName, "malformed").Inc()
		c.logger.WithError(err).Warn("credit response unparseable, using defaults")
		resp = Response{}
	}

	assessment := models.CreditAssessment{
		Score:   resp.CreditScore,
		Details: resp.Details,
	}
	if resp.DebtRatio != nil {
		assessment.DebtRatio = *resp.DebtRatio
	} else {
		assessment.DebtRatio = DebtRatio(applicant.MonthlyIncome, applicant.MonthlyExpenses)
	}

	return assessment, nil
}

// DebtRatio is expenses over income, rounded to two decimals, with 1.0 as
// the worst-case default when income is not positive.
func DebtRatio(income, expenses float64) float64 {
	if income <= 0 {
		return 1.0
	}
	return math.Round(expenses/income*100) / 100
}
