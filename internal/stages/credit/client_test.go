// internal/stages/credit/client_test.go
package credit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/models"
)

func stageConfig(baseURL string) config.StageConfig {
	return config.StageConfig{BaseURL: baseURL, Timeout: 2000, MaxRetries: 0}
}

func testApplicant() models.ApplicantRecord {
	return models.ApplicantRecord{
		Name:            "Jean Dupont",
		MonthlyIncome:   6500,
		MonthlyExpenses: 1500,
		LoanAmount:      200000,
	}
}

func TestClient_Check_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/credit-check", r.URL.Path)

		var req Request
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, 6500.0, req.MonthlyIncome)

		w.Write([]byte(`{"credit_score": 85, "debt_ratio": 0.23, "details": "ok"}`))
	}))
	defer srv.Close()

	c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

	assessment, err := c.Check(context.Background(), testApplicant())
	require.NoError(t, err)
	assert.Equal(t, 85.0, assessment.Score)
	assert.Equal(t, 0.23, assessment.DebtRatio)
	assert.Equal(t, "ok", assessment.Details)
}

func TestClient_Check_MissingDebtRatioComputedLocally(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"credit_score": 70}`))
	}))
	defer srv.Close()

	c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

	assessment, err := c.Check(context.Background(), testApplicant())
	require.NoError(t, err)
	assert.Equal(t, 70.0, assessment.Score)
	assert.Equal(t, 0.23, assessment.DebtRatio)
}

func TestClient_Check_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

	_, err := c.Check(context.Background(), testApplicant())
	assert.ErrorIs(t, err, ErrCreditUnavailable)
}

func TestClient_Check_MalformedResponseDefaults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	defer srv.Close()

	c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

	assessment, err := c.Check(context.Background(), testApplicant())
	require.NoError(t, err, "a malformed payload must not fail the submission")
	assert.Equal(t, 0.0, assessment.Score)
	assert.Equal(t, 0.23, assessment.DebtRatio, "ratio is recomputed locally")
}
