// internal/stages/extraction/client_test.go
package extraction

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-evaluation/internal/common/config"
	"loan-evaluation/internal/common/logger"
)

func stageConfig(baseURL string) config.StageConfig {
	return config.StageConfig{BaseURL: baseURL, Timeout: 2000, MaxRetries: 0}
}

func TestClient_Extract_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/extract", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"name": "Jean Dupont",
			"address": "12 rue de la Paix",
			"email": "jean@example.org",
			"phone": "+33 6 12 34 56 78",
			"loan_amount": 250000,
			"loan_duration_years": 20,
			"monthly_income": 6500,
			"monthly_expenses": 1500,
			"property_description": "maison à deux étages"
		}`))
	}))
	defer srv.Close()

	c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

	applicant, err := c.Extract(context.Background(), "some request text")
	require.NoError(t, err)
	assert.Equal(t, "Jean Dupont", applicant.Name)
	assert.Equal(t, 250000.0, applicant.LoanAmount)
	assert.Equal(t, 20, applicant.LoanDurationYears)
	assert.True(t, applicant.EmploymentStableOrDefault())
}

func TestClient_Extract_MalformedPayloadDefaults(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"not json", "garbage{{{"},
		{"wrong field types", `{"name": 42, "loan_amount": {"nested": true}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

			applicant, err := c.Extract(context.Background(), "text")
			require.NoError(t, err, "a malformed payload must not fail the request")
			assert.Equal(t, "unknown", applicant.Name)
			assert.Equal(t, "unspecified", applicant.Address)
			assert.Equal(t, 0.0, applicant.LoanAmount)
		})
	}
}

func TestClient_Extract_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	c := NewClient(stageConfig(srv.URL), logger.NewTestLogger(t))

	_, err := c.Extract(context.Background(), "text")
	assert.ErrorIs(t, err, ErrExtractionUnavailable)
}

func TestClient_Extract_RetriesOnServerError(t *testing.T) {
	attempts := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts++
		if attempts == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		w.Write([]byte(`{"name": "Jean Dupont"}`))
	}))
	defer srv.Close()

	cfg := stageConfig(srv.URL)
	cfg.MaxRetries = 2
	c := NewClient(cfg, logger.NewTestLogger(t))

	applicant, err := c.Extract(context.Background(), "text")
	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
	assert.Equal(t, "Jean Dupont", applicant.Name)
}
