// internal/stages/credit/service_test.go
package credit

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loan-evaluation/internal/common/logger"
)

func TestService_Assess(t *testing.T) {
	s := NewService(logger.NewTestLogger(t))

	tests := []struct {
		name      string
		income    float64
		expenses  float64
		wantScore float64
		wantRatio float64
	}{
		// base 65 + floor(5000/250)=20 bonus, ratio 0.23, no penalty
		{"comfortable surplus", 6500, 1500, 85, 0.23},
		// base 65 + floor(500/250)=2, ratio 0.75 > 0.6 penalty -20
		{"high debt ratio", 2000, 1500, 47, 0.75},
		// base 65 + 0, ratio 1.0 default, penalty -20
		{"zero income", 0, 1000, 45, 1.0},
		// base 65 + floor(1000/250)=4, ratio 0.5 triggers only the >0.4 step
		{"ratio exactly 0.5", 2000, 1000, 64, 0.5},
		// surplus bonus caps at 20 even for very high income
		{"bonus capped", 100000, 1000, 85, 0.01},
		// base 65, expenses above income, ratio 1.5 penalty -20
		{"negative surplus", 1000, 1500, 45, 1.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Assess(tt.income, tt.expenses)
			assert.Equal(t, tt.wantScore, resp.CreditScore)
			require.NotNil(t, resp.DebtRatio)
			assert.InDelta(t, tt.wantRatio, *resp.DebtRatio, 0.001)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestService_Assess_ScoreBounds(t *testing.T) {
	s := NewService(logger.NewTestLogger(t))

	low := s.Assess(0, 1e9)
	assert.GreaterOrEqual(t, low.CreditScore, 30.0)

	high := s.Assess(1e9, 0)
	assert.LessOrEqual(t, high.CreditScore, 100.0)
}

func TestService_HandleCheck(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewService(logger.NewTestLogger(t)).RegisterRoutes(router)

	body, _ := json.Marshal(Request{MonthlyIncome: 6500, MonthlyExpenses: 1500, LoanAmount: 200000})
	req := httptest.NewRequest(http.MethodPost, "/credit-check", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 85.0, resp.CreditScore)
}

func TestDebtRatio(t *testing.T) {
	assert.Equal(t, 1.0, DebtRatio(0, 500))
	assert.Equal(t, 1.0, DebtRatio(-100, 500))
	assert.Equal(t, 0.23, DebtRatio(6500, 1500))
	assert.Equal(t, 0.0, DebtRatio(3000, 0))
}
