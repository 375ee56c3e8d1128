// internal/stages/valuation/service_test.go
package valuation

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

func TestService_Evaluate(t *testing.T) {
	s := NewService(logger.NewTestLogger(t))

	tests := []struct {
		name        string
		description string
		want        float64
	}{
		{"empty description", "", 200000},
		{"plain house", "petite maison de plain-pied", 200000},
		{"two-storey french", "Maison à deux étages avec jardin", 220000},
		{"two-storey english", "A two-storey house with a garden", 220000},
		{"residential french", "appartement dans un quartier résidentiel", 215000},
		{"residential english", "flat in a residential area", 215000},
		{"both bonuses", "maison à deux étages dans un quartier résidentiel", 235000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := s.Evaluate(tt.description)
			assert.Equal(t, tt.want, resp.EstimatedValue)
			assert.True(t, resp.Compliant)
			assert.NotEmpty(t, resp.Details)
		})
	}
}

func TestService_HandleEvaluate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewService(logger.NewTestLogger(t)).RegisterRoutes(router)

	body, _ := json.Marshal(Request{PropertyDescription: "two-storey house in a residential area"})
	req := httptest.NewRequest(http.MethodPost, "/evaluate-property", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 235000.0, resp.EstimatedValue)
	assert.True(t, resp.Compliant)
}
