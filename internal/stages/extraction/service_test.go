// internal/stages/extraction/service_test.go
package extraction

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

const frenchRequestText = `Nom du Client: Jean Dupont
Adresse: 12 rue de la Paix, 75002 Paris
Email: jean.dupont@example.org
Numéro de Téléphone: +33 6 12 34 56 78
Montant du Prêt Demandé: 250 000 €
Durée du Prêt: 20 ans
Description de la Propriété: Maison à deux étages dans un quartier résidentiel
Revenu Mensuel: 6 500 €
Dépenses Mensuelles: 1 500 €`

const englishRequestText = `Client Name: John Doe
Address: 4 Main Street, Springfield
Email: john.doe@example.org
Phone Number: +1 555 0100
Loan Amount: 250,000 EUR
Loan Duration: 15 years
Property Description: Two-storey house in a residential area
Monthly Income: 6500
Monthly Expenses: 1500`

func TestService_Extract_FrenchLabels(t *testing.T) {
	s := NewService(logger.NewTestLogger(t))

	p := s.Extract(frenchRequestText)

	assert.Equal(t, "Jean Dupont", p.Name)
	assert.Equal(t, "12 rue de la Paix, 75002 Paris", p.Address)
	assert.Equal(t, "jean.dupont@example.org", p.Email)
	assert.Equal(t, "+33 6 12 34 56 78", p.Phone)
	assert.Equal(t, 250000.0, p.LoanAmount)
	assert.Equal(t, 20.0, p.LoanDurationYears)
	assert.Equal(t, "Maison à deux étages dans un quartier résidentiel", p.PropertyDescription)
	assert.Equal(t, 6500.0, p.MonthlyIncome)
	assert.Equal(t, 1500.0, p.MonthlyExpenses)
}

func TestService_Extract_EnglishLabels(t *testing.T) {
	s := NewService(logger.NewTestLogger(t))

	p := s.Extract(englishRequestText)

	assert.Equal(t, "John Doe", p.Name)
	assert.Equal(t, "john.doe@example.org", p.Email)
	assert.Equal(t, 250000.0, p.LoanAmount)
	assert.Equal(t, 15.0, p.LoanDurationYears)
	assert.Equal(t, 6500.0, p.MonthlyIncome)
}

func TestService_Extract_EmptyTextDefaults(t *testing.T) {
	s := NewService(logger.NewTestLogger(t))

	p := s.Extract("")

	assert.Equal(t, "unknown", p.Name)
	assert.Equal(t, "unspecified", p.Address)
	assert.Equal(t, "unknown", p.Email)
	assert.Equal(t, 0.0, p.LoanAmount)
	assert.Equal(t, 0.0, p.MonthlyIncome)
}

func TestParseMoney(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"250 000 €", 250000},
		{"250,000 EUR", 250000},
		{"250000", 250000},
		{"1 234 567", 1234567},
		{"", 0},
		{"no digits", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, parseMoney(tt.in))
		})
	}
}

func TestService_HandleExtract(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewService(logger.NewTestLogger(t)).RegisterRoutes(router)

	body, _ := json.Marshal(Request{Text: frenchRequestText})
	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var p Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.Equal(t, "Jean Dupont", p.Name)
	assert.Equal(t, 250000.0, p.LoanAmount)
}

func TestService_HandleExtract_BadBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewService(logger.NewTestLogger(t)).RegisterRoutes(router)

	req := httptest.NewRequest(http.MethodPost, "/extract", bytes.NewReader([]byte("not json")))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
