// internal/models/applicant_test.go
package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApplicantFromPayload_FullPayload(t *testing.T) {
	payload := map[string]interface{}{
		"name":                 "Jean Dupont",
		"address":              "12 rue de la Paix",
		"email":                "jean@example.org",
		"phone":                "+33612345678",
		"loan_amount":          250000.0,
		"loan_duration_years":  20.0,
		"monthly_income":       6500.0,
		"monthly_expenses":     1500.0,
		"property_description": "maison à deux étages",
		"employment_stable":    false,
	}

	rec := ApplicantFromPayload(payload)

	assert.Equal(t, "Jean Dupont", rec.Name)
	assert.Equal(t, 250000.0, rec.LoanAmount)
	assert.Equal(t, 20, rec.LoanDurationYears)
	assert.False(t, rec.EmploymentStableOrDefault())
}

func TestApplicantFromPayload_EmptyPayloadDefaults(t *testing.T) {
	rec := ApplicantFromPayload(map[string]interface{}{})

	assert.Equal(t, UnknownName, rec.Name)
	assert.Equal(t, UnspecifiedAddress, rec.Address)
	assert.Equal(t, UnknownEmail, rec.Email)
	assert.Equal(t, UnknownPhone, rec.Phone)
	assert.Equal(t, 0.0, rec.LoanAmount)
	assert.Equal(t, 0.0, rec.MonthlyIncome)
	assert.Nil(t, rec.EmploymentStable)
	assert.True(t, rec.EmploymentStableOrDefault(), "missing employment flag defaults to stable")
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want float64
	}{
		{"float", 250000.0, 250000},
		{"int", 42, 42},
		{"numeric string", "6500", 6500},
		{"string with commas", "250,000", 250000},
		{"string with spaces", " 1500 ", 1500},
		{"non-numeric string", "abc", 0},
		{"nil", nil, 0},
		{"bool", true, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CoerceFloat(tt.raw))
		})
	}
}

func TestCoerceString(t *testing.T) {
	assert.Equal(t, "Jean", CoerceString("Jean", "unknown"))
	assert.Equal(t, "Jean", CoerceString("  Jean  ", "unknown"))
	assert.Equal(t, "unknown", CoerceString("", "unknown"))
	assert.Equal(t, "unknown", CoerceString("   ", "unknown"))
	assert.Equal(t, "unknown", CoerceString(nil, "unknown"))
	assert.Equal(t, "unknown", CoerceString(42, "unknown"))
}
