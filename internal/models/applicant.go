// internal/models/applicant.go
package models

import (
	"strconv"
	"strings"
)

// Sentinel values used instead of empty strings so persisted records never
// carry nulls.
const (
	UnknownName        = "unknown"
	UnspecifiedAddress = "unspecified"
	UnknownEmail       = "unknown"
	UnknownPhone       = "unknown"
)

// ApplicantRecord is the typed result of the extraction stage. It is built
// once per request and never mutated afterwards. Numeric fields always hold
// a value (zero when the text gave none) so downstream arithmetic never
// fails on missing data.
type ApplicantRecord struct {
	Name                string  `json:"name"`
	Address             string  `json:"address"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	LoanAmount          float64 `json:"loan_amount"`
	LoanDurationYears   int     `json:"loan_duration_years"`
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	PropertyDescription string  `json:"property_description"`
	EmploymentStable    *bool   `json:"employment_stable,omitempty"`
}

// DefaultApplicantRecord returns a fully-defaulted record, used when the
// extraction stage fails or returns garbage. Extraction failure is non-fatal
// to a submission.
func DefaultApplicantRecord() ApplicantRecord {
	return ApplicantRecord{
		Name:                UnknownName,
		Address:             UnspecifiedAddress,
		Email:               UnknownEmail,
		Phone:               UnknownPhone,
		PropertyDescription: UnspecifiedAddress,
	}
}

// EmploymentStableOrDefault resolves the optional flag; absent means stable.
func (a ApplicantRecord) EmploymentStableOrDefault() bool {
	if a.EmploymentStable == nil {
		return true
	}
	return *a.EmploymentStable
}

// ApplicantFromPayload coerces a loosely-typed extraction payload into a
// typed record. Type ambiguity is resolved here, at the edge, exactly once.
func ApplicantFromPayload(payload map[string]interface{}) ApplicantRecord {
	rec := DefaultApplicantRecord()

	rec.Name = CoerceString(payload["name"], UnknownName)
	rec.Address = CoerceString(payload["address"], UnspecifiedAddress)
	rec.Email = CoerceString(payload["email"], UnknownEmail)
	rec.Phone = CoerceString(payload["phone"], UnknownPhone)
	rec.PropertyDescription = CoerceString(payload["property_description"], UnspecifiedAddress)

	rec.LoanAmount = CoerceFloat(payload["loan_amount"])
	rec.MonthlyIncome = CoerceFloat(payload["monthly_income"])
	rec.MonthlyExpenses = CoerceFloat(payload["monthly_expenses"])
	rec.LoanDurationYears = int(CoerceFloat(payload["loan_duration_years"]))

	if v, ok := payload["employment_stable"].(bool); ok {
		rec.EmploymentStable = &v
	}

	return rec
}

// CoerceFloat converts any JSON-decoded value to a float64, defaulting to 0
// for anything missing or non-numeric.
func CoerceFloat(raw interface{}) float64 {
	switch v := raw.(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		cleaned := strings.ReplaceAll(v, ",", "")
		cleaned = strings.TrimSpace(cleaned)
		if f, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return f
		}
		return 0
	default:
		return 0
	}
}

// CoerceString returns raw as a non-empty string or the given sentinel.
func CoerceString(raw interface{}, sentinel string) string {
	if s, ok := raw.(string); ok {
		if trimmed := strings.TrimSpace(s); trimmed != "" {
			return trimmed
		}
	}
	return sentinel
}
