// internal/models/evaluation.go
package models

import "time"

// CreditAssessment is the typed output of the credit stage.
type CreditAssessment struct {
	// Score is on a 0-100 scale.
	Score     float64 `json:"score"`
	DebtRatio float64 `json:"debt_ratio"`
	Details   string  `json:"details"`
}

// PropertyValuation is the typed output of the valuation stage.
type PropertyValuation struct {
	EstimatedValue float64 `json:"estimated_value"`
	Compliant      bool    `json:"compliant"`
	Details        string  `json:"details"`
}

// RiskProfile is computed by the policy engine from the three upstream
// outputs. Ratios default to 1 (maximal risk) when a denominator is zero;
// the risk score is always within [0,100].
type RiskProfile struct {
	LoanToValue        float64 `json:"loan_to_value"`
	DebtToIncome       float64 `json:"debt_to_income"`
	MonthlySavings     float64 `json:"monthly_savings"`
	RiskScore          float64 `json:"risk_score"`
	DefaultProbability float64 `json:"default_probability"`
}

// Decision is the terminal artifact of a submission. When approved, reasons
// and recommendations are purely affirmative; when rejected, at least one
// reason is present.
type Decision struct {
	Approved        bool     `json:"approved"`
	InterestRate    float64  `json:"interest_rate"`
	Reasons         []string `json:"reasons"`
	Recommendations []string `json:"recommendations"`
	Message         string   `json:"message"`
}

// Record lifecycle status. Records are written exactly once.
const StatusDone = "DONE"

// EvaluationRecord is the persisted unit, owned exclusively by the request
// store; created once at submission, never mutated, retrievable
// indefinitely by identifier.
type EvaluationRecord struct {
	RequestID string            `json:"request_id"`
	Timestamp time.Time         `json:"timestamp"`
	Text      string            `json:"text"`
	Applicant ApplicantRecord   `json:"applicant"`
	Credit    CreditAssessment  `json:"credit"`
	Property  PropertyValuation `json:"property"`
	Risk      RiskProfile       `json:"risk"`
	Decision  Decision          `json:"decision"`
	Status    string            `json:"status"`
}

// DecisionSummary is the approval/message/rate triple returned to callers.
type DecisionSummary struct {
	Approved     bool     `json:"approved"`
	Message      string   `json:"message"`
	InterestRate *float64 `json:"interest_rate"`
}

// SubmissionSummary is the well-formed response of a successful submission.
type SubmissionSummary struct {
	RequestID       string          `json:"request_id"`
	Timestamp       string          `json:"timestamp"` // ISO-8601
	ApplicantName   string          `json:"applicant_name"`
	DecisionSummary DecisionSummary `json:"decision_summary"`
}

// ErrorResponse is the structured error result for a failed submission.
type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// NotFoundResponse is the structured payload for a lookup miss.
type NotFoundResponse struct {
	Status string `json:"status"`
	Reason string `json:"reason"`
}
