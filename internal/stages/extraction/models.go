// internal/stages/extraction/models.go
package extraction

// Request is the wire input of the extraction collaborator.
type Request struct {
	Text string `json:"text"`
}

// Payload is the collaborator's wire output. The collaborator itself
// defaults missing fields; the client still treats every field as optional
// and coerces at the edge.
type Payload struct {
	Name                string  `json:"name"`
	Address             string  `json:"address"`
	Email               string  `json:"email"`
	Phone               string  `json:"phone"`
	LoanAmount          float64 `json:"loan_amount"`
	LoanDurationYears   float64 `json:"loan_duration_years"`
	MonthlyIncome       float64 `json:"monthly_income"`
	MonthlyExpenses     float64 `json:"monthly_expenses"`
	PropertyDescription string  `json:"property_description"`
}
