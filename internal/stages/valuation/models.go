// internal/stages/valuation/models.go
package valuation

// Request is the wire input of the valuation collaborator.
type Request struct {
	PropertyDescription string  `json:"property_description"`
	LoanAmount          float64 `json:"loan_amount"`
}

// Response is the collaborator's wire output.
type Response struct {
	EstimatedValue float64 `json:"property_value"`
	Compliant      bool    `json:"compliant"`
	Details        string  `json:"details,omitempty"`
}
