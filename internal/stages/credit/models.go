// internal/stages/credit/models.go
package credit

// Request is the wire input of the credit collaborator.
type Request struct {
	MonthlyIncome   float64 `json:"monthly_income"`
	MonthlyExpenses float64 `json:"monthly_expenses"`
	LoanAmount      float64 `json:"loan_amount"`
}

// Response is the collaborator's wire output. DebtRatio and Details are
// optional; the client recomputes the ratio locally when absent.
type Response struct {
	CreditScore float64  `json:"credit_score"`
	DebtRatio   *float64 `json:"debt_ratio,omitempty"`
	Details     string   `json:"details,omitempty"`
}
