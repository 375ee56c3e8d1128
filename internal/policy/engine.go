// internal/policy/engine.go
package policy

import (
	"fmt"
	"math"

	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/models"
)

// Institutional thresholds. Approval requires every rule to pass.
const (
	MinCreditScore  = 55.0
	MaxLoanToValue  = 0.85
	MaxDebtToIncome = 0.40
	MinRiskScore    = 40.0

	BaseInterestRate = 3.0
)

// ApprovedReason is the single affirmative reason emitted on approval.
const ApprovedReason = "meets all requirements"

// Input carries the merged upstream signals the engine works from. All
// numeric fields are already coerced (missing means zero) and the
// employment flag already defaulted (missing means stable).
type Input struct {
	LoanAmount       float64
	MonthlyIncome    float64
	MonthlyExpenses  float64
	CreditScore      float64 // 0-100 scale
	DebtRatio        float64 // expenses over income, from the credit stage
	PropertyValue    float64
	EmploymentStable bool
}

// Engine converts raw financial signals into an approve/reject outcome with
// explanations and a risk-adjusted interest rate.
type Engine struct {
	logger logger.Logger
}

func NewEngine(log logger.Logger) *Engine {
	return &Engine{
		logger: log.WithFields(map[string]interface{}{"component": "policy-engine"}),
	}
}

// AnalyzeRisk derives the risk profile. Ratios with a zero denominator
// default to 1, the worst case. Credit history carries weight 0.5,
// collateral coverage 0.3, affordability 0.15 and employment stability
// 0.05; every sub-term is clamped to [0,1] before weighting so the
// composite always lands in [0,100].
func (e *Engine) AnalyzeRisk(in Input) models.RiskProfile {
	savings := math.Max(0, in.MonthlyIncome-in.MonthlyExpenses)

	debtToIncome := 1.0
	if in.MonthlyIncome > 0 {
		debtToIncome = in.LoanAmount / (in.MonthlyIncome * 12)
	}

	loanToValue := 1.0
	if in.PropertyValue > 0 {
		loanToValue = in.LoanAmount / in.PropertyValue
	}

	employment := 0.0
	if in.EmploymentStable {
		employment = 1.0
	}

	composite := 0.5*clamp01(in.CreditScore/100) +
		0.3*clamp01(1-loanToValue) +
		0.15*clamp01(1-debtToIncome) +
		0.05*employment

	riskScore := round2(100 * clamp01(composite))

	profile := models.RiskProfile{
		LoanToValue:        loanToValue,
		DebtToIncome:       debtToIncome,
		MonthlySavings:     savings,
		RiskScore:          riskScore,
		DefaultProbability: round2(100 - riskScore),
	}

	e.logger.Debug("risk profile computed", map[string]interface{}{
		"riskScore":    profile.RiskScore,
		"loanToValue":  profile.LoanToValue,
		"debtToIncome": profile.DebtToIncome,
	})

	return profile
}

// ApplyPolicies evaluates the five institutional rules in a fixed order.
// Every violated rule contributes a reason and a recommendation; the
// applicant sees all of them, not just the first.
func (e *Engine) ApplyPolicies(in Input, profile models.RiskProfile) models.Decision {
	var reasons []string
	var recommendations []string

	if in.CreditScore < MinCreditScore {
		reasons = append(reasons, fmt.Sprintf("credit score too low (%.2f < %.0f)", in.CreditScore, MinCreditScore))
		recommendations = append(recommendations, "improve credit score")
	}
	if profile.LoanToValue > MaxLoanToValue {
		reasons = append(reasons, fmt.Sprintf("loan-to-value ratio too high (%.2f > %.2f)", profile.LoanToValue, MaxLoanToValue))
		recommendations = append(recommendations, "increase down payment")
	}
	// The affordability rule judges the monthly debt ratio reported by the
	// credit stage; the annualized loan ratio only feeds the composite.
	if in.DebtRatio > MaxDebtToIncome {
		reasons = append(reasons, fmt.Sprintf("debt-to-income ratio too high (%.2f > %.2f)", in.DebtRatio, MaxDebtToIncome))
		recommendations = append(recommendations, "reduce expenses or increase income")
	}
	if profile.RiskScore < MinRiskScore {
		reasons = append(reasons, fmt.Sprintf("composite risk score too low (%.2f < %.0f)", profile.RiskScore, MinRiskScore))
		recommendations = append(recommendations, "improve overall financial stability")
	}
	if !in.EmploymentStable {
		reasons = append(reasons, "employment situation not stable")
		recommendations = append(recommendations, "stabilize employment or provide additional guarantees")
	}

	approved := len(reasons) == 0
	rate := InterestRate(profile.RiskScore)

	var message string
	if approved {
		reasons = []string{ApprovedReason}
		recommendations = []string{"maintain current financial standing"}
		message = fmt.Sprintf("loan approved at %.2f%% interest", rate)
	} else {
		message = fmt.Sprintf("loan rejected: %d rule(s) violated", len(reasons))
	}

	decision := models.Decision{
		Approved:        approved,
		InterestRate:    rate,
		Reasons:         reasons,
		Recommendations: recommendations,
		Message:         message,
	}

	e.logger.Info("policies applied", map[string]interface{}{
		"approved":     approved,
		"interestRate": rate,
		"riskScore":    profile.RiskScore,
		"violations":   len(reasons),
	})

	return decision
}

// InterestRate maps a risk score to a rate, strictly monotonic in risk:
// base rate plus a linear risk adjustment, unbounded above as the score
// approaches zero.
func InterestRate(riskScore float64) float64 {
	return round2(BaseInterestRate + (100-riskScore)/20)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
