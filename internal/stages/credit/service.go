// internal/stages/credit/service.go
package credit

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"

	"loan-evaluation/internal/common/logger"
)

const (
	baseScore     = 65.0
	maxScore      = 100.0
	minScore      = 30.0
	surplusPerPt  = 250.0
	maxSurplusPts = 20.0
)

// Service implements the credit collaborator. The score lives on a 0-100
// scale: base 65, a surplus bonus of one point per 250 of monthly surplus
// capped at 20, and stepped penalties for high debt ratios, clamped to
// [30, 100].
type Service struct {
	logger logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{logger: log}
}

// Assess computes the score and debt ratio for one applicant.
func (s *Service) Assess(income, expenses float64) Response {
	ratio := DebtRatio(income, expenses)

	score := baseScore
	surplus := math.Max(0, income-expenses)
	score += math.Min(maxSurplusPts, math.Floor(surplus/surplusPerPt))

	switch {
	case ratio > 0.6:
		score -= 20
	case ratio > 0.5:
		score -= 10
	case ratio > 0.4:
		score -= 5
	}

	score = math.Min(maxScore, math.Max(minScore, score))

	return Response{
		CreditScore: score,
		DebtRatio:   &ratio,
		Details:     fmt.Sprintf("income=%.0f expenses=%.0f debt_ratio=%.2f", income, expenses, ratio),
	}
}

// RegisterRoutes mounts the collaborator endpoint on the given router.
func (s *Service) RegisterRoutes(router gin.IRouter) {
	router.POST("/credit-check", s.handleCheck)
}

func (s *Service) handleCheck(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.WithError(err).Warn("credit-check request body unreadable")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := s.Assess(req.MonthlyIncome, req.MonthlyExpenses)
	s.logger.WithFields(map[string]interface{}{
		"credit_score": resp.CreditScore,
		"debt_ratio":   *resp.DebtRatio,
	}).Debug("credit assessment completed")

	c.JSON(http.StatusOK, resp)
}
