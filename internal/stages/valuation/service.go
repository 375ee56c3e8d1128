// internal/stages/valuation/service.go
package valuation

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"loan-evaluation/internal/common/logger"
)

const (
	baseValue        = 200000.0
	twoStoreyBonus   = 20000.0
	residentialBonus = 15000.0
)

// Descriptions are matched case-insensitively against French and English
// keywords.
var (
	twoStoreyKeywords   = []string{"deux étages", "two-storey", "two storey", "two-story", "two story"}
	residentialKeywords = []string{"quartier résidentiel", "residential neighbourhood", "residential neighborhood", "residential area"}
)

// Service implements the valuation collaborator. Estimates start from a flat
// base value with bonuses driven by the property description; compliance is
// always granted.
type Service struct {
	logger logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{logger: log}
}

// Evaluate estimates a market value for the described property.
func (s *Service) Evaluate(description string) Response {
	desc := strings.ToLower(description)

	value := baseValue
	if containsAny(desc, twoStoreyKeywords) {
		value += twoStoreyBonus
	}
	if containsAny(desc, residentialKeywords) {
		value += residentialBonus
	}

	return Response{
		EstimatedValue: value,
		Compliant:      true,
		Details:        fmt.Sprintf("description_length=%d", len(desc)),
	}
}

// RegisterRoutes mounts the collaborator endpoint on the given router.
func (s *Service) RegisterRoutes(router gin.IRouter) {
	router.POST("/evaluate-property", s.handleEvaluate)
}

func (s *Service) handleEvaluate(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.WithError(err).Warn("evaluate-property request body unreadable")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	resp := s.Evaluate(req.PropertyDescription)
	s.logger.WithFields(map[string]interface{}{
		"estimated_value": resp.EstimatedValue,
	}).Debug("property valuation completed")

	c.JSON(http.StatusOK, resp)
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
