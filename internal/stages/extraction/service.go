// internal/stages/extraction/service.go
package extraction

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/models"
)

// Field patterns accept both French and English labels. The capture group is
// everything after the colon on the labelled line.
var (
	namePattern     = regexp.MustCompile(`(?i)(?:Nom du Client|Client Name|Name)\s*:\s*(.+)`)
	addressPattern  = regexp.MustCompile(`(?i)(?:Adresse|Address)\s*:\s*(.+)`)
	emailPattern    = regexp.MustCompile(`(?i)Email\s*:\s*(\S+)`)
	phonePattern    = regexp.MustCompile(`(?i)(?:Num[ée]ro de T[ée]l[ée]phone|Phone(?: Number)?)\s*:\s*(.+)`)
	amountPattern   = regexp.MustCompile(`(?i)(?:Montant du Pr[êe]t Demand[ée]|Loan Amount)\s*:\s*([0-9.,\sA-Za-z€]+)`)
	durationPattern = regexp.MustCompile(`(?i)(?:Dur[ée]e du Pr[êe]t|Loan Duration)\s*:\s*([0-9]+)\s*(?:ans|years?)`)
	propertyPattern = regexp.MustCompile(`(?i)(?:Description de la Propri[ée]t[ée]|Property Description)\s*:\s*(.+)`)
	incomePattern   = regexp.MustCompile(`(?i)(?:Revenu Mensuel|Monthly Income)\s*:\s*([0-9.,\sA-Za-z€]+)`)
	expensesPattern = regexp.MustCompile(`(?i)(?:D[ée]penses Mensuelles|Monthly Expenses)\s*:\s*([0-9.,\sA-Za-z€]+)`)

	digitsPattern = regexp.MustCompile(`\d+`)
)

// Service implements the extraction collaborator. It pulls labelled fields
// out of free-form request text; every field is optional and falls back to
// its sentinel or zero value.
type Service struct {
	logger logger.Logger
}

func NewService(log logger.Logger) *Service {
	return &Service{logger: log}
}

// Extract parses the request text into the wire payload.
func (s *Service) Extract(text string) Payload {
	p := Payload{
		Name:                findField(namePattern, text, models.UnknownName),
		Address:             findField(addressPattern, text, models.UnspecifiedAddress),
		Email:               findField(emailPattern, text, models.UnknownEmail),
		Phone:               findField(phonePattern, text, models.UnknownPhone),
		PropertyDescription: findField(propertyPattern, text, models.UnspecifiedAddress),
	}

	p.LoanAmount = parseMoney(findField(amountPattern, text, ""))
	p.MonthlyIncome = parseMoney(findField(incomePattern, text, ""))
	p.MonthlyExpenses = parseMoney(findField(expensesPattern, text, ""))

	if m := durationPattern.FindStringSubmatch(text); m != nil {
		if years, err := strconv.Atoi(m[1]); err == nil {
			p.LoanDurationYears = float64(years)
		}
	}

	return p
}

// RegisterRoutes mounts the collaborator endpoint on the given router.
func (s *Service) RegisterRoutes(router gin.IRouter) {
	router.POST("/extract", s.handleExtract)
}

func (s *Service) handleExtract(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.logger.WithError(err).Warn("extract request body unreadable")
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	payload := s.Extract(req.Text)
	s.logger.WithFields(map[string]interface{}{
		"name":        payload.Name,
		"loan_amount": payload.LoanAmount,
	}).Debug("extraction completed")

	c.JSON(http.StatusOK, payload)
}

func findField(pattern *regexp.Regexp, text, fallback string) string {
	if m := pattern.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			return v
		}
	}
	return fallback
}

// parseMoney strips currency markers and concatenates the digit runs, so
// "250 000 €", "250,000 EUR" and "250000" all come out as 250000.
func parseMoney(raw string) float64 {
	if raw == "" {
		return 0
	}
	cleaned := strings.NewReplacer("€", "", "EUR", "", ",", "").Replace(raw)
	digits := digitsPattern.FindAllString(cleaned, -1)
	if len(digits) == 0 {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Join(digits, ""), 64)
	if err != nil {
		return 0
	}
	return v
}
