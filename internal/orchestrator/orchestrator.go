// internal/orchestrator/orchestrator.go
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	pipelineerrors "loan-evaluation/internal/common/errors"
	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/common/metrics"
	"loan-evaluation/internal/models"
	"loan-evaluation/internal/policy"
	"loan-evaluation/internal/store"
)

// Identifier generation retries on collision before giving up.
const maxIDAttempts = 5

// ExtractionClient produces the applicant record from free-form text.
type ExtractionClient interface {
	Extract(ctx context.Context, text string) (models.ApplicantRecord, error)
}

// CreditClient assesses solvency.
type CreditClient interface {
	Check(ctx context.Context, applicant models.ApplicantRecord) (models.CreditAssessment, error)
}

// ValuationClient estimates the property value.
type ValuationClient interface {
	Evaluate(ctx context.Context, applicant models.ApplicantRecord) (models.PropertyValuation, error)
}

// NotificationSender delivers the decision to the applicant. Failures are
// swallowed by the orchestrator after logging.
type NotificationSender interface {
	Send(ctx context.Context, record *models.EvaluationRecord) error
}

// AuditSink receives completed records, best-effort.
type AuditSink interface {
	Index(ctx context.Context, record *models.EvaluationRecord)
}

// Orchestrator runs the full evaluation pipeline for one submission:
// extraction, then credit and valuation concurrently, then risk analysis and
// policy, then persistence and notification. It owns no state beyond its
// collaborators and is safe for concurrent use.
type Orchestrator struct {
	extraction ExtractionClient
	credit     CreditClient
	valuation  ValuationClient
	notifier   NotificationSender
	audit      AuditSink
	store      store.Store
	engine     *policy.Engine
	logger     logger.Logger
}

func New(
	extraction ExtractionClient,
	credit CreditClient,
	valuation ValuationClient,
	notifier NotificationSender,
	audit AuditSink,
	requestStore store.Store,
	engine *policy.Engine,
	log logger.Logger,
) *Orchestrator {
	return &Orchestrator{
		extraction: extraction,
		credit:     credit,
		valuation:  valuation,
		notifier:   notifier,
		audit:      audit,
		store:      requestStore,
		engine:     engine,
		logger:     log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// SubmitRequest evaluates one loan request end to end. It either returns a
// well-formed summary or a structured pipeline error; it never panics
// outward and it never persists a partially evaluated record.
func (o *Orchestrator) SubmitRequest(ctx context.Context, text string) (summary *models.SubmissionSummary, err error) {
	defer func() {
		if r := recover(); r != nil {
			o.logger.Error("pipeline panic", map[string]interface{}{"panic": fmt.Sprint(r)})
			summary = nil
			err = pipelineerrors.NewPipelineFailedError(fmt.Errorf("internal failure: %v", r))
			metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		}
	}()

	applicant, err := o.extraction.Extract(ctx, text)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, pipelineerrors.NewStageUnavailableError("extraction", err)
	}

	var (
		wg           sync.WaitGroup
		credit       models.CreditAssessment
		property     models.PropertyValuation
		creditErr    error
		valuationErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		credit, creditErr = o.credit.Check(ctx, applicant)
	}()
	go func() {
		defer wg.Done()
		property, valuationErr = o.valuation.Evaluate(ctx, applicant)
	}()
	wg.Wait()

	if creditErr != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, pipelineerrors.NewStageUnavailableError("credit", creditErr)
	}
	if valuationErr != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, pipelineerrors.NewStageUnavailableError("valuation", valuationErr)
	}

	in := policy.Input{
		LoanAmount:       applicant.LoanAmount,
		MonthlyIncome:    applicant.MonthlyIncome,
		MonthlyExpenses:  applicant.MonthlyExpenses,
		CreditScore:      credit.Score,
		DebtRatio:        credit.DebtRatio,
		PropertyValue:    property.EstimatedValue,
		EmploymentStable: applicant.EmploymentStableOrDefault(),
	}
	risk := o.engine.AnalyzeRisk(in)
	decision := o.engine.ApplyPolicies(in, risk)
	metrics.DecisionsTotal.WithLabelValues(fmt.Sprintf("%t", decision.Approved)).Inc()

	record := &models.EvaluationRecord{
		Timestamp: time.Now().UTC(),
		Text:      text,
		Applicant: applicant,
		Credit:    credit,
		Property:  property,
		Risk:      risk,
		Decision:  decision,
		Status:    models.StatusDone,
	}

	if err := o.persist(ctx, record); err != nil {
		metrics.SubmissionsTotal.WithLabelValues("error").Inc()
		return nil, pipelineerrors.NewStoreWriteFailedError(err)
	}

	o.audit.Index(ctx, record)

	// Notification failures never fail an already-persisted submission.
	if err := o.notifier.Send(ctx, record); err != nil {
		o.logger.WithError(err).WithFields(map[string]interface{}{
			"request_id": record.RequestID,
		}).Warn("decision notification failed")
	}

	metrics.SubmissionsTotal.WithLabelValues("ok").Inc()
	o.logger.WithFields(map[string]interface{}{
		"request_id": record.RequestID,
		"approved":   decision.Approved,
	}).Info("loan request evaluated")

	rate := decision.InterestRate
	result := &models.SubmissionSummary{
		RequestID:     record.RequestID,
		Timestamp:     record.Timestamp.Format(time.RFC3339),
		ApplicantName: applicant.Name,
		DecisionSummary: models.DecisionSummary{
			Approved: decision.Approved,
			Message:  decision.Message,
		},
	}
	if decision.Approved {
		result.DecisionSummary.InterestRate = &rate
	}
	return result, nil
}

// GetResult fetches a previously persisted evaluation by identifier.
func (o *Orchestrator) GetResult(ctx context.Context, requestID string) (*models.EvaluationRecord, error) {
	record, err := o.store.Get(ctx, requestID)
	if err != nil {
		if err == store.ErrNotFound {
			return nil, pipelineerrors.NewRequestNotFoundError(requestID)
		}
		return nil, pipelineerrors.NewPipelineFailedError(err)
	}
	return record, nil
}

// persist assigns a fresh identifier and saves the record, retrying with a
// new identifier if the store already holds one by that id.
func (o *Orchestrator) persist(ctx context.Context, record *models.EvaluationRecord) error {
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		record.RequestID = NewRequestID()
		if _, err := o.store.Get(ctx, record.RequestID); err == nil {
			continue
		} else if err != store.ErrNotFound {
			return err
		}
		return o.store.Save(ctx, record)
	}
	return fmt.Errorf("could not allocate a unique request id after %d attempts", maxIDAttempts)
}

// NewRequestID returns an identifier like REQ-9F2C41AB.
func NewRequestID() string {
	raw := strings.ReplaceAll(uuid.NewString(), "-", "")
	return "REQ-" + strings.ToUpper(raw[:8])
}
