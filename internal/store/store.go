// internal/store/store.go
package store

import (
	"context"
	"errors"

	"loan-evaluation/internal/models"
)

// ErrNotFound marks a lookup miss. Callers translate it into the structured
// not-found payload; it is an expected outcome, not a fault.
var ErrNotFound = errors.New("request not found")

// Store maps request identifiers to evaluation records. Save is an upsert by
// identifier; implementations serialize writes so two submissions completing
// near-simultaneously never lose an update.
type Store interface {
	Save(ctx context.Context, record *models.EvaluationRecord) error
	Get(ctx context.Context, requestID string) (*models.EvaluationRecord, error)
}
