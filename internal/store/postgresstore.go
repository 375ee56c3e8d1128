// internal/store/postgresstore.go
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"loan-evaluation/internal/models"
)

// PostgresStore keeps each record as a JSONB row keyed by request
// identifier. The upsert keeps Save idempotent by id.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the backing table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS evaluation_requests (
			request_id TEXT PRIMARY KEY,
			record     JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, record *models.EvaluationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	query := `
		INSERT INTO evaluation_requests (request_id, record)
		VALUES ($1, $2)
		ON CONFLICT (request_id) DO UPDATE SET record = EXCLUDED.record`

	if _, err := s.db.ExecContext(ctx, query, record.RequestID, data); err != nil {
		return fmt.Errorf("upsert record: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, requestID string) (*models.EvaluationRecord, error) {
	query := `SELECT record FROM evaluation_requests WHERE request_id = $1`

	var data []byte
	err := s.db.QueryRowContext(ctx, query, requestID).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("select record: %w", err)
	}

	var record models.EvaluationRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}
