// internal/store/filestore.go
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"loan-evaluation/internal/common/logger"
	"loan-evaluation/internal/models"
)

// document is the persisted layout: a single keyed collection.
type document struct {
	Requests map[string]*models.EvaluationRecord `json:"requests"`
}

// FileStore keeps the whole collection in one JSON document and rewrites it
// on every save. The mutex makes the read-modify-write cycle a critical
// section. Structural corruption heals by reinitializing to an empty
// collection: availability wins over strict durability here.
type FileStore struct {
	path   string
	mu     sync.Mutex
	logger logger.Logger
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"component": "file-store", "path": path}),
	}
}

func (s *FileStore) Save(_ context.Context, record *models.EvaluationRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	doc.Requests[record.RequestID] = record
	return s.write(doc)
}

func (s *FileStore) Get(_ context.Context, requestID string) (*models.EvaluationRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.load()
	record, ok := doc.Requests[requestID]
	if !ok {
		return nil, ErrNotFound
	}
	return record, nil
}

// load reads the document, repairing it when absent or malformed.
func (s *FileStore) load() *document {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("store unreadable, reinitializing", map[string]interface{}{"error": err.Error()})
		}
		return &document{Requests: map[string]*models.EvaluationRecord{}}
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil || doc.Requests == nil {
		s.logger.Warn("store corrupted, reinitializing", map[string]interface{}{
			"bytes": len(data),
		})
		return &document{Requests: map[string]*models.EvaluationRecord{}}
	}
	return &doc
}

// write replaces the document atomically: temp file in the same directory,
// then rename. Last writer wins.
func (s *FileStore) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store document: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".requests-*.json")
	if err != nil {
		return fmt.Errorf("create temp store file: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write store document: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close store document: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace store document: %w", err)
	}
	return nil
}
