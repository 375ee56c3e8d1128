// internal/store/redisstore.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"loan-evaluation/internal/models"

	"github.com/redis/go-redis/v9"
)

// requestsHash mirrors the keyed-document layout: one hash, one field per
// request identifier.
const requestsHash = "loan_evaluation:requests"

// RedisStore keeps records JSON-encoded in a single hash. HSET is atomic per
// field, which gives the required write serialization for free.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, record *models.EvaluationRecord) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}

	if err := s.client.HSet(ctx, requestsHash, record.RequestID, data).Err(); err != nil {
		return fmt.Errorf("redis hset: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, requestID string) (*models.EvaluationRecord, error) {
	data, err := s.client.HGet(ctx, requestsHash, requestID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("redis hget: %w", err)
	}

	var record models.EvaluationRecord
	if err := json.Unmarshal([]byte(data), &record); err != nil {
		return nil, fmt.Errorf("decode record: %w", err)
	}
	return &record, nil
}
