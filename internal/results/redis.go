package results

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"robin/internal/redis"

	"github.com/google/uuid"
)

const (
	keyPrefix = "robin:result:"
	latestKey = keyPrefix + "latest"
)

// RedisStore keeps summaries in Redis so every API instance exports the same result
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store whose summaries expire after ttl
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	return &RedisStore{client: client, ttl: ttl}
}

// Save writes s under a new id and points the latest slot at it
func (r *RedisStore) Save(ctx context.Context, s *Summary) (string, error) {
	s.ID = uuid.New().String()
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	data, err := json.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("failed to encode result: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, keyPrefix+s.ID, data, r.ttl)
	pipe.Set(ctx, latestKey, s.ID, r.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return "", fmt.Errorf("failed to save result: %w", err)
	}
	return s.ID, nil
}

// Get returns the summary saved under id
func (r *RedisStore) Get(ctx context.Context, id string) (*Summary, error) {
	data, err := r.client.Get(ctx, keyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get result: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to decode result: %w", err)
	}
	return &s, nil
}

// Latest returns the most recently saved summary that has not expired
func (r *RedisStore) Latest(ctx context.Context) (*Summary, error) {
	id, err := r.client.Get(ctx, latestKey).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get latest result: %w", err)
	}
	return r.Get(ctx, id)
}
