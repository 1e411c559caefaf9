package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"sunhex/internal/guard/models"
)

const keyPrefix = "sunhex:guard:"

// Store keeps attempts as JSON values whose TTL bounds their lifetime.
type Store struct {
	client redis.UniversalClient
}

func New(client redis.UniversalClient) *Store {
	return &Store{client: client}
}

func key(fingerprint string) string {
	return keyPrefix + fingerprint
}

func (s *Store) Get(ctx context.Context, fingerprint string) (*models.Attempt, error) {
	data, err := s.client.Get(ctx, key(fingerprint)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get decode attempt: %w", err)
	}

	var a models.Attempt
	if err := json.Unmarshal(data, &a); err != nil {
		return nil, fmt.Errorf("unmarshal decode attempt: %w", err)
	}
	return &a, nil
}

func (s *Store) Save(ctx context.Context, attempt *models.Attempt, ttl time.Duration) error {
	if attempt == nil {
		return fmt.Errorf("decode attempt is required")
	}
	data, err := json.Marshal(attempt)
	if err != nil {
		return fmt.Errorf("marshal decode attempt: %w", err)
	}
	if err := s.client.Set(ctx, key(attempt.Fingerprint), data, ttl).Err(); err != nil {
		return fmt.Errorf("save decode attempt: %w", err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, fingerprint string) error {
	if err := s.client.Del(ctx, key(fingerprint)).Err(); err != nil {
		return fmt.Errorf("delete decode attempt: %w", err)
	}
	return nil
}

// DeleteStale is a no-op: Redis expires keys on its own.
func (s *Store) DeleteStale(context.Context, time.Time) (int, error) {
	return 0, nil
}
