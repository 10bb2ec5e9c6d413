package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultIdempotencyTTL = 24 * time.Hour
	pendingMarker         = "pending"
)

// IdempotencyStore remembers which submission an Idempotency-Key produced.
// Key format: idem:submission:<scoped key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore wraps client. A non-positive ttl falls back to 24h.
func NewIdempotencyStore(client *redis.Client, ttl time.Duration) *IdempotencyStore {
	if ttl <= 0 {
		ttl = defaultIdempotencyTTL
	}
	return &IdempotencyStore{client: client, ttl: ttl}
}

// Reserve claims key with a pending marker. When the key is already held it
// reports the completed submission ID, or "" while the holder is still pending.
func (s *IdempotencyStore) Reserve(ctx context.Context, key string) (string, bool, error) {
	ok, err := s.client.SetNX(ctx, s.key(key), pendingMarker, s.ttl).Result()
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	if ok {
		return "", true, nil
	}

	id, err := s.client.Get(ctx, s.key(key)).Result()
	if errors.Is(err, redis.Nil) {
		// Released between SETNX and GET; the holder gave up, so report it as busy.
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency reserve: %w", err)
	}
	return completedID(id), false, nil
}

// Complete records submissionID under a key this caller reserved.
func (s *IdempotencyStore) Complete(ctx context.Context, key, submissionID string) error {
	if err := s.client.Set(ctx, s.key(key), submissionID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency complete: %w", err)
	}
	return nil
}

// Release drops a reservation whose submit failed so the client may retry.
func (s *IdempotencyStore) Release(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.key(key)).Err(); err != nil {
		return fmt.Errorf("idempotency release: %w", err)
	}
	return nil
}

func completedID(stored string) string {
	if stored == pendingMarker {
		return ""
	}
	return stored
}

func (s *IdempotencyStore) key(k string) string {
	return "idem:submission:" + k
}
