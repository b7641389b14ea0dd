package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/geonotes/notes-api/internal/api/metrics"
)

const idempotencyTTL = 24 * time.Hour

// IdempotencyStore maps an author's Idempotency-Key to the note it created.
// Key format: idem:<author_id>:<key>
type IdempotencyStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewIdempotencyStore creates an IdempotencyStore wrapping the given Redis client.
func NewIdempotencyStore(client *redis.Client) *IdempotencyStore {
	return &IdempotencyStore{client: client, ttl: idempotencyTTL}
}

// Lookup returns the note id recorded for key, if any.
func (s *IdempotencyStore) Lookup(ctx context.Context, authorID, key string) (string, bool, error) {
	id, err := s.client.Get(ctx, s.key(authorID, key)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.IdempotencyTotal.WithLabelValues("miss").Inc()
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("idempotency lookup: %w", err)
	}
	metrics.IdempotencyTotal.WithLabelValues("hit").Inc()
	return id, true, nil
}

// Remember records noteID for key. An existing entry is kept, so the first
// note created under a key stays the one that is replayed.
func (s *IdempotencyStore) Remember(ctx context.Context, authorID, key, noteID string) error {
	if err := s.client.SetNX(ctx, s.key(authorID, key), noteID, s.ttl).Err(); err != nil {
		return fmt.Errorf("idempotency remember: %w", err)
	}
	return nil
}

func (s *IdempotencyStore) key(authorID, key string) string {
	return fmt.Sprintf("idem:%s:%s", authorID, key)
}
