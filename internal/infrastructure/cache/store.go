package cache

import (
	"context"
	"time"
)

// IdempotencyStore remembers idempotency keys so that retried
// document-creation requests are executed at most once.
type IdempotencyStore interface {
	// Reserve atomically records the key with a TTL.
	// Returns true when the key was not seen before.
	Reserve(ctx context.Context, key string, ttl time.Duration) (bool, error)

	// Seen reports whether the key is currently recorded.
	Seen(ctx context.Context, key string) (bool, error)

	Close() error
}

// DefaultIdempotencyTTL is how long a reserved key blocks replays.
// Retries of a failed request arrive within minutes; 24h covers client
// queues that replay after an outage.
const DefaultIdempotencyTTL = 24 * time.Hour
