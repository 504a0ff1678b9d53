package cache

import (
	"context"
	"time"
)

// Cache is a volatile key-value store with per-key TTL. The rate limiter
// and login lockout are built on it; losing all entries on restart is an
// acceptable fail-open. Implementations: Redis for deployments, Memory
// for tests and single-process setups.
type Cache interface {
	// Get returns the value and whether the key exists and is not expired.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores the value with a TTL. ttl <= 0 means no expiry.
	Set(ctx context.Context, key, value string, ttl time.Duration) error

	// Delete removes the key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
