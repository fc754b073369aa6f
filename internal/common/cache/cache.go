// internal/common/cache/cache.go
package cache

import (
	"context"
	"time"
)

// Cache stores opaque values with a per-entry TTL.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Clock returns the current time. Tests inject a fake one.
type Clock func() time.Time
