// Package cache memoizes expensive catalog reads. Keys are pure functions of
// the query shape; writes invalidate every aggregate view they can affect.
package cache

import (
	"context"
	"time"
)

// Cache stores JSON-encoded values under string keys.
type Cache interface {
	// Get decodes the value stored at key into dest and reports a hit.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set stores value under key. A zero ttl uses the cache's default.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Del removes the given keys.
	Del(ctx context.Context, keys ...string) error
	// DelPrefix removes every key starting with prefix.
	DelPrefix(ctx context.Context, prefix string) error
}
