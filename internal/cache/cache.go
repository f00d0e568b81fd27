// Package cache defines the key-value contract used for listing pages.
// Drivers live under internal/cache/<driver>/ (redis, local, noop).
package cache

import (
	"context"
	"errors"
	"time"
)

// ErrDisabled is returned by Ping when caching is turned off.
var ErrDisabled = errors.New("cache disabled")

// Cache is a key-value store with expiry and pattern deletion.
//
// Get reports a miss with ok=false and a nil error. Invalidate deletes every
// key matching a glob pattern; deleting nothing is not an error.
type Cache interface {
	Get(ctx context.Context, key string) (val []byte, ok bool, err error)
	Set(ctx context.Context, key string, val []byte, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
	Ping(ctx context.Context) error
	Close() error
}
