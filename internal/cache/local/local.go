// Package local implements cache.Cache in-process with sturdyc.
// It suits single-instance deployments only: entries are not shared between replicas.
package local

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/viccon/sturdyc"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
)

// Config holds the sturdyc sizing parameters.
type Config struct {
	Capacity           int
	NumShards          int
	TTL                time.Duration
	EvictionPercentage int
}

// DefaultConfig returns sizing suitable for a single service instance.
func DefaultConfig(ttl time.Duration) Config {
	return Config{
		Capacity:           10000,
		NumShards:          64,
		TTL:                ttl,
		EvictionPercentage: 10,
	}
}

// Validate checks sizing bounds.
func (c Config) Validate() error {
	switch {
	case c.Capacity <= 0:
		return fmt.Errorf("local cache capacity must be greater than 0")
	case c.NumShards <= 0:
		return fmt.Errorf("local cache shards must be greater than 0")
	case c.TTL <= 0:
		return fmt.Errorf("local cache ttl must be greater than 0")
	case c.EvictionPercentage < 1 || c.EvictionPercentage > 100:
		return fmt.Errorf("local cache eviction percentage must be between 1 and 100")
	}
	return nil
}

// Cache wraps a sturdyc client. Entries share the client-level TTL; the
// per-call ttl passed to Set is not honoured.
type Cache struct {
	client *sturdyc.Client[[]byte]
}

var _ cache.Cache = (*Cache)(nil)

func New(cfg Config) (*Cache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Cache{client: sturdyc.New[[]byte](cfg.Capacity, cfg.NumShards, cfg.TTL, cfg.EvictionPercentage)}, nil
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}
	val, ok := c.client.Get(key)
	return val, ok, nil
}

func (c *Cache) Set(ctx context.Context, key string, val []byte, _ time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	c.client.Set(key, append([]byte(nil), val...))
	return nil
}

// Invalidate deletes every key matching pattern with path.Match semantics.
func (c *Cache) Invalidate(ctx context.Context, pattern string) error {
	if _, err := path.Match(pattern, ""); err != nil {
		return err
	}
	for _, key := range c.client.ScanKeys() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if ok, _ := path.Match(pattern, key); ok {
			c.client.Delete(key)
		}
	}
	return nil
}

func (c *Cache) Ping(ctx context.Context) error { return ctx.Err() }

func (c *Cache) Close() error { return nil }
