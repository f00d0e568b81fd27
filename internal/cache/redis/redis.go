// Package redis implements cache.Cache over a Redis server.
package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
)

// scanCount is the COUNT hint for each SCAN page.
const scanCount = 100

// Options configures the Redis connection.
type Options struct {
	Addr     string
	Password string
	DB       int
}

// Cache wraps a go-redis client.
type Cache struct {
	rclient *goredis.Client
}

var _ cache.Cache = (*Cache)(nil)

// New dials lazily; use Ping to verify connectivity.
func New(opts Options) *Cache {
	return NewWithClient(goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	}))
}

func NewWithClient(rclient *goredis.Client) *Cache {
	return &Cache{rclient: rclient}
}

func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	val, err := c.rclient.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return val, true, nil
}

func (c *Cache) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	return c.rclient.Set(ctx, key, val, ttl).Err()
}

// Invalidate walks the keyspace with SCAN MATCH and deletes each page of keys.
// KEYS is avoided so large keyspaces never block the server.
func (c *Cache) Invalidate(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := c.rclient.Scan(ctx, cursor, pattern, scanCount).Result()
		if err != nil {
			return err
		}
		if len(keys) > 0 {
			if err := c.rclient.Del(ctx, keys...).Err(); err != nil {
				return err
			}
		}
		cursor = next
		if cursor == 0 {
			return nil
		}
	}
}

func (c *Cache) Ping(ctx context.Context) error {
	return c.rclient.Ping(ctx).Err()
}

func (c *Cache) Close() error {
	return c.rclient.Close()
}
