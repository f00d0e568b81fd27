// Package noop is the cache used when caching is disabled. Every read misses.
package noop

import (
	"context"
	"time"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
)

type Cache struct{}

var _ cache.Cache = Cache{}

func New() Cache { return Cache{} }

func (Cache) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }
func (Cache) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Cache) Invalidate(context.Context, string) error { return nil }
func (Cache) Ping(context.Context) error { return cache.ErrDisabled }
func (Cache) Close() error { return nil }
