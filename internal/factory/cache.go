package factory

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache/local"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache/noop"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache/redis"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/config"
)

// NewCache returns the cache.Cache selected by cfg.CacheDriver. An
// unreachable Redis is not fatal: the service runs uncached until it recovers.
func NewCache(ctx context.Context, cfg *config.Config, log zerolog.Logger) (cache.Cache, error) {
	switch cfg.CacheDriver {
	case config.CacheNone:
		log.Info().Msg("listing cache disabled")
		return noop.New(), nil
	case config.CacheLocal:
		lc := local.DefaultConfig(cfg.CacheTTL)
		if cfg.LocalCacheCapacity > 0 {
			lc.Capacity = cfg.LocalCacheCapacity
		}
		c, err := local.New(lc)
		if err != nil {
			return nil, err
		}
		return c, nil
	case config.CacheRedis:
		c := redis.New(redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		pctx, cancel := context.WithTimeout(ctx, cfg.CacheTimeout)
		defer cancel()
		if err := c.Ping(pctx); err != nil {
			log.Warn().Err(err).Str("addr", cfg.RedisAddr).Msg("redis unreachable at startup; serving uncached until it recovers")
		}
		return c, nil
	default:
		return nil, fmt.Errorf("unknown CACHE_DRIVER: %s", cfg.CacheDriver)
	}
}
