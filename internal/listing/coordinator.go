// Package listing serves recipe pages through a read-through cache and
// flushes every cached page on each write.
package listing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/health"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/pagination"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
)

const DefaultTTL = time.Hour

// Options bounds cache entry lifetime and adapter calls. Zero durations fall back to defaults.
type Options struct {
	TTL          time.Duration
	StoreTimeout time.Duration
	CacheTimeout time.Duration
	ProbeTimeout time.Duration
}

func (o Options) withDefaults() Options {
	if o.TTL <= 0 {
		o.TTL = DefaultTTL
	}
	if o.StoreTimeout <= 0 {
		o.StoreTimeout = 5 * time.Second
	}
	if o.CacheTimeout <= 0 {
		o.CacheTimeout = 500 * time.Millisecond
	}
	if o.ProbeTimeout <= 0 {
		o.ProbeTimeout = 2 * time.Second
	}
	return o
}

// entry is the cached value. Query guards against hash collisions on the key.
type entry struct {
	Query    string      `json:"query"`
	Page     *model.Page `json:"page"`
	CachedAt time.Time   `json:"cachedAt"`
}

// Coordinator is safe for concurrent use.
type Coordinator struct {
	engine  *pagination.Engine
	store   health.HealthPinger
	cache   cache.Cache
	log     zerolog.Logger
	opts    Options
	started time.Time

	// epoch counts invalidations. A miss-fill that observes a change across
	// its store read removes the entry it just wrote.
	epoch atomic.Uint64
}

func New(engine *pagination.Engine, store health.HealthPinger, c cache.Cache, log zerolog.Logger, opts Options) *Coordinator {
	return &Coordinator{
		engine:  engine,
		store:   store,
		cache:   c,
		log:     log,
		opts:    opts.withDefaults(),
		started: time.Now(),
	}
}

// GetPage returns the page for c, from cache when possible. Only store
// failures are returned; cache failures degrade to a miss.
func (co *Coordinator) GetPage(ctx context.Context, c query.Criteria) (*model.Page, error) {
	q := query.Build(c)
	if page, ok := co.lookup(ctx, q); ok {
		return page, nil
	}

	e0 := co.epoch.Load()
	sctx, cancel := context.WithTimeout(ctx, co.opts.StoreTimeout)
	defer cancel()
	timer := prometheus.NewTimer(pageDuration)
	page, err := co.engine.Paginate(sctx, q.Filter, q.Page, q.PageSize)
	timer.ObserveDuration()
	if err != nil {
		return nil, err
	}
	co.fill(ctx, q, page, e0)
	return page, nil
}

func (co *Coordinator) lookup(ctx context.Context, q query.Query) (*model.Page, bool) {
	cctx, cancel := context.WithTimeout(ctx, co.opts.CacheTimeout)
	defer cancel()
	raw, ok, err := co.cache.Get(cctx, q.CacheKey)
	if err != nil {
		lookupsTotal.WithLabelValues(resultError).Inc()
		co.log.Warn().Err(err).Str("key", q.CacheKey).Msg("cache read failed; treating as miss")
		return nil, false
	}
	if !ok {
		lookupsTotal.WithLabelValues(resultMiss).Inc()
		return nil, false
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil || e.Page == nil {
		lookupsTotal.WithLabelValues(resultCorrupt).Inc()
		co.log.Warn().Err(err).Str("key", q.CacheKey).Msg("undecodable cache entry; treating as miss")
		return nil, false
	}
	if e.Query != q.Canonical {
		lookupsTotal.WithLabelValues(resultCorrupt).Inc()
		co.log.Warn().Str("key", q.CacheKey).Str("cached_query", e.Query).Str("query", q.Canonical).Msg("cache key collision; treating as miss")
		return nil, false
	}
	if e.Page.Recipes == nil {
		e.Page.Recipes = []model.RecipeSummary{}
	}
	lookupsTotal.WithLabelValues(resultHit).Inc()
	return e.Page, true
}

// fill writes the page best-effort. e0 is the epoch observed before the store read.
func (co *Coordinator) fill(ctx context.Context, q query.Query, page *model.Page, e0 uint64) {
	raw, err := json.Marshal(entry{Query: q.Canonical, Page: page, CachedAt: time.Now().UTC()})
	if err != nil {
		co.log.Error().Stack().Err(err).Msg("encode cache entry")
		return
	}
	cctx, cancel := context.WithTimeout(ctx, co.opts.CacheTimeout)
	defer cancel()
	if err := co.cache.Set(cctx, q.CacheKey, raw, co.opts.TTL); err != nil {
		co.log.Warn().Err(err).Str("key", q.CacheKey).Msg("cache write failed")
		return
	}
	if co.epoch.Load() != e0 {
		// A write landed while this page was being computed.
		racedFillsTotal.Inc()
		if err := co.cache.Invalidate(cctx, q.CacheKey); err != nil {
			co.log.Warn().Err(err).Str("key", q.CacheKey).Msg("failed to drop raced cache entry")
		}
	}
}

// InvalidateAll deletes every listing entry. It is idempotent.
func (co *Coordinator) InvalidateAll(ctx context.Context) error {
	co.epoch.Add(1)
	cctx, cancel := context.WithTimeout(ctx, co.opts.CacheTimeout)
	defer cancel()
	if err := co.cache.Invalidate(cctx, query.ListPattern); err != nil {
		invalidationsTotal.WithLabelValues(resultError).Inc()
		return err
	}
	invalidationsTotal.WithLabelValues(resultOK).Inc()
	return nil
}

// Status values reported by HealthCheck.
const (
	StatusHealthy   = "healthy"
	StatusUnhealthy = "unhealthy"
	StatusDisabled  = "disabled"
)

// Report is the best-effort dependency status.
type Report struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Cache     string    `json:"cache"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthCheck probes the store and the cache concurrently. It never fails;
// a hung dependency is reported unhealthy once the probe timeout elapses.
func (co *Coordinator) HealthCheck(ctx context.Context) Report {
	var storeErr, cacheErr error
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		storeErr = co.probe(ctx, co.store.HealthPing)
	}()
	go func() {
		defer wg.Done()
		cacheErr = co.probe(ctx, co.cache.Ping)
	}()
	wg.Wait()

	r := Report{
		Status:    "ok",
		Store:     StatusHealthy,
		Cache:     StatusHealthy,
		Uptime:    time.Since(co.started).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	}
	if storeErr != nil {
		co.log.Warn().Err(storeErr).Msg("store probe failed")
		r.Store = StatusUnhealthy
		r.Status = "degraded"
	}
	switch {
	case errors.Is(cacheErr, cache.ErrDisabled):
		r.Cache = StatusDisabled
	case cacheErr != nil:
		co.log.Warn().Err(cacheErr).Msg("cache probe failed")
		r.Cache = StatusUnhealthy
		r.Status = "degraded"
	}
	return r
}

// probe runs ping with a timeout and gives up waiting when it elapses.
func (co *Coordinator) probe(ctx context.Context, ping func(context.Context) error) error {
	pctx, cancel := context.WithTimeout(ctx, co.opts.ProbeTimeout)
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- ping(pctx) }()
	select {
	case err := <-done:
		return err
	case <-pctx.Done():
		return pctx.Err()
	}
}
