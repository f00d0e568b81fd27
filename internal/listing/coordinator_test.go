package listing

import (
	"context"
	"encoding/json"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/cache/noop"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/pagination"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store/memory"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store/storetest"
)

// mapCache is an in-memory cache.Cache with switchable failures.
type mapCache struct {
	mu      sync.Mutex
	data    map[string][]byte
	ttls    map[string]time.Duration
	fail    error
	pingErr error
}

func newMapCache() *mapCache {
	return &mapCache{data: map[string][]byte{}, ttls: map[string]time.Duration{}}
}

func (c *mapCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return nil, false, c.fail
	}
	v, ok := c.data[key]
	return v, ok, nil
}

func (c *mapCache) Set(_ context.Context, key string, val []byte, ttl time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	c.data[key] = val
	c.ttls[key] = ttl
	return nil
}

func (c *mapCache) Invalidate(_ context.Context, pattern string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.fail != nil {
		return c.fail
	}
	for k := range c.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(c.data, k)
		}
	}
	return nil
}

func (c *mapCache) Ping(context.Context) error { return c.pingErr }
func (c *mapCache) Close() error { return nil }

func (c *mapCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.data)
}

// countingRecipes counts store page reads and can run a hook inside one.
type countingRecipes struct {
	store.Recipes
	mu     sync.Mutex
	reads  int
	during func()
}

func (r *countingRecipes) FacetPage(ctx context.Context, f query.Filter, skip, limit int) (*store.FacetResult, error) {
	r.mu.Lock()
	r.reads++
	hook := r.during
	r.during = nil
	r.mu.Unlock()
	res, err := r.Recipes.FacetPage(ctx, f, skip, limit)
	if hook != nil {
		hook()
	}
	return res, err
}

func (r *countingRecipes) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.reads
}

type pingFunc func(context.Context) error

func (f pingFunc) HealthPing(ctx context.Context) error { return f(ctx) }

type fixture struct {
	store   *memory.Store
	recipes *countingRecipes
	cache   cache.Cache
	co      *Coordinator
}

func newFixture(t *testing.T, c cache.Cache) *fixture {
	t.Helper()
	s := memory.New()
	rec := &countingRecipes{Recipes: s.Recipes()}
	co := New(pagination.NewEngine(rec), s, c, zerolog.Nop(), Options{TTL: time.Hour})
	return &fixture{store: s, recipes: rec, cache: c, co: co}
}

func pageTitles(p *model.Page) []string {
	out := make([]string, 0, len(p.Recipes))
	for _, r := range p.Recipes {
		out = append(out, r.Title)
	}
	return out
}

func TestGetPage_ReadThrough(t *testing.T) {
	mc := newMapCache()
	f := newFixture(t, mc)
	storetest.Seed(t, f.store, storetest.NewRecipe("Apple Pie"), storetest.NewRecipe("Banana Bread"), storetest.NewRecipe("Carrot Soup"))
	ctx := context.Background()
	c := query.Criteria{Page: 1, PageSize: 2}

	p, err := f.co.GetPage(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Banana Bread"}, pageTitles(p))
	assert.Equal(t, int64(3), p.TotalCount)
	assert.Equal(t, 2, p.TotalPages)
	assert.False(t, p.IsLastPage)
	assert.Equal(t, 1, f.recipes.count())

	key := query.Build(c).CacheKey
	assert.Equal(t, time.Hour, mc.ttls[key])

	again, err := f.co.GetPage(ctx, query.Criteria{Page: 1, PageSize: 2, Search: "  "})
	require.NoError(t, err)
	assert.Equal(t, p, again)
	assert.Equal(t, 1, f.recipes.count(), "equivalent criteria served from cache")

	p2, err := f.co.GetPage(ctx, query.Criteria{Page: 2, PageSize: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"Carrot Soup"}, pageTitles(p2))
	assert.True(t, p2.IsLastPage)
}

func TestGetPage_CoherenceAfterWrites(t *testing.T) {
	f := newFixture(t, newMapCache())
	seeded := storetest.Seed(t, f.store, storetest.NewRecipe("Apple Pie"), storetest.NewRecipe("Carrot Soup"))
	ctx := context.Background()
	c := query.Criteria{}

	_, err := f.co.GetPage(ctx, c)
	require.NoError(t, err)
	_, err = f.co.GetPage(ctx, c)
	require.NoError(t, err)
	require.Equal(t, 1, f.recipes.count(), "second read is a cache hit")

	// create
	storetest.Seed(t, f.store, storetest.NewRecipe("Banana Bread"))
	require.NoError(t, f.co.InvalidateAll(ctx))
	p, err := f.co.GetPage(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Banana Bread", "Carrot Soup"}, pageTitles(p))
	assert.Equal(t, 2, f.recipes.count())

	// update
	title := "Zucchini Soup"
	_, err = f.store.Recipes().UpdateByID(ctx, seeded[1].ID, model.RecipePatch{Title: &title})
	require.NoError(t, err)
	require.NoError(t, f.co.InvalidateAll(ctx))
	p, err = f.co.GetPage(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Apple Pie", "Banana Bread", "Zucchini Soup"}, pageTitles(p))

	// delete
	require.NoError(t, f.store.Recipes().DeleteByID(ctx, seeded[0].ID))
	require.NoError(t, f.co.InvalidateAll(ctx))
	p, err = f.co.GetPage(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, []string{"Banana Bread", "Zucchini Soup"}, pageTitles(p))
	assert.Equal(t, int64(2), p.TotalCount)
}

func TestInvalidateAll_Idempotent(t *testing.T) {
	mc := newMapCache()
	f := newFixture(t, mc)
	ctx := context.Background()
	storetest.Seed(t, f.store, storetest.NewRecipe("A"))
	_, err := f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	_, err = f.co.GetPage(ctx, query.Criteria{Search: "a"})
	require.NoError(t, err)
	require.NoError(t, mc.Set(ctx, "sessions:1", []byte("x"), 0))
	require.Equal(t, 3, mc.len())

	require.NoError(t, f.co.InvalidateAll(ctx))
	assert.Equal(t, 1, mc.len(), "only listing keys are removed")
	require.NoError(t, f.co.InvalidateAll(ctx))
	assert.Equal(t, 1, mc.len())
}

func TestGetPage_FailingCacheDegradesToStore(t *testing.T) {
	mc := newMapCache()
	mc.fail = errors.New("dial tcp: connection refused")
	f := newFixture(t, mc)
	storetest.Seed(t, f.store, storetest.NewRecipe("Apple Pie"), storetest.NewRecipe("Banana Bread"), storetest.NewRecipe("Carrot Soup"))
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		p, err := f.co.GetPage(ctx, query.Criteria{Page: 2, PageSize: 2})
		require.NoError(t, err)
		assert.Equal(t, []string{"Carrot Soup"}, pageTitles(p))
		assert.Equal(t, int64(3), p.TotalCount)
	}
	assert.Equal(t, 3, f.recipes.count(), "every read goes to the store")
	assert.Error(t, f.co.InvalidateAll(ctx))
}

func TestGetPage_CollisionAndCorruptEntriesAreMisses(t *testing.T) {
	mc := newMapCache()
	f := newFixture(t, mc)
	storetest.Seed(t, f.store, storetest.NewRecipe("Real"))
	ctx := context.Background()
	q := query.Build(query.Criteria{})

	forged, err := json.Marshal(entry{Query: "search=other&page=1&pageSize=20", Page: &model.Page{
		Recipes: []model.RecipeSummary{{Title: "Forged"}}, TotalCount: 1, TotalPages: 1, Page: 1, PageSize: 20,
	}})
	require.NoError(t, err)
	require.NoError(t, mc.Set(ctx, q.CacheKey, forged, time.Hour))

	p, err := f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Real"}, pageTitles(p))

	require.NoError(t, mc.Set(ctx, q.CacheKey, []byte("{not json"), time.Hour))
	p, err = f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Real"}, pageTitles(p))
	assert.Equal(t, 2, f.recipes.count())
}

func TestGetPage_ForcedStaleHitIsGoneAfterInvalidation(t *testing.T) {
	mc := newMapCache()
	f := newFixture(t, mc)
	ctx := context.Background()
	q := query.Build(query.Criteria{})

	stale, err := json.Marshal(entry{Query: q.Canonical, Page: &model.Page{
		Recipes: []model.RecipeSummary{{Title: "Stale"}}, TotalCount: 1, TotalPages: 1, Page: 1, PageSize: 20, IsLastPage: true,
	}})
	require.NoError(t, err)
	require.NoError(t, mc.Set(ctx, q.CacheKey, stale, time.Hour))

	p, err := f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	require.Equal(t, []string{"Stale"}, pageTitles(p), "hit is served without touching the store")
	require.Equal(t, 0, f.recipes.count())

	storetest.Seed(t, f.store, storetest.NewRecipe("Fresh"))
	require.NoError(t, f.co.InvalidateAll(ctx))

	p, err = f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Fresh"}, pageTitles(p))
	assert.Equal(t, 1, f.recipes.count())
}

func TestGetPage_FillRacingWithWriteIsDropped(t *testing.T) {
	mc := newMapCache()
	f := newFixture(t, mc)
	storetest.Seed(t, f.store, storetest.NewRecipe("Old"))
	ctx := context.Background()

	// The write and its invalidation complete after the store read but before the cache fill.
	f.recipes.during = func() {
		storetest.Seed(t, f.store, storetest.NewRecipe("New"))
		require.NoError(t, f.co.InvalidateAll(ctx))
	}
	p, err := f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"Old"}, pageTitles(p))
	assert.Equal(t, 0, mc.len(), "raced entry must not survive")

	p, err = f.co.GetPage(ctx, query.Criteria{})
	require.NoError(t, err)
	assert.Equal(t, []string{"New", "Old"}, pageTitles(p))
}

func TestGetPage_StoreFailureSurfaces(t *testing.T) {
	mc := newMapCache()
	co := New(pagination.NewEngine(brokenRecipes{}), pingFunc(func(context.Context) error { return nil }), mc, zerolog.Nop(), Options{})

	_, err := co.GetPage(context.Background(), query.Criteria{})
	require.Error(t, err)
	assert.Equal(t, 0, mc.len())
}

type brokenRecipes struct{ store.Recipes }

func (brokenRecipes) FacetPage(context.Context, query.Filter, int, int) (*store.FacetResult, error) {
	return nil, errors.New("server selection timeout")
}

func TestHealthCheck(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("down") })
	hung := pingFunc(func(ctx context.Context) error { <-ctx.Done(); time.Sleep(50 * time.Millisecond); return ctx.Err() })
	engine := pagination.NewEngine(memory.New().Recipes())

	t.Run("all healthy", func(t *testing.T) {
		r := New(engine, ok, newMapCache(), zerolog.Nop(), Options{}).HealthCheck(context.Background())
		assert.Equal(t, "ok", r.Status)
		assert.Equal(t, StatusHealthy, r.Store)
		assert.Equal(t, StatusHealthy, r.Cache)
		assert.NotEmpty(t, r.Uptime)
	})

	t.Run("cache down does not hide store", func(t *testing.T) {
		mc := newMapCache()
		mc.pingErr = errors.New("refused")
		r := New(engine, ok, mc, zerolog.Nop(), Options{}).HealthCheck(context.Background())
		assert.Equal(t, StatusHealthy, r.Store)
		assert.Equal(t, StatusUnhealthy, r.Cache)
		assert.Equal(t, "degraded", r.Status)
	})

	t.Run("store down", func(t *testing.T) {
		r := New(engine, down, newMapCache(), zerolog.Nop(), Options{}).HealthCheck(context.Background())
		assert.Equal(t, StatusUnhealthy, r.Store)
		assert.Equal(t, StatusHealthy, r.Cache)
	})

	t.Run("cache disabled", func(t *testing.T) {
		r := New(engine, ok, noop.New(), zerolog.Nop(), Options{}).HealthCheck(context.Background())
		assert.Equal(t, StatusDisabled, r.Cache)
		assert.Equal(t, "ok", r.Status)
	})

	t.Run("hung store is bounded by the probe timeout", func(t *testing.T) {
		start := time.Now()
		r := New(engine, hung, newMapCache(), zerolog.Nop(), Options{ProbeTimeout: 20 * time.Millisecond}).HealthCheck(context.Background())
		assert.Equal(t, StatusUnhealthy, r.Store)
		assert.Equal(t, StatusHealthy, r.Cache)
		assert.Less(t, time.Since(start), 500*time.Millisecond)
	})
}
