// Package memory is an in-process store.Store used for local runs and tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
)

// Store keeps recipes in a map guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	recipes map[string]*model.Recipe
	now     func() time.Time
}

var _ store.Store = (*Store)(nil)

// New returns an empty store.
func New() *Store {
	return &Store{
		recipes: make(map[string]*model.Recipe),
		now:     func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
	}
}

func (s *Store) Recipes() store.Recipes { return recipes{s} }

// HealthPing always succeeds.
func (s *Store) HealthPing(ctx context.Context) error { return ctx.Err() }

func (s *Store) Close(context.Context) error { return nil }

type recipes struct{ s *Store }

func (r recipes) Insert(ctx context.Context, rec *model.Recipe) (*model.Recipe, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c := clone(rec)
	c.ID = primitive.NewObjectID().Hex()
	c.SchemaVersion = model.SchemaVersion
	now := r.s.now()
	c.CreationTime = now
	c.UpdateTime = now

	r.s.mu.Lock()
	r.s.recipes[c.ID] = c
	r.s.mu.Unlock()
	return clone(c), nil
}

func (r recipes) FindByID(ctx context.Context, id string) (*model.Recipe, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	rec, ok := r.s.recipes[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	return clone(rec), nil
}

func (r recipes) FindByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error) {
	for _, id := range ids {
		if err := store.ValidateID(id); err != nil {
			return nil, err
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*model.Recipe, 0, len(ids))
	seen := make(map[string]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			continue
		}
		seen[id] = true
		if rec, ok := r.s.recipes[id]; ok {
			out = append(out, clone(rec))
		}
	}
	return out, nil
}

func (r recipes) UpdateByID(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cur, ok := r.s.recipes[id]
	if !ok {
		return nil, model.ErrNotFound
	}
	next := clone(cur)
	patch.Apply(next)
	next.SchemaVersion = model.SchemaVersion
	next.UpdateTime = r.s.now()
	r.s.recipes[id] = next
	return clone(next), nil
}

func (r recipes) DeleteByID(ctx context.Context, id string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.recipes[id]; !ok {
		return model.ErrNotFound
	}
	delete(r.s.recipes, id)
	return nil
}

// FacetPage filters, counts and windows under one read lock so the total and
// the items come from the same snapshot.
func (r recipes) FacetPage(ctx context.Context, f query.Filter, skip, limit int) (*store.FacetResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	matched := r.s.matching(f)
	r.s.mu.RUnlock()

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].Title != matched[j].Title {
			return matched[i].Title < matched[j].Title
		}
		return matched[i].ID < matched[j].ID
	})

	res := &store.FacetResult{Items: []model.RecipeSummary{}, Total: int64(len(matched))}
	if skip < 0 {
		skip = 0
	}
	if skip >= len(matched) || limit <= 0 {
		return res, nil
	}
	end := skip + limit
	if end > len(matched) {
		end = len(matched)
	}
	for _, rec := range matched[skip:end] {
		res.Items = append(res.Items, rec.Summary())
	}
	return res, nil
}

func (r recipes) CountMatching(ctx context.Context, f query.Filter) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.matching(f))), nil
}

// matching must be called with mu held. It returns clones.
func (s *Store) matching(f query.Filter) []*model.Recipe {
	out := make([]*model.Recipe, 0, len(s.recipes))
	for _, rec := range s.recipes {
		if f.Matches(rec) {
			out = append(out, clone(rec))
		}
	}
	return out
}

func clone(r *model.Recipe) *model.Recipe {
	c := *r
	c.Ingredients = copyStrings(r.Ingredients)
	c.Instructions = copyStrings(r.Instructions)
	c.Utensils = copyStrings(r.Utensils)
	c.Tags = copyStrings(r.Tags)
	if r.Time != nil {
		t := *r.Time
		c.Time = &t
	}
	if r.Nutrition != nil {
		n := *r.Nutrition
		c.Nutrition = &n
	}
	return &c
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}
