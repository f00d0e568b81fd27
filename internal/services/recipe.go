package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/shopping"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
)

// Listings is the cached listing path. listing.Coordinator implements it.
type Listings interface {
	GetPage(ctx context.Context, c query.Criteria) (*model.Page, error)
	InvalidateAll(ctx context.Context) error
}

// RecipeService orchestrates recipe use cases. Every successful write
// invalidates all cached listing pages before returning.
type RecipeService struct {
	store        store.Store
	listings     Listings
	log          zerolog.Logger
	storeTimeout time.Duration
}

func NewRecipeService(s store.Store, l Listings, log zerolog.Logger, storeTimeout time.Duration) *RecipeService {
	if storeTimeout <= 0 {
		storeTimeout = 5 * time.Second
	}
	return &RecipeService{store: s, listings: l, log: log, storeTimeout: storeTimeout}
}

func (s *RecipeService) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.storeTimeout)
}

// invalidate runs after a successful write. It is detached from the caller's
// cancellation so a client that disconnects after the commit still gets the
// listing flushed; the coordinator's cache timeout bounds the call. A failure
// leaves stale pages bounded by the cache TTL, so it is logged and not returned.
func (s *RecipeService) invalidate(ctx context.Context, op, id string) {
	if err := s.listings.InvalidateAll(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Str("op", op).Str("recipe_id", id).Msg("listing cache invalidation failed")
	}
}

// authorize enforces ownership when a subject is present. An empty subject
// means authentication is disabled.
func (s *RecipeService) authorize(ctx context.Context, subject, id string) error {
	if subject == "" {
		return nil
	}
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()
	cur, err := s.store.Recipes().FindByID(cctx, id)
	if err != nil {
		return err
	}
	if cur.OwnerID != subject {
		return model.ErrForbidden
	}
	return nil
}

// Create stamps the owner from subject and inserts r. r must already be validated.
func (s *RecipeService) Create(ctx context.Context, subject string, r *model.Recipe) (*model.Recipe, error) {
	r.OwnerID = subject
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()
	created, err := s.store.Recipes().Insert(cctx, r)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "create", created.ID)
	return created, nil
}

func (s *RecipeService) Get(ctx context.Context, id string) (*model.Recipe, error) {
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()
	return s.store.Recipes().FindByID(cctx, id)
}

func (s *RecipeService) Update(ctx context.Context, subject, id string, patch model.RecipePatch) (*model.Recipe, error) {
	if err := store.ValidateID(id); err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, subject, id); err != nil {
		return nil, err
	}
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()
	updated, err := s.store.Recipes().UpdateByID(cctx, id, patch)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, "update", id)
	return updated, nil
}

func (s *RecipeService) Delete(ctx context.Context, subject, id string) error {
	if err := store.ValidateID(id); err != nil {
		return err
	}
	if err := s.authorize(ctx, subject, id); err != nil {
		return err
	}
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()
	if err := s.store.Recipes().DeleteByID(cctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, "delete", id)
	return nil
}

func (s *RecipeService) List(ctx context.Context, c query.Criteria) (*model.Page, error) {
	return s.listings.GetPage(ctx, c)
}

// ShoppingList aggregates the ingredients of the requested recipes.
func (s *RecipeService) ShoppingList(ctx context.Context, ids []string) (*model.ShoppingList, error) {
	cctx, cancel := s.withTimeout(ctx)
	defer cancel()
	found, err := s.store.Recipes().FindByIDs(cctx, ids)
	if err != nil {
		return nil, err
	}
	return &model.ShoppingList{
		Items:   shopping.Aggregate(found),
		Missing: shopping.Missing(ids, found),
	}, nil
}
