package store

import (
	"context"

	"github.com/go-openapi/strfmt"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
)

// Store exposes persistence operations required by services.
// Implementations live under internal/store/<driver>/ (mongo, memory).
type Store interface {
	Recipes() Recipes
	HealthPing(ctx context.Context) error
	Close(ctx context.Context) error
}

// Recipes is the recipe collection contract.
//
// Ids are 24-char hex ObjectIDs. A malformed id yields model.ErrInvalidID,
// a well-formed id with no document yields model.ErrNotFound.
type Recipes interface {
	Insert(ctx context.Context, r *model.Recipe) (*model.Recipe, error)
	FindByID(ctx context.Context, id string) (*model.Recipe, error)
	// FindByIDs returns the documents found, in request order. Unknown ids are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]*model.Recipe, error)
	UpdateByID(ctx context.Context, id string, patch model.RecipePatch) (*model.Recipe, error)
	DeleteByID(ctx context.Context, id string) error
	// FacetPage filters, sorts by title then id, and returns one window plus
	// the total match count from a single read.
	FacetPage(ctx context.Context, f query.Filter, skip, limit int) (*FacetResult, error)
	CountMatching(ctx context.Context, f query.Filter) (int64, error)
}

// FacetResult is one page window and the filter's total match count.
type FacetResult struct {
	Items []model.RecipeSummary
	Total int64
}

// ValidateID checks the ObjectID hex format.
func ValidateID(id string) error {
	if !strfmt.IsBSONObjectID(id) {
		return model.ErrInvalidID
	}
	return nil
}
