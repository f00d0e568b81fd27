// Package pagination builds page envelopes from a single faceted store read.
package pagination

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
)

// Engine pages over a store.Recipes. Results are sorted by title ascending, ties by id.
type Engine struct {
	recipes store.Recipes
}

func NewEngine(recipes store.Recipes) *Engine {
	return &Engine{recipes: recipes}
}

// Paginate issues exactly one FacetPage call. A page past the end yields an
// empty recipes slice with correct totals.
func (e *Engine) Paginate(ctx context.Context, f query.Filter, page, pageSize int) (*model.Page, error) {
	page = query.ClampPage(page)
	pageSize = query.ClampPageSize(pageSize)

	res, err := e.recipes.FacetPage(ctx, f, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, errors.Wrap(err, "paginate recipes")
	}
	return Envelope(res.Items, res.Total, page, pageSize), nil
}

// Envelope computes page totals. pageSize must be positive.
func Envelope(items []model.RecipeSummary, total int64, page, pageSize int) *model.Page {
	totalPages := TotalPages(total, pageSize)
	if items == nil || page > totalPages {
		items = []model.RecipeSummary{}
	}
	if len(items) > pageSize {
		items = items[:pageSize]
	}
	return &model.Page{
		Recipes:    items,
		TotalCount: total,
		TotalPages: totalPages,
		Page:       page,
		PageSize:   pageSize,
		IsLastPage: page >= totalPages,
	}
}

// TotalPages is ceil(total/pageSize), zero when pageSize is not positive.
func TotalPages(total int64, pageSize int) int {
	if pageSize <= 0 || total <= 0 {
		return 0
	}
	return int((total + int64(pageSize) - 1) / int64(pageSize))
}
