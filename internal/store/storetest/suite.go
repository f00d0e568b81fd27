package storetest

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/store"
)

// Run exercises the compliance suite against a store.Store implementation.
// makeStore is called once per subtest and must return a clean, isolated store.
func Run(t *testing.T, makeStore func(t *testing.T) store.Store) {
	t.Helper()

	t.Run("CRUD", func(t *testing.T) { testCRUD(t, makeStore(t)) })
	t.Run("IDErrors", func(t *testing.T) { testIDErrors(t, makeStore(t)) })
	t.Run("FacetOrderAndWindow", func(t *testing.T) { testFacetOrderAndWindow(t, makeStore(t)) })
	t.Run("FacetTotals", func(t *testing.T) { testFacetTotals(t, makeStore(t)) })
	t.Run("Filters", func(t *testing.T) { testFilters(t, makeStore(t)) })
	t.Run("FindByIDs", func(t *testing.T) { testFindByIDs(t, makeStore(t)) })
}

// NewRecipe returns a minimal valid recipe.
func NewRecipe(title string, ingredients ...string) *model.Recipe {
	if len(ingredients) == 0 {
		ingredients = []string{"water"}
	}
	return &model.Recipe{
		Title:        title,
		Ingredients:  ingredients,
		Instructions: []string{"step one", "step two"},
	}
}

// Seed inserts recipes and fails the test on the first error.
func Seed(t *testing.T, s store.Store, recs ...*model.Recipe) []*model.Recipe {
	t.Helper()
	out := make([]*model.Recipe, 0, len(recs))
	for _, r := range recs {
		got, err := s.Recipes().Insert(context.Background(), r)
		require.NoError(t, err, "Insert %q", r.Title)
		out = append(out, got)
	}
	return out
}

func titles(items []model.RecipeSummary) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.Title)
	}
	return out
}

func testCRUD(t *testing.T, s store.Store) {
	ctx := context.Background()
	in := NewRecipe("Apple Pie", "apple", "flour", "butter")
	in.Description = "classic"
	in.Difficulty = model.DifficultyMedium
	in.Time = &model.Timing{Prep: 20, Cook: 45, Total: 65}
	in.Nutrition = &model.Nutrition{Calories: 320}
	in.Utensils = []string{"oven"}

	created, err := s.Recipes().Insert(ctx, in)
	require.NoError(t, err)
	require.NoError(t, store.ValidateID(created.ID))
	assert.Equal(t, model.SchemaVersion, created.SchemaVersion)
	assert.False(t, created.CreationTime.IsZero())

	got, err := s.Recipes().FindByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Apple Pie", got.Title)
	assert.Equal(t, []string{"step one", "step two"}, got.Instructions)
	assert.Equal(t, 65, got.TotalTime())
	require.NotNil(t, got.Nutrition)
	assert.Equal(t, 320.0, got.Nutrition.Calories)

	time.Sleep(5 * time.Millisecond)
	title := "Apple Crumble"
	steps := []string{"mix", "bake", "serve"}
	updated, err := s.Recipes().UpdateByID(ctx, created.ID, model.RecipePatch{Title: &title, Instructions: &steps})
	require.NoError(t, err)
	assert.Equal(t, created.ID, updated.ID)
	assert.Equal(t, "Apple Crumble", updated.Title)
	assert.Equal(t, steps, updated.Instructions)
	assert.Equal(t, []string{"apple", "flour", "butter"}, updated.Ingredients, "unpatched fields are preserved")
	assert.Equal(t, "classic", updated.Description)
	assert.True(t, updated.CreationTime.Equal(created.CreationTime), "creationTime preserved")
	assert.True(t, updated.UpdateTime.After(created.UpdateTime), "updateTime advanced")

	require.NoError(t, s.Recipes().DeleteByID(ctx, created.ID))
	_, err = s.Recipes().FindByID(ctx, created.ID)
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.ErrorIs(t, s.Recipes().DeleteByID(ctx, created.ID), model.ErrNotFound)
}

func testIDErrors(t *testing.T, s store.Store) {
	ctx := context.Background()
	unknown := primitive.NewObjectID().Hex()
	title := "x"

	_, err := s.Recipes().FindByID(ctx, "not-an-id")
	assert.ErrorIs(t, err, model.ErrInvalidID)
	_, err = s.Recipes().FindByID(ctx, unknown)
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = s.Recipes().UpdateByID(ctx, "123", model.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, model.ErrInvalidID)
	_, err = s.Recipes().UpdateByID(ctx, unknown, model.RecipePatch{Title: &title})
	assert.ErrorIs(t, err, model.ErrNotFound)

	assert.ErrorIs(t, s.Recipes().DeleteByID(ctx, "zzzzzzzzzzzzzzzzzzzzzzzz"), model.ErrInvalidID)
	assert.ErrorIs(t, s.Recipes().DeleteByID(ctx, unknown), model.ErrNotFound)
	assert.False(t, errors.Is(model.ErrInvalidID, model.ErrNotFound))
}

func testFacetOrderAndWindow(t *testing.T, s store.Store) {
	ctx := context.Background()
	Seed(t, s, NewRecipe("Carrot Soup"), NewRecipe("Apple Pie"), NewRecipe("Banana Bread"))

	res, err := s.Recipes().FacetPage(ctx, query.Filter{}, 0, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, []string{"Apple Pie", "Banana Bread"}, titles(res.Items))

	res, err = s.Recipes().FacetPage(ctx, query.Filter{}, 2, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total)
	assert.Equal(t, []string{"Carrot Soup"}, titles(res.Items))

	res, err = s.Recipes().FacetPage(ctx, query.Filter{}, 10, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.Total, "total ignores the window")
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func testFacetTotals(t *testing.T, s store.Store) {
	ctx := context.Background()
	var recs []*model.Recipe
	for i := 0; i < 100; i++ {
		r := NewRecipe(fmt.Sprintf("Recipe %03d", i))
		if i < 45 {
			r.Difficulty = model.DifficultyHard
		} else {
			r.Difficulty = model.DifficultyMedium
		}
		recs = append(recs, r)
	}
	Seed(t, s, recs...)

	f := query.Build(query.Criteria{Difficulty: "hard"}).Filter
	n, err := s.Recipes().CountMatching(ctx, f)
	require.NoError(t, err)
	assert.Equal(t, int64(45), n)

	res, err := s.Recipes().FacetPage(ctx, f, 40, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(45), res.Total)
	assert.Len(t, res.Items, 5)

	res, err = s.Recipes().FacetPage(ctx, f, 50, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(45), res.Total)
	assert.Empty(t, res.Items)
}

func testFilters(t *testing.T, s store.Store) {
	ctx := context.Background()
	pie := NewRecipe("Apple Pie", "Apple", "Flour")
	pie.Difficulty = model.DifficultyMedium
	bread := NewRecipe("Banana Bread", "banana", "flour", "egg")
	bread.Description = "moist loaf"
	bread.Difficulty = model.DifficultyEasy
	soup := NewRecipe("Carrot Soup", "carrot", "onion")
	soup.Difficulty = model.DifficultyEasy
	soup.Time = &model.Timing{Total: 30}
	Seed(t, s, pie, bread, soup)

	cases := []struct {
		name string
		c    query.Criteria
		want []string
	}{
		{"search title", query.Criteria{Search: "PIE"}, []string{"Apple Pie"}},
		{"search description", query.Criteria{Search: "loaf"}, []string{"Banana Bread"}},
		{"letter", query.Criteria{StartingLetter: "c"}, []string{"Carrot Soup"}},
		{"difficulty", query.Criteria{Difficulty: "easy"}, []string{"Banana Bread", "Carrot Soup"}},
		{"ingredient", query.Criteria{Ingredient: "FLOUR"}, []string{"Apple Pie", "Banana Bread"}},
		{"ingredient whole element only", query.Criteria{Ingredient: "flo"}, []string{}},
		{"regex metachars are literal", query.Criteria{Search: ".*"}, []string{}},
		{"conjunction", query.Criteria{Difficulty: "Easy", Ingredient: "flour"}, []string{"Banana Bread"}},
		{"hard matches nothing", query.Criteria{Difficulty: "Hard"}, []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res, err := s.Recipes().FacetPage(ctx, query.Build(tc.c).Filter, 0, 10)
			require.NoError(t, err)
			assert.Equal(t, tc.want, titles(res.Items))
			assert.Equal(t, int64(len(tc.want)), res.Total)
		})
	}

	res, err := s.Recipes().FacetPage(ctx, query.Build(query.Criteria{StartingLetter: "c"}).Filter, 0, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, 30, res.Items[0].TotalTime, "summary carries total time")
	assert.Equal(t, []string{"carrot", "onion"}, res.Items[0].Ingredients)
}

func testFindByIDs(t *testing.T, s store.Store) {
	ctx := context.Background()
	seeded := Seed(t, s, NewRecipe("One"), NewRecipe("Two"))
	missing := primitive.NewObjectID().Hex()

	got, err := s.Recipes().FindByIDs(ctx, []string{seeded[1].ID, missing, seeded[0].ID})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Two", got[0].Title)
	assert.Equal(t, "One", got[1].Title)

	_, err = s.Recipes().FindByIDs(ctx, []string{"bad"})
	assert.ErrorIs(t, err, model.ErrInvalidID)
}
