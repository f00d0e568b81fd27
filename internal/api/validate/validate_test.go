package validate

import (
	"errors"
	"strings"
	"testing"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

func validRecipe() *model.Recipe {
	return &model.Recipe{
		Title:        "  Apple Pie ",
		Ingredients:  []string{" apple", "flour "},
		Instructions: []string{"peel", "bake"},
		Difficulty:   "easy",
		SourceURL:    "https://example.com/pie",
	}
}

func TestCreateRecipe_NormalizesInPlace(t *testing.T) {
	r := validRecipe()
	if err := CreateRecipe(r); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Title != "Apple Pie" {
		t.Fatalf("title not trimmed: %q", r.Title)
	}
	if r.Ingredients[0] != "apple" || r.Ingredients[1] != "flour" {
		t.Fatalf("ingredients not trimmed: %v", r.Ingredients)
	}
	if r.Difficulty != model.DifficultyEasy {
		t.Fatalf("difficulty not canonical: %q", r.Difficulty)
	}
}

func TestCreateRecipe_Rules(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *model.Recipe)
		field  string
	}{
		{"missing title", func(r *model.Recipe) { r.Title = "   " }, "title"},
		{"long title", func(r *model.Recipe) { r.Title = strings.Repeat("x", MaxTitleLen+1) }, "title"},
		{"long description", func(r *model.Recipe) { r.Description = strings.Repeat("d", MaxDescriptionLen+1) }, "description"},
		{"no ingredients", func(r *model.Recipe) { r.Ingredients = nil }, "ingredients"},
		{"blank ingredient", func(r *model.Recipe) { r.Ingredients = []string{"salt", " "} }, "ingredients[1]"},
		{"blank instruction", func(r *model.Recipe) { r.Instructions = []string{""} }, "instructions[0]"},
		{"unknown difficulty", func(r *model.Recipe) { r.Difficulty = "expert" }, "difficulty"},
		{"negative time", func(r *model.Recipe) { r.Time = &model.Timing{Cook: -1} }, "time"},
		{"negative servings", func(r *model.Recipe) { r.Servings = -2 }, "servings"},
		{"negative nutrition", func(r *model.Recipe) { r.Nutrition = &model.Nutrition{Sodium: -1} }, "nutrition"},
		{"relative url", func(r *model.Recipe) { r.SourceURL = "/pie" }, "url"},
		{"ftp url", func(r *model.Recipe) { r.SourceURL = "ftp://example.com/pie" }, "url"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := validRecipe()
			tt.mutate(r)
			err := CreateRecipe(r)
			if err == nil {
				t.Fatalf("expected error")
			}
			var ve model.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Field != tt.field {
				t.Fatalf("field = %q, want %q", ve.Field, tt.field)
			}
			if !errors.Is(err, model.ErrValidation) {
				t.Fatalf("expected errors.Is ErrValidation")
			}
		})
	}
}

func TestUpdateRecipe(t *testing.T) {
	if err := UpdateRecipe(&model.RecipePatch{}); err == nil {
		t.Fatalf("expected empty patch error")
	}

	blank := " "
	if err := UpdateRecipe(&model.RecipePatch{Title: &blank}); err == nil {
		t.Fatalf("expected blank title error")
	}

	none := []string{}
	if err := UpdateRecipe(&model.RecipePatch{Ingredients: &none}); err == nil {
		t.Fatalf("expected ingredients error")
	}

	diff := "HARD"
	clear := ""
	p := &model.RecipePatch{Difficulty: &diff, SourceURL: &clear}
	if err := UpdateRecipe(p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if *p.Difficulty != model.DifficultyHard {
		t.Fatalf("difficulty not canonical: %q", *p.Difficulty)
	}
}

func TestShoppingList(t *testing.T) {
	if err := ShoppingList(nil); err == nil {
		t.Fatalf("expected error for empty list")
	}
	if err := ShoppingList(make([]string, MaxShoppingIDs+1)); err == nil {
		t.Fatalf("expected error for oversized list")
	}
	if err := ShoppingList([]string{"a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
