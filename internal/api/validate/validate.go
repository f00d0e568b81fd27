package validate

import (
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
	"github.com/Clinton-Cochrane/mobile-grocery/internal/query"
)

const (
	MaxTitleLen       = 200
	MaxDescriptionLen = 2000
	MaxShoppingIDs    = 100
)

func invalid(field, format string, args ...interface{}) error {
	return model.NewValidationError(field, fmt.Sprintf(format, args...))
}

// NonEmpty rejects blank strings.
func NonEmpty(field, v string) error {
	if strings.TrimSpace(v) == "" {
		return invalid(field, "is required")
	}
	return nil
}

// MaxLen counts runes, not bytes.
func MaxLen(field, v string, limit int) error {
	if utf8.RuneCountInString(v) > limit {
		return invalid(field, "exceeds %d characters", limit)
	}
	return nil
}

// Title trims v in place and checks it is 1..MaxTitleLen characters.
func Title(v *string) error {
	*v = strings.TrimSpace(*v)
	if err := NonEmpty("title", *v); err != nil {
		return err
	}
	return MaxLen("title", *v, MaxTitleLen)
}

// Strings trims every element in place and rejects empty ones.
func Strings(field string, vs []string, minItems int) error {
	if len(vs) < minItems {
		return invalid(field, "requires at least %d item(s)", minItems)
	}
	for i := range vs {
		vs[i] = strings.TrimSpace(vs[i])
		if vs[i] == "" {
			return invalid(fmt.Sprintf("%s[%d]", field, i), "must not be empty")
		}
	}
	return nil
}

// Difficulty canonicalizes v in place. Empty is allowed.
func Difficulty(v *string) error {
	if strings.TrimSpace(*v) == "" {
		*v = ""
		return nil
	}
	if !query.IsKnownDifficulty(*v) {
		return invalid("difficulty", "must be one of %s, %s, %s", model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard)
	}
	*v = query.CanonicalDifficulty(*v)
	return nil
}

// SourceURL accepts empty or an absolute http(s) URL.
func SourceURL(v *string) error {
	*v = strings.TrimSpace(*v)
	if *v == "" {
		return nil
	}
	u, err := url.ParseRequestURI(*v)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return invalid("url", "must be an absolute http(s) URL")
	}
	return nil
}

func Timing(t *model.Timing) error {
	if t == nil {
		return nil
	}
	if t.Prep < 0 || t.Cook < 0 || t.Total < 0 {
		return invalid("time", "values must be non-negative")
	}
	return nil
}

func Nutrition(n *model.Nutrition) error {
	if n == nil {
		return nil
	}
	for _, v := range []float64{n.Calories, n.Fat, n.SaturatedFat, n.Carbohydrates, n.Sugar, n.Fiber, n.Protein, n.Cholesterol, n.Sodium} {
		if v < 0 {
			return invalid("nutrition", "values must be non-negative")
		}
	}
	return nil
}

func Servings(v int) error {
	if v < 0 {
		return invalid("servings", "must be non-negative")
	}
	return nil
}

// -------- Request specific helpers ----------

// CreateRecipe normalizes r in place and returns the first violated rule.
func CreateRecipe(r *model.Recipe) error {
	if err := Title(&r.Title); err != nil {
		return err
	}
	if err := MaxLen("description", r.Description, MaxDescriptionLen); err != nil {
		return err
	}
	if err := Strings("ingredients", r.Ingredients, 1); err != nil {
		return err
	}
	if err := Strings("instructions", r.Instructions, 0); err != nil {
		return err
	}
	if err := Difficulty(&r.Difficulty); err != nil {
		return err
	}
	if err := Timing(r.Time); err != nil {
		return err
	}
	if err := Servings(r.Servings); err != nil {
		return err
	}
	if err := Nutrition(r.Nutrition); err != nil {
		return err
	}
	if err := Strings("utensils", r.Utensils, 0); err != nil {
		return err
	}
	if err := Strings("tags", r.Tags, 0); err != nil {
		return err
	}
	return SourceURL(&r.SourceURL)
}

// UpdateRecipe validates the fields present in p. An empty patch is rejected.
func UpdateRecipe(p *model.RecipePatch) error {
	if p.IsEmpty() {
		return invalid("body", "no fields to update")
	}
	if p.Title != nil {
		if err := Title(p.Title); err != nil {
			return err
		}
	}
	if p.Description != nil {
		if err := MaxLen("description", *p.Description, MaxDescriptionLen); err != nil {
			return err
		}
	}
	if p.Ingredients != nil {
		if err := Strings("ingredients", *p.Ingredients, 1); err != nil {
			return err
		}
	}
	if p.Instructions != nil {
		if err := Strings("instructions", *p.Instructions, 0); err != nil {
			return err
		}
	}
	if p.Difficulty != nil {
		if err := Difficulty(p.Difficulty); err != nil {
			return err
		}
	}
	if err := Timing(p.Time); err != nil {
		return err
	}
	if p.Servings != nil {
		if err := Servings(*p.Servings); err != nil {
			return err
		}
	}
	if err := Nutrition(p.Nutrition); err != nil {
		return err
	}
	if p.Utensils != nil {
		if err := Strings("utensils", *p.Utensils, 0); err != nil {
			return err
		}
	}
	if p.Tags != nil {
		if err := Strings("tags", *p.Tags, 0); err != nil {
			return err
		}
	}
	if p.SourceURL != nil {
		return SourceURL(p.SourceURL)
	}
	return nil
}

// ShoppingList checks the requested id list size.
func ShoppingList(ids []string) error {
	if len(ids) == 0 {
		return invalid("recipeIds", "requires at least 1 item(s)")
	}
	if len(ids) > MaxShoppingIDs {
		return invalid("recipeIds", "exceeds %d items", MaxShoppingIDs)
	}
	return nil
}
