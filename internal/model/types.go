package model

import "time"

// SchemaVersion is stamped on every recipe document written by this service.
const SchemaVersion = 2

// Difficulty levels accepted on write.
const (
	DifficultyEasy   = "Easy"
	DifficultyMedium = "Medium"
	DifficultyHard   = "Hard"
)

// Timing holds time estimates in minutes.
type Timing struct {
	Prep  int `json:"prep,omitempty" bson:"prep,omitempty"`
	Cook  int `json:"cook,omitempty" bson:"cook,omitempty"`
	Total int `json:"total,omitempty" bson:"total,omitempty"`
}

// Nutrition holds per-serving nutritional values.
type Nutrition struct {
	Calories      float64 `json:"calories,omitempty" bson:"calories,omitempty"`
	Fat           float64 `json:"fat,omitempty" bson:"fat,omitempty"`
	SaturatedFat  float64 `json:"saturatedFat,omitempty" bson:"saturated_fat,omitempty"`
	Carbohydrates float64 `json:"carbohydrates,omitempty" bson:"carbohydrates,omitempty"`
	Sugar         float64 `json:"sugar,omitempty" bson:"sugar,omitempty"`
	Fiber         float64 `json:"fiber,omitempty" bson:"fiber,omitempty"`
	Protein       float64 `json:"protein,omitempty" bson:"protein,omitempty"`
	Cholesterol   float64 `json:"cholesterol,omitempty" bson:"cholesterol,omitempty"`
	Sodium        float64 `json:"sodium,omitempty" bson:"sodium,omitempty"`
}

// Recipe is the only persisted entity.
type Recipe struct {
	ID            string     `json:"id"`
	SchemaVersion int        `json:"schemaVersion"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Ingredients   []string   `json:"ingredients"`
	Instructions  []string   `json:"instructions"`
	Difficulty    string     `json:"difficulty,omitempty"`
	Time          *Timing    `json:"time,omitempty"`
	Servings      int        `json:"servings,omitempty"`
	Nutrition     *Nutrition `json:"nutrition,omitempty"`
	Utensils      []string   `json:"utensils,omitempty"`
	Tags          []string   `json:"tags,omitempty"`
	SourceURL     string     `json:"url,omitempty"`
	OwnerID       string     `json:"ownerId,omitempty"`
	CreationTime  time.Time  `json:"creationTime"`
	UpdateTime    time.Time  `json:"updateTime"`
}

// TotalTime returns the total time estimate or zero.
func (r *Recipe) TotalTime() int {
	if r.Time == nil {
		return 0
	}
	return r.Time.Total
}

// Summary projects the recipe onto the list view.
func (r *Recipe) Summary() RecipeSummary {
	return RecipeSummary{
		ID:          r.ID,
		Title:       r.Title,
		Ingredients: r.Ingredients,
		Utensils:    r.Utensils,
		Difficulty:  r.Difficulty,
		TotalTime:   r.TotalTime(),
	}
}

// RecipeSummary is the narrow view returned by listings.
type RecipeSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Utensils    []string `json:"utensils,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	TotalTime   int      `json:"totalTime,omitempty"`
}

// RecipePatch carries a partial update. Nil fields are left untouched.
type RecipePatch struct {
	Title        *string    `json:"title,omitempty"`
	Description  *string    `json:"description,omitempty"`
	Ingredients  *[]string  `json:"ingredients,omitempty"`
	Instructions *[]string  `json:"instructions,omitempty"`
	Difficulty   *string    `json:"difficulty,omitempty"`
	Time         *Timing    `json:"time,omitempty"`
	Servings     *int       `json:"servings,omitempty"`
	Nutrition    *Nutrition `json:"nutrition,omitempty"`
	Utensils     *[]string  `json:"utensils,omitempty"`
	Tags         *[]string  `json:"tags,omitempty"`
	SourceURL    *string    `json:"url,omitempty"`
}

// IsEmpty reports whether the patch changes nothing.
func (p RecipePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Ingredients == nil &&
		p.Instructions == nil && p.Difficulty == nil && p.Time == nil &&
		p.Servings == nil && p.Nutrition == nil && p.Utensils == nil &&
		p.Tags == nil && p.SourceURL == nil
}

// Apply copies the set fields of p onto r.
func (p RecipePatch) Apply(r *Recipe) {
	if p.Title != nil {
		r.Title = *p.Title
	}
	if p.Description != nil {
		r.Description = *p.Description
	}
	if p.Ingredients != nil {
		r.Ingredients = append([]string(nil), (*p.Ingredients)...)
	}
	if p.Instructions != nil {
		r.Instructions = append([]string(nil), (*p.Instructions)...)
	}
	if p.Difficulty != nil {
		r.Difficulty = *p.Difficulty
	}
	if p.Time != nil {
		t := *p.Time
		r.Time = &t
	}
	if p.Servings != nil {
		r.Servings = *p.Servings
	}
	if p.Nutrition != nil {
		n := *p.Nutrition
		r.Nutrition = &n
	}
	if p.Utensils != nil {
		r.Utensils = append([]string(nil), (*p.Utensils)...)
	}
	if p.Tags != nil {
		r.Tags = append([]string(nil), (*p.Tags)...)
	}
	if p.SourceURL != nil {
		r.SourceURL = *p.SourceURL
	}
}

// Page is the listing envelope.
type Page struct {
	Recipes    []RecipeSummary `json:"recipes"`
	TotalCount int64           `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	IsLastPage bool            `json:"isLastPage"`
}

// ShoppingItem is one aggregated ingredient line.
type ShoppingItem struct {
	Ingredient string   `json:"ingredient"`
	Count      int      `json:"count"`
	Recipes    []string `json:"recipes"`
}

// ShoppingList aggregates the ingredients of selected recipes.
type ShoppingList struct {
	Items   []ShoppingItem `json:"items"`
	Missing []string       `json:"missing"`
}
