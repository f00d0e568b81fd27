package recipeclient

import "time"

type Timing struct {
	Prep  int `json:"prep,omitempty"`
	Cook  int `json:"cook,omitempty"`
	Total int `json:"total,omitempty"`
}

type Nutrition struct {
	Calories      float64 `json:"calories,omitempty"`
	Fat           float64 `json:"fat,omitempty"`
	SaturatedFat  float64 `json:"saturatedFat,omitempty"`
	Carbohydrates float64 `json:"carbohydrates,omitempty"`
	Sugar         float64 `json:"sugar,omitempty"`
	Fiber         float64 `json:"fiber,omitempty"`
	Protein       float64 `json:"protein,omitempty"`
	Cholesterol   float64 `json:"cholesterol,omitempty"`
	Sodium        float64 `json:"sodium,omitempty"`
}

// Recipe is a full recipe as returned by the service.
type Recipe struct {
	ID            string     `json:"id,omitempty"`
	SchemaVersion int        `json:"schemaVersion,omitempty"`
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
	URL           string     `json:"url,omitempty"`
	OwnerID       string     `json:"ownerId,omitempty"`
	CreationTime  time.Time  `json:"creationTime,omitempty"`
	UpdateTime    time.Time  `json:"updateTime,omitempty"`
}

// NewRecipe is the writable subset sent on create.
type NewRecipe struct {
	Title        string     `json:"title"`
	Description  string     `json:"description,omitempty"`
	Ingredients  []string   `json:"ingredients"`
	Instructions []string   `json:"instructions,omitempty"`
	Difficulty   string     `json:"difficulty,omitempty"`
	Time         *Timing    `json:"time,omitempty"`
	Servings     int        `json:"servings,omitempty"`
	Nutrition    *Nutrition `json:"nutrition,omitempty"`
	Utensils     []string   `json:"utensils,omitempty"`
	Tags         []string   `json:"tags,omitempty"`
	URL          string     `json:"url,omitempty"`
}

// RecipeUpdate carries a partial update; nil fields are not sent.
type RecipeUpdate struct {
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
	URL          *string    `json:"url,omitempty"`
}

type RecipeSummary struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Ingredients []string `json:"ingredients"`
	Utensils    []string `json:"utensils,omitempty"`
	Difficulty  string   `json:"difficulty,omitempty"`
	TotalTime   int      `json:"totalTime,omitempty"`
}

type Page struct {
	Recipes    []RecipeSummary `json:"recipes"`
	TotalCount int64           `json:"totalCount"`
	TotalPages int             `json:"totalPages"`
	Page       int             `json:"page"`
	PageSize   int             `json:"pageSize"`
	IsLastPage bool            `json:"isLastPage"`
}

// ListOptions filters a listing. Zero values are omitted.
type ListOptions struct {
	Search         string
	Difficulty     string
	Ingredient     string
	StartingLetter string
	Page           int
	PageSize       int
}

type ShoppingItem struct {
	Ingredient string   `json:"ingredient"`
	Count      int      `json:"count"`
	Recipes    []string `json:"recipes"`
}

type ShoppingList struct {
	Items   []ShoppingItem `json:"items"`
	Missing []string       `json:"missing"`
}

type Health struct {
	Status    string    `json:"status"`
	Store     string    `json:"store"`
	Cache     string    `json:"cache"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
	Ready     bool      `json:"ready"`
}
