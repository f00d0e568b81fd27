package mongodb

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

// recipeDocument is the persisted shape of model.Recipe.
type recipeDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	SchemaVersion int                `bson:"schemaVersion"`
	Title         string             `bson:"title"`
	Description   string             `bson:"description,omitempty"`
	Ingredients   []string           `bson:"ingredients"`
	Instructions  []string           `bson:"instructions"`
	Difficulty    string             `bson:"difficulty,omitempty"`
	Time          *model.Timing      `bson:"time,omitempty"`
	Servings      int                `bson:"servings,omitempty"`
	Nutrition     *model.Nutrition   `bson:"nutritional_values,omitempty"`
	Utensils      []string           `bson:"utensils,omitempty"`
	Tags          []string           `bson:"tags,omitempty"`
	URL           string             `bson:"url,omitempty"`
	OwnerID       string             `bson:"ownerId,omitempty"`
	CreationTime  time.Time          `bson:"creationTime"`
	UpdateTime    time.Time          `bson:"updateTime"`
}

// summaryDocument is one element of the $facet items array.
type summaryDocument struct {
	ID          primitive.ObjectID `bson:"_id"`
	Title       string             `bson:"title"`
	Ingredients []string           `bson:"ingredients"`
	Utensils    []string           `bson:"utensils,omitempty"`
	Difficulty  string             `bson:"difficulty,omitempty"`
	Time        *model.Timing      `bson:"time,omitempty"`
}

type facetDocument struct {
	Items []summaryDocument `bson:"items"`
	Total []struct {
		Count int64 `bson:"count"`
	} `bson:"total"`
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}

func toDocument(r *model.Recipe) recipeDocument {
	return recipeDocument{
		SchemaVersion: model.SchemaVersion,
		Title:         r.Title,
		Description:   r.Description,
		Ingredients:   nonNil(r.Ingredients),
		Instructions:  nonNil(r.Instructions),
		Difficulty:    r.Difficulty,
		Time:          r.Time,
		Servings:      r.Servings,
		Nutrition:     r.Nutrition,
		Utensils:      r.Utensils,
		Tags:          r.Tags,
		URL:           r.SourceURL,
		OwnerID:       r.OwnerID,
		CreationTime:  r.CreationTime,
		UpdateTime:    r.UpdateTime,
	}
}

func (d recipeDocument) toModel() *model.Recipe {
	return &model.Recipe{
		ID:            d.ID.Hex(),
		SchemaVersion: d.SchemaVersion,
		Title:         d.Title,
		Description:   d.Description,
		Ingredients:   d.Ingredients,
		Instructions:  d.Instructions,
		Difficulty:    d.Difficulty,
		Time:          d.Time,
		Servings:      d.Servings,
		Nutrition:     d.Nutrition,
		Utensils:      d.Utensils,
		Tags:          d.Tags,
		SourceURL:     d.URL,
		OwnerID:       d.OwnerID,
		CreationTime:  d.CreationTime.UTC(),
		UpdateTime:    d.UpdateTime.UTC(),
	}
}

func (d summaryDocument) toModel() model.RecipeSummary {
	s := model.RecipeSummary{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Ingredients: d.Ingredients,
		Utensils:    d.Utensils,
		Difficulty:  d.Difficulty,
	}
	if d.Time != nil {
		s.TotalTime = d.Time.Total
	}
	return s
}

// patchUpdate renders the provided patch fields as an update document.
// Optional strings set to "" are removed rather than stored empty.
func patchUpdate(p model.RecipePatch, now time.Time) bson.D {
	set := bson.D{}
	unset := bson.D{}
	add := func(k string, v interface{}) { set = append(set, bson.E{Key: k, Value: v}) }
	optional := func(k, v string) {
		if v == "" {
			unset = append(unset, bson.E{Key: k, Value: ""})
			return
		}
		add(k, v)
	}
	if p.Title != nil {
		add("title", *p.Title)
	}
	if p.Description != nil {
		optional("description", *p.Description)
	}
	if p.Ingredients != nil {
		add("ingredients", nonNil(*p.Ingredients))
	}
	if p.Instructions != nil {
		add("instructions", nonNil(*p.Instructions))
	}
	if p.Difficulty != nil {
		optional("difficulty", *p.Difficulty)
	}
	if p.Time != nil {
		add("time", p.Time)
	}
	if p.Servings != nil {
		add("servings", *p.Servings)
	}
	if p.Nutrition != nil {
		add("nutritional_values", p.Nutrition)
	}
	if p.Utensils != nil {
		add("utensils", nonNil(*p.Utensils))
	}
	if p.Tags != nil {
		add("tags", nonNil(*p.Tags))
	}
	if p.SourceURL != nil {
		optional("url", *p.SourceURL)
	}
	add("schemaVersion", model.SchemaVersion)
	add("updateTime", now)

	update := bson.D{{Key: "$set", Value: set}}
	if len(unset) > 0 {
		update = append(update, bson.E{Key: "$unset", Value: unset})
	}
	return update
}
