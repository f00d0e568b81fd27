package query

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

// Filter is the normalized constraint set. Build produces it; zero value matches everything.
type Filter struct {
	Search     string
	Difficulty string
	Ingredient string
	Letter     string
}

// IsEmpty reports whether the filter imposes no constraint.
func (f Filter) IsEmpty() bool {
	return f.Search == "" && f.Difficulty == "" && f.Ingredient == "" && f.Letter == ""
}

// BSON renders the filter as a Mongo query document.
func (f Filter) BSON() bson.D {
	doc := bson.D{}
	if f.Search != "" {
		re := primitive.Regex{Pattern: regexp.QuoteMeta(f.Search), Options: "i"}
		doc = append(doc, bson.E{Key: "$or", Value: bson.A{
			bson.D{{Key: "title", Value: re}},
			bson.D{{Key: "description", Value: re}},
		}})
	}
	if f.Letter != "" {
		doc = append(doc, bson.E{Key: "title", Value: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Letter), Options: "i"}})
	}
	if f.Difficulty != "" {
		doc = append(doc, bson.E{Key: "difficulty", Value: f.Difficulty})
	}
	if f.Ingredient != "" {
		doc = append(doc, bson.E{Key: "ingredients", Value: primitive.Regex{Pattern: "^" + regexp.QuoteMeta(f.Ingredient) + "$", Options: "i"}})
	}
	return doc
}

// Matches evaluates the filter against r in-process with the same semantics as BSON.
func (f Filter) Matches(r *model.Recipe) bool {
	if r == nil {
		return false
	}
	if f.Search != "" &&
		!strings.Contains(strings.ToLower(r.Title), f.Search) &&
		!strings.Contains(strings.ToLower(r.Description), f.Search) {
		return false
	}
	if f.Letter != "" && !strings.HasPrefix(strings.ToLower(r.Title), f.Letter) {
		return false
	}
	if f.Difficulty != "" && r.Difficulty != f.Difficulty {
		return false
	}
	if f.Ingredient != "" {
		found := false
		for _, ing := range r.Ingredients {
			if strings.EqualFold(ing, f.Ingredient) {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// SortSpec is the fixed listing order: title ascending, ties by id.
var SortSpec = bson.D{{Key: "title", Value: 1}, {Key: "_id", Value: 1}}

// SummaryProjection keeps only the fields list rendering needs.
var SummaryProjection = bson.D{
	{Key: "title", Value: 1},
	{Key: "ingredients", Value: 1},
	{Key: "utensils", Value: 1},
	{Key: "difficulty", Value: 1},
	{Key: "time.total", Value: 1},
}

// FacetPipeline filters, sorts, windows and counts in a single aggregation.
// The result is one document {items: [...], total: [{count: n}]}.
func FacetPipeline(f Filter, skip, limit int) mongo.Pipeline {
	if skip < 0 {
		skip = 0
	}
	if limit < 1 {
		limit = 1
	}
	return mongo.Pipeline{
		{{Key: "$match", Value: f.BSON()}},
		{{Key: "$sort", Value: SortSpec}},
		{{Key: "$facet", Value: bson.D{
			{Key: "items", Value: bson.A{
				bson.D{{Key: "$skip", Value: int64(skip)}},
				bson.D{{Key: "$limit", Value: int64(limit)}},
				bson.D{{Key: "$project", Value: SummaryProjection}},
			}},
			{Key: "total", Value: bson.A{
				bson.D{{Key: "$count", Value: "count"}},
			}},
		}}},
	}
}
