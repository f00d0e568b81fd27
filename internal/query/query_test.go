package query

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

func TestBuild_ClampsPaging(t *testing.T) {
	cases := []struct {
		name         string
		page, size   int
		wantPage     int
		wantPageSize int
	}{
		{"zero values", 0, 0, 1, DefaultPageSize},
		{"negative", -3, -10, 1, DefaultPageSize},
		{"over max", 2, 500, 2, MaxPageSize},
		{"exact max", 1, MaxPageSize, 1, MaxPageSize},
		{"normal", 4, 15, 4, 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Build(Criteria{Page: tc.page, PageSize: tc.size})
			assert.Equal(t, tc.wantPage, q.Page)
			assert.Equal(t, tc.wantPageSize, q.PageSize)
		})
	}
}

func TestBuild_EmptyFieldsCanonicalizeIdentically(t *testing.T) {
	a := Build(Criteria{})
	b := Build(Criteria{Search: "", Difficulty: "  ", Ingredient: "", StartingLetter: ""})
	c := Build(Criteria{Page: 1, PageSize: 20})

	assert.Equal(t, a.CacheKey, b.CacheKey)
	assert.Equal(t, a.CacheKey, c.CacheKey)
	assert.Equal(t, "page=1&pageSize=20", a.Canonical)
	assert.True(t, a.Filter.IsEmpty())
}

func TestBuild_NormalizesCaseAndWhitespace(t *testing.T) {
	a := Build(Criteria{Search: " Pie ", Difficulty: "easy", Ingredient: "Flour", StartingLetter: "A"})
	b := Build(Criteria{Search: "pie", Difficulty: "EASY", Ingredient: "flour ", StartingLetter: "a"})

	assert.Equal(t, a.CacheKey, b.CacheKey)
	assert.Equal(t, "difficulty=Easy&ingredient=flour&letter=a&search=pie&page=1&pageSize=20", a.Canonical)
}

func TestBuild_StartingLetterIsSingleCharacter(t *testing.T) {
	ab := Build(Criteria{StartingLetter: "ab"})
	a := Build(Criteria{StartingLetter: "A"})
	assert.Equal(t, "a", ab.Filter.Letter)
	assert.Equal(t, a.CacheKey, ab.CacheKey)

	assert.Equal(t, "é", Build(Criteria{StartingLetter: " Éclair"}).Filter.Letter)
}

func TestBuild_DistinctConstraintsProduceDistinctKeys(t *testing.T) {
	base := Build(Criteria{Search: "pie"})
	keys := map[string]string{
		"base":       base.CacheKey,
		"page":       Build(Criteria{Search: "pie", Page: 2}).CacheKey,
		"size":       Build(Criteria{Search: "pie", PageSize: 10}).CacheKey,
		"difficulty": Build(Criteria{Search: "pie", Difficulty: "Hard"}).CacheKey,
		"unfiltered": Build(Criteria{}).CacheKey,
	}
	seen := map[string]string{}
	for name, k := range keys {
		if other, ok := seen[k]; ok {
			t.Fatalf("key collision between %s and %s", name, other)
		}
		seen[k] = name
		assert.True(t, strings.HasPrefix(k, KeyNamespace+"v2:"), k)
	}
}

func TestCanonicalDifficulty(t *testing.T) {
	assert.Equal(t, "", CanonicalDifficulty("   "))
	assert.Equal(t, model.DifficultyEasy, CanonicalDifficulty("eAsY"))
	assert.Equal(t, model.DifficultyMedium, CanonicalDifficulty("medium"))
	assert.Equal(t, model.DifficultyHard, CanonicalDifficulty(" HARD "))
	assert.Equal(t, "Expert", CanonicalDifficulty("EXPERT"))

	assert.True(t, IsKnownDifficulty("hard"))
	assert.False(t, IsKnownDifficulty("expert"))
	assert.False(t, IsKnownDifficulty(""))
}

func TestParseCriteria(t *testing.T) {
	v := url.Values{}
	v.Set("search", "soup")
	v.Set("difficulty", "Easy")
	v.Set("ingredient", "carrot")
	v.Set("currentLetter", "c")
	v.Set("page", "3")
	v.Set("pageSize", "abc")

	c := ParseCriteria(v)
	assert.Equal(t, Criteria{
		Search:         "soup",
		Difficulty:     "Easy",
		Ingredient:     "carrot",
		StartingLetter: "c",
		Page:           3,
		PageSize:       0,
	}, c)

	v.Set("startingLetter", "b")
	assert.Equal(t, "b", ParseCriteria(v).StartingLetter)
}

func TestFilterBSON_Empty(t *testing.T) {
	doc := Filter{}.BSON()
	require.NotNil(t, doc)
	assert.Len(t, doc, 0)
}

func TestFilterBSON_QuotesUserInput(t *testing.T) {
	q := Build(Criteria{Search: "a.b*", StartingLetter: "(", Ingredient: "salt+", Difficulty: "hard"})
	doc := q.Filter.BSON()
	m := doc.Map()

	or, ok := m["$or"].(bson.A)
	require.True(t, ok)
	require.Len(t, or, 2)
	titleRe := or[0].(bson.D).Map()["title"].(primitive.Regex)
	assert.Equal(t, `a\.b\*`, titleRe.Pattern)
	assert.Equal(t, "i", titleRe.Options)

	assert.Equal(t, primitive.Regex{Pattern: `^\(`, Options: "i"}, m["title"])
	assert.Equal(t, "Hard", m["difficulty"])
	assert.Equal(t, primitive.Regex{Pattern: `^salt\+$`, Options: "i"}, m["ingredients"])
}

func TestFilterMatches(t *testing.T) {
	r := &model.Recipe{
		Title:       "Carrot Soup",
		Description: "Warm and smooth",
		Ingredients: []string{"Carrot", "Onion", "Stock"},
		Difficulty:  model.DifficultyEasy,
	}
	cases := []struct {
		name string
		c    Criteria
		want bool
	}{
		{"empty", Criteria{}, true},
		{"search title", Criteria{Search: "soup"}, true},
		{"search description", Criteria{Search: "SMOOTH"}, true},
		{"search miss", Criteria{Search: "bread"}, false},
		{"letter", Criteria{StartingLetter: "c"}, true},
		{"letter miss", Criteria{StartingLetter: "s"}, false},
		{"difficulty", Criteria{Difficulty: "easy"}, true},
		{"difficulty miss", Criteria{Difficulty: "hard"}, false},
		{"ingredient whole element", Criteria{Ingredient: "onion"}, true},
		{"ingredient partial element", Criteria{Ingredient: "oni"}, false},
		{"conjunction", Criteria{Search: "soup", Ingredient: "stock", StartingLetter: "C"}, true},
		{"conjunction miss", Criteria{Search: "soup", Ingredient: "milk"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Build(tc.c).Filter.Matches(r))
		})
	}
	assert.False(t, Filter{}.Matches(nil))
}

func TestFacetPipeline_Shape(t *testing.T) {
	p := FacetPipeline(Filter{Difficulty: "Easy"}, 20, 10)
	require.Len(t, p, 3)
	assert.Equal(t, "$match", p[0][0].Key)
	assert.Equal(t, "$sort", p[1][0].Key)
	assert.Equal(t, SortSpec, p[1][0].Value)
	assert.Equal(t, "$facet", p[2][0].Key)

	facet := p[2][0].Value.(bson.D).Map()
	items := facet["items"].(bson.A)
	require.Len(t, items, 3)
	assert.Equal(t, bson.D{{Key: "$skip", Value: int64(20)}}, items[0])
	assert.Equal(t, bson.D{{Key: "$limit", Value: int64(10)}}, items[1])
	assert.Equal(t, bson.A{bson.D{{Key: "$count", Value: "count"}}}, facet["total"])
}

func TestQuerySkip(t *testing.T) {
	assert.Equal(t, 0, Build(Criteria{Page: 1, PageSize: 10}).Skip())
	assert.Equal(t, 40, Build(Criteria{Page: 5, PageSize: 10}).Skip())
}
