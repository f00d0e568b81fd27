// Package query turns optional listing criteria into a store filter and a
// deterministic cache key.
package query

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/cespare/xxhash/v2"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100

	// KeyNamespace prefixes every listing cache key. ListPattern matches all of them.
	KeyNamespace = "recipes:list:"
	ListPattern  = KeyNamespace + "*"

	keyVersion = "v2"
)

// Criteria are the raw listing parameters. Empty strings impose no constraint.
type Criteria struct {
	Search         string
	Difficulty     string
	Ingredient     string
	StartingLetter string
	Page           int
	PageSize       int
}

// Query is the resolved form of Criteria.
type Query struct {
	Filter    Filter
	Page      int
	PageSize  int
	Canonical string
	CacheKey  string
}

// Skip returns the number of matching documents preceding the page window.
func (q Query) Skip() int {
	return (q.Page - 1) * q.PageSize
}

// ClampPage maps any page below 1 to 1.
func ClampPage(page int) int {
	if page < 1 {
		return 1
	}
	return page
}

// ClampPageSize maps non-positive sizes to DefaultPageSize and caps at MaxPageSize.
func ClampPageSize(size int) int {
	switch {
	case size <= 0:
		return DefaultPageSize
	case size > MaxPageSize:
		return MaxPageSize
	default:
		return size
	}
}

// Build normalizes c and derives its filter and cache key.
func Build(c Criteria) Query {
	f := Filter{
		Search:     strings.ToLower(strings.TrimSpace(c.Search)),
		Difficulty: CanonicalDifficulty(c.Difficulty),
		Ingredient: strings.ToLower(strings.TrimSpace(c.Ingredient)),
		Letter:     firstRune(strings.ToLower(strings.TrimSpace(c.StartingLetter))),
	}
	q := Query{
		Filter:   f,
		Page:     ClampPage(c.Page),
		PageSize: ClampPageSize(c.PageSize),
	}
	q.Canonical = canonical(f, q.Page, q.PageSize)
	q.CacheKey = CacheKey(q.Canonical)
	return q
}

// firstRune keeps only the leading character of s.
func firstRune(s string) string {
	if s == "" {
		return ""
	}
	_, n := utf8.DecodeRuneInString(s)
	return s[:n]
}

// CacheKey hashes a canonical query string into the listing key namespace.
func CacheKey(canonical string) string {
	return fmt.Sprintf("%s%s:%016x", KeyNamespace, keyVersion, xxhash.Sum64String(canonical))
}

// canonical serializes the effective fields in a fixed order.
func canonical(f Filter, page, pageSize int) string {
	v := url.Values{}
	if f.Difficulty != "" {
		v.Set("difficulty", f.Difficulty)
	}
	if f.Ingredient != "" {
		v.Set("ingredient", f.Ingredient)
	}
	if f.Letter != "" {
		v.Set("letter", f.Letter)
	}
	if f.Search != "" {
		v.Set("search", f.Search)
	}
	var b strings.Builder
	if enc := v.Encode(); enc != "" {
		b.WriteString(enc)
		b.WriteByte('&')
	}
	fmt.Fprintf(&b, "page=%d&pageSize=%d", page, pageSize)
	return b.String()
}

// CanonicalDifficulty trims s and maps it onto Easy, Medium or Hard.
// Anything else is title-cased so that it still compares consistently.
func CanonicalDifficulty(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	switch strings.ToLower(s) {
	case "easy":
		return model.DifficultyEasy
	case "medium":
		return model.DifficultyMedium
	case "hard":
		return model.DifficultyHard
	}
	r, n := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + strings.ToLower(s[n:])
}

// IsKnownDifficulty reports whether s canonicalizes to a supported level.
func IsKnownDifficulty(s string) bool {
	switch CanonicalDifficulty(s) {
	case model.DifficultyEasy, model.DifficultyMedium, model.DifficultyHard:
		return true
	}
	return false
}

// ParseCriteria reads listing parameters from a request query string.
// Non-integer page values parse as zero and are clamped later.
func ParseCriteria(v url.Values) Criteria {
	letter := v.Get("startingLetter")
	if letter == "" {
		letter = v.Get("currentLetter")
	}
	page, _ := strconv.Atoi(strings.TrimSpace(v.Get("page")))
	size, _ := strconv.Atoi(strings.TrimSpace(v.Get("pageSize")))
	return Criteria{
		Search:         v.Get("search"),
		Difficulty:     v.Get("difficulty"),
		Ingredient:     v.Get("ingredient"),
		StartingLetter: letter,
		Page:           page,
		PageSize:       size,
	}
}
