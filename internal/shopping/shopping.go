// Package shopping merges the ingredients of several recipes into one list.
package shopping

import (
	"strings"

	"github.com/Clinton-Cochrane/mobile-grocery/internal/model"
)

// Aggregate groups ingredients case-insensitively in first-seen order.
// Count is the number of recipes listing the ingredient; a recipe naming it
// twice counts once. The first spelling seen is kept.
func Aggregate(recipes []*model.Recipe) []model.ShoppingItem {
	items := []model.ShoppingItem{}
	index := map[string]int{}
	for _, r := range recipes {
		if r == nil {
			continue
		}
		seen := map[string]bool{}
		for _, ing := range r.Ingredients {
			name := strings.TrimSpace(ing)
			if name == "" {
				continue
			}
			key := strings.ToLower(name)
			if seen[key] {
				continue
			}
			seen[key] = true
			i, ok := index[key]
			if !ok {
				index[key] = len(items)
				items = append(items, model.ShoppingItem{Ingredient: name, Recipes: []string{}})
				i = len(items) - 1
			}
			items[i].Count++
			items[i].Recipes = append(items[i].Recipes, r.ID)
		}
	}
	return items
}

// Missing returns the requested ids absent from found, in request order.
func Missing(requested []string, found []*model.Recipe) []string {
	have := make(map[string]bool, len(found))
	for _, r := range found {
		have[r.ID] = true
	}
	out := []string{}
	dup := map[string]bool{}
	for _, id := range requested {
		if !have[id] && !dup[id] {
			out = append(out, id)
			dup[id] = true
		}
	}
	return out
}
