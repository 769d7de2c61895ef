package service

import (
	"strings"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
)

// DefaultMinFiltered is the smallest filtered set used as-is; anything
// smaller falls back to the full dataset.
const DefaultMinFiltered = 5

// FilterResult is the candidate set produced by IngredientFilter.
type FilterResult struct {
	// Positions are dataset positions in ascending order.
	Positions []int
	// Qualifying counts recipes that matched every term, before any fallback.
	Qualifying int
	// FellBack is set when the full dataset replaced a too-small match set.
	FellBack bool
}

// IngredientFilter narrows a dataset to recipes containing every requested
// ingredient, case-insensitively.
type IngredientFilter struct {
	minFiltered int
}

// NewIngredientFilter creates a filter. minFiltered <= 0 selects DefaultMinFiltered.
func NewIngredientFilter(minFiltered int) *IngredientFilter {
	if minFiltered <= 0 {
		minFiltered = DefaultMinFiltered
	}
	return &IngredientFilter{minFiltered: minFiltered}
}

// Filter returns the positions of recipes containing all ingredients. With
// no ingredients the full dataset is returned. If fewer than the minimum
// qualify, the full dataset is returned and FellBack is set.
func (f *IngredientFilter) Filter(store *dataset.Store, ingredients []string) FilterResult {
	terms := normalizeTerms(ingredients)
	if len(terms) == 0 {
		all := store.Positions()
		return FilterResult{Positions: all, Qualifying: len(all)}
	}

	var matched []int
	for i := 0; i < store.Len(); i++ {
		if store.ContainsAll(i, terms) {
			matched = append(matched, i)
		}
	}

	if len(matched) < f.minFiltered {
		return FilterResult{Positions: store.Positions(), Qualifying: len(matched), FellBack: true}
	}
	return FilterResult{Positions: matched, Qualifying: len(matched)}
}

func normalizeTerms(ingredients []string) []string {
	terms := make([]string, 0, len(ingredients))
	for _, ing := range ingredients {
		if t := strings.ToLower(strings.TrimSpace(ing)); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
