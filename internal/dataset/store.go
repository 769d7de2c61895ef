// Package dataset holds the immutable in-memory recipe collection and the
// loaders that populate it at process start.
package dataset

import (
	"strings"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

// Store is an ordered, read-only recipe collection. Positions are stable for
// the lifetime of the Store and identify recipes across the pipeline.
type Store struct {
	recipes []model.Recipe
	// lowered[i] holds recipe i's ingredient parts in lower case.
	lowered [][]string
}

// NewStore copies recipes into a new Store.
func NewStore(recipes []model.Recipe) *Store {
	s := &Store{
		recipes: make([]model.Recipe, len(recipes)),
		lowered: make([][]string, len(recipes)),
	}
	copy(s.recipes, recipes)
	for i := range s.recipes {
		parts := make([]string, len(s.recipes[i].Ingredients))
		for j, p := range s.recipes[i].Ingredients {
			parts[j] = strings.ToLower(p)
		}
		s.lowered[i] = parts
	}
	return s
}

// Len returns the number of recipes.
func (s *Store) Len() int {
	return len(s.recipes)
}

// At returns the recipe at position i. The returned value shares its
// ingredient and instruction slices with the Store and must not be modified.
func (s *Store) At(i int) model.Recipe {
	return s.recipes[i]
}

// Nutrients returns the nutrient vector of the recipe at position i.
func (s *Store) Nutrients(i int) model.NutrientVector {
	return s.recipes[i].Nutrients()
}

// Positions returns every position in dataset order.
func (s *Store) Positions() []int {
	out := make([]int, len(s.recipes))
	for i := range out {
		out[i] = i
	}
	return out
}

// ContainsAll reports whether every lower-case term is a substring of at
// least one ingredient part of the recipe at position i.
func (s *Store) ContainsAll(i int, loweredTerms []string) bool {
	parts := s.lowered[i]
	for _, term := range loweredTerms {
		found := false
		for _, p := range parts {
			if strings.Contains(p, term) {
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
