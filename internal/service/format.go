package service

import (
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/types"
)

// Recommendation is a recipe selected by the query engine together with its
// cosine distance to the query.
type Recommendation struct {
	Recipe   model.Recipe
	Distance float64
}

// FormatRecommendations converts recommendations into wire records, keeping
// their order. The result and every list inside it are non-nil.
func FormatRecommendations(recs []Recommendation, withDistance bool) []types.RecipeOutput {
	out := make([]types.RecipeOutput, 0, len(recs))
	for _, rec := range recs {
		r := rec.Recipe
		o := types.RecipeOutput{
			Name:                  r.Name,
			CookTime:              r.CookTime,
			PrepTime:              r.PrepTime,
			TotalTime:             r.TotalTime,
			RecipeIngredientParts: nonNil(r.Ingredients),
			Calories:              r.Calories,
			FatContent:            r.FatContent,
			SaturatedFatContent:   r.SaturatedFatContent,
			CholesterolContent:    r.CholesterolContent,
			SodiumContent:         r.SodiumContent,
			CarbohydrateContent:   r.CarbohydrateContent,
			FiberContent:          r.FiberContent,
			SugarContent:          r.SugarContent,
			ProteinContent:        r.ProteinContent,
			RecipeInstructions:    nonNil(r.Instructions),
		}
		if withDistance {
			d := rec.Distance
			o.Distance = &d
		}
		out = append(out, o)
	}
	return out
}

func nonNil(l model.QuotedList) []string {
	out := make([]string, len(l))
	copy(out, l)
	return out
}
