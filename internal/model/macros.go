package model

import "math"

// NutrientCount is the arity of every nutrient vector.
const NutrientCount = 9

// NutrientColumns names the dataset columns backing each NutrientVector
// position. Requests use the same positional order.
var NutrientColumns = [NutrientCount]string{
	"Calories",
	"FatContent",
	"SaturatedFatContent",
	"CholesterolContent",
	"SodiumContent",
	"CarbohydrateContent",
	"FiberContent",
	"SugarContent",
	"ProteinContent",
}

// NutrientVector holds one value per NutrientColumns entry.
type NutrientVector [NutrientCount]float64

// Finite reports whether every component is a finite number.
func (v NutrientVector) Finite() bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}
	return true
}

// NutrientVectorFrom copies a slice into a vector. ok is false when the
// slice does not have exactly NutrientCount elements.
func NutrientVectorFrom(values []float64) (v NutrientVector, ok bool) {
	if len(values) != NutrientCount {
		return v, false
	}
	copy(v[:], values)
	return v, true
}
