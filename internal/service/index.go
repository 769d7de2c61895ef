package service

import (
	"cmp"
	"fmt"
	"math"
	"slices"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

// Scaler standardizes nutrient vectors with per-column mean and population
// standard deviation.
type Scaler struct {
	Mean model.NutrientVector
	Std  model.NutrientVector
}

// FitScaler computes column statistics over rows.
func FitScaler(rows []model.NutrientVector) Scaler {
	var s Scaler
	if len(rows) == 0 {
		return s
	}
	n := float64(len(rows))

	for _, r := range rows {
		for j, x := range r {
			s.Mean[j] += x
		}
	}
	for j := range s.Mean {
		s.Mean[j] /= n
	}

	for _, r := range rows {
		for j, x := range r {
			d := x - s.Mean[j]
			s.Std[j] += d * d
		}
	}
	for j := range s.Std {
		s.Std[j] = math.Sqrt(s.Std[j] / n)
	}
	return s
}

// Transform standardizes v. Zero-variance columns map to 0.
func (s Scaler) Transform(v model.NutrientVector) model.NutrientVector {
	var out model.NutrientVector
	for j, x := range v {
		if s.Std[j] == 0 {
			continue
		}
		out[j] = (x - s.Mean[j]) / s.Std[j]
	}
	return out
}

// Neighbor is one search hit. Position indexes the vectors the Index was
// built from.
type Neighbor struct {
	Position int
	Distance float64
}

// Index is an exact brute-force cosine-distance index.
type Index struct {
	vectors []model.NutrientVector
	norms   []float64
}

// NewIndex indexes already-standardized vectors, keeping their order.
func NewIndex(vectors []model.NutrientVector) *Index {
	ix := &Index{
		vectors: vectors,
		norms:   make([]float64, len(vectors)),
	}
	for i, v := range vectors {
		ix.norms[i] = norm(v)
	}
	return ix
}

// BuildIndex fits a Scaler on rows and indexes the standardized rows.
func BuildIndex(rows []model.NutrientVector) (*Index, Scaler, error) {
	if len(rows) == 0 {
		return nil, Scaler{}, fmt.Errorf("%w: empty candidate matrix", ErrSearchFailure)
	}
	scaler := FitScaler(rows)
	standardized := make([]model.NutrientVector, len(rows))
	for i, r := range rows {
		standardized[i] = scaler.Transform(r)
	}
	return NewIndex(standardized), scaler, nil
}

// Len returns the number of indexed vectors.
func (ix *Index) Len() int {
	return len(ix.vectors)
}

// Search returns the k nearest vectors to query, closest first. Equal
// distances keep index order.
func (ix *Index) Search(query model.NutrientVector, k int) ([]Neighbor, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive, got %d", ErrInvalidInput, k)
	}
	if k > len(ix.vectors) {
		return nil, fmt.Errorf("%w: %d candidates for %d neighbors", ErrInsufficientCandidates, len(ix.vectors), k)
	}

	qn := norm(query)
	hits := make([]Neighbor, len(ix.vectors))
	for i, v := range ix.vectors {
		d := cosineDistance(query, qn, v, ix.norms[i])
		if math.IsNaN(d) {
			return nil, fmt.Errorf("%w: distance to candidate %d is NaN", ErrSearchFailure, i)
		}
		hits[i] = Neighbor{Position: i, Distance: d}
	}

	slices.SortStableFunc(hits, func(a, b Neighbor) int {
		return cmp.Compare(a.Distance, b.Distance)
	})
	return hits[:k], nil
}

// cosineDistance is 1 - cos(a, b), clipped to [0, 2]. A zero vector is at
// distance 1 from everything.
func cosineDistance(a model.NutrientVector, an float64, b model.NutrientVector, bn float64) float64 {
	if an == 0 || bn == 0 {
		if math.IsNaN(an) || math.IsNaN(bn) {
			return math.NaN()
		}
		return 1
	}
	var dot float64
	for j := range a {
		dot += a[j] * b[j]
	}
	d := 1 - dot/(an*bn)
	return math.Min(2, math.Max(0, d))
}

func norm(v model.NutrientVector) float64 {
	var sum float64
	for _, x := range v {
		sum += x * x
	}
	return math.Sqrt(sum)
}
