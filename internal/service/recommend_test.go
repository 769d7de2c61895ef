package service

import (
	"context"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/logger"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/metrics"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

var chickenCurry = []float64{300, 10, 2, 20, 400, 40, 5, 8, 15}

func newTestService(t *testing.T, store *dataset.Store) (*RecommendService, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	svc := NewRecommendService(store, DefaultRestrictionPolicy(), NewIngredientFilter(DefaultMinFiltered), zap.New(core), metrics.New(), DefaultNeighbors)
	return svc, logs
}

func names(recs []Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Recipe.Name
	}
	return out
}

func TestRecommendChickenForDiabetic(t *testing.T) {
	svc, logs := newTestService(t, testStore())

	res, err := svc.Recommend(context.Background(), Request{
		NutritionInput: chickenCurry,
		Ingredients:    []string{"chicken"},
		Diseases:       []string{"diabetes"},
		Params:         &Params{NNeighbors: 5},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.NoError(t, res.Err)
	assert.False(t, res.FellBack)
	assert.Equal(t, 6, res.Qualifying)
	assert.Equal(t, 6, res.Candidates)
	require.Len(t, res.Recommendations, 5)

	assert.Equal(t, "Chicken Curry", res.Recommendations[0].Recipe.Name)
	assert.InDelta(t, 0, res.Recommendations[0].Distance, 1e-9)

	seen := map[string]bool{}
	for i, rec := range res.Recommendations {
		assert.Contains(t, strings.ToLower(strings.Join(rec.Recipe.Ingredients, " ")), "chicken")
		assert.False(t, seen[rec.Recipe.Name], "duplicate %s", rec.Recipe.Name)
		seen[rec.Recipe.Name] = true
		if i > 0 {
			assert.GreaterOrEqual(t, rec.Distance, res.Recommendations[i-1].Distance)
		}
	}

	assert.Equal(t, 1, logs.FilterMessage("filtered recipes").Len())
	assert.Zero(t, logs.FilterLevelExact(zapcore.WarnLevel).Len())
}

func TestRecommendRestrictedIngredientRemovesConstraint(t *testing.T) {
	svc, _ := newTestService(t, testStore())

	res, err := svc.Recommend(context.Background(), Request{
		NutritionInput: chickenCurry,
		Ingredients:    []string{"sugar"},
		Diseases:       []string{"diabetes"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.False(t, res.FellBack)
	assert.Equal(t, 10, res.Qualifying)
	assert.Equal(t, 10, res.Candidates)
	assert.Len(t, res.Recommendations, DefaultNeighbors)
}

func TestRecommendFallsBackOnZeroMatches(t *testing.T) {
	svc, logs := newTestService(t, testStore())

	res, err := svc.Recommend(context.Background(), Request{
		NutritionInput: chickenCurry,
		Ingredients:    []string{"saffron"},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.True(t, res.FellBack)
	assert.Equal(t, 0, res.Qualifying)
	assert.Equal(t, 10, res.Candidates)
	assert.Len(t, res.Recommendations, DefaultNeighbors)
	assert.Equal(t, 1, logs.FilterMessage("too few recipes matched, using full dataset").Len())
}

func TestRecommendFallsBackBelowNeighborCount(t *testing.T) {
	svc, logs := newTestService(t, testStore())

	res, err := svc.Recommend(context.Background(), Request{
		NutritionInput: chickenCurry,
		Ingredients:    []string{"chicken"},
		Params:         &Params{NNeighbors: 8},
	})
	require.NoError(t, err)

	assert.Equal(t, StatusOK, res.Status)
	assert.True(t, res.FellBack)
	assert.Equal(t, 6, res.Qualifying)
	assert.Equal(t, 10, res.Candidates)
	assert.Len(t, res.Recommendations, 8)
	assert.Equal(t, 1, logs.FilterMessage("filtered set smaller than neighbor count, using full dataset").Len())
}

func TestRecommendInvalidInput(t *testing.T) {
	svc, _ := newTestService(t, testStore())

	tests := []struct {
		name string
		req  Request
	}{
		{"missing vector", Request{}},
		{"too short", Request{NutritionInput: chickenCurry[:8]}},
		{"too long", Request{NutritionInput: append(append([]float64{}, chickenCurry...), 1)}},
		{"NaN", Request{NutritionInput: []float64{math.NaN(), 10, 2, 20, 400, 40, 5, 8, 15}}},
		{"Inf", Request{NutritionInput: []float64{300, 10, 2, 20, math.Inf(1), 40, 5, 8, 15}}},
		{"negative neighbors", Request{NutritionInput: chickenCurry, Params: &Params{NNeighbors: -1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Recommend(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Empty(t, res.Recommendations)
		})
	}
}

func TestRecommendInsufficientCandidates(t *testing.T) {
	svc, logs := newTestService(t, dataset.NewStore(testRecipes()[:3]))

	res, err := svc.Recommend(context.Background(), Request{NutritionInput: chickenCurry})
	require.NoError(t, err)

	assert.Equal(t, StatusInsufficientCandidates, res.Status)
	assert.ErrorIs(t, res.Err, ErrInsufficientCandidates)
	assert.NotNil(t, res.Recommendations)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, logs.FilterMessage("not enough candidates for neighbor search").Len())
}

func TestRecommendSearchFailure(t *testing.T) {
	recipes := testRecipes()
	broken := recipes[3].Nutrients()
	broken[0] = math.NaN()
	recipes[3].SetNutrients(broken)
	svc, logs := newTestService(t, dataset.NewStore(recipes))

	res, err := svc.Recommend(context.Background(), Request{NutritionInput: chickenCurry})
	require.NoError(t, err)

	assert.Equal(t, StatusSearchFailure, res.Status)
	assert.ErrorIs(t, res.Err, ErrSearchFailure)
	assert.NotNil(t, res.Recommendations)
	assert.True(t, res.Empty())
	assert.Equal(t, 1, logs.FilterLevelExact(zapcore.ErrorLevel).Len())
}

func TestRecommendDeterministic(t *testing.T) {
	svc, _ := newTestService(t, testStore())
	req := Request{
		NutritionInput: []float64{200, 5, 1, 10, 100, 30, 4, 10, 10},
		Params:         &Params{NNeighbors: 10, ReturnDistance: true},
	}

	first, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)
	second, err := svc.Recommend(context.Background(), req)
	require.NoError(t, err)

	assert.True(t, first.ReturnDistance)
	assert.Equal(t, names(first.Recommendations), names(second.Recommendations))
	assert.Equal(t, first.Recommendations, second.Recommendations)
}

func TestRecommendDefaultsNeighbors(t *testing.T) {
	svc := NewRecommendService(testStore(), nil, nil, nil, nil, 3)

	res, err := svc.Recommend(context.Background(), Request{NutritionInput: chickenCurry, Params: &Params{}})
	require.NoError(t, err)
	assert.Len(t, res.Recommendations, 3)
	assert.False(t, res.ReturnDistance)
}

func TestRecommendLogsRequestID(t *testing.T) {
	svc, logs := newTestService(t, testStore())
	ctx := logger.WithRequestID(context.Background(), "req-42")

	_, err := svc.Recommend(ctx, Request{NutritionInput: chickenCurry})
	require.NoError(t, err)

	entries := logs.FilterMessage("filtered recipes").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
}

func TestRecommendConcurrent(t *testing.T) {
	svc, _ := newTestService(t, testStore())
	want, err := svc.Recommend(context.Background(), Request{NutritionInput: chickenCurry})
	require.NoError(t, err)

	results := make(chan Result, 8)
	for i := 0; i < cap(results); i++ {
		go func() {
			res, _ := svc.Recommend(context.Background(), Request{NutritionInput: chickenCurry})
			results <- res
		}()
	}
	for i := 0; i < cap(results); i++ {
		assert.Equal(t, names(want.Recommendations), names((<-results).Recommendations))
	}
}

func TestRecommendationNutrientsMatchStore(t *testing.T) {
	svc, _ := newTestService(t, testStore())

	res, err := svc.Recommend(context.Background(), Request{NutritionInput: chickenCurry})
	require.NoError(t, err)

	byName := map[string]model.NutrientVector{}
	for _, r := range testRecipes() {
		byName[r.Name] = r.Nutrients()
	}
	for _, rec := range res.Recommendations {
		assert.Equal(t, byName[rec.Recipe.Name], rec.Recipe.Nutrients())
	}
}
