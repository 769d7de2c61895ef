package service

import (
	"context"
	"errors"
	"fmt"
	"math"
	"reflect"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/logger"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/metrics"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

// DefaultNeighbors is the neighbor count used when a request does not set one.
const DefaultNeighbors = 5

// Params tunes a single query. A zero NNeighbors selects the service default.
type Params struct {
	NNeighbors     int `validate:"gte=0"`
	ReturnDistance bool
}

// Request is the input of Recommend.
type Request struct {
	NutritionInput []float64 `validate:"len=9,dive,finite"`
	Ingredients    []string
	Diseases       []string
	Params         *Params
}

// Status classifies a completed query.
type Status string

const (
	StatusOK                     Status = "ok"
	StatusInsufficientCandidates Status = "insufficient_candidates"
	StatusSearchFailure          Status = "search_failure"
)

// Result is the outcome of a query that passed validation. Recommendations
// is non-nil and empty unless Status is StatusOK.
type Result struct {
	Recommendations []Recommendation
	Status          Status
	// Err carries the cause for non-OK statuses.
	Err error

	// Qualifying is the number of recipes that matched every effective ingredient.
	Qualifying int
	// Candidates is the size of the set the index was built over.
	Candidates int
	FellBack   bool
	// ReturnDistance echoes the request flag for the formatter.
	ReturnDistance bool
}

// Empty reports whether no recipe was recommended.
func (r Result) Empty() bool {
	return len(r.Recommendations) == 0
}

// RecommendService runs the restriction, filter, index and search pipeline
// against an immutable dataset. It is safe for concurrent use.
type RecommendService struct {
	store    *dataset.Store
	policy   *RestrictionPolicy
	filter   *IngredientFilter
	log      *zap.Logger
	metrics  *metrics.Recorder
	validate *validator.Validate
	defaultK int
}

// NewRecommendService wires a RecommendService. A nil logger or recorder is
// replaced with a no-op logger or a private recorder.
func NewRecommendService(store *dataset.Store, policy *RestrictionPolicy, filter *IngredientFilter, log *zap.Logger, recorder *metrics.Recorder, defaultK int) *RecommendService {
	if policy == nil {
		policy = DefaultRestrictionPolicy()
	}
	if filter == nil {
		filter = NewIngredientFilter(DefaultMinFiltered)
	}
	if log == nil {
		log = zap.NewNop()
	}
	if recorder == nil {
		recorder = metrics.New()
	}
	if defaultK <= 0 {
		defaultK = DefaultNeighbors
	}
	recorder.SetDatasetSize(store.Len())

	return &RecommendService{
		store:    store,
		policy:   policy,
		filter:   filter,
		log:      log,
		metrics:  recorder,
		validate: newValidator(),
		defaultK: defaultK,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() != reflect.Float64 && f.Kind() != reflect.Float32 {
			return false
		}
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	})
	return v
}

// Recommend returns the recipes nearest to the request's nutrient vector.
// The error is non-nil only for invalid input; every other outcome is
// reported through Result.Status with empty recommendations.
func (s *RecommendService) Recommend(ctx context.Context, req Request) (Result, error) {
	log := logger.FromContext(ctx, s.log)

	if err := s.validate.Struct(req); err != nil {
		log.Info("rejected recommendation request", zap.Error(err))
		return Result{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	query, ok := model.NutrientVectorFrom(req.NutritionInput)
	if !ok {
		return Result{}, fmt.Errorf("%w: nutrition input must hold %d finite values", ErrInvalidInput, model.NutrientCount)
	}

	k := s.defaultK
	var withDistance bool
	if req.Params != nil {
		if req.Params.NNeighbors > 0 {
			k = req.Params.NNeighbors
		}
		withDistance = req.Params.ReturnDistance
	}

	start := time.Now()
	res := s.run(log, query, req.Ingredients, req.Diseases, k)
	res.ReturnDistance = withDistance
	s.metrics.ObserveDuration(time.Since(start))
	s.metrics.Outcome(string(res.Status))
	return res, nil
}

func (s *RecommendService) run(log *zap.Logger, query model.NutrientVector, ingredients, diseases []string, k int) Result {
	effective := ingredients
	if len(ingredients) > 0 {
		effective = s.policy.Strip(ingredients, diseases)
		if dropped := len(ingredients) - len(effective); dropped > 0 {
			log.Debug("stripped restricted ingredients", zap.Int("dropped", dropped), zap.Strings("diseases", diseases))
		}
	}

	filtered := s.filter.Filter(s.store, effective)
	s.metrics.ObserveFiltered(filtered.Qualifying)
	log.Info("filtered recipes",
		zap.Int("qualifying", filtered.Qualifying),
		zap.Int("ingredients", len(effective)),
	)
	if filtered.FellBack {
		s.metrics.Fallback("min_filtered")
		log.Warn("too few recipes matched, using full dataset", zap.Int("qualifying", filtered.Qualifying))
	}

	positions := filtered.Positions
	fellBack := filtered.FellBack
	if len(positions) < k && len(positions) < s.store.Len() {
		s.metrics.Fallback("below_neighbors")
		log.Warn("filtered set smaller than neighbor count, using full dataset",
			zap.Int("candidates", len(positions)),
			zap.Int("neighbors", k),
		)
		positions = s.store.Positions()
		fellBack = true
	}

	res := Result{
		Recommendations: []Recommendation{},
		Status:          StatusOK,
		Qualifying:      filtered.Qualifying,
		Candidates:      len(positions),
		FellBack:        fellBack,
	}

	recs, err := s.search(query, positions, k)
	switch {
	case err == nil:
		res.Recommendations = recs
	case errors.Is(err, ErrInsufficientCandidates):
		res.Status = StatusInsufficientCandidates
		res.Err = err
		log.Warn("not enough candidates for neighbor search", zap.Int("candidates", len(positions)), zap.Int("neighbors", k))
	default:
		res.Status = StatusSearchFailure
		res.Err = err
		log.Error("similarity search failed", zap.Error(err))
	}
	return res
}

// search builds a fresh index over positions and returns the k nearest
// recipes. Panics in the numeric path are reported as ErrSearchFailure.
func (s *RecommendService) search(query model.NutrientVector, positions []int, k int) (recs []Recommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			err = fmt.Errorf("%w: %v", ErrSearchFailure, r)
		}
	}()

	if len(positions) < k {
		return nil, fmt.Errorf("%w: %d candidates for %d neighbors", ErrInsufficientCandidates, len(positions), k)
	}

	rows := make([]model.NutrientVector, len(positions))
	for i, pos := range positions {
		rows[i] = s.store.Nutrients(pos)
	}
	index, scaler, err := BuildIndex(rows)
	if err != nil {
		return nil, err
	}

	hits, err := index.Search(scaler.Transform(query), k)
	if err != nil {
		return nil, err
	}

	recs = make([]Recommendation, len(hits))
	for i, h := range hits {
		recs[i] = Recommendation{
			Recipe:   s.store.At(positions[h.Position]),
			Distance: h.Distance,
		}
	}
	return recs, nil
}
