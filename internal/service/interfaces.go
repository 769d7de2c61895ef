package service

import "context"

// IRecommendService defines the interface for recipe recommendation
type IRecommendService interface {
	Recommend(ctx context.Context, req Request) (Result, error)
}

var _ IRecommendService = (*RecommendService)(nil)
