package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/service"
)

// MockRecommendService is a mock implementation of the recommend service
type MockRecommendService struct {
	mock.Mock
}

// Recommend mocks the Recommend method
func (m *MockRecommendService) Recommend(ctx context.Context, req service.Request) (service.Result, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(service.Result), args.Error(1)
}
