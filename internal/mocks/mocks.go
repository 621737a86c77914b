package mocks

import (
	"context"
	"time"

	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
	"github.com/stretchr/testify/mock"
)

var (
	_ service.IMealService          = (*MockMealService)(nil)
	_ service.IFoodService          = (*MockFoodService)(nil)
	_ service.IHandConditionService = (*MockHandConditionService)(nil)
	_ service.IStatisticsService    = (*MockStatisticsService)(nil)
)

// MockMealService is a mock implementation of the IMealService interface
type MockMealService struct {
	mock.Mock
}

func (m *MockMealService) CreateMeal(ctx context.Context, req *types.CreateMealRequest) (*models.Meal, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealService) GetMeal(ctx context.Context, id uint) (*models.Meal, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Meal), args.Error(1)
}

func (m *MockMealService) ListMeals(ctx context.Context, start, end models.Date) ([]*models.Meal, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Meal), args.Error(1)
}

func (m *MockMealService) MarkSuspicious(ctx context.Context, mealID uint, reason string) (*models.SuspiciousMeal, error) {
	args := m.Called(ctx, mealID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuspiciousMeal), args.Error(1)
}

func (m *MockMealService) UnmarkSuspicious(ctx context.Context, mealID uint) error {
	args := m.Called(ctx, mealID)
	return args.Error(0)
}

func (m *MockMealService) UpdateSuspiciousReason(ctx context.Context, mealID uint, reason string) (*models.SuspiciousMeal, error) {
	args := m.Called(ctx, mealID, reason)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.SuspiciousMeal), args.Error(1)
}

// MockFoodService is a mock implementation of the IFoodService interface
type MockFoodService struct {
	mock.Mock
}

func (m *MockFoodService) Suggestions(ctx context.Context, query string, limit int) ([]*models.FoodItem, error) {
	args := m.Called(ctx, query, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FoodItem), args.Error(1)
}

func (m *MockFoodService) ListSuspicious(ctx context.Context) ([]*models.FoodItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.FoodItem), args.Error(1)
}

// MockHandConditionService is a mock implementation of the IHandConditionService interface
type MockHandConditionService struct {
	mock.Mock
}

func (m *MockHandConditionService) CreateHandCondition(ctx context.Context, req *types.CreateHandConditionRequest) (*models.HandCondition, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.HandCondition), args.Error(1)
}

func (m *MockHandConditionService) ListHandConditions(ctx context.Context, start, end models.Date) ([]*models.HandCondition, error) {
	args := m.Called(ctx, start, end)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.HandCondition), args.Error(1)
}

// MockStatisticsService is a mock implementation of the IStatisticsService interface
type MockStatisticsService struct {
	mock.Mock
}

func (m *MockStatisticsService) Report(ctx context.Context) (*types.Statistics, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*types.Statistics), args.Error(1)
}

// MockSnapshotStore is a mock object store for statistics snapshots
type MockSnapshotStore struct {
	mock.Mock
}

func (m *MockSnapshotStore) PutObject(ctx context.Context, key string, body []byte, contentType string) error {
	args := m.Called(ctx, key, body, contentType)
	return args.Error(0)
}

func (m *MockSnapshotStore) GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error) {
	args := m.Called(ctx, key, expiration)
	return args.String(0), args.Error(1)
}
