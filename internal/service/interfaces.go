package service

import (
	"context"

	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/types"
)

// IMealService defines meal ingestion and the suspicious-marking operations
type IMealService interface {
	CreateMeal(ctx context.Context, req *types.CreateMealRequest) (*models.Meal, error)
	GetMeal(ctx context.Context, id uint) (*models.Meal, error)
	ListMeals(ctx context.Context, start, end models.Date) ([]*models.Meal, error)
	MarkSuspicious(ctx context.Context, mealID uint, reason string) (*models.SuspiciousMeal, error)
	UnmarkSuspicious(ctx context.Context, mealID uint) error
	UpdateSuspiciousReason(ctx context.Context, mealID uint, reason string) (*models.SuspiciousMeal, error)
}

// IFoodService defines food lookups
type IFoodService interface {
	Suggestions(ctx context.Context, query string, limit int) ([]*models.FoodItem, error)
	ListSuspicious(ctx context.Context) ([]*models.FoodItem, error)
}

// IHandConditionService defines hand condition operations
type IHandConditionService interface {
	CreateHandCondition(ctx context.Context, req *types.CreateHandConditionRequest) (*models.HandCondition, error)
	ListHandConditions(ctx context.Context, start, end models.Date) ([]*models.HandCondition, error)
}

// IStatisticsService builds the aggregate report
type IStatisticsService interface {
	Report(ctx context.Context) (*types.Statistics, error)
}
