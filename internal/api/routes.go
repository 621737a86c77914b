package api

import (
	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Dependencies carries what the API handlers need
type Dependencies struct {
	DB        *gorm.DB
	Logger    *zap.Logger
	Snapshots SnapshotStore
	// WriteLimit guards every state-changing route when set
	WriteLimit gin.HandlerFunc
}

// RegisterRoutes builds the services and mounts every handler on router
func RegisterRoutes(router *gin.RouterGroup, deps Dependencies) {
	useJSONFieldNames()

	mealService := service.NewMealService(deps.DB, deps.Logger)
	foodService := service.NewFoodService(deps.DB, deps.Logger)
	conditionService := service.NewHandConditionService(deps.DB, deps.Logger)
	statisticsService := service.NewStatisticsService(deps.DB, deps.Logger)

	NewMealHandler(mealService, deps.Logger).RegisterRoutes(router, deps.WriteLimit)
	NewFoodHandler(foodService, deps.Logger).RegisterRoutes(router)
	NewHandConditionHandler(conditionService, deps.Logger).RegisterRoutes(router, deps.WriteLimit)
	NewStatisticsHandler(statisticsService, deps.Snapshots, deps.Logger).RegisterRoutes(router, deps.WriteLimit)
}
