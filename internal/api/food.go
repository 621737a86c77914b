package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
)

type FoodHandler struct {
	foods  service.IFoodService
	logger *zap.Logger
}

func NewFoodHandler(foods service.IFoodService, logger *zap.Logger) *FoodHandler {
	return &FoodHandler{
		foods:  foods,
		logger: logger,
	}
}

func (h *FoodHandler) RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/food-suggestions", h.Suggestions)
	router.GET("/foods/suspicious", h.ListSuspicious)
}

// Suggestions powers the food name autocomplete
func (h *FoodHandler) Suggestions(c *gin.Context) {
	limit := service.DefaultSuggestionLimit
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}

	foods, err := h.foods.Suggestions(c.Request.Context(), c.Query("query"), limit)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toFoodSuggestions(foods))
}

// ListSuspicious returns every food implicated by a flagged meal
func (h *FoodHandler) ListSuspicious(c *gin.Context) {
	foods, err := h.foods.ListSuspicious(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, toFoodSuggestions(foods))
}

func toFoodSuggestions(foods []*models.FoodItem) []types.FoodSuggestion {
	out := make([]types.FoodSuggestion, 0, len(foods))
	for _, f := range foods {
		out = append(out, types.FoodSuggestion{ID: f.ID, Name: f.Name, IsSuspicious: f.IsSuspicious})
	}
	return out
}
