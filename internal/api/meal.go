package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
)

type MealHandler struct {
	meals  service.IMealService
	logger *zap.Logger
}

func NewMealHandler(meals service.IMealService, logger *zap.Logger) *MealHandler {
	return &MealHandler{
		meals:  meals,
		logger: logger,
	}
}

// RegisterRoutes mounts the meal routes. write runs before every handler that
// changes state.
func (h *MealHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	router.GET("/meals", h.ListMeals)
	router.GET("/meals/:id", h.GetMeal)
	router.POST("/meals", withMiddleware(write, h.CreateMeal)...)
	router.POST("/meals/:id/suspicious", withMiddleware(write, h.MarkSuspicious)...)
	router.PUT("/meals/:id/suspicious", withMiddleware(write, h.UpdateSuspiciousReason)...)
	router.DELETE("/meals/:id/suspicious", withMiddleware(write, h.UnmarkSuspicious)...)
}

// CreateMeal logs a meal with its items
func (h *MealHandler) CreateMeal(c *gin.Context) {
	var req types.CreateMealRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	meal, err := h.meals.CreateMeal(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	c.JSON(http.StatusCreated, types.CreatedResponse{ID: meal.ID, Message: "Meal logged successfully"})
}

// ListMeals lists meals in the requested date range, newest first
func (h *MealHandler) ListMeals(c *gin.Context) {
	start, end, err := dateRange(c, models.Today())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	meals, err := h.meals.ListMeals(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	resp := make([]types.MealResponse, 0, len(meals))
	for _, meal := range meals {
		resp = append(resp, types.NewMealResponse(meal))
	}
	c.JSON(http.StatusOK, resp)
}

// GetMeal returns a single meal
func (h *MealHandler) GetMeal(c *gin.Context) {
	id, err := parseMealID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	meal, err := h.meals.GetMeal(c.Request.Context(), id)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.NewMealResponse(meal))
}

// MarkSuspicious flags a meal. The body and its reason are optional.
func (h *MealHandler) MarkSuspicious(c *gin.Context) {
	id, err := parseMealID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req types.MarkSuspiciousRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		respondBindError(c, err)
		return
	}

	flag, err := h.meals.MarkSuspicious(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuspiciousMealResponse("Meal marked as suspicious", flag))
}

// UpdateSuspiciousReason changes the reason on a flagged meal
func (h *MealHandler) UpdateSuspiciousReason(c *gin.Context) {
	id, err := parseMealID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	var req types.UpdateSuspiciousReasonRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	flag, err := h.meals.UpdateSuspiciousReason(c.Request.Context(), id, req.Reason)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.NewSuspiciousMealResponse("Suspicious reason updated", flag))
}

// UnmarkSuspicious removes the flag from a meal
func (h *MealHandler) UnmarkSuspicious(c *gin.Context) {
	id, err := parseMealID(c)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	if err := h.meals.UnmarkSuspicious(c.Request.Context(), id); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, types.MessageResponse{Message: "Meal unmarked as suspicious"})
}

func withMiddleware(mw []gin.HandlerFunc, h gin.HandlerFunc) []gin.HandlerFunc {
	chain := make([]gin.HandlerFunc, 0, len(mw)+1)
	for _, m := range mw {
		if m != nil {
			chain = append(chain, m)
		}
	}
	return append(chain, h)
}
