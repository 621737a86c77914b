package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
)

type HandConditionHandler struct {
	conditions service.IHandConditionService
	logger     *zap.Logger
}

func NewHandConditionHandler(conditions service.IHandConditionService, logger *zap.Logger) *HandConditionHandler {
	return &HandConditionHandler{
		conditions: conditions,
		logger:     logger,
	}
}

func (h *HandConditionHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	router.GET("/hand-conditions", h.ListHandConditions)
	router.POST("/hand-conditions", withMiddleware(write, h.CreateHandCondition)...)
}

// CreateHandCondition records a reading
func (h *HandConditionHandler) CreateHandCondition(c *gin.Context) {
	var req types.CreateHandConditionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	reading, err := h.conditions.CreateHandCondition(c.Request.Context(), &req)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusCreated, types.CreatedResponse{ID: reading.ID, Message: "Hand condition recorded successfully"})
}

// ListHandConditions lists readings in the requested date range
func (h *HandConditionHandler) ListHandConditions(c *gin.Context) {
	start, end, err := dateRange(c, models.Today())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	readings, err := h.conditions.ListHandConditions(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	if readings == nil {
		readings = []*models.HandCondition{}
	}
	c.JSON(http.StatusOK, readings)
}
