package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
)

// SnapshotURLExpiry is how long a snapshot download link stays valid
const SnapshotURLExpiry = 15 * time.Minute

// SnapshotStore archives rendered statistics reports
type SnapshotStore interface {
	PutObject(ctx context.Context, key string, body []byte, contentType string) error
	GeneratePresignedURL(ctx context.Context, key string, expiration time.Duration) (string, error)
}

type StatisticsHandler struct {
	stats     service.IStatisticsService
	snapshots SnapshotStore
	logger    *zap.Logger
}

// NewStatisticsHandler creates the handler. snapshots may be nil, in which
// case the snapshot route is not registered.
func NewStatisticsHandler(stats service.IStatisticsService, snapshots SnapshotStore, logger *zap.Logger) *StatisticsHandler {
	return &StatisticsHandler{
		stats:     stats,
		snapshots: snapshots,
		logger:    logger,
	}
}

func (h *StatisticsHandler) RegisterRoutes(router *gin.RouterGroup, write ...gin.HandlerFunc) {
	router.GET("/statistics", h.GetStatistics)
	if h.snapshots != nil {
		router.POST("/statistics/snapshots", withMiddleware(write, h.CreateSnapshot)...)
	}
}

// GetStatistics returns the aggregate report
func (h *StatisticsHandler) GetStatistics(c *gin.Context) {
	report, err := h.stats.Report(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// CreateSnapshot archives the current report as JSON and returns a
// short-lived download link
func (h *StatisticsHandler) CreateSnapshot(c *gin.Context) {
	ctx := c.Request.Context()

	report, err := h.stats.Report(ctx)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	body, err := json.Marshal(report)
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("failed to encode report: %w", err))
		return
	}

	key := snapshotKey(report)
	if err := h.snapshots.PutObject(ctx, key, body, "application/json"); err != nil {
		respondError(c, h.logger, err)
		return
	}

	url, err := h.snapshots.GeneratePresignedURL(ctx, key, SnapshotURLExpiry)
	if err != nil {
		respondError(c, h.logger, fmt.Errorf("failed to presign %s: %w", key, err))
		return
	}

	h.logger.Info("statistics snapshot archived", zap.String("key", key), zap.Int("bytes", len(body)))
	c.JSON(http.StatusCreated, types.SnapshotResponse{Key: key, URL: url})
}

func snapshotKey(report *types.Statistics) string {
	return fmt.Sprintf("statistics/%s/%s.json", report.GeneratedAt.UTC().Format("2006-01-02"), uuid.NewString())
}
