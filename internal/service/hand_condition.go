package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/handlog/backend/internal/metrics"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// datetime layouts accepted in the "datetime" field
var datetimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}

// HandConditionService handles hand condition readings
type HandConditionService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IHandConditionService = (*HandConditionService)(nil)

// NewHandConditionService creates a new HandConditionService instance
func NewHandConditionService(db *gorm.DB, logger *zap.Logger) *HandConditionService {
	return &HandConditionService{
		db:     db,
		logger: logger,
	}
}

// CreateHandCondition validates and appends a reading
func (s *HandConditionService) CreateHandCondition(ctx context.Context, req *types.CreateHandConditionRequest) (*models.HandCondition, error) {
	reading, err := normalizeHandCondition(req)
	if err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).Create(reading).Error; err != nil {
		s.logger.Error("failed to record hand condition", zap.String("date", reading.Date.String()), zap.Error(err))
		return nil, fmt.Errorf("failed to record hand condition: %w", err)
	}

	metrics.HandConditionsRecorded.Inc()
	return reading, nil
}

// ListHandConditions returns readings dated within [start, end], newest first
func (s *HandConditionService) ListHandConditions(ctx context.Context, start, end models.Date) ([]*models.HandCondition, error) {
	if end.Before(start.Time) {
		return nil, validationError("endDate must not be before startDate")
	}

	var readings []*models.HandCondition
	if err := s.db.WithContext(ctx).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date DESC, time_of_day DESC, id DESC").
		Find(&readings).Error; err != nil {
		return nil, fmt.Errorf("failed to list hand conditions: %w", err)
	}
	return readings, nil
}

func normalizeHandCondition(req *types.CreateHandConditionRequest) (*models.HandCondition, error) {
	var rating int
	switch {
	case req.ConditionRating != nil:
		rating = *req.ConditionRating
	case req.Rating != nil:
		rating = *req.Rating
	default:
		return nil, validationError("condition_rating is required")
	}
	if rating < models.MinConditionRating || rating > models.MaxConditionRating {
		return nil, validationError("condition_rating must be between %d and %d", models.MinConditionRating, models.MaxConditionRating)
	}

	timeOfDay := strings.TrimSpace(req.TimeOfDay)
	if timeOfDay == "" {
		timeOfDay = strings.TrimSpace(req.Time)
	}

	var date models.Date
	if dt := strings.TrimSpace(req.Datetime); dt != "" {
		parsed, err := parseDatetime(dt)
		if err != nil {
			return nil, err
		}
		date = models.NewDate(parsed)
		if timeOfDay == "" {
			timeOfDay = parsed.Format("15:04")
		}
	} else {
		if strings.TrimSpace(req.Date) == "" {
			return nil, validationError("date or datetime is required")
		}
		parsed, err := models.ParseDate(req.Date)
		if err != nil {
			return nil, validationError("%v", err)
		}
		date = parsed
	}

	return &models.HandCondition{
		Date:            date,
		TimeOfDay:       timeOfDay,
		ConditionRating: rating,
		Notes:           strings.TrimSpace(req.Notes),
	}, nil
}

func parseDatetime(s string) (time.Time, error) {
	for _, layout := range datetimeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, validationError("invalid datetime %q", s)
}
