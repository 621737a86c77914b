package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/pageza/handlog/backend/internal/metrics"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// MealService handles meal ingestion and suspicious marking
type MealService struct {
	db     *gorm.DB
	logger *zap.Logger
	now    func() time.Time
}

var _ IMealService = (*MealService)(nil)

// NewMealService creates a new MealService instance
func NewMealService(db *gorm.DB, logger *zap.Logger) *MealService {
	return &MealService{
		db:     db,
		logger: logger,
		now:    time.Now,
	}
}

// CreateMeal stores a meal and all of its items in one transaction. Items with
// a blank name are skipped; at least one named item is required.
func (s *MealService) CreateMeal(ctx context.Context, req *types.CreateMealRequest) (*models.Meal, error) {
	date, err := models.ParseDate(req.Date)
	if err != nil {
		return nil, validationError("%v", err)
	}
	mealType := strings.ToLower(strings.TrimSpace(req.MealType))
	if !models.IsValidMealType(mealType) {
		return nil, validationError("meal_type must be one of %s", strings.Join(models.MealTypes, ", "))
	}

	items := make([]types.MealItemInput, 0, len(req.Items))
	for _, item := range req.Items {
		if strings.TrimSpace(item.Name) == "" {
			continue
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, validationError("at least one item with a name is required")
	}

	meal := models.Meal{
		Date:     date,
		MealType: mealType,
		Notes:    strings.TrimSpace(req.Notes),
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(&meal).Error; err != nil {
			return fmt.Errorf("failed to create meal: %w", err)
		}

		for _, in := range items {
			food, err := upsertFood(tx, in.Name)
			if err != nil {
				return err
			}

			item := models.MealItem{
				MealID:     meal.ID,
				FoodItemID: food.ID,
				Quantity:   strings.TrimSpace(in.Quantity),
				Notes:      strings.TrimSpace(in.Notes),
			}
			if err := tx.Omit(clause.Associations).Create(&item).Error; err != nil {
				return fmt.Errorf("failed to create meal item: %w", err)
			}
			item.FoodItem = *food
			meal.Items = append(meal.Items, item)
		}
		return nil
	})
	if err != nil {
		s.logger.Error("meal creation rolled back", zap.String("date", date.String()), zap.Error(err))
		return nil, err
	}

	metrics.MealsCreated.Inc()
	s.logger.Debug("meal created", zap.Uint("meal_id", meal.ID), zap.Int("items", len(meal.Items)))
	return &meal, nil
}

// GetMeal retrieves a meal with its items and flag
func (s *MealService) GetMeal(ctx context.Context, id uint) (*models.Meal, error) {
	var meal models.Meal
	if err := s.withDetails(s.db.WithContext(ctx)).First(&meal, "meals.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrMealNotFound
		}
		return nil, fmt.Errorf("failed to get meal: %w", err)
	}
	return &meal, nil
}

// ListMeals returns meals dated within [start, end], newest first
func (s *MealService) ListMeals(ctx context.Context, start, end models.Date) ([]*models.Meal, error) {
	if end.Before(start.Time) {
		return nil, validationError("endDate must not be before startDate")
	}

	var meals []*models.Meal
	if err := s.withDetails(s.db.WithContext(ctx)).
		Where("date BETWEEN ? AND ?", start, end).
		Order("date DESC, meal_type ASC, id ASC").
		Find(&meals).Error; err != nil {
		return nil, fmt.Errorf("failed to list meals: %w", err)
	}
	return meals, nil
}

func (s *MealService) withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("meal_items.id ASC")
		}).
		Preload("Items.FoodItem").
		Preload("Suspicious")
}

// MarkSuspicious flags a meal, or refreshes reason and marked_at when it is
// already flagged, and marks every food of the meal as suspicious.
func (s *MealService) MarkSuspicious(ctx context.Context, mealID uint, reason string) (*models.SuspiciousMeal, error) {
	flag := models.SuspiciousMeal{
		MealID:   mealID,
		Reason:   strings.TrimSpace(reason),
		MarkedAt: s.now().UTC(),
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMeal(tx, mealID); err != nil {
			return err
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meal_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"reason", "marked_at"}),
		}).Create(&flag).Error; err != nil {
			return fmt.Errorf("failed to flag meal: %w", err)
		}

		foodIDs := tx.Model(&models.MealItem{}).Select("food_item_id").Where("meal_id = ?", mealID)
		if err := tx.Model(&models.FoodItem{}).
			Where("id IN (?)", foodIDs).
			Update("is_suspicious", true).Error; err != nil {
			return fmt.Errorf("failed to mark foods suspicious: %w", err)
		}
		return nil
	})
	if err != nil {
		s.logFailure("mark", mealID, err)
		return nil, err
	}

	metrics.SuspicionChanges.WithLabelValues("mark").Inc()
	return s.loadFlag(ctx, mealID)
}

// UnmarkSuspicious removes the flag from a meal and recomputes the suspicion
// of each of its foods against the meals that remain flagged.
func (s *MealService) UnmarkSuspicious(ctx context.Context, mealID uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMeal(tx, mealID); err != nil {
			return err
		}

		result := tx.Where("meal_id = ?", mealID).Delete(&models.SuspiciousMeal{})
		if result.Error != nil {
			return fmt.Errorf("failed to unflag meal: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMealNotFlagged
		}

		var foodIDs []uint
		if err := tx.Model(&models.MealItem{}).
			Where("meal_id = ?", mealID).
			Distinct().
			Pluck("food_item_id", &foodIDs).Error; err != nil {
			return fmt.Errorf("failed to load meal foods: %w", err)
		}
		return recomputeFoodSuspicion(tx, foodIDs)
	})
	if err != nil {
		s.logFailure("unmark", mealID, err)
		return err
	}

	metrics.SuspicionChanges.WithLabelValues("unmark").Inc()
	return nil
}

// UpdateSuspiciousReason changes the reason of a flagged meal in place
func (s *MealService) UpdateSuspiciousReason(ctx context.Context, mealID uint, reason string) (*models.SuspiciousMeal, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, validationError("reason must not be empty")
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := requireMeal(tx, mealID); err != nil {
			return err
		}

		result := tx.Model(&models.SuspiciousMeal{}).Where("meal_id = ?", mealID).Update("reason", reason)
		if result.Error != nil {
			return fmt.Errorf("failed to update reason: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrMealNotFlagged
		}
		return nil
	})
	if err != nil {
		s.logFailure("update_reason", mealID, err)
		return nil, err
	}

	metrics.SuspicionChanges.WithLabelValues("update_reason").Inc()
	return s.loadFlag(ctx, mealID)
}

func (s *MealService) loadFlag(ctx context.Context, mealID uint) (*models.SuspiciousMeal, error) {
	var flag models.SuspiciousMeal
	if err := s.db.WithContext(ctx).Where("meal_id = ?", mealID).First(&flag).Error; err != nil {
		return nil, fmt.Errorf("failed to load suspicious marker: %w", err)
	}
	return &flag, nil
}

func (s *MealService) logFailure(action string, mealID uint, err error) {
	if errors.Is(err, ErrMealNotFound) || errors.Is(err, ErrMealNotFlagged) || errors.Is(err, ErrValidation) {
		return
	}
	s.logger.Error("suspicious marking failed",
		zap.String("action", action),
		zap.Uint("meal_id", mealID),
		zap.Error(err))
}

func requireMeal(tx *gorm.DB, mealID uint) error {
	var count int64
	if err := tx.Model(&models.Meal{}).Where("id = ?", mealID).Count(&count).Error; err != nil {
		return fmt.Errorf("failed to look up meal: %w", err)
	}
	if count == 0 {
		return ErrMealNotFound
	}
	return nil
}
