package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/pageza/handlog/backend/internal/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultSuggestionLimit caps the autocomplete list
const DefaultSuggestionLimit = 15

// FoodService handles food item lookups
type FoodService struct {
	db     *gorm.DB
	logger *zap.Logger
}

var _ IFoodService = (*FoodService)(nil)

// NewFoodService creates a new FoodService instance
func NewFoodService(db *gorm.DB, logger *zap.Logger) *FoodService {
	return &FoodService{
		db:     db,
		logger: logger,
	}
}

// Suggestions returns foods whose name contains query, case-insensitively.
// Suspicious foods come first so the entry form can warn about them.
func (s *FoodService) Suggestions(ctx context.Context, query string, limit int) ([]*models.FoodItem, error) {
	if limit <= 0 || limit > DefaultSuggestionLimit {
		limit = DefaultSuggestionLimit
	}

	dbQuery := s.db.WithContext(ctx).Model(&models.FoodItem{})
	if key := models.NormalizeFoodName(query); key != "" {
		dbQuery = dbQuery.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+escapeLike(key)+"%")
	}

	var foods []*models.FoodItem
	if err := dbQuery.Order("is_suspicious DESC, name ASC").Limit(limit).Find(&foods).Error; err != nil {
		s.logger.Error("food search failed", zap.String("query", query), zap.Error(err))
		return nil, fmt.Errorf("failed to search foods: %w", err)
	}
	return foods, nil
}

// ListSuspicious returns every food currently implicated by a flagged meal
func (s *FoodService) ListSuspicious(ctx context.Context) ([]*models.FoodItem, error) {
	var foods []*models.FoodItem
	if err := s.db.WithContext(ctx).
		Where("is_suspicious = ?", true).
		Order("name ASC").
		Find(&foods).Error; err != nil {
		s.logger.Error("listing suspicious foods failed", zap.Error(err))
		return nil, fmt.Errorf("failed to list suspicious foods: %w", err)
	}
	return foods, nil
}

// upsertFood resolves a food by its normalized name, inserting it on first
// reference. It never fails on a duplicate name.
func upsertFood(tx *gorm.DB, name string) (*models.FoodItem, error) {
	key := models.NormalizeFoodName(name)
	insert := models.FoodItem{Name: key}
	if err := tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&insert).Error; err != nil {
		return nil, fmt.Errorf("failed to upsert food %q: %w", key, err)
	}

	var food models.FoodItem
	if err := tx.Where("name = ?", key).First(&food).Error; err != nil {
		return nil, fmt.Errorf("failed to load food %q: %w", key, err)
	}
	return &food, nil
}

// recomputeFoodSuspicion sets is_suspicious on each food to whether it still
// appears in any flagged meal. It must run after a flag is removed.
func recomputeFoodSuspicion(tx *gorm.DB, foodIDs []uint) error {
	if len(foodIDs) == 0 {
		return nil
	}
	err := tx.Exec(`
		UPDATE food_items SET is_suspicious = EXISTS (
			SELECT 1 FROM meal_items mi
			JOIN suspicious_meals sm ON sm.meal_id = mi.meal_id
			WHERE mi.food_item_id = food_items.id
		)
		WHERE id IN ?`, foodIDs).Error
	if err != nil {
		return fmt.Errorf("failed to recompute food suspicion: %w", err)
	}
	return nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
