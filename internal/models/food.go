package models

import (
	"strings"
	"time"
)

// FoodItem is a food referenced by name from meals. IsSuspicious is derived
// state: it is true while the food appears in at least one flagged meal.
type FoodItem struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Name         string    `gorm:"size:255;not null;uniqueIndex" json:"name"`
	IsSuspicious bool      `gorm:"not null;default:false" json:"is_suspicious"`
	CreatedAt    time.Time `json:"created_at"`
}

func (FoodItem) TableName() string {
	return "food_items"
}

// NormalizeFoodName returns the identity key for a food name. Names are
// matched case-insensitively, so "Eggs" and " eggs" resolve to the same row.
func NormalizeFoodName(name string) string {
	return strings.ToLower(strings.Join(strings.Fields(name), " "))
}
