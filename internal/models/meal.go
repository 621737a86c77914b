package models

import "time"

// Meal types accepted on ingestion
const (
	MealTypeBreakfast = "breakfast"
	MealTypeLunch     = "lunch"
	MealTypeDinner    = "dinner"
	MealTypeSnack     = "snack"
)

// MealTypes lists the meal types in display order
var MealTypes = []string{MealTypeBreakfast, MealTypeLunch, MealTypeDinner, MealTypeSnack}

type Meal struct {
	ID         uint            `gorm:"primaryKey" json:"id"`
	Date       Date            `gorm:"type:date;not null;index" json:"date"`
	MealType   string          `gorm:"size:20;not null" json:"meal_type"`
	Notes      string          `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
	Items      []MealItem      `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"items"`
	Suspicious *SuspiciousMeal `gorm:"foreignKey:MealID;constraint:OnDelete:CASCADE" json:"suspicious,omitempty"`
}

func (Meal) TableName() string {
	return "meals"
}

// MealItem joins a meal to one of its foods
type MealItem struct {
	ID         uint     `gorm:"primaryKey" json:"id"`
	MealID     uint     `gorm:"not null;index" json:"meal_id"`
	FoodItemID uint     `gorm:"not null;index" json:"food_item_id"`
	FoodItem   FoodItem `gorm:"foreignKey:FoodItemID" json:"food_item"`
	Quantity   string   `gorm:"size:100" json:"quantity,omitempty"`
	Notes      string   `gorm:"type:text" json:"notes,omitempty"`
}

func (MealItem) TableName() string {
	return "meal_items"
}

// SuspiciousMeal marks a meal as a suspected trigger. A row exists exactly
// while the meal is flagged.
type SuspiciousMeal struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	MealID   uint      `gorm:"not null;uniqueIndex" json:"meal_id"`
	Reason   string    `gorm:"type:text" json:"reason"`
	MarkedAt time.Time `gorm:"not null" json:"marked_at"`
}

func (SuspiciousMeal) TableName() string {
	return "suspicious_meals"
}

// IsValidMealType reports whether t is one of MealTypes
func IsValidMealType(t string) bool {
	for _, mt := range MealTypes {
		if mt == t {
			return true
		}
	}
	return false
}
