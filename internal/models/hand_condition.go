package models

import "time"

// Condition rating bounds, enforced on input
const (
	MinConditionRating = 1
	MaxConditionRating = 10
	// GoodConditionRating is the lowest rating counted as a recovery day
	GoodConditionRating = 7
)

// HandCondition is one skin condition reading. Readings are append-only and
// are related to meals only by date.
type HandCondition struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Date            Date      `gorm:"type:date;not null;index" json:"date"`
	TimeOfDay       string    `gorm:"size:20" json:"time_of_day"`
	ConditionRating int       `gorm:"not null" json:"condition_rating"`
	Notes           string    `gorm:"type:text" json:"notes,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
}

func (HandCondition) TableName() string {
	return "hand_conditions"
}
