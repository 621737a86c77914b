package types

import (
	"time"

	"github.com/pageza/handlog/backend/internal/models"
)

// ErrorResponse is the body of every 4xx/5xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// CreatedResponse is returned by endpoints that insert a row
type CreatedResponse struct {
	ID      uint   `json:"id"`
	Message string `json:"message"`
}

// MessageResponse is returned by state-changing endpoints without a payload
type MessageResponse struct {
	Message string `json:"message"`
}

// FoodSuggestion is one entry of the food autocomplete list
type FoodSuggestion struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	IsSuspicious bool   `json:"is_suspicious"`
}

type MealItemResponse struct {
	FoodItemID   uint   `json:"food_item_id"`
	Name         string `json:"name"`
	Quantity     string `json:"quantity,omitempty"`
	Notes        string `json:"notes,omitempty"`
	IsSuspicious bool   `json:"is_suspicious"`
}

type MealResponse struct {
	ID               uint               `json:"id"`
	Date             models.Date        `json:"date"`
	MealType         string             `json:"meal_type"`
	Notes            string             `json:"notes,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	Items            []MealItemResponse `json:"items"`
	IsSuspicious     bool               `json:"is_suspicious"`
	SuspiciousReason string             `json:"suspicious_reason,omitempty"`
	MarkedAt         *time.Time         `json:"marked_at,omitempty"`
}

// NewMealResponse flattens a meal with its preloaded items and flag
func NewMealResponse(m *models.Meal) MealResponse {
	resp := MealResponse{
		ID:        m.ID,
		Date:      m.Date,
		MealType:  m.MealType,
		Notes:     m.Notes,
		CreatedAt: m.CreatedAt,
		Items:     make([]MealItemResponse, 0, len(m.Items)),
	}
	for _, item := range m.Items {
		resp.Items = append(resp.Items, MealItemResponse{
			FoodItemID:   item.FoodItemID,
			Name:         item.FoodItem.Name,
			Quantity:     item.Quantity,
			Notes:        item.Notes,
			IsSuspicious: item.FoodItem.IsSuspicious,
		})
	}
	if m.Suspicious != nil {
		markedAt := m.Suspicious.MarkedAt
		resp.IsSuspicious = true
		resp.SuspiciousReason = m.Suspicious.Reason
		resp.MarkedAt = &markedAt
	}
	return resp
}

// SnapshotResponse describes an archived statistics report
type SnapshotResponse struct {
	Key string `json:"key"`
	URL string `json:"url"`
}

// SuspiciousMealResponse is returned after marking a meal or changing its reason
type SuspiciousMealResponse struct {
	Message  string    `json:"message"`
	MealID   uint      `json:"meal_id"`
	Reason   string    `json:"reason"`
	MarkedAt time.Time `json:"marked_at"`
}

// NewSuspiciousMealResponse wraps a suspicious marker with a status message
func NewSuspiciousMealResponse(message string, flag *models.SuspiciousMeal) SuspiciousMealResponse {
	return SuspiciousMealResponse{
		Message:  message,
		MealID:   flag.MealID,
		Reason:   flag.Reason,
		MarkedAt: flag.MarkedAt,
	}
}

// HealthResponse is returned by the liveness probe
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
