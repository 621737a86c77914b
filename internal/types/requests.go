package types

// MealItemInput is one food entry of a meal submission
type MealItemInput struct {
	Name     string `json:"name"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
}

// CreateMealRequest represents the request body for logging a meal
type CreateMealRequest struct {
	Date     string          `json:"date" binding:"required"`
	MealType string          `json:"meal_type" binding:"required"`
	Items    []MealItemInput `json:"items" binding:"required,min=1"`
	Notes    string          `json:"notes"`
}

// MarkSuspiciousRequest represents the request body for flagging a meal
type MarkSuspiciousRequest struct {
	Reason string `json:"reason"`
}

// UpdateSuspiciousReasonRequest represents the request body for changing the
// reason on a flagged meal
type UpdateSuspiciousReasonRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// CreateHandConditionRequest accepts the three input shapes clients have used:
// {date, time_of_day, condition_rating}, {date, time, rating} and
// {datetime, condition_rating}.
type CreateHandConditionRequest struct {
	Date            string `json:"date"`
	TimeOfDay       string `json:"time_of_day"`
	Time            string `json:"time"`
	Datetime        string `json:"datetime"`
	ConditionRating *int   `json:"condition_rating" binding:"omitempty,min=1,max=10"`
	Rating          *int   `json:"rating" binding:"omitempty,min=1,max=10"`
	Notes           string `json:"notes"`
}
