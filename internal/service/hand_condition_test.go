package service

import (
	"context"
	"testing"

	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/testhelpers"
	"github.com/pageza/handlog/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func intPtr(v int) *int { return &v }

func TestNormalizeHandConditionShapes(t *testing.T) {
	tests := []struct {
		name      string
		req       types.CreateHandConditionRequest
		date      string
		timeOfDay string
		rating    int
	}{
		{
			name:      "canonical",
			req:       types.CreateHandConditionRequest{Date: "2024-06-10", TimeOfDay: "morning", ConditionRating: intPtr(6)},
			date:      "2024-06-10",
			timeOfDay: "morning",
			rating:    6,
		},
		{
			name:      "time and rating aliases",
			req:       types.CreateHandConditionRequest{Date: "2024-06-10", Time: "21:30", Rating: intPtr(3)},
			date:      "2024-06-10",
			timeOfDay: "21:30",
			rating:    3,
		},
		{
			name:      "rfc3339 datetime",
			req:       types.CreateHandConditionRequest{Datetime: "2024-06-10T07:45:00Z", ConditionRating: intPtr(10)},
			date:      "2024-06-10",
			timeOfDay: "07:45",
			rating:    10,
		},
		{
			name:      "local datetime keeps explicit time_of_day",
			req:       types.CreateHandConditionRequest{Datetime: "2024-06-10T07:45", TimeOfDay: "evening", ConditionRating: intPtr(1)},
			date:      "2024-06-10",
			timeOfDay: "evening",
			rating:    1,
		},
		{
			name:      "condition_rating wins over rating",
			req:       types.CreateHandConditionRequest{Date: "2024-06-10", ConditionRating: intPtr(4), Rating: intPtr(9)},
			date:      "2024-06-10",
			timeOfDay: "",
			rating:    4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reading, err := normalizeHandCondition(&tt.req)
			require.NoError(t, err)
			assert.Equal(t, tt.date, reading.Date.String())
			assert.Equal(t, tt.timeOfDay, reading.TimeOfDay)
			assert.Equal(t, tt.rating, reading.ConditionRating)
		})
	}
}

func TestNormalizeHandConditionRejects(t *testing.T) {
	tests := map[string]types.CreateHandConditionRequest{
		"missing rating":  {Date: "2024-06-10"},
		"rating too low":  {Date: "2024-06-10", ConditionRating: intPtr(0)},
		"rating too high": {Date: "2024-06-10", Rating: intPtr(11)},
		"missing date":    {ConditionRating: intPtr(5)},
		"bad date":        {Date: "yesterday", ConditionRating: intPtr(5)},
		"bad datetime":    {Datetime: "10 June 2024", ConditionRating: intPtr(5)},
	}

	for name, req := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := normalizeHandCondition(&req)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestCreateAndListHandConditions(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewHandConditionService(db, zap.NewNop())
	ctx := context.Background()

	inputs := []types.CreateHandConditionRequest{
		{Date: "2024-06-10", TimeOfDay: "08:00", ConditionRating: intPtr(5)},
		{Date: "2024-06-10", TimeOfDay: "20:00", ConditionRating: intPtr(4), Notes: " cracked "},
		{Date: "2024-06-12", TimeOfDay: "09:00", ConditionRating: intPtr(7)},
		{Date: "2024-05-01", TimeOfDay: "09:00", ConditionRating: intPtr(2)},
	}
	for i := range inputs {
		reading, err := svc.CreateHandCondition(ctx, &inputs[i])
		require.NoError(t, err)
		assert.NotZero(t, reading.ID)
	}

	start, _ := models.ParseDate("2024-06-01")
	end, _ := models.ParseDate("2024-06-30")
	readings, err := svc.ListHandConditions(ctx, start, end)
	require.NoError(t, err)
	require.Len(t, readings, 3)
	assert.Equal(t, "2024-06-12", readings[0].Date.String())
	assert.Equal(t, "20:00", readings[1].TimeOfDay)
	assert.Equal(t, "cracked", readings[1].Notes)
	assert.Equal(t, "08:00", readings[2].TimeOfDay)

	_, err = svc.ListHandConditions(ctx, end, start)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateHandConditionInvalidWritesNothing(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	svc := NewHandConditionService(db, zap.NewNop())

	_, err := svc.CreateHandCondition(context.Background(), &types.CreateHandConditionRequest{
		Date: "2024-06-10", ConditionRating: intPtr(12),
	})
	assert.ErrorIs(t, err, ErrValidation)

	var count int64
	require.NoError(t, db.Model(&models.HandCondition{}).Count(&count).Error)
	assert.Zero(t, count)
}
