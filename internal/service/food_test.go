package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/pageza/handlog/backend/internal/testhelpers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func foodNames(t *testing.T, svc *FoodService, query string, limit int) []string {
	t.Helper()
	foods, err := svc.Suggestions(context.Background(), query, limit)
	require.NoError(t, err)
	names := make([]string, 0, len(foods))
	for _, f := range foods {
		names = append(names, f.Name)
	}
	return names
}

func TestSuggestionsSuspiciousFirst(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	meals := NewMealService(db, zap.NewNop())
	foods := NewFoodService(db, zap.NewNop())
	ctx := context.Background()

	mustCreateMeal(t, meals, "2024-06-10", "breakfast", "Cheddar Cheese", "crackers")
	flagged := mustCreateMeal(t, meals, "2024-06-11", "lunch", "goat cheese")
	mustCreateMeal(t, meals, "2024-06-12", "snack", "cheesecake")
	_, err := meals.MarkSuspicious(ctx, flagged.ID, "")
	require.NoError(t, err)

	assert.Equal(t, []string{"goat cheese", "cheddar cheese", "cheesecake"}, foodNames(t, foods, "CHEESE", 0))
	assert.Equal(t, []string{"crackers"}, foodNames(t, foods, "crack", 0))
	assert.Empty(t, foodNames(t, foods, "pizza", 0))
	assert.Len(t, foodNames(t, foods, "", 0), 4)
	assert.Len(t, foodNames(t, foods, "cheese", 1), 1)
}

func TestSuggestionsEscapesWildcards(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	meals := NewMealService(db, zap.NewNop())
	foods := NewFoodService(db, zap.NewNop())

	mustCreateMeal(t, meals, "2024-06-10", "snack", "100% juice", "orange_soda", "tea")

	assert.Equal(t, []string{"100% juice"}, foodNames(t, foods, "%", 0))
	assert.Equal(t, []string{"orange_soda"}, foodNames(t, foods, "_", 0))
}

func TestSuggestionsLimit(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	meals := NewMealService(db, zap.NewNop())
	foods := NewFoodService(db, zap.NewNop())

	var names []string
	for i := 0; i < DefaultSuggestionLimit+5; i++ {
		names = append(names, fmt.Sprintf("bean %02d", i))
	}
	mustCreateMeal(t, meals, "2024-06-10", "dinner", names...)

	assert.Len(t, foodNames(t, foods, "bean", 0), DefaultSuggestionLimit)
	assert.Len(t, foodNames(t, foods, "bean", 100), DefaultSuggestionLimit)
}

func TestListSuspicious(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	meals := NewMealService(db, zap.NewNop())
	foods := NewFoodService(db, zap.NewNop())
	ctx := context.Background()

	meal := mustCreateMeal(t, meals, "2024-06-10", "dinner", "shrimp", "garlic")
	mustCreateMeal(t, meals, "2024-06-11", "dinner", "rice")

	list, err := foods.ListSuspicious(ctx)
	require.NoError(t, err)
	assert.Empty(t, list)

	_, err = meals.MarkSuspicious(ctx, meal.ID, "hives")
	require.NoError(t, err)

	list, err = foods.ListSuspicious(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "garlic", list[0].Name)
	assert.Equal(t, "shrimp", list[1].Name)
	assert.True(t, list[0].IsSuspicious)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `50\% off\_now \\ here`, escapeLike(`50% off_now \ here`))
}

func TestFoodQueryFailuresAreLogged(t *testing.T) {
	db := testhelpers.SetupTestDB(t)
	core, logs := observer.New(zapcore.ErrorLevel)
	foods := NewFoodService(db, zap.New(core))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = foods.Suggestions(context.Background(), "rice", 5)
	require.Error(t, err)
	_, err = foods.ListSuspicious(context.Background())
	require.Error(t, err)

	require.Equal(t, 1, logs.FilterMessage("food search failed").Len())
	assert.Equal(t, "rice", logs.FilterMessage("food search failed").All()[0].ContextMap()["query"])
	assert.Equal(t, 1, logs.FilterMessage("listing suspicious foods failed").Len())
}
