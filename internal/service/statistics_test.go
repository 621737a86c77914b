package service

import (
	"context"
	"testing"
	"time"

	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/testhelpers"
	"github.com/pageza/handlog/backend/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type statsFixture struct {
	db    *gorm.DB
	meals *MealService
	stats *StatisticsService
}

func newStatsFixture(t *testing.T) *statsFixture {
	db := testhelpers.SetupTestDB(t)
	meals := NewMealService(db, zap.NewNop())
	meals.now = func() time.Time { return testNow }
	stats := NewStatisticsService(db, zap.NewNop())
	stats.now = func() time.Time { return testNow }
	return &statsFixture{db: db, meals: meals, stats: stats}
}

func (f *statsFixture) meal(t *testing.T, date, mealType string, flagged bool, foods ...string) *models.Meal {
	t.Helper()
	meal := mustCreateMeal(t, f.meals, date, mealType, foods...)
	if flagged {
		_, err := f.meals.MarkSuspicious(context.Background(), meal.ID, "flare")
		require.NoError(t, err)
	}
	return meal
}

func (f *statsFixture) reading(t *testing.T, date string, rating int) {
	t.Helper()
	d, err := models.ParseDate(date)
	require.NoError(t, err)
	require.NoError(t, f.db.Create(&models.HandCondition{Date: d, ConditionRating: rating}).Error)
}

func date(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestReportEmptyDatabase(t *testing.T) {
	f := newStatsFixture(t)

	report, err := f.stats.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, testNow, report.GeneratedAt)
	assert.Equal(t, types.Totals{}, report.Totals)
	assert.Equal(t, types.RollingAverages{}, report.Averages)
	assert.Empty(t, report.TopSuspiciousFoods)
	assert.Empty(t, report.ConditionTrend)
	assert.Empty(t, report.DailyActivity)
	assert.Empty(t, report.WeeklyTrends)
	assert.Empty(t, report.MonthlyTrends)
	assert.Empty(t, report.FoodCombinations)
	assert.Empty(t, report.DayOfWeekPattern)
	assert.Nil(t, report.Recovery.AverageDays)
	assert.Zero(t, report.Recovery.Instances)

	require.Len(t, report.MealTypeDistribution, 4)
	for i, mt := range models.MealTypes {
		assert.Equal(t, mt, report.MealTypeDistribution[i].MealType)
		assert.Zero(t, report.MealTypeDistribution[i].Count)
		assert.Zero(t, report.MealTypeDistribution[i].SuspiciousPercentage)
	}
}

func TestReportPopulated(t *testing.T) {
	f := newStatsFixture(t)
	f.meal(t, "2024-06-10", "breakfast", true, "eggs", "toast")
	f.meal(t, "2024-06-11", "lunch", false, "rice")
	f.reading(t, "2024-06-12", 8)

	report, err := f.stats.Report(context.Background())
	require.NoError(t, err)

	assert.Equal(t, types.Totals{
		TotalMeals:            2,
		TotalConditionRecords: 1,
		SuspiciousMeals:       1,
		SuspiciousFoods:       2,
	}, report.Totals)
	assert.Equal(t, 8.0, report.Averages.Last7Days)
	require.Len(t, report.TopSuspiciousFoods, 2)
	require.Len(t, report.FoodCombinations, 1)
	assert.Equal(t, []string{"eggs", "toast"}, report.FoodCombinations[0].Foods)
	require.NotNil(t, report.Recovery.AverageDays)
	assert.Equal(t, 2.0, *report.Recovery.AverageDays)
	require.Len(t, report.WeeklyTrends, 1)
	assert.Equal(t, "2024-06-10", report.WeeklyTrends[0].Period)
	require.Len(t, report.MonthlyTrends, 1)
	assert.Equal(t, "2024-06", report.MonthlyTrends[0].Period)
}

func TestRollingAverages(t *testing.T) {
	f := newStatsFixture(t)
	f.reading(t, "2024-06-14", 8)
	f.reading(t, "2024-06-10", 6)
	f.reading(t, "2024-06-01", 4)
	f.reading(t, "2024-05-01", 2)
	f.reading(t, "2024-03-01", 10)

	avgs, err := f.stats.RollingAverages(context.Background(), date(t, "2024-06-15"))
	require.NoError(t, err)
	assert.InDelta(t, 7.0, avgs.Last7Days, 1e-9)
	assert.InDelta(t, 6.0, avgs.Last14Days, 1e-9)
	assert.InDelta(t, 6.0, avgs.Last30Days, 1e-9)
	assert.InDelta(t, 5.0, avgs.Last60Days, 1e-9)
}

func TestTopSuspiciousFoodsAndCombinations(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()
	f.meal(t, "2024-06-10", "breakfast", true, "eggs", "toast")
	f.meal(t, "2024-06-11", "breakfast", true, "eggs", "milk")
	f.meal(t, "2024-06-12", "breakfast", true, "Toast", "eggs", "EGGS")
	f.meal(t, "2024-06-13", "dinner", true, "rice")
	f.meal(t, "2024-06-14", "lunch", false, "eggs", "toast")

	top, err := f.stats.TopSuspiciousFoods(ctx, TopSuspiciousFoodsLimit)
	require.NoError(t, err)
	assert.Equal(t, []types.FoodFrequency{
		{Name: "eggs", Frequency: 3},
		{Name: "toast", Frequency: 2},
		{Name: "milk", Frequency: 1},
		{Name: "rice", Frequency: 1},
	}, top)

	top, err = f.stats.TopSuspiciousFoods(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, top, 2)

	combos, err := f.stats.FoodCombinations(ctx, FoodCombinationsLimit)
	require.NoError(t, err)
	assert.Equal(t, []types.FoodCombination{
		{Foods: []string{"eggs", "toast"}, Occurrences: 2},
		{Foods: []string{"eggs", "milk"}, Occurrences: 1},
	}, combos)
}

func TestRankCombinations(t *testing.T) {
	rows := []mealFood{
		{MealID: 1, Name: "b"}, {MealID: 1, Name: "a"},
		{MealID: 2, Name: "c"}, {MealID: 2, Name: "a"},
		{MealID: 3, Name: "a"}, {MealID: 3, Name: "b"}, {MealID: 3, Name: "b"},
		{MealID: 4, Name: "z"},
		{MealID: 5, Name: "a"}, {MealID: 5, Name: "b"}, {MealID: 5, Name: "c"},
	}

	assert.Equal(t, []types.FoodCombination{
		{Foods: []string{"a", "b"}, Occurrences: 2},
		{Foods: []string{"a", "b", "c"}, Occurrences: 1},
		{Foods: []string{"a", "c"}, Occurrences: 1},
	}, rankCombinations(rows, 10))

	assert.Len(t, rankCombinations(rows, 1), 1)
	assert.Empty(t, rankCombinations(nil, 10))
}

func TestMealTypeBreakdown(t *testing.T) {
	f := newStatsFixture(t)
	f.meal(t, "2024-06-10", "breakfast", true, "eggs")
	f.meal(t, "2024-06-11", "breakfast", false, "oats")
	f.meal(t, "2024-06-11", "lunch", false, "rice")
	f.meal(t, "2024-06-12", "snack", true, "chips")

	breakdown, err := f.stats.MealTypeBreakdown(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []types.MealTypeBreakdown{
		{MealType: "breakfast", Count: 2, SuspiciousCount: 1, SuspiciousPercentage: 50},
		{MealType: "lunch", Count: 1, SuspiciousCount: 0, SuspiciousPercentage: 0},
		{MealType: "dinner", Count: 0, SuspiciousCount: 0, SuspiciousPercentage: 0},
		{MealType: "snack", Count: 1, SuspiciousCount: 1, SuspiciousPercentage: 100},
	}, breakdown)
}

func TestConditionTrendAndDailyActivity(t *testing.T) {
	f := newStatsFixture(t)
	ctx := context.Background()
	f.reading(t, "2024-05-20", 1)
	f.reading(t, "2024-06-12", 5)
	f.reading(t, "2024-06-12", 8)
	f.reading(t, "2024-06-14", 7)
	f.meal(t, "2024-06-12", "lunch", true, "shrimp")
	f.meal(t, "2024-06-12", "dinner", false, "rice")
	f.meal(t, "2024-06-13", "dinner", false, "rice")

	trend, err := f.stats.ConditionTrend(ctx, date(t, "2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []types.DailyCondition{
		{Date: "2024-06-12", AvgRating: 6.5, Entries: 2},
		{Date: "2024-06-14", AvgRating: 7, Entries: 1},
	}, trend)

	activity, err := f.stats.DailyActivity(ctx, date(t, "2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []types.DailyActivity{
		{Date: "2024-06-12", MealsCount: 2, SuspiciousCount: 1},
		{Date: "2024-06-13", MealsCount: 1, SuspiciousCount: 0},
	}, activity)
}

func TestWeeklyTrendsBucketByMonday(t *testing.T) {
	f := newStatsFixture(t)
	f.meal(t, "2024-06-09", "lunch", false, "rice")
	f.meal(t, "2024-06-10", "lunch", false, "rice")
	f.meal(t, "2024-06-12", "dinner", true, "shrimp")
	f.reading(t, "2024-06-11", 6)
	f.reading(t, "2024-06-12", 8)
	f.reading(t, "2024-05-27", 3)

	trends, err := f.stats.PeriodTrends(context.Background(), dialectOf(f.db).week, date(t, "2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []types.PeriodTrend{
		{Period: "2024-06-03", MealsCount: 1},
		{Period: "2024-06-10", MealsCount: 2, SuspiciousCount: 1, AvgRating: 7, ConditionEntries: 2},
	}, trends)
}

func TestMonthlyTrends(t *testing.T) {
	f := newStatsFixture(t)
	f.meal(t, "2024-05-31", "lunch", true, "rice")
	f.meal(t, "2024-06-01", "lunch", false, "rice")
	f.reading(t, "2024-04-30", 2)
	f.reading(t, "2024-06-15", 9)

	trends, err := f.stats.PeriodTrends(context.Background(), dialectOf(f.db).month, date(t, "2024-04-01"))
	require.NoError(t, err)
	assert.Equal(t, []types.PeriodTrend{
		{Period: "2024-04", AvgRating: 2, ConditionEntries: 1},
		{Period: "2024-05", MealsCount: 1, SuspiciousCount: 1},
		{Period: "2024-06", MealsCount: 1, AvgRating: 9, ConditionEntries: 1},
	}, trends)
}

func TestDayOfWeekPatternStartsOnMonday(t *testing.T) {
	f := newStatsFixture(t)
	f.reading(t, "2024-06-09", 4) // Sunday
	f.reading(t, "2024-06-10", 6) // Monday
	f.reading(t, "2024-06-04", 6) // Tuesday
	f.reading(t, "2024-06-11", 8) // Tuesday

	pattern, err := f.stats.DayOfWeekPattern(context.Background(), date(t, "2024-06-01"))
	require.NoError(t, err)
	assert.Equal(t, []types.DayOfWeekCondition{
		{Day: "Monday", DayIndex: 1, AvgRating: 6, Entries: 1},
		{Day: "Tuesday", DayIndex: 2, AvgRating: 7, Entries: 2},
		{Day: "Sunday", DayIndex: 0, AvgRating: 4, Entries: 1},
	}, pattern)
}

func TestRecovery(t *testing.T) {
	f := newStatsFixture(t)
	f.meal(t, "2024-06-10", "dinner", true, "shrimp")
	f.meal(t, "2024-06-12", "lunch", true, "eggs")
	f.meal(t, "2024-06-14", "lunch", true, "eggs")
	f.meal(t, "2024-04-01", "lunch", true, "eggs")
	f.meal(t, "2024-06-11", "lunch", false, "rice")

	f.reading(t, "2024-06-10", 9) // same day as the meal, ignored
	f.reading(t, "2024-06-11", 5)
	f.reading(t, "2024-06-13", 8)
	f.reading(t, "2024-06-14", 9)

	analysis, err := f.stats.Recovery(context.Background(), date(t, "2024-05-16"))
	require.NoError(t, err)
	assert.Equal(t, 2, analysis.Instances)
	require.NotNil(t, analysis.AverageDays)
	// 2024-06-10 -> 2024-06-13 and 2024-06-12 -> 2024-06-13
	assert.InDelta(t, 2.0, *analysis.AverageDays, 1e-9)
}

func TestRecoveryWithoutGoodDays(t *testing.T) {
	f := newStatsFixture(t)
	f.meal(t, "2024-06-10", "dinner", true, "shrimp")
	f.reading(t, "2024-06-11", 3)

	analysis, err := f.stats.Recovery(context.Background(), date(t, "2024-05-16"))
	require.NoError(t, err)
	assert.Nil(t, analysis.AverageDays)
	assert.Zero(t, analysis.Instances)
}

func TestSuspiciousPercentage(t *testing.T) {
	assert.Zero(t, suspiciousPercentage(0, 0))
	assert.InDelta(t, 33.333, suspiciousPercentage(1, 3), 0.001)
}
