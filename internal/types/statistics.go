package types

import "time"

// Statistics is the aggregate report served by GET /api/statistics. Every
// section is computed by an independent read query.
type Statistics struct {
	GeneratedAt          time.Time            `json:"generatedAt"`
	Totals               Totals               `json:"totals"`
	Averages             RollingAverages      `json:"averages"`
	TopSuspiciousFoods   []FoodFrequency      `json:"topSuspiciousFoods"`
	ConditionTrend       []DailyCondition     `json:"conditionTrend"`
	DailyActivity        []DailyActivity      `json:"dailyActivity"`
	WeeklyTrends         []PeriodTrend        `json:"weeklyTrends"`
	MonthlyTrends        []PeriodTrend        `json:"monthlyTrends"`
	MealTypeDistribution []MealTypeBreakdown  `json:"mealTypeDistribution"`
	FoodCombinations     []FoodCombination    `json:"foodCombinations"`
	DayOfWeekPattern     []DayOfWeekCondition `json:"dayOfWeekPattern"`
	Recovery             RecoveryAnalysis     `json:"recovery"`
}

type Totals struct {
	TotalMeals            int64 `json:"totalMeals"`
	TotalConditionRecords int64 `json:"totalConditionRecords"`
	SuspiciousMeals       int64 `json:"suspiciousMeals"`
	SuspiciousFoods       int64 `json:"suspiciousFoods"`
}

// RollingAverages holds mean condition ratings over trailing windows. A
// window without readings reports 0.
type RollingAverages struct {
	Last7Days  float64 `json:"last7Days"`
	Last14Days float64 `json:"last14Days"`
	Last30Days float64 `json:"last30Days"`
	Last60Days float64 `json:"last60Days"`
}

type FoodFrequency struct {
	Name      string `json:"name"`
	Frequency int64  `json:"frequency"`
}

type DailyCondition struct {
	Date      string  `json:"date"`
	AvgRating float64 `json:"avgRating"`
	Entries   int64   `json:"entries"`
}

type DailyActivity struct {
	Date            string `json:"date"`
	MealsCount      int64  `json:"mealsCount"`
	SuspiciousCount int64  `json:"suspiciousCount"`
}

// PeriodTrend is one week (keyed by its Monday) or one month (YYYY-MM)
type PeriodTrend struct {
	Period           string  `json:"period"`
	MealsCount       int64   `json:"mealsCount"`
	SuspiciousCount  int64   `json:"suspiciousCount"`
	AvgRating        float64 `json:"avgRating"`
	ConditionEntries int64   `json:"conditionEntries"`
}

type MealTypeBreakdown struct {
	MealType             string  `json:"mealType"`
	Count                int64   `json:"count"`
	SuspiciousCount      int64   `json:"suspiciousCount"`
	SuspiciousPercentage float64 `json:"suspiciousPercentage"`
}

type FoodCombination struct {
	Foods       []string `json:"foods"`
	Occurrences int      `json:"occurrences"`
}

type DayOfWeekCondition struct {
	Day       string  `json:"day"`
	DayIndex  int     `json:"dayIndex"`
	AvgRating float64 `json:"avgRating"`
	Entries   int64   `json:"entries"`
}

// RecoveryAnalysis approximates how long after a flagged meal the next good
// day (rating >= 7) arrives. It is a correlation heuristic, not a causal
// measure. AverageDays is null when no flagged meal has a later good day.
type RecoveryAnalysis struct {
	AverageDays *float64 `json:"averageDays"`
	Instances   int      `json:"instances"`
}
