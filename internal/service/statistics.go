package service

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/pageza/handlog/backend/internal/metrics"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/types"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
)

// Report windows and list sizes
const (
	TopSuspiciousFoodsLimit = 10
	FoodCombinationsLimit   = 10
	ConditionTrendDays      = 14
	DailyActivityDays       = 14
	WeeklyTrendWeeks        = 8
	MonthlyTrendMonths      = 6
	DayOfWeekWindowDays     = 60
	RecoveryWindowDays      = 30
)

// AVG over a REAL cast returns a float on both PostgreSQL and SQLite
const avgRatingExpr = "AVG(CAST(condition_rating AS REAL))"

// StatisticsService computes the aggregate report. Each section is an
// independent read query; Report runs them concurrently.
type StatisticsService struct {
	db          *gorm.DB
	logger      *zap.Logger
	now         func() time.Time
	concurrency int
}

var _ IStatisticsService = (*StatisticsService)(nil)

// NewStatisticsService creates a new StatisticsService instance
func NewStatisticsService(db *gorm.DB, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		db:          db,
		logger:      logger,
		now:         time.Now,
		concurrency: 4,
	}
}

// Report builds every section of the statistics report relative to today
func (s *StatisticsService) Report(ctx context.Context) (*types.Statistics, error) {
	started := time.Now()
	now := s.now()
	today := models.NewDate(now)
	d := dialectOf(s.db)

	report := &types.Statistics{GeneratedAt: now.UTC()}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	g.Go(func() (err error) {
		report.Totals, err = s.Totals(ctx)
		return
	})
	g.Go(func() (err error) {
		report.Averages, err = s.RollingAverages(ctx, today)
		return
	})
	g.Go(func() (err error) {
		report.TopSuspiciousFoods, err = s.TopSuspiciousFoods(ctx, TopSuspiciousFoodsLimit)
		return
	})
	g.Go(func() (err error) {
		report.ConditionTrend, err = s.ConditionTrend(ctx, today.AddDays(-ConditionTrendDays))
		return
	})
	g.Go(func() (err error) {
		report.DailyActivity, err = s.DailyActivity(ctx, today.AddDays(-DailyActivityDays))
		return
	})
	g.Go(func() (err error) {
		since := today.MondayOf().AddDays(-7 * (WeeklyTrendWeeks - 1))
		report.WeeklyTrends, err = s.PeriodTrends(ctx, d.week, since)
		return
	})
	g.Go(func() (err error) {
		since := models.NewDate(time.Date(today.Year(), today.Month()-(MonthlyTrendMonths-1), 1, 0, 0, 0, 0, time.UTC))
		report.MonthlyTrends, err = s.PeriodTrends(ctx, d.month, since)
		return
	})
	g.Go(func() (err error) {
		report.MealTypeDistribution, err = s.MealTypeBreakdown(ctx)
		return
	})
	g.Go(func() (err error) {
		report.FoodCombinations, err = s.FoodCombinations(ctx, FoodCombinationsLimit)
		return
	})
	g.Go(func() (err error) {
		report.DayOfWeekPattern, err = s.DayOfWeekPattern(ctx, today.AddDays(-DayOfWeekWindowDays))
		return
	})
	g.Go(func() (err error) {
		report.Recovery, err = s.Recovery(ctx, today.AddDays(-RecoveryWindowDays))
		return
	})

	if err := g.Wait(); err != nil {
		s.logger.Error("statistics report failed", zap.Error(err))
		return nil, fmt.Errorf("failed to build statistics: %w", err)
	}

	metrics.StatisticsDuration.Observe(time.Since(started).Seconds())
	return report, nil
}

// Totals counts meals, readings, flagged meals and suspicious foods
func (s *StatisticsService) Totals(ctx context.Context) (types.Totals, error) {
	var t types.Totals
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.Meal{}).Count(&t.TotalMeals).Error; err != nil {
		return t, fmt.Errorf("failed to count meals: %w", err)
	}
	if err := db.Model(&models.HandCondition{}).Count(&t.TotalConditionRecords).Error; err != nil {
		return t, fmt.Errorf("failed to count hand conditions: %w", err)
	}
	if err := db.Model(&models.SuspiciousMeal{}).Count(&t.SuspiciousMeals).Error; err != nil {
		return t, fmt.Errorf("failed to count suspicious meals: %w", err)
	}
	if err := db.Model(&models.FoodItem{}).Where("is_suspicious = ?", true).Count(&t.SuspiciousFoods).Error; err != nil {
		return t, fmt.Errorf("failed to count suspicious foods: %w", err)
	}
	return t, nil
}

// RollingAverages returns the mean rating on or after today-7/14/30/60 days
func (s *StatisticsService) RollingAverages(ctx context.Context, today models.Date) (types.RollingAverages, error) {
	var avgs types.RollingAverages
	windows := []struct {
		days int
		dest *float64
	}{
		{7, &avgs.Last7Days},
		{14, &avgs.Last14Days},
		{30, &avgs.Last30Days},
		{60, &avgs.Last60Days},
	}
	for _, w := range windows {
		avg, err := s.averageSince(ctx, today.AddDays(-w.days))
		if err != nil {
			return avgs, err
		}
		*w.dest = avg
	}
	return avgs, nil
}

// averageSince reports 0 when the window holds no readings
func (s *StatisticsService) averageSince(ctx context.Context, since models.Date) (float64, error) {
	var avg sql.NullFloat64
	row := s.db.WithContext(ctx).
		Model(&models.HandCondition{}).
		Select(avgRatingExpr).
		Where("date >= ?", since).
		Row()
	if err := row.Scan(&avg); err != nil {
		return 0, fmt.Errorf("failed to average hand conditions: %w", err)
	}
	if !avg.Valid {
		return 0, nil
	}
	return avg.Float64, nil
}

// TopSuspiciousFoods ranks foods by the number of flagged meals they appear
// in. Ties are broken by name so the ranking is stable.
func (s *StatisticsService) TopSuspiciousFoods(ctx context.Context, limit int) ([]types.FoodFrequency, error) {
	rows := make([]types.FoodFrequency, 0)
	if err := s.db.WithContext(ctx).
		Table("meal_items AS mi").
		Select("fi.name AS name, COUNT(DISTINCT mi.meal_id) AS frequency").
		Joins("JOIN food_items fi ON fi.id = mi.food_item_id").
		Joins("JOIN suspicious_meals sm ON sm.meal_id = mi.meal_id").
		Group("fi.id, fi.name").
		Order("frequency DESC, fi.name ASC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to rank suspicious foods: %w", err)
	}
	return rows, nil
}

// ConditionTrend averages readings per calendar day since the given day.
// Days without readings are omitted.
func (s *StatisticsService) ConditionTrend(ctx context.Context, since models.Date) ([]types.DailyCondition, error) {
	day := dialectOf(s.db).day("date")
	rows := make([]types.DailyCondition, 0)
	if err := s.db.WithContext(ctx).
		Model(&models.HandCondition{}).
		Select(day + " AS date, " + avgRatingExpr + " AS avg_rating, COUNT(*) AS entries").
		Where("date >= ?", since).
		Group(day).
		Order(day + " ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build condition trend: %w", err)
	}
	return rows, nil
}

// DailyActivity counts meals and flagged meals per calendar day
func (s *StatisticsService) DailyActivity(ctx context.Context, since models.Date) ([]types.DailyActivity, error) {
	day := dialectOf(s.db).day("m.date")
	rows := make([]types.DailyActivity, 0)
	if err := s.db.WithContext(ctx).
		Table("meals AS m").
		Select(day + " AS date, COUNT(*) AS meals_count, COUNT(sm.id) AS suspicious_count").
		Joins("LEFT JOIN suspicious_meals sm ON sm.meal_id = m.id").
		Where("m.date >= ?", since).
		Group(day).
		Order(day + " ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build daily activity: %w", err)
	}
	return rows, nil
}

type periodCount struct {
	Period          string
	MealsCount      int64
	SuspiciousCount int64
}

type periodRating struct {
	Period           string
	AvgRating        float64
	ConditionEntries int64
}

// PeriodTrends groups meals, flags and readings into the buckets produced by
// bucket (weeks or months). Periods without any data are omitted.
func (s *StatisticsService) PeriodTrends(ctx context.Context, bucket func(col string) string, since models.Date) ([]types.PeriodTrend, error) {
	db := s.db.WithContext(ctx)

	var counts []periodCount
	mealBucket := bucket("m.date")
	if err := db.Table("meals AS m").
		Select(mealBucket + " AS period, COUNT(*) AS meals_count, COUNT(sm.id) AS suspicious_count").
		Joins("LEFT JOIN suspicious_meals sm ON sm.meal_id = m.id").
		Where("m.date >= ?", since).
		Group(mealBucket).
		Scan(&counts).Error; err != nil {
		return nil, fmt.Errorf("failed to bucket meals: %w", err)
	}

	var ratings []periodRating
	ratingBucket := bucket("date")
	if err := db.Model(&models.HandCondition{}).
		Select(ratingBucket + " AS period, " + avgRatingExpr + " AS avg_rating, COUNT(*) AS condition_entries").
		Where("date >= ?", since).
		Group(ratingBucket).
		Scan(&ratings).Error; err != nil {
		return nil, fmt.Errorf("failed to bucket hand conditions: %w", err)
	}

	return mergePeriods(counts, ratings), nil
}

func mergePeriods(counts []periodCount, ratings []periodRating) []types.PeriodTrend {
	byPeriod := make(map[string]*types.PeriodTrend)
	get := func(period string) *types.PeriodTrend {
		if t, ok := byPeriod[period]; ok {
			return t
		}
		t := &types.PeriodTrend{Period: period}
		byPeriod[period] = t
		return t
	}
	for _, c := range counts {
		t := get(c.Period)
		t.MealsCount = c.MealsCount
		t.SuspiciousCount = c.SuspiciousCount
	}
	for _, r := range ratings {
		t := get(r.Period)
		t.AvgRating = r.AvgRating
		t.ConditionEntries = r.ConditionEntries
	}

	trends := make([]types.PeriodTrend, 0, len(byPeriod))
	for _, t := range byPeriod {
		trends = append(trends, *t)
	}
	// ISO dates and YYYY-MM keys sort chronologically as strings
	sort.Slice(trends, func(i, j int) bool {
		return trends[i].Period < trends[j].Period
	})
	return trends
}

type mealTypeCount struct {
	MealType        string
	Count           int64
	SuspiciousCount int64
}

// MealTypeBreakdown reports every meal type, including types with no meals
func (s *StatisticsService) MealTypeBreakdown(ctx context.Context) ([]types.MealTypeBreakdown, error) {
	var rows []mealTypeCount
	if err := s.db.WithContext(ctx).
		Table("meals AS m").
		Select("m.meal_type AS meal_type, COUNT(*) AS count, COUNT(sm.id) AS suspicious_count").
		Joins("LEFT JOIN suspicious_meals sm ON sm.meal_id = m.id").
		Group("m.meal_type").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to break down meal types: %w", err)
	}

	byType := make(map[string]mealTypeCount, len(rows))
	for _, r := range rows {
		byType[r.MealType] = r
	}

	breakdown := make([]types.MealTypeBreakdown, 0, len(models.MealTypes))
	for _, mt := range models.MealTypes {
		c := byType[mt]
		breakdown = append(breakdown, newMealTypeBreakdown(mt, c.Count, c.SuspiciousCount))
		delete(byType, mt)
	}

	var unknown []string
	for mt := range byType {
		unknown = append(unknown, mt)
	}
	sort.Strings(unknown)
	for _, mt := range unknown {
		c := byType[mt]
		breakdown = append(breakdown, newMealTypeBreakdown(mt, c.Count, c.SuspiciousCount))
	}
	return breakdown, nil
}

func newMealTypeBreakdown(mealType string, total, flagged int64) types.MealTypeBreakdown {
	return types.MealTypeBreakdown{
		MealType:             mealType,
		Count:                total,
		SuspiciousCount:      flagged,
		SuspiciousPercentage: suspiciousPercentage(flagged, total),
	}
}

func suspiciousPercentage(flagged, total int64) float64 {
	if total == 0 {
		return 0
	}
	return float64(flagged) / float64(total) * 100
}

type mealFood struct {
	MealID uint
	Name   string
}

// FoodCombinations counts the distinct food sets of flagged meals that hold
// two or more foods. A combination seen in a single meal is still reported.
func (s *StatisticsService) FoodCombinations(ctx context.Context, limit int) ([]types.FoodCombination, error) {
	var rows []mealFood
	if err := s.db.WithContext(ctx).
		Table("meal_items AS mi").
		Select("mi.meal_id AS meal_id, fi.name AS name").
		Joins("JOIN food_items fi ON fi.id = mi.food_item_id").
		Joins("JOIN suspicious_meals sm ON sm.meal_id = mi.meal_id").
		Order("mi.meal_id ASC, fi.name ASC").
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load flagged meal foods: %w", err)
	}
	return rankCombinations(rows, limit), nil
}

func rankCombinations(rows []mealFood, limit int) []types.FoodCombination {
	foodsByMeal := make(map[uint]map[string]struct{})
	for _, r := range rows {
		if foodsByMeal[r.MealID] == nil {
			foodsByMeal[r.MealID] = make(map[string]struct{})
		}
		foodsByMeal[r.MealID][r.Name] = struct{}{}
	}

	counts := make(map[string]*types.FoodCombination)
	for _, set := range foodsByMeal {
		if len(set) < 2 {
			continue
		}
		foods := make([]string, 0, len(set))
		for name := range set {
			foods = append(foods, name)
		}
		sort.Strings(foods)

		key := strings.Join(foods, "\x00")
		if c, ok := counts[key]; ok {
			c.Occurrences++
			continue
		}
		counts[key] = &types.FoodCombination{Foods: foods, Occurrences: 1}
	}

	combos := make([]types.FoodCombination, 0, len(counts))
	for _, c := range counts {
		combos = append(combos, *c)
	}
	sort.Slice(combos, func(i, j int) bool {
		if combos[i].Occurrences != combos[j].Occurrences {
			return combos[i].Occurrences > combos[j].Occurrences
		}
		return strings.Join(combos[i].Foods, ", ") < strings.Join(combos[j].Foods, ", ")
	})
	if limit > 0 && len(combos) > limit {
		combos = combos[:limit]
	}
	return combos
}

type weekdayRating struct {
	DayIndex  int
	AvgRating float64
	Entries   int64
}

// DayOfWeekPattern averages readings per weekday, Monday first. Weekdays
// without readings are omitted.
func (s *StatisticsService) DayOfWeekPattern(ctx context.Context, since models.Date) ([]types.DayOfWeekCondition, error) {
	weekday := dialectOf(s.db).weekday("date")
	var rows []weekdayRating
	if err := s.db.WithContext(ctx).
		Model(&models.HandCondition{}).
		Select(weekday + " AS day_index, " + avgRatingExpr + " AS avg_rating, COUNT(*) AS entries").
		Where("date >= ?", since).
		Group(weekday).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to build day of week pattern: %w", err)
	}

	pattern := make([]types.DayOfWeekCondition, 0, len(rows))
	for _, r := range rows {
		pattern = append(pattern, types.DayOfWeekCondition{
			Day:       time.Weekday(r.DayIndex).String(),
			DayIndex:  r.DayIndex,
			AvgRating: r.AvgRating,
			Entries:   r.Entries,
		})
	}
	sort.Slice(pattern, func(i, j int) bool {
		return (pattern[i].DayIndex+6)%7 < (pattern[j].DayIndex+6)%7
	})
	return pattern, nil
}

type recoveryPair struct {
	MealID       uint
	MealDate     string
	RecoveryDate string
}

// Recovery pairs each flagged meal dated on or after since with the first
// later day that has a rating of at least GoodConditionRating, and averages
// the gap in days. Every flagged meal is measured on its own: two flagged
// meals before the same good day both count, each with its own gap. A relapse
// after the good day is not considered. This is a correlation heuristic.
func (s *StatisticsService) Recovery(ctx context.Context, since models.Date) (types.RecoveryAnalysis, error) {
	d := dialectOf(s.db)
	var pairs []recoveryPair
	if err := s.db.WithContext(ctx).
		Table("suspicious_meals AS sm").
		Select("m.id AS meal_id, "+d.day("m.date")+" AS meal_date, MIN("+d.day("hc.date")+") AS recovery_date").
		Joins("JOIN meals m ON m.id = sm.meal_id").
		Joins("JOIN hand_conditions hc ON hc.date > m.date AND hc.condition_rating >= ?", models.GoodConditionRating).
		Where("m.date >= ?", since).
		Group("m.id, m.date").
		Scan(&pairs).Error; err != nil {
		return types.RecoveryAnalysis{}, fmt.Errorf("failed to pair flagged meals with recovery days: %w", err)
	}
	return summarizeRecovery(pairs), nil
}

func summarizeRecovery(pairs []recoveryPair) types.RecoveryAnalysis {
	var analysis types.RecoveryAnalysis
	total := 0
	for _, p := range pairs {
		mealDate, err := models.ParseDate(p.MealDate)
		if err != nil {
			continue
		}
		recoveryDate, err := models.ParseDate(p.RecoveryDate)
		if err != nil {
			continue
		}
		total += mealDate.DaysUntil(recoveryDate)
		analysis.Instances++
	}
	if analysis.Instances > 0 {
		avg := float64(total) / float64(analysis.Instances)
		analysis.AverageDays = &avg
	}
	return analysis
}
