package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/pageza/handlog/backend/config"
	"github.com/pageza/handlog/backend/internal/database"
	"github.com/pageza/handlog/backend/internal/logging"
	"github.com/pageza/handlog/backend/internal/models"
	"github.com/pageza/handlog/backend/internal/service"
	"github.com/pageza/handlog/backend/internal/types"
)

type seedMeal struct {
	MealType string
	Foods    []string
}

// A rotating week of meals. Days containing a dairy meal are flagged and
// followed by a worse reading, so the statistics page has something to show.
var weekMenu = [][]seedMeal{
	{{"breakfast", []string{"Oatmeal", "Banana"}}, {"lunch", []string{"Chicken", "Rice", "Broccoli"}}, {"dinner", []string{"Salmon", "Potato"}}},
	{{"breakfast", []string{"Yogurt", "Granola"}}, {"lunch", []string{"Cheese", "Bread", "Tomato"}}, {"dinner", []string{"Pasta", "Tomato"}}},
	{{"breakfast", []string{"Eggs", "Toast"}}, {"lunch", []string{"Rice", "Beans"}}, {"snack", []string{"Apple"}}},
	{{"breakfast", []string{"Oatmeal", "Banana"}}, {"lunch", []string{"Pizza", "Cheese"}}, {"dinner", []string{"Chicken", "Potato"}}},
	{{"breakfast", []string{"Toast", "Peanut Butter"}}, {"lunch", []string{"Salad", "Chicken"}}, {"dinner", []string{"Shrimp", "Rice"}}},
	{{"breakfast", []string{"Yogurt", "Banana"}}, {"lunch", []string{"Bread", "Tomato"}}, {"dinner", []string{"Pasta", "Cheese"}}},
	{{"breakfast", []string{"Eggs", "Potato"}}, {"lunch", []string{"Rice", "Broccoli"}}, {"snack", []string{"Apple", "Peanut Butter"}}},
}

var suspectFoods = map[string]bool{"yogurt": true, "cheese": true, "pizza": true}

func main() {
	days := flag.Int("days", 45, "Number of days of history to generate")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := logging.New(cfg)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	db, err := database.Open(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db, cfg.MigrationsDir); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	meals := service.NewMealService(db, logger)
	conditions := service.NewHandConditionService(db, logger)
	ctx := context.Background()

	today := models.Today()
	start := today.AddDays(-*days + 1)

	var mealCount, flagged, readings int
	lastFlagged := -100
	for i := 0; i < *days; i++ {
		day := start.AddDays(i)

		for _, m := range weekMenu[i%len(weekMenu)] {
			req := &types.CreateMealRequest{
				Date:     day.String(),
				MealType: m.MealType,
			}
			suspect := false
			for _, food := range m.Foods {
				req.Items = append(req.Items, types.MealItemInput{Name: food})
				suspect = suspect || suspectFoods[strings.ToLower(food)]
			}

			meal, err := meals.CreateMeal(ctx, req)
			if err != nil {
				log.Fatalf("Failed to create meal on %s: %v", day, err)
			}
			mealCount++

			if suspect {
				if _, err := meals.MarkSuspicious(ctx, meal.ID, "flare-up after "+strings.Join(m.Foods, " and ")); err != nil {
					log.Fatalf("Failed to flag meal %d: %v", meal.ID, err)
				}
				flagged++
				lastFlagged = i
			}
		}

		rating := 8
		switch i - lastFlagged {
		case 0:
			rating = 6
		case 1:
			rating = 4
		case 2:
			rating = 6
		}
		for _, timeOfDay := range []string{"08:00", "20:00"} {
			r := rating
			if timeOfDay == "20:00" && r < 10 {
				r++
			}
			if _, err := conditions.CreateHandCondition(ctx, &types.CreateHandConditionRequest{
				Date:            day.String(),
				TimeOfDay:       timeOfDay,
				ConditionRating: &r,
			}); err != nil {
				log.Fatalf("Failed to record hand condition on %s: %v", day, err)
			}
			readings++
		}
	}

	log.Printf("Successfully seeded %d meals (%d flagged) and %d hand condition readings over %d days",
		mealCount, flagged, readings, *days)
}
