package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"

	_ "github.com/lib/pq"
	"github.com/pageza/handlog/backend/config"
	"github.com/pageza/handlog/backend/internal/database"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Migrations directory (defaults to MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}
	if *dir == "" {
		*dir = cfg.MigrationsDir
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.PostgresDSN()
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()

	ctx := context.Background()

	if *rollback {
		name, err := database.RollbackLast(ctx, db, *dir)
		if errors.Is(err, database.ErrNoMigrations) {
			log.Fatal("No migrations to rollback")
		}
		if err != nil {
			log.Fatalf("failed to rollback: %v", err)
		}
		fmt.Printf("Successfully rolled back migration: %s\n", name)
		return
	}

	applied, err := database.ApplyMigrations(ctx, db, *dir)
	for _, file := range applied {
		fmt.Printf("Successfully applied migration: %s\n", file)
	}
	if err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}

	if len(applied) == 0 {
		fmt.Println("No pending migrations.")
		return
	}
	fmt.Println("All migrations applied successfully.")
}
