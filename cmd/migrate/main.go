package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"os"

	_ "github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/config"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/database"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/logger"
)

func main() {
	rollback := flag.Bool("rollback", false, "Rollback the last migration")
	dir := flag.String("dir", "", "Directory holding the migration files (default MIGRATIONS_DIR)")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	log, err := logger.New(logger.Config{Level: cfg.LogLevel, Format: "console"})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if cfg.DBDriver != config.DriverPostgres {
		log.Fatal("migrations run against postgres only; sqlite schemas are created by the seed command")
	}
	if err := config.ValidateDatabase(cfg); err != nil {
		log.Fatal("invalid database configuration", zap.Error(err))
	}

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = cfg.PostgresDSN()
	}
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	migrationsDir := *dir
	if migrationsDir == "" {
		migrationsDir = cfg.MigrationsDir
	}
	m := database.NewMigrator(db, migrationsDir, log)
	ctx := context.Background()

	if *rollback {
		name, err := m.Rollback(ctx)
		if errors.Is(err, database.ErrNoMigrations) {
			log.Info("no migrations to rollback")
			return
		}
		if err != nil {
			log.Fatal("rollback failed", zap.Error(err))
		}
		log.Info("successfully rolled back migration", zap.String("file", name))
		return
	}

	applied, err := m.Up(ctx)
	if err != nil {
		log.Fatal("migration failed", zap.Error(err))
	}
	log.Info("all migrations applied", zap.Int("applied", len(applied)))
}
