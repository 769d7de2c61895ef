package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/config"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/database"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/logger"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/model"
)

const defaultBatchSize = 500

func main() {
	source := flag.String("source", "", "CSV dataset to import, local path or s3://bucket/key (default DATASET_PATH)")
	batchSize := flag.Int("batch", defaultBatchSize, "Rows per insert batch")
	truncate := flag.Bool("truncate", false, "Delete existing recipes before importing")
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

	if err := config.ValidateDatabase(cfg); err != nil {
		log.Fatal("invalid database configuration", zap.Error(err))
	}

	path := *source
	if path == "" {
		path = cfg.DatasetPath
	}

	ctx := context.Background()
	var objects dataset.ObjectOpener
	if dataset.IsRemote(path) {
		s3cfg, err := config.NewS3Config(ctx, cfg)
		if err != nil {
			log.Fatal("failed to initialize S3", zap.Error(err))
		}
		objects = s3cfg
	}

	store, report, err := dataset.Open(ctx, path, objects)
	if err != nil {
		log.Fatal("failed to read dataset", zap.Error(err))
	}
	log.Info("read dataset", zap.String("path", path), zap.Int("recipes", report.Loaded), zap.Int("skipped", report.Skipped))

	db, err := database.New(ctx, cfg, log)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}
	if cfg.DBDriver == config.DriverSQLite {
		if err := database.AutoMigrate(db); err != nil {
			log.Fatal("failed to create schema", zap.Error(err))
		}
	}

	inserted, err := seed(ctx, db, store, *batchSize, *truncate)
	if err != nil {
		log.Fatal("failed to seed recipes", zap.Error(err))
	}
	log.Info("seeded recipes", zap.Int("inserted", inserted))
}

// seed writes every recipe in store to the recipes table in one transaction.
func seed(ctx context.Context, db *gorm.DB, store *dataset.Store, batchSize int, truncate bool) (int, error) {
	if batchSize <= 0 {
		batchSize = defaultBatchSize
	}
	recipes := make([]model.Recipe, store.Len())
	for i := range recipes {
		recipes[i] = store.At(i)
		recipes[i].ID = 0
	}

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if truncate {
			if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.Recipe{}).Error; err != nil {
				return fmt.Errorf("failed to clear recipes: %w", err)
			}
		}
		if len(recipes) == 0 {
			return nil
		}
		return tx.CreateInBatches(recipes, batchSize).Error
	})
	if err != nil {
		return 0, err
	}
	return len(recipes), nil
}
