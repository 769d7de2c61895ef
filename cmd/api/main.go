package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/config"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/database"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/dataset"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/logger"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/metrics"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/server"
	"github.com/KENWOLVERINE1/Smart-Nutrition-Planner/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       cfg.LogLevel,
		Format:      cfg.LogFormat,
		Development: cfg.Environment == config.Development,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	if err := run(cfg, log); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
	log.Info("server stopped")
}

func run(cfg *config.Config, log *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	store, err := loadStore(ctx, cfg, log)
	if err != nil {
		return err
	}

	recorder := metrics.New()
	recommender := service.NewRecommendService(
		store,
		service.DefaultRestrictionPolicy(),
		service.NewIngredientFilter(cfg.MinFilteredRecipes),
		log,
		recorder,
		cfg.DefaultNeighbors,
	)

	var rdb *redis.Client
	if cfg.RateLimitEnabled() {
		rdb, err = database.NewRedisClient(ctx, cfg, log)
		if err != nil {
			log.Warn("rate limiting disabled", zap.Error(err))
		} else {
			defer rdb.Close()
		}
	}

	srv := server.New(cfg, recommender, server.Options{
		Logger:  log,
		Metrics: recorder,
		Redis:   rdb,
	})

	errChan := make(chan error, 1)
	go func() {
		errChan <- srv.Start()
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// loadStore reads the dataset once from the configured source.
func loadStore(ctx context.Context, cfg *config.Config, log *zap.Logger) (*dataset.Store, error) {
	var (
		store  *dataset.Store
		report dataset.Report
		err    error
	)

	switch cfg.DatasetSource {
	case config.DatasetSourceDB:
		db, dbErr := database.New(ctx, cfg, log)
		if dbErr != nil {
			return nil, dbErr
		}
		if sqlDB, e := db.DB(); e == nil {
			defer sqlDB.Close()
		}
		store, report, err = dataset.LoadDB(ctx, db)
	default:
		var objects dataset.ObjectOpener
		if dataset.IsRemote(cfg.DatasetPath) {
			s3cfg, s3Err := config.NewS3Config(ctx, cfg)
			if s3Err != nil {
				return nil, s3Err
			}
			objects = s3cfg
		}
		store, report, err = dataset.Open(ctx, cfg.DatasetPath, objects)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	log.Info("dataset loaded",
		zap.String("source", cfg.DatasetSource),
		zap.Int("recipes", report.Loaded),
		zap.Int("skipped", report.Skipped),
	)
	if report.Skipped > 0 {
		log.Warn("skipped malformed dataset rows", zap.Int("skipped", report.Skipped))
	}
	return store, nil
}
