package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bizlink/leadgen-backend/internal/runners"
	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/db"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/metrics"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "scrub-users"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "scrub-users",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	requireResource(ctx, logg, "database", err)
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(ctx, "error closing database", err)
		}
	}()

	runner, err := runners.NewScrubRunner(runners.ScrubRunnerParams{
		Logger:  logg,
		Users:   users.NewRepository(dbClient.DB()),
		Metrics: metrics.NewRunnerMetrics(nil),
	})
	requireResource(ctx, logg, "scrub runner", err)

	ctx = logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	result, err := runner.Run(ctx)
	if err != nil {
		logg.Error(ctx, "scrub pass failed", err)
		os.Exit(1)
	}
	fmt.Printf("matched=%d modified=%d\n", result.Matched, result.Modified)
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
