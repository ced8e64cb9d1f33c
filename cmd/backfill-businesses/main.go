package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/bizlink/leadgen-backend/internal/businesses"
	"github.com/bizlink/leadgen-backend/internal/linkage"
	"github.com/bizlink/leadgen-backend/internal/runners"
	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/db"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/metrics"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "backfill-businesses"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "backfill-businesses",
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

	userRepo := users.NewRepository(dbClient.DB())
	businessRepo := businesses.NewRepository(dbClient.DB())

	linkEngine, err := linkage.NewEngine(businessRepo, userRepo)
	requireResource(ctx, logg, "linkage engine", err)

	runner, err := runners.NewBackfillRunner(runners.BackfillRunnerParams{
		Logger:  logg,
		Users:   userRepo,
		Linker:  linkEngine,
		Metrics: metrics.NewRunnerMetrics(nil),
	})
	requireResource(ctx, logg, "backfill runner", err)

	ctx = logg.WithFields(context.Background(), map[string]any{"env": cfg.App.Env})

	result, err := runner.Run(ctx)
	if err != nil {
		logg.Error(ctx, "backfill finished with failures", err)
	}
	fmt.Printf("candidates=%d linked=%d adopted=%d failed=%d\n", result.Candidates, result.Linked, result.Adopted, result.Failed)
	if err != nil {
		os.Exit(1)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
