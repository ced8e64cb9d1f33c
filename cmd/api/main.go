package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/bizlink/leadgen-backend/api/routes"
	"github.com/bizlink/leadgen-backend/internal/auth"
	"github.com/bizlink/leadgen-backend/internal/businesses"
	"github.com/bizlink/leadgen-backend/internal/leads"
	"github.com/bizlink/leadgen-backend/internal/linkage"
	"github.com/bizlink/leadgen-backend/internal/products"
	"github.com/bizlink/leadgen-backend/internal/users"
	"github.com/bizlink/leadgen-backend/pkg/config"
	"github.com/bizlink/leadgen-backend/pkg/db"
	"github.com/bizlink/leadgen-backend/pkg/logger"
	"github.com/bizlink/leadgen-backend/pkg/migrate"
	"github.com/bizlink/leadgen-backend/pkg/pubsub"
	"github.com/bizlink/leadgen-backend/pkg/redis"
	"github.com/bizlink/leadgen-backend/pkg/storage/gcs"
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(ctx, ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "api",
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

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		requireResource(ctx, logg, "dev migrations", err)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	requireResource(ctx, logg, "redis", err)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(ctx, "error closing redis", err)
		}
	}()

	pubsubClient, err := pubsub.NewClient(context.Background(), cfg.GCP, cfg.PubSub, logg)
	requireResource(ctx, logg, "pubsub", err)
	defer func() {
		if err := pubsubClient.Close(); err != nil {
			logg.Error(ctx, "error closing pubsub", err)
		}
	}()

	gcsClient, err := gcs.NewClient(context.Background(), cfg.GCS, cfg.GCP, logg)
	requireResource(ctx, logg, "gcs", err)

	userRepo := users.NewRepository(dbClient.DB())
	businessRepo := businesses.NewRepository(dbClient.DB())
	productRepo := products.NewRepository(dbClient.DB())
	leadRepo := leads.NewRepository(dbClient.DB())

	linkEngine, err := linkage.NewEngine(businessRepo, userRepo)
	requireResource(ctx, logg, "linkage engine", err)

	authService, err := auth.NewService(auth.ServiceParams{
		UserRepo:  userRepo,
		JWTConfig: cfg.JWT,
	})
	requireResource(ctx, logg, "auth service", err)

	registerService, err := auth.NewRegisterService(auth.RegisterServiceParams{
		Logger:         logg,
		UserRepo:       userRepo,
		Linkage:        linkEngine,
		PasswordConfig: cfg.Password,
	})
	requireResource(ctx, logg, "register service", err)

	seedService, err := auth.NewSeedService(auth.SeedServiceParams{
		UserRepo:       userRepo,
		AdminConfig:    cfg.Admin,
		PasswordConfig: cfg.Password,
	})
	requireResource(ctx, logg, "seed service", err)

	businessService, err := businesses.NewService(businesses.ServiceParams{
		Repo:  businessRepo,
		Users: userRepo,
	})
	requireResource(ctx, logg, "business service", err)

	productService, err := products.NewService(products.ServiceParams{
		Repo:     productRepo,
		Uploader: gcsClient.BucketHandle(""),
	})
	requireResource(ctx, logg, "product service", err)

	leadService, err := leads.NewService(leads.ServiceParams{
		Logger:    logg,
		Repo:      leadRepo,
		Publisher: leads.NewPubSubPublisher(pubsubClient.LeadsPublisher()),
	})
	requireResource(ctx, logg, "lead service", err)

	registry := prometheus.NewRegistry()

	router := routes.NewRouter(routes.RouterParams{
		Config:          cfg,
		Logger:          logg,
		DBPinger:        dbClient,
		RedisClient:     redisClient,
		AuthService:     authService,
		RegisterService: registerService,
		SeedService:     seedService,
		BusinessService: businessService,
		ProductService:  productService,
		LeadService:     leadService,
		MetricsRegistry: registry,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "api server stopped unexpectedly", err)
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
