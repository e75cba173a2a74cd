package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"

	"github.com/domeohq/doors-backend/api"
	"github.com/domeohq/doors-backend/api/routes"
	"github.com/domeohq/doors-backend/internal/clients"
	"github.com/domeohq/doors-backend/internal/documents"
	"github.com/domeohq/doors-backend/internal/lifecycle"
	"github.com/domeohq/doors-backend/pkg/config"
	"github.com/domeohq/doors-backend/pkg/db"
	"github.com/domeohq/doors-backend/pkg/logger"
	"github.com/domeohq/doors-backend/pkg/metrics"
	"github.com/domeohq/doors-backend/pkg/migrate"
	"github.com/domeohq/doors-backend/pkg/outbox"
	"github.com/domeohq/doors-backend/pkg/redis"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	dbClient, err := db.New(context.Background(), cfg.DB, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(context.Background(), cfg, logg, dbClient); err != nil {
		logg.Error(context.Background(), "failed to run dev migrations", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	docMetrics := metrics.NewDocumentMetrics(registry)

	outboxService := outbox.NewService(outbox.NewRepository(dbClient.DB()), logg)

	tolerance := decimal.NewFromFloat(cfg.Dedup.MoneyTolerance)
	comparator := documents.NewComparator(tolerance, logg)
	resolver := documents.NewResolver(comparator, tolerance, cfg.Dedup.FuzzyLimit, logg)

	documentsRepo := documents.NewRepository(dbClient.DB())
	documentsCache := documents.NewCache(redisClient, cfg.Redis.DocumentTTL, logg)

	documentsService, err := documents.NewService(
		documentsRepo,
		dbClient,
		outboxService,
		resolver,
		clients.NewRepository(dbClient.DB()),
		documentsCache,
		docMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create documents service", err)
		os.Exit(1)
	}

	lifecycleService, err := lifecycle.NewService(
		lifecycle.NewRepository(dbClient.DB()),
		dbClient,
		outboxService,
		documentsCache,
		docMetrics,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create lifecycle service", err)
		os.Exit(1)
	}

	handler := routes.NewRouter(cfg, logg, dbClient, redisClient, registry, documentsService, lifecycleService)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	startCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(startCtx, "starting api server")

	server := api.NewServer(addr, handler, logg)
	if err := server.Run(ctx); err != nil {
		logg.Error(startCtx, "api server stopped unexpectedly", err)
		os.Exit(1)
	}
	logg.Info(context.Background(), "api server stopped")
}
