// Package main is the entry point for the fraud scoring API.
// It initializes all dependencies, sets up the HTTP server,
// and starts the application.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"fraudgen/internal/config"
	"fraudgen/internal/handlers"
	"fraudgen/internal/logger"
	"fraudgen/internal/metrics"
	"fraudgen/internal/repositories"
	"fraudgen/internal/repositories/cache"
	"fraudgen/internal/routes"
	"fraudgen/internal/services/dashboard"
	"fraudgen/internal/services/geolocation"
	"fraudgen/internal/services/notification"
	"fraudgen/internal/services/scoring"
	"fraudgen/internal/services/transaction"
)

const shutdownTimeout = 10 * time.Second

func main() {
	config.LoadEnv()
	cfg := config.Load()

	flush, err := logger.Init(cfg.IsProduction(), cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer flush()

	if err := run(cfg); err != nil {
		zap.L().Fatal("server stopped", zap.Error(err))
	}
}

func run(cfg config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := zap.L()

	// Migrations run before the pool is opened.
	dbURL := cfg.Database.ConnectionURL()
	if err := repositories.RunMigrations(dbURL); err != nil {
		return err
	}

	db, err := repositories.NewDB(dbURL, repositories.PoolFromConfig(cfg.Database), log)
	if err != nil {
		return err
	}
	defer func() {
		if err := repositories.CloseDB(db); err != nil {
			log.Warn("failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("connected to database with connection pooling")
	go logPoolStats(ctx, db)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	collector := metrics.NewPrometheusCollector(registry)

	resolver, closeResolver := geolocation.NewResolver(cfg.GeoIP, log)
	defer func() {
		if err := closeResolver(); err != nil {
			log.Warn("failed to close geolocation databases", zap.Error(err))
		}
	}()

	var cacheService *cache.CacheService
	if cfg.Redis.Enabled() {
		client, err := cache.NewRedisClient(ctx, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, geolocation results will not be cached", zap.Error(err))
		} else {
			cacheService = cache.NewCacheService(client, cfg.Redis.GeoTTL)
			defer func() {
				if err := cacheService.Close(); err != nil {
					log.Warn("failed to close redis connection", zap.Error(err))
				}
			}()
			resolver = geolocation.NewCachedResolver(resolver, cacheService, collector)
			log.Info("geolocation cache enabled", zap.String("addr", cfg.Redis.Addr()))
		}
	}

	var notifier notification.Service = notification.NewNoopService()
	if cfg.Kafka.Enabled() {
		notifier = notification.NewKafkaService(cfg.Kafka)
		log.Info("fraud alerts enabled",
			zap.Strings("brokers", cfg.Kafka.Brokers),
			zap.String("topic", cfg.Kafka.AlertTopic),
		)
	}
	defer func() {
		if err := notifier.Close(); err != nil {
			log.Warn("failed to close alert publisher", zap.Error(err))
		}
	}()

	proxies, err := geolocation.ParseTrustedProxies(cfg.Server.TrustedProxies)
	if err != nil {
		return err
	}

	transactionRepo := repositories.NewTransactionRepository(db)
	transactionService := transaction.NewService(
		transactionRepo,
		resolver,
		scoring.NewScorer(),
		notifier,
		collector,
		transaction.TransactionConfig{
			GeoTimeout: cfg.GeoIP.LookupTimeout,
			Proxies:    proxies,
		},
	)
	dashboardService := dashboard.NewService(transactionRepo)

	var cachePinger handlers.Pinger
	if cacheService != nil {
		cachePinger = cacheService
	}

	app := fiber.New(fiber.Config{
		AppName:               "fraudgen",
		DisableStartupMessage: cfg.IsProduction(),
	})

	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET,POST,DELETE,OPTIONS",
	}))
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format: "[${time}] ${locals:requestid} ${status} - ${latency} ${method} ${path}\n",
	}))

	routes.SetupRoutes(app, routes.Dependencies{
		Health:         handlers.NewHealthHandler(handlers.PingFunc(func(ctx context.Context) error { return pingDB(ctx, db) }), cachePinger),
		Prediction:     handlers.NewPredictionHandler(transactionService),
		Transactions:   handlers.NewTransactionHandler(transactionService),
		Dashboard:      handlers.NewDashboardHandler(dashboardService),
		Metrics:        adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})),
		AdminJWTSecret: cfg.Auth.AdminJWTSecret,
		PredictPerMin:  cfg.Server.PredictPerMin,
	})
	if cfg.Auth.AdminJWTSecret == "" {
		log.Warn("ADMIN_JWT_SECRET not set, transaction deletion is unauthenticated")
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("starting server", zap.String("port", cfg.Server.Port))
		errCh <- app.Listen(":" + cfg.Server.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		log.Info("shutting down server")
		return app.ShutdownWithTimeout(shutdownTimeout)
	}
}

func pingDB(ctx context.Context, db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func logPoolStats(ctx context.Context, db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			stats := sqlDB.Stats()
			zap.L().Debug("db pool stats",
				zap.Int("open", stats.OpenConnections),
				zap.Int("idle", stats.Idle),
				zap.Int("in_use", stats.InUse),
				zap.Int64("wait_count", stats.WaitCount),
				zap.Duration("wait_duration", stats.WaitDuration),
			)
		}
	}
}
