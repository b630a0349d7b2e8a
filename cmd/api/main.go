package main

import (
	"context"
	"crypto/tls"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/apptbook/scheduling-platform/internal/api/router"
	appconfig "github.com/apptbook/scheduling-platform/internal/config"
	"github.com/apptbook/scheduling-platform/internal/customers"
	"github.com/apptbook/scheduling-platform/internal/directory"
	httpmiddleware "github.com/apptbook/scheduling-platform/internal/http/middleware"
	"github.com/apptbook/scheduling-platform/internal/observability/metrics"
	"github.com/apptbook/scheduling-platform/internal/reports"
	"github.com/apptbook/scheduling-platform/internal/scheduling"
	"github.com/apptbook/scheduling-platform/internal/territory"
	"github.com/apptbook/scheduling-platform/internal/timeutil"
	"github.com/apptbook/scheduling-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scheduling-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	if cfg.DatabaseURL == "" {
		logger.Error("DATABASE_URL is required")
		os.Exit(1)
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create pgx pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("failed to ping database", "error", err)
		os.Exit(1)
	}

	// Reporting runs over database/sql so its aggregation queries stay on
	// the standard driver interface.
	reportsDB, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to open reports db", "error", err)
		os.Exit(1)
	}
	defer func() { _ = reportsDB.Close() }()

	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		opts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		redisClient = redis.NewClient(opts)
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Warn("redis unreachable, caching and rate limiting degraded", "error", err)
		}
	}

	m := metrics.NewSchedulingMetrics(nil)
	norm := timeutil.New()

	schedulingRepo := scheduling.NewRepository(pool)
	schedulingService := scheduling.NewService(schedulingRepo, norm, logger, m)
	schedulingHandler := scheduling.NewHandler(schedulingService, schedulingRepo, norm, logger, cfg.DefaultActor)

	customersRepo := customers.NewRepository(pool)
	deleter := customers.NewCascadeDeleter(schedulingRepo, customersRepo, logger, m)
	customersHandler := customers.NewHandler(customersRepo, deleter, logger, cfg.DefaultActor)

	territoryRepo := territory.NewRepository(pool)
	territoryCache := territory.NewCache(territoryRepo, redisClient, cfg.TerritoryCacheTTL, logger)
	territoryHandler := territory.NewHandler(territoryCache, logger)

	directoryHandler := directory.NewHandler(directory.NewRepository(pool), logger)
	reportsHandler := reports.NewHandler(reports.NewRepository(reportsDB), logger)

	var rateLimiter *httpmiddleware.RateLimiter
	if redisClient != nil {
		rateLimiter = httpmiddleware.NewRateLimiter(redisClient, cfg.RateLimitPerMinute, cfg.RateLimitWindow, logger)
	}

	routerCfg := &router.Config{
		Logger:             logger,
		SchedulingHandler:  schedulingHandler,
		CustomersHandler:   customersHandler,
		TerritoryHandler:   territoryHandler,
		DirectoryHandler:   directoryHandler,
		ReportsHandler:     reportsHandler,
		MetricsHandler:     promhttp.Handler(),
		RateLimiter:        rateLimiter,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	}
	r := router.New(routerCfg)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
