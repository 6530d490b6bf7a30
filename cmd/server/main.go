package main

import (
	"context"
	"embed"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/openpioneer/marketplace-notify/internal/api"
	"github.com/openpioneer/marketplace-notify/internal/config"
	"github.com/openpioneer/marketplace-notify/internal/events"
	"github.com/openpioneer/marketplace-notify/internal/listing"
	"github.com/openpioneer/marketplace-notify/internal/store"
	"github.com/openpioneer/marketplace-notify/internal/worker"
	ws "github.com/openpioneer/marketplace-notify/internal/websocket"
)

//go:embed migrations
var migrationsFS embed.FS

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pgStore, err := store.NewPostgres(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pgStore.Close()
	logger.Info("connected to PostgreSQL")

	migrations, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		logger.Error("failed to open migrations", "error", err)
		os.Exit(1)
	}
	if err := pgStore.RunMigrations(ctx, migrations); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}
	logger.Info("database migrations applied")

	redisStore, err := store.NewRedis(ctx, cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisStore.Close()
	logger.Info("connected to Redis")

	// Live notification feed
	hub := ws.NewHub(logger)
	go hub.Run()

	// Handler registry: built once here, before any dispatch happens.
	registry := events.NewRegistry(logger)
	registry.Register(events.NewSanctionHandler(pgStore, hub, logger))
	registry.Register(events.NewOrderHandler(pgStore, hub, logger))
	registry.Register(events.NewTrustProtectHandler(pgStore, hub, logger))

	// Publishers: immediate (in-process) and deferred (Redis queue).
	immediate := events.NewImmediatePublisher(registry, logger)
	immediate.Start(ctx)
	defer immediate.Stop()

	deferred := events.NewDeferredPublisher(redisStore.Client(), logger)

	// Background worker draining the deferred queue.
	runner := worker.NewRunner(registry, pgStore, cfg.HandlerTimeout, logger)
	pool := worker.NewPool(cfg.DispatchWorkers, runner, logger)
	pool.Start(ctx)
	defer pool.Stop()

	dispatcher := worker.NewDispatcher(redisStore.Client(), pool, cfg.DispatchPollInterval, logger)
	go dispatcher.Start(ctx)

	limiter := store.NewRateLimiter(redisStore.Client(), logger)
	calc := listing.NewExpiryCalculator(logger)

	router := api.NewRouter(api.RouterDeps{
		Store:           pgStore,
		Limiter:         limiter,
		NotifyRateLimit: cfg.NotifyRateLimit,
		Calc:            calc,
		Immediate:       immediate,
		Deferred:        deferred,
		Hub:             hub,
		Logger:          logger,
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
