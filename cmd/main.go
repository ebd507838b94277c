package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"

	httpadapter "repuestos-ads/internal/adapter/http"
	"repuestos-ads/internal/adapter/postgres"
	redisadapter "repuestos-ads/internal/adapter/redis"
	"repuestos-ads/internal/adapter/usecase"
	"repuestos-ads/internal/config"
	"repuestos-ads/internal/db"
	"repuestos-ads/internal/metrics"
	"repuestos-ads/internal/tracing"
)

// main loads configuration, optionally runs database migrations,
// initializes the postgres pool, redis client and tracing, wires the
// engine and starts the HTTP server. On SIGINT/SIGTERM it shuts the
// server down gracefully.
func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := cfg.Log.Build()

	loc, err := cfg.Engine.Location()
	if err != nil {
		logger.Error("invalid engine timezone", slog.Any("error", err))
		os.Exit(1)
	}

	if cfg.Psql.RunMigrations {
		if err = db.Migrate(cfg.Psql.Addr.String()); err != nil {
			logger.Error("migration error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("migrations applied successfully")
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	pool, err := db.NewPostgresPool(ctx, cfg.Psql)
	if err != nil {
		logger.Error("database connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.Psql.SeedDemo {
		if err = db.Seed(ctx, pool); err != nil {
			logger.Error("seed error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("demo advertisements seeded")
	}

	rdb, err := db.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Error("redis connection error", slog.Any("error", err))
		os.Exit(1)
	}
	defer rdb.Close()

	shutdownTracing, err := tracing.Init(tracing.Config{
		Enabled:     cfg.Tracing.Enabled,
		Endpoint:    cfg.Tracing.Endpoint,
		ServiceName: cfg.Tracing.ServiceName,
		Environment: cfg.Env,
	})
	if err != nil {
		logger.Error("tracing init error", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() { _ = shutdownTracing(context.Background()) }()

	registry := prometheus.NewRegistry()
	engineMetrics := metrics.New(registry)

	repo := postgres.NewAdRepository(pool)
	freq := redisadapter.NewFrequencyStore(rdb, loc)
	svc := usecase.NewAdUseCase(repo, freq, engineMetrics, loc, cfg.Engine.SnapshotTTL, logger)

	handler := httpadapter.NewHandler(svc, logger, registry)
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.HTTP.Port),
		Handler: handler.Router(),
	}

	go func() {
		logger.Info("server listening", slog.Int("port", int(cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.HTTP.ShutdownTimeout)
	defer shutdownCancel()
	if err = srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	} else {
		logger.Info("server gracefully stopped")
	}
}
