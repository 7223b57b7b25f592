package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/JonMunkholm/facetview/internal/config"
	"github.com/JonMunkholm/facetview/internal/core"
	"github.com/JonMunkholm/facetview/internal/logging"
	"github.com/JonMunkholm/facetview/internal/source"
	"github.com/JonMunkholm/facetview/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"datasets", len(cfg.Datasets.Definitions),
		"default_dataset", cfg.Datasets.DefaultID(),
		"load_max_concurrent", cfg.Load.MaxConcurrent,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)
	slog.Debug("effective configuration", "config", cfg.String())

	defs, err := source.ParseDefinitions(cfg.Datasets.Definitions)
	if err != nil {
		slog.Error("invalid dataset definitions", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Only pg datasets need a pool.
	var pool *pgxpool.Pool
	if source.NeedsDatabase(defs) {
		pool, err = connectDatabase(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer pool.Close()
	}

	registry := source.NewRegistry()
	for _, def := range defs {
		var db source.Querier
		if pool != nil {
			db = pool
		}
		src, err := def.Build(db)
		if err != nil {
			slog.Error("failed to build dataset", "dataset", def.ID, "error", err)
			os.Exit(1)
		}
		if err := registry.Register(src); err != nil {
			slog.Error("failed to register dataset", "dataset", def.ID, "error", err)
			os.Exit(1)
		}
		slog.Debug("dataset registered", "dataset", src.ID(), "kind", src.Kind(), "label", src.Label())
	}
	slog.Info("datasets registered", "count", registry.Len())

	loader := source.NewLoader(registry, source.LoaderConfig{
		MaxConcurrent: cfg.Load.MaxConcurrent,
		MaxWait:       cfg.Load.MaxWaitTime,
		Timeout:       cfg.Load.Timeout,
		Cache:         cfg.Load.Cache,
	})
	if cfg.Load.Preload {
		loaded := loader.Preload(ctx)
		slog.Info("datasets preloaded", "loaded", loaded, "total", registry.Len())
	}

	store := core.NewSessionStore(cfg.Session.TTL)
	server := web.NewServer(cfg, store, loader)

	// Create cancellable context for background jobs
	jobCtx, cancelJobs := context.WithCancel(context.Background())
	go store.StartSweeper(jobCtx, core.SweepConfig{Interval: cfg.Session.SweepInterval})

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		cancelJobs()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}

		// Wait for in-flight dataset loads (with timeout)
		if status := loader.Limiter().Status(); status.Active > 0 {
			slog.Info("waiting for dataset loads to complete", "active", status.Active)
			if err := loader.Drain(shutdownCtx); err != nil {
				slog.Warn("dataset loads did not complete in time", "error", err)
			}
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}

// connectDatabase opens and verifies the pool used by pg datasets.
func connectDatabase(ctx context.Context, cfg config.DatabaseConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.MaxConns)
	poolConfig.MinConns = int32(cfg.MinConns)
	poolConfig.MaxConnLifetime = cfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = cfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	if u, err := url.Parse(cfg.URL); err == nil {
		slog.Info("connected to database", "name", strings.TrimPrefix(u.Path, "/"))
	} else {
		slog.Info("connected to database")
	}
	return pool, nil
}
