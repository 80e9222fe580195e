package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/JonMunkholm/tabular/internal/config"
	"github.com/JonMunkholm/tabular/internal/core"
	"github.com/JonMunkholm/tabular/internal/logging"
	"github.com/JonMunkholm/tabular/internal/table"
	"github.com/JonMunkholm/tabular/internal/web"
	"github.com/joho/godotenv"
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
	slog.Info("configuration loaded", "config", cfg.String())

	// Validate has already accepted the format.
	format, _ := table.ParseFormat(cfg.Table.DefaultFormat)

	// Validate has already accepted every entry.
	denied, _ := core.ParseNetworks(cfg.Fetch.DeniedNetworks)
	if cfg.Fetch.DenyPrivate {
		denied = append(denied, core.PrivateNetworks...)
	}
	fetcher := core.NewHTTPFetcher(cfg.Fetch.Timeout, cfg.Fetch.MaxBodyBytes, cfg.Fetch.UserAgent).DenyNetworks(denied)

	service := core.NewService(core.Options{
		Store:         core.NewStore(cfg.Store.MaxTables),
		Fetcher:       fetcher,
		Limiter:       core.NewFetchLimiter(cfg.Fetch.MaxConcurrent, cfg.Fetch.MaxWaitTime),
		Audit:         core.NewAuditLog(cfg.Audit.MaxEntries),
		DefaultFormat: format,
		Limits: table.Limits{
			MaxRows:    cfg.Table.MaxRows,
			MaxColumns: cfg.Table.MaxColumns,
		},
	})

	pruneCtx, stopPruner := context.WithCancel(context.Background())
	defer stopPruner()
	go service.StartAuditPruner(pruneCtx, core.PruneConfig{
		Retention: cfg.Audit.Retention,
		Interval:  cfg.Audit.PruneInterval,
	})

	server := web.NewServer(service, cfg)

	// Graceful shutdown
	done := make(chan struct{})
	go func() {
		defer close(done)

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")
		stopPruner()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if status := service.Limiter().Status(); status.Active > 0 {
			slog.Info("waiting for fetches to complete", "active", status.Active)
		}
		if err := service.Shutdown(shutdownCtx); err != nil {
			slog.Warn("fetches did not complete in time", "error", err)
		}

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil {
		slog.Error("server stopped", "error", err)
		os.Exit(1)
	}
	<-done
	slog.Info("server stopped")
}
