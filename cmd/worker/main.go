package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kaiwenho/fixnest/internal/app"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
	"github.com/kaiwenho/fixnest/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	logger.Info("starting fixnest worker")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		logger.Info("received shutdown signal", "signal", sig)
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}

	var container *app.Container
	if cfg.UseLocalMode() {
		container, err = app.NewLocalContainer(ctx, cfg, logger)
	} else {
		container, err = app.NewContainer(ctx, cfg, logger)
	}
	if err != nil {
		logger.Error("failed to initialize container", "error", err)
		os.Exit(1)
	}
	defer container.Close()

	container.StartOutboxProcessor(ctx)
	logger.Info("outbox processor started",
		"poll_interval", cfg.OutboxPollInterval,
		"batch_size", cfg.OutboxBatchSize,
		"max_retries", cfg.OutboxMaxRetries,
	)

	// Purge published outbox rows past the retention window.
	cleanupTicker := time.NewTicker(cfg.OutboxCleanupInterval)
	defer cleanupTicker.Stop()
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case <-cleanupTicker.C:
				deleted, err := container.OutboxRepo.DeleteOld(ctx, cfg.OutboxRetentionDays)
				if err != nil {
					logger.Error("outbox cleanup failed", "error", err)
					continue
				}
				if deleted > 0 {
					logger.Info("outbox cleanup completed", "deleted", deleted, "retention_days", cfg.OutboxRetentionDays)
				}
			}
		}
	}()

	// Renewal sweeps. Subscriptions and memberships due on or before the
	// sweep time are renewed or lapsed; failures stay due and are retried
	// on the next sweep.
	sweepTicker := time.NewTicker(cfg.RenewalSweepInterval)
	defer sweepTicker.Stop()
	go func() {
		runSweeps(ctx, container, cfg.RenewalBatchSize, logger)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sweepTicker.C:
				runSweeps(ctx, container, cfg.RenewalBatchSize, logger)
			}
		}
	}()

	if cfg.WorkerHealthAddr != "" {
		startHealthServer(ctx, container, cfg.WorkerHealthAddr, logger)
	}

	<-ctx.Done()
	logger.Info("shutting down worker")
}

func runSweeps(ctx context.Context, container *app.Container, batchSize int, logger *slog.Logger) {
	subs, err := container.RenewSubscriptionsHandler.Handle(ctx, commands.RenewSubscriptionsCommand{
		BatchSize: batchSize,
	})
	if err != nil {
		logger.Error("subscription renewal sweep failed", "error", err)
	} else if subs.Due > 0 {
		logger.Info("subscription renewal sweep",
			"due", subs.Due, "renewed", subs.Renewed, "lapsed", subs.Lapsed, "failed", subs.Failed)
	}

	memberships, err := container.RenewMembershipsHandler.Handle(ctx, commands.RenewMembershipsCommand{
		BatchSize: batchSize,
	})
	if err != nil {
		logger.Error("membership renewal sweep failed", "error", err)
	} else if memberships.Due > 0 {
		logger.Info("membership renewal sweep",
			"due", memberships.Due, "renewed", memberships.Renewed, "lapsed", memberships.Lapsed, "failed", memberships.Failed)
	}
}

func startHealthServer(ctx context.Context, container *app.Container, addr string, logger *slog.Logger) {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"running": container.OutboxProcessor.IsRunning(),
		})
	})

	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		checkCtx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := pingStorage(checkCtx, container); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"status": "not_ready",
				"error":  err.Error(),
			})
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ready"})
	})

	healthSrv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("health server starting", "addr", addr)
		if err := healthSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("health server error", "error", err)
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := healthSrv.Shutdown(shutdownCtx); err != nil {
			logger.Warn("health server shutdown error", "error", err)
		}
	}()
}

func pingStorage(ctx context.Context, container *app.Container) error {
	if container.DB != nil {
		return container.DB.Ping(ctx)
	}
	return container.SQLiteDB.PingContext(ctx)
}
