package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	"github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/adapter/cli/membership"
	"github.com/kaiwenho/fixnest/adapter/cli/subscription"
	"github.com/kaiwenho/fixnest/internal/app"
	"github.com/kaiwenho/fixnest/pkg/config"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		cancel()
	}()

	cfg, err := config.Load()
	if err != nil {
		logger.Warn("failed to load config, using development mode", "error", err)
		cfg = &config.Config{AppEnv: "development"}
	}

	if cfg.IsDevelopment() {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	}
	cli.SetLogger(logger)

	var cliApp *cli.App
	container, err := newContainer(ctx, cfg, logger)
	if err != nil {
		if cfg.IsDevelopment() {
			logger.Warn("failed to initialize container, running in limited mode", "error", err)
		} else {
			logger.Error("failed to initialize container", "error", err)
			os.Exit(1)
		}
	} else {
		defer container.Close()

		// Start outbox processor in background (optional in CLI)
		if cfg.OutboxProcessorEnabled {
			container.StartOutboxProcessor(ctx)
		} else {
			logger.Info("outbox processor disabled in CLI")
		}

		cliApp = &cli.App{
			CreateSubscriptionHandler:    container.CreateSubscriptionHandler,
			ChangePlanHandler:            container.ChangePlanHandler,
			CancelSubscriptionHandler:    container.CancelSubscriptionHandler,
			ReinstateSubscriptionHandler: container.ReinstateSubscriptionHandler,
			RenewSubscriptionsHandler:    container.RenewSubscriptionsHandler,
			GetSubscriptionHandler:       container.GetSubscriptionHandler,
			PreviewPlanChangeHandler:     container.PreviewPlanChangeHandler,
			CreateMembershipHandler:      container.CreateMembershipHandler,
			ChangeTierHandler:            container.ChangeTierHandler,
			CancelMembershipHandler:      container.CancelMembershipHandler,
			ReinstateMembershipHandler:   container.ReinstateMembershipHandler,
			RenewMembershipsHandler:      container.RenewMembershipsHandler,
			GetMembershipHandler:         container.GetMembershipHandler,
			PreviewTierChangeHandler:     container.PreviewTierChangeHandler,
			ResolveEntitlementsHandler:   container.ResolveEntitlementsHandler,
			CommissionQuoteHandler:       container.CommissionQuoteHandler,
			TierChangeHistoryHandler:     container.TierChangeHistoryHandler,
		}

		customerID, err := uuid.Parse(cfg.CustomerID)
		if err != nil {
			logger.Error("invalid FIXNEST_CUSTOMER_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentCustomerID(customerID)

		vendorID, err := uuid.Parse(cfg.VendorID)
		if err != nil {
			logger.Error("invalid FIXNEST_VENDOR_ID", "error", err)
			os.Exit(1)
		}
		cliApp.SetCurrentVendorID(vendorID)
	}

	cli.SetApp(cliApp)

	cli.AddCommand(subscription.Cmd)
	cli.AddCommand(membership.Cmd)

	cli.Execute()
}

// newContainer picks the storage backend: PostgreSQL when DATABASE_URL is
// set, otherwise the zero-config SQLite local mode.
func newContainer(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*app.Container, error) {
	if cfg.UseLocalMode() {
		return app.NewLocalContainer(ctx, cfg, logger)
	}
	return app.NewContainer(ctx, cfg, logger)
}
