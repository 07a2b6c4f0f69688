package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
)

// RenewSubscriptionsCommand sweeps subscriptions whose billing date has
// arrived.
type RenewSubscriptionsCommand struct {
	BatchSize int
}

// RenewSubscriptionsResult reports the sweep outcome.
type RenewSubscriptionsResult struct {
	Due     int
	Renewed int
	Lapsed  int
	Failed  int
}

// RenewSubscriptionsHandler handles the RenewSubscriptionsCommand.
type RenewSubscriptionsHandler struct {
	repo       domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	catalog    *catalog.Catalog
	payments   PaymentProcessor
	clock      domain.Clock
	logger     *slog.Logger
}

// NewRenewSubscriptionsHandler creates a new RenewSubscriptionsHandler.
func NewRenewSubscriptionsHandler(
	repo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	clock domain.Clock,
	logger *slog.Logger,
) *RenewSubscriptionsHandler {
	return &RenewSubscriptionsHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		catalog:    cat,
		payments:   payments,
		clock:      clock,
		logger:     logger,
	}
}

// Handle renews each due subscription in its own transaction so one failed
// charge never blocks the rest of the batch.
func (h *RenewSubscriptionsHandler) Handle(ctx context.Context, cmd RenewSubscriptionsCommand) (*RenewSubscriptionsResult, error) {
	if cmd.BatchSize <= 0 {
		cmd.BatchSize = 100
	}

	now := h.clock.Now()
	due, err := h.repo.FindDueForRenewal(ctx, now, cmd.BatchSize)
	if err != nil {
		return nil, err
	}

	result := &RenewSubscriptionsResult{Due: len(due)}

	for _, sub := range due {
		lapsed, err := h.renewOne(ctx, sub)
		if err != nil {
			result.Failed++
			h.logger.Error("subscription renewal failed",
				"subscription_id", sub.ID(),
				"customer_id", sub.CustomerID(),
				"error", err)
			continue
		}
		if lapsed {
			result.Lapsed++
		} else {
			result.Renewed++
		}
	}

	return result, nil
}

func (h *RenewSubscriptionsHandler) renewOne(ctx context.Context, stale *domain.Subscription) (lapsed bool, err error) {
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		sub, err := h.repo.FindByID(txCtx, stale.ID())
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrSubscriptionNotFound
		}

		if sub.AutoRenew() {
			price, err := sub.RenewalPrice(h.catalog)
			if err != nil {
				return err
			}
			if price.IsPositive() {
				if err := h.payments.Charge(txCtx, sub.CustomerID(), price,
					fmt.Sprintf("%s plan renewal", sub.PropertyType())); err != nil {
					return err
				}
			}
		}

		if err := sub.AdvanceCycle(h.clock.Now()); err != nil {
			return err
		}
		lapsed = sub.IsCancelled()

		if err := h.repo.Save(txCtx, sub); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, sub.CustomerID(), sub)
	})
	return lapsed, err
}
