package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
)

// CancelSubscriptionCommand contains the data needed to cancel a
// subscription.
type CancelSubscriptionCommand struct {
	SubscriptionID uuid.UUID
	Mode           string
}

// CancelSubscriptionResult reports when cover ends and what was refunded.
type CancelSubscriptionResult struct {
	Mode          string
	EffectiveDate time.Time
	RefundAmount  string
}

// CancelSubscriptionHandler handles the CancelSubscriptionCommand.
type CancelSubscriptionHandler struct {
	repo       domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	catalog    *catalog.Catalog
	payments   PaymentProcessor
	clock      domain.Clock
}

// NewCancelSubscriptionHandler creates a new CancelSubscriptionHandler.
func NewCancelSubscriptionHandler(
	repo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	clock domain.Clock,
) *CancelSubscriptionHandler {
	return &CancelSubscriptionHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		catalog:    cat,
		payments:   payments,
		clock:      clock,
	}
}

// Handle cancels the subscription, refunding unused time on immediate
// cancellation before the state change commits.
func (h *CancelSubscriptionHandler) Handle(ctx context.Context, cmd CancelSubscriptionCommand) (*CancelSubscriptionResult, error) {
	mode, err := domain.ParseCancellationMode(cmd.Mode)
	if err != nil {
		return nil, err
	}

	var result *CancelSubscriptionResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		sub, err := h.repo.FindByID(txCtx, cmd.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrSubscriptionNotFound
		}

		outcome, err := sub.Cancel(h.catalog, mode, h.clock.Now())
		if err != nil {
			return err
		}

		refund := ""
		if outcome.RefundAmount != nil && outcome.RefundAmount.IsPositive() {
			if err := h.payments.Refund(txCtx, sub.CustomerID(), *outcome.RefundAmount,
				fmt.Sprintf("cancellation of subscription %s", sub.ID())); err != nil {
				return err
			}
			refund = outcome.RefundAmount.String()
		}

		if err := h.repo.Save(txCtx, sub); err != nil {
			return err
		}
		if err := stageEvents(txCtx, h.outboxRepo, sub.CustomerID(), sub); err != nil {
			return err
		}

		result = &CancelSubscriptionResult{
			Mode:          string(outcome.Mode),
			EffectiveDate: outcome.EffectiveDate,
			RefundAmount:  refund,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
