package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
)

// ReinstateSubscriptionCommand contains the data needed to undo a scheduled
// cancellation.
type ReinstateSubscriptionCommand struct {
	SubscriptionID uuid.UUID
}

// ReinstateSubscriptionHandler handles the ReinstateSubscriptionCommand.
type ReinstateSubscriptionHandler struct {
	repo       domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      domain.Clock
}

// NewReinstateSubscriptionHandler creates a new ReinstateSubscriptionHandler.
func NewReinstateSubscriptionHandler(
	repo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock domain.Clock,
) *ReinstateSubscriptionHandler {
	return &ReinstateSubscriptionHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the ReinstateSubscriptionCommand.
func (h *ReinstateSubscriptionHandler) Handle(ctx context.Context, cmd ReinstateSubscriptionCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		sub, err := h.repo.FindByID(txCtx, cmd.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrSubscriptionNotFound
		}

		if err := sub.Reinstate(h.clock.Now()); err != nil {
			return err
		}

		if err := h.repo.Save(txCtx, sub); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, sub.CustomerID(), sub)
	})
}
