package commands

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
)

// ReinstateMembershipCommand contains the data needed to undo a scheduled
// cancellation.
type ReinstateMembershipCommand struct {
	MembershipID uuid.UUID
}

// ReinstateMembershipHandler handles the ReinstateMembershipCommand.
type ReinstateMembershipHandler struct {
	repo       domain.MembershipRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	clock      domain.Clock
}

// NewReinstateMembershipHandler creates a new ReinstateMembershipHandler.
func NewReinstateMembershipHandler(
	repo domain.MembershipRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	clock domain.Clock,
) *ReinstateMembershipHandler {
	return &ReinstateMembershipHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		clock:      clock,
	}
}

// Handle executes the ReinstateMembershipCommand.
func (h *ReinstateMembershipHandler) Handle(ctx context.Context, cmd ReinstateMembershipCommand) error {
	return sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		m, err := h.repo.FindByID(txCtx, cmd.MembershipID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrMembershipNotFound
		}

		if err := m.Reinstate(h.clock.Now()); err != nil {
			return err
		}

		if err := h.repo.Save(txCtx, m); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, m.VendorID(), m)
	})
}
