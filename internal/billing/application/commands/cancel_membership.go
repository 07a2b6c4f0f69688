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

// CancelMembershipCommand contains the data needed to cancel a membership.
type CancelMembershipCommand struct {
	MembershipID uuid.UUID
	Mode         string
}

// CancelMembershipResult reports when the tier lapses and what was refunded.
type CancelMembershipResult struct {
	Mode          string
	EffectiveDate time.Time
	RefundAmount  string
}

// CancelMembershipHandler handles the CancelMembershipCommand.
type CancelMembershipHandler struct {
	repo        domain.MembershipRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	catalog     *catalog.Catalog
	payments    PaymentProcessor
	invalidator EntitlementInvalidator
	clock       domain.Clock
}

// NewCancelMembershipHandler creates a new CancelMembershipHandler.
func NewCancelMembershipHandler(
	repo domain.MembershipRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	invalidator EntitlementInvalidator,
	clock domain.Clock,
) *CancelMembershipHandler {
	return &CancelMembershipHandler{
		repo:        repo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		catalog:     cat,
		payments:    payments,
		invalidator: invalidator,
		clock:       clock,
	}
}

// Handle cancels the membership, refunding unused time on immediate
// cancellation.
func (h *CancelMembershipHandler) Handle(ctx context.Context, cmd CancelMembershipCommand) (*CancelMembershipResult, error) {
	mode, err := domain.ParseCancellationMode(cmd.Mode)
	if err != nil {
		return nil, err
	}

	var (
		result   *CancelMembershipResult
		vendorID uuid.UUID
	)

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		m, err := h.repo.FindByID(txCtx, cmd.MembershipID)
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrMembershipNotFound
		}
		vendorID = m.VendorID()

		outcome, err := m.Cancel(h.catalog, mode, h.clock.Now())
		if err != nil {
			return err
		}

		refund := ""
		if outcome.RefundAmount != nil && outcome.RefundAmount.IsPositive() {
			if err := h.payments.Refund(txCtx, vendorID, *outcome.RefundAmount,
				fmt.Sprintf("cancellation of membership %s", m.ID())); err != nil {
				return err
			}
			refund = outcome.RefundAmount.String()
		}

		if err := h.repo.Save(txCtx, m); err != nil {
			return err
		}
		if err := stageEvents(txCtx, h.outboxRepo, vendorID, m); err != nil {
			return err
		}

		result = &CancelMembershipResult{
			Mode:          string(outcome.Mode),
			EffectiveDate: outcome.EffectiveDate,
			RefundAmount:  refund,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.invalidator != nil {
		_ = h.invalidator.Invalidate(ctx, vendorID)
	}

	return result, nil
}
