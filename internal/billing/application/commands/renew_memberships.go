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

// RenewMembershipsCommand sweeps memberships whose billing date has arrived.
type RenewMembershipsCommand struct {
	BatchSize int
}

// RenewMembershipsResult reports the sweep outcome.
type RenewMembershipsResult struct {
	Due     int
	Renewed int
	Lapsed  int
	Failed  int
}

// RenewMembershipsHandler handles the RenewMembershipsCommand.
type RenewMembershipsHandler struct {
	repo        domain.MembershipRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	catalog     *catalog.Catalog
	payments    PaymentProcessor
	invalidator EntitlementInvalidator
	clock       domain.Clock
	logger      *slog.Logger
}

// NewRenewMembershipsHandler creates a new RenewMembershipsHandler.
func NewRenewMembershipsHandler(
	repo domain.MembershipRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	invalidator EntitlementInvalidator,
	clock domain.Clock,
	logger *slog.Logger,
) *RenewMembershipsHandler {
	return &RenewMembershipsHandler{
		repo:        repo,
		outboxRepo:  outboxRepo,
		uow:         uow,
		catalog:     cat,
		payments:    payments,
		invalidator: invalidator,
		clock:       clock,
		logger:      logger,
	}
}

// Handle renews each due membership in its own transaction. Deferred tier
// changes take effect here, so the invalidator runs after every successful
// renewal.
func (h *RenewMembershipsHandler) Handle(ctx context.Context, cmd RenewMembershipsCommand) (*RenewMembershipsResult, error) {
	if cmd.BatchSize <= 0 {
		cmd.BatchSize = 100
	}

	now := h.clock.Now()
	due, err := h.repo.FindDueForRenewal(ctx, now, cmd.BatchSize)
	if err != nil {
		return nil, err
	}

	result := &RenewMembershipsResult{Due: len(due)}

	for _, m := range due {
		lapsed, err := h.renewOne(ctx, m)
		if err != nil {
			result.Failed++
			h.logger.Error("membership renewal failed",
				"membership_id", m.ID(),
				"vendor_id", m.VendorID(),
				"error", err)
			continue
		}
		if lapsed {
			result.Lapsed++
		} else {
			result.Renewed++
		}
		if h.invalidator != nil {
			_ = h.invalidator.Invalidate(ctx, m.VendorID())
		}
	}

	return result, nil
}

func (h *RenewMembershipsHandler) renewOne(ctx context.Context, stale *domain.VendorMembership) (lapsed bool, err error) {
	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		m, err := h.repo.FindByID(txCtx, stale.ID())
		if err != nil {
			return err
		}
		if m == nil {
			return domain.ErrMembershipNotFound
		}

		if m.AutoRenew() {
			price, err := m.RenewalPrice(h.catalog)
			if err != nil {
				return err
			}
			if price.IsPositive() {
				if err := h.payments.Charge(txCtx, m.VendorID(), price,
					fmt.Sprintf("%s tier renewal", m.Tier())); err != nil {
					return err
				}
			}
		}

		if err := m.AdvanceCycle(h.clock.Now()); err != nil {
			return err
		}
		lapsed = m.IsCancelled()

		if err := h.repo.Save(txCtx, m); err != nil {
			return err
		}
		return stageEvents(txCtx, h.outboxRepo, m.VendorID(), m)
	})
	return lapsed, err
}
