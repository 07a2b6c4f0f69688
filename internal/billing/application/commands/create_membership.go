package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	sharedApplication "github.com/kaiwenho/fixnest/internal/shared/application"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
)

// CreateMembershipCommand contains the data needed to enrol a vendor on a
// tier.
type CreateMembershipCommand struct {
	VendorID     uuid.UUID
	Tier         string
	BillingCycle string
}

// CreateMembershipResult reports the created membership and the first charge.
type CreateMembershipResult struct {
	MembershipID uuid.UUID
	Tier         string
	PeriodPrice  string
}

// CreateMembershipHandler handles the CreateMembershipCommand.
type CreateMembershipHandler struct {
	repo       domain.MembershipRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	catalog    *catalog.Catalog
	payments   PaymentProcessor
	clock      domain.Clock
}

// NewCreateMembershipHandler creates a new CreateMembershipHandler.
func NewCreateMembershipHandler(
	repo domain.MembershipRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	clock domain.Clock,
) *CreateMembershipHandler {
	return &CreateMembershipHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		catalog:    cat,
		payments:   payments,
		clock:      clock,
	}
}

// Handle charges the first period and persists the new membership. The free
// basic tier skips the gateway entirely.
func (h *CreateMembershipHandler) Handle(ctx context.Context, cmd CreateMembershipCommand) (*CreateMembershipResult, error) {
	level, err := catalog.ParseTierLevel(cmd.Tier)
	if err != nil {
		return nil, err
	}
	cycle, err := domain.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		return nil, err
	}

	var result *CreateMembershipResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.repo.FindByVendorID(txCtx, cmd.VendorID)
		if err != nil {
			return err
		}
		if existing != nil && !existing.IsCancelled() {
			return fmt.Errorf("vendor %s already has membership %s", cmd.VendorID, existing.ID())
		}

		m, err := domain.NewVendorMembership(cmd.VendorID, h.catalog, level, cycle, h.clock.Now())
		if err != nil {
			return err
		}

		price, err := m.PeriodPrice(h.catalog)
		if err != nil {
			return err
		}
		if price.IsPositive() {
			if err := h.payments.Charge(txCtx, cmd.VendorID, price,
				fmt.Sprintf("%s tier, first %s period", level, cycle)); err != nil {
				return err
			}
		}

		if err := h.repo.Save(txCtx, m); err != nil {
			return err
		}
		if err := stageEvents(txCtx, h.outboxRepo, cmd.VendorID, m); err != nil {
			return err
		}

		result = &CreateMembershipResult{
			MembershipID: m.ID(),
			Tier:         level.String(),
			PeriodPrice:  price.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
