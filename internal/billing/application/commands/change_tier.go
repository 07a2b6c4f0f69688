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

// ChangeTierCommand contains the data needed to move a vendor to another
// tier.
type ChangeTierCommand struct {
	MembershipID uuid.UUID
	TargetTier   string
	Effective    string
	Reason       string
	InitiatedBy  string
}

// ChangeTierResult reports the settled proration and the audit record.
type ChangeTierResult struct {
	FromTier       string
	ToTier         string
	ProratedAmount string
	RemainingDays  int
	DaysInPeriod   int
	ChangeRecordID uuid.UUID
}

// ChangeTierHandler handles the ChangeTierCommand.
type ChangeTierHandler struct {
	repo        domain.MembershipRepository
	records     domain.ChangeRecordRepository
	outboxRepo  outbox.Repository
	uow         sharedApplication.UnitOfWork
	catalog     *catalog.Catalog
	payments    PaymentProcessor
	invalidator EntitlementInvalidator
	clock       domain.Clock
}

// NewChangeTierHandler creates a new ChangeTierHandler.
func NewChangeTierHandler(
	repo domain.MembershipRepository,
	records domain.ChangeRecordRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	invalidator EntitlementInvalidator,
	clock domain.Clock,
) *ChangeTierHandler {
	return &ChangeTierHandler{
		repo:        repo,
		records:     records,
		outboxRepo:  outboxRepo,
		uow:         uow,
		catalog:     cat,
		payments:    payments,
		invalidator: invalidator,
		clock:       clock,
	}
}

// Handle applies the tier change, settles its proration, and writes the
// audit record, all in one transaction. Cached entitlements are invalidated
// after commit.
func (h *ChangeTierHandler) Handle(ctx context.Context, cmd ChangeTierCommand) (*ChangeTierResult, error) {
	target, err := catalog.ParseTierLevel(cmd.TargetTier)
	if err != nil {
		return nil, err
	}
	effective, err := domain.ParseEffectiveness(cmd.Effective)
	if err != nil {
		return nil, err
	}

	var (
		result   *ChangeTierResult
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

		from := m.Tier()
		proration, record, err := m.ChangeTier(h.catalog, target, effective, cmd.Reason, cmd.InitiatedBy, h.clock.Now())
		if err != nil {
			return err
		}

		if err := h.settle(txCtx, vendorID, proration, from, target); err != nil {
			return err
		}

		if err := h.repo.Save(txCtx, m); err != nil {
			return err
		}
		if err := h.records.Save(txCtx, record); err != nil {
			return err
		}
		if err := stageEvents(txCtx, h.outboxRepo, vendorID, m); err != nil {
			return err
		}

		result = &ChangeTierResult{
			FromTier:       from.String(),
			ToTier:         target.String(),
			ProratedAmount: proration.Amount.String(),
			RemainingDays:  proration.RemainingDays,
			DaysInPeriod:   proration.DaysInPeriod,
			ChangeRecordID: record.ID,
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

func (h *ChangeTierHandler) settle(ctx context.Context, vendorID uuid.UUID, proration domain.ProrationResult, from, to catalog.TierLevel) error {
	description := fmt.Sprintf("tier change %s to %s", from, to)
	switch {
	case proration.Amount.IsPositive():
		return h.payments.Charge(ctx, vendorID, proration.Amount, description)
	case proration.Amount.IsNegative():
		return h.payments.Refund(ctx, vendorID, proration.Amount.Neg(), description)
	}
	return nil
}
