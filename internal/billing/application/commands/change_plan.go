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

// ChangePlanCommand contains the data needed to move a subscription to
// another plan.
type ChangePlanCommand struct {
	SubscriptionID uuid.UUID
	TargetPlan     string
	Effective      string
}

// ChangePlanResult reports the settled proration.
type ChangePlanResult struct {
	FromPlan       string
	ToPlan         string
	ProratedAmount string
	RemainingDays  int
	DaysInPeriod   int
}

// ChangePlanHandler handles the ChangePlanCommand.
type ChangePlanHandler struct {
	repo       domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	catalog    *catalog.Catalog
	payments   PaymentProcessor
	clock      domain.Clock
}

// NewChangePlanHandler creates a new ChangePlanHandler.
func NewChangePlanHandler(
	repo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	clock domain.Clock,
) *ChangePlanHandler {
	return &ChangePlanHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		catalog:    cat,
		payments:   payments,
		clock:      clock,
	}
}

// Handle applies the plan change and settles its proration in one
// transaction: a positive amount is charged, a negative one refunded.
func (h *ChangePlanHandler) Handle(ctx context.Context, cmd ChangePlanCommand) (*ChangePlanResult, error) {
	target, err := catalog.ParsePropertyType(cmd.TargetPlan)
	if err != nil {
		return nil, err
	}
	effective, err := domain.ParseEffectiveness(cmd.Effective)
	if err != nil {
		return nil, err
	}

	var result *ChangePlanResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		sub, err := h.repo.FindByID(txCtx, cmd.SubscriptionID)
		if err != nil {
			return err
		}
		if sub == nil {
			return domain.ErrSubscriptionNotFound
		}

		from := sub.PropertyType()
		proration, err := sub.ChangePlan(h.catalog, target, effective, h.clock.Now())
		if err != nil {
			return err
		}

		if err := h.settle(txCtx, sub.CustomerID(), proration, from, target); err != nil {
			return err
		}

		if err := h.repo.Save(txCtx, sub); err != nil {
			return err
		}
		if err := stageEvents(txCtx, h.outboxRepo, sub.CustomerID(), sub); err != nil {
			return err
		}

		result = &ChangePlanResult{
			FromPlan:       from.String(),
			ToPlan:         target.String(),
			ProratedAmount: proration.Amount.String(),
			RemainingDays:  proration.RemainingDays,
			DaysInPeriod:   proration.DaysInPeriod,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

func (h *ChangePlanHandler) settle(ctx context.Context, customerID uuid.UUID, proration domain.ProrationResult, from, to catalog.PropertyType) error {
	description := fmt.Sprintf("plan change %s to %s", from, to)
	switch {
	case proration.Amount.IsPositive():
		return h.payments.Charge(ctx, customerID, proration.Amount, description)
	case proration.Amount.IsNegative():
		return h.payments.Refund(ctx, customerID, proration.Amount.Neg(), description)
	}
	return nil
}
