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

// CreateSubscriptionCommand contains the data needed to start a subscription.
type CreateSubscriptionCommand struct {
	CustomerID   uuid.UUID
	PropertyType string
	BillingCycle string
}

// CreateSubscriptionResult reports the created subscription and the first
// charge.
type CreateSubscriptionResult struct {
	SubscriptionID uuid.UUID
	PropertyType   string
	PeriodPrice    string
}

// CreateSubscriptionHandler handles the CreateSubscriptionCommand.
type CreateSubscriptionHandler struct {
	repo       domain.SubscriptionRepository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	catalog    *catalog.Catalog
	payments   PaymentProcessor
	clock      domain.Clock
}

// NewCreateSubscriptionHandler creates a new CreateSubscriptionHandler.
func NewCreateSubscriptionHandler(
	repo domain.SubscriptionRepository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	cat *catalog.Catalog,
	payments PaymentProcessor,
	clock domain.Clock,
) *CreateSubscriptionHandler {
	return &CreateSubscriptionHandler{
		repo:       repo,
		outboxRepo: outboxRepo,
		uow:        uow,
		catalog:    cat,
		payments:   payments,
		clock:      clock,
	}
}

// Handle charges the first period and persists the new subscription. A
// customer with a live subscription cannot open a second one.
func (h *CreateSubscriptionHandler) Handle(ctx context.Context, cmd CreateSubscriptionCommand) (*CreateSubscriptionResult, error) {
	propertyType, err := catalog.ParsePropertyType(cmd.PropertyType)
	if err != nil {
		return nil, err
	}
	cycle, err := domain.ParseBillingCycle(cmd.BillingCycle)
	if err != nil {
		return nil, err
	}

	var result *CreateSubscriptionResult

	err = sharedApplication.WithUnitOfWork(ctx, h.uow, func(txCtx context.Context) error {
		existing, err := h.repo.FindByCustomerID(txCtx, cmd.CustomerID)
		if err != nil {
			return err
		}
		if existing != nil && !existing.IsCancelled() {
			return fmt.Errorf("customer %s already has subscription %s", cmd.CustomerID, existing.ID())
		}

		sub, err := domain.NewSubscription(cmd.CustomerID, h.catalog, propertyType, cycle, h.clock.Now())
		if err != nil {
			return err
		}

		price, err := sub.PeriodPrice(h.catalog)
		if err != nil {
			return err
		}
		if price.IsPositive() {
			if err := h.payments.Charge(txCtx, cmd.CustomerID, price,
				fmt.Sprintf("%s plan, first %s period", propertyType, cycle)); err != nil {
				return err
			}
		}

		if err := h.repo.Save(txCtx, sub); err != nil {
			return err
		}
		if err := stageEvents(txCtx, h.outboxRepo, cmd.CustomerID, sub); err != nil {
			return err
		}

		result = &CreateSubscriptionResult{
			SubscriptionID: sub.ID(),
			PropertyType:   propertyType.String(),
			PeriodPrice:    price.String(),
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}
