package commands

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func createTestSubscription(t *testing.T, customerID uuid.UUID, propertyType catalog.PropertyType) *domain.Subscription {
	t.Helper()
	sub, err := domain.NewSubscription(customerID, catalog.DefaultCatalog(), propertyType, domain.CycleMonthly, day(2026, 6, 1))
	require.NoError(t, err)
	sub.ClearDomainEvents()
	return sub
}

func TestChangePlanHandler_Handle(t *testing.T) {
	customerID := uuid.New()
	clock := domain.FixedClock{FixedTime: day(2026, 6, 16)}

	t.Run("upgrades immediately and charges the proration", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewChangePlanHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyCondominium)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		payments.On("Charge", txCtx, customerID, shared.MustMoney("10.00"), mock.AnythingOfType("string")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, ChangePlanCommand{
			SubscriptionID: sub.ID(),
			TargetPlan:     "LANDED",
			Effective:      "IMMEDIATE",
		})

		require.NoError(t, err)
		assert.Equal(t, "CONDOMINIUM", result.FromPlan)
		assert.Equal(t, "LANDED", result.ToPlan)
		assert.Equal(t, "10.00", result.ProratedAmount)
		assert.Equal(t, catalog.PropertyLanded, sub.PropertyType())

		repo.AssertExpectations(t)
		payments.AssertExpectations(t)
		outboxRepo.AssertExpectations(t)
		uow.AssertExpectations(t)
	})

	t.Run("downgrades immediately and refunds the credit", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewChangePlanHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyLanded)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		payments.On("Refund", txCtx, customerID, shared.MustMoney("10.00"), mock.AnythingOfType("string")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, ChangePlanCommand{
			SubscriptionID: sub.ID(),
			TargetPlan:     "CONDOMINIUM",
			Effective:      "IMMEDIATE",
		})

		require.NoError(t, err)
		assert.Equal(t, "-10.00", result.ProratedAmount)

		payments.AssertExpectations(t)
	})

	t.Run("next-cycle change touches no money", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewChangePlanHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyCondominium)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, ChangePlanCommand{
			SubscriptionID: sub.ID(),
			TargetPlan:     "LANDED",
			Effective:      "NEXT_CYCLE",
		})

		require.NoError(t, err)
		assert.Equal(t, "0.00", result.ProratedAmount)
		assert.Equal(t, catalog.PropertyCondominium, sub.PropertyType())

		payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		payments.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("charge failure rolls the change back", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewChangePlanHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyCondominium)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		payments.On("Charge", txCtx, customerID, shared.MustMoney("10.00"), mock.AnythingOfType("string")).
			Return(errors.New("card declined"))

		_, err := handler.Handle(ctx, ChangePlanCommand{
			SubscriptionID: sub.ID(),
			TargetPlan:     "LANDED",
			Effective:      "IMMEDIATE",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	})

	t.Run("missing subscription fails with a sentinel", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewChangePlanHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")
		id := uuid.New()

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, id).Return(nil, nil)

		_, err := handler.Handle(ctx, ChangePlanCommand{
			SubscriptionID: id,
			TargetPlan:     "LANDED",
			Effective:      "IMMEDIATE",
		})

		assert.ErrorIs(t, err, domain.ErrSubscriptionNotFound)
	})

	t.Run("rejects an unknown target plan before opening a transaction", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		handler := NewChangePlanHandler(repo, new(mockOutboxRepo), new(mockUnitOfWork), catalog.DefaultCatalog(), new(mockPayments), clock)

		_, err := handler.Handle(context.Background(), ChangePlanCommand{
			SubscriptionID: uuid.New(),
			TargetPlan:     "CASTLE",
			Effective:      "IMMEDIATE",
		})

		assert.ErrorIs(t, err, catalog.ErrInvalidPropertyType)
	})
}
