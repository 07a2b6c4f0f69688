package commands

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCancelSubscriptionHandler_Handle(t *testing.T) {
	customerID := uuid.New()
	clock := domain.FixedClock{FixedTime: day(2026, 6, 16)}

	t.Run("immediate cancellation refunds unused time", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewCancelSubscriptionHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyCondominium)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		payments.On("Refund", txCtx, customerID, shared.MustMoney("14.95"), mock.AnythingOfType("string")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, CancelSubscriptionCommand{
			SubscriptionID: sub.ID(),
			Mode:           "IMMEDIATE",
		})

		require.NoError(t, err)
		assert.Equal(t, "IMMEDIATE", result.Mode)
		assert.Equal(t, "14.95", result.RefundAmount)
		assert.Equal(t, domain.StatusCancelled, sub.Status())

		payments.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("deferred cancellation refunds nothing", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewCancelSubscriptionHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyCondominium)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, CancelSubscriptionCommand{
			SubscriptionID: sub.ID(),
			Mode:           "AT_PERIOD_END",
		})

		require.NoError(t, err)
		assert.Equal(t, "AT_PERIOD_END", result.Mode)
		assert.Empty(t, result.RefundAmount)
		assert.Equal(t, day(2026, 7, 1), result.EffectiveDate)
		assert.Equal(t, domain.StatusCancelAtPeriodEnd, sub.Status())

		payments.AssertNotCalled(t, "Refund", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("refund failure keeps the subscription active", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewCancelSubscriptionHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock)

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, customerID, catalog.PropertyCondominium)

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		payments.On("Refund", txCtx, customerID, shared.MustMoney("14.95"), mock.AnythingOfType("string")).
			Return(errors.New("gateway unavailable"))

		_, err := handler.Handle(ctx, CancelSubscriptionCommand{
			SubscriptionID: sub.ID(),
			Mode:           "IMMEDIATE",
		})

		require.Error(t, err)
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
		uow.AssertExpectations(t)
	})

	t.Run("rejects an unknown mode", func(t *testing.T) {
		handler := NewCancelSubscriptionHandler(new(mockSubscriptionRepo), new(mockOutboxRepo), new(mockUnitOfWork), catalog.DefaultCatalog(), new(mockPayments), clock)

		_, err := handler.Handle(context.Background(), CancelSubscriptionCommand{
			SubscriptionID: uuid.New(),
			Mode:           "EVENTUALLY",
		})

		assert.ErrorIs(t, err, domain.ErrInvalidCancellationMode)
	})
}
