package commands

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestRenewSubscriptionsHandler_Handle(t *testing.T) {
	clock := domain.FixedClock{FixedTime: day(2026, 7, 1)}

	t.Run("charges and rolls each due subscription", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewRenewSubscriptionsHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock, discardLogger())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, uuid.New(), catalog.PropertyHDB)

		repo.On("FindDueForRenewal", ctx, day(2026, 7, 1), 100).Return([]*domain.Subscription{sub}, nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		payments.On("Charge", txCtx, sub.CustomerID(), shared.MustMoney("19.90"), mock.AnythingOfType("string")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, RenewSubscriptionsCommand{})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Due)
		assert.Equal(t, 1, result.Renewed)
		assert.Equal(t, 0, result.Failed)
		assert.Equal(t, day(2026, 7, 1), sub.Period().Start())

		payments.AssertExpectations(t)
	})

	t.Run("a failed charge skips that subscription, not the batch", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewRenewSubscriptionsHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock, discardLogger())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		failing := createTestSubscription(t, uuid.New(), catalog.PropertyHDB)
		healthy := createTestSubscription(t, uuid.New(), catalog.PropertyCondominium)

		repo.On("FindDueForRenewal", ctx, day(2026, 7, 1), 100).
			Return([]*domain.Subscription{failing, healthy}, nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		uow.On("Rollback", txCtx).Return(nil)
		repo.On("FindByID", txCtx, failing.ID()).Return(failing, nil)
		repo.On("FindByID", txCtx, healthy.ID()).Return(healthy, nil)
		repo.On("Save", txCtx, healthy).Return(nil)
		payments.On("Charge", txCtx, failing.CustomerID(), shared.MustMoney("19.90"), mock.AnythingOfType("string")).
			Return(errors.New("card declined"))
		payments.On("Charge", txCtx, healthy.CustomerID(), shared.MustMoney("29.90"), mock.AnythingOfType("string")).
			Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, RenewSubscriptionsCommand{})

		require.NoError(t, err)
		assert.Equal(t, 2, result.Due)
		assert.Equal(t, 1, result.Renewed)
		assert.Equal(t, 1, result.Failed)

		repo.AssertNotCalled(t, "Save", txCtx, failing)
	})

	t.Run("a non-renewing subscription lapses without a charge", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewRenewSubscriptionsHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock, discardLogger())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, uuid.New(), catalog.PropertyHDB)
		_, err := sub.Cancel(catalog.DefaultCatalog(), domain.CancelAtPeriodEnd, day(2026, 6, 16))
		require.NoError(t, err)
		sub.ClearDomainEvents()

		repo.On("FindDueForRenewal", ctx, day(2026, 7, 1), 100).Return([]*domain.Subscription{sub}, nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, RenewSubscriptionsCommand{})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Lapsed)
		assert.Equal(t, domain.StatusCancelled, sub.Status())

		payments.AssertNotCalled(t, "Charge", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("a deferred plan change is charged at the new plan's price", func(t *testing.T) {
		repo := new(mockSubscriptionRepo)
		outboxRepo := new(mockOutboxRepo)
		uow := new(mockUnitOfWork)
		payments := new(mockPayments)
		handler := NewRenewSubscriptionsHandler(repo, outboxRepo, uow, catalog.DefaultCatalog(), payments, clock, discardLogger())

		ctx := context.Background()
		txCtx := context.WithValue(ctx, "tx", "transaction")

		sub := createTestSubscription(t, uuid.New(), catalog.PropertyCondominium)
		_, err := sub.ChangePlan(catalog.DefaultCatalog(), catalog.PropertyLanded, domain.EffectiveNextCycle, day(2026, 6, 16))
		require.NoError(t, err)
		sub.ClearDomainEvents()

		repo.On("FindDueForRenewal", ctx, day(2026, 7, 1), 100).Return([]*domain.Subscription{sub}, nil)
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)
		repo.On("FindByID", txCtx, sub.ID()).Return(sub, nil)
		repo.On("Save", txCtx, sub).Return(nil)
		payments.On("Charge", txCtx, sub.CustomerID(), shared.MustMoney("49.90"), mock.AnythingOfType("string")).Return(nil)
		outboxRepo.On("SaveBatch", txCtx, mock.AnythingOfType("[]*outbox.Message")).Return(nil)

		result, err := handler.Handle(ctx, RenewSubscriptionsCommand{})

		require.NoError(t, err)
		assert.Equal(t, 1, result.Renewed)
		assert.Equal(t, catalog.PropertyLanded, sub.PropertyType())

		payments.AssertExpectations(t)
	})
}
