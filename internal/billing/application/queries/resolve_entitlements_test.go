package queries

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func activeMembership(t *testing.T, vendorID uuid.UUID, level catalog.TierLevel) *domain.VendorMembership {
	t.Helper()
	m, err := domain.NewVendorMembership(vendorID, catalog.DefaultCatalog(), level, domain.CycleMonthly, day(2026, 6, 1))
	require.NoError(t, err)
	m.ClearDomainEvents()
	return m
}

func TestResolveEntitlementsHandler_Handle(t *testing.T) {
	vendorID := uuid.New()
	ctx := context.Background()

	t.Run("resolves from the live membership and fills the cache", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		cache := new(mockEntitlementCache)
		handler := NewResolveEntitlementsHandler(repo, catalog.DefaultCatalog(), cache, discardLogger())

		m := activeMembership(t, vendorID, catalog.TierPremium)

		cache.On("Get", ctx, vendorID).Return(nil, nil)
		repo.On("FindByVendorID", ctx, vendorID).Return(m, nil)
		cache.On("Set", ctx, vendorID, mock.AnythingOfType("*queries.VendorEntitlementsView")).Return(nil)

		view, err := handler.Handle(ctx, ResolveEntitlementsQuery{VendorID: vendorID})

		require.NoError(t, err)
		assert.Equal(t, "PREMIUM", view.Tier)
		assert.Equal(t, "50", view.MaxMonthlyJobs)
		assert.Equal(t, "100", view.MaxPortfolioImages)
		assert.Equal(t, "10", view.CommissionRate)
		assert.True(t, view.PrioritySupport)
		assert.True(t, view.FeaturedListing)

		cache.AssertExpectations(t)
	})

	t.Run("serves a cache hit without touching the repository", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		cache := new(mockEntitlementCache)
		handler := NewResolveEntitlementsHandler(repo, catalog.DefaultCatalog(), cache, discardLogger())

		cached := &VendorEntitlementsView{VendorID: vendorID, Tier: "ENTERPRISE", MaxMonthlyJobs: "unlimited"}
		cache.On("Get", ctx, vendorID).Return(cached, nil)

		view, err := handler.Handle(ctx, ResolveEntitlementsQuery{VendorID: vendorID})

		require.NoError(t, err)
		assert.Same(t, cached, view)
		repo.AssertNotCalled(t, "FindByVendorID", mock.Anything, mock.Anything)
	})

	t.Run("a cache failure falls back to the repository", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		cache := new(mockEntitlementCache)
		handler := NewResolveEntitlementsHandler(repo, catalog.DefaultCatalog(), cache, discardLogger())

		m := activeMembership(t, vendorID, catalog.TierProfessional)

		cache.On("Get", ctx, vendorID).Return(nil, errors.New("redis down"))
		repo.On("FindByVendorID", ctx, vendorID).Return(m, nil)
		cache.On("Set", ctx, vendorID, mock.AnythingOfType("*queries.VendorEntitlementsView")).
			Return(errors.New("redis down"))

		view, err := handler.Handle(ctx, ResolveEntitlementsQuery{VendorID: vendorID})

		require.NoError(t, err)
		assert.Equal(t, "PROFESSIONAL", view.Tier)
	})

	t.Run("no membership resolves to the free basic tier", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		handler := NewResolveEntitlementsHandler(repo, catalog.DefaultCatalog(), nil, discardLogger())

		repo.On("FindByVendorID", ctx, vendorID).Return(nil, nil)

		view, err := handler.Handle(ctx, ResolveEntitlementsQuery{VendorID: vendorID})

		require.NoError(t, err)
		assert.Equal(t, "BASIC", view.Tier)
		assert.Equal(t, "5", view.MaxMonthlyJobs)
		assert.Equal(t, "15", view.CommissionRate)
		assert.False(t, view.PrioritySupport)
	})

	t.Run("a cancelled membership also falls back to basic", func(t *testing.T) {
		repo := new(mockMembershipRepo)
		handler := NewResolveEntitlementsHandler(repo, catalog.DefaultCatalog(), nil, discardLogger())

		m := activeMembership(t, vendorID, catalog.TierEnterprise)
		_, err := m.Cancel(catalog.DefaultCatalog(), domain.CancelImmediate, day(2026, 6, 16))
		require.NoError(t, err)

		repo.On("FindByVendorID", ctx, vendorID).Return(m, nil)

		view, err := handler.Handle(ctx, ResolveEntitlementsQuery{VendorID: vendorID})

		require.NoError(t, err)
		assert.Equal(t, "BASIC", view.Tier)
	})
}
