package cache

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

func TestInMemoryEntitlementCache(t *testing.T) {
	ctx := context.Background()

	t.Run("round-trips a stored view", func(t *testing.T) {
		c := NewInMemoryEntitlementCache(0)
		vendorID := uuid.New()
		view := &queries.VendorEntitlementsView{
			VendorID:           vendorID,
			Tier:               "PREMIUM",
			Status:             "ACTIVE",
			MaxMonthlyJobs:     "50",
			MaxPortfolioImages: "100",
			CommissionRate:     "10",
			PrioritySupport:    true,
			FeaturedListing:    true,
		}

		require.NoError(t, c.Set(ctx, vendorID, view))

		got, err := c.Get(ctx, vendorID)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, view, got)
	})

	t.Run("returns nil on miss", func(t *testing.T) {
		c := NewInMemoryEntitlementCache(0)

		got, err := c.Get(ctx, uuid.New())
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("invalidate drops the entry", func(t *testing.T) {
		c := NewInMemoryEntitlementCache(0)
		vendorID := uuid.New()
		require.NoError(t, c.Set(ctx, vendorID, &queries.VendorEntitlementsView{VendorID: vendorID, Tier: "BASIC"}))

		require.NoError(t, c.Invalidate(ctx, vendorID))

		got, err := c.Get(ctx, vendorID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("expired entries are misses", func(t *testing.T) {
		c := NewInMemoryEntitlementCache(time.Minute)
		vendorID := uuid.New()
		require.NoError(t, c.Set(ctx, vendorID, &queries.VendorEntitlementsView{VendorID: vendorID, Tier: "BASIC"}))

		c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }

		got, err := c.Get(ctx, vendorID)
		require.NoError(t, err)
		assert.Nil(t, got)
	})
}
