package domain_test

import (
	"testing"
	"time"

	billing "github.com/kaiwenho/fixnest/internal/billing/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewPeriod(t *testing.T) {
	t.Run("creates valid period", func(t *testing.T) {
		p, err := billing.NewPeriod(date(2026, 6, 1), date(2026, 7, 1))
		require.NoError(t, err)
		assert.Equal(t, 30, p.Days())
	})

	t.Run("rejects zero boundaries", func(t *testing.T) {
		_, err := billing.NewPeriod(time.Time{}, date(2026, 7, 1))
		assert.ErrorIs(t, err, billing.ErrInvalidBillingPeriod)

		_, err = billing.NewPeriod(date(2026, 6, 1), time.Time{})
		assert.ErrorIs(t, err, billing.ErrInvalidBillingPeriod)
	})

	t.Run("rejects inverted boundaries", func(t *testing.T) {
		_, err := billing.NewPeriod(date(2026, 7, 1), date(2026, 6, 1))
		assert.ErrorIs(t, err, billing.ErrInvalidBillingPeriod)
	})

	t.Run("rejects empty period", func(t *testing.T) {
		_, err := billing.NewPeriod(date(2026, 6, 1), date(2026, 6, 1))
		assert.ErrorIs(t, err, billing.ErrInvalidBillingPeriod)
	})
}

func TestPeriodRemainingDays(t *testing.T) {
	p, err := billing.NewPeriod(date(2026, 6, 1), date(2026, 7, 1))
	require.NoError(t, err)

	t.Run("full period remains at start", func(t *testing.T) {
		assert.Equal(t, 30, p.RemainingDays(date(2026, 6, 1)))
	})

	t.Run("counts whole days mid-period", func(t *testing.T) {
		assert.Equal(t, 15, p.RemainingDays(date(2026, 6, 16)))
	})

	t.Run("rounds partial days up", func(t *testing.T) {
		noon := time.Date(2026, 6, 16, 12, 0, 0, 0, time.UTC)
		assert.Equal(t, 15, p.RemainingDays(noon))
	})

	t.Run("zero at the boundary", func(t *testing.T) {
		assert.Equal(t, 0, p.RemainingDays(date(2026, 7, 1)))
	})

	t.Run("clamps after the boundary", func(t *testing.T) {
		assert.Equal(t, 0, p.RemainingDays(date(2026, 7, 15)))
	})

	t.Run("clamps before the start", func(t *testing.T) {
		assert.Equal(t, 30, p.RemainingDays(date(2026, 5, 1)))
	})
}

func TestPeriodNext(t *testing.T) {
	p, err := billing.NewPeriod(date(2026, 6, 1), date(2026, 7, 1))
	require.NoError(t, err)

	next := p.Next(billing.CycleMonthly)
	assert.Equal(t, date(2026, 7, 1), next.Start())
	assert.Equal(t, date(2026, 7, 31), next.End())
}

func TestBillingCycle(t *testing.T) {
	t.Run("parse", func(t *testing.T) {
		c, err := billing.ParseBillingCycle(" monthly ")
		require.NoError(t, err)
		assert.Equal(t, billing.CycleMonthly, c)

		c, err = billing.ParseBillingCycle("YEARLY")
		require.NoError(t, err)
		assert.Equal(t, billing.CycleYearly, c)

		_, err = billing.ParseBillingCycle("weekly")
		assert.ErrorIs(t, err, billing.ErrInvalidBillingCycle)
	})

	t.Run("period lengths", func(t *testing.T) {
		monthly := billing.CycleMonthly.PeriodFrom(date(2026, 6, 1))
		assert.Equal(t, 30, monthly.Days())

		yearly := billing.CycleYearly.PeriodFrom(date(2026, 6, 1))
		assert.Equal(t, 365, yearly.Days())
	})
}
