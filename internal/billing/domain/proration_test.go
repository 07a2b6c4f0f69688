package domain_test

import (
	"testing"
	"time"

	billing "github.com/kaiwenho/fixnest/internal/billing/domain"
	"github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func monthlyPeriod(t *testing.T) billing.Period {
	t.Helper()
	p, err := billing.NewPeriod(date(2026, 6, 1), date(2026, 7, 1))
	require.NoError(t, err)
	return p
}

func TestCalculateProration(t *testing.T) {
	period := monthlyPeriod(t)

	t.Run("upgrade mid-period charges half the difference", func(t *testing.T) {
		// 15 of 30 days remain; (49.90 - 29.90) * 15/30 = 10.00.
		result := billing.CalculateProration(period, date(2026, 6, 16),
			domain.MustMoney("29.90"), domain.MustMoney("49.90"))

		assert.Equal(t, "10.00", result.Amount.String())
		assert.Equal(t, 15, result.RemainingDays)
		assert.Equal(t, 30, result.DaysInPeriod)
	})

	t.Run("downgrade is the exact negation of the upgrade", func(t *testing.T) {
		now := date(2026, 6, 13)
		from := domain.MustMoney("29.90")
		to := domain.MustMoney("89.90")

		up := billing.CalculateProration(period, now, from, to)
		down := billing.CalculateProration(period, now, to, from)

		assert.True(t, up.Amount.Neg().Equal(down.Amount),
			"upgrade %s and downgrade %s must mirror", up.Amount, down.Amount)
	})

	t.Run("same price yields zero without touching the formula", func(t *testing.T) {
		price := domain.MustMoney("29.90")
		result := billing.CalculateProration(period, date(2026, 6, 16), price, price)

		assert.True(t, result.Amount.IsZero())
		assert.Equal(t, 15, result.RemainingDays)
	})

	t.Run("period boundary yields zero", func(t *testing.T) {
		result := billing.CalculateProration(period, date(2026, 7, 1),
			domain.MustMoney("29.90"), domain.MustMoney("49.90"))

		assert.True(t, result.Amount.IsZero())
		assert.Equal(t, 0, result.RemainingDays)
	})

	t.Run("full period remaining charges the full difference", func(t *testing.T) {
		result := billing.CalculateProration(period, date(2026, 6, 1),
			domain.MustMoney("29.90"), domain.MustMoney("49.90"))

		assert.Equal(t, "20.00", result.Amount.String())
	})

	t.Run("partial days round up to a whole remaining day", func(t *testing.T) {
		// 14.5 days left counts as 15.
		now := time.Date(2026, 6, 16, 12, 0, 0, 0, time.UTC)
		result := billing.CalculateProration(period, now,
			domain.MustMoney("0.00"), domain.MustMoney("30.00"))

		assert.Equal(t, "15.00", result.Amount.String())
	})

	t.Run("rounds to cents", func(t *testing.T) {
		// (49.90 - 29.90) * 7/30 = 4.666... -> 4.67.
		result := billing.CalculateProration(period, date(2026, 6, 24),
			domain.MustMoney("29.90"), domain.MustMoney("49.90"))

		assert.Equal(t, "4.67", result.Amount.String())
	})
}

func TestUnusedValue(t *testing.T) {
	period := monthlyPeriod(t)

	t.Run("one day in refunds the rest", func(t *testing.T) {
		refund := billing.UnusedValue(period, date(2026, 6, 2), domain.MustMoney("30.00"))
		assert.Equal(t, "29.00", refund.String())
	})

	t.Run("nothing left at the boundary", func(t *testing.T) {
		refund := billing.UnusedValue(period, date(2026, 7, 1), domain.MustMoney("30.00"))
		assert.True(t, refund.IsZero())
	})

	t.Run("full refund at the start", func(t *testing.T) {
		refund := billing.UnusedValue(period, date(2026, 6, 1), domain.MustMoney("30.00"))
		assert.Equal(t, "30.00", refund.String())
	})
}
