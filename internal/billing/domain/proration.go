package domain

import (
	"time"

	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// ProrationResult is the signed settlement for a mid-cycle price change.
// A positive amount is an additional charge, a negative amount a credit.
type ProrationResult struct {
	Amount        shared.Money
	RemainingDays int
	DaysInPeriod  int
	FromPrice     shared.Money
	ToPrice       shared.Money
}

// CalculateProration computes the charge or credit for switching from one
// period price to another with part of the period remaining:
//
//	amount = (to - from) * remainingDays / daysInPeriod
//
// rounded to cents. Equal prices short-circuit without touching the formula,
// and a period boundary (zero days remaining) always yields zero.
func CalculateProration(period Period, now time.Time, from, to shared.Money) ProrationResult {
	days := period.Days()
	remaining := period.RemainingDays(now)

	result := ProrationResult{
		RemainingDays: remaining,
		DaysInPeriod:  days,
		FromPrice:     from,
		ToPrice:       to,
	}

	if from.Equal(to) || remaining == 0 {
		return result
	}

	result.Amount = to.Sub(from).ProrateBy(remaining, days)
	return result
}

// UnusedValue returns the proration-style refund for the unused remainder of
// a period at the given price. Cancellation refunds reuse the proration
// day-count so the two never diverge.
func UnusedValue(period Period, now time.Time, price shared.Money) shared.Money {
	return price.ProrateBy(period.RemainingDays(now), period.Days())
}
