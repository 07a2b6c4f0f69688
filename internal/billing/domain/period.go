package domain

import (
	"fmt"
	"math"
	"time"
)

// Period is one billing period, bounded by its start and end instants.
// A Period constructed through NewPeriod always spans at least one day, so
// proration never divides by zero.
type Period struct {
	start time.Time
	end   time.Time
}

// NewPeriod validates and creates a billing period. Zero or inverted
// boundaries indicate corrupted upstream data and fail with
// ErrInvalidBillingPeriod.
func NewPeriod(start, end time.Time) (Period, error) {
	if start.IsZero() || end.IsZero() {
		return Period{}, fmt.Errorf("%w: missing boundary", ErrInvalidBillingPeriod)
	}
	if !end.After(start) {
		return Period{}, fmt.Errorf("%w: end %s not after start %s",
			ErrInvalidBillingPeriod, end.Format(time.RFC3339), start.Format(time.RFC3339))
	}
	return Period{start: start, end: end}, nil
}

func (p Period) Start() time.Time { return p.start }
func (p Period) End() time.Time   { return p.end }

// IsZero reports whether the period is uninitialized.
func (p Period) IsZero() bool {
	return p.start.IsZero() && p.end.IsZero()
}

// Days returns the period length in whole days, rounding partial days up.
func (p Period) Days() int {
	return int(math.Ceil(p.end.Sub(p.start).Hours() / 24))
}

// RemainingDays returns the whole days left until the period ends, rounding
// partial days up and clamping to [0, Days].
func (p Period) RemainingDays(now time.Time) int {
	remaining := int(math.Ceil(p.end.Sub(now).Hours() / 24))
	if remaining < 0 {
		return 0
	}
	if days := p.Days(); remaining > days {
		return days
	}
	return remaining
}

// Next returns the following period of the given cycle, anchored at this
// period's end.
func (p Period) Next(cycle BillingCycle) Period {
	return cycle.PeriodFrom(p.end)
}
