package domain

import (
	"errors"
	"strings"
	"time"
)

// BillingCycle is the recurring period between charges.
type BillingCycle string

const (
	CycleMonthly BillingCycle = "MONTHLY"
	CycleYearly  BillingCycle = "YEARLY"
)

// ErrInvalidBillingCycle is returned when parsing an unknown cycle.
var ErrInvalidBillingCycle = errors.New("invalid billing cycle")

// ParseBillingCycle creates a BillingCycle from a string.
func ParseBillingCycle(s string) (BillingCycle, error) {
	cycle := BillingCycle(strings.ToUpper(strings.TrimSpace(s)))
	if !cycle.IsValid() {
		return "", ErrInvalidBillingCycle
	}
	return cycle, nil
}

// IsValid reports whether the value is a known billing cycle.
func (c BillingCycle) IsValid() bool {
	return c == CycleMonthly || c == CycleYearly
}

// Days returns the nominal cycle length in days.
func (c BillingCycle) Days() int {
	if c == CycleYearly {
		return 365
	}
	return 30
}

// PeriodFrom returns the billing period starting at the given instant.
func (c BillingCycle) PeriodFrom(start time.Time) Period {
	end := start.AddDate(0, 0, c.Days())
	return Period{start: start, end: end}
}

func (c BillingCycle) String() string { return string(c) }
