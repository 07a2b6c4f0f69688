package domain

import (
	"errors"
	"strings"
	"time"

	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// Effectiveness controls when a plan or tier change takes effect.
type Effectiveness string

const (
	// EffectiveImmediate applies the change now; the proration amount is
	// settled with the payment collaborator before entitlements switch.
	EffectiveImmediate Effectiveness = "IMMEDIATE"

	// EffectiveNextCycle defers the change to the end of the current period.
	// Nothing is billed now and entitlements are kept until renewal.
	EffectiveNextCycle Effectiveness = "NEXT_CYCLE"
)

// ErrInvalidEffectiveness is returned when parsing an unknown effectiveness.
var ErrInvalidEffectiveness = errors.New("invalid effectiveness")

// ParseEffectiveness creates an Effectiveness from a string.
func ParseEffectiveness(s string) (Effectiveness, error) {
	e := Effectiveness(strings.ToUpper(strings.TrimSpace(s)))
	if e != EffectiveImmediate && e != EffectiveNextCycle {
		return "", ErrInvalidEffectiveness
	}
	return e, nil
}

// CancellationMode selects between an immediate cancellation with a prorated
// refund and a soft cancellation at the end of the paid period.
type CancellationMode string

const (
	CancelImmediate   CancellationMode = "IMMEDIATE"
	CancelAtPeriodEnd CancellationMode = "AT_PERIOD_END"
)

// ErrInvalidCancellationMode is returned when parsing an unknown mode.
var ErrInvalidCancellationMode = errors.New("invalid cancellation mode")

// ParseCancellationMode creates a CancellationMode from a string.
func ParseCancellationMode(s string) (CancellationMode, error) {
	m := CancellationMode(strings.ToUpper(strings.TrimSpace(s)))
	if m != CancelImmediate && m != CancelAtPeriodEnd {
		return "", ErrInvalidCancellationMode
	}
	return m, nil
}

// CancellationOutcome reports what a cancellation decided: when cover ends
// and whether unused time is refunded. RefundAmount is set only for
// immediate cancellations.
type CancellationOutcome struct {
	Mode          CancellationMode
	RefundAmount  *shared.Money
	EffectiveDate time.Time
}
