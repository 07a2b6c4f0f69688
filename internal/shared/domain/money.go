package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// ErrInvalidMoney is returned when a money string cannot be parsed.
var ErrInvalidMoney = errors.New("invalid money amount")

// Money is an amount in the platform currency, held to two decimal places.
// Rounding is half away from zero, so a charge and the refund that mirrors it
// always have equal magnitude.
type Money struct {
	amount decimal.Decimal
}

// NewMoney creates a Money value, rounding to cents.
func NewMoney(amount decimal.Decimal) Money {
	return Money{amount: amount.Round(2)}
}

// ParseMoney parses a decimal string such as "29.90".
func ParseMoney(s string) (Money, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Money{}, fmt.Errorf("%w: %q", ErrInvalidMoney, s)
	}
	return NewMoney(d), nil
}

// MustMoney parses a decimal string and panics on failure. For catalog
// literals and tests.
func MustMoney(s string) Money {
	m, err := ParseMoney(s)
	if err != nil {
		panic(err)
	}
	return m
}

// ZeroMoney returns the zero amount.
func ZeroMoney() Money {
	return Money{}
}

// Decimal returns the underlying decimal value.
func (m Money) Decimal() decimal.Decimal { return m.amount }

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{amount: m.amount.Add(other.amount)}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{amount: m.amount.Sub(other.amount)}
}

// Neg returns the amount with its sign flipped.
func (m Money) Neg() Money {
	return Money{amount: m.amount.Neg()}
}

// ProrateBy scales the amount by numerator/denominator and rounds to cents.
func (m Money) ProrateBy(numerator, denominator int) Money {
	scaled := m.amount.
		Mul(decimal.NewFromInt(int64(numerator))).
		Div(decimal.NewFromInt(int64(denominator)))
	return NewMoney(scaled)
}

// Percent returns rate percent of the amount, rounded to cents.
func (m Money) Percent(rate decimal.Decimal) Money {
	return NewMoney(m.amount.Mul(rate).Div(decimal.NewFromInt(100)))
}

func (m Money) IsZero() bool     { return m.amount.IsZero() }
func (m Money) IsNegative() bool { return m.amount.IsNegative() }
func (m Money) IsPositive() bool { return m.amount.IsPositive() }

// Equal reports whether two amounts are numerically equal.
func (m Money) Equal(other Money) bool {
	return m.amount.Equal(other.amount)
}

// LessThan reports whether m < other.
func (m Money) LessThan(other Money) bool {
	return m.amount.LessThan(other.amount)
}

// String renders the amount with exactly two decimal places.
func (m Money) String() string {
	return m.amount.StringFixed(2)
}
