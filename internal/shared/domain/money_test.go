package domain_test

import (
	"testing"

	"github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	m, err := domain.ParseMoney("29.90")
	require.NoError(t, err)
	assert.Equal(t, "29.90", m.String())
}

func TestParseMoney_Invalid(t *testing.T) {
	_, err := domain.ParseMoney("not-a-number")
	require.ErrorIs(t, err, domain.ErrInvalidMoney)
}

func TestNewMoney_RoundsToCents(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"10.005", "10.01"},
		{"-10.005", "-10.01"},
		{"10.004", "10.00"},
		{"-10.004", "-10.00"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			d, err := decimal.NewFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, domain.NewMoney(d).String())
		})
	}
}

func TestMoney_ProrateBy(t *testing.T) {
	price := domain.MustMoney("20.00")
	assert.Equal(t, "10.00", price.ProrateBy(15, 30).String())
	assert.Equal(t, "0.00", price.ProrateBy(0, 30).String())
	assert.Equal(t, "20.00", price.ProrateBy(30, 30).String())
}

func TestMoney_ProrateBy_Symmetric(t *testing.T) {
	diff := domain.MustMoney("12.35")
	forward := diff.ProrateBy(7, 30)
	backward := diff.Neg().ProrateBy(7, 30)
	assert.True(t, forward.Equal(backward.Neg()), "prorating a negated amount must negate the result")
}

func TestMoney_Percent(t *testing.T) {
	revenue := domain.MustMoney("1000.00")
	fee := revenue.Percent(decimal.NewFromInt(15))
	assert.Equal(t, "150.00", fee.String())
}

func TestMoney_Arithmetic(t *testing.T) {
	a := domain.MustMoney("49.90")
	b := domain.MustMoney("29.90")

	assert.Equal(t, "20.00", a.Sub(b).String())
	assert.Equal(t, "79.80", a.Add(b).String())
	assert.Equal(t, "-49.90", a.Neg().String())
	assert.True(t, b.LessThan(a))
	assert.True(t, domain.ZeroMoney().IsZero())
	assert.True(t, a.Sub(b).IsPositive())
	assert.True(t, b.Sub(a).IsNegative())
}
