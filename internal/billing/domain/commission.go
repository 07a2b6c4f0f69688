package domain

import (
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// CommissionSplit divides completed-job revenue between the platform and the
// vendor. The payout is the exact remainder after the rounded fee, so the
// two always sum to the revenue.
type CommissionSplit struct {
	Revenue      shared.Money
	PlatformFee  shared.Money
	VendorPayout shared.Money
}

// ApplyCommission applies the tier's commission rate to job revenue.
func ApplyCommission(revenue shared.Money, tier catalog.MembershipTier) (CommissionSplit, error) {
	if revenue.IsNegative() {
		return CommissionSplit{}, ErrNegativeRevenue
	}

	fee := revenue.Percent(tier.Features.CommissionRate)
	return CommissionSplit{
		Revenue:      revenue,
		PlatformFee:  fee,
		VendorPayout: revenue.Sub(fee),
	}, nil
}
