package domain

import (
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// PlanPeriodPrice returns the price of one full billing period of a customer
// plan. Plans publish a monthly price; a yearly period bills twelve months.
func PlanPeriodPrice(plan catalog.Plan, cycle BillingCycle) shared.Money {
	if cycle == CycleYearly {
		return plan.MonthlyPrice.ProrateBy(12, 1)
	}
	return plan.MonthlyPrice
}

// TierPeriodPrice returns the price of one full billing period of a vendor
// membership tier. Tiers publish a discounted yearly price directly.
func TierPeriodPrice(tier catalog.MembershipTier, cycle BillingCycle) shared.Money {
	if cycle == CycleYearly {
		return tier.YearlyPrice
	}
	return tier.MonthlyPrice
}
