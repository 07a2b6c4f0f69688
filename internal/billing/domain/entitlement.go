package domain

import (
	"strconv"

	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	"github.com/shopspring/decimal"
)

// Limit is a usage cap. Negative means unlimited; enforcement of finite caps
// belongs to the job-assignment and portfolio subsystems, this core only
// resolves the values.
type Limit int

// Unlimited is the sentinel for an uncapped entitlement.
const Unlimited Limit = -1

// IsUnlimited reports whether the limit is uncapped.
func (l Limit) IsUnlimited() bool { return l < 0 }

// Allows reports whether n uses fit within the limit.
func (l Limit) Allows(n int) bool {
	return l.IsUnlimited() || n <= int(l)
}

// String renders finite limits as digits and the sentinel as "unlimited".
func (l Limit) String() string {
	if l.IsUnlimited() {
		return "unlimited"
	}
	return strconv.Itoa(int(l))
}

// EntitlementSet is the resolved feature set a vendor membership tier
// unlocks.
type EntitlementSet struct {
	MaxMonthlyJobs     Limit
	MaxPortfolioImages Limit
	CommissionRate     decimal.Decimal
	PrioritySupport    bool
	FeaturedListing    bool
}

// ResolveEntitlements maps a membership tier to its entitlements.
func ResolveEntitlements(tier catalog.MembershipTier) EntitlementSet {
	return EntitlementSet{
		MaxMonthlyJobs:     Limit(tier.Features.MaxMonthlyJobs),
		MaxPortfolioImages: Limit(tier.Features.MaxPortfolioImages),
		CommissionRate:     tier.Features.CommissionRate,
		PrioritySupport:    tier.Features.PrioritySupport,
		FeaturedListing:    tier.Features.FeaturedListing,
	}
}

// PlanEntitlementSet is the resolved entitlement of a customer plan: cover
// for maintenance requests on one property type.
type PlanEntitlementSet struct {
	PropertyType    catalog.PropertyType
	ServiceRequests Limit
}

// ResolvePlanEntitlements maps a customer plan to its entitlements. Published
// plans place no cap on service requests.
func ResolvePlanEntitlements(plan catalog.Plan) PlanEntitlementSet {
	return PlanEntitlementSet{
		PropertyType:    plan.PropertyType,
		ServiceRequests: Unlimited,
	}
}
