package domain

import (
	"github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/shopspring/decimal"
)

// TierFeatures is the closed entitlement schema for a membership tier.
// Adding an entitlement is a compile-time catalog change, not a key in a
// loosely typed map. A limit of -1 means unlimited.
type TierFeatures struct {
	MaxMonthlyJobs     int
	MaxPortfolioImages int
	CommissionRate     decimal.Decimal // percent of job revenue, 0-100
	PrioritySupport    bool
	FeaturedListing    bool
}

// MembershipTier is a published vendor membership tier.
type MembershipTier struct {
	Level        TierLevel
	DisplayName  string
	MonthlyPrice domain.Money
	YearlyPrice  domain.Money
	Features     TierFeatures
}
