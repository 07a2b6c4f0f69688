package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownPlan is returned when no plan exists for a property type.
	ErrUnknownPlan = errors.New("unknown plan")

	// ErrUnknownTier is returned when no tier exists for a level.
	ErrUnknownTier = errors.New("unknown membership tier")

	// ErrInvalidCatalog is returned by Validate when the catalog breaks an
	// authoring invariant.
	ErrInvalidCatalog = errors.New("invalid catalog")
)

// Catalog is one published version of the plan and tier definitions. It is
// immutable after construction and safe for concurrent readers.
type Catalog struct {
	version string
	plans   map[PropertyType]Plan
	tiers   map[TierLevel]MembershipTier
}

// NewCatalog builds a catalog from published plans and tiers.
func NewCatalog(version string, plans []Plan, tiers []MembershipTier) *Catalog {
	planIndex := make(map[PropertyType]Plan, len(plans))
	for _, plan := range plans {
		planIndex[plan.PropertyType] = plan
	}
	tierIndex := make(map[TierLevel]MembershipTier, len(tiers))
	for _, tier := range tiers {
		tierIndex[tier.Level] = tier
	}
	return &Catalog{version: version, plans: planIndex, tiers: tierIndex}
}

// Version returns the catalog version identifier.
func (c *Catalog) Version() string { return c.version }

// Plan returns the plan for a property type.
func (c *Catalog) Plan(propertyType PropertyType) (Plan, error) {
	plan, ok := c.plans[propertyType]
	if !ok {
		return Plan{}, fmt.Errorf("%w: %s", ErrUnknownPlan, propertyType)
	}
	return plan, nil
}

// Tier returns the membership tier for a level.
func (c *Catalog) Tier(level TierLevel) (MembershipTier, error) {
	tier, ok := c.tiers[level]
	if !ok {
		return MembershipTier{}, fmt.Errorf("%w: %s", ErrUnknownTier, level)
	}
	return tier, nil
}

// Plans returns all plans in catalog order.
func (c *Catalog) Plans() []Plan {
	out := make([]Plan, 0, len(c.plans))
	for _, propertyType := range PropertyTypes() {
		if plan, ok := c.plans[propertyType]; ok {
			out = append(out, plan)
		}
	}
	return out
}

// Tiers returns all tiers from lowest to highest level.
func (c *Catalog) Tiers() []MembershipTier {
	out := make([]MembershipTier, 0, len(c.tiers))
	for _, level := range TierLevels() {
		if tier, ok := c.tiers[level]; ok {
			out = append(out, tier)
		}
	}
	return out
}

// Validate runs the catalog-authoring checks: full plan coverage, tier price
// ordering, entitlement monotonicity, the yearly discount bound, and
// commission rates within [0, 100]. Run at startup; a catalog that fails
// here must not serve billing.
func (c *Catalog) Validate() error {
	for _, propertyType := range PropertyTypes() {
		plan, ok := c.plans[propertyType]
		if !ok {
			return fmt.Errorf("%w: missing plan for %s", ErrInvalidCatalog, propertyType)
		}
		if plan.MonthlyPrice.IsNegative() {
			return fmt.Errorf("%w: negative price for %s", ErrInvalidCatalog, propertyType)
		}
	}

	hundred := decimal.NewFromInt(100)
	for _, level := range TierLevels() {
		tier, ok := c.tiers[level]
		if !ok {
			return fmt.Errorf("%w: missing tier %s", ErrInvalidCatalog, level)
		}
		rate := tier.Features.CommissionRate
		if rate.IsNegative() || rate.GreaterThan(hundred) {
			return fmt.Errorf("%w: commission rate out of range for %s", ErrInvalidCatalog, level)
		}
		yearlyCap := tier.MonthlyPrice.ProrateBy(12, 1)
		if yearlyCap.LessThan(tier.YearlyPrice) {
			return fmt.Errorf("%w: yearly price exceeds 12x monthly for %s", ErrInvalidCatalog, level)
		}
	}

	levels := TierLevels()
	for i := 1; i < len(levels); i++ {
		lower, higher := c.tiers[levels[i-1]], c.tiers[levels[i]]
		if higher.MonthlyPrice.LessThan(lower.MonthlyPrice) {
			return fmt.Errorf("%w: %s priced below %s", ErrInvalidCatalog, higher.Level, lower.Level)
		}
		if err := checkMonotonic(lower, higher); err != nil {
			return err
		}
	}

	return nil
}

// checkMonotonic verifies the higher tier is never strictly worse than the
// lower one on any entitlement.
func checkMonotonic(lower, higher MembershipTier) error {
	if limitWorse(higher.Features.MaxMonthlyJobs, lower.Features.MaxMonthlyJobs) {
		return fmt.Errorf("%w: %s allows fewer monthly jobs than %s",
			ErrInvalidCatalog, higher.Level, lower.Level)
	}
	if limitWorse(higher.Features.MaxPortfolioImages, lower.Features.MaxPortfolioImages) {
		return fmt.Errorf("%w: %s allows fewer portfolio images than %s",
			ErrInvalidCatalog, higher.Level, lower.Level)
	}
	if higher.Features.CommissionRate.GreaterThan(lower.Features.CommissionRate) {
		return fmt.Errorf("%w: %s charges a higher commission than %s",
			ErrInvalidCatalog, higher.Level, lower.Level)
	}
	if lower.Features.PrioritySupport && !higher.Features.PrioritySupport {
		return fmt.Errorf("%w: %s loses priority support held by %s",
			ErrInvalidCatalog, higher.Level, lower.Level)
	}
	if lower.Features.FeaturedListing && !higher.Features.FeaturedListing {
		return fmt.Errorf("%w: %s loses featured listing held by %s",
			ErrInvalidCatalog, higher.Level, lower.Level)
	}
	return nil
}

// limitWorse reports whether limit a is strictly worse than b, treating -1 as
// unlimited.
func limitWorse(a, b int) bool {
	if a < 0 {
		return false
	}
	if b < 0 {
		return true
	}
	return a < b
}
