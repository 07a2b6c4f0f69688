package domain

import (
	"github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/shopspring/decimal"
)

// DefaultCatalog returns the currently published catalog version.
func DefaultCatalog() *Catalog {
	plans := []Plan{
		{
			ID:           "plan-hdb-v1",
			PropertyType: PropertyHDB,
			MonthlyPrice: domain.MustMoney("19.90"),
			Description:  "Maintenance cover for HDB flats",
		},
		{
			ID:           "plan-condo-v1",
			PropertyType: PropertyCondominium,
			MonthlyPrice: domain.MustMoney("29.90"),
			Description:  "Maintenance cover for condominium units",
		},
		{
			ID:           "plan-landed-v1",
			PropertyType: PropertyLanded,
			MonthlyPrice: domain.MustMoney("49.90"),
			Description:  "Maintenance cover for landed properties",
		},
		{
			ID:           "plan-commercial-v1",
			PropertyType: PropertyCommercial,
			MonthlyPrice: domain.MustMoney("89.90"),
			Description:  "Maintenance cover for commercial premises",
		},
	}

	tiers := []MembershipTier{
		{
			Level:        TierBasic,
			DisplayName:  "Basic",
			MonthlyPrice: domain.ZeroMoney(),
			YearlyPrice:  domain.ZeroMoney(),
			Features: TierFeatures{
				MaxMonthlyJobs:     5,
				MaxPortfolioImages: 10,
				CommissionRate:     decimal.NewFromInt(15),
			},
		},
		{
			Level:        TierProfessional,
			DisplayName:  "Professional",
			MonthlyPrice: domain.MustMoney("29.00"),
			YearlyPrice:  domain.MustMoney("290.00"),
			Features: TierFeatures{
				MaxMonthlyJobs:     20,
				MaxPortfolioImages: 30,
				CommissionRate:     decimal.NewFromInt(12),
				FeaturedListing:    true,
			},
		},
		{
			Level:        TierPremium,
			DisplayName:  "Premium",
			MonthlyPrice: domain.MustMoney("59.00"),
			YearlyPrice:  domain.MustMoney("590.00"),
			Features: TierFeatures{
				MaxMonthlyJobs:     50,
				MaxPortfolioImages: 100,
				CommissionRate:     decimal.NewFromInt(10),
				PrioritySupport:    true,
				FeaturedListing:    true,
			},
		},
		{
			Level:        TierEnterprise,
			DisplayName:  "Enterprise",
			MonthlyPrice: domain.MustMoney("99.00"),
			YearlyPrice:  domain.MustMoney("990.00"),
			Features: TierFeatures{
				MaxMonthlyJobs:     -1,
				MaxPortfolioImages: -1,
				CommissionRate:     decimal.NewFromInt(8),
				PrioritySupport:    true,
				FeaturedListing:    true,
			},
		},
	}

	return NewCatalog("2025-06", plans, tiers)
}
