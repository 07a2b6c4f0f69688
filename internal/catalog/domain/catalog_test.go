package domain_test

import (
	"testing"

	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	"github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog_Validates(t *testing.T) {
	require.NoError(t, catalog.DefaultCatalog().Validate())
}

func TestCatalog_PlanLookup(t *testing.T) {
	c := catalog.DefaultCatalog()

	plan, err := c.Plan(catalog.PropertyCondominium)
	require.NoError(t, err)
	assert.Equal(t, "29.90", plan.MonthlyPrice.String())

	plan, err = c.Plan(catalog.PropertyLanded)
	require.NoError(t, err)
	assert.Equal(t, "49.90", plan.MonthlyPrice.String())
}

func TestCatalog_PlanLookup_Unknown(t *testing.T) {
	c := catalog.DefaultCatalog()

	_, err := c.Plan(catalog.PropertyType("CASTLE"))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownPlan)
}

func TestCatalog_TierLookup(t *testing.T) {
	c := catalog.DefaultCatalog()

	basic, err := c.Tier(catalog.TierBasic)
	require.NoError(t, err)
	assert.True(t, basic.Features.CommissionRate.Equal(decimal.NewFromInt(15)))

	enterprise, err := c.Tier(catalog.TierEnterprise)
	require.NoError(t, err)
	assert.True(t, enterprise.Features.CommissionRate.Equal(decimal.NewFromInt(8)))
	assert.Equal(t, -1, enterprise.Features.MaxMonthlyJobs)
}

func TestCatalog_TierLookup_Unknown(t *testing.T) {
	_, err := catalog.DefaultCatalog().Tier(catalog.TierLevel("PLATINUM"))
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrUnknownTier)
}

func TestParsePropertyType(t *testing.T) {
	pt, err := catalog.ParsePropertyType("  condominium ")
	require.NoError(t, err)
	assert.Equal(t, catalog.PropertyCondominium, pt)

	_, err = catalog.ParsePropertyType("yurt")
	assert.ErrorIs(t, err, catalog.ErrInvalidPropertyType)
}

func TestParseTierLevel(t *testing.T) {
	level, err := catalog.ParseTierLevel("premium")
	require.NoError(t, err)
	assert.Equal(t, catalog.TierPremium, level)

	_, err = catalog.ParseTierLevel("gold")
	assert.ErrorIs(t, err, catalog.ErrInvalidTierLevel)
}

func TestTierLevel_Ordering(t *testing.T) {
	assert.True(t, catalog.TierEnterprise.Above(catalog.TierBasic))
	assert.False(t, catalog.TierBasic.Above(catalog.TierBasic))

	levels := catalog.TierLevels()
	for i := 1; i < len(levels); i++ {
		assert.Greater(t, levels[i].Rank(), levels[i-1].Rank())
	}
}

func testTiers() []catalog.MembershipTier {
	return catalog.DefaultCatalog().Tiers()
}

func TestCatalog_Validate_MissingPlan(t *testing.T) {
	c := catalog.NewCatalog("test", nil, testTiers())
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestCatalog_Validate_CommissionNotMonotonic(t *testing.T) {
	tiers := testTiers()
	for i := range tiers {
		if tiers[i].Level == catalog.TierEnterprise {
			// Enterprise charging more than Premium breaks monotonicity.
			tiers[i].Features.CommissionRate = decimal.NewFromInt(20)
		}
	}

	c := catalog.NewCatalog("test", catalog.DefaultCatalog().Plans(), tiers)
	err := c.Validate()
	require.Error(t, err)
	assert.ErrorIs(t, err, catalog.ErrInvalidCatalog)
}

func TestCatalog_Validate_JobLimitNotMonotonic(t *testing.T) {
	tiers := testTiers()
	for i := range tiers {
		if tiers[i].Level == catalog.TierPremium {
			tiers[i].Features.MaxMonthlyJobs = 1 // below Professional's 20
		}
	}

	c := catalog.NewCatalog("test", catalog.DefaultCatalog().Plans(), tiers)
	assert.ErrorIs(t, c.Validate(), catalog.ErrInvalidCatalog)
}

func TestCatalog_Validate_UnlimitedIsNeverWorse(t *testing.T) {
	tiers := testTiers()
	for i := range tiers {
		if tiers[i].Level == catalog.TierPremium {
			tiers[i].Features.MaxMonthlyJobs = -1
		}
	}

	c := catalog.NewCatalog("test", catalog.DefaultCatalog().Plans(), tiers)
	assert.NoError(t, c.Validate())
}

func TestCatalog_Validate_YearlyDiscountBound(t *testing.T) {
	tiers := testTiers()
	for i := range tiers {
		if tiers[i].Level == catalog.TierProfessional {
			tiers[i].YearlyPrice = domain.MustMoney("400.00") // > 12 x 29.00
		}
	}

	c := catalog.NewCatalog("test", catalog.DefaultCatalog().Plans(), tiers)
	assert.ErrorIs(t, c.Validate(), catalog.ErrInvalidCatalog)
}

func TestCatalog_Validate_CommissionRateRange(t *testing.T) {
	tiers := testTiers()
	for i := range tiers {
		tiers[i].Features.CommissionRate = decimal.NewFromInt(120)
	}

	c := catalog.NewCatalog("test", catalog.DefaultCatalog().Plans(), tiers)
	assert.ErrorIs(t, c.Validate(), catalog.ErrInvalidCatalog)
}
