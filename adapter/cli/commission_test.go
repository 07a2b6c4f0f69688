package cli

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

func resetFlags() {
	entitlementsVendorID = ""
	commissionVendorID = ""
}

func TestCommissionCmd_NoApp(t *testing.T) {
	resetFlags()
	SetApp(nil)

	var output strings.Builder
	commissionCmd.SetContext(context.Background())
	commissionCmd.SetOut(&output)

	err := commissionCmd.RunE(commissionCmd, []string{"1000.00"})
	assert.NoError(t, err)
	assert.Contains(t, output.String(), "require database connection")
}

func TestCommissionCmd_InvalidVendorID(t *testing.T) {
	resetFlags()
	SetApp(&App{CommissionQuoteHandler: &queries.CommissionQuoteHandler{}})
	defer SetApp(nil)

	commissionVendorID = "not-a-uuid"
	commissionCmd.SetContext(context.Background())

	err := commissionCmd.RunE(commissionCmd, []string{"1000.00"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid vendor id")
}

func TestEntitlementsCmd_NoApp(t *testing.T) {
	resetFlags()
	SetApp(nil)

	var output strings.Builder
	entitlementsCmd.SetContext(context.Background())
	entitlementsCmd.SetOut(&output)

	err := entitlementsCmd.RunE(entitlementsCmd, []string{})
	assert.NoError(t, err)
	assert.Contains(t, output.String(), "require database connection")
}

func TestEntitlementsCmd_InvalidVendorID(t *testing.T) {
	resetFlags()
	SetApp(&App{ResolveEntitlementsHandler: &queries.ResolveEntitlementsHandler{}})
	defer SetApp(nil)

	entitlementsVendorID = "not-a-uuid"
	entitlementsCmd.SetContext(context.Background())

	err := entitlementsCmd.RunE(entitlementsCmd, []string{})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid vendor id")
}

func TestRootCmdFlags(t *testing.T) {
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("config"))
	assert.NotNil(t, rootCmd.PersistentFlags().Lookup("verbose"))
	assert.NotNil(t, commissionCmd.Flags().Lookup("vendor"))
	assert.NotNil(t, entitlementsCmd.Flags().Lookup("vendor"))
}
