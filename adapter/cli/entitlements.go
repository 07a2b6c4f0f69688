package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var entitlementsVendorID string

var entitlementsCmd = &cobra.Command{
	Use:   "entitlements",
	Short: "Show the vendor's resolved entitlements",
	Long: `Resolve the feature set the vendor's membership tier grants:
job and portfolio limits, commission rate, priority support, and
featured listing placement. A vendor without a live membership
resolves to the free basic tier.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.ResolveEntitlementsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Entitlements require database connection.")
			return nil
		}

		vendorID := app.CurrentVendorID
		if entitlementsVendorID != "" {
			parsed, err := uuid.Parse(entitlementsVendorID)
			if err != nil {
				return fmt.Errorf("invalid vendor id: %w", err)
			}
			vendorID = parsed
		}

		view, err := app.ResolveEntitlementsHandler.Handle(cmd.Context(), queries.ResolveEntitlementsQuery{VendorID: vendorID})
		if err != nil {
			return fmt.Errorf("failed to resolve entitlements: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Tier: %s (%s)\n", view.Tier, view.Status)
		fmt.Fprintf(cmd.OutOrStdout(), "  Monthly jobs:     %s\n", view.MaxMonthlyJobs)
		fmt.Fprintf(cmd.OutOrStdout(), "  Portfolio images: %s\n", view.MaxPortfolioImages)
		fmt.Fprintf(cmd.OutOrStdout(), "  Commission rate:  %s%%\n", view.CommissionRate)
		fmt.Fprintf(cmd.OutOrStdout(), "  Priority support: %v\n", view.PrioritySupport)
		fmt.Fprintf(cmd.OutOrStdout(), "  Featured listing: %v\n", view.FeaturedListing)

		return nil
	},
}

func init() {
	entitlementsCmd.Flags().StringVar(&entitlementsVendorID, "vendor", "", "vendor id (defaults to current vendor)")
	rootCmd.AddCommand(entitlementsCmd)
}
