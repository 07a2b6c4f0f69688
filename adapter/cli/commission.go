package cli

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var commissionVendorID string

var commissionCmd = &cobra.Command{
	Use:   "commission <revenue>",
	Short: "Quote the commission split on a job's revenue",
	Long: `Split a job's revenue between the platform fee and the vendor
payout at the vendor's current tier rate.

Examples:
  fixnest commission 1000.00
  fixnest commission 249.50 --vendor 4f8f...`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := GetApp()
		if app == nil || app.CommissionQuoteHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Commission quotes require database connection.")
			return nil
		}

		vendorID := app.CurrentVendorID
		if commissionVendorID != "" {
			parsed, err := uuid.Parse(commissionVendorID)
			if err != nil {
				return fmt.Errorf("invalid vendor id: %w", err)
			}
			vendorID = parsed
		}

		view, err := app.CommissionQuoteHandler.Handle(cmd.Context(), queries.CommissionQuoteQuery{
			VendorID: vendorID,
			Revenue:  args[0],
		})
		if err != nil {
			return fmt.Errorf("failed to quote commission: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Revenue: %s\n", view.Revenue)
		fmt.Fprintf(cmd.OutOrStdout(), "  Tier:          %s\n", view.Tier)
		fmt.Fprintf(cmd.OutOrStdout(), "  Rate:          %s%%\n", view.Rate)
		fmt.Fprintf(cmd.OutOrStdout(), "  Platform fee:  %s\n", view.PlatformFee)
		fmt.Fprintf(cmd.OutOrStdout(), "  Vendor payout: %s\n", view.VendorPayout)

		return nil
	},
}

func init() {
	commissionCmd.Flags().StringVar(&commissionVendorID, "vendor", "", "vendor id (defaults to current vendor)")
	rootCmd.AddCommand(commissionCmd)
}
