package membership

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var (
	joinTier  string
	joinCycle string
)

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Start a tier membership",
	Long: `Start a tier membership for the current vendor.

Tiers: BASIC (free), PROFESSIONAL, PREMIUM, ENTERPRISE.

Examples:
  fixnest membership join --tier PROFESSIONAL
  fixnest membership join --tier PREMIUM --cycle YEARLY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.CreateMembershipHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Joining requires database connection.")
			return nil
		}

		result, err := app.CreateMembershipHandler.Handle(cmd.Context(), commands.CreateMembershipCommand{
			VendorID:     app.CurrentVendorID,
			Tier:         strings.ToUpper(joinTier),
			BillingCycle: strings.ToUpper(joinCycle),
		})
		if err != nil {
			return fmt.Errorf("failed to join: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Membership started!")
		fmt.Fprintf(cmd.OutOrStdout(), "  ID:    %s\n", result.MembershipID)
		fmt.Fprintf(cmd.OutOrStdout(), "  Tier:  %s\n", result.Tier)
		fmt.Fprintf(cmd.OutOrStdout(), "  Price: %s\n", result.PeriodPrice)

		return nil
	},
}

func init() {
	joinCmd.Flags().StringVar(&joinTier, "tier", "", "membership tier (required)")
	joinCmd.Flags().StringVar(&joinCycle, "cycle", "MONTHLY", "billing cycle: MONTHLY or YEARLY")
	_ = joinCmd.MarkFlagRequired("tier")
}
