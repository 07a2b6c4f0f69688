package membership

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var (
	changeTierMembershipID string
	changeTierAt           string
	changeTierReason       string
)

var changeTierCmd = &cobra.Command{
	Use:   "change-tier <tier>",
	Short: "Change the membership tier",
	Long: `Move the membership to a different tier.

An immediate change prorates the price difference over the days
left in the period; a next-cycle change takes effect at renewal
with no money movement now. Every change is recorded in the
audit trail.

Examples:
  fixnest membership change-tier PREMIUM
  fixnest membership change-tier BASIC --at next-cycle --reason "cost cutting"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.ChangeTierHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Tier changes require database connection.")
			return nil
		}

		effective, err := effectiveness(changeTierAt)
		if err != nil {
			return err
		}
		id, err := resolveMembershipID(cmd.Context(), app, changeTierMembershipID)
		if err != nil {
			return err
		}

		result, err := app.ChangeTierHandler.Handle(cmd.Context(), commands.ChangeTierCommand{
			MembershipID: id,
			TargetTier:   strings.ToUpper(args[0]),
			Effective:    effective,
			Reason:       changeTierReason,
			InitiatedBy:  "vendor",
		})
		if err != nil {
			return fmt.Errorf("failed to change tier: %w", err)
		}

		if effective == "NEXT_CYCLE" {
			fmt.Fprintf(cmd.OutOrStdout(), "Tier change to %s scheduled for renewal.\n", result.ToTier)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Tier changed: %s to %s\n", result.FromTier, result.ToTier)
		switch {
		case strings.HasPrefix(result.ProratedAmount, "-"):
			fmt.Fprintf(cmd.OutOrStdout(), "  Refunded: %s\n", strings.TrimPrefix(result.ProratedAmount, "-"))
		case result.ProratedAmount != "0.00":
			fmt.Fprintf(cmd.OutOrStdout(), "  Charged:  %s\n", result.ProratedAmount)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "  Prorated over %d of %d days\n", result.RemainingDays, result.DaysInPeriod)

		return nil
	},
}

var previewTierMembershipID string

var previewCmd = &cobra.Command{
	Use:   "preview <tier>",
	Short: "Preview the proration for a tier change",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.PreviewTierChangeHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Tier previews require database connection.")
			return nil
		}

		id, err := resolveMembershipID(cmd.Context(), app, previewTierMembershipID)
		if err != nil {
			return err
		}

		view, err := app.PreviewTierChangeHandler.Handle(cmd.Context(), queries.PreviewTierChangeQuery{
			MembershipID: id,
			TargetTier:   strings.ToUpper(args[0]),
		})
		if err != nil {
			return fmt.Errorf("failed to preview tier change: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) to %s (%s)\n", view.FromPlan, view.FromPrice, view.ToPlan, view.ToPrice)
		fmt.Fprintf(cmd.OutOrStdout(), "  Remaining: %d of %d days\n", view.RemainingDays, view.DaysInPeriod)
		if strings.HasPrefix(view.ProratedAmount, "-") {
			fmt.Fprintf(cmd.OutOrStdout(), "  Refund:    %s\n", strings.TrimPrefix(view.ProratedAmount, "-"))
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "  Charge:    %s\n", view.ProratedAmount)
		}

		return nil
	},
}

func init() {
	changeTierCmd.Flags().StringVar(&changeTierMembershipID, "id", "", "membership id (defaults to current vendor's)")
	changeTierCmd.Flags().StringVar(&changeTierAt, "at", "now", "when the change applies: now or next-cycle")
	changeTierCmd.Flags().StringVar(&changeTierReason, "reason", "", "reason recorded in the audit trail")
	previewCmd.Flags().StringVar(&previewTierMembershipID, "id", "", "membership id (defaults to current vendor's)")
}
