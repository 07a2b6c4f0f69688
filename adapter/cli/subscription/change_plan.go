package subscription

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var (
	changePlanSubscriptionID string
	changePlanAt             string
)

var changePlanCmd = &cobra.Command{
	Use:   "change-plan <plan>",
	Short: "Change the subscription's property type plan",
	Long: `Change the subscription to a different property type plan.

An immediate change prorates the price difference over the days
left in the period; a next-cycle change takes effect at renewal
with no money movement now.

Examples:
  fixnest subscription change-plan LANDED
  fixnest subscription change-plan HDB --at next-cycle`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.ChangePlanHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Plan changes require database connection.")
			return nil
		}

		effective, err := effectiveness(changePlanAt)
		if err != nil {
			return err
		}
		id, err := resolveSubscriptionID(cmd.Context(), app, changePlanSubscriptionID)
		if err != nil {
			return err
		}

		result, err := app.ChangePlanHandler.Handle(cmd.Context(), commands.ChangePlanCommand{
			SubscriptionID: id,
			TargetPlan:     strings.ToUpper(args[0]),
			Effective:      effective,
		})
		if err != nil {
			return fmt.Errorf("failed to change plan: %w", err)
		}

		if effective == "NEXT_CYCLE" {
			fmt.Fprintf(cmd.OutOrStdout(), "Plan change to %s scheduled for renewal.\n", result.ToPlan)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Plan changed: %s to %s\n", result.FromPlan, result.ToPlan)
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

func init() {
	changePlanCmd.Flags().StringVar(&changePlanSubscriptionID, "id", "", "subscription id (defaults to current customer's)")
	changePlanCmd.Flags().StringVar(&changePlanAt, "at", "now", "when the change applies: now or next-cycle")
}
