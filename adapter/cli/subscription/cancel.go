package subscription

import (
	"fmt"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var (
	cancelSubscriptionID string
	cancelImmediate      bool
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the subscription",
	Long: `Cancel the subscription at the end of the paid period, or
immediately with --now. An immediate cancellation refunds the
unused part of the period.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.CancelSubscriptionHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelling requires database connection.")
			return nil
		}

		mode := "AT_PERIOD_END"
		if cancelImmediate {
			mode = "IMMEDIATE"
		}
		id, err := resolveSubscriptionID(cmd.Context(), app, cancelSubscriptionID)
		if err != nil {
			return err
		}

		result, err := app.CancelSubscriptionHandler.Handle(cmd.Context(), commands.CancelSubscriptionCommand{
			SubscriptionID: id,
			Mode:           mode,
		})
		if err != nil {
			return fmt.Errorf("failed to cancel subscription: %w", err)
		}

		if cancelImmediate {
			fmt.Fprintln(cmd.OutOrStdout(), "Subscription cancelled.")
			if result.RefundAmount != "0.00" {
				fmt.Fprintf(cmd.OutOrStdout(), "  Refunded: %s\n", result.RefundAmount)
			}
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Subscription ends %s. Cover continues until then.\n",
			result.EffectiveDate.Format("2006-01-02"))
		return nil
	},
}

var reinstateCmd = &cobra.Command{
	Use:   "reinstate",
	Short: "Undo a pending cancellation",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.ReinstateSubscriptionHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reinstating requires database connection.")
			return nil
		}

		id, err := resolveSubscriptionID(cmd.Context(), app, cancelSubscriptionID)
		if err != nil {
			return err
		}

		if err := app.ReinstateSubscriptionHandler.Handle(cmd.Context(), commands.ReinstateSubscriptionCommand{SubscriptionID: id}); err != nil {
			return fmt.Errorf("failed to reinstate subscription: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Subscription reinstated. Auto-renew is back on.")
		return nil
	},
}

func init() {
	cancelCmd.Flags().StringVar(&cancelSubscriptionID, "id", "", "subscription id (defaults to current customer's)")
	cancelCmd.Flags().BoolVar(&cancelImmediate, "now", false, "cancel immediately with a prorated refund")
	reinstateCmd.Flags().StringVar(&cancelSubscriptionID, "id", "", "subscription id (defaults to current customer's)")
}
