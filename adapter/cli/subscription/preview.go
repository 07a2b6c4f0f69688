package subscription

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var previewSubscriptionID string

var previewCmd = &cobra.Command{
	Use:   "preview <plan>",
	Short: "Preview the proration for a plan change",
	Long: `Show what an immediate plan change would cost or refund,
without changing anything.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.PreviewPlanChangeHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Plan previews require database connection.")
			return nil
		}

		id, err := resolveSubscriptionID(cmd.Context(), app, previewSubscriptionID)
		if err != nil {
			return err
		}

		view, err := app.PreviewPlanChangeHandler.Handle(cmd.Context(), queries.PreviewPlanChangeQuery{
			SubscriptionID: id,
			TargetPlan:     strings.ToUpper(args[0]),
		})
		if err != nil {
			return fmt.Errorf("failed to preview plan change: %w", err)
		}

		printProration(cmd, view)
		return nil
	},
}

func printProration(cmd *cobra.Command, view *queries.ProrationView) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s) to %s (%s)\n", view.FromPlan, view.FromPrice, view.ToPlan, view.ToPrice)
	fmt.Fprintf(cmd.OutOrStdout(), "  Remaining: %d of %d days\n", view.RemainingDays, view.DaysInPeriod)
	switch {
	case strings.HasPrefix(view.ProratedAmount, "-"):
		fmt.Fprintf(cmd.OutOrStdout(), "  Refund:    %s\n", strings.TrimPrefix(view.ProratedAmount, "-"))
	default:
		fmt.Fprintf(cmd.OutOrStdout(), "  Charge:    %s\n", view.ProratedAmount)
	}
}

func init() {
	previewCmd.Flags().StringVar(&previewSubscriptionID, "id", "", "subscription id (defaults to current customer's)")
}
