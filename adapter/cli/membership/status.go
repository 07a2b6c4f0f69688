package membership

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current membership",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.GetMembershipHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Membership status requires database connection.")
			return nil
		}

		view, err := app.GetMembershipHandler.Handle(cmd.Context(), queries.GetMembershipQuery{VendorID: app.CurrentVendorID})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Membership: %s (%s)\n", view.TierDisplayName, view.Status)
		fmt.Fprintf(cmd.OutOrStdout(), "  Period:    %s to %s (%d days left)\n",
			view.PeriodStart.Format("2006-01-02"), view.PeriodEnd.Format("2006-01-02"), view.DaysRemaining)
		fmt.Fprintf(cmd.OutOrStdout(), "  Price:     %s per %s cycle\n", view.PeriodPrice, view.BillingCycle)
		if view.NextBillingDate != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  Renews:    %s\n", view.NextBillingDate.Local().Format(time.RFC1123))
		}
		if view.PendingTier != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  Pending:   switches to %s at renewal\n", view.PendingTier)
		}

		return nil
	},
}
