package subscription

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the current subscription",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.GetSubscriptionHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Subscription status requires database connection.")
			return nil
		}

		view, err := app.GetSubscriptionHandler.Handle(cmd.Context(), queries.GetSubscriptionQuery{CustomerID: app.CurrentCustomerID})
		if err != nil {
			return err
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Subscription: %s (%s)\n", view.PropertyType, view.Status)
		fmt.Fprintf(cmd.OutOrStdout(), "  Period:   %s to %s\n",
			view.PeriodStart.Format("2006-01-02"), view.PeriodEnd.Format("2006-01-02"))
		fmt.Fprintf(cmd.OutOrStdout(), "  Price:    %s per %s cycle\n", view.PeriodPrice, view.BillingCycle)
		fmt.Fprintf(cmd.OutOrStdout(), "  Requests: %s service requests\n", view.ServiceRequests)
		if view.NextBillingDate != nil {
			fmt.Fprintf(cmd.OutOrStdout(), "  Renews:   %s\n", view.NextBillingDate.Local().Format(time.RFC1123))
		}
		if view.PendingPlan != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "  Pending:  switches to %s at renewal\n", view.PendingPlan)
		}

		return nil
	},
}
