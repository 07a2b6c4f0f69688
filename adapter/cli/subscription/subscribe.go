package subscription

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var (
	subscribePlan  string
	subscribeCycle string
)

var subscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Start a maintenance subscription",
	Long: `Start a maintenance subscription for the current customer.

The plan is the property type being covered: HDB, CONDOMINIUM,
LANDED, or COMMERCIAL.

Examples:
  fixnest subscription subscribe --plan CONDOMINIUM
  fixnest subscription subscribe --plan LANDED --cycle YEARLY`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.CreateSubscriptionHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Subscribing requires database connection.")
			return nil
		}

		result, err := app.CreateSubscriptionHandler.Handle(cmd.Context(), commands.CreateSubscriptionCommand{
			CustomerID:   app.CurrentCustomerID,
			PropertyType: strings.ToUpper(subscribePlan),
			BillingCycle: strings.ToUpper(subscribeCycle),
		})
		if err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Subscription started!")
		fmt.Fprintf(cmd.OutOrStdout(), "  ID:    %s\n", result.SubscriptionID)
		fmt.Fprintf(cmd.OutOrStdout(), "  Plan:  %s\n", result.PropertyType)
		fmt.Fprintf(cmd.OutOrStdout(), "  Price: %s\n", result.PeriodPrice)

		return nil
	},
}

func init() {
	subscribeCmd.Flags().StringVar(&subscribePlan, "plan", "", "property type plan (required)")
	subscribeCmd.Flags().StringVar(&subscribeCycle, "cycle", "MONTHLY", "billing cycle: MONTHLY or YEARLY")
	_ = subscribeCmd.MarkFlagRequired("plan")
}
