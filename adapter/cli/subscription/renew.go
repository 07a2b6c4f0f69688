package subscription

import (
	"fmt"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var renewBatchSize int

var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Run a renewal sweep over due subscriptions",
	Long: `Advance every subscription whose billing date has passed.
Auto-renewing subscriptions are charged and rolled into the next
period; non-renewing ones lapse. One failed charge skips that
subscription, not the sweep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.RenewSubscriptionsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Renewal sweeps require database connection.")
			return nil
		}

		result, err := app.RenewSubscriptionsHandler.Handle(cmd.Context(), commands.RenewSubscriptionsCommand{BatchSize: renewBatchSize})
		if err != nil {
			return fmt.Errorf("renewal sweep failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Renewal sweep: %d due, %d renewed, %d lapsed, %d failed\n",
			result.Due, result.Renewed, result.Lapsed, result.Failed)
		return nil
	},
}

func init() {
	renewCmd.Flags().IntVar(&renewBatchSize, "batch-size", 100, "maximum subscriptions per sweep")
}
