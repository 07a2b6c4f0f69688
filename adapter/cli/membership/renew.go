package membership

import (
	"fmt"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var renewBatchSize int

var renewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Run a renewal sweep over due memberships",
	Long: `Advance every membership whose billing date has passed.
Auto-renewing memberships are charged and rolled into the next
period; non-renewing ones lapse to the free basic tier. One
failed charge skips that membership, not the sweep.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.RenewMembershipsHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Renewal sweeps require database connection.")
			return nil
		}

		result, err := app.RenewMembershipsHandler.Handle(cmd.Context(), commands.RenewMembershipsCommand{BatchSize: renewBatchSize})
		if err != nil {
			return fmt.Errorf("renewal sweep failed: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Renewal sweep: %d due, %d renewed, %d lapsed, %d failed\n",
			result.Due, result.Renewed, result.Lapsed, result.Failed)
		return nil
	},
}

func init() {
	renewCmd.Flags().IntVar(&renewBatchSize, "batch-size", 100, "maximum memberships per sweep")
}
