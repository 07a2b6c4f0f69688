package membership

import (
	"fmt"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

var historyMembershipID string

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show the tier change audit trail",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.TierChangeHistoryHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Tier history requires database connection.")
			return nil
		}

		id, err := resolveMembershipID(cmd.Context(), app, historyMembershipID)
		if err != nil {
			return err
		}

		records, err := app.TierChangeHistoryHandler.Handle(cmd.Context(), queries.TierChangeHistoryQuery{MembershipID: id})
		if err != nil {
			return fmt.Errorf("failed to load tier history: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No tier changes recorded.")
			return nil
		}

		for _, r := range records {
			line := fmt.Sprintf("%s  %s to %s (by %s)",
				r.ChangeDate.Format("2006-01-02"), r.FromTier, r.ToTier, r.InitiatedBy)
			if r.Reason != "" {
				line += fmt.Sprintf(": %s", r.Reason)
			}
			fmt.Fprintln(cmd.OutOrStdout(), line)
		}

		return nil
	},
}

func init() {
	historyCmd.Flags().StringVar(&historyMembershipID, "id", "", "membership id (defaults to current vendor's)")
}
