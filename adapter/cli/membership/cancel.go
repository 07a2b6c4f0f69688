package membership

import (
	"fmt"

	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
)

var (
	cancelMembershipID string
	cancelImmediate    bool
)

var cancelCmd = &cobra.Command{
	Use:   "cancel",
	Short: "Cancel the membership",
	Long: `Cancel the membership at the end of the paid period, or
immediately with --now. An immediate cancellation refunds the
unused part of the period and drops the vendor to the free
basic tier.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.CancelMembershipHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Cancelling requires database connection.")
			return nil
		}

		mode := "AT_PERIOD_END"
		if cancelImmediate {
			mode = "IMMEDIATE"
		}
		id, err := resolveMembershipID(cmd.Context(), app, cancelMembershipID)
		if err != nil {
			return err
		}

		result, err := app.CancelMembershipHandler.Handle(cmd.Context(), commands.CancelMembershipCommand{
			MembershipID: id,
			Mode:         mode,
		})
		if err != nil {
			return fmt.Errorf("failed to cancel membership: %w", err)
		}

		if cancelImmediate {
			fmt.Fprintln(cmd.OutOrStdout(), "Membership cancelled. Tier benefits end now.")
			if result.RefundAmount != "0.00" {
				fmt.Fprintf(cmd.OutOrStdout(), "  Refunded: %s\n", result.RefundAmount)
			}
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Membership ends %s. Tier benefits continue until then.\n",
			result.EffectiveDate.Format("2006-01-02"))
		return nil
	},
}

var reinstateCmd = &cobra.Command{
	Use:   "reinstate",
	Short: "Undo a pending cancellation",
	RunE: func(cmd *cobra.Command, args []string) error {
		app := clipkg.GetApp()
		if app == nil || app.ReinstateMembershipHandler == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "Reinstating requires database connection.")
			return nil
		}

		id, err := resolveMembershipID(cmd.Context(), app, cancelMembershipID)
		if err != nil {
			return err
		}

		if err := app.ReinstateMembershipHandler.Handle(cmd.Context(), commands.ReinstateMembershipCommand{MembershipID: id}); err != nil {
			return fmt.Errorf("failed to reinstate membership: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Membership reinstated. Auto-renew is back on.")
		return nil
	},
}

func init() {
	cancelCmd.Flags().StringVar(&cancelMembershipID, "id", "", "membership id (defaults to current vendor's)")
	cancelCmd.Flags().BoolVar(&cancelImmediate, "now", false, "cancel immediately with a prorated refund")
	reinstateCmd.Flags().StringVar(&cancelMembershipID, "id", "", "membership id (defaults to current vendor's)")
}
