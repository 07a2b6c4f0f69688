// Package membership holds the vendor membership command group.
package membership

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

// Cmd is the membership command group.
var Cmd = &cobra.Command{
	Use:   "membership",
	Short: "Manage the vendor tier membership",
	Long:  `Join, inspect, change, cancel, and renew vendor tier memberships.`,
}

// resolveMembershipID resolves the target membership from an explicit flag
// value or the current vendor's active membership.
func resolveMembershipID(ctx context.Context, app *clipkg.App, flagValue string) (uuid.UUID, error) {
	if flagValue != "" {
		id, err := uuid.Parse(flagValue)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid membership id: %w", err)
		}
		return id, nil
	}

	view, err := app.GetMembershipHandler.Handle(ctx, queries.GetMembershipQuery{VendorID: app.CurrentVendorID})
	if err != nil {
		return uuid.Nil, err
	}
	return view.ID, nil
}

// effectiveness maps the friendly --at flag values onto the command input.
func effectiveness(at string) (string, error) {
	switch at {
	case "now", "immediate":
		return "IMMEDIATE", nil
	case "next-cycle", "renewal":
		return "NEXT_CYCLE", nil
	default:
		return "", fmt.Errorf("invalid --at value %q (use now or next-cycle)", at)
	}
}

func init() {
	Cmd.AddCommand(joinCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(previewCmd)
	Cmd.AddCommand(changeTierCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(reinstateCmd)
	Cmd.AddCommand(renewCmd)
	Cmd.AddCommand(historyCmd)
}
