// Package subscription holds the homeowner subscription command group.
package subscription

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	clipkg "github.com/kaiwenho/fixnest/adapter/cli"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

// Cmd is the subscription command group.
var Cmd = &cobra.Command{
	Use:   "subscription",
	Short: "Manage the homeowner maintenance subscription",
	Long:  `Subscribe, inspect, change, cancel, and renew maintenance plans.`,
}

// resolveSubscriptionID resolves the target subscription from an explicit
// flag value or the current customer's active subscription.
func resolveSubscriptionID(ctx context.Context, app *clipkg.App, flagValue string) (uuid.UUID, error) {
	if flagValue != "" {
		id, err := uuid.Parse(flagValue)
		if err != nil {
			return uuid.Nil, fmt.Errorf("invalid subscription id: %w", err)
		}
		return id, nil
	}

	view, err := app.GetSubscriptionHandler.Handle(ctx, queries.GetSubscriptionQuery{CustomerID: app.CurrentCustomerID})
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
	Cmd.AddCommand(subscribeCmd)
	Cmd.AddCommand(statusCmd)
	Cmd.AddCommand(previewCmd)
	Cmd.AddCommand(changePlanCmd)
	Cmd.AddCommand(cancelCmd)
	Cmd.AddCommand(reinstateCmd)
	Cmd.AddCommand(renewCmd)
}
