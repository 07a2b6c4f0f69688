package cli

import (
	"github.com/google/uuid"

	"github.com/kaiwenho/fixnest/internal/billing/application/commands"
	"github.com/kaiwenho/fixnest/internal/billing/application/queries"
)

// App holds the CLI application dependencies.
type App struct {
	// Subscription Command Handlers
	CreateSubscriptionHandler    *commands.CreateSubscriptionHandler
	ChangePlanHandler            *commands.ChangePlanHandler
	CancelSubscriptionHandler    *commands.CancelSubscriptionHandler
	ReinstateSubscriptionHandler *commands.ReinstateSubscriptionHandler
	RenewSubscriptionsHandler    *commands.RenewSubscriptionsHandler

	// Subscription Query Handlers
	GetSubscriptionHandler   *queries.GetSubscriptionHandler
	PreviewPlanChangeHandler *queries.PreviewPlanChangeHandler

	// Membership Command Handlers
	CreateMembershipHandler    *commands.CreateMembershipHandler
	ChangeTierHandler          *commands.ChangeTierHandler
	CancelMembershipHandler    *commands.CancelMembershipHandler
	ReinstateMembershipHandler *commands.ReinstateMembershipHandler
	RenewMembershipsHandler    *commands.RenewMembershipsHandler

	// Membership Query Handlers
	GetMembershipHandler       *queries.GetMembershipHandler
	PreviewTierChangeHandler   *queries.PreviewTierChangeHandler
	ResolveEntitlementsHandler *queries.ResolveEntitlementsHandler
	CommissionQuoteHandler     *queries.CommissionQuoteHandler
	TierChangeHistoryHandler   *queries.TierChangeHistoryHandler

	// Current identities (configured per environment)
	CurrentCustomerID uuid.UUID
	CurrentVendorID   uuid.UUID
}

// SetCurrentCustomerID updates the current customer ID.
func (a *App) SetCurrentCustomerID(id uuid.UUID) {
	a.CurrentCustomerID = id
}

// SetCurrentVendorID updates the current vendor ID.
func (a *App) SetCurrentVendorID(id uuid.UUID) {
	a.CurrentVendorID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}
