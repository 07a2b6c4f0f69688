package domain

import (
	"time"

	"github.com/google/uuid"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

const (
	SubscriptionAggregate = "Subscription"
	MembershipAggregate   = "VendorMembership"

	RoutingKeySubscriptionCreated    = "subscription.created"
	RoutingKeyPlanChanged            = "subscription.plan_changed"
	RoutingKeySubscriptionCancelled  = "subscription.cancelled"
	RoutingKeySubscriptionReinstated = "subscription.reinstated"
	RoutingKeySubscriptionRenewed    = "subscription.cycle_advanced"
	RoutingKeySubscriptionLapsed     = "subscription.lapsed"

	RoutingKeyMembershipCreated    = "membership.created"
	RoutingKeyTierChanged          = "membership.tier_changed"
	RoutingKeyMembershipCancelled  = "membership.cancelled"
	RoutingKeyMembershipReinstated = "membership.reinstated"
	RoutingKeyMembershipRenewed    = "membership.cycle_advanced"
	RoutingKeyMembershipLapsed     = "membership.lapsed"
)

// SubscriptionCreated is emitted when a customer subscription starts.
type SubscriptionCreated struct {
	shared.BaseEvent
	CustomerID   uuid.UUID `json:"customer_id"`
	PropertyType string    `json:"property_type"`
	BillingCycle string    `json:"billing_cycle"`
	PeriodPrice  string    `json:"period_price"`
}

// NewSubscriptionCreated creates a SubscriptionCreated event.
func NewSubscriptionCreated(subscriptionID, customerID uuid.UUID, propertyType, billingCycle, periodPrice string) *SubscriptionCreated {
	return &SubscriptionCreated{
		BaseEvent:    shared.NewBaseEvent(subscriptionID, SubscriptionAggregate, RoutingKeySubscriptionCreated),
		CustomerID:   customerID,
		PropertyType: propertyType,
		BillingCycle: billingCycle,
		PeriodPrice:  periodPrice,
	}
}

// PlanChanged is emitted when a subscription switches property type.
type PlanChanged struct {
	shared.BaseEvent
	FromPropertyType string `json:"from_property_type"`
	ToPropertyType   string `json:"to_property_type"`
	Effective        string `json:"effective"`
	ProratedAmount   string `json:"prorated_amount"`
}

// NewPlanChanged creates a PlanChanged event.
func NewPlanChanged(subscriptionID uuid.UUID, from, to string, effective Effectiveness, proratedAmount string) *PlanChanged {
	return &PlanChanged{
		BaseEvent:        shared.NewBaseEvent(subscriptionID, SubscriptionAggregate, RoutingKeyPlanChanged),
		FromPropertyType: from,
		ToPropertyType:   to,
		Effective:        string(effective),
		ProratedAmount:   proratedAmount,
	}
}

// SubscriptionCancelled is emitted for both cancellation modes.
type SubscriptionCancelled struct {
	shared.BaseEvent
	Mode          string    `json:"mode"`
	RefundAmount  string    `json:"refund_amount,omitempty"`
	EffectiveDate time.Time `json:"effective_date"`
}

// NewSubscriptionCancelled creates a SubscriptionCancelled event.
func NewSubscriptionCancelled(subscriptionID uuid.UUID, outcome CancellationOutcome) *SubscriptionCancelled {
	event := &SubscriptionCancelled{
		BaseEvent:     shared.NewBaseEvent(subscriptionID, SubscriptionAggregate, RoutingKeySubscriptionCancelled),
		Mode:          string(outcome.Mode),
		EffectiveDate: outcome.EffectiveDate,
	}
	if outcome.RefundAmount != nil {
		event.RefundAmount = outcome.RefundAmount.String()
	}
	return event
}

// SubscriptionReinstated is emitted when a scheduled cancellation is undone.
type SubscriptionReinstated struct {
	shared.BaseEvent
}

// NewSubscriptionReinstated creates a SubscriptionReinstated event.
func NewSubscriptionReinstated(subscriptionID uuid.UUID) *SubscriptionReinstated {
	return &SubscriptionReinstated{
		BaseEvent: shared.NewBaseEvent(subscriptionID, SubscriptionAggregate, RoutingKeySubscriptionReinstated),
	}
}

// CycleAdvanced is emitted when a billing period rolls forward on renewal.
type CycleAdvanced struct {
	shared.BaseEvent
	PeriodStart time.Time `json:"period_start"`
	PeriodEnd   time.Time `json:"period_end"`
}

// NewCycleAdvanced creates a CycleAdvanced event.
func NewCycleAdvanced(aggregateID uuid.UUID, aggregateType, routingKey string, period Period) *CycleAdvanced {
	return &CycleAdvanced{
		BaseEvent:   shared.NewBaseEvent(aggregateID, aggregateType, routingKey),
		PeriodStart: period.Start(),
		PeriodEnd:   period.End(),
	}
}

// SubscriptionLapsed is emitted when a non-renewing subscription reaches its
// period end.
type SubscriptionLapsed struct {
	shared.BaseEvent
	LapsedAt time.Time `json:"lapsed_at"`
}

// NewSubscriptionLapsed creates a SubscriptionLapsed event.
func NewSubscriptionLapsed(subscriptionID uuid.UUID, lapsedAt time.Time) *SubscriptionLapsed {
	return &SubscriptionLapsed{
		BaseEvent: shared.NewBaseEvent(subscriptionID, SubscriptionAggregate, RoutingKeySubscriptionLapsed),
		LapsedAt:  lapsedAt,
	}
}

// MembershipCreated is emitted when a vendor membership starts.
type MembershipCreated struct {
	shared.BaseEvent
	VendorID     uuid.UUID `json:"vendor_id"`
	Tier         string    `json:"tier"`
	BillingCycle string    `json:"billing_cycle"`
	PeriodPrice  string    `json:"period_price"`
}

// NewMembershipCreated creates a MembershipCreated event.
func NewMembershipCreated(membershipID, vendorID uuid.UUID, tier, billingCycle, periodPrice string) *MembershipCreated {
	return &MembershipCreated{
		BaseEvent:    shared.NewBaseEvent(membershipID, MembershipAggregate, RoutingKeyMembershipCreated),
		VendorID:     vendorID,
		Tier:         tier,
		BillingCycle: billingCycle,
		PeriodPrice:  periodPrice,
	}
}

// TierChanged is emitted when a vendor membership switches tier.
type TierChanged struct {
	shared.BaseEvent
	FromTier       string `json:"from_tier"`
	ToTier         string `json:"to_tier"`
	Effective      string `json:"effective"`
	ProratedAmount string `json:"prorated_amount"`
	Reason         string `json:"reason,omitempty"`
}

// NewTierChanged creates a TierChanged event.
func NewTierChanged(membershipID uuid.UUID, from, to string, effective Effectiveness, proratedAmount, reason string) *TierChanged {
	return &TierChanged{
		BaseEvent:      shared.NewBaseEvent(membershipID, MembershipAggregate, RoutingKeyTierChanged),
		FromTier:       from,
		ToTier:         to,
		Effective:      string(effective),
		ProratedAmount: proratedAmount,
		Reason:         reason,
	}
}

// MembershipCancelled is emitted for both cancellation modes.
type MembershipCancelled struct {
	shared.BaseEvent
	Mode          string    `json:"mode"`
	RefundAmount  string    `json:"refund_amount,omitempty"`
	EffectiveDate time.Time `json:"effective_date"`
}

// NewMembershipCancelled creates a MembershipCancelled event.
func NewMembershipCancelled(membershipID uuid.UUID, outcome CancellationOutcome) *MembershipCancelled {
	event := &MembershipCancelled{
		BaseEvent:     shared.NewBaseEvent(membershipID, MembershipAggregate, RoutingKeyMembershipCancelled),
		Mode:          string(outcome.Mode),
		EffectiveDate: outcome.EffectiveDate,
	}
	if outcome.RefundAmount != nil {
		event.RefundAmount = outcome.RefundAmount.String()
	}
	return event
}

// MembershipReinstated is emitted when a scheduled cancellation is undone.
type MembershipReinstated struct {
	shared.BaseEvent
}

// NewMembershipReinstated creates a MembershipReinstated event.
func NewMembershipReinstated(membershipID uuid.UUID) *MembershipReinstated {
	return &MembershipReinstated{
		BaseEvent: shared.NewBaseEvent(membershipID, MembershipAggregate, RoutingKeyMembershipReinstated),
	}
}

// MembershipLapsed is emitted when a non-renewing membership reaches its
// period end.
type MembershipLapsed struct {
	shared.BaseEvent
	LapsedAt time.Time `json:"lapsed_at"`
}

// NewMembershipLapsed creates a MembershipLapsed event.
func NewMembershipLapsed(membershipID uuid.UUID, lapsedAt time.Time) *MembershipLapsed {
	return &MembershipLapsed{
		BaseEvent: shared.NewBaseEvent(membershipID, MembershipAggregate, RoutingKeyMembershipLapsed),
		LapsedAt:  lapsedAt,
	}
}
