package domain

import (
	"time"

	"github.com/google/uuid"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	StatusActive            SubscriptionStatus = "ACTIVE"
	StatusCancelAtPeriodEnd SubscriptionStatus = "CANCEL_AT_PERIOD_END"
	StatusCancelled         SubscriptionStatus = "CANCELLED"
)

// Subscription is a customer's property-type subscription. It owns the plan
// reference, billing period, and renewal state; all money movements are
// decided here and settled by the caller.
type Subscription struct {
	shared.BaseAggregateRoot
	customerID          uuid.UUID
	propertyType        catalog.PropertyType
	billingCycle        BillingCycle
	status              SubscriptionStatus
	period              Period
	nextBillingDate     *time.Time
	autoRenew           bool
	pendingPropertyType *catalog.PropertyType
}

// NewSubscription starts a subscription on the plan for the given property
// type. The first period begins now; callers create the subscription only
// after the first charge succeeded.
func NewSubscription(customerID uuid.UUID, cat *catalog.Catalog, propertyType catalog.PropertyType, cycle BillingCycle, now time.Time) (*Subscription, error) {
	if customerID == uuid.Nil {
		return nil, ErrInvalidCustomerID
	}
	if !cycle.IsValid() {
		return nil, ErrInvalidBillingCycle
	}
	plan, err := cat.Plan(propertyType)
	if err != nil {
		return nil, err
	}

	period := cycle.PeriodFrom(now)
	end := period.End()
	s := &Subscription{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		customerID:        customerID,
		propertyType:      propertyType,
		billingCycle:      cycle,
		status:            StatusActive,
		period:            period,
		nextBillingDate:   &end,
		autoRenew:         true,
	}

	price := PlanPeriodPrice(plan, cycle)
	s.Record(NewSubscriptionCreated(s.ID(), customerID, propertyType.String(), cycle.String(), price.String()))

	return s, nil
}

// RehydrateSubscription recreates a subscription from persisted state. The
// period is validated; corrupted boundaries surface as
// ErrInvalidBillingPeriod instead of silently defaulting to a nominal cycle.
func RehydrateSubscription(
	entity shared.BaseEntity,
	version int,
	customerID uuid.UUID,
	propertyType catalog.PropertyType,
	cycle BillingCycle,
	status SubscriptionStatus,
	periodStart, periodEnd time.Time,
	nextBillingDate *time.Time,
	autoRenew bool,
	pendingPropertyType *catalog.PropertyType,
) (*Subscription, error) {
	period, err := NewPeriod(periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	return &Subscription{
		BaseAggregateRoot:   shared.RehydrateBaseAggregateRoot(entity, version),
		customerID:          customerID,
		propertyType:        propertyType,
		billingCycle:        cycle,
		status:              status,
		period:              period,
		nextBillingDate:     nextBillingDate,
		autoRenew:           autoRenew,
		pendingPropertyType: pendingPropertyType,
	}, nil
}

func (s *Subscription) CustomerID() uuid.UUID                         { return s.customerID }
func (s *Subscription) PropertyType() catalog.PropertyType            { return s.propertyType }
func (s *Subscription) BillingCycle() BillingCycle                    { return s.billingCycle }
func (s *Subscription) Status() SubscriptionStatus                    { return s.status }
func (s *Subscription) Period() Period                                { return s.period }
func (s *Subscription) NextBillingDate() *time.Time                   { return s.nextBillingDate }
func (s *Subscription) AutoRenew() bool                               { return s.autoRenew }
func (s *Subscription) PendingPropertyType() *catalog.PropertyType    { return s.pendingPropertyType }
func (s *Subscription) IsCancelled() bool                             { return s.status == StatusCancelled }

// PeriodPrice returns the price of the current period under the current
// plan.
func (s *Subscription) PeriodPrice(cat *catalog.Catalog) (shared.Money, error) {
	plan, err := cat.Plan(s.propertyType)
	if err != nil {
		return shared.Money{}, err
	}
	return PlanPeriodPrice(plan, s.billingCycle), nil
}

// RenewalPrice returns the price the next period will be charged at: the
// pending plan's price when a deferred change is queued, the current plan's
// otherwise.
func (s *Subscription) RenewalPrice(cat *catalog.Catalog) (shared.Money, error) {
	propertyType := s.propertyType
	if s.pendingPropertyType != nil {
		propertyType = *s.pendingPropertyType
	}
	plan, err := cat.Plan(propertyType)
	if err != nil {
		return shared.Money{}, err
	}
	return PlanPeriodPrice(plan, s.billingCycle), nil
}

// PreviewPlanChange computes the proration a change to the target plan would
// settle, without mutating anything. The caller shows this to the customer
// for confirmation.
func (s *Subscription) PreviewPlanChange(cat *catalog.Catalog, target catalog.PropertyType, now time.Time) (ProrationResult, error) {
	if s.status == StatusCancelled {
		return ProrationResult{}, ErrAlreadyCancelled
	}
	current, err := s.PeriodPrice(cat)
	if err != nil {
		return ProrationResult{}, err
	}
	targetPlan, err := cat.Plan(target)
	if err != nil {
		return ProrationResult{}, err
	}
	targetPrice := PlanPeriodPrice(targetPlan, s.billingCycle)

	return CalculateProration(s.period, now, current, targetPrice), nil
}

// ChangePlan switches the subscription to the target plan. An immediate
// change swaps the plan now; the returned proration must already be settled
// by the caller. A next-cycle change defers the swap to renewal and bills
// nothing.
func (s *Subscription) ChangePlan(cat *catalog.Catalog, target catalog.PropertyType, effective Effectiveness, now time.Time) (ProrationResult, error) {
	if s.status == StatusCancelled {
		return ProrationResult{}, ErrAlreadyCancelled
	}
	if s.status == StatusCancelAtPeriodEnd {
		return ProrationResult{}, ErrCancellationPending
	}
	if target == s.propertyType {
		return ProrationResult{}, ErrSamePlan
	}

	result, err := s.PreviewPlanChange(cat, target, now)
	if err != nil {
		return ProrationResult{}, err
	}

	from := s.propertyType
	switch effective {
	case EffectiveNextCycle:
		pending := target
		s.pendingPropertyType = &pending
		result.Amount = shared.ZeroMoney()
	default:
		s.propertyType = target
		s.pendingPropertyType = nil
	}
	s.Touch()
	s.IncrementVersion()

	s.Record(NewPlanChanged(s.ID(), from.String(), target.String(), effective, result.Amount.String()))

	return result, nil
}

// Cancel ends the subscription. AT_PERIOD_END keeps cover until the paid
// period runs out; IMMEDIATE stops cover now and refunds the unused time.
func (s *Subscription) Cancel(cat *catalog.Catalog, mode CancellationMode, now time.Time) (CancellationOutcome, error) {
	if s.status == StatusCancelled {
		return CancellationOutcome{}, ErrAlreadyCancelled
	}
	if s.status == StatusCancelAtPeriodEnd && mode == CancelAtPeriodEnd {
		return CancellationOutcome{}, ErrCancellationPending
	}

	var outcome CancellationOutcome
	switch mode {
	case CancelAtPeriodEnd:
		s.status = StatusCancelAtPeriodEnd
		s.autoRenew = false
		s.nextBillingDate = nil
		outcome = CancellationOutcome{Mode: mode, EffectiveDate: s.period.End()}
	case CancelImmediate:
		price, err := s.PeriodPrice(cat)
		if err != nil {
			return CancellationOutcome{}, err
		}
		refund := UnusedValue(s.period, now, price)
		s.status = StatusCancelled
		s.autoRenew = false
		s.nextBillingDate = nil
		outcome = CancellationOutcome{Mode: mode, RefundAmount: &refund, EffectiveDate: now}
	default:
		return CancellationOutcome{}, ErrInvalidCancellationMode
	}
	s.Touch()
	s.IncrementVersion()

	s.Record(NewSubscriptionCancelled(s.ID(), outcome))

	return outcome, nil
}

// Reinstate undoes a scheduled cancellation while the period is still paid.
// A fully cancelled subscription cannot come back.
func (s *Subscription) Reinstate(now time.Time) error {
	switch s.status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusActive:
		return ErrNotPendingCancellation
	}

	s.status = StatusActive
	s.autoRenew = true
	end := s.period.End()
	s.nextBillingDate = &end
	s.Touch()
	s.IncrementVersion()

	s.Record(NewSubscriptionReinstated(s.ID()))

	return nil
}

// AdvanceCycle rolls the billing period forward after a successful renewal
// charge, applying any deferred plan change. A non-renewing subscription
// lapses instead.
func (s *Subscription) AdvanceCycle(now time.Time) error {
	if s.status == StatusCancelled {
		return ErrAlreadyCancelled
	}

	if !s.autoRenew {
		s.status = StatusCancelled
		s.nextBillingDate = nil
		s.Touch()
		s.IncrementVersion()
		s.Record(NewSubscriptionLapsed(s.ID(), now))
		return nil
	}

	if s.pendingPropertyType != nil {
		s.propertyType = *s.pendingPropertyType
		s.pendingPropertyType = nil
	}
	s.period = s.period.Next(s.billingCycle)
	end := s.period.End()
	s.nextBillingDate = &end
	s.Touch()
	s.IncrementVersion()

	s.Record(NewCycleAdvanced(s.ID(), SubscriptionAggregate, RoutingKeySubscriptionRenewed, s.period))

	return nil
}
