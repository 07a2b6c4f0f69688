package domain

import (
	"time"

	"github.com/google/uuid"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// MembershipChangeRecord is the audit trail entry written for every tier
// change. Commission reconciliation depends on it, so records are append-only.
type MembershipChangeRecord struct {
	ID           uuid.UUID
	MembershipID uuid.UUID
	VendorID     uuid.UUID
	FromTier     catalog.TierLevel
	ToTier       catalog.TierLevel
	ChangeDate   time.Time
	Reason       string
	InitiatedBy  string
}

// VendorMembership is a vendor's tier membership. The tier decides the
// vendor's entitlements and commission rate; the membership decides when the
// tier applies.
type VendorMembership struct {
	shared.BaseAggregateRoot
	vendorID        uuid.UUID
	tier            catalog.TierLevel
	billingCycle    BillingCycle
	status          SubscriptionStatus
	period          Period
	nextBillingDate *time.Time
	autoRenew       bool
	pendingTier     *catalog.TierLevel
}

// NewVendorMembership enrols a vendor on a tier. Like subscriptions, the
// membership is created only after the first charge succeeded.
func NewVendorMembership(vendorID uuid.UUID, cat *catalog.Catalog, level catalog.TierLevel, cycle BillingCycle, now time.Time) (*VendorMembership, error) {
	if vendorID == uuid.Nil {
		return nil, ErrInvalidVendorID
	}
	if !cycle.IsValid() {
		return nil, ErrInvalidBillingCycle
	}
	tier, err := cat.Tier(level)
	if err != nil {
		return nil, err
	}

	period := cycle.PeriodFrom(now)
	end := period.End()
	m := &VendorMembership{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		vendorID:          vendorID,
		tier:              level,
		billingCycle:      cycle,
		status:            StatusActive,
		period:            period,
		nextBillingDate:   &end,
		autoRenew:         true,
	}

	price := TierPeriodPrice(tier, cycle)
	m.Record(NewMembershipCreated(m.ID(), vendorID, level.String(), cycle.String(), price.String()))

	return m, nil
}

// RehydrateVendorMembership recreates a membership from persisted state.
func RehydrateVendorMembership(
	entity shared.BaseEntity,
	version int,
	vendorID uuid.UUID,
	level catalog.TierLevel,
	cycle BillingCycle,
	status SubscriptionStatus,
	periodStart, periodEnd time.Time,
	nextBillingDate *time.Time,
	autoRenew bool,
	pendingTier *catalog.TierLevel,
) (*VendorMembership, error) {
	period, err := NewPeriod(periodStart, periodEnd)
	if err != nil {
		return nil, err
	}
	return &VendorMembership{
		BaseAggregateRoot: shared.RehydrateBaseAggregateRoot(entity, version),
		vendorID:          vendorID,
		tier:              level,
		billingCycle:      cycle,
		status:            status,
		period:            period,
		nextBillingDate:   nextBillingDate,
		autoRenew:         autoRenew,
		pendingTier:       pendingTier,
	}, nil
}

func (m *VendorMembership) VendorID() uuid.UUID               { return m.vendorID }
func (m *VendorMembership) Tier() catalog.TierLevel           { return m.tier }
func (m *VendorMembership) BillingCycle() BillingCycle        { return m.billingCycle }
func (m *VendorMembership) Status() SubscriptionStatus        { return m.status }
func (m *VendorMembership) Period() Period                    { return m.period }
func (m *VendorMembership) NextBillingDate() *time.Time       { return m.nextBillingDate }
func (m *VendorMembership) AutoRenew() bool                   { return m.autoRenew }
func (m *VendorMembership) PendingTier() *catalog.TierLevel   { return m.pendingTier }
func (m *VendorMembership) IsCancelled() bool                 { return m.status == StatusCancelled }

// DaysRemaining reports whole days of cover left in the current period.
func (m *VendorMembership) DaysRemaining(now time.Time) int {
	return m.period.RemainingDays(now)
}

// PeriodPrice returns the price of the current period on the current tier.
func (m *VendorMembership) PeriodPrice(cat *catalog.Catalog) (shared.Money, error) {
	tier, err := cat.Tier(m.tier)
	if err != nil {
		return shared.Money{}, err
	}
	return TierPeriodPrice(tier, m.billingCycle), nil
}

// RenewalPrice returns the price the next period will be charged at,
// honouring a queued tier change.
func (m *VendorMembership) RenewalPrice(cat *catalog.Catalog) (shared.Money, error) {
	level := m.tier
	if m.pendingTier != nil {
		level = *m.pendingTier
	}
	tier, err := cat.Tier(level)
	if err != nil {
		return shared.Money{}, err
	}
	return TierPeriodPrice(tier, m.billingCycle), nil
}

// PreviewTierChange computes the proration a change to the target tier would
// settle, without mutating anything.
func (m *VendorMembership) PreviewTierChange(cat *catalog.Catalog, target catalog.TierLevel, now time.Time) (ProrationResult, error) {
	if m.status == StatusCancelled {
		return ProrationResult{}, ErrAlreadyCancelled
	}
	current, err := m.PeriodPrice(cat)
	if err != nil {
		return ProrationResult{}, err
	}
	targetTier, err := cat.Tier(target)
	if err != nil {
		return ProrationResult{}, err
	}
	targetPrice := TierPeriodPrice(targetTier, m.billingCycle)

	return CalculateProration(m.period, now, current, targetPrice), nil
}

// ChangeTier moves the vendor to the target tier and returns both the
// proration to settle and the audit record to persist. Upgrades usually run
// immediate; downgrades defer to renewal so the vendor keeps what they paid
// for.
func (m *VendorMembership) ChangeTier(cat *catalog.Catalog, target catalog.TierLevel, effective Effectiveness, reason, initiatedBy string, now time.Time) (ProrationResult, *MembershipChangeRecord, error) {
	if m.status == StatusCancelled {
		return ProrationResult{}, nil, ErrAlreadyCancelled
	}
	if m.status == StatusCancelAtPeriodEnd {
		return ProrationResult{}, nil, ErrCancellationPending
	}
	if target == m.tier {
		return ProrationResult{}, nil, ErrSameTier
	}

	result, err := m.PreviewTierChange(cat, target, now)
	if err != nil {
		return ProrationResult{}, nil, err
	}

	from := m.tier
	switch effective {
	case EffectiveNextCycle:
		pending := target
		m.pendingTier = &pending
		result.Amount = shared.ZeroMoney()
	default:
		m.tier = target
		m.pendingTier = nil
	}
	m.Touch()
	m.IncrementVersion()

	record := &MembershipChangeRecord{
		ID:           uuid.New(),
		MembershipID: m.ID(),
		VendorID:     m.vendorID,
		FromTier:     from,
		ToTier:       target,
		ChangeDate:   now,
		Reason:       reason,
		InitiatedBy:  initiatedBy,
	}

	m.Record(NewTierChanged(m.ID(), from.String(), target.String(), effective, result.Amount.String(), reason))

	return result, record, nil
}

// Cancel ends the membership, refunding unused time on immediate
// cancellation.
func (m *VendorMembership) Cancel(cat *catalog.Catalog, mode CancellationMode, now time.Time) (CancellationOutcome, error) {
	if m.status == StatusCancelled {
		return CancellationOutcome{}, ErrAlreadyCancelled
	}
	if m.status == StatusCancelAtPeriodEnd && mode == CancelAtPeriodEnd {
		return CancellationOutcome{}, ErrCancellationPending
	}

	var outcome CancellationOutcome
	switch mode {
	case CancelAtPeriodEnd:
		m.status = StatusCancelAtPeriodEnd
		m.autoRenew = false
		m.nextBillingDate = nil
		outcome = CancellationOutcome{Mode: mode, EffectiveDate: m.period.End()}
	case CancelImmediate:
		price, err := m.PeriodPrice(cat)
		if err != nil {
			return CancellationOutcome{}, err
		}
		refund := UnusedValue(m.period, now, price)
		m.status = StatusCancelled
		m.autoRenew = false
		m.nextBillingDate = nil
		outcome = CancellationOutcome{Mode: mode, RefundAmount: &refund, EffectiveDate: now}
	default:
		return CancellationOutcome{}, ErrInvalidCancellationMode
	}
	m.Touch()
	m.IncrementVersion()

	m.Record(NewMembershipCancelled(m.ID(), outcome))

	return outcome, nil
}

// Reinstate undoes a scheduled cancellation while the period is still paid.
func (m *VendorMembership) Reinstate(now time.Time) error {
	switch m.status {
	case StatusCancelled:
		return ErrAlreadyCancelled
	case StatusActive:
		return ErrNotPendingCancellation
	}

	m.status = StatusActive
	m.autoRenew = true
	end := m.period.End()
	m.nextBillingDate = &end
	m.Touch()
	m.IncrementVersion()

	m.Record(NewMembershipReinstated(m.ID()))

	return nil
}

// AdvanceCycle rolls the period forward after a successful renewal charge,
// applying any deferred tier change. A non-renewing membership lapses.
func (m *VendorMembership) AdvanceCycle(now time.Time) error {
	if m.status == StatusCancelled {
		return ErrAlreadyCancelled
	}

	if !m.autoRenew {
		m.status = StatusCancelled
		m.nextBillingDate = nil
		m.Touch()
		m.IncrementVersion()
		m.Record(NewMembershipLapsed(m.ID(), now))
		return nil
	}

	if m.pendingTier != nil {
		m.tier = *m.pendingTier
		m.pendingTier = nil
	}
	m.period = m.period.Next(m.billingCycle)
	end := m.period.End()
	m.nextBillingDate = &end
	m.Touch()
	m.IncrementVersion()

	m.Record(NewCycleAdvanced(m.ID(), MembershipAggregate, RoutingKeyMembershipRenewed, m.period))

	return nil
}
