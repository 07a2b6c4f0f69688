package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
)

// GetMembershipQuery looks a membership up by its ID, or by vendor when
// MembershipID is nil.
type GetMembershipQuery struct {
	MembershipID uuid.UUID
	VendorID     uuid.UUID
}

// MembershipView is the read model returned to callers.
type MembershipView struct {
	ID              uuid.UUID  `json:"id"`
	VendorID        uuid.UUID  `json:"vendor_id"`
	Tier            string     `json:"tier"`
	TierDisplayName string     `json:"tier_display_name"`
	BillingCycle    string     `json:"billing_cycle"`
	Status          string     `json:"status"`
	PeriodStart     time.Time  `json:"period_start"`
	PeriodEnd       time.Time  `json:"period_end"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	AutoRenew       bool       `json:"auto_renew"`
	PendingTier     string     `json:"pending_tier,omitempty"`
	PeriodPrice     string     `json:"period_price"`
	DaysRemaining   int        `json:"days_remaining"`
}

// GetMembershipHandler handles the GetMembershipQuery.
type GetMembershipHandler struct {
	repo    domain.MembershipRepository
	catalog *catalog.Catalog
	clock   domain.Clock
}

// NewGetMembershipHandler creates a new GetMembershipHandler.
func NewGetMembershipHandler(repo domain.MembershipRepository, cat *catalog.Catalog, clock domain.Clock) *GetMembershipHandler {
	return &GetMembershipHandler{repo: repo, catalog: cat, clock: clock}
}

// Handle executes the GetMembershipQuery.
func (h *GetMembershipHandler) Handle(ctx context.Context, query GetMembershipQuery) (*MembershipView, error) {
	var (
		m   *domain.VendorMembership
		err error
	)
	if query.MembershipID != uuid.Nil {
		m, err = h.repo.FindByID(ctx, query.MembershipID)
	} else {
		m, err = h.repo.FindByVendorID(ctx, query.VendorID)
	}
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrMembershipNotFound
	}

	tier, err := h.catalog.Tier(m.Tier())
	if err != nil {
		return nil, err
	}
	price, err := m.PeriodPrice(h.catalog)
	if err != nil {
		return nil, err
	}

	view := &MembershipView{
		ID:              m.ID(),
		VendorID:        m.VendorID(),
		Tier:            m.Tier().String(),
		TierDisplayName: tier.DisplayName,
		BillingCycle:    m.BillingCycle().String(),
		Status:          string(m.Status()),
		PeriodStart:     m.Period().Start(),
		PeriodEnd:       m.Period().End(),
		NextBillingDate: m.NextBillingDate(),
		AutoRenew:       m.AutoRenew(),
		PeriodPrice:     price.String(),
		DaysRemaining:   m.DaysRemaining(h.clock.Now()),
	}
	if pending := m.PendingTier(); pending != nil {
		view.PendingTier = pending.String()
	}

	return view, nil
}
