package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// CommissionQuoteQuery asks how completed-job revenue splits for a vendor at
// their current tier.
type CommissionQuoteQuery struct {
	VendorID uuid.UUID
	Revenue  string
}

// CommissionQuoteView is the read model for a commission split.
type CommissionQuoteView struct {
	VendorID     uuid.UUID `json:"vendor_id"`
	Tier         string    `json:"tier"`
	Rate         string    `json:"rate"`
	Revenue      string    `json:"revenue"`
	PlatformFee  string    `json:"platform_fee"`
	VendorPayout string    `json:"vendor_payout"`
}

// CommissionQuoteHandler handles the CommissionQuoteQuery.
type CommissionQuoteHandler struct {
	repo    domain.MembershipRepository
	catalog *catalog.Catalog
}

// NewCommissionQuoteHandler creates a new CommissionQuoteHandler.
func NewCommissionQuoteHandler(repo domain.MembershipRepository, cat *catalog.Catalog) *CommissionQuoteHandler {
	return &CommissionQuoteHandler{repo: repo, catalog: cat}
}

// Handle splits the revenue at the vendor's current tier rate. Vendors
// without a live membership pay the basic rate.
func (h *CommissionQuoteHandler) Handle(ctx context.Context, query CommissionQuoteQuery) (*CommissionQuoteView, error) {
	revenue, err := shared.ParseMoney(query.Revenue)
	if err != nil {
		return nil, err
	}

	m, err := h.repo.FindByVendorID(ctx, query.VendorID)
	if err != nil {
		return nil, err
	}

	level := catalog.TierBasic
	if m != nil && !m.IsCancelled() {
		level = m.Tier()
	}
	tier, err := h.catalog.Tier(level)
	if err != nil {
		return nil, err
	}

	split, err := domain.ApplyCommission(revenue, tier)
	if err != nil {
		return nil, err
	}

	return &CommissionQuoteView{
		VendorID:     query.VendorID,
		Tier:         level.String(),
		Rate:         tier.Features.CommissionRate.String(),
		Revenue:      split.Revenue.String(),
		PlatformFee:  split.PlatformFee.String(),
		VendorPayout: split.VendorPayout.String(),
	}, nil
}
