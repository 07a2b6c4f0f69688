package queries

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
)

// EntitlementCache is a read-through cache for resolved vendor entitlements.
// Misses and cache errors fall back to the repository.
type EntitlementCache interface {
	Get(ctx context.Context, vendorID uuid.UUID) (*VendorEntitlementsView, error)
	Set(ctx context.Context, vendorID uuid.UUID, view *VendorEntitlementsView) error
}

// VendorEntitlementsView is the resolved feature set for a vendor, the read
// model the rest of the platform gates on.
type VendorEntitlementsView struct {
	VendorID           uuid.UUID `json:"vendor_id"`
	Tier               string    `json:"tier"`
	Status             string    `json:"status"`
	MaxMonthlyJobs     string    `json:"max_monthly_jobs"`
	MaxPortfolioImages string    `json:"max_portfolio_images"`
	CommissionRate     string    `json:"commission_rate"`
	PrioritySupport    bool      `json:"priority_support"`
	FeaturedListing    bool      `json:"featured_listing"`
}

// ResolveEntitlementsQuery resolves the entitlements a vendor currently
// holds.
type ResolveEntitlementsQuery struct {
	VendorID uuid.UUID
}

// ResolveEntitlementsHandler handles the ResolveEntitlementsQuery.
type ResolveEntitlementsHandler struct {
	repo    domain.MembershipRepository
	catalog *catalog.Catalog
	cache   EntitlementCache
	logger  *slog.Logger
}

// NewResolveEntitlementsHandler creates a new ResolveEntitlementsHandler.
func NewResolveEntitlementsHandler(repo domain.MembershipRepository, cat *catalog.Catalog, cache EntitlementCache, logger *slog.Logger) *ResolveEntitlementsHandler {
	return &ResolveEntitlementsHandler{repo: repo, catalog: cat, cache: cache, logger: logger}
}

// Handle resolves entitlements from the vendor's live membership tier. A
// cancelled or missing membership resolves to the free basic tier, so
// entitlement checks never fail open.
func (h *ResolveEntitlementsHandler) Handle(ctx context.Context, query ResolveEntitlementsQuery) (*VendorEntitlementsView, error) {
	if h.cache != nil {
		cached, err := h.cache.Get(ctx, query.VendorID)
		if err != nil {
			h.logger.Warn("entitlement cache read failed", "vendor_id", query.VendorID, "error", err)
		} else if cached != nil {
			return cached, nil
		}
	}

	m, err := h.repo.FindByVendorID(ctx, query.VendorID)
	if err != nil {
		return nil, err
	}

	level := catalog.TierBasic
	status := string(domain.StatusCancelled)
	if m != nil && !m.IsCancelled() {
		level = m.Tier()
		status = string(m.Status())
	}

	tier, err := h.catalog.Tier(level)
	if err != nil {
		return nil, err
	}
	ents := domain.ResolveEntitlements(tier)

	view := &VendorEntitlementsView{
		VendorID:           query.VendorID,
		Tier:               level.String(),
		Status:             status,
		MaxMonthlyJobs:     ents.MaxMonthlyJobs.String(),
		MaxPortfolioImages: ents.MaxPortfolioImages.String(),
		CommissionRate:     ents.CommissionRate.String(),
		PrioritySupport:    ents.PrioritySupport,
		FeaturedListing:    ents.FeaturedListing,
	}

	if h.cache != nil {
		if err := h.cache.Set(ctx, query.VendorID, view); err != nil {
			h.logger.Warn("entitlement cache write failed", "vendor_id", query.VendorID, "error", err)
		}
	}

	return view, nil
}
