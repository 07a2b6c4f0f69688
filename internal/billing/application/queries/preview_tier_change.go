package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
)

// PreviewTierChangeQuery asks what a tier change would cost right now.
type PreviewTierChangeQuery struct {
	MembershipID uuid.UUID
	TargetTier   string
}

// PreviewTierChangeHandler handles the PreviewTierChangeQuery.
type PreviewTierChangeHandler struct {
	repo    domain.MembershipRepository
	catalog *catalog.Catalog
	clock   domain.Clock
}

// NewPreviewTierChangeHandler creates a new PreviewTierChangeHandler.
func NewPreviewTierChangeHandler(repo domain.MembershipRepository, cat *catalog.Catalog, clock domain.Clock) *PreviewTierChangeHandler {
	return &PreviewTierChangeHandler{repo: repo, catalog: cat, clock: clock}
}

// Handle executes the PreviewTierChangeQuery without mutating anything.
func (h *PreviewTierChangeHandler) Handle(ctx context.Context, query PreviewTierChangeQuery) (*ProrationView, error) {
	target, err := catalog.ParseTierLevel(query.TargetTier)
	if err != nil {
		return nil, err
	}

	m, err := h.repo.FindByID(ctx, query.MembershipID)
	if err != nil {
		return nil, err
	}
	if m == nil {
		return nil, domain.ErrMembershipNotFound
	}

	result, err := m.PreviewTierChange(h.catalog, target, h.clock.Now())
	if err != nil {
		return nil, err
	}

	return &ProrationView{
		FromPlan:       m.Tier().String(),
		ToPlan:         target.String(),
		FromPrice:      result.FromPrice.String(),
		ToPrice:        result.ToPrice.String(),
		ProratedAmount: result.Amount.String(),
		RemainingDays:  result.RemainingDays,
		DaysInPeriod:   result.DaysInPeriod,
	}, nil
}
