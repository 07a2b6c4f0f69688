package queries

import (
	"context"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
)

// PreviewPlanChangeQuery asks what a plan change would cost right now.
type PreviewPlanChangeQuery struct {
	SubscriptionID uuid.UUID
	TargetPlan     string
}

// ProrationView is the read model for a previewed or settled proration.
type ProrationView struct {
	FromPlan       string `json:"from_plan"`
	ToPlan         string `json:"to_plan"`
	FromPrice      string `json:"from_price"`
	ToPrice        string `json:"to_price"`
	ProratedAmount string `json:"prorated_amount"`
	RemainingDays  int    `json:"remaining_days"`
	DaysInPeriod   int    `json:"days_in_period"`
}

// PreviewPlanChangeHandler handles the PreviewPlanChangeQuery.
type PreviewPlanChangeHandler struct {
	repo    domain.SubscriptionRepository
	catalog *catalog.Catalog
	clock   domain.Clock
}

// NewPreviewPlanChangeHandler creates a new PreviewPlanChangeHandler.
func NewPreviewPlanChangeHandler(repo domain.SubscriptionRepository, cat *catalog.Catalog, clock domain.Clock) *PreviewPlanChangeHandler {
	return &PreviewPlanChangeHandler{repo: repo, catalog: cat, clock: clock}
}

// Handle executes the PreviewPlanChangeQuery without mutating anything.
func (h *PreviewPlanChangeHandler) Handle(ctx context.Context, query PreviewPlanChangeQuery) (*ProrationView, error) {
	target, err := catalog.ParsePropertyType(query.TargetPlan)
	if err != nil {
		return nil, err
	}

	sub, err := h.repo.FindByID(ctx, query.SubscriptionID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}

	result, err := sub.PreviewPlanChange(h.catalog, target, h.clock.Now())
	if err != nil {
		return nil, err
	}

	return &ProrationView{
		FromPlan:       sub.PropertyType().String(),
		ToPlan:         target.String(),
		FromPrice:      result.FromPrice.String(),
		ToPrice:        result.ToPrice.String(),
		ProratedAmount: result.Amount.String(),
		RemainingDays:  result.RemainingDays,
		DaysInPeriod:   result.DaysInPeriod,
	}, nil
}
