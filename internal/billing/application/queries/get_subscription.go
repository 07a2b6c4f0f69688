package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
)

// GetSubscriptionQuery looks a subscription up by its ID, or by customer
// when SubscriptionID is nil.
type GetSubscriptionQuery struct {
	SubscriptionID uuid.UUID
	CustomerID     uuid.UUID
}

// SubscriptionView is the read model returned to callers.
type SubscriptionView struct {
	ID              uuid.UUID  `json:"id"`
	CustomerID      uuid.UUID  `json:"customer_id"`
	PropertyType    string     `json:"property_type"`
	BillingCycle    string     `json:"billing_cycle"`
	Status          string     `json:"status"`
	PeriodStart     time.Time  `json:"period_start"`
	PeriodEnd       time.Time  `json:"period_end"`
	NextBillingDate *time.Time `json:"next_billing_date,omitempty"`
	AutoRenew       bool       `json:"auto_renew"`
	PendingPlan     string     `json:"pending_plan,omitempty"`
	PeriodPrice     string     `json:"period_price"`
	ServiceRequests string     `json:"service_requests"`
}

// GetSubscriptionHandler handles the GetSubscriptionQuery.
type GetSubscriptionHandler struct {
	repo    domain.SubscriptionRepository
	catalog *catalog.Catalog
}

// NewGetSubscriptionHandler creates a new GetSubscriptionHandler.
func NewGetSubscriptionHandler(repo domain.SubscriptionRepository, cat *catalog.Catalog) *GetSubscriptionHandler {
	return &GetSubscriptionHandler{repo: repo, catalog: cat}
}

// Handle executes the GetSubscriptionQuery.
func (h *GetSubscriptionHandler) Handle(ctx context.Context, query GetSubscriptionQuery) (*SubscriptionView, error) {
	var (
		sub *domain.Subscription
		err error
	)
	if query.SubscriptionID != uuid.Nil {
		sub, err = h.repo.FindByID(ctx, query.SubscriptionID)
	} else {
		sub, err = h.repo.FindByCustomerID(ctx, query.CustomerID)
	}
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, domain.ErrSubscriptionNotFound
	}

	price, err := sub.PeriodPrice(h.catalog)
	if err != nil {
		return nil, err
	}
	plan, err := h.catalog.Plan(sub.PropertyType())
	if err != nil {
		return nil, err
	}
	ents := domain.ResolvePlanEntitlements(plan)

	view := &SubscriptionView{
		ID:              sub.ID(),
		CustomerID:      sub.CustomerID(),
		PropertyType:    sub.PropertyType().String(),
		BillingCycle:    sub.BillingCycle().String(),
		Status:          string(sub.Status()),
		PeriodStart:     sub.Period().Start(),
		PeriodEnd:       sub.Period().End(),
		NextBillingDate: sub.NextBillingDate(),
		AutoRenew:       sub.AutoRenew(),
		PeriodPrice:     price.String(),
		ServiceRequests: ents.ServiceRequests.String(),
	}
	if pending := sub.PendingPropertyType(); pending != nil {
		view.PendingPlan = pending.String()
	}

	return view, nil
}
