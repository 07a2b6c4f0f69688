package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
)

// TierChangeHistoryQuery lists the audit trail of a membership's tier
// changes.
type TierChangeHistoryQuery struct {
	MembershipID uuid.UUID
}

// TierChangeView is one audit trail entry.
type TierChangeView struct {
	ID          uuid.UUID `json:"id"`
	FromTier    string    `json:"from_tier"`
	ToTier      string    `json:"to_tier"`
	ChangeDate  time.Time `json:"change_date"`
	Reason      string    `json:"reason,omitempty"`
	InitiatedBy string    `json:"initiated_by"`
}

// TierChangeHistoryHandler handles the TierChangeHistoryQuery.
type TierChangeHistoryHandler struct {
	records domain.ChangeRecordRepository
}

// NewTierChangeHistoryHandler creates a new TierChangeHistoryHandler.
func NewTierChangeHistoryHandler(records domain.ChangeRecordRepository) *TierChangeHistoryHandler {
	return &TierChangeHistoryHandler{records: records}
}

// Handle executes the TierChangeHistoryQuery, newest first.
func (h *TierChangeHistoryHandler) Handle(ctx context.Context, query TierChangeHistoryQuery) ([]TierChangeView, error) {
	records, err := h.records.FindByMembershipID(ctx, query.MembershipID)
	if err != nil {
		return nil, err
	}

	views := make([]TierChangeView, 0, len(records))
	for _, r := range records {
		views = append(views, TierChangeView{
			ID:          r.ID,
			FromTier:    r.FromTier.String(),
			ToTier:      r.ToTier.String(),
			ChangeDate:  r.ChangeDate,
			Reason:      r.Reason,
			InitiatedBy: r.InitiatedBy,
		})
	}

	return views, nil
}
