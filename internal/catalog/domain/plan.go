package domain

import "github.com/kaiwenho/fixnest/internal/shared/domain"

// Plan is a published customer subscription plan for one property type.
// Plans are immutable once published; price changes ship as a new catalog
// version so historical subscriptions stay auditable.
type Plan struct {
	ID           string
	PropertyType PropertyType
	MonthlyPrice domain.Money
	Description  string
}
