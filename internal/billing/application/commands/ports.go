package commands

import (
	"context"

	"github.com/google/uuid"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
)

// PaymentProcessor settles the money movements billing decides on. Charges
// and refunds happen before the aggregate mutation is committed; a gateway
// failure aborts the whole operation.
type PaymentProcessor interface {
	Charge(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error
	Refund(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error
}

// EntitlementInvalidator drops cached entitlements after a tier mutation so
// reads never serve a stale tier. Invalidation failures are logged, not
// fatal; the cache entry expires on its own.
type EntitlementInvalidator interface {
	Invalidate(ctx context.Context, vendorID uuid.UUID) error
}
