package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SubscriptionRepository persists customer subscriptions. FindByID and
// FindByCustomerID return (nil, nil) when nothing matches.
type SubscriptionRepository interface {
	Save(ctx context.Context, subscription *Subscription) error
	FindByID(ctx context.Context, id uuid.UUID) (*Subscription, error)
	FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*Subscription, error)
	FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*Subscription, error)
}

// MembershipRepository persists vendor memberships. FindByID and
// FindByVendorID return (nil, nil) when nothing matches.
type MembershipRepository interface {
	Save(ctx context.Context, membership *VendorMembership) error
	FindByID(ctx context.Context, id uuid.UUID) (*VendorMembership, error)
	FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*VendorMembership, error)
	FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*VendorMembership, error)
}

// ChangeRecordRepository stores the tier-change audit trail.
type ChangeRecordRepository interface {
	Save(ctx context.Context, record *MembershipChangeRecord) error
	FindByMembershipID(ctx context.Context, membershipID uuid.UUID) ([]*MembershipChangeRecord, error)
}
