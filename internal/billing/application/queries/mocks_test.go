package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	"github.com/stretchr/testify/mock"
)

// mockSubscriptionRepo is a mock implementation of domain.SubscriptionRepository.
type mockSubscriptionRepo struct {
	mock.Mock
}

func (m *mockSubscriptionRepo) Save(ctx context.Context, sub *domain.Subscription) error {
	args := m.Called(ctx, sub)
	return args.Error(0)
}

func (m *mockSubscriptionRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Subscription, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Subscription), args.Error(1)
}

func (m *mockSubscriptionRepo) FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*domain.Subscription, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Subscription), args.Error(1)
}

// mockMembershipRepo is a mock implementation of domain.MembershipRepository.
type mockMembershipRepo struct {
	mock.Mock
}

func (m *mockMembershipRepo) Save(ctx context.Context, membership *domain.VendorMembership) error {
	args := m.Called(ctx, membership)
	return args.Error(0)
}

func (m *mockMembershipRepo) FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorMembership, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorMembership), args.Error(1)
}

func (m *mockMembershipRepo) FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*domain.VendorMembership, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.VendorMembership), args.Error(1)
}

func (m *mockMembershipRepo) FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*domain.VendorMembership, error) {
	args := m.Called(ctx, asOf, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.VendorMembership), args.Error(1)
}

// mockChangeRecordRepo is a mock implementation of domain.ChangeRecordRepository.
type mockChangeRecordRepo struct {
	mock.Mock
}

func (m *mockChangeRecordRepo) Save(ctx context.Context, record *domain.MembershipChangeRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockChangeRecordRepo) FindByMembershipID(ctx context.Context, membershipID uuid.UUID) ([]*domain.MembershipChangeRecord, error) {
	args := m.Called(ctx, membershipID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.MembershipChangeRecord), args.Error(1)
}

// mockEntitlementCache is a mock implementation of EntitlementCache.
type mockEntitlementCache struct {
	mock.Mock
}

func (m *mockEntitlementCache) Get(ctx context.Context, vendorID uuid.UUID) (*VendorEntitlementsView, error) {
	args := m.Called(ctx, vendorID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*VendorEntitlementsView), args.Error(1)
}

func (m *mockEntitlementCache) Set(ctx context.Context, vendorID uuid.UUID, view *VendorEntitlementsView) error {
	args := m.Called(ctx, vendorID, view)
	return args.Error(0)
}
