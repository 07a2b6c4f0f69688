package commands

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/outbox"
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

// mockOutboxRepo is a mock implementation of outbox.Repository.
type mockOutboxRepo struct {
	mock.Mock
}

func (m *mockOutboxRepo) Save(ctx context.Context, msg *outbox.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *mockOutboxRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	args := m.Called(ctx, msgs)
	return args.Error(0)
}

func (m *mockOutboxRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockOutboxRepo) MarkPublished(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	args := m.Called(ctx, id, errMsg, nextRetryAt)
	return args.Error(0)
}

func (m *mockOutboxRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *mockOutboxRepo) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	args := m.Called(ctx, olderThanDays)
	return args.Get(0).(int64), args.Error(1)
}

// mockUnitOfWork is a mock implementation of application.UnitOfWork.
type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

// mockPayments is a mock implementation of PaymentProcessor.
type mockPayments struct {
	mock.Mock
}

func (m *mockPayments) Charge(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error {
	args := m.Called(ctx, accountID, amount, description)
	return args.Error(0)
}

func (m *mockPayments) Refund(ctx context.Context, accountID uuid.UUID, amount shared.Money, description string) error {
	args := m.Called(ctx, accountID, amount, description)
	return args.Error(0)
}

// mockInvalidator is a mock implementation of EntitlementInvalidator.
type mockInvalidator struct {
	mock.Mock
}

func (m *mockInvalidator) Invalidate(ctx context.Context, vendorID uuid.UUID) error {
	args := m.Called(ctx, vendorID)
	return args.Error(0)
}
