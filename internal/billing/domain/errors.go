package domain

import "errors"

var (
	// ErrInvalidBillingPeriod flags malformed or missing period dates. This
	// is upstream data corruption and must surface to an operator, never be
	// papered over with a nominal cycle length.
	ErrInvalidBillingPeriod = errors.New("invalid billing period")

	// ErrAlreadyCancelled is returned when an operation requires a live
	// subscription but it has already been cancelled.
	ErrAlreadyCancelled = errors.New("subscription already cancelled")

	// ErrCancellationPending is returned when an end-of-period cancellation
	// is requested twice.
	ErrCancellationPending = errors.New("cancellation already scheduled")

	// ErrNotPendingCancellation is returned when reinstating a subscription
	// that has no scheduled cancellation.
	ErrNotPendingCancellation = errors.New("no cancellation to reinstate")

	// ErrSamePlan is returned when a plan change targets the current plan.
	ErrSamePlan = errors.New("target plan equals current plan")

	// ErrSameTier is returned when a tier change targets the current tier.
	ErrSameTier = errors.New("target tier equals current tier")

	// ErrNegativeRevenue is returned when commission is applied to negative
	// job revenue. Programmer error; fail fast.
	ErrNegativeRevenue = errors.New("job revenue must not be negative")

	// ErrInvalidCustomerID is returned when a subscription is created
	// without a customer.
	ErrInvalidCustomerID = errors.New("customer ID cannot be empty")

	// ErrInvalidVendorID is returned when a membership is created without a
	// vendor.
	ErrInvalidVendorID = errors.New("vendor ID cannot be empty")

	// ErrSubscriptionNotFound is returned by handlers when the subscription
	// does not exist.
	ErrSubscriptionNotFound = errors.New("subscription not found")

	// ErrMembershipNotFound is returned by handlers when the vendor
	// membership does not exist.
	ErrMembershipNotFound = errors.New("membership not found")
)
