package persistence

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
	sharedPersistence "github.com/kaiwenho/fixnest/internal/shared/infrastructure/persistence"
)

// PostgresSubscriptionRepository implements domain.SubscriptionRepository
// using PostgreSQL.
type PostgresSubscriptionRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresSubscriptionRepository creates a new PostgreSQL subscription
// repository.
func NewPostgresSubscriptionRepository(pool *pgxpool.Pool) *PostgresSubscriptionRepository {
	return &PostgresSubscriptionRepository{pool: pool}
}

// subscriptionRow represents a database row for subscriptions.
type subscriptionRow struct {
	ID                  uuid.UUID
	CustomerID          uuid.UUID
	PropertyType        string
	BillingCycle        string
	Status              string
	PeriodStart         time.Time
	PeriodEnd           time.Time
	NextBillingDate     *time.Time
	AutoRenew           bool
	PendingPropertyType *string
	Version             int
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

const subscriptionColumns = `
	id, customer_id, property_type, billing_cycle, status,
	period_start, period_end, next_billing_date, auto_renew,
	pending_property_type, version, created_at, updated_at
`

// Save upserts a subscription.
func (r *PostgresSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, customer_id, property_type, billing_cycle, status,
			period_start, period_end, next_billing_date, auto_renew,
			pending_property_type, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			property_type = EXCLUDED.property_type,
			status = EXCLUDED.status,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			next_billing_date = EXCLUDED.next_billing_date,
			auto_renew = EXCLUDED.auto_renew,
			pending_property_type = EXCLUDED.pending_property_type,
			version = EXCLUDED.version,
			updated_at = NOW()
	`

	var pending *string
	if p := sub.PendingPropertyType(); p != nil {
		s := p.String()
		pending = &s
	}

	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		sub.ID(),
		sub.CustomerID(),
		sub.PropertyType().String(),
		sub.BillingCycle().String(),
		string(sub.Status()),
		sub.Period().Start(),
		sub.Period().End(),
		sub.NextBillingDate(),
		sub.AutoRenew(),
		pending,
		sub.Version(),
		sub.CreatedAt(),
		sub.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a subscription by its ID. Returns (nil, nil) when no
// row matches. Inside a unit of work the row is locked so concurrent plan
// changes against a stale period cannot both commit.
func (r *PostgresSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	query := `SELECT ` + subscriptionColumns + ` FROM subscriptions WHERE id = $1`
	if _, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		query += ` FOR UPDATE`
	}

	exec := sharedPersistence.Executor(ctx, r.pool)
	return r.scanOne(exec.QueryRow(ctx, query, id))
}

// FindByCustomerID retrieves the customer's most recent subscription.
// Returns (nil, nil) when the customer has none.
func (r *PostgresSubscriptionRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	return r.scanOne(exec.QueryRow(ctx, query, customerID))
}

// FindDueForRenewal retrieves subscriptions whose billing date has passed,
// oldest first.
func (r *PostgresSubscriptionRepository) FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*domain.Subscription, error) {
	query := `
		SELECT ` + subscriptionColumns + `
		FROM subscriptions
		WHERE status <> 'CANCELLED'
		  AND (
			(next_billing_date IS NOT NULL AND next_billing_date <= $1)
			OR (auto_renew = FALSE AND period_end <= $1)
		  )
		ORDER BY period_end ASC
		LIMIT $2
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, asOf, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

func (r *PostgresSubscriptionRepository) scanOne(row pgx.Row) (*domain.Subscription, error) {
	sub, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func (r *PostgresSubscriptionRepository) scanRow(row pgx.Row) (*domain.Subscription, error) {
	var s subscriptionRow
	if err := row.Scan(
		&s.ID,
		&s.CustomerID,
		&s.PropertyType,
		&s.BillingCycle,
		&s.Status,
		&s.PeriodStart,
		&s.PeriodEnd,
		&s.NextBillingDate,
		&s.AutoRenew,
		&s.PendingPropertyType,
		&s.Version,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rowToSubscription(s)
}

func rowToSubscription(s subscriptionRow) (*domain.Subscription, error) {
	var pending *catalog.PropertyType
	if s.PendingPropertyType != nil {
		p, err := catalog.ParsePropertyType(*s.PendingPropertyType)
		if err != nil {
			return nil, err
		}
		pending = &p
	}

	return domain.RehydrateSubscription(
		shared.RehydrateBaseEntity(s.ID, s.CreatedAt, s.UpdatedAt),
		s.Version,
		s.CustomerID,
		catalog.PropertyType(s.PropertyType),
		domain.BillingCycle(s.BillingCycle),
		domain.SubscriptionStatus(s.Status),
		s.PeriodStart,
		s.PeriodEnd,
		s.NextBillingDate,
		s.AutoRenew,
		pending,
	)
}
