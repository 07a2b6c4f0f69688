package persistence

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	shared "github.com/kaiwenho/fixnest/internal/shared/domain"
	sharedPersistence "github.com/kaiwenho/fixnest/internal/shared/infrastructure/persistence"
)

// SQLiteSubscriptionRepository implements domain.SubscriptionRepository
// using SQLite, for the local single-user mode.
type SQLiteSubscriptionRepository struct {
	dbConn *sql.DB
}

// NewSQLiteSubscriptionRepository creates a new SQLite subscription
// repository.
func NewSQLiteSubscriptionRepository(dbConn *sql.DB) *SQLiteSubscriptionRepository {
	return &SQLiteSubscriptionRepository{dbConn: dbConn}
}

// Save upserts a subscription. Timestamps are stored as RFC 3339 text.
func (r *SQLiteSubscriptionRepository) Save(ctx context.Context, sub *domain.Subscription) error {
	query := `
		INSERT INTO subscriptions (
			id, customer_id, property_type, billing_cycle, status,
			period_start, period_end, next_billing_date, auto_renew,
			pending_property_type, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			property_type = excluded.property_type,
			status = excluded.status,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			next_billing_date = excluded.next_billing_date,
			auto_renew = excluded.auto_renew,
			pending_property_type = excluded.pending_property_type,
			version = excluded.version,
			updated_at = excluded.updated_at
	`

	var pending sql.NullString
	if p := sub.PendingPropertyType(); p != nil {
		pending = sql.NullString{String: p.String(), Valid: true}
	}
	var nextBilling sql.NullString
	if d := sub.NextBillingDate(); d != nil {
		nextBilling = sql.NullString{String: d.Format(time.RFC3339), Valid: true}
	}

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	_, err := exec.ExecContext(ctx, query,
		sub.ID().String(),
		sub.CustomerID().String(),
		sub.PropertyType().String(),
		sub.BillingCycle().String(),
		string(sub.Status()),
		sub.Period().Start().Format(time.RFC3339),
		sub.Period().End().Format(time.RFC3339),
		nextBilling,
		boolToInt(sub.AutoRenew()),
		pending,
		sub.Version(),
		sub.CreatedAt().Format(time.RFC3339),
		sub.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves a subscription by its ID. Returns (nil, nil) when no
// row matches.
func (r *SQLiteSubscriptionRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Subscription, error) {
	query := sqliteSubscriptionSelect + ` WHERE id = ?`

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	return r.scanOne(exec.QueryRowContext(ctx, query, id.String()))
}

// FindByCustomerID retrieves the customer's most recent subscription.
func (r *SQLiteSubscriptionRepository) FindByCustomerID(ctx context.Context, customerID uuid.UUID) (*domain.Subscription, error) {
	query := sqliteSubscriptionSelect + ` WHERE customer_id = ? ORDER BY created_at DESC LIMIT 1`

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	return r.scanOne(exec.QueryRowContext(ctx, query, customerID.String()))
}

// FindDueForRenewal retrieves subscriptions whose billing date has passed.
func (r *SQLiteSubscriptionRepository) FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*domain.Subscription, error) {
	query := sqliteSubscriptionSelect + `
		WHERE status <> 'CANCELLED'
		  AND (
			(next_billing_date IS NOT NULL AND next_billing_date <= ?)
			OR (auto_renew = 0 AND period_end <= ?)
		  )
		ORDER BY period_end ASC
		LIMIT ?
	`

	cutoff := asOf.Format(time.RFC3339)
	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	rows, err := exec.QueryContext(ctx, query, cutoff, cutoff, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var subs []*domain.Subscription
	for rows.Next() {
		sub, err := scanSQLiteSubscription(rows)
		if err != nil {
			return nil, err
		}
		subs = append(subs, sub)
	}
	return subs, rows.Err()
}

const sqliteSubscriptionSelect = `
	SELECT id, customer_id, property_type, billing_cycle, status,
	       period_start, period_end, next_billing_date, auto_renew,
	       pending_property_type, version, created_at, updated_at
	FROM subscriptions
`

type sqliteScanner interface {
	Scan(dest ...any) error
}

func (r *SQLiteSubscriptionRepository) scanOne(row *sql.Row) (*domain.Subscription, error) {
	sub, err := scanSQLiteSubscription(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return sub, nil
}

func scanSQLiteSubscription(row sqliteScanner) (*domain.Subscription, error) {
	var (
		id, customerID, propertyType, billingCycle, status string
		periodStart, periodEnd, createdAt, updatedAt       string
		nextBilling, pending                               sql.NullString
		autoRenew, version                                 int
	)
	if err := row.Scan(
		&id, &customerID, &propertyType, &billingCycle, &status,
		&periodStart, &periodEnd, &nextBilling, &autoRenew,
		&pending, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	subID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse subscription id: %w", err)
	}
	custID, err := uuid.Parse(customerID)
	if err != nil {
		return nil, fmt.Errorf("parse customer id: %w", err)
	}
	start, err := time.Parse(time.RFC3339, periodStart)
	if err != nil {
		return nil, err
	}
	end, err := time.Parse(time.RFC3339, periodEnd)
	if err != nil {
		return nil, err
	}
	created, err := time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, err
	}
	updated, err := time.Parse(time.RFC3339, updatedAt)
	if err != nil {
		return nil, err
	}

	var nextBillingDate *time.Time
	if nextBilling.Valid {
		t, err := time.Parse(time.RFC3339, nextBilling.String)
		if err != nil {
			return nil, err
		}
		nextBillingDate = &t
	}
	var pendingType *catalog.PropertyType
	if pending.Valid {
		p, err := catalog.ParsePropertyType(pending.String)
		if err != nil {
			return nil, err
		}
		pendingType = &p
	}

	return domain.RehydrateSubscription(
		shared.RehydrateBaseEntity(subID, created, updated),
		version,
		custID,
		catalog.PropertyType(propertyType),
		domain.BillingCycle(billingCycle),
		domain.SubscriptionStatus(status),
		start,
		end,
		nextBillingDate,
		autoRenew != 0,
		pendingType,
	)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
