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

// SQLiteMembershipRepository implements domain.MembershipRepository using
// SQLite, for the local single-user mode.
type SQLiteMembershipRepository struct {
	dbConn *sql.DB
}

// NewSQLiteMembershipRepository creates a new SQLite membership repository.
func NewSQLiteMembershipRepository(dbConn *sql.DB) *SQLiteMembershipRepository {
	return &SQLiteMembershipRepository{dbConn: dbConn}
}

// Save upserts a membership.
func (r *SQLiteMembershipRepository) Save(ctx context.Context, m *domain.VendorMembership) error {
	query := `
		INSERT INTO vendor_memberships (
			id, vendor_id, tier, billing_cycle, status,
			period_start, period_end, next_billing_date, auto_renew,
			pending_tier, version, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			tier = excluded.tier,
			status = excluded.status,
			period_start = excluded.period_start,
			period_end = excluded.period_end,
			next_billing_date = excluded.next_billing_date,
			auto_renew = excluded.auto_renew,
			pending_tier = excluded.pending_tier,
			version = excluded.version,
			updated_at = excluded.updated_at
	`

	var pending sql.NullString
	if p := m.PendingTier(); p != nil {
		pending = sql.NullString{String: p.String(), Valid: true}
	}
	var nextBilling sql.NullString
	if d := m.NextBillingDate(); d != nil {
		nextBilling = sql.NullString{String: d.Format(time.RFC3339), Valid: true}
	}

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	_, err := exec.ExecContext(ctx, query,
		m.ID().String(),
		m.VendorID().String(),
		m.Tier().String(),
		m.BillingCycle().String(),
		string(m.Status()),
		m.Period().Start().Format(time.RFC3339),
		m.Period().End().Format(time.RFC3339),
		nextBilling,
		boolToInt(m.AutoRenew()),
		pending,
		m.Version(),
		m.CreatedAt().Format(time.RFC3339),
		m.UpdatedAt().Format(time.RFC3339),
	)
	return err
}

// FindByID retrieves a membership by its ID. Returns (nil, nil) when no row
// matches.
func (r *SQLiteMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorMembership, error) {
	query := sqliteMembershipSelect + ` WHERE id = ?`

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	return r.scanOne(exec.QueryRowContext(ctx, query, id.String()))
}

// FindByVendorID retrieves the vendor's most recent membership.
func (r *SQLiteMembershipRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*domain.VendorMembership, error) {
	query := sqliteMembershipSelect + ` WHERE vendor_id = ? ORDER BY created_at DESC LIMIT 1`

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	return r.scanOne(exec.QueryRowContext(ctx, query, vendorID.String()))
}

// FindDueForRenewal retrieves memberships whose billing date has passed.
func (r *SQLiteMembershipRepository) FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*domain.VendorMembership, error) {
	query := sqliteMembershipSelect + `
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

	var memberships []*domain.VendorMembership
	for rows.Next() {
		m, err := scanSQLiteMembership(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

const sqliteMembershipSelect = `
	SELECT id, vendor_id, tier, billing_cycle, status,
	       period_start, period_end, next_billing_date, auto_renew,
	       pending_tier, version, created_at, updated_at
	FROM vendor_memberships
`

func (r *SQLiteMembershipRepository) scanOne(row *sql.Row) (*domain.VendorMembership, error) {
	m, err := scanSQLiteMembership(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func scanSQLiteMembership(row sqliteScanner) (*domain.VendorMembership, error) {
	var (
		id, vendorID, tier, billingCycle, status     string
		periodStart, periodEnd, createdAt, updatedAt string
		nextBilling, pending                         sql.NullString
		autoRenew, version                           int
	)
	if err := row.Scan(
		&id, &vendorID, &tier, &billingCycle, &status,
		&periodStart, &periodEnd, &nextBilling, &autoRenew,
		&pending, &version, &createdAt, &updatedAt,
	); err != nil {
		return nil, err
	}

	membershipID, err := uuid.Parse(id)
	if err != nil {
		return nil, fmt.Errorf("parse membership id: %w", err)
	}
	vendID, err := uuid.Parse(vendorID)
	if err != nil {
		return nil, fmt.Errorf("parse vendor id: %w", err)
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
	var pendingTier *catalog.TierLevel
	if pending.Valid {
		p, err := catalog.ParseTierLevel(pending.String)
		if err != nil {
			return nil, err
		}
		pendingTier = &p
	}

	return domain.RehydrateVendorMembership(
		shared.RehydrateBaseEntity(membershipID, created, updated),
		version,
		vendID,
		catalog.TierLevel(tier),
		domain.BillingCycle(billingCycle),
		domain.SubscriptionStatus(status),
		start,
		end,
		nextBillingDate,
		autoRenew != 0,
		pendingTier,
	)
}
