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

// PostgresMembershipRepository implements domain.MembershipRepository using
// PostgreSQL.
type PostgresMembershipRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresMembershipRepository creates a new PostgreSQL membership
// repository.
func NewPostgresMembershipRepository(pool *pgxpool.Pool) *PostgresMembershipRepository {
	return &PostgresMembershipRepository{pool: pool}
}

// membershipRow represents a database row for vendor memberships.
type membershipRow struct {
	ID              uuid.UUID
	VendorID        uuid.UUID
	Tier            string
	BillingCycle    string
	Status          string
	PeriodStart     time.Time
	PeriodEnd       time.Time
	NextBillingDate *time.Time
	AutoRenew       bool
	PendingTier     *string
	Version         int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

const membershipColumns = `
	id, vendor_id, tier, billing_cycle, status,
	period_start, period_end, next_billing_date, auto_renew,
	pending_tier, version, created_at, updated_at
`

// Save upserts a membership.
func (r *PostgresMembershipRepository) Save(ctx context.Context, m *domain.VendorMembership) error {
	query := `
		INSERT INTO vendor_memberships (
			id, vendor_id, tier, billing_cycle, status,
			period_start, period_end, next_billing_date, auto_renew,
			pending_tier, version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (id) DO UPDATE SET
			tier = EXCLUDED.tier,
			status = EXCLUDED.status,
			period_start = EXCLUDED.period_start,
			period_end = EXCLUDED.period_end,
			next_billing_date = EXCLUDED.next_billing_date,
			auto_renew = EXCLUDED.auto_renew,
			pending_tier = EXCLUDED.pending_tier,
			version = EXCLUDED.version,
			updated_at = NOW()
	`

	var pending *string
	if p := m.PendingTier(); p != nil {
		s := p.String()
		pending = &s
	}

	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		m.ID(),
		m.VendorID(),
		m.Tier().String(),
		m.BillingCycle().String(),
		string(m.Status()),
		m.Period().Start(),
		m.Period().End(),
		m.NextBillingDate(),
		m.AutoRenew(),
		pending,
		m.Version(),
		m.CreatedAt(),
		m.UpdatedAt(),
	)
	return err
}

// FindByID retrieves a membership by its ID. Returns (nil, nil) when no row
// matches. Inside a unit of work the row is locked so concurrent tier
// changes against a stale period cannot both commit.
func (r *PostgresMembershipRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.VendorMembership, error) {
	query := `SELECT ` + membershipColumns + ` FROM vendor_memberships WHERE id = $1`
	if _, ok := sharedPersistence.TxInfoFromContext(ctx); ok {
		query += ` FOR UPDATE`
	}

	exec := sharedPersistence.Executor(ctx, r.pool)
	return r.scanOne(exec.QueryRow(ctx, query, id))
}

// FindByVendorID retrieves the vendor's most recent membership. Returns
// (nil, nil) when the vendor has none.
func (r *PostgresMembershipRepository) FindByVendorID(ctx context.Context, vendorID uuid.UUID) (*domain.VendorMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM vendor_memberships
		WHERE vendor_id = $1
		ORDER BY created_at DESC
		LIMIT 1
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	return r.scanOne(exec.QueryRow(ctx, query, vendorID))
}

// FindDueForRenewal retrieves memberships whose billing date has passed,
// oldest first.
func (r *PostgresMembershipRepository) FindDueForRenewal(ctx context.Context, asOf time.Time, limit int) ([]*domain.VendorMembership, error) {
	query := `
		SELECT ` + membershipColumns + `
		FROM vendor_memberships
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

	var memberships []*domain.VendorMembership
	for rows.Next() {
		m, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		memberships = append(memberships, m)
	}
	return memberships, rows.Err()
}

func (r *PostgresMembershipRepository) scanOne(row pgx.Row) (*domain.VendorMembership, error) {
	m, err := r.scanRow(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return m, nil
}

func (r *PostgresMembershipRepository) scanRow(row pgx.Row) (*domain.VendorMembership, error) {
	var m membershipRow
	if err := row.Scan(
		&m.ID,
		&m.VendorID,
		&m.Tier,
		&m.BillingCycle,
		&m.Status,
		&m.PeriodStart,
		&m.PeriodEnd,
		&m.NextBillingDate,
		&m.AutoRenew,
		&m.PendingTier,
		&m.Version,
		&m.CreatedAt,
		&m.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return rowToMembership(m)
}

func rowToMembership(m membershipRow) (*domain.VendorMembership, error) {
	var pending *catalog.TierLevel
	if m.PendingTier != nil {
		p, err := catalog.ParseTierLevel(*m.PendingTier)
		if err != nil {
			return nil, err
		}
		pending = &p
	}

	return domain.RehydrateVendorMembership(
		shared.RehydrateBaseEntity(m.ID, m.CreatedAt, m.UpdatedAt),
		m.Version,
		m.VendorID,
		catalog.TierLevel(m.Tier),
		domain.BillingCycle(m.BillingCycle),
		domain.SubscriptionStatus(m.Status),
		m.PeriodStart,
		m.PeriodEnd,
		m.NextBillingDate,
		m.AutoRenew,
		pending,
	)
}
