package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	sharedPersistence "github.com/kaiwenho/fixnest/internal/shared/infrastructure/persistence"
)

// PostgresChangeRecordRepository implements domain.ChangeRecordRepository
// using PostgreSQL. Records are append-only.
type PostgresChangeRecordRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresChangeRecordRepository creates a new PostgreSQL change record
// repository.
func NewPostgresChangeRecordRepository(pool *pgxpool.Pool) *PostgresChangeRecordRepository {
	return &PostgresChangeRecordRepository{pool: pool}
}

// Save inserts an audit record.
func (r *PostgresChangeRecordRepository) Save(ctx context.Context, record *domain.MembershipChangeRecord) error {
	query := `
		INSERT INTO membership_change_records (
			id, membership_id, vendor_id, from_tier, to_tier,
			change_date, reason, initiated_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	_, err := exec.Exec(ctx, query,
		record.ID,
		record.MembershipID,
		record.VendorID,
		record.FromTier.String(),
		record.ToTier.String(),
		record.ChangeDate,
		record.Reason,
		record.InitiatedBy,
	)
	return err
}

// FindByMembershipID retrieves all records for a membership, newest first.
func (r *PostgresChangeRecordRepository) FindByMembershipID(ctx context.Context, membershipID uuid.UUID) ([]*domain.MembershipChangeRecord, error) {
	query := `
		SELECT id, membership_id, vendor_id, from_tier, to_tier,
		       change_date, reason, initiated_by
		FROM membership_change_records
		WHERE membership_id = $1
		ORDER BY change_date DESC
	`

	exec := sharedPersistence.Executor(ctx, r.pool)
	rows, err := exec.Query(ctx, query, membershipID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.MembershipChangeRecord
	for rows.Next() {
		var (
			record   domain.MembershipChangeRecord
			fromTier string
			toTier   string
		)
		if err := rows.Scan(
			&record.ID,
			&record.MembershipID,
			&record.VendorID,
			&fromTier,
			&toTier,
			&record.ChangeDate,
			&record.Reason,
			&record.InitiatedBy,
		); err != nil {
			return nil, err
		}
		record.FromTier = catalog.TierLevel(fromTier)
		record.ToTier = catalog.TierLevel(toTier)
		records = append(records, &record)
	}
	return records, rows.Err()
}
