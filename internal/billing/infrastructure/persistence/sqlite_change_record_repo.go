package persistence

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/billing/domain"
	catalog "github.com/kaiwenho/fixnest/internal/catalog/domain"
	sharedPersistence "github.com/kaiwenho/fixnest/internal/shared/infrastructure/persistence"
)

// SQLiteChangeRecordRepository implements domain.ChangeRecordRepository
// using SQLite.
type SQLiteChangeRecordRepository struct {
	dbConn *sql.DB
}

// NewSQLiteChangeRecordRepository creates a new SQLite change record
// repository.
func NewSQLiteChangeRecordRepository(dbConn *sql.DB) *SQLiteChangeRecordRepository {
	return &SQLiteChangeRecordRepository{dbConn: dbConn}
}

// Save inserts an audit record.
func (r *SQLiteChangeRecordRepository) Save(ctx context.Context, record *domain.MembershipChangeRecord) error {
	query := `
		INSERT INTO membership_change_records (
			id, membership_id, vendor_id, from_tier, to_tier,
			change_date, reason, initiated_by
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	_, err := exec.ExecContext(ctx, query,
		record.ID.String(),
		record.MembershipID.String(),
		record.VendorID.String(),
		record.FromTier.String(),
		record.ToTier.String(),
		record.ChangeDate.Format(time.RFC3339),
		record.Reason,
		record.InitiatedBy,
	)
	return err
}

// FindByMembershipID retrieves all records for a membership, newest first.
func (r *SQLiteChangeRecordRepository) FindByMembershipID(ctx context.Context, membershipID uuid.UUID) ([]*domain.MembershipChangeRecord, error) {
	query := `
		SELECT id, membership_id, vendor_id, from_tier, to_tier,
		       change_date, reason, initiated_by
		FROM membership_change_records
		WHERE membership_id = ?
		ORDER BY change_date DESC
	`

	exec := sharedPersistence.SQLiteExec(ctx, r.dbConn)
	rows, err := exec.QueryContext(ctx, query, membershipID.String())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []*domain.MembershipChangeRecord
	for rows.Next() {
		var (
			id, mID, vID, fromTier, toTier, changeDate string
			record                                     domain.MembershipChangeRecord
		)
		if err := rows.Scan(&id, &mID, &vID, &fromTier, &toTier, &changeDate, &record.Reason, &record.InitiatedBy); err != nil {
			return nil, err
		}
		if record.ID, err = uuid.Parse(id); err != nil {
			return nil, err
		}
		if record.MembershipID, err = uuid.Parse(mID); err != nil {
			return nil, err
		}
		if record.VendorID, err = uuid.Parse(vID); err != nil {
			return nil, err
		}
		if record.ChangeDate, err = time.Parse(time.RFC3339, changeDate); err != nil {
			return nil, err
		}
		record.FromTier = catalog.TierLevel(fromTier)
		record.ToTier = catalog.TierLevel(toTier)
		records = append(records, &record)
	}
	return records, rows.Err()
}
