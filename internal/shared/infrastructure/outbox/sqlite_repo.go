package outbox

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/kaiwenho/fixnest/internal/shared/infrastructure/persistence"
)

// SQLiteRepository implements Repository using SQLite, for the local mode.
type SQLiteRepository struct {
	dbConn *sql.DB
}

// NewSQLiteRepository creates a new SQLite outbox repository.
func NewSQLiteRepository(dbConn *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{dbConn: dbConn}
}

// Save stores a new outbox message.
func (r *SQLiteRepository) Save(ctx context.Context, msg *Message) error {
	query := `
		INSERT INTO outbox (
			event_id, aggregate_type, aggregate_id, event_type, routing_key,
			payload, metadata, created_at, next_retry_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var nextRetry sql.NullString
	if msg.NextRetryAt != nil {
		nextRetry = sql.NullString{String: msg.NextRetryAt.Format(time.RFC3339), Valid: true}
	}
	var metadata sql.NullString
	if len(msg.Metadata) > 0 {
		metadata = sql.NullString{String: string(msg.Metadata), Valid: true}
	}

	exec := persistence.SQLiteExec(ctx, r.dbConn)
	result, err := exec.ExecContext(ctx, query,
		msg.EventID.String(),
		msg.AggregateType,
		msg.AggregateID.String(),
		msg.EventType,
		msg.RoutingKey,
		string(msg.Payload),
		metadata,
		msg.CreatedAt.Format(time.RFC3339),
		nextRetry,
	)
	if err != nil {
		return err
	}
	msg.ID, err = result.LastInsertId()
	return err
}

// SaveBatch stores multiple outbox messages in the caller's transaction.
func (r *SQLiteRepository) SaveBatch(ctx context.Context, msgs []*Message) error {
	for _, msg := range msgs {
		if err := r.Save(ctx, msg); err != nil {
			return err
		}
	}
	return nil
}

// GetUnpublished retrieves unpublished, non-dead messages due for delivery.
func (r *SQLiteRepository) GetUnpublished(ctx context.Context, limit int) ([]*Message, error) {
	query := `
		SELECT id, event_id, aggregate_type, aggregate_id, event_type, routing_key,
		       payload, metadata, created_at, published_at, next_retry_at,
		       retry_count, last_error, dead_lettered_at, dead_letter_reason
		FROM outbox
		WHERE published_at IS NULL
		  AND dead_lettered_at IS NULL
		  AND (next_retry_at IS NULL OR next_retry_at <= ?)
		ORDER BY created_at ASC
		LIMIT ?
	`

	exec := persistence.SQLiteExec(ctx, r.dbConn)
	rows, err := exec.QueryContext(ctx, query, time.Now().UTC().Format(time.RFC3339), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var msgs []*Message
	for rows.Next() {
		msg, err := scanSQLiteMessage(rows)
		if err != nil {
			return nil, err
		}
		msgs = append(msgs, msg)
	}
	return msgs, rows.Err()
}

// MarkPublished records a successful publish.
func (r *SQLiteRepository) MarkPublished(ctx context.Context, id int64) error {
	exec := persistence.SQLiteExec(ctx, r.dbConn)
	_, err := exec.ExecContext(ctx,
		`UPDATE outbox SET published_at = ? WHERE id = ?`,
		time.Now().UTC().Format(time.RFC3339), id)
	return err
}

// MarkFailed records a publish failure and schedules the next retry.
func (r *SQLiteRepository) MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error {
	exec := persistence.SQLiteExec(ctx, r.dbConn)
	_, err := exec.ExecContext(ctx, `
		UPDATE outbox
		SET retry_count = retry_count + 1, last_error = ?, next_retry_at = ?
		WHERE id = ?
	`, errMsg, nextRetryAt.UTC().Format(time.RFC3339), id)
	return err
}

// MarkDead moves a message to the dead-letter state.
func (r *SQLiteRepository) MarkDead(ctx context.Context, id int64, reason string) error {
	exec := persistence.SQLiteExec(ctx, r.dbConn)
	_, err := exec.ExecContext(ctx, `
		UPDATE outbox
		SET dead_lettered_at = ?, dead_letter_reason = ?
		WHERE id = ?
	`, time.Now().UTC().Format(time.RFC3339), reason, id)
	return err
}

// DeleteOld removes published messages older than the retention period.
func (r *SQLiteRepository) DeleteOld(ctx context.Context, olderThanDays int) (int64, error) {
	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays).Format(time.RFC3339)
	exec := persistence.SQLiteExec(ctx, r.dbConn)
	result, err := exec.ExecContext(ctx,
		`DELETE FROM outbox WHERE published_at IS NOT NULL AND published_at < ?`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type sqliteRowScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteMessage(row sqliteRowScanner) (*Message, error) {
	var (
		msg                                Message
		eventID, aggregateID, createdAt    string
		payload                            string
		metadata, publishedAt, nextRetryAt sql.NullString
		lastError, deadAt, deadReason      sql.NullString
	)
	if err := row.Scan(
		&msg.ID, &eventID, &msg.AggregateType, &aggregateID, &msg.EventType,
		&msg.RoutingKey, &payload, &metadata, &createdAt, &publishedAt,
		&nextRetryAt, &msg.RetryCount, &lastError, &deadAt, &deadReason,
	); err != nil {
		return nil, err
	}

	var err error
	if msg.EventID, err = uuid.Parse(eventID); err != nil {
		return nil, err
	}
	if msg.AggregateID, err = uuid.Parse(aggregateID); err != nil {
		return nil, err
	}
	if msg.CreatedAt, err = time.Parse(time.RFC3339, createdAt); err != nil {
		return nil, err
	}
	msg.Payload = []byte(payload)
	if metadata.Valid {
		msg.Metadata = []byte(metadata.String)
	}
	if publishedAt.Valid {
		t, err := time.Parse(time.RFC3339, publishedAt.String)
		if err != nil {
			return nil, err
		}
		msg.PublishedAt = &t
	}
	if nextRetryAt.Valid {
		t, err := time.Parse(time.RFC3339, nextRetryAt.String)
		if err != nil {
			return nil, err
		}
		msg.NextRetryAt = &t
	}
	if lastError.Valid {
		msg.LastError = &lastError.String
	}
	if deadAt.Valid {
		t, err := time.Parse(time.RFC3339, deadAt.String)
		if err != nil {
			return nil, err
		}
		msg.DeadLetteredAt = &t
	}
	if deadReason.Valid {
		msg.DeadLetterReason = &deadReason.String
	}
	return &msg, nil
}
