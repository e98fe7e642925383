package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/example/garden/internal/ctxutil"
	"github.com/example/garden/internal/ports/secondary"
)

// EventLogRepository implements secondary.EventLog with SQLite. The acting
// user is taken from the context.
type EventLogRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewEventLogRepository creates a new SQLite event log.
func NewEventLogRepository(db *sql.DB) *EventLogRepository {
	return &EventLogRepository{db: db, now: time.Now}
}

// Record appends an event about userID.
func (r *EventLogRepository) Record(ctx context.Context, userID, kind, message string) error {
	var actorID sql.NullString
	if actor := ctxutil.ActorFromContext(ctx); actor != "" {
		actorID = sql.NullString{String: actor, Valid: true}
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO event_log (id, user_id, actor_id, kind, message, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		"EVT-"+uuid.NewString(),
		userID,
		actorID,
		kind,
		message,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to record %s event: %w", kind, err)
	}
	return nil
}

// List retrieves events matching the given filters, newest first.
func (r *EventLogRepository) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	query := `SELECT id, user_id, actor_id, kind, message, created_at FROM event_log WHERE 1=1`
	args := []any{}

	if filters.UserID != "" {
		query += " AND user_id = ?"
		args = append(args, filters.UserID)
	}
	if filters.Kind != "" {
		query += " AND kind = ?"
		args = append(args, filters.Kind)
	}

	query += " ORDER BY created_at DESC, rowid DESC"

	if filters.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filters.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	var events []*secondary.EventRecord
	for rows.Next() {
		var (
			actorID   sql.NullString
			createdAt time.Time
		)
		record := &secondary.EventRecord{}
		if err := rows.Scan(&record.ID, &record.UserID, &actorID, &record.Kind, &record.Message, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		record.ActorID = actorID.String
		record.CreatedAt = createdAt.Format(time.RFC3339)
		events = append(events, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}
	return events, nil
}

// PruneOlderThan deletes events older than the given number of days.
func (r *EventLogRepository) PruneOlderThan(ctx context.Context, days int) (int, error) {
	cutoff := r.now().UTC().AddDate(0, 0, -days)
	result, err := r.db.ExecContext(ctx, `DELETE FROM event_log WHERE created_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned events: %w", err)
	}
	return int(n), nil
}

// Ensure EventLogRepository implements the interface
var _ secondary.EventLog = (*EventLogRepository)(nil)
