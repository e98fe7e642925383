package secondary

import "context"

// EventLog defines the secondary port for the domain audit trail.
// Implementations extract the acting user from context.
type EventLog interface {
	// Record appends an event about userID.
	Record(ctx context.Context, userID, kind, message string) error

	// List retrieves events matching the given filters, newest first.
	List(ctx context.Context, filters EventFilters) ([]*EventRecord, error)

	// PruneOlderThan deletes events older than the given number of days.
	PruneOlderThan(ctx context.Context, days int) (int, error)
}

// EventRecord represents an audit event as stored in persistence.
type EventRecord struct {
	ID        string
	UserID    string
	ActorID   string // Empty string means null
	Kind      string // 'sell', 'fusion', 'trade', 'purchase', 'maturation', 'admin', ...
	Message   string
	CreatedAt string
}

// EventFilters contains filter options for querying events.
type EventFilters struct {
	UserID string
	Kind   string
	Limit  int
}
