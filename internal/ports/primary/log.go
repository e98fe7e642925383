package primary

import "context"

// LogService defines the primary port for the game's audit trail.
type LogService interface {
	// ListEvents retrieves audit events matching the given filters, newest first.
	ListEvents(ctx context.Context, filters EventFilters) ([]*Event, error)

	// PruneEvents deletes events older than the specified number of days.
	PruneEvents(ctx context.Context, olderThanDays int) (int, error)
}
