package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/ports/primary"
	"github.com/example/garden/internal/ports/secondary"
)

// LogServiceImpl implements the LogService interface.
type LogServiceImpl struct {
	events secondary.EventLog
	logger *slog.Logger
}

// NewLogService creates a new LogService with injected dependencies.
func NewLogService(events secondary.EventLog, logger *slog.Logger) *LogServiceImpl {
	return &LogServiceImpl{
		events: events,
		logger: logger,
	}
}

// ListEvents retrieves audit events matching the given filters.
func (s *LogServiceImpl) ListEvents(ctx context.Context, filters primary.EventFilters) ([]*primary.Event, error) {
	records, err := s.events.List(ctx, secondary.EventFilters{
		UserID: filters.UserID,
		Kind:   filters.Kind,
		Limit:  filters.Limit,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}

	entries := make([]*primary.Event, len(records))
	for i, r := range records {
		entries[i] = recordToEvent(r)
	}
	return entries, nil
}

// PruneEvents deletes events older than the specified number of days.
func (s *LogServiceImpl) PruneEvents(ctx context.Context, olderThanDays int) (int, error) {
	if olderThanDays < 1 {
		return 0, garden.Violationf("Keep at least one day of events.")
	}
	n, err := s.events.PruneOlderThan(ctx, olderThanDays)
	if err != nil {
		return 0, fmt.Errorf("failed to prune events: %w", err)
	}
	s.logger.Info("events pruned", "older_than_days", olderThanDays, "deleted", n)
	return n, nil
}

func recordToEvent(r *secondary.EventRecord) *primary.Event {
	return &primary.Event{
		ID:        r.ID,
		UserID:    r.UserID,
		ActorID:   r.ActorID,
		Kind:      r.Kind,
		Message:   r.Message,
		CreatedAt: r.CreatedAt,
	}
}

// Ensure LogServiceImpl implements the interface
var _ primary.LogService = (*LogServiceImpl)(nil)
