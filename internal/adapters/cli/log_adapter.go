package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/garden/internal/ports/primary"
)

// LogAdapter translates audit trail commands to LogService calls.
type LogAdapter struct {
	service primary.LogService
	out     io.Writer
}

// NewLogAdapter creates a new LogAdapter.
func NewLogAdapter(service primary.LogService, out io.Writer) *LogAdapter {
	return &LogAdapter{service: service, out: out}
}

// List lists audit events.
func (a *LogAdapter) List(ctx context.Context, filters primary.EventFilters) error {
	events, err := a.service.ListEvents(ctx, filters)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "No events found")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-20s %-12s %-12s %-12s %s\n", "TIME", "USER", "ACTOR", "KIND", "MESSAGE")
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range events {
		actor := e.ActorID
		if actor == "" {
			actor = "-"
		}
		fmt.Fprintf(a.out, "%-20s %-12s %-12s %-12s %s\n", e.CreatedAt, e.UserID, actor, e.Kind, e.Message)
	}
	fmt.Fprintln(a.out)
	return nil
}

// Prune deletes events older than days.
func (a *LogAdapter) Prune(ctx context.Context, days int) error {
	n, err := a.service.PruneEvents(ctx, days)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Pruned %d events older than %d days\n", okMark, n, days)
	return nil
}
