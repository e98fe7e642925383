package sqlite_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/example/garden/internal/adapters/sqlite"
	"github.com/example/garden/internal/ctxutil"
	"github.com/example/garden/internal/ports/secondary"
)

func TestEventLogRepository_RecordAndList(t *testing.T) {
	repo := sqlite.NewEventLogRepository(setupTestDB(t))
	ctx := ctxutil.WithActorID(context.Background(), "admin-1")

	for _, e := range []struct{ user, kind, msg string }{
		{"alice", "sell", "sold A"},
		{"bob", "admin", "balance set to 5"},
		{"alice", "fusion", "fused AB"},
	} {
		if err := repo.Record(ctx, e.user, e.kind, e.msg); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	tests := []struct {
		name    string
		filters secondary.EventFilters
		want    []string
	}{
		{name: "all newest first", filters: secondary.EventFilters{}, want: []string{"fused AB", "balance set to 5", "sold A"}},
		{name: "by user", filters: secondary.EventFilters{UserID: "alice"}, want: []string{"fused AB", "sold A"}},
		{name: "by kind", filters: secondary.EventFilters{Kind: "admin"}, want: []string{"balance set to 5"}},
		{name: "limit", filters: secondary.EventFilters{Limit: 1}, want: []string{"fused AB"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			events, err := repo.List(context.Background(), tt.filters)
			if err != nil {
				t.Fatalf("List() error = %v", err)
			}
			var got []string
			for _, e := range events {
				got = append(got, e.Message)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("messages = %v, want %v", got, tt.want)
			}
		})
	}

	events, _ := repo.List(context.Background(), secondary.EventFilters{Limit: 1})
	e := events[0]
	if e.ActorID != "admin-1" || !strings.HasPrefix(e.ID, "EVT-") || e.CreatedAt == "" {
		t.Errorf("event = %+v", e)
	}
}

func TestEventLogRepository_NoActor(t *testing.T) {
	repo := sqlite.NewEventLogRepository(setupTestDB(t))
	if err := repo.Record(context.Background(), "alice", "maturation", "plot 1: A"); err != nil {
		t.Fatal(err)
	}
	events, err := repo.List(context.Background(), secondary.EventFilters{})
	if err != nil {
		t.Fatal(err)
	}
	if len(events) != 1 || events[0].ActorID != "" {
		t.Errorf("events = %+v, want one without actor", events)
	}
}

func TestEventLogRepository_PruneOlderThan(t *testing.T) {
	testDB := setupTestDB(t)
	repo := sqlite.NewEventLogRepository(testDB)
	ctx := context.Background()

	old := time.Now().UTC().AddDate(0, 0, -40)
	if _, err := testDB.Exec(`INSERT INTO event_log (id, user_id, kind, message, created_at) VALUES ('EVT-old', 'alice', 'sell', 'old', ?)`, old); err != nil {
		t.Fatal(err)
	}
	if err := repo.Record(ctx, "alice", "sell", "new"); err != nil {
		t.Fatal(err)
	}

	n, err := repo.PruneOlderThan(ctx, 30)
	if err != nil {
		t.Fatalf("PruneOlderThan() error = %v", err)
	}
	if n != 1 {
		t.Errorf("pruned = %d, want 1", n)
	}
	if got := countRows(t, testDB, "event_log"); got != 1 {
		t.Errorf("remaining = %d, want 1", got)
	}
}
