package primary

import (
	"context"
	"time"
)

// GrowthService defines the primary port for the maturation cycle.
type GrowthService interface {
	// Tick advances every seedling once, refreshes due shops and flushes state.
	Tick(ctx context.Context) (*TickReport, error)
}

// TickReport summarizes one cycle.
type TickReport struct {
	Cycle     int
	Users     int
	Advanced  int
	Matured   int
	Stuck     int
	Refreshed RefreshReport
	Duration  time.Duration
}
