package app

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"runtime/debug"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/core/growth"
	"github.com/example/garden/internal/logging"
	"github.com/example/garden/internal/ports/primary"
	"github.com/example/garden/internal/ports/secondary"
)

// DefaultTickSchedule runs one second past every minute.
const DefaultTickSchedule = "1 * * * * *"

// ShopRefresher regenerates shop rotations whose boundary has passed.
type ShopRefresher interface {
	RefreshDue(ctx context.Context) (*primary.RefreshReport, error)
}

// GrowthServiceImpl implements the GrowthService interface.
type GrowthServiceImpl struct {
	store    *ProfileStore
	cat      *catalog.Catalog
	shops    ShopRefresher
	notifier secondary.Notifier
	events   secondary.EventLog
	logger   *slog.Logger

	mu    sync.Mutex // serializes ticks and guards rng
	rng   *rand.Rand
	cycle int

	// Promotions wait here until a flush succeeds so none go unannounced.
	unannounced []maturedSeedling
}

// NewGrowthService creates a new GrowthService with injected dependencies.
func NewGrowthService(
	store *ProfileStore,
	cat *catalog.Catalog,
	shops ShopRefresher,
	notifier secondary.Notifier,
	events secondary.EventLog,
	rng *rand.Rand,
	logger *slog.Logger,
) *GrowthServiceImpl {
	return &GrowthServiceImpl{
		store:    store,
		cat:      cat,
		shops:    shops,
		notifier: notifier,
		events:   events,
		rng:      rng,
		logger:   logger,
	}
}

type maturedSeedling struct {
	userID string
	growth.Maturation
}

// Tick advances every seedling once, promotes the mature ones, refreshes
// due shops and writes the whole state back.
func (s *GrowthServiceImpl) Tick(ctx context.Context) (*primary.TickReport, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	s.cycle++
	report := &primary.TickReport{Cycle: s.cycle}
	duration := s.store.Global().GrowthDurationMinutes

	for _, userID := range s.store.UserIDs() {
		var result growth.TickResult
		s.store.Mutate(userID, func(p *garden.Profile) {
			result = growth.Tick(p, s.cat, s.rng, duration)
		})
		report.Users++
		report.Advanced += result.Advanced
		report.Matured += len(result.Matured)
		report.Stuck += len(result.Stuck)

		for _, m := range result.Matured {
			s.unannounced = append(s.unannounced, maturedSeedling{userID: userID, Maturation: m})
		}
		for _, m := range result.Stuck {
			logging.Critical(ctx, s.logger, "no base plant for seedling category; maturation aborted",
				"user", userID, "slot", m.Slot, "seedling", m.Seedling.ID, "category", m.Category)
		}
	}

	if s.shops != nil {
		refreshed, err := s.shops.RefreshDue(ctx)
		if err != nil {
			s.logger.Error("shop refresh failed", "cycle", s.cycle, "error", err)
		} else {
			report.Refreshed = *refreshed
		}
	}

	if err := s.store.Flush(ctx); err != nil {
		if len(s.unannounced) > 0 {
			s.logger.Warn("maturation notices deferred until the state is written", "pending", len(s.unannounced))
		}
		return nil, err
	}

	for _, m := range s.unannounced {
		s.announce(ctx, m)
	}
	s.unannounced = nil

	report.Duration = time.Since(start)
	s.logger.Info("growth cycle completed",
		"cycle", report.Cycle,
		"users", report.Users,
		"matured", report.Matured,
		"duration", report.Duration)
	return report, nil
}

// announce tells the owner in the planting channel, falling back to a
// direct message, and records the maturation.
func (s *GrowthServiceImpl) announce(ctx context.Context, m maturedSeedling) {
	msg := fmt.Sprintf("Your %s in plot %d has matured into a %s.", m.Seedling.DisplayName(), m.Slot, m.Plant.DisplayName())

	if s.events != nil {
		if err := s.events.Record(ctx, m.userID, "maturation", fmt.Sprintf("plot %d: %s", m.Slot, m.Plant.ID)); err != nil {
			s.logger.Error("failed to record event", "kind", "maturation", "user", m.userID, "error", err)
		}
	}
	if s.notifier == nil {
		return
	}
	if ch := m.Seedling.NotificationChannelID; ch != "" {
		err := s.notifier.NotifyChannel(ctx, ch, m.userID, msg)
		if err == nil {
			return
		}
		s.logger.Debug("channel notification failed, sending direct message", "user", m.userID, "channel", ch, "error", err)
	}
	if err := s.notifier.NotifyUser(ctx, m.userID, msg); err != nil {
		s.logger.Warn("failed to notify user", "user", m.userID, "error", err)
	}
}

// Ensure GrowthServiceImpl implements the interface.
var _ primary.GrowthService = (*GrowthServiceImpl)(nil)

// MaturationScheduler runs the growth tick on a cron schedule. A failing or
// panicking tick is logged and the next one runs as planned.
type MaturationScheduler struct {
	growth   primary.GrowthService
	schedule string
	loc      *time.Location
	logger   *slog.Logger

	cron *cron.Cron
}

// NewMaturationScheduler creates a scheduler. An empty schedule means
// DefaultTickSchedule; schedules use six fields with seconds first.
func NewMaturationScheduler(g primary.GrowthService, schedule string, loc *time.Location, logger *slog.Logger) *MaturationScheduler {
	if schedule == "" {
		schedule = DefaultTickSchedule
	}
	if loc == nil {
		loc = time.UTC
	}
	return &MaturationScheduler{growth: g, schedule: schedule, loc: loc, logger: logger}
}

// Start registers the tick and starts the cron loop in the background.
func (m *MaturationScheduler) Start(ctx context.Context) error {
	cl := cronLogger{m.logger}
	c := cron.New(
		cron.WithSeconds(),
		cron.WithLocation(m.loc),
		cron.WithLogger(cl),
		cron.WithChain(cron.SkipIfStillRunning(cl)),
	)
	if _, err := c.AddFunc(m.schedule, func() { m.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("invalid tick schedule %q: %w", m.schedule, err)
	}
	m.cron = c
	c.Start()
	m.logger.Info("maturation scheduler started", "schedule", m.schedule)
	return nil
}

// Stop halts the schedule and waits for a running tick to finish.
func (m *MaturationScheduler) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
	m.logger.Info("maturation scheduler stopped")
}

// RunOnce runs a single tick, converting panics into CRITICAL logs.
func (m *MaturationScheduler) RunOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			logging.Critical(ctx, m.logger, "growth cycle panicked", "panic", r, "stack", string(debug.Stack()))
		}
	}()
	if _, err := m.growth.Tick(ctx); err != nil {
		logging.Critical(ctx, m.logger, "growth cycle failed", "error", err)
	}
}

// cronLogger adapts slog to cron's logger interface.
type cronLogger struct{ l *slog.Logger }

func (c cronLogger) Info(msg string, keysAndValues ...any) {
	c.l.Debug("cron: "+msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...any) {
	c.l.Error("cron: "+msg, append(keysAndValues, "error", err)...)
}
