package app

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/fusion"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/logging"
	"github.com/example/garden/internal/ports/secondary"
)

// ============================================================================
// Mock Implementations
// ============================================================================

// Ensure mocks implement the interfaces
var (
	_ secondary.StateRepository = (*mockStateRepository)(nil)
	_ secondary.EventLog        = (*mockEventLog)(nil)
	_ secondary.Notifier        = (*mockNotifier)(nil)
)

// mockStateRepository implements secondary.StateRepository for testing.
type mockStateRepository struct {
	mu       sync.Mutex
	state    *secondary.StateRecord
	saves    int
	flushes  int
	loadErr  error
	saveErr  error
	flushErr error
}

func newMockStateRepository() *mockStateRepository {
	return &mockStateRepository{state: &secondary.StateRecord{}}
}

func (m *mockStateRepository) LoadState(ctx context.Context) (*secondary.StateRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	return m.state, nil
}

func (m *mockStateRepository) SaveState(ctx context.Context, state *secondary.StateRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.flushErr != nil {
		return m.flushErr
	}
	m.flushes++
	m.state = state
	return nil
}

func (m *mockStateRepository) SaveProfiles(ctx context.Context, profiles []*secondary.ProfileRecord, global *secondary.GlobalRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	for _, rec := range profiles {
		replaced := false
		for i, existing := range m.state.Profiles {
			if existing.UserID == rec.UserID {
				m.state.Profiles[i] = rec
				replaced = true
			}
		}
		if !replaced {
			m.state.Profiles = append(m.state.Profiles, rec)
		}
	}
	if global != nil {
		m.state.Global = global
	}
	return nil
}

func (m *mockStateRepository) profile(userID string) *secondary.ProfileRecord {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, rec := range m.state.Profiles {
		if rec.UserID == userID {
			return rec
		}
	}
	return nil
}

// mockEventLog implements secondary.EventLog for testing.
type mockEventLog struct {
	mu        sync.Mutex
	events    []*secondary.EventRecord
	recordErr error

	pruned    int
	pruneDays int
}

func newMockEventLog() *mockEventLog {
	return &mockEventLog{}
}

func (m *mockEventLog) Record(ctx context.Context, userID, kind, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.recordErr != nil {
		return m.recordErr
	}
	m.events = append(m.events, &secondary.EventRecord{
		ID:      fmt.Sprintf("EVT-%d", len(m.events)+1),
		UserID:  userID,
		Kind:    kind,
		Message: message,
	})
	return nil
}

func (m *mockEventLog) List(ctx context.Context, filters secondary.EventFilters) ([]*secondary.EventRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []*secondary.EventRecord
	for i := len(m.events) - 1; i >= 0; i-- {
		e := m.events[i]
		if filters.UserID != "" && e.UserID != filters.UserID {
			continue
		}
		if filters.Kind != "" && e.Kind != filters.Kind {
			continue
		}
		out = append(out, e)
		if filters.Limit > 0 && len(out) == filters.Limit {
			break
		}
	}
	return out, nil
}

func (m *mockEventLog) PruneOlderThan(ctx context.Context, days int) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneDays = days
	return m.pruned, nil
}

func (m *mockEventLog) kinds(userID string) []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		if e.UserID == userID {
			out = append(out, e.Kind)
		}
	}
	return out
}

// mockNotifier implements secondary.Notifier for testing.
type mockNotifier struct {
	mu         sync.Mutex
	channel    []string
	direct     []string
	channelErr error
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{}
}

func (m *mockNotifier) NotifyChannel(ctx context.Context, channelID, userID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.channelErr != nil {
		return m.channelErr
	}
	m.channel = append(m.channel, fmt.Sprintf("%s@%s: %s", userID, channelID, message))
	return nil
}

func (m *mockNotifier) NotifyUser(ctx context.Context, userID, message string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.direct = append(m.direct, fmt.Sprintf("%s: %s", userID, message))
	return nil
}

func (m *mockNotifier) directCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.direct)
}

// ============================================================================
// Fixtures
// ============================================================================

// newTestCatalog builds a small catalog:
//   - vanilla plants A and B, shop plant Rose
//   - seedlings Seedling (vanilla) and Odd (no plants)
//   - fusions AB, hidden DustA and invisible Secret
func newTestCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, _, err := catalog.New(testCatalogData())
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func testCatalogData() catalog.Data {
	return catalog.Data{
		BasePlants: []catalog.BasePlant{
			{ID: "A", Name: "A", Type: catalog.TypeBasePlant, Category: "vanilla"},
			{ID: "B", Name: "B", Type: catalog.TypeBasePlant, Category: "vanilla"},
			{ID: "Rose", Name: "Rose", Type: catalog.TypeBasePlant, Category: "shop"},
		},
		Seedlings: []catalog.SeedlingDefinition{
			{ID: "Seedling", Category: "vanilla", Cost: 100, Stock: 5, GrowthMultiplier: 1.0},
			{ID: "Odd", Category: "void", Cost: 100, Stock: 1, GrowthMultiplier: 1.0},
		},
		Fusions: []catalog.FusionRecipe{
			{ID: "AB", Name: "AB", Type: "tier2", Recipe: []string{"A", "B"}, Visibility: catalog.VisibilityVisible},
			{ID: "DustA", Name: "DustA", Type: "tier2", Recipe: []string{"A", "Dust"}, Visibility: catalog.VisibilityHidden},
			{ID: "Secret", Name: "Secret", Type: "tier9", Recipe: []string{"B", "B"}, Visibility: catalog.VisibilityInvisible},
		},
		Materials: map[string]string{"dust": "Dust"},
		Backgrounds: []catalog.Background{
			{ID: "meadow", Name: "Meadow", RequiredFusions: []string{"AB"}},
		},
		RuxShop: []catalog.ShopItemDefinition{
			{ID: garden.ItemStorageShed, Name: "Storage Shed", Cost: 500},
			{ID: "plot_7", Name: "Plot 7", Cost: 1000},
			{ID: "plot_8", Name: "Plot 8", Cost: 2000, Requirements: []string{"plot_7"}},
			{ID: "golden_can", Name: "Golden Can", Cost: 100, Category: "limited", Stock: 2},
		},
		PennyShop: []catalog.ShopItemDefinition{
			{ID: "dust", Name: "Dust", Cost: 50, Type: catalog.TypeMaterial},
		},
		DaveShop: []catalog.ShopItemDefinition{
			{ID: "dust", Name: "Dust", Cost: 75, Stock: 3, Type: catalog.TypeMaterial},
		},
		SalePrices: map[string]int{catalog.TypeBasePlant: 1000, "tier2": 4000, "tier9": 81000},
	}
}

// testEnv wires the services over in-memory mocks.
type testEnv struct {
	repo     *mockStateRepository
	events   *mockEventLog
	notifier *mockNotifier
	store    *ProfileStore
	executor *DefaultEffectExecutor
	locks    *LockTable
	cat      *catalog.Catalog
	resolver *fusion.Resolver
	settings Settings
	now      time.Time
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	logger := logging.Discard()
	repo := newMockStateRepository()
	events := newMockEventLog()
	store := NewProfileStore(repo, logger)
	cat := newTestCatalog(t)
	return &testEnv{
		repo:     repo,
		events:   events,
		notifier: newMockNotifier(),
		store:    store,
		executor: NewEffectExecutor(store, events, logger),
		locks:    NewLockTable(),
		cat:      cat,
		resolver: fusion.NewResolver(cat),
		settings: DefaultSettings(),
		now:      time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC),
	}
}

func (e *testEnv) clock() time.Time { return e.now }

func (e *testEnv) rng() *rand.Rand { return rand.New(rand.NewPCG(1, 2)) }

// seed edits a profile in memory without going through the executor.
func (e *testEnv) seed(userID string, fn func(p *garden.Profile)) {
	e.store.Mutate(userID, fn)
}

func (e *testEnv) gardenService() *GardenServiceImpl {
	s := NewGardenService(e.store, e.executor, e.resolver, e.locks, e.settings, logging.Discard())
	s.now = e.clock
	return s
}

func (e *testEnv) fusionService() *FusionServiceImpl {
	return NewFusionService(e.store, e.executor, e.resolver, e.locks, e.settings, logging.Discard())
}

func (e *testEnv) almanacService() *AlmanacServiceImpl {
	return NewAlmanacService(e.store, e.resolver, e.settings)
}

func (e *testEnv) shopService() *ShopServiceImpl {
	s := NewShopService(e.store, e.executor, e.cat, e.locks, e.settings, e.rng(), logging.Discard())
	s.now = e.clock
	return s
}

func (e *testEnv) tradeService() *TradeServiceImpl {
	s := NewTradeService(e.store, e.executor, e.cat, e.locks, e.notifier, e.settings, logging.Discard())
	s.now = e.clock
	return s
}

func (e *testEnv) adminService() *AdminServiceImpl {
	return NewAdminService(e.store, e.executor, e.resolver, e.events, []string{"seedling \"Odd\" has category \"void\" with no base plants; it will not mature"}, logging.Discard())
}

func (e *testEnv) growthService(shops ShopRefresher) *GrowthServiceImpl {
	return NewGrowthService(e.store, e.cat, shops, e.notifier, e.events, e.rng(), logging.Discard())
}

func plant(id, tier string) garden.Plant {
	return garden.Plant{ID: id, Name: id, Type: tier}
}

func basePlant(id string) garden.Plant {
	return plant(id, catalog.TypeBasePlant)
}

// wantViolation fails unless err is a Violation whose message contains want.
func wantViolation(t *testing.T, err error, want string) {
	t.Helper()
	if err == nil {
		t.Fatalf("expected violation containing %q, got nil", want)
	}
	var v *garden.Violation
	if !errors.As(err, &v) {
		t.Fatalf("expected violation, got %T: %v", err, err)
	}
	if want != "" && !strings.Contains(v.Reason, want) {
		t.Errorf("violation = %q, want it to contain %q", v.Reason, want)
	}
}
