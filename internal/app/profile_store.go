package app

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/ports/secondary"
)

// ProfileStore owns every profile and the global state. It is the only
// writer to the StateRepository. Reads hand out Views; writes go through
// Transact (persisted immediately) or Mutate plus Flush (the tick).
type ProfileStore struct {
	mu       sync.Mutex
	repo     secondary.StateRepository
	logger   *slog.Logger
	profiles map[string]*garden.Profile
	global   *garden.Global

	// Used when the repository has no global record yet.
	defaultGrowthMinutes int
	defaultPennyHours    int
}

// NewProfileStore creates an empty store. Call Load to read persisted state.
func NewProfileStore(repo secondary.StateRepository, logger *slog.Logger) *ProfileStore {
	return &ProfileStore{
		repo:     repo,
		logger:   logger,
		profiles: make(map[string]*garden.Profile),
		global:   garden.NewGlobal(),
	}
}

// Load replaces in-memory state with the persisted snapshot.
func (s *ProfileStore) Load(ctx context.Context) error {
	state, err := s.repo.LoadState(ctx)
	if err != nil {
		return fmt.Errorf("failed to load state: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.profiles = make(map[string]*garden.Profile, len(state.Profiles))
	for _, rec := range state.Profiles {
		s.profiles[rec.UserID] = recordToProfile(rec)
	}
	s.global = recordToGlobal(state.Global)
	if state.Global == nil {
		if s.defaultGrowthMinutes > 0 {
			s.global.GrowthDurationMinutes = s.defaultGrowthMinutes
		}
		if s.defaultPennyHours > 0 {
			s.global.PennyIntervalHours = s.defaultPennyHours
		}
		s.global.Repair()
	}
	s.logger.Info("state loaded", "profiles", len(s.profiles))
	return nil
}

// SetGlobalDefaults sets the growth duration and Penny interval a fresh
// deployment starts with. Call it before Load.
func (s *ProfileStore) SetGlobalDefaults(growthMinutes, pennyHours int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaultGrowthMinutes = growthMinutes
	s.defaultPennyHours = pennyHours
}

// profile returns the canonical profile, creating it with defaults.
// Caller holds mu.
func (s *ProfileStore) profile(userID string) *garden.Profile {
	p, ok := s.profiles[userID]
	if !ok {
		p = garden.NewProfile(userID)
		s.profiles[userID] = p
	}
	return p
}

// View returns a read-only snapshot of a user, creating the profile on first use.
func (s *ProfileStore) View(userID string) garden.View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return garden.NewView(s.profile(userID))
}

// Exists reports whether a profile has been created.
func (s *ProfileStore) Exists(userID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.profiles[userID]
	return ok
}

// UserIDs returns every known user id, sorted.
func (s *ProfileStore) UserIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, 0, len(s.profiles))
	for id := range s.profiles {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Global returns a copy of the global state.
func (s *ProfileStore) Global() *garden.Global {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.global.Clone()
}

// Ranked is one leaderboard row.
type Ranked struct {
	UserID  string
	Balance int
}

// Leaderboard ranks all profiles by balance, highest first; ties by user id.
func (s *ProfileStore) Leaderboard() []Ranked {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Ranked, 0, len(s.profiles))
	for id, p := range s.profiles {
		out = append(out, Ranked{UserID: id, Balance: p.Balance})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Balance != out[j].Balance {
			return out[i].Balance > out[j].Balance
		}
		return out[i].UserID < out[j].UserID
	})
	return out
}

// Rank returns the 1-indexed leaderboard position of a user.
func (s *ProfileStore) Rank(userID string) (int, bool) {
	for i, r := range s.Leaderboard() {
		if r.UserID == userID {
			return i + 1, true
		}
	}
	return 0, false
}

// Tx is a unit of work over cloned profiles. Nothing is visible to other
// callers until Transact commits it.
type Tx struct {
	store    *ProfileStore
	profiles map[string]*garden.Profile
	order    []string
	global   *garden.Global
}

// Profile returns the transaction's working copy of a user.
func (tx *Tx) Profile(userID string) *garden.Profile {
	if p, ok := tx.profiles[userID]; ok {
		return p
	}
	p := tx.store.profile(userID).Clone()
	tx.profiles[userID] = p
	tx.order = append(tx.order, userID)
	return p
}

// Global returns the transaction's working copy of the global state.
func (tx *Tx) Global() *garden.Global {
	if tx.global == nil {
		tx.global = tx.store.global.Clone()
	}
	return tx.global
}

// Transact runs fn over working copies. If fn succeeds the touched profiles
// (and global state, if used) are persisted and then committed; otherwise
// nothing changes.
func (s *ProfileStore) Transact(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &Tx{store: s, profiles: make(map[string]*garden.Profile)}
	if err := fn(tx); err != nil {
		return err
	}

	recs := make([]*secondary.ProfileRecord, 0, len(tx.order))
	for _, id := range tx.order {
		recs = append(recs, profileToRecord(tx.profiles[id]))
	}
	var globalRec *secondary.GlobalRecord
	if tx.global != nil {
		globalRec = globalToRecord(tx.global)
	}
	if err := s.repo.SaveProfiles(ctx, recs, globalRec); err != nil {
		return fmt.Errorf("failed to save profiles: %w", err)
	}

	for _, id := range tx.order {
		s.profiles[id] = tx.profiles[id]
	}
	if tx.global != nil {
		s.global = tx.global
	}
	return nil
}

// Mutate changes one profile in memory only. The change is persisted by the
// next Transact on that user or the next Flush.
func (s *ProfileStore) Mutate(userID string, fn func(p *garden.Profile)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.profile(userID))
}

// MutateGlobal changes the global state in memory only.
func (s *ProfileStore) MutateGlobal(fn func(g *garden.Global)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.global)
}

// Flush writes the whole state back in one transaction.
func (s *ProfileStore) Flush(ctx context.Context) error {
	s.mu.Lock()
	state := &secondary.StateRecord{Global: globalToRecord(s.global)}
	for _, p := range s.profiles {
		state.Profiles = append(state.Profiles, profileToRecord(p))
	}
	s.mu.Unlock()

	sort.Slice(state.Profiles, func(i, j int) bool { return state.Profiles[i].UserID < state.Profiles[j].UserID })
	if err := s.repo.SaveState(ctx, state); err != nil {
		return fmt.Errorf("failed to flush state: %w", err)
	}
	return nil
}

// Snapshot returns deep copies of every profile and the global state.
func (s *ProfileStore) Snapshot() ([]*garden.Profile, *garden.Global) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*garden.Profile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out, s.global.Clone()
}
