// Package secondary defines the secondary ports (driven adapters) for the application.
// These are the interfaces through which the application drives external systems.
package secondary

import "context"

// StateRepository defines the secondary port for game state persistence.
type StateRepository interface {
	// LoadState reads every profile and the global record.
	// An empty store returns a StateRecord with no profiles and a nil Global.
	LoadState(ctx context.Context) (*StateRecord, error)

	// SaveState replaces the whole persisted snapshot in one transaction.
	SaveState(ctx context.Context, state *StateRecord) error

	// SaveProfiles replaces the rows of the given profiles and, when non-nil,
	// the global record, in one transaction. Other profiles are untouched.
	SaveProfiles(ctx context.Context, profiles []*ProfileRecord, global *GlobalRecord) error
}

// StateRecord is the full persisted snapshot.
type StateRecord struct {
	Profiles []*ProfileRecord
	Global   *GlobalRecord
}

// ProfileRecord represents one user's profile as stored in persistence.
type ProfileRecord struct {
	UserID              string
	Balance             int
	SunMastery          int
	TimeMastery         int
	LastDaily           string // Empty string means null
	ActiveBackground    string
	Garden              []SlotRecord
	Storage             []SlotRecord
	Inventory           map[string]int
	DiscoveredFusions   []string
	UnlockedBackgrounds []string
	UpdatedAt           string
}

// Slot kinds stored in garden_slots and storage_slots.
const (
	SlotKindSeedling = "seedling"
	SlotKindPlant    = "plant"
)

// SlotRecord is one occupied garden or storage slot (1-indexed).
type SlotRecord struct {
	Slot                  int
	Kind                  string
	ItemID                string
	Name                  string
	Type                  string
	Progress              float64
	NotificationChannelID string
}

// GlobalRecord represents the shared game state.
type GlobalRecord struct {
	GrowthDurationMinutes int
	PennyIntervalHours    int
	LimitedStock          map[string]int
	PennyStock            []StockRecord
	DaveStock             []StockRecord
	LastPennyRefresh      string // RFC 3339, empty string means never
	LastDaveRefresh       string
}

// StockRecord is one line of a shop rotation.
type StockRecord struct {
	ItemID string
	Name   string
	Price  int
	Stock  int
	Type   string
}
