// Package primary defines the primary ports (driving adapters) for the application.
// These are the interfaces through which the command surface drives the game.
package primary

import (
	"context"
	"time"
)

// GardenService defines the primary port for profile and garden operations.
type GardenService interface {
	// GetProfile returns a user's profile, creating it with defaults on first use.
	GetProfile(ctx context.Context, userID string) (*Profile, error)

	// ClaimDaily pays the daily stipend once per calendar day.
	ClaimDaily(ctx context.Context, userID string) (*DailyResponse, error)

	// Plant plants the default seedling into each requested plot.
	Plant(ctx context.Context, req PlantRequest) (*PlantResponse, error)

	// Sell sells mature plants from the requested plots.
	Sell(ctx context.Context, userID string, plots []int) (*SellResponse, error)

	// Shovel clears seedlings from the requested plots.
	Shovel(ctx context.Context, userID string, plots []int) (*ShovelResponse, error)

	// Reorder rearranges the unlocked plots. order lists every unlocked plot
	// once; position i receives what was in order[i].
	Reorder(ctx context.Context, userID string, order []int) error

	// Store moves plants from garden plots into the storage shed.
	Store(ctx context.Context, userID string, plots []int) (*MoveResponse, error)

	// Unstore moves plants from storage slots back into the garden.
	Unstore(ctx context.Context, userID string, slots []int) (*MoveResponse, error)

	// ListBackgrounds lists unlocked and locked backgrounds.
	ListBackgrounds(ctx context.Context, userID string) (*Backgrounds, error)

	// SetBackground activates an unlocked background by id or name.
	SetBackground(ctx context.Context, userID, query string) (*BackgroundInfo, error)

	// Leaderboard returns one page of users ranked by balance.
	Leaderboard(ctx context.Context, page int) (*LeaderboardPage, error)

	// Rank returns a user's 1-indexed leaderboard position, false if unknown.
	Rank(ctx context.Context, userID string) (int, bool, error)
}

// Profile is the read model of a user.
type Profile struct {
	UserID           string
	Balance          int
	SunMastery       int
	TimeMastery      int
	LastDaily        string
	ActiveBackground string
	Garden           []Plot
	Storage          []StoredPlant
	StorageCapacity  int
	Inventory        []InventoryLine
	Discovered       int
	AlmanacTotal     int
}

// Plot is one garden plot.
type Plot struct {
	Slot     int
	Locked   bool
	Empty    bool
	Seedling bool
	ID       string
	Name     string
	Type     string
	Progress float64
}

// StoredPlant is one storage shed slot.
type StoredPlant struct {
	Slot   int
	Locked bool
	Empty  bool
	ID     string
	Name   string
	Type   string
}

// InventoryLine is a held item.
type InventoryLine struct {
	ID       string
	Name     string
	Quantity int
}

// DailyResponse is the outcome of a stipend claim.
type DailyResponse struct {
	Amount    int
	Balance   int
	NextReset time.Time
}

// PlantRequest contains parameters for planting.
type PlantRequest struct {
	UserID    string
	Plots     []int
	ChannelID string // where maturation is announced
}

// PlantResponse reports a plant command.
type PlantResponse struct {
	Planted []int
	Cost    int
	Balance int
	Errors  []string
}

// SellResponse reports a sell command.
type SellResponse struct {
	Earnings          int
	Sold              []string
	Errors            []string
	SunMasteryGained  int
	TimeMasteryGained int
	Balance           int
}

// ShovelResponse reports a shovel command.
type ShovelResponse struct {
	Cleared []int
	Errors  []string
}

// MoveResponse reports a store or unstore command.
type MoveResponse struct {
	Moved  []string
	Errors []string
}

// Backgrounds lists a user's backgrounds.
type Backgrounds struct {
	Active   string
	Unlocked []BackgroundInfo
	Locked   []BackgroundInfo
}

// BackgroundInfo describes one background.
type BackgroundInfo struct {
	ID        string
	Name      string
	ImageFile string
	Required  []string
	Missing   []string
}

// LeaderboardPage is one page of the balance ranking.
type LeaderboardPage struct {
	Entries    []LeaderboardEntry
	Page       int
	TotalPages int
}

// LeaderboardEntry is one ranked user.
type LeaderboardEntry struct {
	Rank    int
	UserID  string
	Balance int
}
