package primary

import "context"

// AlmanacService defines the primary port for fusion discovery queries.
// Queries use the filter language: name:, contains:, tier:, discovered:,
// storage:, missing: and a trailing page number.
type AlmanacService interface {
	// Available lists fusions the user can craft right now.
	Available(ctx context.Context, userID, query string) (*AvailablePage, error)

	// Discover lists undiscovered fusions with what the user has and lacks.
	Discover(ctx context.Context, userID, query string) (*DiscoverPage, error)

	// Discovered lists fusions the user has crafted.
	Discovered(ctx context.Context, userID, query string) (*DiscoveredPage, error)

	// Info looks a fusion up by id or name.
	Info(ctx context.Context, userID, query string) (*FusionInfo, error)
}

// AvailablePage is one page of craftable fusions.
type AvailablePage struct {
	Entries    []CraftableEntry
	Page       int
	TotalPages int
	Total      int
}

// CraftableEntry is a fusion with a concrete plan.
type CraftableEntry struct {
	ID       string
	Name     string
	Tier     string
	Recipe   []string
	IsNew    bool
	FuseArgs []string // ready-to-use fuse arguments
	Unstore  []int    // storage slots to unstore first
}

// DiscoverPage is one page of potential discoveries.
type DiscoverPage struct {
	Entries    []PotentialEntry
	Page       int
	TotalPages int
	Total      int
}

// PotentialEntry is an undiscovered fusion and the user's progress toward it.
type PotentialEntry struct {
	ID        string
	Name      string
	Tier      string
	Recipe    []string
	Have      []string
	Needed    []string
	Craftable bool
}

// DiscoveredPage is one page of discovered fusions.
type DiscoveredPage struct {
	Entries    []FusionInfo
	Page       int
	TotalPages int
	Discovered int
	Total      int
}

// FusionInfo describes one fusion.
type FusionInfo struct {
	ID         string
	Name       string
	Tier       string
	Recipe     []string
	Discovered bool
	Hidden     bool
}
