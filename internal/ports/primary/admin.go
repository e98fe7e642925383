package primary

import "context"

// AdminService defines the primary port for operator commands.
type AdminService interface {
	// SetBalance sets a user's balance.
	SetBalance(ctx context.Context, userID string, amount int) error

	// SetMastery sets "sun" or "time" mastery.
	SetMastery(ctx context.Context, userID, kind string, level int) error

	// AddItem grants item units.
	AddItem(ctx context.Context, userID, itemID string, quantity int) error

	// RemoveItem takes item units away.
	RemoveItem(ctx context.Context, userID, itemID string, quantity int) error

	// AddPlant puts a base plant, a fusion or a custom plant into a plot.
	AddPlant(ctx context.Context, req AddPlantRequest) (*AddPlantResponse, error)

	// UnlockBackground grants a background.
	UnlockBackground(ctx context.Context, userID, backgroundID string) error

	// SetGrowthDuration sets the minutes a seedling needs to mature.
	SetGrowthDuration(ctx context.Context, minutes int) error

	// SetPennyInterval sets Penny's refresh interval; it must divide 24.
	SetPennyInterval(ctx context.Context, hours int) error

	// RestockLimited adds units to a limited Rux item and returns the new stock.
	RestockLimited(ctx context.Context, itemID string, amount int) (int, error)

	// DumpState renders the whole state as indented JSON.
	DumpState(ctx context.Context) ([]byte, error)

	// CatalogReport lists catalog integrity problems.
	CatalogReport(ctx context.Context) (*CatalogReport, error)
}

// AddPlantRequest contains parameters for AddPlant. Custom plants use Query
// as the name and need a Tier.
type AddPlantRequest struct {
	UserID string
	Slot   int
	Query  string
	Custom bool
	Tier   string
}

// AddPlantResponse reports what was placed.
type AddPlantResponse struct {
	ID   string
	Name string
	Type string
	Slot int
}

// CatalogReport summarizes catalog integrity.
type CatalogReport struct {
	BasePlants int
	Seedlings  int
	Fusions    int
	Materials  int
	Problems   []string
}

// Event is an audit trail entry.
type Event struct {
	ID        string
	UserID    string
	ActorID   string
	Kind      string
	Message   string
	CreatedAt string
}

// EventFilters contains filter options for listing events.
type EventFilters struct {
	UserID string
	Kind   string
	Limit  int
}
