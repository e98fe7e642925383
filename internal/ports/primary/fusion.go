package primary

import "context"

// FusionService defines the primary port for crafting.
type FusionService interface {
	// Fuse combines the selected plots and materials into a fusion. The user
	// is locked while Confirm runs; a nil Confirm accepts immediately.
	Fuse(ctx context.Context, req FuseRequest) (*FuseResponse, error)
}

// ConfirmFunc asks the user to approve a fusion. It must honor ctx, which
// carries the confirmation timeout.
type ConfirmFunc func(ctx context.Context, preview FusionPreview) (bool, error)

// FuseRequest contains parameters for a fusion.
type FuseRequest struct {
	UserID  string
	Args    []string // plot numbers and material ids or names
	Confirm ConfirmFunc
}

// FusionPreview describes what a fusion will do.
type FusionPreview struct {
	FusionID   string
	Name       string
	Tier       string
	IsNew      bool
	Inputs     []string
	OutputSlot int
	Bonus      int
}

// FuseResponse reports a fusion attempt.
type FuseResponse struct {
	Fused               bool
	Cancelled           bool
	Preview             FusionPreview
	Balance             int
	UnlockedBackgrounds []string
	Errors              []string
}
