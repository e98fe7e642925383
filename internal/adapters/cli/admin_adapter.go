package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/example/garden/internal/core/sales"
	"github.com/example/garden/internal/ports/primary"
)

// AdminAdapter translates operator commands to AdminService calls.
type AdminAdapter struct {
	service  primary.AdminService
	currency string
	out      io.Writer
}

// NewAdminAdapter creates a new AdminAdapter.
func NewAdminAdapter(service primary.AdminService, currency string, out io.Writer) *AdminAdapter {
	return &AdminAdapter{service: service, currency: currency, out: out}
}

// SetBalance sets a balance.
func (a *AdminAdapter) SetBalance(ctx context.Context, userID string, amount int) error {
	if err := a.service.SetBalance(ctx, userID, amount); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s now has %s %s\n", okMark, userID, sales.Commas(amount), a.currency)
	return nil
}

// SetMastery sets a mastery level.
func (a *AdminAdapter) SetMastery(ctx context.Context, userID, kind string, level int) error {
	if err := a.service.SetMastery(ctx, userID, kind, level); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s %s mastery set to %d\n", okMark, userID, kind, level)
	return nil
}

// AddItem grants items.
func (a *AdminAdapter) AddItem(ctx context.Context, userID, itemID string, quantity int) error {
	if err := a.service.AddItem(ctx, userID, itemID, quantity); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Gave %s x%d %s\n", okMark, userID, quantity, itemID)
	return nil
}

// RemoveItem takes items away.
func (a *AdminAdapter) RemoveItem(ctx context.Context, userID, itemID string, quantity int) error {
	if err := a.service.RemoveItem(ctx, userID, itemID, quantity); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Took x%d %s from %s\n", okMark, quantity, itemID, userID)
	return nil
}

// AddPlant places a plant in a plot.
func (a *AdminAdapter) AddPlant(ctx context.Context, req primary.AddPlantRequest) error {
	resp, err := a.service.AddPlant(ctx, req)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Put %s [%s] in %s's plot %d\n", okMark, resp.Name, resp.Type, req.UserID, resp.Slot)
	return nil
}

// UnlockBackground grants a background.
func (a *AdminAdapter) UnlockBackground(ctx context.Context, userID, backgroundID string) error {
	if err := a.service.UnlockBackground(ctx, userID, backgroundID); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Unlocked %s for %s\n", okMark, backgroundID, userID)
	return nil
}

// SetGrowthDuration sets the global growth duration.
func (a *AdminAdapter) SetGrowthDuration(ctx context.Context, minutes int) error {
	if err := a.service.SetGrowthDuration(ctx, minutes); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Seedlings now take %d minutes to mature\n", okMark, minutes)
	return nil
}

// SetPennyInterval sets Penny's refresh interval.
func (a *AdminAdapter) SetPennyInterval(ctx context.Context, hours int) error {
	if err := a.service.SetPennyInterval(ctx, hours); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Penny now refreshes every %d hours\n", okMark, hours)
	return nil
}

// RestockLimited restocks a limited item.
func (a *AdminAdapter) RestockLimited(ctx context.Context, itemID string, amount int) error {
	stock, err := a.service.RestockLimited(ctx, itemID, amount)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s %s stock is now %d\n", okMark, itemID, stock)
	return nil
}

// DumpState writes the state as JSON.
func (a *AdminAdapter) DumpState(ctx context.Context) error {
	data, err := a.service.DumpState(ctx)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(a.out, string(data))
	return err
}

// CatalogReport shows catalog counts and problems.
func (a *AdminAdapter) CatalogReport(ctx context.Context) error {
	r, err := a.service.CatalogReport(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Base plants: %d\nSeedlings:   %d\nFusions:     %d\nMaterials:   %d\n",
		r.BasePlants, r.Seedlings, r.Fusions, r.Materials)
	if len(r.Problems) == 0 {
		fmt.Fprintf(a.out, "%s No integrity problems\n", okMark)
		return nil
	}
	fmt.Fprintf(a.out, "\n%s\n", warn.Sprintf("%d problems", len(r.Problems)))
	printErrors(a.out, r.Problems)
	return nil
}
