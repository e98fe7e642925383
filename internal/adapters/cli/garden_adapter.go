// Package cli provides thin CLI adapters that translate between CLI concerns
// and application services. Adapters handle output formatting but delegate
// game rules to services.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/example/garden/internal/core/sales"
	"github.com/example/garden/internal/ports/primary"
)

var (
	okMark    = color.New(color.FgGreen).Sprint("✓")
	errMark   = color.New(color.FgRed).Sprint("✗")
	dim       = color.New(color.FgHiBlack)
	highlight = color.New(color.FgHiMagenta)
	warn      = color.New(color.FgYellow)
)

// GardenAdapter translates garden commands to GardenService calls.
type GardenAdapter struct {
	service  primary.GardenService
	currency string
	out      io.Writer
}

// NewGardenAdapter creates a new GardenAdapter.
func NewGardenAdapter(service primary.GardenService, currency string, out io.Writer) *GardenAdapter {
	return &GardenAdapter{service: service, currency: currency, out: out}
}

// Profile shows balance, garden, storage and inventory.
func (a *GardenAdapter) Profile(ctx context.Context, userID string) error {
	p, err := a.service.GetProfile(ctx, userID)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "\n%s's garden  (background: %s)\n", p.UserID, p.ActiveBackground)
	fmt.Fprintf(a.out, "Balance:  %s %s\n", sales.Commas(p.Balance), a.currency)
	fmt.Fprintf(a.out, "Mastery:  sun %d, time %d\n", p.SunMastery, p.TimeMastery)
	fmt.Fprintf(a.out, "Almanac:  %d/%d fusions discovered\n", p.Discovered, p.AlmanacTotal)
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, plot := range p.Garden {
		fmt.Fprintf(a.out, "  %2d  %s\n", plot.Slot, describePlot(plot))
	}

	if p.StorageCapacity > 0 {
		fmt.Fprintf(a.out, "\nStorage shed (%d slots)\n", p.StorageCapacity)
		for _, s := range p.Storage {
			if s.Locked {
				continue
			}
			occupant := dim.Sprint("empty")
			if !s.Empty {
				occupant = fmt.Sprintf("%s [%s]", s.Name, s.Type)
			}
			fmt.Fprintf(a.out, "  %2d  %s\n", s.Slot, occupant)
		}
	}

	if len(p.Inventory) > 0 {
		fmt.Fprintln(a.out, "\nInventory")
		for _, line := range p.Inventory {
			fmt.Fprintf(a.out, "  %-20s x%d\n", line.Name, line.Quantity)
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

func describePlot(p primary.Plot) string {
	switch {
	case p.Locked:
		return dim.Sprint("locked")
	case p.Empty:
		return dim.Sprint("empty")
	case p.Seedling:
		return fmt.Sprintf("%s %s", p.Name, progressBar(p.Progress))
	default:
		return fmt.Sprintf("%s [%s]", p.Name, p.Type)
	}
}

func progressBar(progress float64) string {
	const width = 10
	filled := int(progress / 100 * width)
	if filled > width {
		filled = width
	}
	return fmt.Sprintf("[%s%s] %.1f%%", strings.Repeat("█", filled), strings.Repeat("░", width-filled), progress)
}

// Daily claims the daily stipend.
func (a *GardenAdapter) Daily(ctx context.Context, userID string) error {
	resp, err := a.service.ClaimDaily(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Claimed %s %s. Balance: %s %s\n", okMark, sales.Commas(resp.Amount), a.currency, sales.Commas(resp.Balance), a.currency)
	fmt.Fprintf(a.out, "  Next reset: %s\n", resp.NextReset.Format("2006-01-02 15:04 MST"))
	return nil
}

// Plant plants seedlings in the given plots.
func (a *GardenAdapter) Plant(ctx context.Context, userID, channelID string, plots []int) error {
	resp, err := a.service.Plant(ctx, primary.PlantRequest{UserID: userID, Plots: plots, ChannelID: channelID})
	if err != nil {
		return err
	}
	if len(resp.Planted) > 0 {
		fmt.Fprintf(a.out, "%s Planted in plots %s for %s %s. Balance: %s %s\n",
			okMark, joinInts(resp.Planted), sales.Commas(resp.Cost), a.currency, sales.Commas(resp.Balance), a.currency)
	}
	a.printErrors(resp.Errors)
	return nil
}

// Sell sells mature plants.
func (a *GardenAdapter) Sell(ctx context.Context, userID string, plots []int) error {
	resp, err := a.service.Sell(ctx, userID, plots)
	if err != nil {
		return err
	}
	for _, line := range resp.Sold {
		fmt.Fprintf(a.out, "%s %s\n", okMark, line)
	}
	if resp.Earnings > 0 {
		fmt.Fprintf(a.out, "Earned %s %s. Balance: %s %s\n", sales.Commas(resp.Earnings), a.currency, sales.Commas(resp.Balance), a.currency)
	}
	if resp.SunMasteryGained > 0 {
		fmt.Fprintln(a.out, highlight.Sprintf("Sun Mastery +%d", resp.SunMasteryGained))
	}
	if resp.TimeMasteryGained > 0 {
		fmt.Fprintln(a.out, highlight.Sprintf("Time Mastery +%d", resp.TimeMasteryGained))
	}
	a.printErrors(resp.Errors)
	return nil
}

// Shovel clears seedlings.
func (a *GardenAdapter) Shovel(ctx context.Context, userID string, plots []int) error {
	resp, err := a.service.Shovel(ctx, userID, plots)
	if err != nil {
		return err
	}
	if len(resp.Cleared) > 0 {
		fmt.Fprintf(a.out, "%s Cleared plots %s\n", okMark, joinInts(resp.Cleared))
	}
	a.printErrors(resp.Errors)
	return nil
}

// Reorder rearranges unlocked plots.
func (a *GardenAdapter) Reorder(ctx context.Context, userID string, order []int) error {
	if err := a.service.Reorder(ctx, userID, order); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Garden reordered\n", okMark)
	return nil
}

// Store moves plants into the shed.
func (a *GardenAdapter) Store(ctx context.Context, userID string, plots []int) error {
	resp, err := a.service.Store(ctx, userID, plots)
	if err != nil {
		return err
	}
	a.printMoves(resp)
	return nil
}

// Unstore moves plants back into the garden.
func (a *GardenAdapter) Unstore(ctx context.Context, userID string, slots []int) error {
	resp, err := a.service.Unstore(ctx, userID, slots)
	if err != nil {
		return err
	}
	a.printMoves(resp)
	return nil
}

func (a *GardenAdapter) printMoves(resp *primary.MoveResponse) {
	for _, line := range resp.Moved {
		fmt.Fprintf(a.out, "%s %s\n", okMark, line)
	}
	a.printErrors(resp.Errors)
}

// Backgrounds lists backgrounds.
func (a *GardenAdapter) Backgrounds(ctx context.Context, userID string) error {
	bgs, err := a.service.ListBackgrounds(ctx, userID)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nUnlocked backgrounds")
	for _, b := range bgs.Unlocked {
		marker := ""
		if b.ID == bgs.Active {
			marker = highlight.Sprint(" ← active")
		}
		fmt.Fprintf(a.out, "  %-15s %s%s\n", b.ID, b.Name, marker)
	}
	if len(bgs.Locked) > 0 {
		fmt.Fprintln(a.out, "\nLocked backgrounds")
		for _, b := range bgs.Locked {
			fmt.Fprintf(a.out, "  %-15s %s %s\n", b.ID, b.Name, dim.Sprintf("(missing: %s)", strings.Join(b.Missing, ", ")))
		}
	}
	fmt.Fprintln(a.out)
	return nil
}

// SetBackground activates a background.
func (a *GardenAdapter) SetBackground(ctx context.Context, userID, query string) error {
	bg, err := a.service.SetBackground(ctx, userID, query)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s Background set to %s\n", okMark, bg.Name)
	return nil
}

// Leaderboard shows one page of the ranking and the caller's rank.
func (a *GardenAdapter) Leaderboard(ctx context.Context, userID string, page int) error {
	lb, err := a.service.Leaderboard(ctx, page)
	if err != nil {
		return err
	}
	if len(lb.Entries) == 0 {
		fmt.Fprintln(a.out, "No gardeners yet")
		return nil
	}

	fmt.Fprintf(a.out, "\n%-6s %-20s %s\n", "RANK", "USER", strings.ToUpper(a.currency))
	fmt.Fprintln(a.out, "────────────────────────────────────────────────────────────────")
	for _, e := range lb.Entries {
		line := fmt.Sprintf("%-6d %-20s %s", e.Rank, e.UserID, sales.Commas(e.Balance))
		if e.UserID == userID {
			line = highlight.Sprint(line)
		}
		fmt.Fprintln(a.out, line)
	}
	fmt.Fprintln(a.out, dim.Sprintf("page %d/%d", lb.Page, lb.TotalPages))

	if userID != "" {
		if rank, ok, err := a.service.Rank(ctx, userID); err == nil && ok {
			fmt.Fprintf(a.out, "Your rank: #%d\n", rank)
		}
	}
	return nil
}

func (a *GardenAdapter) printErrors(errs []string) {
	printErrors(a.out, errs)
}

func printErrors(out io.Writer, errs []string) {
	for _, e := range errs {
		fmt.Fprintf(out, "%s %s\n", errMark, e)
	}
}

func joinInts(xs []int) string {
	parts := make([]string, len(xs))
	for i, x := range xs {
		parts[i] = fmt.Sprint(x)
	}
	return strings.Join(parts, ", ")
}
