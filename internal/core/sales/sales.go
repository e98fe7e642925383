// Package sales prices mature plants and plans their sale.
// Nothing here mutates a profile: ProcessSales reports what should happen
// and Effects turns that report into effects for the app layer to apply.
package sales

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
)

const (
	// TierSunTranscendent raises sun mastery instead of paying.
	TierSunTranscendent = "tier∞"
	// TierTimeTranscendent raises time mastery instead of paying.
	TierTimeTranscendent = "tier-∞"

	masteryStep = 0.1
)

// Prices maps a tier to its base sale price.
type Prices map[string]int

// SalePrice returns the base price of a tier, 0 when it is not sellable.
func (p Prices) SalePrice(tier string) int {
	return p[tier]
}

// Multiplier is the sun mastery bonus applied to sale prices.
func Multiplier(sunMastery int) float64 {
	if sunMastery < 0 {
		sunMastery = 0
	}
	return 1 + masteryStep*float64(sunMastery)
}

// FinalPrice applies the sun mastery bonus and truncates.
func FinalPrice(base, sunMastery int) int {
	return int(float64(base) * Multiplier(sunMastery))
}

// Result aggregates one sell request.
type Result struct {
	TotalEarnings     int
	Sold              []string
	Errors            []string
	SunMasteryGained  int
	TimeMasteryGained int
	// PlotsToClear holds 1-indexed plots in ascending order.
	PlotsToClear []int
}

// ProcessSales evaluates each requested plot once, in ascending order.
// Rules:
// - plot must be 1-12
// - plot must hold a mature plant
// - transcendent tiers grant mastery and still clear the plot
// - other tiers need a positive price
func ProcessSales(v garden.View, slots []int, prices Prices, currency string) Result {
	var r Result
	bonus := Multiplier(v.SunMastery())

	for _, slot := range uniqueSorted(slots) {
		if err := garden.CheckPlotRange(slot).Error(); err != nil {
			r.Errors = append(r.Errors, err.Error())
			continue
		}
		plant, ok := v.Plot(slot).(garden.Plant)
		if !ok {
			r.Errors = append(r.Errors, fmt.Sprintf("Plot %d: Is empty or contains a non-sellable seedling.", slot))
			continue
		}

		switch plant.Type {
		case TierSunTranscendent:
			r.SunMasteryGained++
			r.Sold = append(r.Sold, fmt.Sprintf("%s from plot %d has transcended reality, increasing your Sun Mastery!", plant.DisplayName(), slot))
			r.PlotsToClear = append(r.PlotsToClear, slot)
			continue
		case TierTimeTranscendent:
			r.TimeMasteryGained++
			r.Sold = append(r.Sold, fmt.Sprintf("%s from plot %d has transcended reality, increasing your Time Mastery!", plant.DisplayName(), slot))
			r.PlotsToClear = append(r.PlotsToClear, slot)
			continue
		}

		base := prices.SalePrice(plant.Type)
		if base <= 0 {
			r.Errors = append(r.Errors, fmt.Sprintf("Plot %d: Asset '%s' has no market value.", slot, plant.DisplayName()))
			continue
		}

		price := FinalPrice(base, v.SunMastery())
		r.TotalEarnings += price
		line := fmt.Sprintf("%s from plot %d (Yield: +%s %s)", plant.DisplayName(), slot, Commas(price), currency)
		if bonus > 1 {
			line += fmt.Sprintf(" (Boosted by %.2fx)", bonus)
		}
		r.Sold = append(r.Sold, line)
		r.PlotsToClear = append(r.PlotsToClear, slot)
	}
	return r
}

// Effects plans the state changes for a processed sale.
func Effects(userID string, r Result) []effects.Effect {
	if len(r.PlotsToClear) == 0 {
		return nil
	}
	var effs []effects.Effect
	for _, slot := range r.PlotsToClear {
		effs = append(effs, effects.PlotEffect{UserID: userID, Slot: slot})
	}
	if r.TotalEarnings > 0 {
		effs = append(effs, effects.BalanceEffect{UserID: userID, Delta: r.TotalEarnings})
	}
	if r.SunMasteryGained > 0 || r.TimeMasteryGained > 0 {
		effs = append(effs, effects.MasteryEffect{UserID: userID, Sun: r.SunMasteryGained, Time: r.TimeMasteryGained})
	}
	effs = append(effs, effects.EventEffect{
		UserID:  userID,
		Kind:    "sell",
		Message: fmt.Sprintf("sold plots %v for %d", r.PlotsToClear, r.TotalEarnings),
	})
	return effs
}

// Commas formats n with thousands separators.
func Commas(n int) string {
	s := strconv.Itoa(n)
	neg := false
	if n < 0 {
		neg = true
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}

func uniqueSorted(slots []int) []int {
	seen := make(map[int]bool, len(slots))
	var out []int
	for _, s := range slots {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Ints(out)
	return out
}
