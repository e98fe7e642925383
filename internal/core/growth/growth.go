// Package growth holds the maturation math: how much a seedling grows per
// tick and what it becomes when it reaches 100%.
package growth

import (
	"math/rand/v2"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/garden"
)

const (
	// DefaultDurationMinutes is used when the configured duration is not positive.
	DefaultDurationMinutes = 240
	// Full is the progress at which a seedling is promoted.
	Full = 100.0
	// masteryStep is the growth bonus per time mastery level.
	masteryStep = 0.1
)

// Increment is the progress one tick adds:
// (100 / duration) x (1 + 0.1 x timeMastery) x multiplier.
func Increment(durationMinutes, timeMastery int, multiplier float64) float64 {
	if durationMinutes <= 0 {
		durationMinutes = DefaultDurationMinutes
	}
	if multiplier <= 0 {
		multiplier = 1.0
	}
	if timeMastery < 0 {
		timeMastery = 0
	}
	base := Full / float64(durationMinutes)
	return base * (1 + masteryStep*float64(timeMastery)) * multiplier
}

// IsMature reports whether progress has reached promotion.
func IsMature(progress float64) bool {
	return progress >= Full
}

// Multiplier returns the seedling's growth multiplier, 1.0 when undefined.
func Multiplier(cat *catalog.Catalog, seedlingID string) float64 {
	if def, ok := cat.Seedling(seedlingID); ok && def.GrowthMultiplier > 0 {
		return def.GrowthMultiplier
	}
	return 1.0
}

// Category returns the seedling's maturation category, "vanilla" when undefined.
func Category(cat *catalog.Catalog, seedlingID string) string {
	if def, ok := cat.Seedling(seedlingID); ok && def.Category != "" {
		return def.Category
	}
	return catalog.DefaultCategory
}

// Maturation is the outcome of promoting one seedling.
type Maturation struct {
	Slot     int
	Seedling garden.Seedling
	Plant    garden.Plant
	Category string
}

// Promote picks a random base plant of the seedling's category. It returns
// false when the category has no base plants; the seedling then stays put.
func Promote(cat *catalog.Catalog, rng *rand.Rand, slot int, s garden.Seedling) (Maturation, bool) {
	category := Category(cat, s.ID)
	def, ok := cat.RandomPlantByCategory(rng, category)
	if !ok {
		return Maturation{Slot: slot, Seedling: s, Category: category}, false
	}
	return Maturation{
		Slot:     slot,
		Seedling: s,
		Plant:    garden.Plant{ID: def.ID, Name: def.Name, Type: def.Type},
		Category: category,
	}, true
}

// TickResult is what one tick did to one profile.
type TickResult struct {
	Advanced int
	Matured  []Maturation
	// Stuck lists seedlings at 100% whose category has no base plants.
	Stuck []Maturation
}

// Tick advances every seedling in the profile and promotes those that reach
// 100%. It mutates p in place.
func Tick(p *garden.Profile, cat *catalog.Catalog, rng *rand.Rand, durationMinutes int) TickResult {
	var result TickResult
	for i, occ := range p.Garden {
		s, ok := occ.(garden.Seedling)
		if !ok {
			continue
		}
		slot := i + 1

		inc := Increment(durationMinutes, p.TimeMastery, Multiplier(cat, s.ID))
		progress, err := p.AdvanceSeedling(slot, inc)
		if err != nil {
			continue
		}
		result.Advanced++
		if !IsMature(progress) {
			continue
		}

		s.Progress = progress
		m, ok := Promote(cat, rng, slot, s)
		if !ok {
			result.Stuck = append(result.Stuck, m)
			continue
		}
		p.Garden[i] = m.Plant
		result.Matured = append(result.Matured, m)
	}
	return result
}
