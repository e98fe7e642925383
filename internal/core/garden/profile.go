// Package garden contains the per-user profile domain: garden and storage
// slots, inventory, currency, discoveries and the rules that guard them.
package garden

import (
	"fmt"
	"sort"
)

const (
	// GardenSize is the fixed number of garden plots.
	GardenSize = 12
	// StorageSize is the fixed number of storage shed slots.
	StorageSize = 8
	// FreePlots are always unlocked; the rest need a plot_<n> item.
	FreePlots = 6
	// ShedCapacity is the capacity added by each shed item.
	ShedCapacity = 4

	ItemStorageShed = "storage_shed"
	ItemShedUpgrade = "shed_upgrade"

	DefaultBackground = "default"
)

// PlotItemID returns the inventory sentinel that unlocks a garden plot.
func PlotItemID(slot int) string {
	return fmt.Sprintf("plot_%d", slot)
}

// Occupant is something that can sit in a garden plot: a Seedling or a Plant.
type Occupant interface {
	occupant()
	DisplayName() string
}

// Seedling is a planted, still-growing occupant.
type Seedling struct {
	ID                    string
	Progress              float64
	NotificationChannelID string
}

func (Seedling) occupant() {}

// DisplayName implements Occupant.
func (s Seedling) DisplayName() string { return s.ID }

// Plant is a mature plant, base or fused.
type Plant struct {
	ID   string
	Name string
	Type string
}

func (Plant) occupant() {}

// DisplayName implements Occupant.
func (p Plant) DisplayName() string {
	if p.Name == "" {
		return p.ID
	}
	return p.Name
}

// Profile is the canonical mutable state of one user. Only the profile store
// mutates it; everything else reads a View.
type Profile struct {
	UserID              string
	Balance             int
	SunMastery          int
	TimeMastery         int
	LastDaily           string
	ActiveBackground    string
	Garden              [GardenSize]Occupant
	Storage             [StorageSize]*Plant
	Inventory           map[string]int
	DiscoveredFusions   []string
	UnlockedBackgrounds []string
}

// NewProfile returns a profile with default values.
func NewProfile(userID string) *Profile {
	return &Profile{
		UserID:              userID,
		ActiveBackground:    DefaultBackground,
		Inventory:           make(map[string]int),
		UnlockedBackgrounds: []string{DefaultBackground},
	}
}

// Repair restores invariants on a profile read from storage.
func (p *Profile) Repair() {
	if p.Balance < 0 {
		p.Balance = 0
	}
	if p.SunMastery < 0 {
		p.SunMastery = 0
	}
	if p.TimeMastery < 0 {
		p.TimeMastery = 0
	}
	if p.Inventory == nil {
		p.Inventory = make(map[string]int)
	}
	for id, qty := range p.Inventory {
		if qty <= 0 {
			delete(p.Inventory, id)
		}
	}
	for i, occ := range p.Garden {
		if s, ok := occ.(Seedling); ok {
			p.Garden[i] = Seedling{ID: s.ID, Progress: clampProgress(s.Progress), NotificationChannelID: s.NotificationChannelID}
		}
	}
	p.DiscoveredFusions = dedupe(p.DiscoveredFusions)
	p.UnlockedBackgrounds = dedupe(append([]string{DefaultBackground}, p.UnlockedBackgrounds...))
	if p.ActiveBackground == "" {
		p.ActiveBackground = DefaultBackground
	}
}

// Clone returns a deep copy.
func (p *Profile) Clone() *Profile {
	c := *p
	for i, s := range p.Storage {
		if s != nil {
			plant := *s
			c.Storage[i] = &plant
		}
	}
	c.Inventory = make(map[string]int, len(p.Inventory))
	for id, qty := range p.Inventory {
		c.Inventory[id] = qty
	}
	c.DiscoveredFusions = append([]string(nil), p.DiscoveredFusions...)
	c.UnlockedBackgrounds = append([]string(nil), p.UnlockedBackgrounds...)
	return &c
}

// HasItem reports whether the inventory holds at least one of id.
func (p *Profile) HasItem(id string) bool {
	return p.Inventory[id] > 0
}

// IsSlotUnlocked reports whether a 1-indexed garden plot can be used.
func (p *Profile) IsSlotUnlocked(slot int) bool {
	return IsSlotUnlocked(p.Inventory, slot)
}

// StorageCapacity is the number of usable storage slots.
func (p *Profile) StorageCapacity() int {
	return StorageCapacity(p.Inventory)
}

// StorageUsed counts occupied storage slots within capacity.
func (p *Profile) StorageUsed() int {
	used := 0
	for i := 0; i < p.StorageCapacity(); i++ {
		if p.Storage[i] != nil {
			used++
		}
	}
	return used
}

// FreeUnlockedPlots returns the empty, unlocked 1-indexed plots in order.
func (p *Profile) FreeUnlockedPlots() []int {
	var free []int
	for i, occ := range p.Garden {
		if occ == nil && p.IsSlotUnlocked(i+1) {
			free = append(free, i+1)
		}
	}
	return free
}

// HasDiscovered reports whether the fusion id was crafted before.
func (p *Profile) HasDiscovered(fusionID string) bool {
	return contains(p.DiscoveredFusions, fusionID)
}

// HasBackground reports whether a background is unlocked.
func (p *Profile) HasBackground(id string) bool {
	return contains(p.UnlockedBackgrounds, id)
}

// InventoryIDs returns held item ids sorted.
func (p *Profile) InventoryIDs() []string {
	ids := make([]string, 0, len(p.Inventory))
	for id, qty := range p.Inventory {
		if qty > 0 {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

func clampProgress(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

func contains(values []string, v string) bool {
	for _, x := range values {
		if x == v {
			return true
		}
	}
	return false
}

func dedupe(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok || v == "" {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
