package garden

// View is a read-only snapshot of a profile. It owns a private copy, so
// nothing a caller does with it reaches the canonical state.
type View struct {
	p *Profile
}

// NewView snapshots a profile.
func NewView(p *Profile) View {
	return View{p: p.Clone()}
}

func (v View) UserID() string { return v.p.UserID }
func (v View) Balance() int { return v.p.Balance }
func (v View) SunMastery() int { return v.p.SunMastery }
func (v View) TimeMastery() int { return v.p.TimeMastery }
func (v View) LastDaily() string { return v.p.LastDaily }
func (v View) ActiveBackground() string { return v.p.ActiveBackground }

// Plot returns the occupant of a 1-indexed plot, or nil.
func (v View) Plot(slot int) Occupant {
	if slot < 1 || slot > GardenSize {
		return nil
	}
	return v.p.Garden[slot-1]
}

// Garden returns a copy of all plots.
func (v View) Garden() [GardenSize]Occupant { return v.p.Garden }

// Stored returns the plant in a 1-indexed storage slot.
func (v View) Stored(slot int) (Plant, bool) {
	if slot < 1 || slot > StorageSize || v.p.Storage[slot-1] == nil {
		return Plant{}, false
	}
	return *v.p.Storage[slot-1], true
}

// Storage returns a copy of all storage slots.
func (v View) Storage() [StorageSize]*Plant {
	var out [StorageSize]*Plant
	for i, s := range v.p.Storage {
		if s != nil {
			cp := *s
			out[i] = &cp
		}
	}
	return out
}

// Quantity returns how many of an item are held.
func (v View) Quantity(id string) int { return v.p.Inventory[id] }

// Inventory returns a copy of item quantities.
func (v View) Inventory() map[string]int {
	out := make(map[string]int, len(v.p.Inventory))
	for id, qty := range v.p.Inventory {
		out[id] = qty
	}
	return out
}

// InventoryIDs returns held item ids sorted.
func (v View) InventoryIDs() []string { return v.p.InventoryIDs() }

func (v View) HasItem(id string) bool { return v.p.HasItem(id) }
func (v View) HasDiscovered(id string) bool { return v.p.HasDiscovered(id) }
func (v View) HasBackground(id string) bool { return v.p.HasBackground(id) }
func (v View) IsSlotUnlocked(slot int) bool { return v.p.IsSlotUnlocked(slot) }
func (v View) StorageCapacity() int { return v.p.StorageCapacity() }
func (v View) StorageUsed() int { return v.p.StorageUsed() }
func (v View) FreeUnlockedPlots() []int { return v.p.FreeUnlockedPlots() }
func (v View) DiscoveredFusions() []string { return append([]string(nil), v.p.DiscoveredFusions...) }
func (v View) UnlockedBackgrounds() []string { return append([]string(nil), v.p.UnlockedBackgrounds...) }

// Profile returns a deep copy suitable for planning against.
func (v View) Profile() *Profile { return v.p.Clone() }
