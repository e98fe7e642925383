package garden

import "fmt"

// GuardResult represents the outcome of a guard evaluation.
type GuardResult struct {
	Allowed bool
	Reason  string
}

// Error converts the guard result to a Violation if not allowed.
func (r GuardResult) Error() error {
	if r.Allowed {
		return nil
	}
	return &Violation{Reason: r.Reason}
}

func allow() GuardResult { return GuardResult{Allowed: true} }

func deny(format string, args ...any) GuardResult {
	return GuardResult{Allowed: false, Reason: fmt.Sprintf(format, args...)}
}

// Violation is an expected business-rule failure. Callers show Reason to the
// user; anything that is not a Violation is an infrastructure error.
type Violation struct {
	Reason string
}

func (v *Violation) Error() string { return v.Reason }

// Violationf builds a Violation.
func Violationf(format string, args ...any) error {
	return &Violation{Reason: fmt.Sprintf(format, args...)}
}

// IsSlotUnlocked reports whether a 1-indexed plot is usable given an inventory.
// Rules:
// - plots 1-6 are always unlocked
// - plots 7-12 need the plot_<n> item
func IsSlotUnlocked(inventory map[string]int, slot int) bool {
	if slot >= 1 && slot <= FreePlots {
		return true
	}
	if slot < 1 || slot > GardenSize {
		return false
	}
	return inventory[PlotItemID(slot)] > 0
}

// StorageCapacity computes usable storage from an inventory.
// Rules:
// - no storage_shed: 0
// - storage_shed: 4, plus 4 more with shed_upgrade
func StorageCapacity(inventory map[string]int) int {
	if inventory[ItemStorageShed] <= 0 {
		return 0
	}
	capacity := ShedCapacity
	if inventory[ItemShedUpgrade] > 0 {
		capacity += ShedCapacity
	}
	return capacity
}

// CheckPlotRange validates a 1-indexed garden plot number.
func CheckPlotRange(slot int) GuardResult {
	if slot < 1 || slot > GardenSize {
		return deny("Plot %d: Invalid designation (must be 1-%d).", slot, GardenSize)
	}
	return allow()
}

// CheckStorageRange validates a 1-indexed storage slot number.
func CheckStorageRange(slot int) GuardResult {
	if slot < 1 || slot > StorageSize {
		return deny("Storage slot %d: Invalid designation (must be 1-%d).", slot, StorageSize)
	}
	return allow()
}

// CanPlant evaluates whether a seedling can go into a plot.
// Rules:
// - plot must be in range and unlocked
// - plot must be empty
func CanPlant(p *Profile, slot int) GuardResult {
	if r := CheckPlotRange(slot); !r.Allowed {
		return r
	}
	if !p.IsSlotUnlocked(slot) {
		return deny("Plot %d: Locked.", slot)
	}
	if p.Garden[slot-1] != nil {
		return deny("Plot %d: Occupied.", slot)
	}
	return allow()
}

// CanStore evaluates whether the plant in a garden plot can move to storage.
// Rules:
// - plot must hold a mature plant
// - occupied storage must be below capacity
func CanStore(p *Profile, slot int) GuardResult {
	if r := CheckPlotRange(slot); !r.Allowed {
		return r
	}
	switch p.Garden[slot-1].(type) {
	case Plant:
	case Seedling:
		return deny("Plot %d: Seedlings cannot be stored.", slot)
	default:
		return deny("Plot %d: Is empty.", slot)
	}
	if p.StorageUsed() >= p.StorageCapacity() {
		return deny("Insufficient storage shed capacity.")
	}
	return allow()
}

// CanUnstore evaluates whether a stored plant can return to the garden.
// Rules:
// - storage slot must be within capacity and occupied
// - at least one unlocked plot must be empty
func CanUnstore(p *Profile, slot int) GuardResult {
	if r := CheckStorageRange(slot); !r.Allowed {
		return r
	}
	if slot > p.StorageCapacity() || p.Storage[slot-1] == nil {
		return deny("Storage slot %d: Is empty.", slot)
	}
	if len(p.FreeUnlockedPlots()) == 0 {
		return deny("Insufficient garden capacity.")
	}
	return allow()
}

// CanShovel evaluates whether a plot can be cleared for free.
// Rules:
// - plot must be in range and unlocked
// - plot must hold a seedling; mature plants are sold instead
func CanShovel(p *Profile, slot int) GuardResult {
	if slot < 1 || slot > GardenSize {
		return deny("Plot %d: Invalid designation.", slot)
	}
	if !p.IsSlotUnlocked(slot) {
		return deny("Plot %d: Access restricted (Locked).", slot)
	}
	switch occ := p.Garden[slot-1].(type) {
	case Seedling:
		return allow()
	case Plant:
		return deny("Plot %d: Contains a mature plant (%s). Use sell instead.", slot, occ.DisplayName())
	default:
		return deny("Plot %d: Already unoccupied.", slot)
	}
}
