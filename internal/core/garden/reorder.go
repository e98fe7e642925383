package garden

import "fmt"

// UnlockedPlots returns the unlocked 1-indexed plots in order.
func (v View) UnlockedPlots() []int {
	var out []int
	for slot := 1; slot <= GardenSize; slot++ {
		if v.IsSlotUnlocked(slot) {
			out = append(out, slot)
		}
	}
	return out
}

// Reorder computes a new arrangement of the unlocked plots. order lists the
// current plot whose occupant moves into each unlocked position, in order.
// Locked plots keep their contents. Every problem is reported; the returned
// garden is only meaningful when there are none.
func Reorder(v View, order []int) ([GardenSize]Occupant, []string) {
	current := v.Garden()
	unlocked := v.UnlockedPlots()

	if len(order) != len(unlocked) {
		return current, []string{fmt.Sprintf(
			"The number of plots provided (%d) does not match your number of unlocked plots (%d).",
			len(order), len(unlocked))}
	}

	var errs []string
	seen := make(map[int]bool, len(order))
	for _, src := range order {
		switch {
		case src < 1 || src > GardenSize:
			errs = append(errs, fmt.Sprintf("Plot %d is out of range (1-%d).", src, GardenSize))
		case !v.IsSlotUnlocked(src):
			errs = append(errs, fmt.Sprintf("Plot %d is locked. Only unlocked plots can be reordered.", src))
		case seen[src]:
			errs = append(errs, fmt.Sprintf("Plot %d was listed more than once.", src))
		default:
			seen[src] = true
		}
	}
	for _, slot := range unlocked {
		if !seen[slot] {
			errs = append(errs, fmt.Sprintf("Plot %d was not included in the new order.", slot))
		}
	}
	if len(errs) > 0 {
		return current, errs
	}

	next := current
	for i, dest := range unlocked {
		next[dest-1] = current[order[i]-1]
	}
	return next, nil
}
