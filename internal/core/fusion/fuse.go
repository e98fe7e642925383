package fusion

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
)

// MinFuseArgs is the fewest components a fuse request may name.
const MinFuseArgs = 2

// PlotInput is a garden plant chosen for fusion.
type PlotInput struct {
	Slot  int
	Plant garden.Plant
}

// Selection is a validated set of fuse inputs.
type Selection struct {
	Plots []PlotInput
	// Materials counts material ids taken from inventory.
	Materials Multiset
	// MaterialOrder lists material ids in first-mention order.
	MaterialOrder []string
	// OutputSlot is the first plot mentioned; the result lands there.
	OutputSlot int
}

// SelectInputs parses fuse arguments against a profile. Numeric arguments
// are plots, anything else is a material id or display name. All problems
// are collected so the user sees every one at once.
func SelectInputs(v garden.View, cat *catalog.Catalog, args []string) (Selection, []string) {
	sel := Selection{Materials: NewMultiset()}
	var errs []string

	if len(args) < MinFuseArgs {
		return sel, []string{fmt.Sprintf("Fusion requires a minimum of %d components.", MinFuseArgs)}
	}

	mentioned := make(map[int]int)
	for _, arg := range args {
		if isDigits(arg) {
			n, _ := strconv.Atoi(arg)
			mentioned[n]++
		}
	}
	for _, n := range mentioned {
		if n > 1 {
			errs = append(errs, "Duplicate plots were mentioned. Each plot can only be used once per fusion attempt.")
			break
		}
	}

	processed := make(map[int]bool)
	for _, arg := range args {
		if isDigits(arg) {
			slot, err := strconv.Atoi(arg)
			if err != nil {
				errs = append(errs, fmt.Sprintf("Plot %s: Invalid number.", arg))
				continue
			}
			if sel.OutputSlot == 0 {
				sel.OutputSlot = slot
			}
			if processed[slot] {
				continue
			}
			processed[slot] = true

			switch {
			case slot < 1 || slot > garden.GardenSize:
				errs = append(errs, fmt.Sprintf("Plot %d: Invalid number.", slot))
			case !v.IsSlotUnlocked(slot):
				errs = append(errs, fmt.Sprintf("Plot %d: Locked.", slot))
			default:
				plant, ok := v.Plot(slot).(garden.Plant)
				if !ok {
					errs = append(errs, fmt.Sprintf("Plot %d: Is empty or has a non-fusable seedling.", slot))
					continue
				}
				sel.Plots = append(sel.Plots, PlotInput{Slot: slot, Plant: plant})
			}
			continue
		}

		id, ok := cat.ResolveMaterial(arg)
		if !ok {
			errs = append(errs, fmt.Sprintf("'%s' is not a valid plot number or fusable material.", arg))
			continue
		}
		if sel.Materials[id] == 0 {
			sel.MaterialOrder = append(sel.MaterialOrder, id)
		}
		sel.Materials.Add(id, 1)
	}

	for _, id := range sel.MaterialOrder {
		need, have := sel.Materials[id], v.Quantity(id)
		if have < need {
			name, _ := cat.MaterialName(id)
			errs = append(errs, fmt.Sprintf("You need %dx %s but only have %d.", need, name, have))
		}
	}

	if sel.OutputSlot == 0 {
		errs = append(errs, "Fusion requires at least one plant from a plot to determine the result's location.")
	}

	return sel, errs
}

// Components deconstructs a selection into one multiset.
func (r *Resolver) Components(sel Selection) (Multiset, []string) {
	components := NewMultiset()
	var errs []string
	for _, p := range sel.Plots {
		parts, e := r.Deconstruct(PlantAsset(p.Plant, SourceGarden, p.Slot))
		components.AddAll(parts)
		errs = append(errs, e...)
	}
	for _, id := range sel.MaterialOrder {
		name, _ := r.cat.MaterialName(id)
		components.Add(name, sel.Materials[id])
	}
	return components, errs
}

// StillHolds reports whether a profile still has every input of a selection,
// with the same plant ids in the same plots.
func StillHolds(p *garden.Profile, sel Selection) bool {
	for _, in := range sel.Plots {
		plant, ok := p.Garden[in.Slot-1].(garden.Plant)
		if !ok || plant.ID != in.Plant.ID {
			return false
		}
	}
	for id, n := range sel.Materials {
		if p.Inventory[id] < n {
			return false
		}
	}
	return true
}

// IsNewDiscovery reports whether crafting f counts as a discovery.
// Invisible fusions are never recorded.
func IsNewDiscovery(v garden.View, f catalog.FusionRecipe) bool {
	return f.Visibility != catalog.VisibilityInvisible && !v.HasDiscovered(f.ID)
}

// DiscoveryBonus is floor(ratio x sale price) of the result's tier.
func DiscoveryBonus(ratio float64, salePrice int) int {
	if ratio <= 0 || salePrice <= 0 {
		return 0
	}
	return int(ratio * float64(salePrice))
}

// Describe lists the consumed inputs for display: plants with their plot,
// then materials with their count.
func Describe(cat *catalog.Catalog, sel Selection) []string {
	out := make([]string, 0, len(sel.Plots)+len(sel.MaterialOrder))
	for _, p := range sel.Plots {
		out = append(out, fmt.Sprintf("%s (Plot %d)", p.Plant.DisplayName(), p.Slot))
	}
	for _, id := range sel.MaterialOrder {
		name, _ := cat.MaterialName(id)
		out = append(out, fmt.Sprintf("%s x%d", name, sel.Materials[id]))
	}
	return out
}

// NoMatchMessage explains that a selection matches no recipe.
func NoMatchMessage(cat *catalog.Catalog, sel Selection) string {
	return fmt.Sprintf("The combination of components from %s does not match any known fusion recipe.",
		strings.Join(Describe(cat, sel), ", "))
}

// FuseOutcome is everything a confirmed fusion changes besides the plots.
type FuseOutcome struct {
	Result      catalog.FusionRecipe
	IsNew       bool
	Bonus       int
	Backgrounds []catalog.Background
}

// PlanFuse turns a confirmed selection into effects: materials are spent,
// input plots cleared, the result placed in the output plot, and the
// discovery, bonus and background unlocks recorded.
func PlanFuse(userID string, sel Selection, out FuseOutcome) []effects.Effect {
	var effs []effects.Effect
	for _, id := range sel.MaterialOrder {
		effs = append(effs, effects.InventoryEffect{UserID: userID, ItemID: id, Delta: -sel.Materials[id]})
	}
	for _, p := range sel.Plots {
		effs = append(effs, effects.PlotEffect{UserID: userID, Slot: p.Slot})
	}
	result := garden.Plant{ID: out.Result.ID, Name: out.Result.Name, Type: out.Result.Type}
	effs = append(effs, effects.PlotEffect{UserID: userID, Slot: sel.OutputSlot, Occupant: result})

	if out.IsNew {
		effs = append(effs, effects.DiscoveryEffect{UserID: userID, FusionID: out.Result.ID})
		if out.Bonus > 0 {
			effs = append(effs, effects.BalanceEffect{UserID: userID, Delta: out.Bonus})
		}
	}
	for _, bg := range out.Backgrounds {
		effs = append(effs, effects.BackgroundEffect{UserID: userID, BackgroundID: bg.ID})
	}

	effs = append(effs, effects.EventEffect{
		UserID:  userID,
		Kind:    "fuse",
		Message: fmt.Sprintf("fused %s into %s in plot %d", strings.Join(plotList(sel), ","), out.Result.ID, sel.OutputSlot),
	})
	return effs
}

func plotList(sel Selection) []string {
	out := make([]string, 0, len(sel.Plots)+len(sel.MaterialOrder))
	for _, p := range sel.Plots {
		out = append(out, strconv.Itoa(p.Slot))
	}
	out = append(out, sel.MaterialOrder...)
	return out
}
