package fusion

import "sort"

// FindCraftingPlan searches assets for a subset whose deconstructed union
// covers required.
//
// The search is greedy: candidates are ordered by deconstructed size,
// largest first (stable, so catalog and asset order break ties), and each is
// taken whole when it fits inside what is still needed. This prefers
// consuming prebuilt fused units over raw materials. It is a heuristic, not
// an exhaustive packing, and can miss a plan that exists.
//
// Assets that are instances of excludeID are never used. On success it
// returns the plan and an empty multiset; otherwise nil and the shortfall.
func (r *Resolver) FindCraftingPlan(required Multiset, assets []Asset, excludeID string) ([]Asset, Multiset) {
	type candidate struct {
		asset      Asset
		components Multiset
	}

	var candidates []candidate
	for _, a := range assets {
		if excludeID != "" && a.ID == excludeID {
			continue
		}
		if !r.IsValidComponent(a) {
			continue
		}
		components, errs := r.Deconstruct(a)
		if len(errs) > 0 {
			continue
		}
		candidates = append(candidates, candidate{asset: a, components: components})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].components.Size() > candidates[j].components.Size()
	})

	needed := required.Clone()
	var plan []Asset
	for _, c := range candidates {
		if needed.Contains(c.components) {
			needed = needed.Minus(c.components)
			plan = append(plan, c.asset)
		}
	}

	if needed.Empty() {
		return plan, NewMultiset()
	}
	return nil, needed
}

// PartialMatch runs the same greedy pass as FindCraftingPlan and returns the
// display names of every asset that fits, even when the recipe cannot be
// completed.
func (r *Resolver) PartialMatch(required Multiset, assets []Asset) []string {
	type candidate struct {
		name       string
		components Multiset
	}

	var candidates []candidate
	for _, a := range r.ValidComponents(assets) {
		components, _ := r.Deconstruct(a)
		candidates = append(candidates, candidate{name: a.Name, components: components})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].components.Size() > candidates[j].components.Size()
	})

	needed := required.Clone()
	var have []string
	for _, c := range candidates {
		if c.components.Empty() {
			continue
		}
		if needed.Contains(c.components) {
			needed = needed.Minus(c.components)
			have = append(have, c.name)
		}
	}
	return have
}
