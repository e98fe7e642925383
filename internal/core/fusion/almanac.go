package fusion

import (
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/example/garden/internal/core/catalog"
)

// Filter is one key:value almanac filter. Both parts are lower-cased.
type Filter struct {
	Key   string
	Value string
}

// Query is a parsed almanac argument string.
type Query struct {
	Filters []Filter
	Page    int
}

// Has reports whether a filter with key and value is present.
func (q Query) Has(key, value string) bool {
	for _, f := range q.Filters {
		if f.Key == key && f.Value == value {
			return true
		}
	}
	return false
}

// Missing extracts the missing:<n> filter, if any, and returns the query
// without it.
func (q Query) Missing() (int, bool, Query) {
	rest := Query{Page: q.Page}
	n, found := 0, false
	for _, f := range q.Filters {
		if f.Key == "missing" {
			if v, err := strconv.Atoi(f.Value); err == nil {
				n, found = v, true
			}
			continue
		}
		rest.Filters = append(rest.Filters, f)
	}
	return n, found, rest
}

// ParseQuery splits free text into key:value filters and a trailing page
// number. A filter value runs until the next word that looks like "key:".
// Text that is not part of any filter is ignored.
func ParseQuery(args string) Query {
	q := Query{Page: 1}
	words := strings.Fields(args)
	if len(words) == 0 {
		return q
	}
	if last := words[len(words)-1]; isDigits(last) {
		if page, err := strconv.Atoi(last); err == nil {
			q.Page = page
		}
		words = words[:len(words)-1]
	}

	var parts []string
	for _, w := range words {
		if startsFilter(w) || len(parts) == 0 {
			parts = append(parts, w)
			continue
		}
		parts[len(parts)-1] += " " + w
	}

	for _, part := range parts {
		key, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		q.Filters = append(q.Filters, Filter{
			Key:   strings.ToLower(strings.TrimSpace(key)),
			Value: strings.ToLower(strings.TrimSpace(value)),
		})
	}
	return q
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// startsFilter reports whether w begins with one or more word characters
// followed by a colon.
func startsFilter(w string) bool {
	i := strings.IndexByte(w, ':')
	if i <= 0 {
		return false
	}
	for _, r := range w[:i] {
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}

// NormalizeTier maps tier aliases ("inf", "infinity", "tier3", "3") to the
// canonical tier string.
func NormalizeTier(value string) string {
	v := strings.ToLower(value)
	v = strings.ReplaceAll(v, "infinity", "∞")
	v = strings.ReplaceAll(v, "inf", "∞")
	v = strings.ReplaceAll(v, "tier", "")
	return "tier" + v
}

// ApplyFilters narrows fusions by the parsed filters, in order. plans maps
// fusion ids to crafting plans and is only consulted by storage:false; when
// it is nil that filter is ignored. Unknown keys and missing: are ignored.
func (r *Resolver) ApplyFilters(fusions []catalog.FusionRecipe, filters []Filter, discovered map[string]bool, plans map[string][]Asset) []catalog.FusionRecipe {
	results := append([]catalog.FusionRecipe(nil), fusions...)

	for _, f := range filters {
		switch f.Key {
		case "name":
			results = keep(results, func(fr catalog.FusionRecipe) bool {
				return strings.Contains(strings.ToLower(fr.Name), f.Value)
			})
		case "contains":
			results = r.filterContains(results, f.Value)
		case "discovered":
			want := f.Value == "true"
			results = keep(results, func(fr catalog.FusionRecipe) bool {
				return discovered[fr.ID] == want
			})
		case "storage":
			if plans == nil || f.Value != "false" {
				continue
			}
			results = keep(results, func(fr catalog.FusionRecipe) bool {
				plan, ok := plans[fr.ID]
				if !ok {
					return false
				}
				for _, a := range plan {
					if a.Source == SourceStorage {
						return false
					}
				}
				return true
			})
		case "tier":
			tier := NormalizeTier(f.Value)
			results = keep(results, func(fr catalog.FusionRecipe) bool {
				return strings.ToLower(fr.Type) == tier
			})
		}
	}
	return results
}

// filterContains keeps recipes that include value: as a sub-recipe when
// value names a known fusion, otherwise as a substring of a component name
// or of a component's material id.
func (r *Resolver) filterContains(fusions []catalog.FusionRecipe, value string) []catalog.FusionRecipe {
	if searched, ok := r.cat.FindFusion(value); ok {
		want := NewMultiset(searched.Recipe...)
		return keep(fusions, func(fr catalog.FusionRecipe) bool {
			return NewMultiset(fr.Recipe...).Contains(want)
		})
	}

	return keep(fusions, func(fr catalog.FusionRecipe) bool {
		for _, comp := range fr.Recipe {
			if strings.Contains(strings.ToLower(comp), value) {
				return true
			}
			if id, ok := r.cat.ResolveMaterial(comp); ok && strings.Contains(strings.ToLower(id), value) {
				return true
			}
		}
		return false
	})
}

func keep(fusions []catalog.FusionRecipe, pred func(catalog.FusionRecipe) bool) []catalog.FusionRecipe {
	out := fusions[:0:0]
	for _, f := range fusions {
		if pred(f) {
			out = append(out, f)
		}
	}
	return out
}

// Craftable is a visible fusion the user can make right now.
type Craftable struct {
	Fusion catalog.FusionRecipe
	Plan   []Asset
	IsNew  bool
}

// UsesStorage reports whether the plan needs stored plants.
func (c Craftable) UsesStorage() bool {
	for _, a := range c.Plan {
		if a.Source == SourceStorage {
			return true
		}
	}
	return false
}

// Available finds every visible fusion with a crafting plan, applies the
// filters, and sorts new discoveries first, then by recipe length and name.
func (r *Resolver) Available(assets []Asset, discovered map[string]bool, filters []Filter) []Craftable {
	var all []Craftable
	plans := make(map[string][]Asset)
	for _, f := range r.cat.VisibleFusions() {
		required, errs := r.Flattened(f.ID)
		if len(errs) > 0 {
			continue
		}
		plan, _ := r.FindCraftingPlan(required, assets, f.ID)
		if plan == nil {
			continue
		}
		all = append(all, Craftable{Fusion: f, Plan: plan, IsNew: !discovered[f.ID]})
		plans[f.ID] = plan
	}

	defs := make([]catalog.FusionRecipe, 0, len(all))
	for _, c := range all {
		defs = append(defs, c.Fusion)
	}
	allowed := idSet(r.ApplyFilters(defs, filters, discovered, plans))

	out := make([]Craftable, 0, len(all))
	for _, c := range all {
		if allowed[c.Fusion.ID] {
			out = append(out, c)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.IsNew != b.IsNew {
			return a.IsNew
		}
		if len(a.Fusion.Recipe) != len(b.Fusion.Recipe) {
			return len(a.Fusion.Recipe) < len(b.Fusion.Recipe)
		}
		return a.Fusion.Name < b.Fusion.Name
	})
	return out
}

// Discovery groups, in display order.
const (
	GroupCraftable     = 0
	GroupHasPlants     = 1
	GroupMaterialsOnly = 2
	GroupNothing       = 3
)

// Potential is an undiscovered visible fusion with what the user has
// toward it and what is still needed.
type Potential struct {
	Fusion catalog.FusionRecipe
	Plan   []Asset
	Needed Multiset
	Have   []string
	Group  int
}

// Discover analyses every undiscovered visible fusion. storage:false drops
// stored assets before planning; missing:<n> keeps fusions whose total
// shortfall is exactly n.
func (r *Resolver) Discover(assets []Asset, discovered map[string]bool, q Query) []Potential {
	if q.Has("storage", "false") {
		assets = WithoutStorage(assets)
	}
	missing, hasMissing, q := q.Missing()

	var all []Potential
	for _, f := range r.cat.VisibleFusions() {
		if discovered[f.ID] {
			continue
		}
		required, errs := r.Flattened(f.ID)
		if len(errs) > 0 {
			continue
		}

		p := Potential{Fusion: f}
		p.Plan, p.Needed = r.FindCraftingPlan(required, assets, f.ID)
		if p.Plan != nil {
			p.Group = GroupCraftable
			for _, a := range p.Plan {
				p.Have = append(p.Have, a.Name)
			}
		} else {
			p.Have = r.PartialMatch(required, assets)
			p.Group = GroupNothing
			if len(p.Have) > 0 {
				p.Group = GroupMaterialsOnly
				for _, name := range p.Have {
					if !r.cat.IsMaterialName(name) {
						p.Group = GroupHasPlants
						break
					}
				}
			}
		}
		all = append(all, p)
	}

	defs := make([]catalog.FusionRecipe, 0, len(all))
	for _, p := range all {
		defs = append(defs, p.Fusion)
	}
	allowed := idSet(r.ApplyFilters(defs, q.Filters, discovered, nil))

	out := make([]Potential, 0, len(all))
	for _, p := range all {
		if !allowed[p.Fusion.ID] {
			continue
		}
		if hasMissing && p.Needed.Size() != missing {
			continue
		}
		out = append(out, p)
	}

	sort.SliceStable(out, func(i, j int) bool { return lessPotential(out[i], out[j]) })
	return out
}

// lessPotential orders by group, then: for craftable and plant groups by
// shortfall, recipe length, name; for materials-only by most owned, recipe
// length, name; for the rest by recipe length, name.
func lessPotential(a, b Potential) bool {
	if a.Group != b.Group {
		return a.Group < b.Group
	}
	switch {
	case a.Group < GroupMaterialsOnly:
		if a.Needed.Size() != b.Needed.Size() {
			return a.Needed.Size() < b.Needed.Size()
		}
	case a.Group == GroupMaterialsOnly:
		if len(a.Have) != len(b.Have) {
			return len(a.Have) > len(b.Have)
		}
	}
	if len(a.Fusion.Recipe) != len(b.Fusion.Recipe) {
		return len(a.Fusion.Recipe) < len(b.Fusion.Recipe)
	}
	return a.Fusion.Name < b.Fusion.Name
}

// Discovered lists the almanac entries of a profile: discovered visible
// fusions in catalog order, then discovered hidden ones, filtered and sorted
// by name.
func (r *Resolver) Discovered(discovered map[string]bool, filters []Filter) []catalog.FusionRecipe {
	var entries []catalog.FusionRecipe
	for _, f := range r.cat.Fusions() {
		if f.Visibility == catalog.VisibilityInvisible || !discovered[f.ID] {
			continue
		}
		entries = append(entries, f)
	}
	entries = r.ApplyFilters(entries, filters, discovered, nil)
	sort.SliceStable(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries
}

// AlmanacTotal is the denominator shown with discovered counts: every
// visible fusion plus the hidden ones already discovered.
func (r *Resolver) AlmanacTotal(discovered map[string]bool) int {
	total := 0
	for _, f := range r.cat.Fusions() {
		switch f.Visibility {
		case catalog.VisibilityVisible:
			total++
		case catalog.VisibilityHidden:
			if discovered[f.ID] {
				total++
			}
		}
	}
	return total
}

// Page clamps a 1-indexed page and returns the slice bounds for it.
func Page(n, perPage, page int) (start, end, clamped, totalPages int) {
	totalPages = (n + perPage - 1) / perPage
	if totalPages < 1 {
		totalPages = 1
	}
	clamped = page
	if clamped < 1 {
		clamped = 1
	}
	if clamped > totalPages {
		clamped = totalPages
	}
	start = (clamped - 1) * perPage
	end = start + perPage
	if start > n {
		start = n
	}
	if end > n {
		end = n
	}
	return start, end, clamped, totalPages
}

func idSet(fusions []catalog.FusionRecipe) map[string]bool {
	set := make(map[string]bool, len(fusions))
	for _, f := range fusions {
		set[f.ID] = true
	}
	return set
}
