package fusion

import (
	"fmt"
	"strings"

	"github.com/example/garden/internal/core/catalog"
)

// Resolver deconstructs assets and matches recipes against a catalog.
// Flattened recipes are computed once at construction; the catalog is
// immutable so the results never go stale.
type Resolver struct {
	cat  *catalog.Catalog
	flat map[string]flattened
}

type flattened struct {
	components Multiset
	errs       []string
}

// path is the chain of fusion ids on the current recursion branch. Each
// branch extends its parent without touching siblings.
type path struct {
	id     string
	parent *path
}

func (p *path) has(id string) bool {
	for n := p; n != nil; n = n.parent {
		if n.id == id {
			return true
		}
	}
	return false
}

func (p *path) push(id string) *path {
	return &path{id: id, parent: p}
}

// NewResolver flattens every recipe in the catalog.
func NewResolver(cat *catalog.Catalog) *Resolver {
	r := &Resolver{cat: cat, flat: make(map[string]flattened)}
	for _, f := range cat.Fusions() {
		components, errs := r.deconstructFusion(f, nil)
		r.flat[f.ID] = flattened{components: components, errs: errs}
	}
	return r
}

// Catalog returns the catalog the resolver was built from.
func (r *Resolver) Catalog() *catalog.Catalog { return r.cat }

// Deconstruct expands an asset into its primitive components. Primitives
// (materials and base plants) return themselves; fusions expand their recipe
// recursively. Any error means the result must not be used.
func (r *Resolver) Deconstruct(a Asset) (Multiset, []string) {
	if r.isPrimitive(a) {
		return NewMultiset(a.Name), nil
	}

	f, ok := r.cat.Fusion(a.ID)
	if !ok || len(f.Recipe) == 0 {
		return NewMultiset(), []string{fmt.Sprintf("Recipe for fusion '%s' is missing.", a.Name)}
	}

	result := r.flat[f.ID]
	return result.components.Clone(), append([]string(nil), result.errs...)
}

// Flattened returns the fully deconstructed recipe of a fusion.
func (r *Resolver) Flattened(fusionID string) (Multiset, []string) {
	result, ok := r.flat[fusionID]
	if !ok {
		return NewMultiset(), []string{fmt.Sprintf("Recipe for fusion '%s' is missing.", fusionID)}
	}
	return result.components.Clone(), append([]string(nil), result.errs...)
}

func (r *Resolver) isPrimitive(a Asset) bool {
	if a.Kind == KindMaterial || a.Type == catalog.TypeMaterial || a.Type == catalog.TypeBasePlant {
		return true
	}
	return r.cat.IsPrimitiveName(a.Name)
}

func (r *Resolver) deconstructFusion(f catalog.FusionRecipe, p *path) (Multiset, []string) {
	if p.has(f.ID) {
		return NewMultiset(), []string{fmt.Sprintf("Infinite recursion detected involving '%s'.", f.Name)}
	}
	if len(f.Recipe) == 0 {
		return NewMultiset(), []string{fmt.Sprintf("Recipe for fusion '%s' is missing.", f.Name)}
	}
	branch := p.push(f.ID)

	components := NewMultiset()
	var errs []string
	for _, name := range f.Recipe {
		if r.cat.IsPrimitiveName(name) {
			components.Add(name, 1)
			continue
		}
		nested, ok := r.cat.FusionByName(name)
		if !ok {
			errs = append(errs, fmt.Sprintf("Recipe for '%s' contains unknown component: '%s'.", f.Name, name))
			continue
		}
		sub, subErrs := r.deconstructFusion(nested, branch)
		components.AddAll(sub)
		errs = append(errs, subErrs...)
	}
	return components, errs
}

// IsValidComponent reports whether an asset can be used in crafting:
// primitives, or fusions whose recipe resolves cleanly.
func (r *Resolver) IsValidComponent(a Asset) bool {
	if r.isPrimitive(a) {
		return true
	}
	f, ok := r.cat.Fusion(a.ID)
	if !ok || len(f.Recipe) == 0 {
		return false
	}
	return len(r.flat[f.ID].errs) == 0
}

// ValidComponents filters assets to those usable in crafting.
func (r *Resolver) ValidComponents(assets []Asset) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if r.IsValidComponent(a) {
			out = append(out, a)
		}
	}
	return out
}

// FindFusionMatch returns the first recipe, in catalog order, whose flattened
// components equal the given multiset exactly.
func (r *Resolver) FindFusionMatch(components Multiset) (catalog.FusionRecipe, bool) {
	if components.Empty() {
		return catalog.FusionRecipe{}, false
	}
	for _, f := range r.cat.Fusions() {
		result := r.flat[f.ID]
		if len(result.errs) > 0 || result.components.Empty() {
			continue
		}
		if result.components.Equal(components) {
			return f, true
		}
	}
	return catalog.FusionRecipe{}, false
}

// IntegrityErrors lists recipes that cannot be flattened and distinct
// recipes whose flattened components collide, in catalog order.
func (r *Resolver) IntegrityErrors() []string {
	var out []string
	seen := make(map[string]string)
	for _, f := range r.cat.Fusions() {
		result := r.flat[f.ID]
		if len(result.errs) > 0 {
			for _, e := range result.errs {
				out = append(out, fmt.Sprintf("fusion %q: %s", f.ID, e))
			}
			continue
		}
		key := flatKey(result.components)
		if other, dup := seen[key]; dup {
			out = append(out, fmt.Sprintf("fusions %q and %q flatten to the same components; %q wins exact matches", other, f.ID, other))
			continue
		}
		seen[key] = f.ID
	}
	return out
}

func flatKey(m Multiset) string {
	var b strings.Builder
	for _, item := range m.Items() {
		fmt.Fprintf(&b, "%s=%d;", item, m[item])
	}
	return b.String()
}
