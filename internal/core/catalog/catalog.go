// Package catalog holds the immutable game definitions: base plants, seedlings,
// fusion recipes, materials, shop items, backgrounds and sale prices.
// A Catalog is built once at startup and only read afterwards.
package catalog

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
)

// Visibility controls how a fusion recipe is presented to players.
type Visibility string

const (
	VisibilityVisible   Visibility = "visible"
	VisibilityHidden    Visibility = "hidden"
	VisibilityInvisible Visibility = "invisible"
)

// TypeMaterial is the asset type tag of inventory materials.
const TypeMaterial = "material"

// TypeBasePlant is the default tier of leaf plants.
const TypeBasePlant = "base_plant"

// DefaultCategory is used when a planted seedling has no definition.
const DefaultCategory = "vanilla"

// BasePlant is a leaf plant and the target of maturation.
type BasePlant struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	Shop     bool   `json:"shop"`
}

// SeedlingDefinition describes what gets planted.
type SeedlingDefinition struct {
	ID               string  `json:"id"`
	Category         string  `json:"category"`
	Cost             int     `json:"cost"`
	Stock            int     `json:"stock"`
	GrowthMultiplier float64 `json:"growth_multiplier"`
}

// FusionRecipe is a crafted plant. Recipe entries name base plants,
// materials, or other fusions.
type FusionRecipe struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Type       string     `json:"type"`
	Recipe     []string   `json:"recipe"`
	Visibility Visibility `json:"visibility"`
}

// Background is a garden backdrop unlocked by discovering fusions.
type Background struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	ImageFile       string   `json:"image_file"`
	RequiredFusions []string `json:"required_fusions"`
}

// ShopItemDefinition is an item sold by one of the shops.
type ShopItemDefinition struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Cost         int      `json:"cost"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	Requirements []string `json:"requirements"`
	Stock        int      `json:"stock"`
	Type         string   `json:"type"`
}

// Data is the raw input a Catalog is built from.
type Data struct {
	BasePlants  []BasePlant
	Seedlings   []SeedlingDefinition
	Fusions     []FusionRecipe
	Materials   map[string]string
	Backgrounds []Background
	PennyShop   []ShopItemDefinition
	RuxShop     []ShopItemDefinition
	DaveShop    []ShopItemDefinition
	SalePrices  map[string]int
}

// Catalog is the validated, indexed, read-only view over Data.
type Catalog struct {
	basePlants       []BasePlant
	basePlantsByID   map[string]BasePlant
	basePlantNames   map[string]struct{}
	plantsByCategory map[string][]BasePlant

	seedlings     []SeedlingDefinition
	seedlingsByID map[string]SeedlingDefinition

	fusions       []FusionRecipe
	fusionsByID   map[string]FusionRecipe
	fusionsByName map[string]FusionRecipe

	materials        map[string]string
	materialIDs      []string
	materialNames    map[string]struct{}
	materialByLookup map[string]string

	backgrounds     []Background
	backgroundsByID map[string]Background

	pennyShop []ShopItemDefinition
	ruxShop   []ShopItemDefinition
	daveShop  []ShopItemDefinition

	salePrices map[string]int
}

// New validates and indexes catalog data. Structural problems (duplicate
// ids) are returned as an error; integrity problems that the game can run
// with are returned as warnings for the caller to log.
func New(data Data) (*Catalog, []string, error) {
	c := &Catalog{
		basePlantsByID:   make(map[string]BasePlant),
		basePlantNames:   make(map[string]struct{}),
		plantsByCategory: make(map[string][]BasePlant),
		seedlingsByID:    make(map[string]SeedlingDefinition),
		fusionsByID:      make(map[string]FusionRecipe),
		fusionsByName:    make(map[string]FusionRecipe),
		materials:        make(map[string]string),
		materialNames:    make(map[string]struct{}),
		materialByLookup: make(map[string]string),
		backgroundsByID:  make(map[string]Background),
		salePrices:       make(map[string]int),
	}

	for _, p := range data.BasePlants {
		if p.ID == "" {
			return nil, nil, fmt.Errorf("base plant with empty id")
		}
		if _, dup := c.basePlantsByID[p.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate base plant id %q", p.ID)
		}
		if p.Name == "" {
			p.Name = p.ID
		}
		if p.Type == "" {
			p.Type = TypeBasePlant
		}
		c.basePlants = append(c.basePlants, p)
		c.basePlantsByID[p.ID] = p
		c.basePlantNames[p.Name] = struct{}{}
		if p.Category != "" {
			c.plantsByCategory[p.Category] = append(c.plantsByCategory[p.Category], p)
		}
	}

	for _, s := range data.Seedlings {
		if _, dup := c.seedlingsByID[s.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate seedling id %q", s.ID)
		}
		if s.GrowthMultiplier <= 0 {
			s.GrowthMultiplier = 1.0
		}
		c.seedlings = append(c.seedlings, s)
		c.seedlingsByID[s.ID] = s
	}

	for id, name := range data.Materials {
		c.materials[id] = name
		c.materialIDs = append(c.materialIDs, id)
		c.materialNames[name] = struct{}{}
		c.materialByLookup[strings.ToLower(id)] = id
	}
	sort.Strings(c.materialIDs)
	for _, id := range c.materialIDs {
		lower := strings.ToLower(c.materials[id])
		if _, taken := c.materialByLookup[lower]; !taken {
			c.materialByLookup[lower] = id
		}
	}

	for _, f := range data.Fusions {
		if f.ID == "" {
			return nil, nil, fmt.Errorf("fusion with empty id")
		}
		if _, dup := c.fusionsByID[f.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate fusion id %q", f.ID)
		}
		if f.Name == "" {
			f.Name = f.ID
		}
		if f.Visibility == "" {
			f.Visibility = VisibilityVisible
		}
		f.Recipe = append([]string(nil), f.Recipe...)
		c.fusions = append(c.fusions, f)
		c.fusionsByID[f.ID] = f
		if _, taken := c.fusionsByName[f.Name]; !taken {
			c.fusionsByName[f.Name] = f
		}
	}

	for _, bg := range data.Backgrounds {
		if _, dup := c.backgroundsByID[bg.ID]; dup {
			return nil, nil, fmt.Errorf("duplicate background id %q", bg.ID)
		}
		c.backgrounds = append(c.backgrounds, bg)
		c.backgroundsByID[bg.ID] = bg
	}

	c.pennyShop = normalizeShop(data.PennyShop)
	c.ruxShop = normalizeShop(data.RuxShop)
	c.daveShop = normalizeShop(data.DaveShop)

	for tier, price := range data.SalePrices {
		c.salePrices[tier] = price
	}

	return c, c.integrityWarnings(), nil
}

func normalizeShop(items []ShopItemDefinition) []ShopItemDefinition {
	out := make([]ShopItemDefinition, 0, len(items))
	for _, item := range items {
		if item.Name == "" {
			item.Name = item.ID
		}
		out = append(out, item)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// integrityWarnings reports catalog problems the game tolerates but operators
// must fix: recipes sharing a multiset, unresolvable components, and seedling
// categories that can never mature.
func (c *Catalog) integrityWarnings() []string {
	var warnings []string

	seen := make(map[string]string)
	for _, f := range c.fusions {
		if len(f.Recipe) == 0 {
			warnings = append(warnings, fmt.Sprintf("fusion %q has an empty recipe", f.ID))
			continue
		}
		key := RecipeKey(f.Recipe)
		if other, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("fusions %q and %q share the recipe %s; %q wins exact matches", other, f.ID, key, other))
		} else {
			seen[key] = f.ID
		}
		for _, comp := range f.Recipe {
			if !c.IsPrimitiveName(comp) {
				if _, ok := c.fusionsByName[comp]; !ok {
					warnings = append(warnings, fmt.Sprintf("fusion %q references unknown component %q", f.ID, comp))
				}
			}
		}
	}

	if len(c.plantsByCategory[DefaultCategory]) == 0 {
		warnings = append(warnings, fmt.Sprintf("no base plants in category %q; default seedlings will not mature", DefaultCategory))
	}
	for _, s := range c.seedlings {
		if len(c.plantsByCategory[s.Category]) == 0 {
			warnings = append(warnings, fmt.Sprintf("seedling %q has category %q with no base plants; it will not mature", s.ID, s.Category))
		}
	}
	return warnings
}

// RecipeKey returns an order-independent key for a recipe multiset.
func RecipeKey(recipe []string) string {
	sorted := append([]string(nil), recipe...)
	sort.Strings(sorted)
	return "[" + strings.Join(sorted, ", ") + "]"
}

// BasePlants returns all base plants in catalog order.
func (c *Catalog) BasePlants() []BasePlant {
	return append([]BasePlant(nil), c.basePlants...)
}

// BasePlant returns the base plant with the given id.
func (c *Catalog) BasePlant(id string) (BasePlant, bool) {
	p, ok := c.basePlantsByID[id]
	return p, ok
}

// FindBasePlant looks a base plant up by id or name, ignoring case.
func (c *Catalog) FindBasePlant(query string) (BasePlant, bool) {
	for _, p := range c.basePlants {
		if strings.EqualFold(p.ID, query) || strings.EqualFold(p.Name, query) {
			return p, true
		}
	}
	return BasePlant{}, false
}

// IsBasePlantName reports whether name is the display name of a base plant.
func (c *Catalog) IsBasePlantName(name string) bool {
	_, ok := c.basePlantNames[name]
	return ok
}

// PlantsInCategory returns the base plants of a category.
func (c *Catalog) PlantsInCategory(category string) []BasePlant {
	return append([]BasePlant(nil), c.plantsByCategory[category]...)
}

// RandomPlantByCategory picks a base plant of the category uniformly at random.
func (c *Catalog) RandomPlantByCategory(rng *rand.Rand, category string) (BasePlant, bool) {
	plants := c.plantsByCategory[category]
	if len(plants) == 0 {
		return BasePlant{}, false
	}
	return plants[rng.IntN(len(plants))], true
}

// Seedling returns the seedling definition with the given id.
func (c *Catalog) Seedling(id string) (SeedlingDefinition, bool) {
	s, ok := c.seedlingsByID[id]
	return s, ok
}

// Seedlings returns all seedling definitions in catalog order.
func (c *Catalog) Seedlings() []SeedlingDefinition {
	return append([]SeedlingDefinition(nil), c.seedlings...)
}

// Fusions returns every fusion recipe in catalog order.
func (c *Catalog) Fusions() []FusionRecipe {
	return append([]FusionRecipe(nil), c.fusions...)
}

// VisibleFusions returns the recipes listed in the almanac.
func (c *Catalog) VisibleFusions() []FusionRecipe {
	var out []FusionRecipe
	for _, f := range c.fusions {
		if f.Visibility == VisibilityVisible {
			out = append(out, f)
		}
	}
	return out
}

// Fusion returns the fusion recipe with the given id.
func (c *Catalog) Fusion(id string) (FusionRecipe, bool) {
	f, ok := c.fusionsByID[id]
	return f, ok
}

// FusionByName returns the fusion recipe with the given display name.
func (c *Catalog) FusionByName(name string) (FusionRecipe, bool) {
	f, ok := c.fusionsByName[name]
	return f, ok
}

// FindFusion searches by id first, then by name, ignoring case.
func (c *Catalog) FindFusion(query string) (FusionRecipe, bool) {
	for _, f := range c.fusions {
		if strings.EqualFold(f.ID, query) {
			return f, true
		}
	}
	for _, f := range c.fusions {
		if strings.EqualFold(f.Name, query) {
			return f, true
		}
	}
	return FusionRecipe{}, false
}

// Materials returns a copy of the material id to name mapping.
func (c *Catalog) Materials() map[string]string {
	out := make(map[string]string, len(c.materials))
	for k, v := range c.materials {
		out[k] = v
	}
	return out
}

// MaterialIDs returns material ids sorted.
func (c *Catalog) MaterialIDs() []string {
	return append([]string(nil), c.materialIDs...)
}

// MaterialName returns the display name of a material id.
func (c *Catalog) MaterialName(id string) (string, bool) {
	name, ok := c.materials[id]
	return name, ok
}

// IsMaterialName reports whether name is a material display name.
func (c *Catalog) IsMaterialName(name string) bool {
	_, ok := c.materialNames[name]
	return ok
}

// ResolveMaterial maps user input (id or display name, any case) to a material id.
func (c *Catalog) ResolveMaterial(input string) (string, bool) {
	id, ok := c.materialByLookup[strings.ToLower(input)]
	return id, ok
}

// IsPrimitiveName reports whether a recipe component is a leaf (material or base plant).
func (c *Catalog) IsPrimitiveName(name string) bool {
	return c.IsMaterialName(name) || c.IsBasePlantName(name)
}

// DisplayName resolves a component id or name to its display name.
func (c *Catalog) DisplayName(component string) string {
	if p, ok := c.basePlantsByID[component]; ok {
		return p.Name
	}
	if f, ok := c.FindFusion(component); ok {
		return f.Name
	}
	if name, ok := c.materials[component]; ok {
		return name
	}
	return component
}

// Backgrounds returns every background in catalog order.
func (c *Catalog) Backgrounds() []Background {
	return append([]Background(nil), c.backgrounds...)
}

// Background returns the background with the given id.
func (c *Catalog) Background(id string) (Background, bool) {
	bg, ok := c.backgroundsByID[id]
	return bg, ok
}

// FindBackground searches by id or name, ignoring case.
func (c *Catalog) FindBackground(query string) (Background, bool) {
	for _, bg := range c.backgrounds {
		if strings.EqualFold(bg.ID, query) || strings.EqualFold(bg.Name, query) {
			return bg, true
		}
	}
	return Background{}, false
}

// BackgroundUnlocks returns the backgrounds not yet unlocked whose required
// fusions are all discovered. Backgrounds without requirements never unlock
// this way.
func (c *Catalog) BackgroundUnlocks(discovered, unlocked []string) []Background {
	have := toSet(discovered)
	already := toSet(unlocked)

	var out []Background
	for _, bg := range c.backgrounds {
		if _, ok := already[bg.ID]; ok {
			continue
		}
		if len(bg.RequiredFusions) == 0 {
			continue
		}
		complete := true
		for _, req := range bg.RequiredFusions {
			if _, ok := have[req]; !ok {
				complete = false
				break
			}
		}
		if complete {
			out = append(out, bg)
		}
	}
	return out
}

// PennyItems returns Penny's catalog sorted by id.
func (c *Catalog) PennyItems() []ShopItemDefinition {
	return append([]ShopItemDefinition(nil), c.pennyShop...)
}

// RuxItems returns Rux's catalog sorted by id.
func (c *Catalog) RuxItems() []ShopItemDefinition {
	return append([]ShopItemDefinition(nil), c.ruxShop...)
}

// RuxItem looks a Rux item up by id, ignoring case.
func (c *Catalog) RuxItem(id string) (ShopItemDefinition, bool) {
	for _, item := range c.ruxShop {
		if strings.EqualFold(item.ID, id) {
			return item, true
		}
	}
	return ShopItemDefinition{}, false
}

// DaveItems returns Dave's fixed catalog sorted by id.
func (c *Catalog) DaveItems() []ShopItemDefinition {
	return append([]ShopItemDefinition(nil), c.daveShop...)
}

// ItemName resolves any known item id (shop items, materials) to a display name.
func (c *Catalog) ItemName(id string) string {
	for _, shop := range [][]ShopItemDefinition{c.ruxShop, c.pennyShop, c.daveShop} {
		for _, item := range shop {
			if item.ID == id {
				return item.Name
			}
		}
	}
	if name, ok := c.materials[id]; ok {
		return name
	}
	return id
}

// SalePrices returns a copy of the tier to price table.
func (c *Catalog) SalePrices() map[string]int {
	out := make(map[string]int, len(c.salePrices))
	for k, v := range c.salePrices {
		out[k] = v
	}
	return out
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}
