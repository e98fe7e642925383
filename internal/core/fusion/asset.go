package fusion

import (
	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/garden"
)

// Kind tags what an asset is.
type Kind int

const (
	KindPlant Kind = iota
	KindMaterial
)

// Source says where an owned asset lives.
type Source string

const (
	SourceGarden    Source = "garden"
	SourceStorage   Source = "storage"
	SourceInventory Source = "inventory"
)

// Asset is one owned, craftable thing: a mature plant in a plot or the shed,
// or a single unit of an inventory material.
type Asset struct {
	Kind   Kind
	ID     string
	Name   string
	Type   string
	Source Source
	// Slot is the 1-indexed plot or storage slot; 0 for inventory.
	Slot int
}

// PlantAsset wraps a plant.
func PlantAsset(p garden.Plant, source Source, slot int) Asset {
	return Asset{Kind: KindPlant, ID: p.ID, Name: p.DisplayName(), Type: p.Type, Source: source, Slot: slot}
}

// MaterialAsset wraps one unit of a material.
func MaterialAsset(id, name string) Asset {
	return Asset{Kind: KindMaterial, ID: id, Name: name, Type: catalog.TypeMaterial, Source: SourceInventory}
}

// UserAssets lists everything a profile could craft with: garden plants in
// plot order, stored plants in slot order, then one asset per material unit
// in material id order. Seedlings and non-material items are skipped.
func UserAssets(v garden.View, cat *catalog.Catalog) []Asset {
	var assets []Asset

	for i, occ := range v.Garden() {
		if plant, ok := occ.(garden.Plant); ok {
			assets = append(assets, PlantAsset(plant, SourceGarden, i+1))
		}
	}

	for i, plant := range v.Storage() {
		if plant != nil {
			assets = append(assets, PlantAsset(*plant, SourceStorage, i+1))
		}
	}

	for _, id := range v.InventoryIDs() {
		name, ok := cat.MaterialName(id)
		if !ok {
			continue
		}
		for n := 0; n < v.Quantity(id); n++ {
			assets = append(assets, MaterialAsset(id, name))
		}
	}

	return assets
}

// WithoutStorage drops stored assets.
func WithoutStorage(assets []Asset) []Asset {
	out := make([]Asset, 0, len(assets))
	for _, a := range assets {
		if a.Source != SourceStorage {
			out = append(out, a)
		}
	}
	return out
}
