package catalog

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
)

//go:embed defaults/*.json
var defaultFiles embed.FS

// Defaults returns the catalog data compiled into the binary.
func Defaults() (Data, error) {
	sub, err := fs.Sub(defaultFiles, "defaults")
	if err != nil {
		return Data{}, fmt.Errorf("failed to open embedded catalog: %w", err)
	}
	return LoadFS(sub)
}

// DefaultSalePrices is the price table used when sales_price.json is absent.
func DefaultSalePrices() map[string]int {
	return map[string]int{
		"base_plant": 1000,
		"tier2":      4000,
		"tier3":      9000,
		"tier4":      16000,
		"tier5":      25000,
		"tier6":      36000,
		"tier7":      49000,
		"tier8":      64000,
		"tier9":      81000,
	}
}

// LoadFS reads catalog definition files from fsys. Missing files fall back to
// minimal defaults; malformed files are an error.
func LoadFS(fsys fs.FS) (Data, error) {
	var data Data

	if err := readJSON(fsys, "base_plants.json", &data.BasePlants); err != nil {
		return Data{}, err
	}
	if data.BasePlants == nil {
		data.BasePlants = []BasePlant{{ID: "Peashooter", Name: "Peashooter", Type: TypeBasePlant, Category: DefaultCategory}}
	}

	if err := readJSON(fsys, "seedlings.json", &data.Seedlings); err != nil {
		return Data{}, err
	}
	if err := readJSON(fsys, "fusions.json", &data.Fusions); err != nil {
		return Data{}, err
	}
	if err := readJSON(fsys, "materials.json", &data.Materials); err != nil {
		return Data{}, err
	}

	if err := readJSON(fsys, "backgrounds.json", &data.Backgrounds); err != nil {
		return Data{}, err
	}
	if data.Backgrounds == nil {
		data.Backgrounds = []Background{{ID: "default", Name: "Default", ImageFile: "garden"}}
	}

	var err error
	if data.RuxShop, err = readShop(fsys, "rux_shop.json"); err != nil {
		return Data{}, err
	}
	if data.PennyShop, err = readShop(fsys, "penny_shop.json"); err != nil {
		return Data{}, err
	}
	if data.DaveShop, err = readShop(fsys, "dave_shop.json"); err != nil {
		return Data{}, err
	}

	if err := readJSON(fsys, "sales_price.json", &data.SalePrices); err != nil {
		return Data{}, err
	}
	if len(data.SalePrices) == 0 {
		data.SalePrices = DefaultSalePrices()
	}

	return data, nil
}

// readJSON decodes name into v, leaving v untouched when the file is absent.
func readJSON(fsys fs.FS, name string, v any) error {
	raw, err := fs.ReadFile(fsys, name)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

// readShop decodes a shop file keyed by item id.
func readShop(fsys fs.FS, name string) ([]ShopItemDefinition, error) {
	var byID map[string]ShopItemDefinition
	if err := readJSON(fsys, name, &byID); err != nil {
		return nil, err
	}
	items := make([]ShopItemDefinition, 0, len(byID))
	for id, item := range byID {
		item.ID = id
		items = append(items, item)
	}
	return items, nil
}
