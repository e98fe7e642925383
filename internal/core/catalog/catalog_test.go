package catalog

import (
	"math/rand/v2"
	"reflect"
	"strings"
	"testing"
	"testing/fstest"
)

func testData() Data {
	return Data{
		BasePlants: []BasePlant{
			{ID: "A", Name: "A", Type: TypeBasePlant, Category: "vanilla"},
			{ID: "B", Name: "B", Type: TypeBasePlant, Category: "vanilla", Shop: true},
			{ID: "N", Name: "N", Type: TypeBasePlant, Category: "night"},
		},
		Seedlings: []SeedlingDefinition{
			{ID: "Seedling", Category: "vanilla", Cost: 100, Stock: 10, GrowthMultiplier: 1},
		},
		Fusions: []FusionRecipe{
			{ID: "AB", Name: "AB", Type: "tier2", Recipe: []string{"A", "B"}, Visibility: VisibilityVisible},
			{ID: "AAB", Name: "Double A", Type: "tier3", Recipe: []string{"AB", "A"}},
		},
		Materials:   map[string]string{"plant_food": "Plant Food"},
		Backgrounds: []Background{{ID: "default", Name: "Default"}, {ID: "sky", Name: "Sky", RequiredFusions: []string{"AB", "AAB"}}},
		RuxShop:     []ShopItemDefinition{{ID: "plot_7", Cost: 5000}, {ID: "storage_shed", Name: "Shed", Cost: 100}},
	}
}

func TestNewDefaultsAndIndexes(t *testing.T) {
	c, warnings, err := New(testData())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("warnings = %v, want none", warnings)
	}

	f, ok := c.Fusion("AAB")
	if !ok {
		t.Fatal("expected fusion AAB")
	}
	if f.Visibility != VisibilityVisible {
		t.Errorf("Visibility = %q, want default visible", f.Visibility)
	}
	if !c.IsBasePlantName("A") || c.IsBasePlantName("AB") {
		t.Error("IsBasePlantName mismatch")
	}
	if !c.IsPrimitiveName("Plant Food") {
		t.Error("expected Plant Food to be primitive")
	}
	if id, ok := c.ResolveMaterial("plant food"); !ok || id != "plant_food" {
		t.Errorf("ResolveMaterial = %q, %v", id, ok)
	}
	if id, ok := c.ResolveMaterial("PLANT_FOOD"); !ok || id != "plant_food" {
		t.Errorf("ResolveMaterial by id = %q, %v", id, ok)
	}

	items := c.RuxItems()
	if items[0].ID != "plot_7" || items[0].Name != "plot_7" {
		t.Errorf("rux items not sorted/normalized: %+v", items)
	}
}

func TestNewRejectsDuplicateIDs(t *testing.T) {
	data := testData()
	data.Fusions = append(data.Fusions, FusionRecipe{ID: "AB", Recipe: []string{"A"}})

	if _, _, err := New(data); err == nil {
		t.Fatal("expected error for duplicate fusion id")
	}
}

func TestNewWarnings(t *testing.T) {
	data := testData()
	data.Fusions = append(data.Fusions,
		FusionRecipe{ID: "BA", Recipe: []string{"B", "A"}},
		FusionRecipe{ID: "Ghost", Recipe: []string{"A", "Unknown"}},
	)
	data.Seedlings = append(data.Seedlings, SeedlingDefinition{ID: "Pool", Category: "pool"})

	_, warnings, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	wantFragments := []string{
		`fusions "AB" and "BA" share the recipe`,
		`fusion "Ghost" references unknown component "Unknown"`,
		`seedling "Pool" has category "pool"`,
	}
	for _, frag := range wantFragments {
		found := false
		for _, w := range warnings {
			if strings.Contains(w, frag) {
				found = true
			}
		}
		if !found {
			t.Errorf("missing warning containing %q in %v", frag, warnings)
		}
	}
}

func TestFindFusionPrefersID(t *testing.T) {
	data := testData()
	data.Fusions = append(data.Fusions, FusionRecipe{ID: "X", Name: "ab", Recipe: []string{"N"}})
	c, _, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	f, ok := c.FindFusion("ab")
	if !ok || f.ID != "AB" {
		t.Errorf("FindFusion(ab) = %q, want AB", f.ID)
	}
	f, ok = c.FindFusion("double a")
	if !ok || f.ID != "AAB" {
		t.Errorf("FindFusion(double a) = %q, want AAB", f.ID)
	}
}

func TestRandomPlantByCategory(t *testing.T) {
	c, _, _ := New(testData())
	rng := rand.New(rand.NewPCG(1, 2))

	for i := 0; i < 20; i++ {
		p, ok := c.RandomPlantByCategory(rng, "vanilla")
		if !ok {
			t.Fatal("expected a plant")
		}
		if p.Category != "vanilla" {
			t.Errorf("category = %q, want vanilla", p.Category)
		}
	}
	if _, ok := c.RandomPlantByCategory(rng, "pool"); ok {
		t.Error("expected no plant for empty category")
	}
}

func TestBackgroundUnlocks(t *testing.T) {
	c, _, _ := New(testData())

	tests := []struct {
		name       string
		discovered []string
		unlocked   []string
		want       []string
	}{
		{name: "nothing discovered", want: nil},
		{name: "partial set", discovered: []string{"AB"}, want: nil},
		{name: "complete set", discovered: []string{"AB", "AAB"}, want: []string{"sky"}},
		{name: "already unlocked", discovered: []string{"AB", "AAB"}, unlocked: []string{"sky"}, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, bg := range c.BackgroundUnlocks(tt.discovered, tt.unlocked) {
				got = append(got, bg.ID)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("BackgroundUnlocks() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSuggestFusions(t *testing.T) {
	c, _, _ := New(Data{
		Fusions: []FusionRecipe{
			{ID: "Threepeater", Recipe: []string{"x"}},
			{ID: "Tall-nut", Recipe: []string{"y"}},
			{ID: "Secret", Recipe: []string{"z"}, Visibility: VisibilityInvisible},
		},
	})

	tests := []struct {
		query string
		want  []string
	}{
		{query: "threepeter", want: []string{"Threepeater"}},
		{query: "tallnut", want: []string{"Tall-nut"}},
		{query: "secret", want: []string{}},
		{query: "zzzzzz", want: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.SuggestFusions(tt.query)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("SuggestFusions(%q) = %v, want %v", tt.query, got, tt.want)
			}
		})
	}
}

func TestLoadFSFallbacks(t *testing.T) {
	fsys := fstest.MapFS{
		"rux_shop.json": &fstest.MapFile{Data: []byte(`{"plot_7": {"name": "Plot 7", "cost": 5000}}`)},
	}

	data, err := LoadFS(fsys)
	if err != nil {
		t.Fatalf("LoadFS() error = %v", err)
	}
	if len(data.BasePlants) != 1 || data.BasePlants[0].ID != "Peashooter" {
		t.Errorf("BasePlants fallback = %+v", data.BasePlants)
	}
	if data.SalePrices["tier9"] != 81000 {
		t.Errorf("SalePrices fallback tier9 = %d", data.SalePrices["tier9"])
	}
	if len(data.RuxShop) != 1 || data.RuxShop[0].ID != "plot_7" {
		t.Errorf("RuxShop = %+v", data.RuxShop)
	}
}

func TestLoadFSMalformed(t *testing.T) {
	fsys := fstest.MapFS{
		"fusions.json": &fstest.MapFile{Data: []byte(`{not json`)},
	}
	if _, err := LoadFS(fsys); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestEmbeddedDefaultsAreConsistent(t *testing.T) {
	data, err := Defaults()
	if err != nil {
		t.Fatalf("Defaults() error = %v", err)
	}
	c, warnings, err := New(data)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("embedded catalog warnings: %v", warnings)
	}
	if _, ok := c.Seedling("Seedling"); !ok {
		t.Error("embedded catalog missing default seedling")
	}
}
