package growth

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/garden"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()
	c, _, err := catalog.New(catalog.Data{
		BasePlants: []catalog.BasePlant{
			{ID: "Peashooter", Name: "Peashooter", Type: catalog.TypeBasePlant, Category: "vanilla"},
			{ID: "Puff", Name: "Puff-shroom", Type: catalog.TypeBasePlant, Category: "night"},
		},
		Seedlings: []catalog.SeedlingDefinition{
			{ID: "Seedling", Category: "vanilla", GrowthMultiplier: 1.0},
			{ID: "Night", Category: "night", GrowthMultiplier: 2.0},
			{ID: "Pool", Category: "pool", GrowthMultiplier: 1.0},
		},
	})
	if err != nil {
		t.Fatalf("catalog.New() error = %v", err)
	}
	return c
}

func TestIncrement(t *testing.T) {
	tests := []struct {
		name        string
		duration    int
		timeMastery int
		multiplier  float64
		want        float64
	}{
		{name: "default", duration: 240, multiplier: 1.0, want: 100.0 / 240},
		{name: "mastery bonus", duration: 100, timeMastery: 3, multiplier: 1.0, want: 1.3},
		{name: "multiplier", duration: 100, multiplier: 2.5, want: 2.5},
		{name: "non-positive duration falls back", duration: 0, multiplier: 1.0, want: 100.0 / 240},
		{name: "non-positive multiplier falls back", duration: 50, multiplier: 0, want: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Increment(tt.duration, tt.timeMastery, tt.multiplier)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Increment() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTickAdvancesOneStep(t *testing.T) {
	c := testCatalog(t)
	p := garden.NewProfile("u1")
	if err := p.PlantSeedling(1, "Seedling", ""); err != nil {
		t.Fatalf("PlantSeedling() error = %v", err)
	}

	result := Tick(p, c, rand.New(rand.NewPCG(1, 1)), 240)

	if result.Advanced != 1 || len(result.Matured) != 0 {
		t.Fatalf("result = %+v", result)
	}
	s := p.Garden[0].(garden.Seedling)
	if math.Abs(s.Progress-100.0/240) > 1e-9 {
		t.Errorf("progress = %v, want %v", s.Progress, 100.0/240)
	}
}

func TestTickIsMonotonicAndBounded(t *testing.T) {
	c := testCatalog(t)
	p := garden.NewProfile("u1")
	p.Garden[0] = garden.Seedling{ID: "Pool"}

	prev := 0.0
	for i := 0; i < 10; i++ {
		Tick(p, c, rand.New(rand.NewPCG(1, 1)), 3)
		s, ok := p.Garden[0].(garden.Seedling)
		if !ok {
			t.Fatalf("pool seedling left its plot: %#v", p.Garden[0])
		}
		if s.Progress < prev || s.Progress > 100 {
			t.Fatalf("tick %d: progress %v after %v", i, s.Progress, prev)
		}
		prev = s.Progress
	}
}

func TestTickMaturesAtBoundary(t *testing.T) {
	c := testCatalog(t)
	p := garden.NewProfile("u1")
	p.Garden[0] = garden.Seedling{ID: "Night", Progress: 98, NotificationChannelID: "chan"}
	p.Garden[1] = garden.Seedling{ID: "Seedling", Progress: 50}
	p.Garden[2] = garden.Plant{ID: "Peashooter", Name: "Peashooter", Type: catalog.TypeBasePlant}

	// Night grows 2 x (100/100) = 2 per tick, landing exactly on 100.
	result := Tick(p, c, rand.New(rand.NewPCG(7, 7)), 100)

	if len(result.Matured) != 1 {
		t.Fatalf("matured = %+v", result.Matured)
	}
	m := result.Matured[0]
	if m.Slot != 1 || m.Category != "night" || m.Plant.ID != "Puff" {
		t.Errorf("maturation = %+v", m)
	}
	if m.Seedling.NotificationChannelID != "chan" {
		t.Errorf("notification channel lost: %+v", m.Seedling)
	}
	if got, ok := p.Garden[0].(garden.Plant); !ok || got.ID != "Puff" {
		t.Errorf("plot 1 = %#v", p.Garden[0])
	}
	if _, ok := p.Garden[1].(garden.Seedling); !ok {
		t.Errorf("plot 2 = %#v", p.Garden[1])
	}
	if result.Advanced != 2 {
		t.Errorf("advanced = %d, want 2", result.Advanced)
	}
}

func TestTickStuckCategory(t *testing.T) {
	c := testCatalog(t)
	p := garden.NewProfile("u1")
	p.Garden[0] = garden.Seedling{ID: "Pool", Progress: 99.9}

	result := Tick(p, c, rand.New(rand.NewPCG(1, 1)), 1)

	if len(result.Stuck) != 1 || result.Stuck[0].Category != "pool" {
		t.Fatalf("stuck = %+v", result.Stuck)
	}
	s, ok := p.Garden[0].(garden.Seedling)
	if !ok || s.Progress != 100 {
		t.Errorf("plot 1 = %#v, want seedling held at 100", p.Garden[0])
	}
}

func TestUnknownSeedlingDefaults(t *testing.T) {
	c := testCatalog(t)
	if got := Category(c, "Mystery"); got != catalog.DefaultCategory {
		t.Errorf("Category() = %q", got)
	}
	if got := Multiplier(c, "Mystery"); got != 1.0 {
		t.Errorf("Multiplier() = %v", got)
	}
}
