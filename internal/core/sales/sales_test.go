package sales

import (
	"reflect"
	"testing"

	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
)

var testPrices = Prices{"base_plant": 100, "tier2": 1000, "tier∞": 1}

func salesProfile() *garden.Profile {
	p := garden.NewProfile("u1")
	p.Garden[0] = garden.Plant{ID: "Peashooter", Name: "Peashooter", Type: "base_plant"}
	p.Garden[1] = garden.Seedling{ID: "Seedling", Progress: 20}
	p.Garden[3] = garden.Plant{ID: "Twin", Name: "Twin Sunflower", Type: "tier2"}
	p.Garden[4] = garden.Plant{ID: "Golden", Name: "Golden Bloom", Type: TierSunTranscendent}
	p.Garden[5] = garden.Plant{ID: "Chrono", Name: "Chrono Lily", Type: TierTimeTranscendent}
	p.Garden[6] = garden.Plant{ID: "Odd", Name: "Oddity", Type: "tier9"}
	return p
}

func TestGetSalePrice(t *testing.T) {
	if got := testPrices.SalePrice("tier2"); got != 1000 {
		t.Errorf("SalePrice(tier2) = %d", got)
	}
	if got := testPrices.SalePrice("nope"); got != 0 {
		t.Errorf("SalePrice(nope) = %d, want 0", got)
	}
}

func TestFinalPrice(t *testing.T) {
	tests := []struct {
		base, mastery, want int
	}{
		{base: 100, mastery: 0, want: 100},
		{base: 100, mastery: 3, want: 130},
		{base: 15, mastery: 1, want: 16},
		{base: 100, mastery: -2, want: 100},
	}
	for _, tt := range tests {
		if got := FinalPrice(tt.base, tt.mastery); got != tt.want {
			t.Errorf("FinalPrice(%d, %d) = %d, want %d", tt.base, tt.mastery, got, tt.want)
		}
	}
}

func TestProcessSales(t *testing.T) {
	v := garden.NewView(salesProfile())

	r := ProcessSales(v, []int{4, 1, 1, 2, 3, 5, 6, 7, 13}, testPrices, "sun")

	if r.TotalEarnings != 1100 {
		t.Errorf("TotalEarnings = %d, want 1100", r.TotalEarnings)
	}
	if want := []int{1, 4, 5, 6}; !reflect.DeepEqual(r.PlotsToClear, want) {
		t.Errorf("PlotsToClear = %v, want %v", r.PlotsToClear, want)
	}
	if r.SunMasteryGained != 1 || r.TimeMasteryGained != 1 {
		t.Errorf("mastery = %d/%d, want 1/1", r.SunMasteryGained, r.TimeMasteryGained)
	}
	wantErrs := []string{
		"Plot 2: Is empty or contains a non-sellable seedling.",
		"Plot 3: Is empty or contains a non-sellable seedling.",
		"Plot 7: Asset 'Oddity' has no market value.",
		"Plot 13: Invalid designation (must be 1-12).",
	}
	if !reflect.DeepEqual(r.Errors, wantErrs) {
		t.Errorf("Errors = %q\nwant %q", r.Errors, wantErrs)
	}
	if r.Sold[0] != "Peashooter from plot 1 (Yield: +100 sun)" {
		t.Errorf("Sold[0] = %q", r.Sold[0])
	}
}

func TestProcessSalesMasteryBonus(t *testing.T) {
	p := salesProfile()
	p.SunMastery = 2
	r := ProcessSales(garden.NewView(p), []int{4}, testPrices, "sun")

	if r.TotalEarnings != 1200 {
		t.Errorf("TotalEarnings = %d, want 1200", r.TotalEarnings)
	}
	if r.Sold[0] != "Twin Sunflower from plot 4 (Yield: +1,200 sun) (Boosted by 1.20x)" {
		t.Errorf("Sold[0] = %q", r.Sold[0])
	}
}

func TestProcessSalesDoesNotMutate(t *testing.T) {
	p := salesProfile()
	ProcessSales(garden.NewView(p), []int{1, 4}, testPrices, "sun")
	if _, ok := p.Garden[0].(garden.Plant); !ok {
		t.Error("plot 1 was cleared")
	}
	if p.Balance != 0 {
		t.Errorf("balance = %d", p.Balance)
	}
}

func TestEffects(t *testing.T) {
	r := Result{TotalEarnings: 300, SunMasteryGained: 1, PlotsToClear: []int{2, 5}}

	got := Effects("u1", r)

	want := []effects.Effect{
		effects.PlotEffect{UserID: "u1", Slot: 2},
		effects.PlotEffect{UserID: "u1", Slot: 5},
		effects.BalanceEffect{UserID: "u1", Delta: 300},
		effects.MasteryEffect{UserID: "u1", Sun: 1},
		effects.EventEffect{UserID: "u1", Kind: "sell", Message: "sold plots [2 5] for 300"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Effects() = %#v\nwant %#v", got, want)
	}
	if Effects("u1", Result{}) != nil {
		t.Error("empty result should plan nothing")
	}
}

func TestCommas(t *testing.T) {
	tests := map[int]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -5000: "-5,000"}
	for n, want := range tests {
		if got := Commas(n); got != want {
			t.Errorf("Commas(%d) = %q, want %q", n, got, want)
		}
	}
}
