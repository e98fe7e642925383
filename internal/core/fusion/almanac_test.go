package fusion

import (
	"reflect"
	"testing"

	"github.com/example/garden/internal/core/catalog"
	"github.com/example/garden/internal/core/garden"
)

func TestParseQuery(t *testing.T) {
	tests := []struct {
		args string
		want Query
	}{
		{args: "", want: Query{Page: 1}},
		{args: "3", want: Query{Page: 3}},
		{args: "name:Twin 2", want: Query{Page: 2, Filters: []Filter{{Key: "name", Value: "twin"}}}},
		{
			args: "contains:Snow Pea tier:INF",
			want: Query{Page: 1, Filters: []Filter{{Key: "contains", Value: "snow pea"}, {Key: "tier", Value: "inf"}}},
		},
		{args: "hello there name:a", want: Query{Page: 1, Filters: []Filter{{Key: "name", Value: "a"}}}},
		{args: "missing:2 storage:false", want: Query{Page: 1, Filters: []Filter{{Key: "missing", Value: "2"}, {Key: "storage", Value: "false"}}}},
	}

	for _, tt := range tests {
		t.Run(tt.args, func(t *testing.T) {
			got := ParseQuery(tt.args)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseQuery(%q) = %+v, want %+v", tt.args, got, tt.want)
			}
		})
	}
}

func TestNormalizeTier(t *testing.T) {
	tests := map[string]string{
		"3":        "tier3",
		"tier3":    "tier3",
		"inf":      "tier∞",
		"infinity": "tier∞",
		"-inf":     "tier-∞",
	}
	for in, want := range tests {
		if got := NormalizeTier(in); got != want {
			t.Errorf("NormalizeTier(%q) = %q, want %q", in, got, want)
		}
	}
}

func ids(fusions []catalog.FusionRecipe) []string {
	var out []string
	for _, f := range fusions {
		out = append(out, f.ID)
	}
	return out
}

func TestApplyFilters(t *testing.T) {
	r := NewResolver(newTestCatalog(t))
	all := r.Catalog().VisibleFusions()
	discovered := map[string]bool{"AB": true}

	tests := []struct {
		name    string
		filters []Filter
		plans   map[string][]Asset
		want    []string
	}{
		{name: "name substring", filters: []Filter{{Key: "name", Value: "ab"}}, want: []string{"AB", "AAB", "ABC", "ABCD"}},
		{name: "contains known recipe", filters: []Filter{{Key: "contains", Value: "aa"}}, want: []string{"AA", "AAB"}},
		{name: "contains component substring", filters: []Filter{{Key: "contains", Value: "loop"}}, want: []string{"Loop1", "Loop2"}},
		{name: "discovered true", filters: []Filter{{Key: "discovered", Value: "true"}}, want: []string{"AB"}},
		{name: "tier alias", filters: []Filter{{Key: "tier", Value: "infinity"}}, want: []string{"ABCD"}},
		{name: "storage ignored without plans", filters: []Filter{{Key: "storage", Value: "false"}, {Key: "tier", Value: "2"}}, want: []string{"AA", "AB", "CD", "Loop1", "Loop2", "Broken"}},
		{
			name:    "storage false drops plans using the shed",
			filters: []Filter{{Key: "storage", Value: "false"}},
			plans: map[string][]Asset{
				"AA": {plantAsset("A", catalog.TypeBasePlant, SourceGarden, 1)},
				"AB": {plantAsset("A", catalog.TypeBasePlant, SourceStorage, 1)},
			},
			want: []string{"AA"},
		},
		{name: "filters chain", filters: []Filter{{Key: "tier", Value: "2"}, {Key: "name", Value: "c"}}, want: []string{"CD"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(r.ApplyFilters(all, tt.filters, discovered, tt.plans))
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ApplyFilters() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestAvailable(t *testing.T) {
	r := NewResolver(newTestCatalog(t))
	assets := []Asset{
		plantAsset("A", catalog.TypeBasePlant, SourceGarden, 1),
		plantAsset("A", catalog.TypeBasePlant, SourceGarden, 2),
		plantAsset("B", catalog.TypeBasePlant, SourceStorage, 1),
	}
	discovered := map[string]bool{"AA": true}

	got := r.Available(assets, discovered, nil)

	var gotIDs []string
	for _, c := range got {
		gotIDs = append(gotIDs, c.Fusion.ID)
	}
	// New first, then shorter recipes, then name; hidden DustA is never listed.
	want := []string{"AB", "AAB", "AA"}
	if !reflect.DeepEqual(gotIDs, want) {
		t.Fatalf("Available() = %v, want %v", gotIDs, want)
	}
	if !got[0].IsNew || got[2].IsNew {
		t.Error("IsNew flags wrong")
	}
	if !got[0].UsesStorage() || got[2].UsesStorage() {
		t.Error("UsesStorage flags wrong")
	}

	filtered := r.Available(assets, discovered, []Filter{{Key: "storage", Value: "false"}})
	if len(filtered) != 1 || filtered[0].Fusion.ID != "AA" {
		t.Errorf("storage:false = %+v", filtered)
	}
}

func TestDiscover(t *testing.T) {
	r := NewResolver(newTestCatalog(t))
	assets := []Asset{
		plantAsset("AB", "tier2", SourceGarden, 1),
		plantAsset("C", catalog.TypeBasePlant, SourceStorage, 1),
	}
	discovered := map[string]bool{"AB": true, "AA": true}

	got := r.Discover(assets, discovered, Query{Page: 1})

	byID := make(map[string]Potential)
	var order []string
	for _, p := range got {
		byID[p.Fusion.ID] = p
		order = append(order, p.Fusion.ID)
	}

	if p := byID["ABC"]; p.Group != GroupCraftable {
		t.Errorf("ABC group = %d, want craftable", p.Group)
	}
	if p := byID["ABCD"]; p.Group != GroupHasPlants || !p.Needed.Equal(NewMultiset("D")) {
		t.Errorf("ABCD = group %d needed %v", p.Group, p.Needed)
	}
	if p := byID["Twin"]; p.Group != GroupHasPlants || !p.Needed.Equal(NewMultiset("A", "B")) {
		t.Errorf("Twin = group %d needed %v", p.Group, p.Needed)
	}
	if _, ok := byID["AB"]; ok {
		t.Error("discovered fusion listed")
	}
	if _, ok := byID["DustA"]; ok {
		t.Error("hidden fusion listed")
	}
	if _, ok := byID["Loop1"]; ok {
		t.Error("unresolvable fusion listed")
	}
	if order[0] != "ABC" {
		t.Errorf("first = %q, want ABC", order[0])
	}

	missingOne := r.Discover(assets, discovered, ParseQuery("missing:1"))
	for _, p := range missingOne {
		if p.Needed.Size() != 1 {
			t.Errorf("%s needs %d, want 1", p.Fusion.ID, p.Needed.Size())
		}
	}
	if len(missingOne) == 0 {
		t.Error("expected fusions missing exactly one component")
	}

	noStorage := r.Discover(assets, discovered, ParseQuery("storage:false"))
	for _, p := range noStorage {
		if p.Fusion.ID == "ABC" && p.Group == GroupCraftable {
			t.Error("ABC craftable without the shed")
		}
	}
}

func TestDiscoverMaterialsOnlyGroup(t *testing.T) {
	r := NewResolver(newTestCatalog(t))
	c := r.Catalog()
	p := garden.NewProfile("u1")
	p.AddItem("dust", 1)

	got := r.Discover(UserAssets(garden.NewView(p), c), nil, Query{Page: 1})
	for _, pot := range got {
		if len(pot.Have) > 0 {
			t.Errorf("%s: have %v, but no visible recipe uses Dust", pot.Fusion.ID, pot.Have)
		}
		if pot.Group != GroupNothing {
			t.Errorf("%s group = %d", pot.Fusion.ID, pot.Group)
		}
	}
}

func TestDiscoveredAndTotal(t *testing.T) {
	r := NewResolver(newTestCatalog(t))
	discovered := map[string]bool{"Twin": true, "DustA": true, "Secret": true}

	got := ids(r.Discovered(discovered, nil))
	want := []string{"DustA", "Twin"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Discovered() = %v, want %v", got, want)
	}

	visible := len(r.Catalog().VisibleFusions())
	if total := r.AlmanacTotal(discovered); total != visible+1 {
		t.Errorf("AlmanacTotal() = %d, want %d", total, visible+1)
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		n, per, page                    int
		start, end, clamped, totalPages int
	}{
		{n: 0, per: 5, page: 1, start: 0, end: 0, clamped: 1, totalPages: 1},
		{n: 12, per: 5, page: 3, start: 10, end: 12, clamped: 3, totalPages: 3},
		{n: 12, per: 5, page: 9, start: 10, end: 12, clamped: 3, totalPages: 3},
		{n: 12, per: 5, page: -1, start: 0, end: 5, clamped: 1, totalPages: 3},
	}
	for _, tt := range tests {
		start, end, clamped, total := Page(tt.n, tt.per, tt.page)
		if start != tt.start || end != tt.end || clamped != tt.clamped || total != tt.totalPages {
			t.Errorf("Page(%d,%d,%d) = %d,%d,%d,%d", tt.n, tt.per, tt.page, start, end, clamped, total)
		}
	}
}
