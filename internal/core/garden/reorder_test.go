package garden

import (
	"reflect"
	"testing"
)

func TestCanShovel(t *testing.T) {
	p := NewProfile("u1")
	p.Garden[0] = Seedling{ID: "Seedling"}
	p.Garden[1] = Plant{ID: "Rose", Name: "Rose"}

	tests := []struct {
		slot    int
		allowed bool
		reason  string
	}{
		{slot: 1, allowed: true},
		{slot: 2, reason: "Plot 2: Contains a mature plant (Rose). Use sell instead."},
		{slot: 3, reason: "Plot 3: Already unoccupied."},
		{slot: 7, reason: "Plot 7: Access restricted (Locked)."},
		{slot: 13, reason: "Plot 13: Invalid designation."},
	}
	for _, tt := range tests {
		got := CanShovel(p, tt.slot)
		if got.Allowed != tt.allowed || got.Reason != tt.reason {
			t.Errorf("CanShovel(%d) = %+v, want allowed=%v reason=%q", tt.slot, got, tt.allowed, tt.reason)
		}
	}
}

func TestReorder(t *testing.T) {
	p := NewProfile("u1")
	p.Garden[0] = Plant{ID: "A"}
	p.Garden[1] = Seedling{ID: "Seedling", Progress: 30}
	p.Garden[6] = Plant{ID: "Locked"}
	v := NewView(p)

	next, errs := Reorder(v, []int{2, 1, 3, 4, 5, 6})
	if len(errs) > 0 {
		t.Fatalf("Reorder() errors = %v", errs)
	}
	if got, ok := next[0].(Seedling); !ok || got.Progress != 30 {
		t.Errorf("plot 1 = %#v", next[0])
	}
	if got, ok := next[1].(Plant); !ok || got.ID != "A" {
		t.Errorf("plot 2 = %#v", next[1])
	}
	if got, ok := next[6].(Plant); !ok || got.ID != "Locked" {
		t.Errorf("locked plot 7 moved: %#v", next[6])
	}
	if _, ok := p.Garden[0].(Plant); !ok {
		t.Error("Reorder mutated the profile")
	}
}

func TestReorderErrors(t *testing.T) {
	v := NewView(NewProfile("u1"))

	tests := []struct {
		name  string
		order []int
		want  []string
	}{
		{
			name:  "wrong count",
			order: []int{1, 2},
			want:  []string{"The number of plots provided (2) does not match your number of unlocked plots (6)."},
		},
		{
			name:  "duplicate and omission",
			order: []int{1, 1, 3, 4, 5, 6},
			want:  []string{"Plot 1 was listed more than once.", "Plot 2 was not included in the new order."},
		},
		{
			name:  "locked and out of range",
			order: []int{7, 13, 3, 4, 5, 6},
			want: []string{
				"Plot 7 is locked. Only unlocked plots can be reordered.",
				"Plot 13 is out of range (1-12).",
				"Plot 1 was not included in the new order.",
				"Plot 2 was not included in the new order.",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errs := Reorder(v, tt.order)
			if !reflect.DeepEqual(errs, tt.want) {
				t.Errorf("errors = %q\nwant %q", errs, tt.want)
			}
		})
	}
}
