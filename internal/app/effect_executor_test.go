package app

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
)

func TestEffectExecutor_AppliesBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed("alice", func(p *garden.Profile) {
		p.Balance = 100
		p.Inventory["dust"] = 3
	})

	err := env.executor.Execute(ctx, []effects.Effect{
		effects.BalanceEffect{UserID: "alice", Delta: 50},
		effects.CompositeEffect{Effects: []effects.Effect{
			effects.InventoryEffect{UserID: "alice", ItemID: "dust", Delta: -2},
			effects.PlotEffect{UserID: "alice", Slot: 1, Occupant: basePlant("A")},
		}},
		effects.StorageEffect{UserID: "alice", Slot: 1, Plant: &garden.Plant{ID: "B", Name: "B", Type: "base_plant"}},
		effects.DiscoveryEffect{UserID: "alice", FusionID: "AB"},
		effects.BackgroundEffect{UserID: "alice", BackgroundID: "meadow"},
		effects.ActiveBackgroundEffect{UserID: "alice", BackgroundID: "meadow"},
		effects.MasteryEffect{UserID: "alice", Sun: 1},
		effects.DailyEffect{UserID: "alice", Date: "2024-05-01"},
		effects.NoEffect{},
		effects.EventEffect{UserID: "alice", Kind: "test", Message: "batch"},
		effects.LogEffect{Level: "INFO", Message: "batch applied"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	v := env.store.View("alice")
	if v.Balance() != 150 {
		t.Errorf("balance = %d, want 150", v.Balance())
	}
	if v.Quantity("dust") != 1 {
		t.Errorf("dust = %d, want 1", v.Quantity("dust"))
	}
	if p, ok := v.Plot(1).(garden.Plant); !ok || p.ID != "A" {
		t.Errorf("plot 1 = %#v, want A", v.Plot(1))
	}
	if p, ok := v.Stored(1); !ok || p.ID != "B" {
		t.Errorf("storage 1 = %#v, %v; want B", p, ok)
	}
	if !v.HasDiscovered("AB") || v.ActiveBackground() != "meadow" || v.SunMastery() != 1 {
		t.Errorf("discovery/background/mastery not applied: %+v", v.Profile())
	}
	if v.LastDaily() != "2024-05-01" {
		t.Errorf("last daily = %q", v.LastDaily())
	}
	if got := env.events.kinds("alice"); !reflect.DeepEqual(got, []string{"test"}) {
		t.Errorf("events = %v, want [test]", got)
	}
	if env.repo.saves != 1 {
		t.Errorf("saves = %d, want 1", env.repo.saves)
	}
}

func TestEffectExecutor_FailedEffectAbortsBatch(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.seed("alice", func(p *garden.Profile) {
		p.Balance = 100
		p.Inventory["dust"] = 1
	})

	err := env.executor.Execute(ctx, []effects.Effect{
		effects.BalanceEffect{UserID: "alice", Delta: 500},
		effects.InventoryEffect{UserID: "alice", ItemID: "dust", Delta: -2},
		effects.EventEffect{UserID: "alice", Kind: "test", Message: "never"},
	})
	if !IsViolation(err) {
		t.Fatalf("error = %v, want violation", err)
	}

	v := env.store.View("alice")
	if v.Balance() != 100 || v.Quantity("dust") != 1 {
		t.Errorf("state changed: balance %d, dust %d", v.Balance(), v.Quantity("dust"))
	}
	if len(env.events.kinds("alice")) != 0 {
		t.Error("events must not be recorded for an aborted batch")
	}
}

func TestEffectExecutor_BalanceClampsAtZero(t *testing.T) {
	env := newTestEnv(t)
	env.seed("alice", func(p *garden.Profile) { p.Balance = 30 })

	err := env.executor.Execute(context.Background(), []effects.Effect{
		effects.BalanceEffect{UserID: "alice", Delta: -100},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := env.store.View("alice").Balance(); got != 0 {
		t.Errorf("balance = %d, want 0", got)
	}
}

func TestEffectExecutor_StockCannotGoNegative(t *testing.T) {
	env := newTestEnv(t)
	env.store.MutateGlobal(func(g *garden.Global) { g.LimitedStock["golden_can"] = 0 })

	err := env.executor.Execute(context.Background(), []effects.Effect{
		effects.StockEffect{Shop: garden.ShopRux, ItemID: "golden_can", Delta: -1},
	})
	wantViolation(t, err, "no longer stocked")
}

func TestEffectExecutor_EventLogFailureIsNotFatal(t *testing.T) {
	env := newTestEnv(t)
	env.events.recordErr = errors.New("log unavailable")

	err := env.executor.Execute(context.Background(), []effects.Effect{
		effects.BalanceEffect{UserID: "alice", Delta: 10},
		effects.EventEffect{UserID: "alice", Kind: "test"},
	})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if got := env.store.View("alice").Balance(); got != 10 {
		t.Errorf("balance = %d, want 10", got)
	}
}

func TestEffectExecutor_ExecuteIf(t *testing.T) {
	gone := errors.New("plot 1 is empty")
	tests := []struct {
		name        string
		plot        garden.Occupant
		wantErr     error
		wantBalance int
	}{
		{name: "check passes", plot: basePlant("A"), wantBalance: 150},
		{name: "check fails", plot: nil, wantErr: gone, wantBalance: 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			env.seed("alice", func(p *garden.Profile) {
				p.Balance = 100
				p.Garden[0] = tt.plot
			})

			check := func(tx *Tx) error {
				if tx.Profile("alice").Garden[0] == nil {
					return gone
				}
				return nil
			}
			err := env.executor.ExecuteIf(context.Background(), check, []effects.Effect{
				effects.BalanceEffect{UserID: "alice", Delta: 50},
				effects.EventEffect{UserID: "alice", Kind: "test", Message: "guarded"},
			})
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("ExecuteIf() error = %v, want %v", err, tt.wantErr)
			}
			if got := env.store.View("alice").Balance(); got != tt.wantBalance {
				t.Errorf("balance = %d, want %d", got, tt.wantBalance)
			}
			if tt.wantErr != nil && len(env.events.kinds("alice")) != 0 {
				t.Error("no event may be recorded when the check fails")
			}
		})
	}
}
