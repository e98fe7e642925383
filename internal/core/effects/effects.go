// Package effects defines effect types as data structures describing state
// changes. Planners in core return effects; the app layer applies them
// atomically. Effects are pure data: they say what should happen, not how.
package effects

import "github.com/example/garden/internal/core/garden"

// Effect is the base interface for all effects.
type Effect interface {
	// EffectType returns a string identifier for the effect type.
	EffectType() string
}

// LogEffect represents an operator log line.
type LogEffect struct {
	Level   string
	Message string
	Fields  map[string]any
}

func (e LogEffect) EffectType() string { return "log" }

// EventEffect records a domain event in the audit log.
type EventEffect struct {
	UserID  string
	Kind    string
	Message string
}

func (e EventEffect) EffectType() string { return "event" }

// BalanceEffect credits (positive) or debits (negative) a user.
// Debits clamp at zero.
type BalanceEffect struct {
	UserID string
	Delta  int
}

func (e BalanceEffect) EffectType() string { return "balance" }

// PlotEffect replaces a 1-indexed garden plot. A nil Occupant clears it.
type PlotEffect struct {
	UserID   string
	Slot     int
	Occupant garden.Occupant
}

func (e PlotEffect) EffectType() string { return "plot" }

// StorageEffect replaces a 1-indexed storage slot. A nil Plant clears it.
type StorageEffect struct {
	UserID string
	Slot   int
	Plant  *garden.Plant
}

func (e StorageEffect) EffectType() string { return "storage" }

// InventoryEffect adds (positive) or removes (negative) item units.
// Removing more than is held fails the whole batch.
type InventoryEffect struct {
	UserID string
	ItemID string
	Delta  int
}

func (e InventoryEffect) EffectType() string { return "inventory" }

// DiscoveryEffect records a crafted fusion.
type DiscoveryEffect struct {
	UserID   string
	FusionID string
}

func (e DiscoveryEffect) EffectType() string { return "discovery" }

// BackgroundEffect unlocks a background.
type BackgroundEffect struct {
	UserID       string
	BackgroundID string
}

func (e BackgroundEffect) EffectType() string { return "background" }

// ActiveBackgroundEffect selects an already unlocked background.
type ActiveBackgroundEffect struct {
	UserID       string
	BackgroundID string
}

func (e ActiveBackgroundEffect) EffectType() string { return "active_background" }

// MasteryEffect raises mastery levels.
type MasteryEffect struct {
	UserID string
	Sun    int
	Time   int
}

func (e MasteryEffect) EffectType() string { return "mastery" }

// DailyEffect stamps the last daily claim date.
type DailyEffect struct {
	UserID string
	Date   string
}

func (e DailyEffect) EffectType() string { return "daily" }

// StockEffect changes a shop's remaining stock for one item.
type StockEffect struct {
	Shop   string
	ItemID string
	Delta  int
}

func (e StockEffect) EffectType() string { return "stock" }

// CompositeEffect holds multiple effects to be executed in sequence.
type CompositeEffect struct {
	Effects []Effect
}

func (e CompositeEffect) EffectType() string { return "composite" }

// NoEffect represents an operation that produces no side effects.
type NoEffect struct{}

func (e NoEffect) EffectType() string { return "none" }

// Flatten expands composites into a flat, ordered list.
func Flatten(effs []Effect) []Effect {
	var out []Effect
	for _, eff := range effs {
		switch typed := eff.(type) {
		case CompositeEffect:
			out = append(out, Flatten(typed.Effects)...)
		case NoEffect:
		default:
			out = append(out, eff)
		}
	}
	return out
}

// Users returns the distinct user ids touched by effs, in first-seen order.
func Users(effs []Effect) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(id string) {
		if id != "" && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, eff := range Flatten(effs) {
		switch typed := eff.(type) {
		case BalanceEffect:
			add(typed.UserID)
		case PlotEffect:
			add(typed.UserID)
		case StorageEffect:
			add(typed.UserID)
		case InventoryEffect:
			add(typed.UserID)
		case DiscoveryEffect:
			add(typed.UserID)
		case BackgroundEffect:
			add(typed.UserID)
		case ActiveBackgroundEffect:
			add(typed.UserID)
		case MasteryEffect:
			add(typed.UserID)
		case DailyEffect:
			add(typed.UserID)
		}
	}
	return out
}
