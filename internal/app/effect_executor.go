// Package app contains the application layer - service implementations and effect execution.
package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/example/garden/internal/core/effects"
	"github.com/example/garden/internal/core/garden"
	"github.com/example/garden/internal/ports/secondary"
)

// EffectExecutor interprets and executes effects.
// This is the "Imperative Shell" - the only place state changes.
type EffectExecutor interface {
	Execute(ctx context.Context, effs []effects.Effect) error

	// ExecuteIf runs check against the transaction first and applies effs
	// only if it returns nil.
	ExecuteIf(ctx context.Context, check func(tx *Tx) error, effs []effects.Effect) error
}

// DefaultEffectExecutor applies effects to the ProfileStore in one
// transaction, then records events and log lines.
type DefaultEffectExecutor struct {
	store  *ProfileStore
	events secondary.EventLog
	logger *slog.Logger
}

// NewEffectExecutor creates a new DefaultEffectExecutor.
func NewEffectExecutor(store *ProfileStore, events secondary.EventLog, logger *slog.Logger) *DefaultEffectExecutor {
	return &DefaultEffectExecutor{store: store, events: events, logger: logger}
}

// Execute applies every state effect atomically: if one fails, none apply.
// Events and logs are emitted only after the commit.
func (e *DefaultEffectExecutor) Execute(ctx context.Context, effs []effects.Effect) error {
	return e.ExecuteIf(ctx, nil, effs)
}

// ExecuteIf is Execute with a precondition checked in the same transaction.
// A failed check is returned unwrapped and nothing is applied.
func (e *DefaultEffectExecutor) ExecuteIf(ctx context.Context, check func(tx *Tx) error, effs []effects.Effect) error {
	flat := effects.Flatten(effs)

	var events []effects.EventEffect
	var logs []effects.LogEffect
	err := e.store.Transact(ctx, func(tx *Tx) error {
		if check != nil {
			if err := check(tx); err != nil {
				return err
			}
		}
		for _, eff := range flat {
			switch typed := eff.(type) {
			case effects.EventEffect:
				events = append(events, typed)
			case effects.LogEffect:
				logs = append(logs, typed)
			default:
				if err := e.executeOne(tx, eff); err != nil {
					return fmt.Errorf("failed to execute %s effect: %w", eff.EffectType(), err)
				}
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	if e.events != nil {
		for _, ev := range events {
			if err := e.events.Record(ctx, ev.UserID, ev.Kind, ev.Message); err != nil {
				e.logger.Error("failed to record event", "kind", ev.Kind, "user", ev.UserID, "error", err)
			}
		}
	}
	for _, l := range logs {
		e.logger.Log(ctx, levelOf(l.Level), l.Message, fieldsOf(l.Fields)...)
	}
	return nil
}

func (e *DefaultEffectExecutor) executeOne(tx *Tx, eff effects.Effect) error {
	switch typed := eff.(type) {
	case effects.BalanceEffect:
		p := tx.Profile(typed.UserID)
		if typed.Delta >= 0 {
			p.AddBalance(typed.Delta)
			return nil
		}
		before := p.Balance
		if p.RemoveBalance(-typed.Delta) {
			e.logger.Warn("balance clamp engaged", "user", typed.UserID, "balance", before, "debit", -typed.Delta)
		}
		return nil
	case effects.PlotEffect:
		return tx.Profile(typed.UserID).SetPlot(typed.Slot, typed.Occupant)
	case effects.StorageEffect:
		return tx.Profile(typed.UserID).SetStorage(typed.Slot, typed.Plant)
	case effects.InventoryEffect:
		p := tx.Profile(typed.UserID)
		if typed.Delta >= 0 {
			p.AddItem(typed.ItemID, typed.Delta)
			return nil
		}
		if !p.RemoveItem(typed.ItemID, -typed.Delta) {
			return garden.Violationf("%s no longer has %d of %s.", typed.UserID, -typed.Delta, typed.ItemID)
		}
		return nil
	case effects.DiscoveryEffect:
		tx.Profile(typed.UserID).AddDiscovery(typed.FusionID)
		return nil
	case effects.BackgroundEffect:
		tx.Profile(typed.UserID).UnlockBackground(typed.BackgroundID)
		return nil
	case effects.ActiveBackgroundEffect:
		return tx.Profile(typed.UserID).SetActiveBackground(typed.BackgroundID)
	case effects.MasteryEffect:
		p := tx.Profile(typed.UserID)
		p.SunMastery = max(p.SunMastery+typed.Sun, 0)
		p.TimeMastery = max(p.TimeMastery+typed.Time, 0)
		return nil
	case effects.DailyEffect:
		tx.Profile(typed.UserID).LastDaily = typed.Date
		return nil
	case effects.StockEffect:
		if !tx.Global().AdjustStock(typed.Shop, typed.ItemID, typed.Delta) {
			return garden.Violationf("%s is no longer stocked.", typed.ItemID)
		}
		return nil
	default:
		return fmt.Errorf("unknown effect type: %T", eff)
	}
}

func levelOf(level string) slog.Level {
	var l slog.Level
	if err := l.UnmarshalText([]byte(level)); err != nil {
		return slog.LevelInfo
	}
	return l
}

func fieldsOf(fields map[string]any) []any {
	args := make([]any, 0, len(fields)*2)
	for k, v := range fields {
		args = append(args, k, v)
	}
	return args
}
