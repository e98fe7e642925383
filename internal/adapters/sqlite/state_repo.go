// Package sqlite contains SQLite implementations of repository interfaces.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/garden/internal/ports/secondary"
)

// Shop keys in shop_stock.
const (
	shopRux   = "rux"
	shopPenny = "penny"
	shopDave  = "dave"
)

// profileTables are the per-user child tables, deleted before a profile is rewritten.
var profileTables = []string{"garden_slots", "storage_slots", "inventory_items", "discovered_fusions", "unlocked_backgrounds"}

// StateRepository implements secondary.StateRepository with SQLite.
type StateRepository struct {
	db  *sql.DB
	now func() time.Time
}

// NewStateRepository creates a new SQLite state repository.
func NewStateRepository(db *sql.DB) *StateRepository {
	return &StateRepository{db: db, now: time.Now}
}

// LoadState reads every profile and the global record.
func (r *StateRepository) LoadState(ctx context.Context) (*secondary.StateRecord, error) {
	profiles, err := r.loadProfiles(ctx)
	if err != nil {
		return nil, err
	}
	global, err := r.loadGlobal(ctx)
	if err != nil {
		return nil, err
	}
	return &secondary.StateRecord{Profiles: profiles, Global: global}, nil
}

// SaveState replaces the whole persisted snapshot in one transaction.
func (r *StateRepository) SaveState(ctx context.Context, state *secondary.StateRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, table := range append(append([]string(nil), profileTables...), "profiles") {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	for _, p := range state.Profiles {
		if err := r.insertProfile(ctx, tx, p); err != nil {
			return err
		}
	}
	if state.Global != nil {
		if err := r.writeGlobal(ctx, tx, state.Global); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit state: %w", err)
	}
	return nil
}

// SaveProfiles replaces the given profiles and, when non-nil, the global record.
func (r *StateRepository) SaveProfiles(ctx context.Context, profiles []*secondary.ProfileRecord, global *secondary.GlobalRecord) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, p := range profiles {
		if err := r.deleteProfile(ctx, tx, p.UserID); err != nil {
			return err
		}
		if err := r.insertProfile(ctx, tx, p); err != nil {
			return err
		}
	}
	if global != nil {
		if err := r.writeGlobal(ctx, tx, global); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profiles: %w", err)
	}
	return nil
}

// Helper methods

func (r *StateRepository) deleteProfile(ctx context.Context, tx *sql.Tx, userID string) error {
	for _, table := range profileTables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table+" WHERE user_id = ?", userID); err != nil {
			return fmt.Errorf("failed to clear %s for %s: %w", table, userID, err)
		}
	}
	if _, err := tx.ExecContext(ctx, "DELETE FROM profiles WHERE user_id = ?", userID); err != nil {
		return fmt.Errorf("failed to delete profile %s: %w", userID, err)
	}
	return nil
}

func (r *StateRepository) insertProfile(ctx context.Context, tx *sql.Tx, p *secondary.ProfileRecord) error {
	var lastDaily sql.NullString
	if p.LastDaily != "" {
		lastDaily = sql.NullString{String: p.LastDaily, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT INTO profiles (user_id, balance, sun_mastery, time_mastery, last_daily, active_background, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID,
		p.Balance,
		p.SunMastery,
		p.TimeMastery,
		lastDaily,
		p.ActiveBackground,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save profile %s: %w", p.UserID, err)
	}

	for _, s := range p.Garden {
		var channel sql.NullString
		if s.NotificationChannelID != "" {
			channel = sql.NullString{String: s.NotificationChannelID, Valid: true}
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO garden_slots (user_id, slot, kind, item_id, name, type, progress, notification_channel_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			p.UserID, s.Slot, s.Kind, s.ItemID, s.Name, s.Type, s.Progress, channel,
		)
		if err != nil {
			return fmt.Errorf("failed to save garden slot %d for %s: %w", s.Slot, p.UserID, err)
		}
	}

	for _, s := range p.Storage {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO storage_slots (user_id, slot, item_id, name, type) VALUES (?, ?, ?, ?, ?)`,
			p.UserID, s.Slot, s.ItemID, s.Name, s.Type,
		)
		if err != nil {
			return fmt.Errorf("failed to save storage slot %d for %s: %w", s.Slot, p.UserID, err)
		}
	}

	for itemID, qty := range p.Inventory {
		if qty <= 0 {
			continue
		}
		_, err := tx.ExecContext(ctx,
			`INSERT INTO inventory_items (user_id, item_id, quantity) VALUES (?, ?, ?)`,
			p.UserID, itemID, qty,
		)
		if err != nil {
			return fmt.Errorf("failed to save inventory item %s for %s: %w", itemID, p.UserID, err)
		}
	}

	for i, id := range p.DiscoveredFusions {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO discovered_fusions (user_id, fusion_id, position) VALUES (?, ?, ?)`,
			p.UserID, id, i,
		)
		if err != nil {
			return fmt.Errorf("failed to save discovery %s for %s: %w", id, p.UserID, err)
		}
	}

	for i, id := range p.UnlockedBackgrounds {
		_, err := tx.ExecContext(ctx,
			`INSERT OR IGNORE INTO unlocked_backgrounds (user_id, background_id, position) VALUES (?, ?, ?)`,
			p.UserID, id, i,
		)
		if err != nil {
			return fmt.Errorf("failed to save background %s for %s: %w", id, p.UserID, err)
		}
	}
	return nil
}

func (r *StateRepository) writeGlobal(ctx context.Context, tx *sql.Tx, g *secondary.GlobalRecord) error {
	var lastPenny, lastDave sql.NullString
	if g.LastPennyRefresh != "" {
		lastPenny = sql.NullString{String: g.LastPennyRefresh, Valid: true}
	}
	if g.LastDaveRefresh != "" {
		lastDave = sql.NullString{String: g.LastDaveRefresh, Valid: true}
	}

	_, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO global_settings (id, growth_duration_minutes, penny_interval_hours, last_penny_refresh, last_dave_refresh, updated_at) VALUES (1, ?, ?, ?, ?, ?)`,
		g.GrowthDurationMinutes,
		g.PennyIntervalHours,
		lastPenny,
		lastDave,
		r.now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save global settings: %w", err)
	}

	if _, err := tx.ExecContext(ctx, "DELETE FROM shop_stock"); err != nil {
		return fmt.Errorf("failed to clear shop stock: %w", err)
	}
	insert := func(shop string, pos int, s secondary.StockRecord) error {
		_, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO shop_stock (shop, item_id, name, price, stock, type, position) VALUES (?, ?, ?, ?, ?, ?, ?)`,
			shop, s.ItemID, s.Name, s.Price, s.Stock, s.Type, pos,
		)
		if err != nil {
			return fmt.Errorf("failed to save %s stock %s: %w", shop, s.ItemID, err)
		}
		return nil
	}
	for id, n := range g.LimitedStock {
		if err := insert(shopRux, 0, secondary.StockRecord{ItemID: id, Stock: max(n, 0)}); err != nil {
			return err
		}
	}
	for i, s := range g.PennyStock {
		if err := insert(shopPenny, i, s); err != nil {
			return err
		}
	}
	for i, s := range g.DaveStock {
		if err := insert(shopDave, i, s); err != nil {
			return err
		}
	}
	return nil
}

func (r *StateRepository) loadProfiles(ctx context.Context) ([]*secondary.ProfileRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, balance, sun_mastery, time_mastery, last_daily, active_background, updated_at FROM profiles ORDER BY user_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []*secondary.ProfileRecord
	byUser := make(map[string]*secondary.ProfileRecord)
	for rows.Next() {
		var (
			lastDaily sql.NullString
			updatedAt sql.NullTime
		)
		p := &secondary.ProfileRecord{Inventory: make(map[string]int)}
		if err := rows.Scan(&p.UserID, &p.Balance, &p.SunMastery, &p.TimeMastery, &lastDaily, &p.ActiveBackground, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		p.LastDaily = lastDaily.String
		if updatedAt.Valid {
			p.UpdatedAt = updatedAt.Time.Format(time.RFC3339)
		}
		profiles = append(profiles, p)
		byUser[p.UserID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profiles: %w", err)
	}

	if err := r.loadGardens(ctx, byUser); err != nil {
		return nil, err
	}
	if err := r.loadStorage(ctx, byUser); err != nil {
		return nil, err
	}
	if err := r.loadInventory(ctx, byUser); err != nil {
		return nil, err
	}
	if err := r.loadOrdered(ctx, "SELECT user_id, fusion_id FROM discovered_fusions ORDER BY user_id, position", byUser,
		func(p *secondary.ProfileRecord, id string) { p.DiscoveredFusions = append(p.DiscoveredFusions, id) }); err != nil {
		return nil, err
	}
	if err := r.loadOrdered(ctx, "SELECT user_id, background_id FROM unlocked_backgrounds ORDER BY user_id, position", byUser,
		func(p *secondary.ProfileRecord, id string) { p.UnlockedBackgrounds = append(p.UnlockedBackgrounds, id) }); err != nil {
		return nil, err
	}
	return profiles, nil
}

func (r *StateRepository) loadGardens(ctx context.Context, byUser map[string]*secondary.ProfileRecord) error {
	rows, err := r.db.QueryContext(ctx,
		`SELECT user_id, slot, kind, item_id, name, type, progress, notification_channel_id FROM garden_slots ORDER BY user_id, slot`)
	if err != nil {
		return fmt.Errorf("failed to list garden slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID        string
			name, typ, ch sql.NullString
			s             secondary.SlotRecord
		)
		if err := rows.Scan(&userID, &s.Slot, &s.Kind, &s.ItemID, &name, &typ, &s.Progress, &ch); err != nil {
			return fmt.Errorf("failed to scan garden slot: %w", err)
		}
		s.Name, s.Type, s.NotificationChannelID = name.String, typ.String, ch.String
		if p, ok := byUser[userID]; ok {
			p.Garden = append(p.Garden, s)
		}
	}
	return rows.Err()
}

func (r *StateRepository) loadStorage(ctx context.Context, byUser map[string]*secondary.ProfileRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, slot, item_id, name, type FROM storage_slots ORDER BY user_id, slot`)
	if err != nil {
		return fmt.Errorf("failed to list storage slots: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID    string
			name, typ sql.NullString
			s         = secondary.SlotRecord{Kind: secondary.SlotKindPlant}
		)
		if err := rows.Scan(&userID, &s.Slot, &s.ItemID, &name, &typ); err != nil {
			return fmt.Errorf("failed to scan storage slot: %w", err)
		}
		s.Name, s.Type = name.String, typ.String
		if p, ok := byUser[userID]; ok {
			p.Storage = append(p.Storage, s)
		}
	}
	return rows.Err()
}

func (r *StateRepository) loadInventory(ctx context.Context, byUser map[string]*secondary.ProfileRecord) error {
	rows, err := r.db.QueryContext(ctx, `SELECT user_id, item_id, quantity FROM inventory_items`)
	if err != nil {
		return fmt.Errorf("failed to list inventory: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID, itemID string
			qty            int
		)
		if err := rows.Scan(&userID, &itemID, &qty); err != nil {
			return fmt.Errorf("failed to scan inventory item: %w", err)
		}
		if p, ok := byUser[userID]; ok {
			p.Inventory[itemID] = qty
		}
	}
	return rows.Err()
}

func (r *StateRepository) loadOrdered(ctx context.Context, query string, byUser map[string]*secondary.ProfileRecord, add func(*secondary.ProfileRecord, string)) error {
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return fmt.Errorf("failed to query %q: %w", query, err)
	}
	defer rows.Close()

	for rows.Next() {
		var userID, id string
		if err := rows.Scan(&userID, &id); err != nil {
			return fmt.Errorf("failed to scan row: %w", err)
		}
		if p, ok := byUser[userID]; ok {
			add(p, id)
		}
	}
	return rows.Err()
}

func (r *StateRepository) loadGlobal(ctx context.Context) (*secondary.GlobalRecord, error) {
	var lastPenny, lastDave sql.NullString
	g := &secondary.GlobalRecord{LimitedStock: make(map[string]int)}
	err := r.db.QueryRowContext(ctx,
		`SELECT growth_duration_minutes, penny_interval_hours, last_penny_refresh, last_dave_refresh FROM global_settings WHERE id = 1`,
	).Scan(&g.GrowthDurationMinutes, &g.PennyIntervalHours, &lastPenny, &lastDave)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get global settings: %w", err)
	}
	g.LastPennyRefresh = lastPenny.String
	g.LastDaveRefresh = lastDave.String

	rows, err := r.db.QueryContext(ctx, `SELECT shop, item_id, name, price, stock, type FROM shop_stock ORDER BY shop, position, item_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list shop stock: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			shop      string
			name, typ sql.NullString
			s         secondary.StockRecord
		)
		if err := rows.Scan(&shop, &s.ItemID, &name, &s.Price, &s.Stock, &typ); err != nil {
			return nil, fmt.Errorf("failed to scan shop stock: %w", err)
		}
		s.Name, s.Type = name.String, typ.String
		switch shop {
		case shopRux:
			g.LimitedStock[s.ItemID] = s.Stock
		case shopPenny:
			g.PennyStock = append(g.PennyStock, s)
		case shopDave:
			g.DaveStock = append(g.DaveStock, s)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shop stock: %w", err)
	}
	return g, nil
}

// Ensure StateRepository implements the interface
var _ secondary.StateRepository = (*StateRepository)(nil)
