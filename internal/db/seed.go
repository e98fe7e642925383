package db

import (
	"database/sql"
	"fmt"
	"time"
)

// SeedFixtures populates the database with development profiles: a
// beginner, a collector with storage and materials, and a rich veteran.
func SeedFixtures(database *sql.DB) error {
	now := time.Now().UTC().Format(time.RFC3339)

	profiles := []struct {
		userID           string
		balance, sun, tm int
		background       string
	}{
		{"sprout", 1500, 0, 0, "default"},
		{"collector", 12000, 2, 1, "default"},
		{"veteran", 250000, 5, 4, "default"},
	}
	for _, p := range profiles {
		if _, err := database.Exec(
			"INSERT INTO profiles (user_id, balance, sun_mastery, time_mastery, active_background, updated_at) VALUES (?, ?, ?, ?, ?, ?)",
			p.userID, p.balance, p.sun, p.tm, p.background, now,
		); err != nil {
			return fmt.Errorf("seed profiles: %w", err)
		}
		if _, err := database.Exec(
			"INSERT INTO unlocked_backgrounds (user_id, background_id, position) VALUES (?, 'default', 0)",
			p.userID,
		); err != nil {
			return fmt.Errorf("seed backgrounds: %w", err)
		}
	}

	slots := []struct {
		userID, kind, itemID, name, typ string
		slot                            int
		progress                        float64
	}{
		{"sprout", "seedling", "Seedling", "", "", 1, 12.5},
		{"sprout", "seedling", "Seedling", "", "", 2, 97.5},
		{"collector", "plant", "Peashooter", "Peashooter", "base_plant", 1, 0},
		{"collector", "plant", "Sunflower", "Sunflower", "base_plant", 2, 0},
		{"collector", "plant", "Wall-nut", "Wall-nut", "base_plant", 3, 0},
		{"collector", "seedling", "Seedling", "", "", 4, 50},
		{"veteran", "plant", "Repeater", "Repeater", "tier2", 1, 0},
		{"veteran", "plant", "Twin Sunflower", "Twin Sunflower", "tier2", 2, 0},
	}
	for _, s := range slots {
		if _, err := database.Exec(
			"INSERT INTO garden_slots (user_id, slot, kind, item_id, name, type, progress) VALUES (?, ?, ?, ?, ?, ?, ?)",
			s.userID, s.slot, s.kind, s.itemID, nullable(s.name), nullable(s.typ), s.progress,
		); err != nil {
			return fmt.Errorf("seed garden slots: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO storage_slots (user_id, slot, item_id, name, type) VALUES ('collector', 1, 'Cherry Bomb', 'Cherry Bomb', 'base_plant')",
	); err != nil {
		return fmt.Errorf("seed storage slots: %w", err)
	}

	inventory := []struct {
		userID, itemID string
		quantity       int
	}{
		{"collector", "storage_shed", 1},
		{"collector", "plant_food", 3},
		{"veteran", "storage_shed", 1},
		{"veteran", "plot_7", 1},
		{"veteran", "plant_food", 10},
	}
	for _, i := range inventory {
		if _, err := database.Exec(
			"INSERT INTO inventory_items (user_id, item_id, quantity) VALUES (?, ?, ?)",
			i.userID, i.itemID, i.quantity,
		); err != nil {
			return fmt.Errorf("seed inventory: %w", err)
		}
	}

	discoveries := []struct{ userID, fusionID string }{
		{"veteran", "Repeater"},
		{"veteran", "Twin Sunflower"},
	}
	for pos, d := range discoveries {
		if _, err := database.Exec(
			"INSERT INTO discovered_fusions (user_id, fusion_id, position) VALUES (?, ?, ?)",
			d.userID, d.fusionID, pos,
		); err != nil {
			return fmt.Errorf("seed discoveries: %w", err)
		}
	}

	if _, err := database.Exec(
		"INSERT INTO global_settings (id, growth_duration_minutes, penny_interval_hours) VALUES (1, 240, 1)",
	); err != nil {
		return fmt.Errorf("seed global settings: %w", err)
	}

	return nil
}

func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
