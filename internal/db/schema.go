package db

import (
	"database/sql"
	"log/slog"
)

// SchemaSQL is the complete schema for fresh installs. It reflects the state
// after every migration has run.
//
// This is the single source of truth for the database schema. Repository
// tests load it through GetSchemaSQL() so a column referenced by adapter code
// but missing here fails immediately with "no such column".
//
// When adding tables or columns:
//  1. Add a migration in migrations.go
//  2. Update SchemaSQL here
const SchemaSQL = `
-- Profiles (one row per user; slots and collections live in child tables)
CREATE TABLE IF NOT EXISTS profiles (
	user_id TEXT PRIMARY KEY,
	balance INTEGER NOT NULL DEFAULT 0 CHECK(balance >= 0),
	sun_mastery INTEGER NOT NULL DEFAULT 0,
	time_mastery INTEGER NOT NULL DEFAULT 0,
	last_daily TEXT,
	active_background TEXT NOT NULL DEFAULT 'default',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Garden plots (1-indexed; empty plots have no row)
CREATE TABLE IF NOT EXISTS garden_slots (
	user_id TEXT NOT NULL,
	slot INTEGER NOT NULL CHECK(slot BETWEEN 1 AND 12),
	kind TEXT NOT NULL CHECK(kind IN ('seedling', 'plant')),
	item_id TEXT NOT NULL,
	name TEXT,
	type TEXT,
	progress REAL NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
	notification_channel_id TEXT,
	PRIMARY KEY (user_id, slot),
	FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
);

-- Storage shed (1-indexed; plants only)
CREATE TABLE IF NOT EXISTS storage_slots (
	user_id TEXT NOT NULL,
	slot INTEGER NOT NULL CHECK(slot BETWEEN 1 AND 8),
	item_id TEXT NOT NULL,
	name TEXT,
	type TEXT,
	PRIMARY KEY (user_id, slot),
	FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
);

-- Inventory (materials and owned upgrades)
CREATE TABLE IF NOT EXISTS inventory_items (
	user_id TEXT NOT NULL,
	item_id TEXT NOT NULL,
	quantity INTEGER NOT NULL CHECK(quantity > 0),
	PRIMARY KEY (user_id, item_id),
	FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS discovered_fusions (
	user_id TEXT NOT NULL,
	fusion_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (user_id, fusion_id),
	FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
);

CREATE TABLE IF NOT EXISTS unlocked_backgrounds (
	user_id TEXT NOT NULL,
	background_id TEXT NOT NULL,
	position INTEGER NOT NULL,
	PRIMARY KEY (user_id, background_id),
	FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
);

-- Global settings (single row)
CREATE TABLE IF NOT EXISTS global_settings (
	id INTEGER PRIMARY KEY CHECK(id = 1),
	growth_duration_minutes INTEGER NOT NULL DEFAULT 240,
	penny_interval_hours INTEGER NOT NULL DEFAULT 1,
	last_penny_refresh TEXT,
	last_dave_refresh TEXT,
	updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

-- Shop stock (Penny and Dave rotations, Rux limited counters)
CREATE TABLE IF NOT EXISTS shop_stock (
	shop TEXT NOT NULL CHECK(shop IN ('rux', 'penny', 'dave')),
	item_id TEXT NOT NULL,
	name TEXT,
	price INTEGER NOT NULL DEFAULT 0,
	stock INTEGER NOT NULL DEFAULT 0 CHECK(stock >= 0),
	type TEXT,
	position INTEGER NOT NULL DEFAULT 0,
	PRIMARY KEY (shop, item_id)
);

-- Event log (domain audit trail)
CREATE TABLE IF NOT EXISTS event_log (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	actor_id TEXT,
	kind TEXT NOT NULL,
	message TEXT NOT NULL DEFAULT '',
	created_at DATETIME DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_event_log_user ON event_log(user_id);
CREATE INDEX IF NOT EXISTS idx_event_log_kind ON event_log(kind);
CREATE INDEX IF NOT EXISTS idx_event_log_created ON event_log(created_at);
`

// InitSchema creates the schema on a fresh database and migrates an
// existing one.
func InitSchema(database *sql.DB, logger *slog.Logger) error {
	var tableCount int
	err := database.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'").Scan(&tableCount)
	if err != nil {
		return err
	}
	if tableCount > 0 {
		return RunMigrations(database, logger)
	}

	// Fresh install: create the current schema and mark every migration applied.
	if _, err := database.Exec(SchemaSQL); err != nil {
		return err
	}
	if err := createVersionTable(database); err != nil {
		return err
	}
	for _, m := range migrations {
		if _, err := database.Exec("INSERT INTO schema_version (version) VALUES (?)", m.Version); err != nil {
			return err
		}
	}
	return nil
}

// GetSchemaSQL returns the authoritative schema SQL for use by tests.
func GetSchemaSQL() string {
	return SchemaSQL
}
