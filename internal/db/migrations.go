package db

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// Migration represents a database migration
type Migration struct {
	Version int
	Name    string
	Up      func(*sql.Tx) error
}

// migrations is the list of all migrations in order
var migrations = []Migration{
	{
		Version: 1,
		Name:    "create_profile_tables",
		Up:      migrationV1,
	},
	{
		Version: 2,
		Name:    "create_shop_and_global_tables",
		Up:      migrationV2,
	},
	{
		Version: 3,
		Name:    "create_event_log",
		Up:      migrationV3,
	},
	{
		Version: 4,
		Name:    "add_notification_channel_to_garden_slots",
		Up:      migrationV4,
	},
}

func createVersionTable(database *sql.DB) error {
	_, err := database.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create schema_version table: %w", err)
	}
	return nil
}

// CurrentVersion returns the highest applied migration.
func CurrentVersion(database *sql.DB) (int, error) {
	var version int
	err := database.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_version").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("failed to get current schema version: %w", err)
	}
	return version, nil
}

// RunMigrations executes all pending migrations, each in its own transaction.
func RunMigrations(database *sql.DB, logger *slog.Logger) error {
	if err := createVersionTable(database); err != nil {
		return err
	}
	currentVersion, err := CurrentVersion(database)
	if err != nil {
		return err
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}
		logger.Info("running migration", "version", migration.Version, "name", migration.Name)

		tx, err := database.Begin()
		if err != nil {
			return fmt.Errorf("failed to begin transaction for migration %d: %w", migration.Version, err)
		}
		if err := migration.Up(tx); err != nil {
			tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", migration.Version); err != nil {
			tx.Rollback()
			return fmt.Errorf("failed to record migration %d: %w", migration.Version, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, err)
		}
	}
	return nil
}

// migrationV1 creates profiles and their child tables.
func migrationV1(tx *sql.Tx) error {
	_, err := tx.Exec(`
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

		CREATE TABLE IF NOT EXISTS garden_slots (
			user_id TEXT NOT NULL,
			slot INTEGER NOT NULL CHECK(slot BETWEEN 1 AND 12),
			kind TEXT NOT NULL CHECK(kind IN ('seedling', 'plant')),
			item_id TEXT NOT NULL,
			name TEXT,
			type TEXT,
			progress REAL NOT NULL DEFAULT 0 CHECK(progress BETWEEN 0 AND 100),
			PRIMARY KEY (user_id, slot),
			FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
		);

		CREATE TABLE IF NOT EXISTS storage_slots (
			user_id TEXT NOT NULL,
			slot INTEGER NOT NULL CHECK(slot BETWEEN 1 AND 8),
			item_id TEXT NOT NULL,
			name TEXT,
			type TEXT,
			PRIMARY KEY (user_id, slot),
			FOREIGN KEY (user_id) REFERENCES profiles(user_id) ON DELETE CASCADE
		);

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
	`)
	return err
}

// migrationV2 creates the single-row global settings and shop stock.
func migrationV2(tx *sql.Tx) error {
	_, err := tx.Exec(`
		CREATE TABLE IF NOT EXISTS global_settings (
			id INTEGER PRIMARY KEY CHECK(id = 1),
			growth_duration_minutes INTEGER NOT NULL DEFAULT 240,
			penny_interval_hours INTEGER NOT NULL DEFAULT 1,
			last_penny_refresh TEXT,
			last_dave_refresh TEXT,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);

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
	`)
	return err
}

// migrationV3 creates the event log.
func migrationV3(tx *sql.Tx) error {
	_, err := tx.Exec(`
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
	`)
	return err
}

// migrationV4 lets seedlings remember where they were planted so maturation
// can be announced in the same channel.
func migrationV4(tx *sql.Tx) error {
	var count int
	err := tx.QueryRow(`SELECT COUNT(*) FROM pragma_table_info('garden_slots') WHERE name = 'notification_channel_id'`).Scan(&count)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	_, err = tx.Exec(`ALTER TABLE garden_slots ADD COLUMN notification_channel_id TEXT`)
	return err
}
