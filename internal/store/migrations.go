package store

import "fmt"

// currentSchemaVersion is the latest schema version.
const currentSchemaVersion = 1

// Migrate runs forward migrations to bring the database schema up to date.
func (db *DB) Migrate() error {
	if _, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS schema_version (
			version INTEGER NOT NULL
		)
	`); err != nil {
		return fmt.Errorf("creating schema_version table: %w", err)
	}

	version := 0
	row := db.conn.QueryRow("SELECT version FROM schema_version LIMIT 1")
	if err := row.Scan(&version); err != nil {
		// No rows means a fresh database.
		version = 0
	}

	if version < 1 {
		if err := db.migrateV1(); err != nil {
			return fmt.Errorf("migration v1: %w", err)
		}
	}

	return nil
}

// migrateV1 creates profiles, the persistent fetch cache and streak snapshots.
func (db *DB) migrateV1() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS profiles (
			name       TEXT PRIMARY KEY,
			github     TEXT NOT NULL DEFAULT '',
			leetcode   TEXT NOT NULL DEFAULT '',
			updated_at TEXT NOT NULL
		)`,

		`CREATE TABLE IF NOT EXISTS cache_entries (
			platform  TEXT NOT NULL,
			username  TEXT NOT NULL,
			stored_at TEXT NOT NULL,
			payload   TEXT NOT NULL,
			PRIMARY KEY (platform, username)
		)`,

		`CREATE TABLE IF NOT EXISTS streak_snapshots (
			id             INTEGER PRIMARY KEY AUTOINCREMENT,
			taken_at       TEXT NOT NULL,
			platform       TEXT NOT NULL,
			username       TEXT NOT NULL,
			current_streak INTEGER NOT NULL,
			longest_streak INTEGER NOT NULL,
			total          INTEGER NOT NULL,
			active_days    INTEGER NOT NULL,
			solved_total   INTEGER
		)`,

		`CREATE INDEX IF NOT EXISTS idx_streak_snapshots_user ON streak_snapshots(platform, username)`,
	}

	tx, err := db.conn.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	for _, stmt := range statements {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("executing %q: %w", stmt[:40], err)
		}
	}

	if _, err := tx.Exec("DELETE FROM schema_version"); err != nil {
		return err
	}
	if _, err := tx.Exec("INSERT INTO schema_version (version) VALUES (?)", currentSchemaVersion); err != nil {
		return err
	}

	return tx.Commit()
}
