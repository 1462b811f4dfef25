package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DBPath returns the path to the single shared database
func DBPath() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "stormview", "stormview.db")
	}
	return filepath.Join("data", "stormview.db")
}

// EnsureUserSchema ensures that the user-specific tables (like saved
// locations) exist.
func EnsureUserSchema(dbPath string) error {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("opening database to ensure schema: %w", err)
	}
	defer db.Close()

	_, err = db.Exec(`
		CREATE TABLE IF NOT EXISTS saved_locations (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			latitude REAL NOT NULL,
			longitude REAL NOT NULL,
			zoom INTEGER NOT NULL DEFAULT 7,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		);
		CREATE UNIQUE INDEX IF NOT EXISTS idx_saved_locations_name ON saved_locations(name);
	`)
	if err != nil {
		return fmt.Errorf("creating saved_locations table: %w", err)
	}

	return nil
}
