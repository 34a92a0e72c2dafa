// Package store persists per-class threshold settings in SQLite so policy
// changes survive worker restarts.
package store

import (
	"database/sql"
	"fmt"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// ClassSetting is one persisted policy row.
type ClassSetting struct {
	Class     string
	Threshold float64
	Enabled   bool
}

// Store handles SQLite persistence for threshold policy settings.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// WAL mode for concurrent reads while the API writes
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the schema if it does not exist.
func (s *Store) Migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS class_thresholds (
			class TEXT PRIMARY KEY,
			threshold REAL NOT NULL,
			enabled INTEGER NOT NULL DEFAULT 1,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Debug().Msg("Database migrations completed")
	return nil
}

// SaveSetting inserts or updates the persisted setting for one class.
func (s *Store) SaveSetting(setting ClassSetting) error {
	enabled := 0
	if setting.Enabled {
		enabled = 1
	}

	query := `INSERT INTO class_thresholds (class, threshold, enabled, updated_at)
		VALUES (?, ?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(class) DO UPDATE SET
			threshold = excluded.threshold,
			enabled = excluded.enabled,
			updated_at = CURRENT_TIMESTAMP`

	if _, err := s.db.Exec(query, setting.Class, setting.Threshold, enabled); err != nil {
		return fmt.Errorf("failed to save setting for %s: %w", setting.Class, err)
	}
	return nil
}

// LoadSettings returns all persisted class settings keyed by class name.
func (s *Store) LoadSettings() (map[string]ClassSetting, error) {
	rows, err := s.db.Query(`SELECT class, threshold, enabled FROM class_thresholds`)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]ClassSetting)
	for rows.Next() {
		var setting ClassSetting
		var enabled int
		if err := rows.Scan(&setting.Class, &setting.Threshold, &enabled); err != nil {
			return nil, fmt.Errorf("failed to scan setting: %w", err)
		}
		setting.Enabled = enabled == 1
		settings[setting.Class] = setting
	}
	return settings, rows.Err()
}
