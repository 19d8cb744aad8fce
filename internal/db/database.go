package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"
)

// Open initializes the SQLite database and creates tables.
func Open(dbPath string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	database, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=1")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := database.Ping(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := CreateTables(database); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return database, nil
}

// CreateTables creates all necessary tables.
func CreateTables(database *sql.DB) error {
	createStateTable := `
	CREATE TABLE IF NOT EXISTS presentation_state (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		is_presenting INTEGER NOT NULL DEFAULT 0,
		is_hidden INTEGER NOT NULL DEFAULT 1,
		current_queue_item_id INTEGER,
		current_song_slide_id TEXT,
		last_song_slide_id TEXT,
		temporary_content TEXT,
		updated_at INTEGER NOT NULL DEFAULT 0
	);`

	if _, err := database.Exec(createStateTable); err != nil {
		return fmt.Errorf("failed to create presentation_state table: %w", err)
	}

	createQueueTable := `
	CREATE TABLE IF NOT EXISTS queue_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_type TEXT NOT NULL,
		sort_key INTEGER NOT NULL DEFAULT 0,
		payload TEXT NOT NULL,
		created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	);`

	if _, err := database.Exec(createQueueTable); err != nil {
		return fmt.Errorf("failed to create queue_items table: %w", err)
	}

	createSortIndex := `CREATE INDEX IF NOT EXISTS idx_queue_sort_key ON queue_items(sort_key);`
	if _, err := database.Exec(createSortIndex); err != nil {
		return fmt.Errorf("failed to create sort_key index: %w", err)
	}

	createScreensTable := `
	CREATE TABLE IF NOT EXISTS screen_configs (
		screen_id TEXT NOT NULL,
		content_type TEXT NOT NULL,
		config TEXT NOT NULL,
		updated_at INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (screen_id, content_type)
	);`

	if _, err := database.Exec(createScreensTable); err != nil {
		return fmt.Errorf("failed to create screen_configs table: %w", err)
	}

	return nil
}
