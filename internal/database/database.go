package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/Polqt/aica-bot-sub001/internal/config"
)

// FileName is the database file inside the config directory.
const FileName = "aica.db"

// Store is the local sqlite database holding the login session and the
// upload history
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// DefaultPath returns ~/.aica/aica.db
func DefaultPath() string {
	return filepath.Join(config.Dir(), FileName)
}

// Open creates (if needed) and opens the SQLite database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if err := RunMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return &Store{db: db, now: time.Now}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RunMigrations creates all necessary tables
func RunMigrations(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS sessions (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		email TEXT NOT NULL DEFAULT '',
		access_token TEXT NOT NULL,
		token_type TEXT NOT NULL DEFAULT 'bearer',
		created_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS uploads (
		id TEXT PRIMARY KEY,
		filename TEXT NOT NULL,
		content_type TEXT NOT NULL,
		size INTEGER NOT NULL,
		status TEXT NOT NULL DEFAULT 'processing',
		attempts INTEGER NOT NULL DEFAULT 0,
		message TEXT NOT NULL DEFAULT '',
		started_at DATETIME NOT NULL,
		finished_at DATETIME
	);

	CREATE INDEX IF NOT EXISTS idx_uploads_started_at ON uploads(started_at);
	`

	_, err := db.Exec(schema)
	return err
}
