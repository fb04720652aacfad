package session

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLitePersistence implements SnapshotStore on a SQLite database. Every Save
// appends a row so earlier snapshots stay available through History.
type SQLitePersistence struct {
	db *sql.DB
}

// NewSQLitePersistence opens (or creates) the database at path
func NewSQLitePersistence(path string) (*SQLitePersistence, error) {
	if path == "" {
		return nil, fmt.Errorf("empty db path")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to apply %q: %w", p, err)
		}
	}

	schema := `
	CREATE TABLE IF NOT EXISTS world_snapshots (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		saved_at TEXT NOT NULL,
		robots INTEGER NOT NULL,
		tiles INTEGER NOT NULL,
		document BLOB NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLitePersistence{db: db}, nil
}

// Save appends doc to the snapshot history
func (s *SQLitePersistence) Save(doc []byte) error {
	robots, tiles, err := documentStats(doc)
	if err != nil {
		return err
	}

	_, err = s.db.Exec(
		`INSERT INTO world_snapshots (saved_at, robots, tiles, document) VALUES (?, ?, ?, ?)`,
		time.Now().UTC().Format(time.RFC3339Nano), robots, tiles, doc)
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the newest snapshot
func (s *SQLitePersistence) Load() ([]byte, error) {
	return loadLatest(s.db, `SELECT document FROM world_snapshots ORDER BY id DESC LIMIT 1`)
}

// Exists reports whether any snapshot has been saved
func (s *SQLitePersistence) Exists() bool {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM world_snapshots`).Scan(&n); err != nil {
		return false
	}
	return n > 0
}

// History lists up to limit saved snapshots, newest first
func (s *SQLitePersistence) History(limit int) ([]SnapshotRecord, error) {
	rows, err := s.db.Query(
		`SELECT id, saved_at, robots, tiles, length(document) FROM world_snapshots ORDER BY id DESC LIMIT ?`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	return scanHistory(rows, func(v any) (time.Time, error) {
		switch t := v.(type) {
		case string:
			return time.Parse(time.RFC3339Nano, t)
		case []byte:
			return time.Parse(time.RFC3339Nano, string(t))
		case time.Time:
			return t, nil
		default:
			return time.Time{}, fmt.Errorf("unexpected type %T", v)
		}
	})
}

// Close closes the database
func (s *SQLitePersistence) Close() error {
	return s.db.Close()
}
