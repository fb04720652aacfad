package session

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/lib/pq" // PostgreSQL driver
)

// PostgresPersistence implements SnapshotStore on PostgreSQL with the same
// append-only history as the SQLite store.
type PostgresPersistence struct {
	db *sql.DB
}

// NewPostgresPersistence connects to the database described by dsn
func NewPostgresPersistence(dsn string) (*PostgresPersistence, error) {
	if dsn == "" {
		return nil, fmt.Errorf("postgres dsn cannot be empty")
	}

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Test the connection
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS world_snapshots (
		id BIGSERIAL PRIMARY KEY,
		saved_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		robots INTEGER NOT NULL,
		tiles INTEGER NOT NULL,
		document TEXT NOT NULL
	);`
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &PostgresPersistence{db: db}, nil
}

// Save appends doc to the snapshot history
func (p *PostgresPersistence) Save(doc []byte) error {
	robots, tiles, err := documentStats(doc)
	if err != nil {
		return err
	}

	_, err = p.db.Exec(
		`INSERT INTO world_snapshots (robots, tiles, document) VALUES ($1, $2, $3)`,
		robots, tiles, string(doc))
	if err != nil {
		return fmt.Errorf("failed to save snapshot: %w", err)
	}
	return nil
}

// Load returns the newest snapshot
func (p *PostgresPersistence) Load() ([]byte, error) {
	return loadLatest(p.db, `SELECT document FROM world_snapshots ORDER BY id DESC LIMIT 1`)
}

// Exists reports whether any snapshot has been saved
func (p *PostgresPersistence) Exists() bool {
	var exists bool
	if err := p.db.QueryRow(`SELECT EXISTS (SELECT 1 FROM world_snapshots)`).Scan(&exists); err != nil {
		return false
	}
	return exists
}

// History lists up to limit saved snapshots, newest first
func (p *PostgresPersistence) History(limit int) ([]SnapshotRecord, error) {
	rows, err := p.db.Query(
		`SELECT id, saved_at, robots, tiles, octet_length(document) FROM world_snapshots ORDER BY id DESC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshot history: %w", err)
	}
	return scanHistory(rows, func(v any) (time.Time, error) {
		t, ok := v.(time.Time)
		if !ok {
			return time.Time{}, fmt.Errorf("unexpected type %T", v)
		}
		return t, nil
	})
}

// Close closes the database connection
func (p *PostgresPersistence) Close() error {
	return p.db.Close()
}
