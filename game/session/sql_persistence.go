package session

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/wricardo/rusty-world/game/snapshot"
)

// documentStats parses doc so the history row can record what it holds
func documentStats(doc []byte) (robots, tiles int, err error) {
	parsed, err := snapshot.Parse(doc)
	if err != nil {
		return 0, 0, err
	}
	return len(parsed.Robots), len(parsed.Tiles), nil
}

// loadLatest returns the newest document selected by query
func loadLatest(db *sql.DB, query string) ([]byte, error) {
	var doc []byte
	err := db.QueryRow(query).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	return doc, nil
}

// scanHistory reads rows of (id, saved_at, robots, tiles, size)
func scanHistory(rows *sql.Rows, parseTime func(any) (time.Time, error)) ([]SnapshotRecord, error) {
	defer rows.Close()

	var records []SnapshotRecord
	for rows.Next() {
		var (
			rec     SnapshotRecord
			savedAt any
		)
		if err := rows.Scan(&rec.ID, &savedAt, &rec.Robots, &rec.Tiles, &rec.Size); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot history: %w", err)
		}
		t, err := parseTime(savedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse saved_at: %w", err)
		}
		rec.SavedAt = t
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshot history: %w", err)
	}
	return records, nil
}
