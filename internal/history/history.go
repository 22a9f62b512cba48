// Package history keeps an append-only log of applied transform runs.
// Dry runs are never recorded; the graph and match computations themselves
// are stateless and never persisted.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

const schema = `
CREATE TABLE IF NOT EXISTS transform_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	pattern TEXT NOT NULL,
	replacement TEXT NOT NULL,
	root TEXT NOT NULL,
	files_modified INTEGER NOT NULL,
	total_matches INTEGER NOT NULL
);
`

// Run is one applied transform.
type Run struct {
	ID            int64     `json:"id"`
	StartedAt     time.Time `json:"startedAt"`
	Pattern       string    `json:"pattern"`
	Replacement   string    `json:"replacement"`
	Root          string    `json:"root"`
	FilesModified int       `json:"filesModified"`
	TotalMatches  int       `json:"totalMatches"`
}

// Store wraps the SQLite database holding the run log.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the log at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Record appends one run to the log.
func (s *Store) Record(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO transform_runs (started_at, pattern, replacement, root, files_modified, total_matches)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.StartedAt.UTC().Format(time.RFC3339), run.Pattern, run.Replacement,
		run.Root, run.FilesModified, run.TotalMatches)
	if err != nil {
		return fmt.Errorf("recording transform run: %w", err)
	}
	return nil
}

// Recent returns the newest runs, most recent first.
func (s *Store) Recent(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, started_at, pattern, replacement, root, files_modified, total_matches
		 FROM transform_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying transform runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var startedAt string
		if err := rows.Scan(&run.ID, &startedAt, &run.Pattern, &run.Replacement,
			&run.Root, &run.FilesModified, &run.TotalMatches); err != nil {
			return nil, err
		}
		if ts, err := time.Parse(time.RFC3339, startedAt); err == nil {
			run.StartedAt = ts
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
