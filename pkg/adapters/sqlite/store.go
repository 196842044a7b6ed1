// Package sqlite provides a run journal backed by a local SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aretw0/adbpilot/pkg/domain"
	"github.com/aretw0/adbpilot/pkg/ports"
	_ "github.com/glebarez/go-sqlite"
)

const schema = `CREATE TABLE IF NOT EXISTS runs (
	id TEXT PRIMARY KEY,
	device TEXT NOT NULL DEFAULT '',
	started_at INTEGER NOT NULL,
	finished_at INTEGER NOT NULL,
	steps INTEGER NOT NULL,
	failed INTEGER NOT NULL,
	report TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS runs_started_at ON runs (started_at);`

// Store implements ports.RunStore on SQLite.
type Store struct {
	DB *sql.DB
}

var _ ports.RunStore = (*Store)(nil)

// Open opens (creating if needed) the database at path. Use ":memory:" for a throwaway journal.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite: %w", err)
	}
	// A single connection keeps ":memory:" databases shared and serializes writers.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create schema: %w", err)
	}
	return &Store{DB: db}, nil
}

// Save inserts or replaces a record.
func (s *Store) Save(ctx context.Context, record *domain.RunRecord) error {
	report, err := json.Marshal(record.Report)
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}
	_, err = s.DB.ExecContext(ctx,
		`INSERT OR REPLACE INTO runs (id, device, started_at, finished_at, steps, failed, report)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		record.ID, record.Device,
		record.StartedAt.UnixNano(), record.FinishedAt.UnixNano(),
		record.Steps, record.Failed, string(report),
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}
	return nil
}

// Load retrieves a record.
func (s *Store) Load(ctx context.Context, runID string) (*domain.RunRecord, error) {
	var (
		record            domain.RunRecord
		started, finished int64
		report            string
	)
	err := s.DB.QueryRowContext(ctx,
		`SELECT id, device, started_at, finished_at, steps, failed, report FROM runs WHERE id = ?`, runID,
	).Scan(&record.ID, &record.Device, &started, &finished, &record.Steps, &record.Failed, &report)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrRunNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load run: %w", err)
	}

	if err := json.Unmarshal([]byte(report), &record.Report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report: %w", err)
	}
	record.StartedAt = time.Unix(0, started).UTC()
	record.FinishedAt = time.Unix(0, finished).UTC()
	return &record, nil
}

// Delete removes a record.
func (s *Store) Delete(ctx context.Context, runID string) error {
	_, err := s.DB.ExecContext(ctx, `DELETE FROM runs WHERE id = ?`, runID)
	return err
}

// List returns run IDs, most recent first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT id FROM runs ORDER BY started_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	ids := []string{}
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.DB.Close()
}
