// Package history keeps a local SQLite log of report runs.
package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Run statuses.
const (
	StatusRunning = "running"
	StatusSuccess = "success"
	StatusFailed  = "failed"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id            TEXT PRIMARY KEY,
	target        TEXT NOT NULL,
	status        TEXT NOT NULL,
	error_message TEXT NOT NULL DEFAULT '',
	total_records INTEGER NOT NULL DEFAULT 0,
	started_at    DATETIME NOT NULL,
	finished_at   DATETIME
);
CREATE TABLE IF NOT EXISTS run_reports (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id     TEXT NOT NULL REFERENCES runs(id),
	report     TEXT NOT NULL,
	row_count  INTEGER NOT NULL,
	chart_path TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_run_reports_run ON run_reports(run_id);
`

// Run is one recorded invocation.
type Run struct {
	ID           string
	Target       string
	Status       string
	Error        string
	TotalRecords int64
	StartedAt    time.Time
	FinishedAt   *time.Time
	Reports      []ReportEntry
}

// ReportEntry is one report produced during a run.
type ReportEntry struct {
	Report    string
	Rows      int
	ChartPath string
}

// Store is the run log.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the history database at path.
func Open(path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history path is empty")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create history schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Begin records the start of a run.
func (s *Store) Begin(ctx context.Context, id, target string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, target, status, started_at) VALUES (?, ?, ?, ?)`,
		id, target, StatusRunning, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// RecordReport appends a report entry to a run.
func (s *Store) RecordReport(ctx context.Context, runID string, e ReportEntry) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_reports (run_id, report, row_count, chart_path, created_at) VALUES (?, ?, ?, ?, ?)`,
		runID, e.Report, e.Rows, e.ChartPath, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("record report: %w", err)
	}
	return nil
}

// Finish marks a run as done. A nil runErr means success.
func (s *Store) Finish(ctx context.Context, id string, totalRecords int64, runErr error) error {
	status, msg := StatusSuccess, ""
	if runErr != nil {
		status, msg = StatusFailed, runErr.Error()
	}
	_, err := s.db.ExecContext(ctx,
		`UPDATE runs SET status = ?, error_message = ?, total_records = ?, finished_at = ? WHERE id = ?`,
		status, msg, totalRecords, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("finish run: %w", err)
	}
	return nil
}

// List returns the most recent runs, newest first, with their reports.
func (s *Store) List(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, target, status, error_message, total_records, started_at, finished_at
		 FROM runs ORDER BY started_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &r.Target, &r.Status, &r.Error, &r.TotalRecords, &r.StartedAt, &finished); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range runs {
		reports, err := s.reports(ctx, runs[i].ID)
		if err != nil {
			return nil, err
		}
		runs[i].Reports = reports
	}
	return runs, nil
}

func (s *Store) reports(ctx context.Context, runID string) ([]ReportEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT report, row_count, chart_path FROM run_reports WHERE run_id = ? ORDER BY id`, runID)
	if err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	defer rows.Close()

	var entries []ReportEntry
	for rows.Next() {
		var e ReportEntry
		if err := rows.Scan(&e.Report, &e.Rows, &e.ChartPath); err != nil {
			return nil, fmt.Errorf("scan report: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
