// Package storage keeps a local journal of sync runs in SQLite so past
// reconciliations can be inspected with "redsync history" or the web view.
package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

type SQLiteStore struct {
	db *sql.DB
}

// RunRecord is one journaled reconciliation run.
type RunRecord struct {
	ID             int64
	StartedAt      time.Time
	FinishedAt     time.Time
	Source         string
	ProjectID      int64
	UserID         int64
	Action         string
	DryRun         bool
	RowsLoaded     int
	RowsSkipped    int
	EntriesDeleted int
	EntriesCreated int
	LocalHours     string
	RemoteHours    string
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS sync_runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	finished_at TEXT NOT NULL,
	source TEXT NOT NULL,
	project_id INTEGER NOT NULL,
	user_id INTEGER NOT NULL,
	action TEXT NOT NULL,
	dry_run INTEGER NOT NULL DEFAULT 0,
	rows_loaded INTEGER NOT NULL,
	rows_skipped INTEGER NOT NULL,
	entries_deleted INTEGER NOT NULL,
	entries_created INTEGER NOT NULL,
	local_hours TEXT NOT NULL,
	remote_hours TEXT NOT NULL,
	created_at TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

// InsertRun journals one run and returns its row id.
func (s *SQLiteStore) InsertRun(run RunRecord) (int64, error) {
	result, err := s.db.Exec(
		`INSERT INTO sync_runs (
			started_at, finished_at, source, project_id, user_id, action, dry_run,
			rows_loaded, rows_skipped, entries_deleted, entries_created,
			local_hours, remote_hours
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.StartedAt.Format(time.RFC3339),
		run.FinishedAt.Format(time.RFC3339),
		run.Source,
		run.ProjectID,
		run.UserID,
		run.Action,
		boolToInt(run.DryRun),
		run.RowsLoaded,
		run.RowsSkipped,
		run.EntriesDeleted,
		run.EntriesCreated,
		run.LocalHours,
		run.RemoteHours,
	)
	if err != nil {
		return 0, fmt.Errorf("insert sync run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("read inserted run id: %w", err)
	}
	return id, nil
}

// ListRuns returns the most recent runs, newest first. A limit <= 0 returns
// all runs.
func (s *SQLiteStore) ListRuns(limit int) ([]RunRecord, error) {
	query := `
SELECT id, started_at, finished_at, source, project_id, user_id, action, dry_run,
	rows_loaded, rows_skipped, entries_deleted, entries_created,
	local_hours, remote_hours
FROM sync_runs
ORDER BY id DESC`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query sync runs: %w", err)
	}
	defer rows.Close()

	runs := make([]RunRecord, 0, 32)
	for rows.Next() {
		var (
			run                 RunRecord
			startedAt, finished string
			dryRun              int
		)
		if err := rows.Scan(
			&run.ID, &startedAt, &finished, &run.Source, &run.ProjectID, &run.UserID,
			&run.Action, &dryRun, &run.RowsLoaded, &run.RowsSkipped,
			&run.EntriesDeleted, &run.EntriesCreated, &run.LocalHours, &run.RemoteHours,
		); err != nil {
			return nil, fmt.Errorf("scan sync run: %w", err)
		}

		run.StartedAt, err = time.Parse(time.RFC3339, startedAt)
		if err != nil {
			return nil, fmt.Errorf("parse run started_at %q: %w", startedAt, err)
		}
		run.FinishedAt, err = time.Parse(time.RFC3339, finished)
		if err != nil {
			return nil, fmt.Errorf("parse run finished_at %q: %w", finished, err)
		}
		run.DryRun = dryRun != 0
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate sync runs: %w", err)
	}

	return runs, nil
}

func boolToInt(value bool) int {
	if value {
		return 1
	}
	return 0
}
