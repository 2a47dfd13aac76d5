package storage

import (
	"path/filepath"
	"testing"
	"time"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := OpenSQLite(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestInsertAndListRuns(t *testing.T) {
	started := time.Date(2026, 3, 10, 9, 0, 0, 0, time.Local)

	store := openTestStore(t)
	first := RunRecord{
		StartedAt:      started,
		FinishedAt:     started.Add(3 * time.Second),
		Source:         "./export.csv",
		ProjectID:      7,
		UserID:         42,
		Action:         "clean-rebuild",
		RowsLoaded:     12,
		RowsSkipped:    1,
		EntriesDeleted: 14,
		EntriesCreated: 12,
		LocalHours:     "38.5",
		RemoteHours:    "40",
	}

	id, err := store.InsertRun(first)
	if err != nil {
		t.Fatalf("insert run: %v", err)
	}
	if id <= 0 {
		t.Fatalf("expected positive run id, got %d", id)
	}

	second := first
	second.StartedAt = started.Add(time.Hour)
	second.FinishedAt = started.Add(time.Hour + time.Second)
	second.Action = "none"
	second.DryRun = true
	second.EntriesDeleted = 0
	second.EntriesCreated = 0
	if _, err := store.InsertRun(second); err != nil {
		t.Fatalf("insert second run: %v", err)
	}

	runs, err := store.ListRuns(0)
	if err != nil {
		t.Fatalf("list runs: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}

	// Newest first.
	if runs[0].Action != "none" || !runs[0].DryRun {
		t.Fatalf("unexpected newest run: %+v", runs[0])
	}
	if runs[1].Action != "clean-rebuild" || runs[1].EntriesDeleted != 14 {
		t.Fatalf("unexpected oldest run: %+v", runs[1])
	}
	if !runs[1].StartedAt.Equal(started) {
		t.Fatalf("expected started_at roundtrip, got %s", runs[1].StartedAt)
	}
	if runs[1].LocalHours != "38.5" || runs[1].RemoteHours != "40" {
		t.Fatalf("unexpected hours: %+v", runs[1])
	}

	limited, err := store.ListRuns(1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != runs[0].ID {
		t.Fatalf("expected only the newest run, got %+v", limited)
	}
}
