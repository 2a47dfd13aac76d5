// Package reconcile compares a loaded timesheet against remote time entries
// and drives the client to make the server match the sheet.
package reconcile

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"redsync/internal/exitcode"
	"redsync/internal/timeutil"
	"redsync/redmine"
	"redsync/timesheet"
)

// Action is the decision taken for one run.
type Action string

const (
	// ActionNone means hours and counts already match.
	ActionNone Action = "none"
	// ActionCleanRebuild wipes every sheet date remotely and re-creates all rows.
	ActionCleanRebuild Action = "clean-rebuild"
	// ActionAppend creates only the rows the server is missing.
	ActionAppend Action = "append"
)

// Engine runs one reconciliation pass. Client, ProjectID, and UserID are
// required; Now and Logf have defaults.
type Engine struct {
	Client    redmine.Client
	ProjectID int64
	UserID    int64
	DryRun    bool
	Now       func() time.Time
	Logf      func(format string, args ...any)
}

// Result carries the decision and mutation counters of one run.
type Result struct {
	DatesProcessed int
	LocalRows      int
	LocalHours     decimal.Decimal
	RemoteHours    decimal.Decimal
	HoursMatch     bool
	RemoteCount    int
	Difference     int
	Action         Action
	EntriesDeleted int
	EntriesCreated int
	RowsNoActivity int
	VerifiedMatch  bool
	VerifySkipped  bool
}

// Run executes the decision procedure:
//  1. per-date hour comparison (aggregate AND across all dates)
//  2. remote entry count for today vs sheet row count
//  3. no-op, clean-and-rebuild, or append per the decision table
//  4. a final verification comparison whose outcome is informational only
func (e *Engine) Run(ctx context.Context, records []timesheet.Record) (*Result, error) {
	dates := timesheet.DistinctDates(records)
	localSums := timesheet.SumHoursByDate(records)

	result := &Result{
		DatesProcessed: len(dates),
		LocalRows:      len(records),
		LocalHours:     timesheet.TotalHours(records),
		Action:         ActionNone,
		VerifySkipped:  true,
	}

	hoursMatch, remoteHours, err := e.compareHours(ctx, dates, localSums)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.RemoteFetch, err)
	}
	result.HoursMatch = hoursMatch
	result.RemoteHours = remoteHours

	today := timeutil.FormatDay(e.now())
	_, remoteCount, err := e.Client.ListTimeEntries(ctx, e.ProjectID, e.UserID, today)
	if err != nil {
		return nil, exitcode.Wrap(exitcode.RemoteFetch, fmt.Errorf("fetch remote entry count for %s: %w", today, err))
	}
	result.RemoteCount = remoteCount
	result.Difference = remoteCount - len(records)

	switch {
	case hoursMatch && result.Difference == 0:
		e.logf("Remote entries already match the sheet (%d rows, %s hours). Nothing to do.",
			len(records), result.LocalHours)
		return result, nil
	case result.Difference < 0:
		result.Action = ActionAppend
		e.logf("Remote is missing %d entries. Appending without cleaning.", -result.Difference)
	default:
		result.Action = ActionCleanRebuild
		e.logf("Remote state diverged (hours match: %t, count difference: %d). Cleaning and rebuilding.",
			hoursMatch, result.Difference)
	}

	if result.Action == ActionCleanRebuild {
		deleted, err := e.clean(ctx, dates)
		if err != nil {
			return nil, exitcode.Wrap(exitcode.CleanFailed, err)
		}
		result.EntriesDeleted = deleted
	}

	skip := 0
	if result.Action == ActionAppend {
		skip = remoteCount
	}
	created, unmapped, err := e.rebuild(ctx, records, skip)
	if err != nil {
		return nil, err
	}
	result.EntriesCreated = created
	result.RowsNoActivity = unmapped

	if e.DryRun {
		e.logf("Dry-run: no changes were made.")
		return result, nil
	}

	verified, _, err := e.compareHours(ctx, dates, localSums)
	if err != nil {
		e.logf("Warning: verification pass failed: %v", err)
		return result, nil
	}
	result.VerifySkipped = false
	result.VerifiedMatch = verified
	e.logf("Verification: per-date hours match: %t", verified)

	return result, nil
}

// compareHours sums remote hours per sheet date and compares them with the
// local sums. A mismatch on any date makes the whole comparison false.
func (e *Engine) compareHours(ctx context.Context, dates []string, localSums map[string]decimal.Decimal) (bool, decimal.Decimal, error) {
	match := true
	remoteTotal := decimal.Zero

	for _, date := range dates {
		entries, _, err := e.Client.ListTimeEntries(ctx, e.ProjectID, e.UserID, date)
		if err != nil {
			return false, decimal.Zero, fmt.Errorf("list remote entries for %s: %w", date, err)
		}

		remoteSum := decimal.Zero
		for _, entry := range entries {
			remoteSum = remoteSum.Add(decimal.NewFromFloat(entry.Hours))
		}
		remoteTotal = remoteTotal.Add(remoteSum)

		if !remoteSum.Equal(localSums[date]) {
			e.logf("Date %s: local hours %s, remote hours %s (mismatch)", date, localSums[date], remoteSum)
			match = false
			continue
		}
		e.logf("Date %s: local hours %s, remote hours %s", date, localSums[date], remoteSum)
	}

	return match, remoteTotal, nil
}

// clean deletes every remote entry on every sheet date for the configured
// user. In dry-run mode entries are listed and counted but not deleted.
func (e *Engine) clean(ctx context.Context, dates []string) (int, error) {
	deleted := 0
	for _, date := range dates {
		entries, _, err := e.Client.ListTimeEntries(ctx, e.ProjectID, e.UserID, date)
		if err != nil {
			return deleted, fmt.Errorf("list remote entries for %s before clean: %w", date, err)
		}
		for _, entry := range entries {
			if e.DryRun {
				e.logf("Dry-run: would delete entry %d (%s, %.2f hours)", entry.ID, entry.SpentOn, entry.Hours)
				deleted++
				continue
			}
			if err := e.Client.DeleteTimeEntry(ctx, entry.ID); err != nil {
				return deleted, fmt.Errorf("delete entry %d on %s: %w", entry.ID, date, err)
			}
			deleted++
		}
	}
	return deleted, nil
}

// rebuild creates one remote entry per sheet row, skipping the first skip
// rows. Rows whose activity name is not in the fetched map are skipped with
// a warning, never fatally.
func (e *Engine) rebuild(ctx context.Context, records []timesheet.Record, skip int) (int, int, error) {
	activities, err := e.Client.FetchActivityMap(ctx, e.ProjectID)
	if err != nil {
		return 0, 0, exitcode.Wrap(exitcode.ActivityMap, fmt.Errorf("fetch activity map: %w", err))
	}

	if skip > len(records) {
		skip = len(records)
	}

	created := 0
	unmapped := 0
	for _, record := range records[skip:] {
		activityID, ok := activities.Resolve(record.Activity)
		if !ok {
			e.logf("Warning: skipping issue %d on %s: activity %q not found in project", record.IssueID, record.SpentOn, record.Activity)
			unmapped++
			continue
		}

		if e.DryRun {
			e.logf("Dry-run: would create entry for issue %d on %s (%s hours)", record.IssueID, record.SpentOn, record.Hours)
			created++
			continue
		}

		_, err := e.Client.CreateTimeEntry(ctx, redmine.NewTimeEntry{
			IssueID:    record.IssueID,
			SpentOn:    record.SpentOn,
			Hours:      record.Hours.InexactFloat64(),
			ActivityID: activityID,
			UserID:     e.UserID,
		})
		if err != nil {
			return created, unmapped, exitcode.Wrap(exitcode.CreateFailed,
				fmt.Errorf("create entry for issue %d on %s: %w", record.IssueID, record.SpentOn, err))
		}
		created++
	}

	return created, unmapped, nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) logf(format string, args ...any) {
	if e.Logf != nil {
		e.Logf(format, args...)
		return
	}
	fmt.Printf(format+"\n", args...)
}
