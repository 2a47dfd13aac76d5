// Package importer loads timesheet rows from a spreadsheet export, reachable
// as a local file or an HTTP(S) URL.
package importer

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"strconv"
	"time"

	"redsync/internal/timeutil"
	"redsync/timesheet"
)

// Source columns of the export. Header lookup is case/space/underscore
// insensitive.
const (
	columnDate     = "data"
	columnIssue    = "zagadnienie"
	columnHours    = "godzin"
	columnActivity = "activity"
)

// Result carries the filtered records plus row counters for reporting.
type Result struct {
	Records     []timesheet.Record
	RowsRead    int
	RowsSkipped int
}

// Loader reads an export from a local path or URL. A zero Loader is usable;
// HTTPClient and Warnf exist for tests and custom wiring.
type Loader struct {
	HTTPClient *http.Client
	Warnf      func(format string, args ...any)
}

// Load fetches, parses, and filters the source. Fetch problems return a
// *FetchError, parse problems a *FormatError. Rows with a blank or invalid
// date, issue id, hours, or activity are skipped with a warning.
func (l *Loader) Load(source, format string) (*Result, error) {
	stream, err := l.open(source)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	reader, err := ReaderForFormat(InferFormat(source, format))
	if err != nil {
		return nil, err
	}

	rows, err := reader.Read(stream)
	if err != nil {
		return nil, &FormatError{Source: source, Err: err}
	}

	result := &Result{
		Records:  make([]timesheet.Record, 0, len(rows)),
		RowsRead: len(rows),
	}
	for _, row := range rows {
		record, ok := l.mapRow(row)
		if !ok {
			result.RowsSkipped++
			continue
		}
		result.Records = append(result.Records, record)
	}

	return result, nil
}

func (l *Loader) mapRow(row Record) (timesheet.Record, bool) {
	date := row.Get(columnDate)
	issue := row.Get(columnIssue)
	hours := row.Get(columnHours)
	activity := row.Get(columnActivity)

	if date == "" || issue == "" || hours == "" || activity == "" {
		l.warnf("Warning: skipping row %d: missing date, issue, hours, or activity", row.RowNumber)
		return timesheet.Record{}, false
	}

	day, err := timeutil.ParseDay(date)
	if err != nil {
		l.warnf("Warning: skipping row %d: %v", row.RowNumber, err)
		return timesheet.Record{}, false
	}

	issueID, err := strconv.ParseInt(issue, 10, 64)
	if err != nil {
		l.warnf("Warning: skipping row %d: invalid issue id %q", row.RowNumber, issue)
		return timesheet.Record{}, false
	}

	parsedHours, err := timesheet.ParseHours(hours)
	if err != nil {
		l.warnf("Warning: skipping row %d: %v", row.RowNumber, err)
		return timesheet.Record{}, false
	}

	return timesheet.Record{
		SpentOn:  timeutil.FormatDay(day),
		IssueID:  issueID,
		Hours:    parsedHours,
		Activity: activity,
	}, true
}

func (l *Loader) open(source string) (io.ReadCloser, error) {
	if !isURL(source) {
		file, err := os.Open(source)
		if err != nil {
			return nil, &FetchError{Source: source, Err: err}
		}
		return file, nil
	}

	client := l.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}

	resp, err := client.Get(source)
	if err != nil {
		return nil, &FetchError{Source: source, Err: err}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_ = resp.Body.Close()
		return nil, &FetchError{Source: source, StatusCode: resp.StatusCode}
	}
	return resp.Body, nil
}

func (l *Loader) warnf(format string, args ...any) {
	if l.Warnf != nil {
		l.Warnf(format, args...)
		return
	}
	fmt.Printf(format+"\n", args...)
}
