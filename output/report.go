// Package output builds and writes the per-date comparison report between a
// loaded timesheet and the remote time entries.
package output

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"redsync/redmine"
	"redsync/timesheet"
)

// DateRow compares one date across both sources.
type DateRow struct {
	Date          string
	LocalHours    decimal.Decimal
	RemoteHours   decimal.Decimal
	DeltaHours    decimal.Decimal
	LocalRows     int
	RemoteEntries int
}

// Report is the full per-date comparison plus totals.
type Report struct {
	Rows        []DateRow
	TotalLocal  decimal.Decimal
	TotalRemote decimal.Decimal
	TotalDelta  decimal.Decimal
}

// BuildReport combines sheet records with remote entries grouped by date.
// Dates present in either source get a row; rows are sorted by date.
func BuildReport(records []timesheet.Record, remoteByDate map[string][]redmine.TimeEntry) *Report {
	localSums := timesheet.SumHoursByDate(records)
	localCounts := make(map[string]int, len(records))
	for _, record := range records {
		localCounts[record.SpentOn]++
	}

	dates := make(map[string]struct{}, len(localSums)+len(remoteByDate))
	for date := range localSums {
		dates[date] = struct{}{}
	}
	for date := range remoteByDate {
		dates[date] = struct{}{}
	}

	sorted := make([]string, 0, len(dates))
	for date := range dates {
		sorted = append(sorted, date)
	}
	sort.Strings(sorted)

	report := &Report{Rows: make([]DateRow, 0, len(sorted))}
	for _, date := range sorted {
		remoteSum := decimal.Zero
		for _, entry := range remoteByDate[date] {
			remoteSum = remoteSum.Add(decimal.NewFromFloat(entry.Hours))
		}

		row := DateRow{
			Date:          date,
			LocalHours:    localSums[date],
			RemoteHours:   remoteSum,
			DeltaHours:    localSums[date].Sub(remoteSum),
			LocalRows:     localCounts[date],
			RemoteEntries: len(remoteByDate[date]),
		}
		report.Rows = append(report.Rows, row)
		report.TotalLocal = report.TotalLocal.Add(row.LocalHours)
		report.TotalRemote = report.TotalRemote.Add(row.RemoteHours)
	}
	report.TotalDelta = report.TotalLocal.Sub(report.TotalRemote)

	return report
}

// Writer persists a report to a file.
type Writer interface {
	Write(path string, report *Report) error
}

func WriterForFormat(format string) (Writer, error) {
	switch format {
	case "csv":
		return &CSVWriter{}, nil
	case "excel":
		return &ExcelWriter{}, nil
	default:
		return nil, fmt.Errorf("unsupported report format: %s (supported: csv, excel)", format)
	}
}
