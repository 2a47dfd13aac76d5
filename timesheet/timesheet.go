// Package timesheet holds the normalized time-tracking record used across
// the importer, the reconcile engine, and the report writers.
package timesheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

// Record is one reported unit of work: hours spent on an issue on a date,
// tagged with an activity name.
type Record struct {
	SpentOn  string // YYYY-MM-DD
	IssueID  int64
	Hours    decimal.Decimal
	Activity string
}

// ParseHours parses an hours value that may use a comma as decimal separator
// ("2,5") and a dot as thousands separator ("1.234,5").
func ParseHours(raw string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(raw)
	if cleaned == "" {
		return decimal.Zero, fmt.Errorf("empty hours value")
	}
	if strings.Contains(cleaned, ",") {
		if strings.Contains(cleaned, ".") {
			cleaned = strings.ReplaceAll(cleaned, ".", "")
		}
		cleaned = strings.ReplaceAll(cleaned, ",", ".")
	}

	hours, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse hours %q: %w", raw, err)
	}
	if hours.IsNegative() {
		return decimal.Zero, fmt.Errorf("hours must not be negative: %q", raw)
	}
	return hours, nil
}

// DistinctDates returns the sorted unique set of dates present in records.
func DistinctDates(records []Record) []string {
	seen := make(map[string]struct{}, len(records))
	dates := make([]string, 0, len(records))
	for _, record := range records {
		if _, ok := seen[record.SpentOn]; ok {
			continue
		}
		seen[record.SpentOn] = struct{}{}
		dates = append(dates, record.SpentOn)
	}
	sort.Strings(dates)
	return dates
}

// SumHoursByDate sums record hours per date.
func SumHoursByDate(records []Record) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal, len(records))
	for _, record := range records {
		sums[record.SpentOn] = sums[record.SpentOn].Add(record.Hours)
	}
	return sums
}

// TotalHours sums the hours of all records.
func TotalHours(records []Record) decimal.Decimal {
	total := decimal.Zero
	for _, record := range records {
		total = total.Add(record.Hours)
	}
	return total
}
