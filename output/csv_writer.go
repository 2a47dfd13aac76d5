package output

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

type CSVWriter struct{}

func (w *CSVWriter) Write(path string, report *Report) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv output %s: %w", path, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	headers := []string{"Date", "LocalHours", "RemoteHours", "DeltaHours", "LocalRows", "RemoteEntries"}
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write csv headers: %w", err)
	}

	for _, row := range report.Rows {
		record := []string{
			row.Date,
			row.LocalHours.String(),
			row.RemoteHours.String(),
			row.DeltaHours.String(),
			strconv.Itoa(row.LocalRows),
			strconv.Itoa(row.RemoteEntries),
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	totals := []string{
		"Total",
		report.TotalLocal.String(),
		report.TotalRemote.String(),
		report.TotalDelta.String(),
		"",
		"",
	}
	if err := writer.Write(totals); err != nil {
		return fmt.Errorf("write csv totals: %w", err)
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv output: %w", err)
	}

	return nil
}
