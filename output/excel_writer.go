package output

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

type ExcelWriter struct{}

func (w *ExcelWriter) Write(path string, report *Report) error {
	file := excelize.NewFile()
	defer file.Close()

	sheet := file.GetSheetName(0)
	headers := []string{"Date", "LocalHours", "RemoteHours", "DeltaHours", "LocalRows", "RemoteEntries"}

	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := file.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set excel header %s: %w", cell, err)
		}
	}

	for i, row := range report.Rows {
		values := []string{
			row.Date,
			row.LocalHours.String(),
			row.RemoteHours.String(),
			row.DeltaHours.String(),
			fmt.Sprintf("%d", row.LocalRows),
			fmt.Sprintf("%d", row.RemoteEntries),
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+2)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				return fmt.Errorf("set excel value %s: %w", cell, err)
			}
		}
	}

	totalsRow := len(report.Rows) + 2
	totals := []string{
		"Total",
		report.TotalLocal.String(),
		report.TotalRemote.String(),
		report.TotalDelta.String(),
	}
	for col, value := range totals {
		cell, _ := excelize.CoordinatesToCellName(col+1, totalsRow)
		if err := file.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("set excel totals %s: %w", cell, err)
		}
	}

	if err := file.SaveAs(path); err != nil {
		return fmt.Errorf("save excel output %s: %w", path, err)
	}

	return nil
}
