package importer

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `data,zagadnienie,godzin,activity
2026-03-10,1201,"2,5",Development
2026-03-10,1202,1.5,Testing
2026-03-11,1203,8,Development
`

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "export.csv")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write temp csv: %v", err)
	}
	return path
}

func TestLoad_ParsesLocalCSV(t *testing.T) {
	t.Parallel()

	loader := &Loader{Warnf: func(string, ...any) {}}
	result, err := loader.Load(writeTempCSV(t, sampleCSV), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if result.RowsRead != 3 || result.RowsSkipped != 0 {
		t.Fatalf("unexpected counters: read=%d skipped=%d", result.RowsRead, result.RowsSkipped)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(result.Records))
	}

	first := result.Records[0]
	if first.SpentOn != "2026-03-10" || first.IssueID != 1201 || first.Activity != "Development" {
		t.Fatalf("unexpected first record: %+v", first)
	}
	if !first.Hours.Equal(decimal.NewFromFloat(2.5)) {
		t.Fatalf("expected comma-decimal 2,5 to parse as 2.5, got %s", first.Hours)
	}
}

func TestLoad_SkipsIncompleteRowsWithWarning(t *testing.T) {
	t.Parallel()

	content := `data,zagadnienie,godzin,activity
2026-03-10,1201,2,Development
,1202,2,Development
2026-03-10,,2,Development
2026-03-10,1203,,Development
2026-03-10,1204,2,
2026-03-10,abc,2,Development
2026-03-10,1205,nope,Development
not-a-date,1206,2,Development
`

	warnings := 0
	loader := &Loader{Warnf: func(string, ...any) { warnings++ }}
	result, err := loader.Load(writeTempCSV(t, content), "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if len(result.Records) != 1 {
		t.Fatalf("expected only the complete row to survive, got %d records", len(result.Records))
	}
	if result.RowsSkipped != 7 {
		t.Fatalf("expected 7 skipped rows, got %d", result.RowsSkipped)
	}
	if warnings != 7 {
		t.Fatalf("expected one warning per dropped row, got %d", warnings)
	}
}

func TestLoad_RemoteSource(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing.csv" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(sampleCSV))
	}))
	defer server.Close()

	loader := &Loader{HTTPClient: server.Client(), Warnf: func(string, ...any) {}}

	result, err := loader.Load(server.URL+"/export.csv", "")
	if err != nil {
		t.Fatalf("load remote: %v", err)
	}
	if len(result.Records) != 3 {
		t.Fatalf("expected 3 remote records, got %d", len(result.Records))
	}

	_, err = loader.Load(server.URL+"/missing.csv", "")
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError for missing remote source, got %v", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound {
		t.Fatalf("expected status 404 in FetchError, got %d", fetchErr.StatusCode)
	}
}

func TestLoad_FetchErrorForMissingLocalFile(t *testing.T) {
	t.Parallel()

	loader := &Loader{Warnf: func(string, ...any) {}}
	_, err := loader.Load(filepath.Join(t.TempDir(), "absent.csv"), "")

	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("expected FetchError, got %v", err)
	}
}

func TestLoad_FormatErrorForBrokenCSV(t *testing.T) {
	t.Parallel()

	broken := "data,zagadnienie,godzin,activity\n\"2026-03-10,1201,2,Development\n"
	loader := &Loader{Warnf: func(string, ...any) {}}
	_, err := loader.Load(writeTempCSV(t, broken), "")

	var formatErr *FormatError
	if !errors.As(err, &formatErr) {
		t.Fatalf("expected FormatError, got %v", err)
	}
}

func TestLoad_ExcelMatchesCSV(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "export.xlsx")
	file := excelize.NewFile()
	sheet := file.GetSheetName(0)
	rows := [][]any{
		{"data", "zagadnienie", "godzin", "activity"},
		{"2026-03-10", "1201", "2,5", "Development"},
		{"2026-03-11", "1203", "8", "Development"},
	}
	for i, row := range rows {
		for col, value := range row {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := file.SetCellValue(sheet, cell, value); err != nil {
				t.Fatalf("set cell %s: %v", cell, err)
			}
		}
	}
	if err := file.SaveAs(path); err != nil {
		t.Fatalf("save excel fixture: %v", err)
	}
	_ = file.Close()

	loader := &Loader{Warnf: func(string, ...any) {}}
	result, err := loader.Load(path, "")
	if err != nil {
		t.Fatalf("load excel: %v", err)
	}
	if len(result.Records) != 2 {
		t.Fatalf("expected 2 excel records, got %d", len(result.Records))
	}
	if !result.Records[0].Hours.Equal(decimal.NewFromFloat(2.5)) {
		t.Fatalf("expected 2.5 hours from excel row, got %s", result.Records[0].Hours)
	}
}

func TestInferFormat(t *testing.T) {
	t.Parallel()

	cases := []struct {
		source string
		format string
		want   string
	}{
		{source: "export.csv", want: "csv"},
		{source: "export.xlsx", want: "excel"},
		{source: "https://example.test/reports/export.xlsx?key=1", want: "excel"},
		{source: "https://example.test/reports/export", want: "csv"},
		{source: "export.xlsx", format: "csv", want: "csv"},
	}
	for _, tc := range cases {
		if got := InferFormat(tc.source, tc.format); got != tc.want {
			t.Fatalf("InferFormat(%q, %q) = %q, want %q", tc.source, tc.format, got, tc.want)
		}
	}
}

func TestRecordGet_NormalizesHeaders(t *testing.T) {
	t.Parallel()

	record := Record{Values: map[string]string{"zagadnienie": " 1201 "}}
	if got := record.Get("Zagadnienie"); got != "1201" {
		t.Fatalf("expected trimmed lookup to find value, got %q", got)
	}
	if got := record.Get("missing"); got != "" {
		t.Fatalf("expected empty value for missing column, got %q", got)
	}
	if !strings.Contains(normalizeHeader("Spent_On "), "spenton") {
		t.Fatalf("unexpected header normalization: %q", normalizeHeader("Spent_On "))
	}
}
