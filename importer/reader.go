package importer

import (
	"fmt"
	"io"
	"net/url"
	"path"
	"path/filepath"
	"strings"
)

// Reader parses a source stream into raw records.
type Reader interface {
	Read(r io.Reader) ([]Record, error)
}

func ReaderForFormat(format string) (Reader, error) {
	switch normalizeHeader(format) {
	case "csv":
		return &CSVReader{}, nil
	case "excel", "xlsx", "xlsm", "xls":
		return &ExcelReader{}, nil
	default:
		return nil, fmt.Errorf("unsupported input format: %s", format)
	}
}

// InferFormat picks the reader format for a source, preferring an explicit
// format value over the source's extension. Sources without a recognized
// extension default to CSV.
func InferFormat(source, format string) string {
	if strings.TrimSpace(format) != "" {
		return format
	}

	name := source
	if isURL(source) {
		if parsed, err := url.Parse(source); err == nil {
			name = path.Base(parsed.Path)
		}
	}

	switch strings.ToLower(strings.TrimPrefix(filepath.Ext(name), ".")) {
	case "xlsx", "xlsm", "xls":
		return "excel"
	default:
		return "csv"
	}
}

func isURL(source string) bool {
	lowered := strings.ToLower(strings.TrimSpace(source))
	return strings.HasPrefix(lowered, "http://") || strings.HasPrefix(lowered, "https://")
}
