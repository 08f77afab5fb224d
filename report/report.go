// Package report renders validation records as JSON, CSV or HTML.
package report

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/gobeaver/archivekit"
)

// Format is a report output format
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

// ErrUnsupportedFormat is returned for an unknown report format
var ErrUnsupportedFormat = errors.New("unsupported report format")

// Formats returns the supported report formats
func Formats() []Format {
	return []Format{FormatJSON, FormatCSV, FormatHTML}
}

// ParseFormat resolves a format name, ignoring case
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV, FormatHTML:
		return f, nil
	case "":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, s)
	}
}

// Write renders records to w in the given format
func Write(w io.Writer, records []archivekit.Record, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, records)
	case FormatCSV:
		return writeCSV(w, records)
	case FormatHTML:
		return writeHTML(w, records)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

// WriteFile renders records into the file at path, replacing it
func WriteFile(path string, records []archivekit.Record, format Format) error {
	if _, err := ParseFormat(string(format)); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report: %w", err)
	}
	if err := Write(f, records, format); err != nil {
		f.Close()
		return fmt.Errorf("failed to write %s report: %w", format, err)
	}
	return f.Close()
}

// Row is one line of a tabular report
type Row struct {
	File    string
	Type    string
	Result  string
	Details string
}

// Header is the column header of tabular reports
var Header = []string{"File", "Validation Type", "Result", "Details"}

// Rows flattens records into table rows: one per format result and one
// per checksum result. Unsupported files get a single "Overall Status" row.
func Rows(records []archivekit.Record) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		if !rec.Supported() {
			rows = append(rows, Row{File: rec.Path, Type: "Overall Status", Result: "Unsupported format"})
			continue
		}
		rows = append(rows, Row{
			File:   rec.Path,
			Type:   rec.Format.Format + "_validation",
			Result: strconv.FormatBool(rec.Format.Valid),
		})
		if rec.Checksum != nil {
			rows = append(rows, Row{
				File:   rec.Path,
				Type:   "checksum_validation",
				Result: strconv.FormatBool(rec.Checksum.Valid),
			})
		}
	}
	return rows
}
