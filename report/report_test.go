package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/gobeaver/archivekit"
	"github.com/gobeaver/archivekit/archivecheck"
)

func sampleRecords() []archivekit.Record {
	at := time.Date(2024, 3, 1, 12, 30, 45, 123456000, time.UTC)
	return []archivekit.Record{
		{
			Path:      "backups/a.zip",
			Format:    archivekit.FormatResult{Format: "zip", Valid: true, Entries: 3},
			Checksum:  &archivekit.ChecksumResult{Algorithm: archivekit.ChecksumSHA256, Expected: "abc", Actual: "abc", Valid: true},
			CheckedAt: at,
			Duration:  1500 * time.Microsecond,
		},
		{
			Path: "backups/b.tar",
			Format: archivekit.FormatResult{
				Format:  "tar",
				Failure: archivecheck.KindTruncated,
				Reason:  "missing end-of-archive marker",
			},
			Checksum:  &archivekit.ChecksumResult{Algorithm: archivekit.ChecksumMD5, Expected: "00", Actual: "ff", Reason: "checksum mismatch"},
			CheckedAt: at.Add(time.Second),
			Duration:  time.Millisecond,
		},
		{
			Path:      "backups/notes.txt",
			Format:    archivekit.FormatResult{Format: archivekit.FormatUnsupported},
			CheckedAt: at.Add(2 * time.Second),
		},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"json", FormatJSON, false},
		{"CSV", FormatCSV, false},
		{" html ", FormatHTML, false},
		{"", FormatJSON, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedFormat) {
					t.Fatalf("ParseFormat(%q) error = %v, want ErrUnsupportedFormat", tt.in, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseFormat(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestJSONReport_RoundTrip(t *testing.T) {
	records := sampleRecords()

	var buf bytes.Buffer
	if err := Write(&buf, records, FormatJSON); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := ReadJSON(&buf)
	if err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if !reflect.DeepEqual(got, records) {
		t.Errorf("round trip mismatch:\ngot  %+v\nwant %+v", got, records)
	}
}

func TestJSONReport_Shape(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRecords(), FormatJSON); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{`"file": "backups/a.zip"`, `"format": "unsupported"`, `"algorithm": "sha256"`, "\n    {"} {
		if !strings.Contains(out, want) {
			t.Errorf("JSON report missing %q", want)
		}
	}

	// the unsupported record has no validity flag and no checksum
	idx := strings.Index(out, `"backups/notes.txt"`)
	if strings.Contains(out[idx:], `"valid"`) || strings.Contains(out[idx:], `"checksum"`) {
		t.Error("unsupported record should carry neither valid nor checksum")
	}
}

func TestJSONReport_Empty(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, nil, FormatJSON); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty report = %q, want []", buf.String())
	}
}

func TestCSVReport(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, sampleRecords(), FormatCSV); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	rows, err := csv.NewReader(&buf).ReadAll()
	if err != nil {
		t.Fatalf("report is not valid CSV: %v", err)
	}

	want := [][]string{
		{"File", "Validation Type", "Result", "Details"},
		{"backups/a.zip", "zip_validation", "true", ""},
		{"backups/a.zip", "checksum_validation", "true", ""},
		{"backups/b.tar", "tar_validation", "false", ""},
		{"backups/b.tar", "checksum_validation", "false", ""},
		{"backups/notes.txt", "Overall Status", "Unsupported format", ""},
	}
	if !reflect.DeepEqual(rows, want) {
		t.Errorf("CSV rows = %v\nwant %v", rows, want)
	}
}

func TestHTMLReport(t *testing.T) {
	records := append(sampleRecords(), archivekit.Record{
		Path:   "<script>.zip",
		Format: archivekit.FormatResult{Format: "zip", Valid: true},
	})

	var buf bytes.Buffer
	if err := Write(&buf, records, FormatHTML); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"<th>File</th><th>Validation Type</th><th>Result</th><th>Details</th>",
		"<tr><td>backups/a.zip</td><td>zip_validation</td><td>true</td><td></td></tr>",
		"<tr><td>backups/notes.txt</td><td>Overall Status</td><td>Unsupported format</td><td></td></tr>",
		"&lt;script&gt;.zip",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("HTML report missing %q", want)
		}
	}
	if got := strings.Count(out, "<tr><td>"); got != 6 {
		t.Errorf("HTML report has %d data rows, want 6", got)
	}
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.csv")
	if err := WriteFile(path, sampleRecords(), FormatCSV); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "File,Validation Type,Result,Details\n") {
		t.Errorf("unexpected report content: %q", data)
	}

	if err := WriteFile(path, nil, Format("xml")); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("WriteFile(xml) error = %v, want ErrUnsupportedFormat", err)
	}
	if err := WriteFile(filepath.Join(t.TempDir(), "missing", "r.json"), nil, FormatJSON); err == nil {
		t.Error("WriteFile() into a missing directory should fail")
	}
}
