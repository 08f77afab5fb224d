package report

import (
	"encoding/json"
	"io"

	"github.com/gobeaver/archivekit"
)

func writeJSON(w io.Writer, records []archivekit.Record) error {
	if records == nil {
		records = []archivekit.Record{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(records)
}

// ReadJSON decodes a JSON report
func ReadJSON(r io.Reader) ([]archivekit.Record, error) {
	var records []archivekit.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return nil, err
	}
	return records, nil
}
