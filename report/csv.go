package report

import (
	"encoding/csv"
	"io"

	"github.com/gobeaver/archivekit"
)

func writeCSV(w io.Writer, records []archivekit.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}
	for _, row := range Rows(records) {
		if err := cw.Write([]string{row.File, row.Type, row.Result, row.Details}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
