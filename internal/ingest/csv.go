package ingest

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"

	"platecheck/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// logSkipLimit caps per-row skip logging so a badly mangled file cannot
// flood the log.
const logSkipLimit = 400

// ReadCSV parses a comma-separated stream into a table. The first row
// supplies the headers. Rows whose field count differs from the header are
// skipped (soft-fail) and counted rather than aborting the whole read; the
// skipped count comes back to the caller for surfacing.
func ReadCSV(r io.Reader) (records.Table, int, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	h, err := cr.Read()
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("read csv header: %w", err)
	}
	headers := make([]string, len(h))
	for i, col := range h {
		if i == 0 {
			col = strings.TrimPrefix(col, utf8BOM)
		}
		headers[i] = col
	}

	out := records.Table{Columns: headers}
	var skipped int
	for line := 1; ; line++ {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipped < logSkipLimit {
				log.Printf("Skipping row %d: %v", line, err)
			}
			skipped++
			continue
		}
		if len(row) != len(headers) {
			if skipped < logSkipLimit {
				log.Printf("Skipping row %d: incorrect number of fields (expected %d, got %d)", line, len(headers), len(row))
			}
			skipped++
			continue
		}

		rec := make(records.Record, len(row))
		for i, val := range row {
			rec[headers[i]] = records.EmptyToNil(strings.TrimSpace(val))
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, skipped, nil
}
