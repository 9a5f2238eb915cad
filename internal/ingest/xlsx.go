package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"platecheck/pkg/records"
)

// ReadXLSX parses the first worksheet of an XLSX stream into a table. The
// first row supplies the headers verbatim; label cleanup is the caller's
// normalization pass. Rows shorter than the header are padded with absent
// cells, and cells beyond the header width are dropped. Cell values arrive
// as the display strings excelize produces, which keeps spreadsheet serial
// dates parseable downstream.
func ReadXLSX(r io.Reader) (records.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return records.Table{}, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return records.Table{}, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return records.Table{}, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return records.Table{}, fmt.Errorf("sheet %q is empty", sheet)
	}

	headers := append([]string(nil), rows[0]...)

	out := records.Table{Columns: headers}
	for _, row := range rows[1:] {
		rec := make(records.Record, len(headers))
		for i, col := range headers {
			if i < len(row) {
				rec[col] = records.EmptyToNil(row[i])
			} else {
				rec[col] = nil
			}
		}
		out.Rows = append(out.Rows, rec)
	}
	return out, nil
}
