package ingest

import (
	"fmt"
	"io"
	"path"
	"strings"

	"platecheck/pkg/records"
)

// Read parses a source stream, choosing the parser by the file name's
// extension. It returns the table, the count of soft-skipped rows (always
// zero for workbooks), and an error for unsupported formats.
func Read(name string, r io.Reader) (records.Table, int, error) {
	switch strings.ToLower(path.Ext(name)) {
	case ".xlsx", ".xlsm":
		t, err := ReadXLSX(r)
		return t, 0, err
	case ".csv":
		return ReadCSV(r)
	default:
		return records.Table{}, 0, fmt.Errorf("unsupported file type %q (want .xlsx, .xlsm, or .csv)", path.Ext(name))
	}
}
