// Package records defines the in-memory tabular values passed between the
// pipeline stages. A Record is one row keyed by column name; a Table bundles
// rows with the source column order, which spreadsheet output depends on.
package records

import (
	"fmt"
	"strconv"
	"time"
)

// Record is a single row. Empty spreadsheet cells are stored as nil, not "",
// so that "no data" stays distinguishable from an empty string downstream.
type Record map[string]any

// Table is an ordered collection of rows. Columns preserves the order in
// which the columns appeared in the source artifact.
type Table struct {
	Columns []string
	Rows    []Record
}

// HasColumn reports whether name is one of the table's columns.
func (t Table) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// String converts common cell types to their textual form without incurring
// fmt.Sprint overhead; nil becomes "". Falls back to fmt.Sprint for
// uncommon types.
func String(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int:
		return strconv.Itoa(t)
	case int32:
		return strconv.FormatInt(int64(t), 10)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case bool:
		if t {
			return "true"
		}
		return "false"
	case time.Time:
		return t.Format("2006-01-02")
	default:
		return fmt.Sprint(t)
	}
}

// EmptyToNil converts an empty string to nil; all other values pass through.
func EmptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
