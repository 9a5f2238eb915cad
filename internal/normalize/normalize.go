// Package normalize canonicalizes the two identifying inputs of the
// reconciliation pipeline: column headers and vehicle plates. Both source
// spreadsheets are hand-maintained, so headers arrive with non-breaking
// spaces and line breaks, and plates arrive with dashes, spaces, and mixed
// case. Normalization is what makes the registry and the inspection log
// joinable at all.
package normalize

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"platecheck/pkg/records"
)

// Header canonicalizes a single column label: Unicode is NFC-normalized,
// then every run of whitespace (including NBSP and line breaks) collapses to
// a single ASCII space, with leading/trailing whitespace removed. The label
// is never renamed semantically.
func Header(label string) string {
	return strings.Join(strings.Fields(norm.NFC.String(label)), " ")
}

// Headers returns a copy of the table with every column label passed through
// Header and row keys re-keyed to match. Values, row order, and column order
// are untouched. If two labels collapse to the same canonical name the later
// column wins, mirroring map semantics.
func Headers(t records.Table) records.Table {
	mapping := make(map[string]string, len(t.Columns))
	cols := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		n := Header(c)
		mapping[c] = n
		cols[i] = n
	}

	rows := make([]records.Record, len(t.Rows))
	for i, r := range t.Rows {
		nr := make(records.Record, len(r))
		for k, v := range r {
			key, ok := mapping[k]
			if !ok {
				key = Header(k)
			}
			nr[key] = v
		}
		rows[i] = nr
	}
	return records.Table{Columns: cols, Rows: rows}
}

// Plate canonicalizes an arbitrary scalar into a comparable plate key:
// missing values become "", everything else is uppercased and stripped of
// every character that is not an ASCII letter or digit. Two raw plates that
// collapse to the same key are the same vehicle on purpose.
//
// Plate is idempotent: Plate(Plate(x)) == Plate(x).
func Plate(v any) string {
	s := strings.ToUpper(records.String(v))
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
