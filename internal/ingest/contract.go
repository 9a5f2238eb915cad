// Package ingest reads the registry and inspection source files into tables.
// It accepts XLSX and CSV and validates that a table carries the columns the
// engine needs. Header labels come through verbatim; cleaning them up is the
// normalize package's job.
package ingest

import (
	"fmt"
	"strings"

	"platecheck/pkg/records"
)

// Contract names the columns a source table must carry after header
// normalization. Name identifies the table in error messages.
type Contract struct {
	Name     string
	Required []string
}

// MissingColumnsError reports required columns absent from a parsed table.
// Detected carries the normalized headers actually found so the caller can
// show the user what the file looked like.
type MissingColumnsError struct {
	Source   string
	Missing  []string
	Detected []string
}

func (e *MissingColumnsError) Error() string {
	return fmt.Sprintf("%s: missing required columns [%s]; detected [%s]",
		e.Source, strings.Join(e.Missing, ", "), strings.Join(e.Detected, ", "))
}

// Validate checks the table against the contract. It returns a
// *MissingColumnsError listing every absent column, or nil when all required
// columns are present.
func Validate(t records.Table, c Contract) error {
	var missing []string
	for _, col := range c.Required {
		if !t.HasColumn(col) {
			missing = append(missing, col)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &MissingColumnsError{Source: c.Name, Missing: missing, Detected: t.Columns}
}
