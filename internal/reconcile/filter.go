package reconcile

import (
	"strings"

	"platecheck/internal/normalize"
)

// Filter is a read-only projection over report rows. Zero value means "no
// filtering". Setting both OnlyInspected and OnlyNever cancels the pair out,
// matching the checkbox behavior of the dashboard this replaced.
type Filter struct {
	OnlyInspected bool   `json:"only_inspected"`
	OnlyNever     bool   `json:"only_never"`
	Tier          string `json:"tier"`
	PlateQuery    string `json:"plate_query"`
}

// Apply returns the rows matching the filter, preserving order. The plate
// query is itself plate-normalized before the substring match, so "ab-12"
// finds "AB12".
func (f Filter) Apply(rows []ReportRow) []ReportRow {
	query := normalize.Plate(f.PlateQuery)

	out := make([]ReportRow, 0, len(rows))
	for _, r := range rows {
		if f.OnlyInspected && !f.OnlyNever && !r.Inspected {
			continue
		}
		if f.OnlyNever && !f.OnlyInspected && r.Inspected {
			continue
		}
		if f.Tier != "" && r.Tier != f.Tier {
			continue
		}
		if query != "" && !strings.Contains(r.Key, query) {
			continue
		}
		out = append(out, r)
	}
	return out
}
