// Package classify maps raw inspection measurements onto the two label
// vocabularies the report uses: pass/fail compliance per sub-score, and the
// four-tier staleness "traffic light" derived from elapsed days.
package classify

import (
	"strconv"
	"strings"

	"platecheck/pkg/records"
)

// Compliance labels. Absence (no data) is a nil *string, which is a
// different thing from NonCompliant.
const (
	Compliant    = "Cumple"
	NonCompliant = "No Cumple"
)

// complianceThreshold is a fixed domain constant: a sub-score passes only at
// 100 or above.
const complianceThreshold = 100

// Compliance maps a raw score cell (number, percentage text such as "100%",
// or missing) to a label. Missing or unparseable values return nil: callers
// must treat that as "no data", not as a failure to comply.
func Compliance(v any) *string {
	var score float64
	switch t := v.(type) {
	case nil:
		return nil
	case float64:
		score = t
	case int:
		score = float64(t)
	case int64:
		score = float64(t)
	default:
		s := strings.TrimSpace(records.String(v))
		s = strings.TrimSpace(strings.TrimSuffix(s, "%"))
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil
		}
		score = f
	}

	label := NonCompliant
	if score >= complianceThreshold {
		label = Compliant
	}
	return &label
}
