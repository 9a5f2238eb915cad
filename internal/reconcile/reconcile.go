// Package reconcile joins the vehicle registry against the inspection log by
// normalized plate key and derives the per-vehicle report: latest inspection
// date, elapsed days, compliance labels, and staleness tier. Every run is a
// pure recomputation from the two input tables plus explicit parameters;
// nothing is shared across invocations.
package reconcile

import (
	"time"

	"platecheck/internal/classify"
	"platecheck/internal/dateparse"
	"platecheck/internal/normalize"
	"platecheck/pkg/records"
)

// Columns names the identifying columns of the two source tables, after
// header normalization. Defaults match the fleet exports this service was
// built for; callers with differently labeled sheets can override.
type Columns struct {
	RegistryPlate   string
	InspectionPlate string
	InspectionDate  string
	Exterior        string
	Interior        string
	Driver          string
}

// DefaultColumns returns the column labels used by the production exports.
func DefaultColumns() Columns {
	return Columns{
		RegistryPlate:   "REG PLATE",
		InspectionPlate: "Patente del Vehículo",
		InspectionDate:  "Fecha",
		Exterior:        "Cumplimiento Exterior",
		Interior:        "Cumplimiento Interior",
		Driver:          "Cumplimiento Conductor",
	}
}

// Options parameterizes one engine run. Reference is the "today" used for
// elapsed-day computation; it is normalized to midnight internally so that
// results are stable for a whole calendar day. Thresholds must already be
// clamped (see classify.Thresholds.Clamp).
type Options struct {
	Columns    Columns
	Reference  time.Time
	Thresholds classify.Thresholds
}

// ReportRow is one registry vehicle with its derived inspection state.
// Nullable fields are pointers: a nil label means "no data", which is not
// the same as NonCompliant, and a nil elapsed is not zero days. Invariant:
// Inspected is true exactly when LastInspection and ElapsedDays are non-nil.
type ReportRow struct {
	Plate          string         `json:"plate"`
	Key            string         `json:"key"`
	Tier           string         `json:"tier"`
	LastInspection *time.Time     `json:"last_inspection,omitempty"`
	ElapsedDays    *int           `json:"elapsed_days,omitempty"`
	Exterior       *string        `json:"exterior,omitempty"`
	Interior       *string        `json:"interior,omitempty"`
	Driver         *string        `json:"driver,omitempty"`
	Inspected      bool           `json:"inspected"`
	Base           records.Record `json:"base,omitempty"`
}

// Summary carries the headline counts shown above the report table.
type Summary struct {
	TotalPlates    int `json:"total_plates"`
	Inspected      int `json:"inspected"`
	NeverInspected int `json:"never_inspected"`
}

// Report is the result of one engine run.
type Report struct {
	Rows        []ReportRow
	PlateColumn string
	BaseColumns []string
	Summary     Summary
	Thresholds  classify.Thresholds
	Reference   time.Time
}

// LatestInspection is the chronologically newest inspection row for one key.
type LatestInspection struct {
	Key  string
	Date time.Time
	Row  records.Record
}

// LatestByKey reduces the inspection table to at most one row per non-empty
// normalized key: the row with the maximum resolved date. Rows whose plate
// normalizes to "" or whose date is unresolvable are excluded entirely; they
// neither form groups nor win. Ties on equal dates keep the row seen first
// in input order.
func LatestByKey(inspections records.Table, plateCol, dateCol string) map[string]LatestInspection {
	out := make(map[string]LatestInspection)
	for _, row := range inspections.Rows {
		key := normalize.Plate(row[plateCol])
		if key == "" {
			continue
		}
		date, ok := dateparse.Resolve(row[dateCol])
		if !ok {
			continue
		}
		prev, seen := out[key]
		if !seen || date.After(prev.Date) {
			out[key] = LatestInspection{Key: key, Date: date, Row: row}
		}
	}
	return out
}

// Run left-joins every registry row against the latest inspection for its
// key and derives the report fields. Duplicate registry plates each receive
// the same joined data; unmatched rows carry nil derived fields and the
// no-inspection tier.
func Run(registry, inspections records.Table, opt Options) Report {
	if opt.Columns == (Columns{}) {
		opt.Columns = DefaultColumns()
	}
	ref := midnight(opt.Reference)

	latest := LatestByKey(inspections, opt.Columns.InspectionPlate, opt.Columns.InspectionDate)

	rows := make([]ReportRow, 0, len(registry.Rows))
	var summary Summary
	for _, reg := range registry.Rows {
		raw := reg[opt.Columns.RegistryPlate]
		row := ReportRow{
			Plate: records.String(raw),
			Key:   normalize.Plate(raw),
			Base:  reg,
		}
		if raw != nil {
			summary.TotalPlates++
		}

		if li, ok := latest[row.Key]; ok && row.Key != "" {
			date := li.Date
			elapsed := int(ref.Sub(midnight(date)).Hours() / 24)
			row.LastInspection = &date
			row.ElapsedDays = &elapsed
			row.Inspected = true
			row.Exterior = classify.Compliance(li.Row[opt.Columns.Exterior])
			row.Interior = classify.Compliance(li.Row[opt.Columns.Interior])
			row.Driver = classify.Compliance(li.Row[opt.Columns.Driver])
			summary.Inspected++
		}
		row.Tier = classify.Staleness(row.ElapsedDays, opt.Thresholds)
		rows = append(rows, row)
	}
	summary.NeverInspected = summary.TotalPlates - summary.Inspected

	return Report{
		Rows:        rows,
		PlateColumn: opt.Columns.RegistryPlate,
		BaseColumns: baseColumns(registry, opt.Columns.RegistryPlate),
		Summary:     summary,
		Thresholds:  opt.Thresholds,
		Reference:   ref,
	}
}

// baseColumns lists the registry's descriptive passthrough columns in source
// order, excluding the plate column itself.
func baseColumns(registry records.Table, plateCol string) []string {
	out := make([]string, 0, len(registry.Columns))
	for _, c := range registry.Columns {
		if c != plateCol {
			out = append(out, c)
		}
	}
	return out
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
