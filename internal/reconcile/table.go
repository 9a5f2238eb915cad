package reconcile

import (
	"platecheck/pkg/records"
)

// Derived output column labels. The plate column keeps its source label so
// the report reads like the registry it came from.
const (
	ColStatus         = "Status"
	ColLastInspection = "Last Inspection"
	ColDaysSince      = "Days Since Inspection"
	ColExterior       = "Exterior Compliance"
	ColInterior       = "Interior Compliance"
	ColDriver         = "Driver Compliance"
	ColInspected      = "Inspected"
)

// DerivedColumns lists the engine-computed output columns in display order.
var DerivedColumns = []string{
	ColStatus,
	ColLastInspection,
	ColDaysSince,
	ColExterior,
	ColInterior,
	ColDriver,
	ColInspected,
}

// Table projects the given report rows into a flat records.Table suitable
// for export: plate first, then the registry's passthrough columns, then the
// derived columns. Absent values stay nil so the exporter leaves those cells
// empty. Dates are rendered as ISO day strings; presentation styling is the
// exporter's business, not this projection's.
func (r Report) Table(rows []ReportRow) records.Table {
	cols := make([]string, 0, 1+len(r.BaseColumns)+len(DerivedColumns))
	cols = append(cols, r.PlateColumn)
	cols = append(cols, r.BaseColumns...)
	cols = append(cols, DerivedColumns...)

	out := records.Table{Columns: cols}
	for _, row := range rows {
		rec := make(records.Record, len(cols))
		rec[r.PlateColumn] = row.Base[r.PlateColumn]
		for _, c := range r.BaseColumns {
			rec[c] = row.Base[c]
		}
		rec[ColStatus] = row.Tier
		if row.LastInspection != nil {
			rec[ColLastInspection] = row.LastInspection.Format("2006-01-02")
		}
		if row.ElapsedDays != nil {
			rec[ColDaysSince] = *row.ElapsedDays
		}
		if row.Exterior != nil {
			rec[ColExterior] = *row.Exterior
		}
		if row.Interior != nil {
			rec[ColInterior] = *row.Interior
		}
		if row.Driver != nil {
			rec[ColDriver] = *row.Driver
		}
		rec[ColInspected] = row.Inspected
		out.Rows = append(out.Rows, rec)
	}
	return out
}
