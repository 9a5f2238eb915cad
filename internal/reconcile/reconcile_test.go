package reconcile

import (
	"testing"
	"time"

	"platecheck/internal/classify"
	"platecheck/pkg/records"
)

func inspTable(rows ...records.Record) records.Table {
	return records.Table{
		Columns: []string{"Fecha", "Patente del Vehículo", "Cumplimiento Exterior", "Cumplimiento Interior", "Cumplimiento Conductor"},
		Rows:    rows,
	}
}

func regTable(rows ...records.Record) records.Table {
	return records.Table{Columns: []string{"REG PLATE", "Marca"}, Rows: rows}
}

/*
TestLatestByKey_MostRecentWins verifies the selector: per non-empty key the
row with the maximum resolved date wins, equal dates keep the first
occurrence, and keyless or dateless rows are excluded from the domain.
*/
func TestLatestByKey_MostRecentWins(t *testing.T) {
	t.Parallel()

	insp := inspTable(
		records.Record{"Patente del Vehículo": "ab12", "Fecha": "01/01/2024", "Cumplimiento Exterior": "80"},
		records.Record{"Patente del Vehículo": "AB-12", "Fecha": "01/03/2024", "Cumplimiento Exterior": "100"},
		records.Record{"Patente del Vehículo": "AB12", "Fecha": "15/02/2024", "Cumplimiento Exterior": "90"},
		records.Record{"Patente del Vehículo": "", "Fecha": "01/03/2024"},
		records.Record{"Patente del Vehículo": "CD34", "Fecha": "not a date"},
	)

	got := LatestByKey(insp, "Patente del Vehículo", "Fecha")

	if len(got) != 1 {
		t.Fatalf("keys = %d, want 1 (empty and dateless rows excluded): %#v", len(got), got)
	}
	li, ok := got["AB12"]
	if !ok {
		t.Fatalf("missing key AB12: %#v", got)
	}
	want := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	if !li.Date.Equal(want) {
		t.Fatalf("latest date = %v, want %v", li.Date, want)
	}
	if li.Row["Cumplimiento Exterior"] != "100" {
		t.Fatalf("wrong winning row: %#v", li.Row)
	}
}

/*
TestLatestByKey_TieKeepsFirst verifies stable-sort semantics: with two rows
on the identical maximum date, the first-encountered row is retained.
*/
func TestLatestByKey_TieKeepsFirst(t *testing.T) {
	t.Parallel()

	insp := inspTable(
		records.Record{"Patente del Vehículo": "AB12", "Fecha": "01/03/2024", "Cumplimiento Exterior": "first"},
		records.Record{"Patente del Vehículo": "AB12", "Fecha": "01/03/2024", "Cumplimiento Exterior": "second"},
	)

	got := LatestByKey(insp, "Patente del Vehículo", "Fecha")
	if got["AB12"].Row["Cumplimiento Exterior"] != "first" {
		t.Fatalf("tie should keep first occurrence, got %#v", got["AB12"].Row)
	}
}

/*
TestRun_EndToEnd is the full scenario: one registry plate, one matching
inspection, reference date 2024-01-15, thresholds 7/30. Expect elapsed 14,
tier Alert, interior No Cumple, exterior and driver Cumple.
*/
func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	registry := regTable(records.Record{"REG PLATE": "AB-12", "Marca": "Toyota"})
	inspections := inspTable(records.Record{
		"Patente del Vehículo":   "ab12",
		"Fecha":                  "01/01/2024",
		"Cumplimiento Exterior":  100,
		"Cumplimiento Interior":  90,
		"Cumplimiento Conductor": 100,
	})

	rep := Run(registry, inspections, Options{
		Reference:  time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC),
		Thresholds: classify.Thresholds{GreenMax: 7, YellowMax: 30},
	})

	if len(rep.Rows) != 1 {
		t.Fatalf("rows = %d, want 1", len(rep.Rows))
	}
	row := rep.Rows[0]

	if row.Key != "AB12" || row.Plate != "AB-12" {
		t.Fatalf("plate/key = %q/%q, want AB-12/AB12", row.Plate, row.Key)
	}
	if !row.Inspected {
		t.Fatalf("inspected = false, want true")
	}
	wantDate := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if row.LastInspection == nil || !row.LastInspection.Equal(wantDate) {
		t.Fatalf("last inspection = %v, want %v", row.LastInspection, wantDate)
	}
	if row.ElapsedDays == nil || *row.ElapsedDays != 14 {
		t.Fatalf("elapsed = %v, want 14", row.ElapsedDays)
	}
	if row.Tier != classify.TierAlert {
		t.Fatalf("tier = %q, want %q", row.Tier, classify.TierAlert)
	}
	if row.Exterior == nil || *row.Exterior != classify.Compliant {
		t.Fatalf("exterior = %v, want Cumple", row.Exterior)
	}
	if row.Interior == nil || *row.Interior != classify.NonCompliant {
		t.Fatalf("interior = %v, want No Cumple", row.Interior)
	}
	if row.Driver == nil || *row.Driver != classify.Compliant {
		t.Fatalf("driver = %v, want Cumple", row.Driver)
	}

	if rep.Summary != (Summary{TotalPlates: 1, Inspected: 1, NeverInspected: 0}) {
		t.Fatalf("summary = %+v", rep.Summary)
	}
}

/*
TestRun_UnmatchedRegistryRow verifies the left-join edge: a registry plate
with no inspection keeps all derived fields absent, inspected=false, and the
no-inspection tier. Inspected, date, and elapsed are present or absent
together.
*/
func TestRun_UnmatchedRegistryRow(t *testing.T) {
	t.Parallel()

	rep := Run(
		regTable(records.Record{"REG PLATE": "ZZ99", "Marca": "Kia"}),
		inspTable(),
		Options{Reference: time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC), Thresholds: classify.Thresholds{GreenMax: 7, YellowMax: 30}},
	)

	row := rep.Rows[0]
	if row.Inspected || row.LastInspection != nil || row.ElapsedDays != nil {
		t.Fatalf("unmatched row has derived data: %+v", row)
	}
	if row.Exterior != nil || row.Interior != nil || row.Driver != nil {
		t.Fatalf("unmatched row has compliance labels: %+v", row)
	}
	if row.Tier != classify.TierNone {
		t.Fatalf("tier = %q, want %q", row.Tier, classify.TierNone)
	}
	if rep.Summary != (Summary{TotalPlates: 1, Inspected: 0, NeverInspected: 1}) {
		t.Fatalf("summary = %+v", rep.Summary)
	}
}

/*
TestRun_DuplicatePlatesShareJoin verifies that duplicate registry plates are
preserved as separate rows (not de-duplicated) and each receives the same
joined inspection data.
*/
func TestRun_DuplicatePlatesShareJoin(t *testing.T) {
	t.Parallel()

	registry := regTable(
		records.Record{"REG PLATE": "AB12", "Marca": "Toyota"},
		records.Record{"REG PLATE": "ab-12", "Marca": "Toyota (dup)"},
	)
	inspections := inspTable(records.Record{
		"Patente del Vehículo": "AB12", "Fecha": "01/01/2024", "Cumplimiento Exterior": "100%",
	})

	rep := Run(registry, inspections, Options{
		Reference:  time.Date(2024, 1, 5, 0, 0, 0, 0, time.UTC),
		Thresholds: classify.Thresholds{GreenMax: 7, YellowMax: 30},
	})

	if len(rep.Rows) != 2 {
		t.Fatalf("rows = %d, want duplicates preserved", len(rep.Rows))
	}
	for i, row := range rep.Rows {
		if !row.Inspected || row.ElapsedDays == nil || *row.ElapsedDays != 4 {
			t.Fatalf("row %d: %+v, want inspected with elapsed 4", i, row)
		}
	}
}

/*
TestFilter_Apply exercises the four filter axes and their interactions,
including the both-checkboxes-cancel rule and plate-query normalization.
*/
func TestFilter_Apply(t *testing.T) {
	t.Parallel()

	four := 4
	rows := []ReportRow{
		{Key: "AB12", Inspected: true, Tier: classify.TierOK, ElapsedDays: &four},
		{Key: "CD34", Inspected: false, Tier: classify.TierNone},
		{Key: "AB99", Inspected: true, Tier: classify.TierCritical, ElapsedDays: &four},
	}

	tests := []struct {
		name     string
		filter   Filter
		wantKeys []string
	}{
		{name: "none", filter: Filter{}, wantKeys: []string{"AB12", "CD34", "AB99"}},
		{name: "only_inspected", filter: Filter{OnlyInspected: true}, wantKeys: []string{"AB12", "AB99"}},
		{name: "only_never", filter: Filter{OnlyNever: true}, wantKeys: []string{"CD34"}},
		{name: "both_cancel", filter: Filter{OnlyInspected: true, OnlyNever: true}, wantKeys: []string{"AB12", "CD34", "AB99"}},
		{name: "tier_exact", filter: Filter{Tier: classify.TierCritical}, wantKeys: []string{"AB99"}},
		{name: "plate_substring", filter: Filter{PlateQuery: "ab"}, wantKeys: []string{"AB12", "AB99"}},
		{name: "plate_normalized_query", filter: Filter{PlateQuery: " ab-12 "}, wantKeys: []string{"AB12"}},
		{name: "combined", filter: Filter{OnlyInspected: true, PlateQuery: "99"}, wantKeys: []string{"AB99"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := tt.filter.Apply(rows)
			keys := make([]string, len(got))
			for i, r := range got {
				keys[i] = r.Key
			}
			if len(keys) != len(tt.wantKeys) {
				t.Fatalf("keys = %v, want %v", keys, tt.wantKeys)
			}
			for i := range keys {
				if keys[i] != tt.wantKeys[i] {
					t.Fatalf("keys = %v, want %v", keys, tt.wantKeys)
				}
			}
		})
	}
}

/*
TestReport_Table verifies the export projection: column order is plate,
passthrough, derived; absent values stay nil; dates render as ISO strings.
*/
func TestReport_Table(t *testing.T) {
	t.Parallel()

	registry := regTable(
		records.Record{"REG PLATE": "AB12", "Marca": "Toyota"},
		records.Record{"REG PLATE": "ZZ99", "Marca": "Kia"},
	)
	inspections := inspTable(records.Record{
		"Patente del Vehículo": "AB12", "Fecha": "01/01/2024", "Cumplimiento Exterior": "100",
	})
	rep := Run(registry, inspections, Options{
		Reference:  time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC),
		Thresholds: classify.Thresholds{GreenMax: 7, YellowMax: 30},
	})

	table := rep.Table(rep.Rows)

	wantCols := append([]string{"REG PLATE", "Marca"}, DerivedColumns...)
	if len(table.Columns) != len(wantCols) {
		t.Fatalf("columns = %v, want %v", table.Columns, wantCols)
	}
	for i := range wantCols {
		if table.Columns[i] != wantCols[i] {
			t.Fatalf("columns = %v, want %v", table.Columns, wantCols)
		}
	}

	first := table.Rows[0]
	if first[ColLastInspection] != "2024-01-01" {
		t.Fatalf("last inspection cell = %v, want 2024-01-01", first[ColLastInspection])
	}
	if first[ColDaysSince] != 14 {
		t.Fatalf("days cell = %v, want 14", first[ColDaysSince])
	}
	if first[ColInspected] != true {
		t.Fatalf("inspected cell = %v, want true", first[ColInspected])
	}

	second := table.Rows[1]
	if second[ColLastInspection] != nil || second[ColDaysSince] != nil || second[ColExterior] != nil {
		t.Fatalf("unmatched row should keep absent cells nil: %#v", second)
	}
	if second[ColStatus] != classify.TierNone {
		t.Fatalf("status cell = %v, want %q", second[ColStatus], classify.TierNone)
	}
}
