package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"platecheck/internal/classify"
	"platecheck/internal/config"
	"platecheck/internal/fetch"
	"platecheck/internal/ingest"
	"platecheck/internal/normalize"
	"platecheck/internal/reconcile"
	"platecheck/internal/report"
	"platecheck/pkg/records"
)

// main is the entry point for the platecheck CLI. It reads the registry and
// inspection sources (local files or URLs), runs the reconciliation, and
// writes the styled workbook or a JSON report.
func main() {
	cfg, err := config.Load()
	if err != nil {
		fatalf("%v", err)
	}

	var (
		registrySrc    string
		inspectionsSrc string
		outPath        string
		asJSON         bool
		referenceStr   string
		greenMax       int
		yellowMax      int
		tier           string
		plate          string
		onlyInspected  bool
		onlyNever      bool
	)

	flag.StringVar(&registrySrc, "registry", cfg.RegistryURL, "registry source: .xlsx/.csv path or URL")
	flag.StringVar(&inspectionsSrc, "inspections", cfg.InspectionsURL, "inspection log source: .xlsx/.csv path or URL")
	flag.StringVar(&outPath, "out", "platecheck.xlsx", "output workbook path")
	flag.BoolVar(&asJSON, "json", false, "write the report as JSON to stdout instead of a workbook")
	flag.StringVar(&referenceStr, "reference", "", "reference date YYYY-MM-DD (default today)")
	flag.IntVar(&greenMax, "green-max", cfg.GreenMaxDays, "max elapsed days still rated OK")
	flag.IntVar(&yellowMax, "yellow-max", cfg.YellowMaxDays, "max elapsed days still rated Alert")
	flag.StringVar(&tier, "tier", "", "only rows with this status tier")
	flag.StringVar(&plate, "plate", "", "only rows whose plate key contains this text")
	flag.BoolVar(&onlyInspected, "only-inspected", false, "only rows with an inspection on record")
	flag.BoolVar(&onlyNever, "only-never", false, "only rows with no inspection on record")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	if registrySrc == "" || inspectionsSrc == "" {
		fatalf("both -registry and -inspections are required (or set PLATECHECK_REGISTRY_URL / PLATECHECK_INSPECTIONS_URL)")
	}

	reference := time.Now().UTC()
	if referenceStr != "" {
		reference, err = time.Parse("2006-01-02", referenceStr)
		if err != nil {
			fatalf("invalid -reference %q (want YYYY-MM-DD)", referenceStr)
		}
	}

	if tier != "" && !classify.ValidTier(tier) {
		fatalf("invalid -tier %q (want one of: %s)", tier, strings.Join(classify.Tiers, ", "))
	}

	thresholds, clamped := classify.Thresholds{GreenMax: greenMax, YellowMax: yellowMax}.Clamp()
	if clamped {
		log.Printf("thresholds inverted; using green_max=%d yellow_max=%d", thresholds.GreenMax, thresholds.YellowMax)
	}

	ctx := context.Background()
	start := time.Now()

	client := fetch.NewClient(fetch.Config{
		Timeout:            cfg.FetchTimeout,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	})

	registry, regSkipped, err := readSource(ctx, client, registrySrc)
	if err != nil {
		fatalf("registry: %v", err)
	}
	inspections, inspSkipped, err := readSource(ctx, client, inspectionsSrc)
	if err != nil {
		fatalf("inspections: %v", err)
	}
	if skipped := regSkipped + inspSkipped; skipped > 0 {
		log.Printf("skipped %d malformed source rows", skipped)
	}

	registry = normalize.Headers(registry)
	inspections = normalize.Headers(inspections)

	cols := reconcile.DefaultColumns()
	for _, check := range []struct {
		table    records.Table
		contract ingest.Contract
	}{
		{registry, ingest.Contract{Name: "registry", Required: []string{cols.RegistryPlate}}},
		{inspections, ingest.Contract{Name: "inspections", Required: []string{
			cols.InspectionDate, cols.InspectionPlate, cols.Exterior, cols.Interior, cols.Driver,
		}}},
	} {
		if err := ingest.Validate(check.table, check.contract); err != nil {
			var mce *ingest.MissingColumnsError
			if errors.As(err, &mce) {
				fatalf("%s is missing columns [%s]; found [%s]",
					mce.Source, strings.Join(mce.Missing, ", "), strings.Join(mce.Detected, ", "))
			}
			fatalf("%v", err)
		}
	}

	rep := reconcile.Run(registry, inspections, reconcile.Options{
		Columns:    cols,
		Reference:  reference,
		Thresholds: thresholds,
	})
	rows := reconcile.Filter{
		OnlyInspected: onlyInspected,
		OnlyNever:     onlyNever,
		Tier:          tier,
		PlateQuery:    plate,
	}.Apply(rep.Rows)

	if *verbose {
		log.Printf("plates=%d inspected=%d never=%d rows_out=%d",
			rep.Summary.TotalPlates, rep.Summary.Inspected, rep.Summary.NeverInspected, len(rows))
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(map[string]any{
			"reference":  rep.Reference.Format("2006-01-02"),
			"thresholds": rep.Thresholds,
			"summary":    rep.Summary,
			"rows":       rows,
		}); err != nil {
			fatalf("encode report: %v", err)
		}
		return
	}

	data, err := report.XLSX(rep.Table(rows))
	if err != nil {
		fatalf("build workbook: %v", err)
	}
	if err := os.WriteFile(outPath, data, 0o644); err != nil {
		fatalf("write %s: %v", outPath, err)
	}
	log.Printf("wrote %s (%d rows, digest %s)", outPath, len(rows), report.Digest(data))

	if *verbose {
		log.Printf("completed in %s", time.Since(start).Truncate(time.Millisecond))
	}
}

// readSource reads a table from a local path or, for http(s) sources, over
// the network.
func readSource(ctx context.Context, client *fetch.Client, src string) (records.Table, int, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return client.Table(ctx, src)
	}
	f, err := os.Open(src)
	if err != nil {
		return records.Table{}, 0, err
	}
	defer f.Close()
	return ingest.Read(src, f)
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
