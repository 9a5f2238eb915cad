package web

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"platecheck/internal/classify"
	"platecheck/internal/ingest"
	"platecheck/internal/normalize"
	"platecheck/internal/reconcile"
	"platecheck/internal/report"
	"platecheck/pkg/records"
)

const contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// reportInput is everything one report run needs, assembled from the request.
type reportInput struct {
	registry    records.Table
	inspections records.Table
	skipped     int
	options     reconcile.Options
	filter      reconcile.Filter
	clamped     bool
}

// handleReportJSON runs the engine and returns the report as JSON.
// GET|POST /api/report
func (s *Server) handleReportJSON(c *gin.Context) {
	in, ok := s.buildInput(c)
	if !ok {
		return
	}

	rep := reconcile.Run(in.registry, in.inspections, in.options)
	rows := in.filter.Apply(rep.Rows)

	c.JSON(http.StatusOK, gin.H{
		"reference":          rep.Reference.Format("2006-01-02"),
		"thresholds":         rep.Thresholds,
		"thresholds_clamped": in.clamped,
		"summary":            rep.Summary,
		"skipped_rows":       in.skipped,
		"count":              len(rows),
		"rows":               rows,
	})
}

// handleReportXLSX runs the engine and returns the styled workbook.
// GET|POST /api/report.xlsx
func (s *Server) handleReportXLSX(c *gin.Context) {
	in, ok := s.buildInput(c)
	if !ok {
		return
	}

	rep := reconcile.Run(in.registry, in.inspections, in.options)
	rows := in.filter.Apply(rep.Rows)

	data, err := report.XLSX(rep.Table(rows))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	filename := fmt.Sprintf("platecheck_%s.xlsx", rep.Reference.Format("2006-01-02"))
	c.Header("ETag", `"`+report.Digest(data)+`"`)
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentTypeXLSX, data)
}

// buildInput assembles the two source tables and run parameters from the
// request. On failure it writes the error response and returns ok=false.
func (s *Server) buildInput(c *gin.Context) (reportInput, bool) {
	var in reportInput

	opts, filter, clamped, err := s.parseParams(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return in, false
	}
	in.options = opts
	in.filter = filter
	in.clamped = clamped

	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		in.registry, in.inspections, in.skipped, err = s.uploadedTables(c)
	} else {
		in.registry, in.inspections, in.skipped, err = s.remoteTables(c.Request.Context())
	}
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return in, false
	}

	in.registry = normalize.Headers(in.registry)
	in.inspections = normalize.Headers(in.inspections)

	cols := in.options.Columns
	for _, check := range []struct {
		table    records.Table
		contract ingest.Contract
	}{
		{in.registry, ingest.Contract{Name: "registry", Required: []string{cols.RegistryPlate}}},
		{in.inspections, ingest.Contract{Name: "inspections", Required: []string{
			cols.InspectionDate, cols.InspectionPlate, cols.Exterior, cols.Interior, cols.Driver,
		}}},
	} {
		if err := ingest.Validate(check.table, check.contract); err != nil {
			var mce *ingest.MissingColumnsError
			if errors.As(err, &mce) {
				c.JSON(http.StatusUnprocessableEntity, gin.H{
					"error":    "missing required columns",
					"source":   mce.Source,
					"missing":  mce.Missing,
					"detected": mce.Detected,
				})
			} else {
				c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			}
			return in, false
		}
	}

	return in, true
}

// uploadedTables reads the two multipart source files. Both parts are
// required; each is size-capped by the configured upload limit.
func (s *Server) uploadedTables(c *gin.Context) (registry, inspections records.Table, skipped int, err error) {
	read := func(field string) (records.Table, int, error) {
		fh, err := c.FormFile(field)
		if err != nil {
			return records.Table{}, 0, fmt.Errorf("missing %q file: %w", field, err)
		}
		if fh.Size > s.cfg.MaxUploadBytes {
			return records.Table{}, 0, fmt.Errorf("%q exceeds the %d byte upload limit", field, s.cfg.MaxUploadBytes)
		}
		return readUpload(fh)
	}

	registry, regSkipped, err := read("registry")
	if err != nil {
		return records.Table{}, records.Table{}, 0, err
	}
	inspections, inspSkipped, err := read("inspections")
	if err != nil {
		return records.Table{}, records.Table{}, 0, err
	}
	return registry, inspections, regSkipped + inspSkipped, nil
}

func readUpload(fh *multipart.FileHeader) (records.Table, int, error) {
	f, err := fh.Open()
	if err != nil {
		return records.Table{}, 0, fmt.Errorf("open %q: %w", fh.Filename, err)
	}
	defer f.Close()
	return ingest.Read(fh.Filename, f)
}

// remoteTables downloads the configured source URLs.
func (s *Server) remoteTables(ctx context.Context) (registry, inspections records.Table, skipped int, err error) {
	if s.cfg.RegistryURL == "" || s.cfg.InspectionsURL == "" {
		return records.Table{}, records.Table{}, 0,
			fmt.Errorf("no files uploaded and no source URLs configured")
	}
	return s.fetcher.Pair(ctx, s.cfg.RegistryURL, s.cfg.InspectionsURL)
}

// parseParams reads thresholds, reference date, and row filters from the
// query string, falling back to configured defaults.
func (s *Server) parseParams(c *gin.Context) (reconcile.Options, reconcile.Filter, bool, error) {
	opts := reconcile.Options{
		Columns:   reconcile.DefaultColumns(),
		Reference: time.Now().UTC(),
	}
	thresholds := classify.Thresholds{GreenMax: s.cfg.GreenMaxDays, YellowMax: s.cfg.YellowMaxDays}

	if v := c.Query("green_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, reconcile.Filter{}, false, fmt.Errorf("invalid green_max %q", v)
		}
		thresholds.GreenMax = n
	}
	if v := c.Query("yellow_max"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return opts, reconcile.Filter{}, false, fmt.Errorf("invalid yellow_max %q", v)
		}
		thresholds.YellowMax = n
	}
	thresholds, clamped := thresholds.Clamp()
	opts.Thresholds = thresholds

	if v := c.Query("reference"); v != "" {
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return opts, reconcile.Filter{}, false, fmt.Errorf("invalid reference date %q (want YYYY-MM-DD)", v)
		}
		opts.Reference = t
	}

	var filter reconcile.Filter
	if v := c.Query("only_inspected"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, filter, false, fmt.Errorf("invalid only_inspected %q", v)
		}
		filter.OnlyInspected = b
	}
	if v := c.Query("only_never"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, filter, false, fmt.Errorf("invalid only_never %q", v)
		}
		filter.OnlyNever = b
	}
	if v := c.Query("tier"); v != "" {
		if !classify.ValidTier(v) {
			return opts, filter, false, fmt.Errorf("invalid tier %q", v)
		}
		filter.Tier = v
	}
	filter.PlateQuery = c.Query("plate")

	return opts, filter, clamped, nil
}
