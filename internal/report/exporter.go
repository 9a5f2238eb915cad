// Package report renders a finished reconciliation into its delivery
// artifacts: a styled XLSX workbook and a content digest for caching.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/zeebo/xxh3"

	"platecheck/internal/reconcile"
	"platecheck/pkg/records"
)

// SheetName is the single worksheet every exported workbook carries.
const SheetName = "resultado"

const (
	minColWidth = 14
	maxColWidth = 40
)

// XLSX renders the table into a styled workbook: purple header band, frozen
// header row, width-fitted columns, and colored fonts on the status and
// compliance columns. An empty table still produces a header-only sheet.
func XLSX(table records.Table) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: headerFontColor},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFillColor}},
	})
	if err != nil {
		return nil, fmt.Errorf("header style: %w", err)
	}

	for i, col := range table.Columns {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, fmt.Errorf("header cell %d: %w", i, err)
		}
		if err := f.SetCellValue(SheetName, cell, col); err != nil {
			return nil, fmt.Errorf("header cell %s: %w", cell, err)
		}
		if err := f.SetCellStyle(SheetName, cell, cell, headerStyle); err != nil {
			return nil, fmt.Errorf("header style %s: %w", cell, err)
		}

		name, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return nil, fmt.Errorf("column name %d: %w", i, err)
		}
		if err := f.SetColWidth(SheetName, name, name, colWidth(col)); err != nil {
			return nil, fmt.Errorf("column width %s: %w", name, err)
		}
	}

	fontStyles := make(map[string]int)
	fontStyle := func(color string) (int, error) {
		if id, ok := fontStyles[color]; ok {
			return id, nil
		}
		id, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Color: color}})
		if err != nil {
			return 0, err
		}
		fontStyles[color] = id
		return id, nil
	}

	for ri, row := range table.Rows {
		for ci, col := range table.Columns {
			v, ok := row[col]
			if !ok || v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return nil, fmt.Errorf("cell %d,%d: %w", ci, ri, err)
			}
			if err := f.SetCellValue(SheetName, cell, v); err != nil {
				return nil, fmt.Errorf("cell %s: %w", cell, err)
			}

			color, styled := cellColor(col, v)
			if !styled {
				continue
			}
			id, err := fontStyle(color)
			if err != nil {
				return nil, fmt.Errorf("font style %s: %w", color, err)
			}
			if err := f.SetCellStyle(SheetName, cell, cell, id); err != nil {
				return nil, fmt.Errorf("cell style %s: %w", cell, err)
			}
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return nil, fmt.Errorf("freeze header: %w", err)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// cellColor decides whether a cell gets a colored font and which color.
func cellColor(col string, v any) (string, bool) {
	switch col {
	case reconcile.ColStatus:
		return TierColor(records.String(v)), true
	case reconcile.ColExterior, reconcile.ColInterior, reconcile.ColDriver:
		return ComplianceColor(records.String(v)), true
	}
	return "", false
}

// colWidth fits a column to its header label within fixed bounds.
func colWidth(header string) float64 {
	w := len([]rune(header)) + 2
	if w < minColWidth {
		w = minColWidth
	}
	if w > maxColWidth {
		w = maxColWidth
	}
	return float64(w)
}

// Digest returns a short stable fingerprint of an exported artifact, used as
// the download ETag and in log lines.
func Digest(data []byte) string {
	return fmt.Sprintf("%016x", xxh3.Hash(data))
}
