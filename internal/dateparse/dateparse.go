// Package dateparse resolves the mixed-format date column of the inspection
// log. The same column interleaves human-entered text dates (day-first) with
// numeric spreadsheet serials left behind by machine exports, so a single
// parse would silently drop a large fraction of valid rows. The resolver is
// an ordered list of strategies tried in sequence; a value no strategy
// recognizes resolves to absent, never an error.
package dateparse

import (
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"platecheck/pkg/records"
)

// Strategy attempts to interpret one raw cell value as a calendar date.
type Strategy func(v any) (time.Time, bool)

// strategies is the resolver chain, in priority order: day-first text
// parsing wins over serial interpretation so that "03/04/2024" is read as
// 3 April, and a stray numeric string only becomes a serial when it is not
// a date at all.
var strategies = []Strategy{textDayFirst, serialNumber}

// textLayouts are tried in order. Non-padded layouts are used on purpose:
// time.Parse accepts both "3/4/2024" and "03/04/2024" against "2/1/2006",
// while the zero-padded layout rejects single digits.
var textLayouts = []string{
	"2/1/2006",
	"2-1-2006",
	"2.1.2006",
	"2006-1-2",
	"2006/1/2",
	"2/1/2006 15:04:05",
	"2/1/2006 15:04",
	"2006-1-2 15:04:05",
	"2/1/06",
}

// Resolve maps a raw cell value to a calendar date, or reports false when no
// strategy recognizes it. Resolved dates are truncated to midnight UTC; the
// pipeline compares whole calendar days only.
func Resolve(v any) (time.Time, bool) {
	for _, s := range strategies {
		if t, ok := s(v); ok {
			return midnight(t), true
		}
	}
	return time.Time{}, false
}

func textDayFirst(v any) (time.Time, bool) {
	s, ok := v.(string)
	if !ok {
		return time.Time{}, false
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range textLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// serialNumber interprets the value as a spreadsheet date serial: a count of
// days since the epoch 1899-12-30, where serial 1 = 1899-12-31. The 1900
// leap-year artifact baked into that system is intentional and preserved.
func serialNumber(v any) (time.Time, bool) {
	var serial float64
	switch t := v.(type) {
	case float64:
		serial = t
	case int:
		serial = float64(t)
	case int64:
		serial = float64(t)
	default:
		f, err := strconv.ParseFloat(strings.TrimSpace(records.String(v)), 64)
		if err != nil {
			return time.Time{}, false
		}
		serial = f
	}
	if serial <= 0 {
		return time.Time{}, false
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
