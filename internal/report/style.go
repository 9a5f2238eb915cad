package report

import (
	"platecheck/internal/classify"
)

// Workbook palette. Header cells get the purple fill with bold white text;
// status and compliance cells get a bold colored font on a plain background.
const (
	headerFillColor = "7145D6"
	headerFontColor = "FFFFFF"

	colorGood    = "0C936B"
	colorWarn    = "EFBD03"
	colorBad     = "E74A41"
	colorNeutral = "362065"
)

// TierColor maps a staleness tier to its font color.
func TierColor(tier string) string {
	switch tier {
	case classify.TierOK:
		return colorGood
	case classify.TierAlert:
		return colorWarn
	case classify.TierCritical:
		return colorBad
	default:
		return colorNeutral
	}
}

// ComplianceColor maps a compliance label to its font color. Absent labels
// render neutral, same as the no-inspection tier.
func ComplianceColor(label string) string {
	switch label {
	case classify.Compliant:
		return colorGood
	case classify.NonCompliant:
		return colorBad
	default:
		return colorNeutral
	}
}
