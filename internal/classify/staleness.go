package classify

// Staleness tiers, from no data to most overdue.
const (
	TierNone     = "No inspection on record"
	TierOK       = "OK"
	TierAlert    = "Alert"
	TierCritical = "Critical"
)

// Tiers lists every staleness tier in display order.
var Tiers = []string{TierNone, TierCritical, TierAlert, TierOK}

// ValidTier reports whether s is one of the staleness tiers. Used to reject
// typo'd tier filters instead of silently matching nothing.
func ValidTier(s string) bool {
	for _, t := range Tiers {
		if t == s {
			return true
		}
	}
	return false
}

// Thresholds are the two day counts that split inspected vehicles into OK,
// Alert, and Critical. The classifier assumes YellowMax >= GreenMax; callers
// obtain that invariant through Clamp.
type Thresholds struct {
	GreenMax  int `json:"green_max"`
	YellowMax int `json:"yellow_max"`
}

// Clamp returns thresholds with YellowMax raised to GreenMax when the caller
// supplied them inverted, plus whether a correction was applied. The notice
// is surfaced to the user; the inversion is never treated as an error.
func (t Thresholds) Clamp() (Thresholds, bool) {
	if t.YellowMax < t.GreenMax {
		t.YellowMax = t.GreenMax
		return t, true
	}
	return t, false
}

// Staleness maps elapsed days onto one of the four tiers. Boundaries are
// inclusive on the lower tier: elapsed == GreenMax is OK, elapsed ==
// YellowMax is Alert. A nil elapsed means no inspection on record.
func Staleness(elapsed *int, t Thresholds) string {
	switch {
	case elapsed == nil:
		return TierNone
	case *elapsed <= t.GreenMax:
		return TierOK
	case *elapsed <= t.YellowMax:
		return TierAlert
	default:
		return TierCritical
	}
}
