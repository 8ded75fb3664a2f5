package model

import (
	"math"
	"strings"
	"time"
)

// Waitlist status values the lifecycle engine recognizes (case-insensitive).
// Any other string is stored verbatim but excluded from wait-time
// recomputation.
const (
	StatusWaiting  = "Waiting"
	StatusNotified = "Notified"
	StatusSeated   = "Seated"
)

// Canonical spice preferences. Free-form input is folded onto exactly one of
// these when a party joins the waitlist.
const (
	SpiceNone     = "No Spice"
	SpiceMild     = "Mild"
	SpiceSpicy    = "Spicy"
	SpiceTurboHot = "Turbo Hot"
)

// NormalizeSpice maps free-form spice input onto the canonical set:
// lower-cases, collapses internal whitespace and trims, then matches.
// Unrecognized input becomes SpiceNone.
func NormalizeSpice(raw string) string {
	switch strings.Join(strings.Fields(strings.ToLower(raw)), " ") {
	case "turbo hot", "turbohot":
		return SpiceTurboHot
	case "spicy":
		return SpiceSpicy
	case "mild":
		return SpiceMild
	default:
		return SpiceNone
	}
}

// WaitlistEntry is the projection of one waitlist row returned to clients.
// Row is the legacy 1-based position in the table (row 1 is the header); ID
// is the stable synthetic identifier that survives row shifts.
type WaitlistEntry struct {
	Row          int    `json:"row"`
	ID           string `json:"id,omitempty"`
	Name         string `json:"name"`
	Phone        string `json:"phone"`
	Party        string `json:"party"`
	SpecialNotes string `json:"specialNotes"`
	Status       string `json:"status"`
	SpiceLevel   string `json:"spiceLevel"`
	WaitMin      int    `json:"waitMin"`
}

// WaitMinutes derives the wait in whole minutes between arrival and the
// given end point, clamped at zero.
func WaitMinutes(timeIn, until time.Time) int {
	mins := int(math.Round(until.Sub(timeIn).Minutes()))
	if mins < 0 {
		return 0
	}
	return mins
}

// cellTimeLayouts are the timestamp formats accepted when reading cells.
// New rows are always written as RFC 3339.
var cellTimeLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
}

// ParseCellTime interprets a stored cell value as a timestamp. The second
// return value is false for empty or unparseable cells, which callers treat
// as a malformed row and skip.
func ParseCellTime(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range cellTimeLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// FormatCellTime renders a timestamp the way it is stored in table cells.
func FormatCellTime(t time.Time) string {
	return t.Format(time.RFC3339)
}
