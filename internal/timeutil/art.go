package timeutil

import (
	"time"
)

// ART is the Argentina Time location (UTC-3). All business dates (register days,
// due dates, report ranges) are interpreted in this zone.
var ART *time.Location

func init() {
	var err error
	ART, err = time.LoadLocation("America/Argentina/Buenos_Aires")
	if err != nil {
		// Fallback: create fixed zone if the tz database is not available
		ART = time.FixedZone("ART", -3*60*60) // UTC-3
	}
}

// Now returns the current time in ART
func Now() time.Time {
	return time.Now().In(ART)
}

// ToART converts any time to ART
func ToART(t time.Time) time.Time {
	return t.In(ART)
}

// Today returns the current calendar day truncated to midnight ART
func Today() time.Time {
	return StartOfDay(Now())
}

// DateKey formats a time as its ISO calendar day in ART
func DateKey(t time.Time) string {
	return t.In(ART).Format(DateLayout)
}

// ParseDate parses an ISO calendar day string into midnight ART
func ParseDate(value string) (time.Time, error) {
	t, err := time.ParseInLocation(DateLayout, value, ART)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

// StartOfDay returns the start of day (00:00:00) in ART for the given time
func StartOfDay(t time.Time) time.Time {
	art := t.In(ART)
	return time.Date(art.Year(), art.Month(), art.Day(), 0, 0, 0, 0, ART)
}

// EndOfDay returns the end of day (23:59:59) in ART for the given time
func EndOfDay(t time.Time) time.Time {
	art := t.In(ART)
	return time.Date(art.Year(), art.Month(), art.Day(), 23, 59, 59, 999999999, ART)
}

// DaysBetween returns the number of whole calendar days from a to b in ART.
// Negative when b is before a.
func DaysBetween(a, b time.Time) int {
	start := StartOfDay(a)
	end := StartOfDay(b)
	return int(end.Sub(start).Hours() / 24)
}

// NearMidnight reports whether t falls inside the midnight±window band.
// The end-of-day sweep uses this to run a tighter check right around rollover.
func NearMidnight(t time.Time, window time.Duration) bool {
	art := t.In(ART)
	midnight := StartOfDay(art)
	nextMidnight := midnight.Add(24 * time.Hour)
	return art.Sub(midnight) <= window || nextMidnight.Sub(art) <= window
}

// Common layouts for ART formatting
const (
	DateLayout     = "2006-01-02"
	TimeLayout     = "15:04:05"
	DateTimeLayout = "2006-01-02 15:04:05"
	DisplayLayout  = "02 Jan 2006, 03:04 PM"
)
