package utils

import "time"

// DayLayout is the canonical date-bucket key used across reports.
const DayLayout = "2006-01-02"

// ReportLocation returns the timezone every date bucket is computed in.
// The marketplace reports in Eastern time; fall back to a fixed offset if
// the zone database is unavailable.
func ReportLocation() *time.Location {
	location, err := time.LoadLocation("America/New_York")
	if err != nil {
		location = time.FixedZone("EST", -5*60*60)
	}
	return location
}

// DayKey buckets a timestamp into its calendar date in the report
// timezone.
func DayKey(t time.Time) string {
	return t.In(ReportLocation()).Format(DayLayout)
}

// StartOfDay truncates a timestamp to midnight in the report timezone.
func StartOfDay(t time.Time) time.Time {
	local := t.In(ReportLocation())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, local.Location())
}
