// Package dates holds the calendar helpers consumed by leave approval and
// payroll period creation. Day counting is deliberately isolated here: the
// rest of the codebase treats it as a black box, so switching to a
// working-day count later only touches this package.
package dates

import "time"

// InclusiveDays counts calendar days between start and end, both ends
// included. Weekends count. Returns 0 when end is before start.
func InclusiveDays(start, end time.Time) float64 {
	start = truncate(start)
	end = truncate(end)
	if end.Before(start) {
		return 0
	}
	return float64(end.Sub(start)/(24*time.Hour)) + 1
}

// ValidPeriodDays reports whether n is one of the supported payroll period
// lengths.
func ValidPeriodDays(n int) bool {
	return n == 15 || n == 30 || n == 45
}

func truncate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
