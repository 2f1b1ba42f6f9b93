package utils

import "time"

// -----------------------------------------------------------------------------

// Date handling shared by the pickers, the fetcher and the slicer.
const (
	DateLayout     = "2006-01-02"
	DefaultMinDate = "2015-01-01"
	DefaultMIC     = "xnys"
)

// -----------------------------------------------------------------------------

// TruncateToDate returns the calendar day of t (in t's location) at UTC midnight.
func TruncateToDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

// YearStart returns January 1st of t's year at UTC midnight.
func YearStart(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
}

// -----------------------------------------------------------------------------

// ClampDate bounds a calendar date to [min, max].
func ClampDate(t, min, max time.Time) time.Time {
	t = TruncateToDate(t)
	if t.Before(min) {
		return min
	}
	if t.After(max) {
		return max
	}
	return t
}
