// Package timeutil provides UTC calendar-day utilities for PrepNest.
// Streak accounting compares calendar dates, not 24-hour intervals, so
// every helper here truncates to the UTC day boundary.
// No external dependencies - uses only standard library.
package timeutil

import "time"

// NowUTC returns the current time in UTC.
func NowUTC() time.Time {
	return time.Now().UTC()
}

// StartOfDay returns the start of the day (00:00:00) in UTC.
func StartOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, time.UTC)
}

// EndOfDay returns the end of the day (23:59:59.999999999) in UTC.
func EndOfDay(t time.Time) time.Time {
	utc := t.UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 23, 59, 59, 999999999, time.UTC)
}

// DaysBetween returns the number of whole calendar days from one moment
// to another in UTC. Negative when `to` is on an earlier date than `from`.
func DaysBetween(from, to time.Time) int {
	fromDay := StartOfDay(from)
	toDay := StartOfDay(to)
	return int(toDay.Sub(fromDay).Hours() / 24)
}

// IsSameDay checks whether two moments fall on the same UTC calendar date.
func IsSameDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 0
}

// IsNextDay checks whether b falls on the calendar date right after a.
func IsNextDay(a, b time.Time) bool {
	return DaysBetween(a, b) == 1
}
