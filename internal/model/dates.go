package model

import (
	"fmt"
	"time"
)

// DateLayout is the canonical calendar-date format used throughout the
// planner, including for date values stored inside record JSON.
const DateLayout = "2006-01-02"

// ClockLayout is the canonical time-of-day format for bookings.
const ClockLayout = "15:04"

// ParseDate parses an ISO calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing date %q: %w", s, err)
	}
	return d, nil
}

// FormatDate renders a date in the canonical layout.
func FormatDate(d time.Time) string {
	return d.Format(DateLayout)
}

// Midnight truncates a timestamp to its UTC calendar date.
func Midnight(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// DaysBetween returns the whole number of days from start to end.
// Negative when end precedes start.
func DaysBetween(start, end time.Time) int {
	return int(Midnight(end).Sub(Midnight(start)).Hours() / 24)
}

// ClockMinutes parses an HH:MM time of day into minutes since midnight.
func ClockMinutes(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil {
		return 0, fmt.Errorf("parsing time of day %q: %w", s, err)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// IsWeekday reports whether the date falls Monday through Friday.
func IsWeekday(d time.Time) bool {
	wd := d.Weekday()
	return wd != time.Saturday && wd != time.Sunday
}
