package timeutil

import (
	"fmt"
	"strings"
	"time"
)

const (
	// ClockFormat is the wire format for times of day, e.g. "09:30".
	ClockFormat = "15:04"
	// DateFormat is the wire format for calendar dates, e.g. "2026-02-08".
	DateFormat = "2006-01-02"

	// MinutesPerDay is the upper bound for a minutes-from-midnight value.
	MinutesPerDay = 24 * 60
)

// ParseClock converts an "HH:MM" 24-hour string into minutes from midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockFormat, s)
	if err != nil {
		return 0, fmt.Errorf("invalid time %q: expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

// FormatClock converts minutes from midnight back into an "HH:MM" string.
func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseDate converts a "YYYY-MM-DD" string into a UTC midnight time.Time.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: expected YYYY-MM-DD", s)
	}
	return t, nil
}

// FormatDate converts a time.Time into its "YYYY-MM-DD" form.
func FormatDate(t time.Time) string {
	return t.Format(DateFormat)
}

// Overlaps reports whether the half-open intervals [aStart, aEnd) and
// [bStart, bEnd) intersect. Intervals that merely touch do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd int) bool {
	return aStart < bEnd && aEnd > bStart
}

// ParseWeekday converts a lowercase weekday name ("monday") into time.Weekday.
func ParseWeekday(s string) (time.Weekday, error) {
	switch strings.ToLower(s) {
	case "sunday":
		return time.Sunday, nil
	case "monday":
		return time.Monday, nil
	case "tuesday":
		return time.Tuesday, nil
	case "wednesday":
		return time.Wednesday, nil
	case "thursday":
		return time.Thursday, nil
	case "friday":
		return time.Friday, nil
	case "saturday":
		return time.Saturday, nil
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", s)
}

// WeekdayName returns the lowercase name used on the wire for a weekday.
func WeekdayName(d time.Weekday) string {
	return strings.ToLower(d.String())
}
