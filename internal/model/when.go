package model

import (
	"fmt"
	"strings"
	"time"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"

	// DefaultEventClock is used when an event is added without a time.
	DefaultEventClock = "09:00"
)

// ParseEventTime combines a YYYY-MM-DD date and an HH:MM clock in loc.
// An empty date means the day of now; an empty clock means 09:00.
func ParseEventTime(date, clock string, now time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	now = now.In(loc)

	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	if date = strings.TrimSpace(date); date != "" {
		d, err := time.ParseInLocation(dateLayout, date, loc)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid date %q (use YYYY-MM-DD)", date)
		}
		day = d
	}

	if clock = strings.TrimSpace(clock); clock == "" {
		clock = DefaultEventClock
	}
	c, err := time.Parse(clockLayout, clock)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q (use HH:MM)", clock)
	}

	return time.Date(day.Year(), day.Month(), day.Day(), c.Hour(), c.Minute(), 0, 0, loc), nil
}

// SameDay reports whether a and b fall on the same calendar date in loc.
func SameDay(a, b time.Time, loc *time.Location) bool {
	a, b = a.In(loc), b.In(loc)
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}

// StartOfDay truncates t to midnight in its own location.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
