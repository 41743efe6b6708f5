// Package datetime provides calendar-day and calendar-month helpers.
//
// All values returned by this package are normalized to midnight UTC so that day
// arithmetic is not affected by daylight saving transitions.
package datetime

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/occupancy-forecast/pkg/constants"
)

const (
	// DateLayout is the calendar day format accepted in config files and snapshots.
	DateLayout = constants.DateLayout

	// MonthLayout is the month label format.
	MonthLayout = constants.MonthLayout
)

// acceptedLayouts are tried in order by ParseDate.
var acceptedLayouts = []string{
	DateLayout,
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

const hoursPerDay = 24

// MustParseDate is ParseDate for tests and fixtures.
func MustParseDate(dateStr string) time.Time {
	t, err := ParseDate(dateStr)
	if err != nil {
		panic(err)
	}
	return t
}

// ParseDate parses a calendar date or timestamp and returns its calendar day.
func ParseDate(value string) (time.Time, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	for _, layout := range acceptedLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", value)
}

// Day truncates t to midnight UTC of its own calendar date.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// MonthStart returns the first calendar day of t's month.
func MonthStart(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// MonthEnd returns the last calendar day of t's month.
func MonthEnd(t time.Time) time.Time {
	return MonthStart(t).AddDate(0, 1, -1)
}

// DaysInMonth returns the number of days in t's month, accounting for leap years.
func DaysInMonth(t time.Time) int {
	return MonthEnd(t).Day()
}

// AddMonths moves a month start by n calendar months. Day-of-month overflow cannot
// occur because the result is always anchored on the first.
func AddMonths(t time.Time, n int) time.Time {
	return MonthStart(t).AddDate(0, n, 0)
}

// DaysBetween returns the number of calendar days from a to b. The result is
// negative when b is before a.
func DaysBetween(a, b time.Time) int {
	return int(Day(b).Sub(Day(a)).Hours() / hoursPerDay)
}

// MonthIndex returns the zero-based calendar month index (0=January).
func MonthIndex(t time.Time) int {
	return int(t.Month()) - 1
}

// MonthLabel formats the month of t as used in forecast output.
func MonthLabel(t time.Time) string {
	return t.Format(MonthLayout)
}

// Earlier returns the earlier of two times.
func Earlier(a, b time.Time) time.Time {
	if b.Before(a) {
		return b
	}
	return a
}

// Later returns the later of two times.
func Later(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}
