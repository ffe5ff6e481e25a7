// Package dates centralizes calendar-date handling for the sign data:
// ISO date formatting, the Monday=0 weekday convention used by schedule
// rows, and next-occurrence resolution for yearly recurring events.
package dates

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

const isoDateLayout = "2006-01-02"

// FormatISODate renders a calendar date as zero-padded "YYYY-MM-DD".
func FormatISODate(t time.Time) string {
	return t.Format(isoDateLayout)
}

// ParseISODate parses a zero-padded "YYYY-MM-DD" string.
func ParseISODate(s string) (time.Time, error) {
	return time.Parse(isoDateLayout, strings.TrimSpace(s))
}

// Midnight truncates t to its calendar date, keeping the location.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// WeekdayIndex converts a time.Time weekday (Sunday=0) into the schedule
// weekday convention (Monday=0). Every boundary between host time values
// and schedule day digits must go through this function; do not inline
// the transform at call sites.
func WeekdayIndex(t time.Time) int {
	return (int(t.Weekday()) + 6) % 7
}

// SameDate reports whether a and b fall on the same calendar date.
func SameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// ParseMonthDay validates an "MM-DD" recurrence key and returns its month
// and day components.
func ParseMonthDay(s string) (time.Month, int, error) {
	s = strings.TrimSpace(s)
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("dates: invalid month-day key %q", s)
	}
	m, err := strconv.Atoi(parts[0])
	if err != nil || m < 1 || m > 12 {
		return 0, 0, fmt.Errorf("dates: invalid month in key %q", s)
	}
	d, err := strconv.Atoi(parts[1])
	if err != nil || d < 1 || d > 31 {
		return 0, 0, fmt.Errorf("dates: invalid day in key %q", s)
	}
	// Reject combinations like 04-31 by checking against a leap year.
	if time.Date(2024, time.Month(m), d, 0, 0, 0, 0, time.UTC).Day() != d {
		return 0, 0, fmt.Errorf("dates: day out of range in key %q", s)
	}
	return time.Month(m), d, nil
}

// MonthDayKey renders a date's recurrence key as zero-padded "MM-DD".
func MonthDayKey(t time.Time) string {
	return t.Format("01-02")
}

// NextOccurrence resolves an "MM-DD" recurrence key to its next concrete
// calendar date at or after today (date-only comparison): this year's date
// if it has not passed yet, otherwise next year's.
//
// The yearly recurrence is evaluated through an rrule so that impossible
// dates (Feb 29 in a non-leap year) roll forward to the next year that
// actually contains them instead of silently normalizing.
func NextOccurrence(monthDay string, today time.Time) (time.Time, error) {
	month, day, err := ParseMonthDay(monthDay)
	if err != nil {
		return time.Time{}, err
	}

	start := Midnight(today)

	r, err := rrule.NewRRule(rrule.ROption{
		Freq:       rrule.YEARLY,
		Bymonth:    []int{int(month)},
		Bymonthday: []int{day},
		Dtstart:    start.AddDate(-1, 0, 0),
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("dates: build recurrence for %q: %w", monthDay, err)
	}

	next := r.After(start, true)
	if next.IsZero() {
		return time.Time{}, fmt.Errorf("dates: no occurrence for key %q", monthDay)
	}
	return Midnight(next), nil
}
