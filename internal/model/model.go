package model

import (
	"strings"
	"time"
)

// MinutesPerDay is the length of a display day in minutes.
const MinutesPerDay = 24 * 60

// ScheduleItem is a named, weekday-tagged time window that selects what the
// sign shows during that window.
//
// Days is a compact digit string of weekday indices ("0".."6", Monday=0),
// e.g. "01234" for weekdays. The digit-string form matches the on-disk
// schedule row format, so the codec round-trips it untouched.
type ScheduleItem struct {
	Name    string
	Enabled bool
	Days    string

	StartHour int
	StartMin  int
	EndHour   int
	EndMin    int

	// Image is the basename of a sign bitmap shown during this window.
	// Empty means no image.
	Image string

	// ProgressBar enables the elapsed-time bar across the window.
	ProgressBar bool
}

// StartMinute returns the window start as a minute-of-day.
func (it ScheduleItem) StartMinute() int {
	return it.StartHour*60 + it.StartMin
}

// EndMinute returns the window end as a minute-of-day.
func (it ScheduleItem) EndMinute() int {
	return it.EndHour*60 + it.EndMin
}

// HasDay reports whether the item applies on the given weekday index
// (Monday=0).
func (it ScheduleItem) HasDay(weekday int) bool {
	if weekday < 0 || weekday > 6 {
		return false
	}
	return strings.ContainsRune(it.Days, rune('0'+weekday))
}

// ScheduleKind distinguishes the weekly default schedule from a
// date-specific override schedule.
type ScheduleKind int

const (
	ScheduleDefault ScheduleKind = iota
	ScheduleDated
)

// Schedule is an ordered set of schedule items, either the weekly default or
// an override pinned to a single calendar date.
type Schedule struct {
	Kind ScheduleKind
	// Date is set iff Kind == ScheduleDated (time component is midnight).
	Date  time.Time
	Items []ScheduleItem
}

// Event is a one-off display item shown on its specific calendar date.
// Events are identified by their position in the event file, not by a key.
type Event struct {
	Date       time.Time
	TopLine    string
	BottomLine string
	Icon       string
	Color      string

	// StartHour/EndHour bound the hours of the day the event is shown.
	// The all-day default is 0/23.
	StartHour int
	EndHour   int
}

// AllDay reports whether the event uses the default all-day hour range.
func (e Event) AllDay() bool {
	return e.StartHour == DefaultStartHour && e.EndHour == DefaultEndHour
}

// Default hour range for events without an explicit window.
const (
	DefaultStartHour = 0
	DefaultEndHour   = 23
)

// RecurringEvent is a yearly-repeating display item keyed by "MM-DD".
// Its concrete display date is always derived from today, never stored.
type RecurringEvent struct {
	MonthDay   string
	TopLine    string
	BottomLine string
	Icon       string
	Color      string

	StartHour int
	EndHour   int
}

// AllDay reports whether the recurring event uses the default hour range.
func (e RecurringEvent) AllDay() bool {
	return e.StartHour == DefaultStartHour && e.EndHour == DefaultEndHour
}
