// Package validate checks sign data for problems before it is written back
// to the repository. Findings are collected into a report, never returned
// as errors: a broken row should be something the operator reviews, not
// something that aborts an edit session.
package validate

import (
	"fmt"
	"strings"
	"time"

	"signadmin/internal/model"
)

// Severity classifies a finding.
type Severity int

const (
	// SeverityError marks data the sign cannot display correctly.
	SeverityError Severity = iota
	// SeverityWarning marks data that displays but probably is not what
	// the operator intended.
	SeverityWarning
	// SeverityInfo carries counts and context, not problems.
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "info"
	}
}

// Issue is a single finding. Subject identifies the record (item name,
// event line text, or row position) the finding refers to.
type Issue struct {
	Severity Severity
	Subject  string
	Message  string
}

// Report groups findings by severity.
type Report struct {
	Errors   []Issue
	Warnings []Issue
	Infos    []Issue
}

func (r *Report) add(sev Severity, subject, format string, args ...any) {
	issue := Issue{Severity: sev, Subject: subject, Message: fmt.Sprintf(format, args...)}
	switch sev {
	case SeverityError:
		r.Errors = append(r.Errors, issue)
	case SeverityWarning:
		r.Warnings = append(r.Warnings, issue)
	default:
		r.Infos = append(r.Infos, issue)
	}
}

// Merge appends another report's findings into r.
func (r *Report) Merge(other Report) {
	r.Errors = append(r.Errors, other.Errors...)
	r.Warnings = append(r.Warnings, other.Warnings...)
	r.Infos = append(r.Infos, other.Infos...)
}

// Clean reports whether the report contains no errors and no warnings.
func (r *Report) Clean() bool {
	return len(r.Errors) == 0 && len(r.Warnings) == 0
}

// MaxLineLength is the conventional cap for event display lines; longer
// text scrolls off the 64-pixel-wide matrix.
const MaxLineLength = 12

// CheckSchedule validates schedule items. knownImages may be nil when the
// image listing is unavailable; dangling-reference checks are skipped then.
func CheckSchedule(items []model.ScheduleItem, knownImages map[string]bool) Report {
	var r Report

	seen := make(map[string]string, len(items))
	for _, it := range items {
		subject := it.Name

		key := strings.ToLower(strings.TrimSpace(it.Name))
		if key == "" {
			r.add(SeverityError, subject, "item has an empty name")
		} else if prev, dup := seen[key]; dup {
			r.add(SeverityError, subject, "duplicate item name (also used by %q)", prev)
		} else {
			seen[key] = it.Name
		}

		if !validHour(it.StartHour) || !validMinute(it.StartMin) {
			r.add(SeverityError, subject, "start time %02d:%02d out of range", it.StartHour, it.StartMin)
		}
		if !validHour(it.EndHour) || !validMinute(it.EndMin) {
			r.add(SeverityError, subject, "end time %02d:%02d out of range", it.EndHour, it.EndMin)
		}

		if badDays(it.Days) {
			r.add(SeverityError, subject, "days %q must be distinct digits 0-6", it.Days)
		}

		// start >= end is displayable (the window just never matches), so
		// it is a warning rather than an error.
		if validHour(it.StartHour) && validHour(it.EndHour) &&
			validMinute(it.StartMin) && validMinute(it.EndMin) &&
			it.StartMinute() >= it.EndMinute() {
			r.add(SeverityWarning, subject, "start %02d:%02d is not before end %02d:%02d",
				it.StartHour, it.StartMin, it.EndHour, it.EndMin)
		}

		if it.Image != "" && knownImages != nil && !knownImages[it.Image] {
			r.add(SeverityError, subject, "image %q not found in the image directory", it.Image)
		}
	}

	r.add(SeverityInfo, "schedule", "%d items checked", len(items))
	return r
}

// CheckEvents validates dated events against today's date.
func CheckEvents(events []model.Event, today time.Time, knownImages map[string]bool) Report {
	var r Report

	for i, ev := range events {
		subject := fmt.Sprintf("event %d (%s)", i+1, ev.TopLine)
		checkDisplayLines(&r, subject, ev.TopLine, ev.BottomLine)
		checkHourRange(&r, subject, ev.StartHour, ev.EndHour)
		checkColor(&r, subject, ev.Color)
		checkIcon(&r, subject, ev.Icon, knownImages)

		if ev.Date.Before(time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, ev.Date.Location())) {
			r.add(SeverityWarning, subject, "dated %s, already in the past", ev.Date.Format("2006-01-02"))
		}
	}

	r.add(SeverityInfo, "events", "%d events checked", len(events))
	return r
}

// CheckRecurring validates yearly recurring events.
func CheckRecurring(events []model.RecurringEvent, knownImages map[string]bool) Report {
	var r Report

	for i, ev := range events {
		subject := fmt.Sprintf("recurring %d (%s)", i+1, ev.TopLine)
		checkDisplayLines(&r, subject, ev.TopLine, ev.BottomLine)
		checkHourRange(&r, subject, ev.StartHour, ev.EndHour)
		checkColor(&r, subject, ev.Color)
		checkIcon(&r, subject, ev.Icon, knownImages)
	}

	r.add(SeverityInfo, "recurring", "%d recurring events checked", len(events))
	return r
}

func checkDisplayLines(r *Report, subject, top, bottom string) {
	if len(top) > MaxLineLength {
		r.add(SeverityWarning, subject, "top line is %d characters, max %d fit the display", len(top), MaxLineLength)
	}
	if len(bottom) > MaxLineLength {
		r.add(SeverityWarning, subject, "bottom line is %d characters, max %d fit the display", len(bottom), MaxLineLength)
	}
}

func checkHourRange(r *Report, subject string, startHour, endHour int) {
	if !validHour(startHour) || !validHour(endHour) {
		r.add(SeverityError, subject, "hour range %d-%d out of range", startHour, endHour)
		return
	}
	if startHour > endHour {
		r.add(SeverityWarning, subject, "start hour %d is after end hour %d", startHour, endHour)
	}
}

func checkColor(r *Report, subject, name string) {
	if _, ok := model.ColorByName(name); !ok {
		r.add(SeverityError, subject, "unknown color %q (known: %s)", name, strings.Join(model.ColorNames(), ", "))
	}
}

func checkIcon(r *Report, subject, icon string, knownImages map[string]bool) {
	if icon != "" && knownImages != nil && !knownImages[icon] {
		r.add(SeverityError, subject, "icon %q not found in the image directory", icon)
	}
}

func validHour(h int) bool   { return h >= 0 && h <= 23 }
func validMinute(m int) bool { return m >= 0 && m <= 59 }

// badDays reports whether a days digit string contains anything besides
// distinct digits 0-6.
func badDays(days string) bool {
	var seen [7]bool
	for _, r := range days {
		if r < '0' || r > '6' {
			return true
		}
		if seen[r-'0'] {
			return true
		}
		seen[r-'0'] = true
	}
	return false
}
