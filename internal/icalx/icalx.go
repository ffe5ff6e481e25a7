// Package icalx exports the sign's events as an iCalendar feed, so the
// same one-off and yearly entries that drive the matrix can be subscribed
// to from a regular calendar client.
package icalx

import (
	"fmt"
	"strings"
	"time"

	ical "github.com/arran4/golang-ical"

	"signadmin/internal/dates"
	appLog "signadmin/internal/log"
	"signadmin/internal/model"
)

const productID = "-//signadmin//sign events//EN"

// ExportCalendar renders dated and recurring events as a single VCALENDAR.
// Recurring events carry a yearly RRULE anchored at their next occurrence.
// Records that cannot be resolved (bad month-day keys) are skipped with a
// log entry; one broken row must not break the feed.
func ExportCalendar(events []model.Event, recurring []model.RecurringEvent, today time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	now := time.Now().UTC()

	for i, ev := range events {
		ve := cal.AddEvent(fmt.Sprintf("event-%04d@signadmin", i+1))
		ve.SetDtStampTime(now)
		ve.SetSummary(eventSummary(ev.TopLine, ev.BottomLine))
		setWindow(ve, ev.Date, ev.StartHour, ev.EndHour, ev.AllDay())
	}

	for i, rev := range recurring {
		next, err := dates.NextOccurrence(rev.MonthDay, today)
		if err != nil {
			appLog.Warn("icalx: skipping recurring event with bad key",
				"month_day", rev.MonthDay, "reason", err)
			continue
		}
		ve := cal.AddEvent(fmt.Sprintf("recurring-%s-%04d@signadmin", rev.MonthDay, i+1))
		ve.SetDtStampTime(now)
		ve.SetSummary(eventSummary(rev.TopLine, rev.BottomLine))
		setWindow(ve, next, rev.StartHour, rev.EndHour, rev.AllDay())
		ve.SetProperty(ical.ComponentPropertyRrule, "FREQ=YEARLY")
	}

	return cal.Serialize()
}

// setWindow maps the record's hour range onto DTSTART/DTEND: a date-only
// pair for all-day records, otherwise [startHour:00, endHour+1:00) on the
// record's date.
func setWindow(ve *ical.VEvent, date time.Time, startHour, endHour int, allDay bool) {
	if allDay {
		ve.SetAllDayStartAt(date)
		ve.SetAllDayEndAt(date.AddDate(0, 0, 1))
		return
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), startHour, 0, 0, 0, date.Location())
	end := time.Date(date.Year(), date.Month(), date.Day(), endHour, 0, 0, 0, date.Location()).Add(time.Hour)
	ve.SetStartAt(start)
	ve.SetEndAt(end)
}

func eventSummary(top, bottom string) string {
	parts := make([]string, 0, 2)
	if top != "" {
		parts = append(parts, top)
	}
	if bottom != "" {
		parts = append(parts, bottom)
	}
	return strings.Join(parts, " ")
}
