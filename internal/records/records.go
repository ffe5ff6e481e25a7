// Package records implements the line-oriented text formats the sign data
// is stored in: one row per event, recurring event, or schedule item,
// comma-separated, with '#' comment lines and blank lines ignored.
//
// Decoding is tolerant by contract: a malformed row is dropped (and logged)
// without aborting the rest of the file.
package records

import (
	"strconv"
	"strings"

	"signadmin/internal/dates"
	appLog "signadmin/internal/log"
	"signadmin/internal/model"
)

// Minimum field counts per row shape.
const (
	eventFieldsMin        = 5
	scheduleItemFieldsMin = 9
)

// ParseRows splits raw file text into data rows: lines are trimmed, blank
// lines dropped, and lines whose first non-whitespace character is '#' are
// treated as comments.
func ParseRows(text string) []string {
	var rows []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		rows = append(rows, line)
	}
	return rows
}

// SplitFields splits a single data row into trimmed comma-separated fields.
func SplitFields(row string) []string {
	parts := strings.Split(row, ",")
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}

// DecodeEventRow decodes a dated event row:
//
//	YYYY-MM-DD,TopLine,BottomLine,Image,Color[,StartHour,EndHour]
//
// It returns false for malformed rows (too few fields, unparseable date).
func DecodeEventRow(fields []string) (model.Event, bool) {
	if len(fields) < eventFieldsMin {
		return model.Event{}, false
	}
	date, err := dates.ParseISODate(fields[0])
	if err != nil {
		return model.Event{}, false
	}

	ev := model.Event{
		Date:       date,
		TopLine:    fields[1],
		BottomLine: fields[2],
		Icon:       fields[3],
		Color:      fields[4],
		StartHour:  model.DefaultStartHour,
		EndHour:    model.DefaultEndHour,
	}
	decodeHourRange(fields, &ev.StartHour, &ev.EndHour)
	return ev, true
}

// DecodeRecurringRow decodes a yearly recurring event row:
//
//	MM-DD,TopLine,BottomLine,Image,Color[,StartHour,EndHour]
func DecodeRecurringRow(fields []string) (model.RecurringEvent, bool) {
	if len(fields) < eventFieldsMin {
		return model.RecurringEvent{}, false
	}
	if _, _, err := dates.ParseMonthDay(fields[0]); err != nil {
		return model.RecurringEvent{}, false
	}

	ev := model.RecurringEvent{
		MonthDay:   fields[0],
		TopLine:    fields[1],
		BottomLine: fields[2],
		Icon:       fields[3],
		Color:      fields[4],
		StartHour:  model.DefaultStartHour,
		EndHour:    model.DefaultEndHour,
	}
	decodeHourRange(fields, &ev.StartHour, &ev.EndHour)
	return ev, true
}

// DecodeScheduleItemRow decodes a schedule item row:
//
//	name,enabled,days,start_hour,start_min,end_hour,end_min,image,progressbar
//
// Boolean fields parse "1" as true and anything else as false.
func DecodeScheduleItemRow(fields []string) (model.ScheduleItem, bool) {
	if len(fields) < scheduleItemFieldsMin {
		return model.ScheduleItem{}, false
	}

	it := model.ScheduleItem{
		Name:        fields[0],
		Enabled:     fields[1] == "1",
		Days:        fields[2],
		StartHour:   atoiDefault(fields[3], 0),
		StartMin:    atoiDefault(fields[4], 0),
		EndHour:     atoiDefault(fields[5], 0),
		EndMin:      atoiDefault(fields[6], 0),
		Image:       fields[7],
		ProgressBar: fields[8] == "1",
	}
	return it, true
}

// EncodeEventRow is the inverse of DecodeEventRow. The hour range is
// omitted when it equals the all-day default; see appendHourRange.
func EncodeEventRow(ev model.Event) string {
	fields := []string{
		dates.FormatISODate(ev.Date),
		ev.TopLine,
		ev.BottomLine,
		ev.Icon,
		ev.Color,
	}
	fields = appendHourRange(fields, ev.StartHour, ev.EndHour)
	return strings.Join(fields, ",")
}

// EncodeRecurringRow is the inverse of DecodeRecurringRow.
func EncodeRecurringRow(ev model.RecurringEvent) string {
	fields := []string{
		ev.MonthDay,
		ev.TopLine,
		ev.BottomLine,
		ev.Icon,
		ev.Color,
	}
	fields = appendHourRange(fields, ev.StartHour, ev.EndHour)
	return strings.Join(fields, ",")
}

// EncodeScheduleItemRow is the inverse of DecodeScheduleItemRow.
func EncodeScheduleItemRow(it model.ScheduleItem) string {
	fields := []string{
		it.Name,
		encodeBool(it.Enabled),
		it.Days,
		strconv.Itoa(it.StartHour),
		strconv.Itoa(it.StartMin),
		strconv.Itoa(it.EndHour),
		strconv.Itoa(it.EndMin),
		it.Image,
		encodeBool(it.ProgressBar),
	}
	return strings.Join(fields, ",")
}

// ParseEventFile decodes all event rows from raw file text, skipping
// malformed rows.
func ParseEventFile(text string) []model.Event {
	rows := ParseRows(text)
	events := make([]model.Event, 0, len(rows))
	for _, row := range rows {
		ev, ok := DecodeEventRow(SplitFields(row))
		if !ok {
			appLog.Warn("records: dropping malformed event row", "row", row)
			continue
		}
		events = append(events, ev)
	}
	return events
}

// ParseRecurringFile decodes all recurring event rows from raw file text,
// skipping malformed rows.
func ParseRecurringFile(text string) []model.RecurringEvent {
	rows := ParseRows(text)
	events := make([]model.RecurringEvent, 0, len(rows))
	for _, row := range rows {
		ev, ok := DecodeRecurringRow(SplitFields(row))
		if !ok {
			appLog.Warn("records: dropping malformed recurring row", "row", row)
			continue
		}
		events = append(events, ev)
	}
	return events
}

// ParseScheduleFile decodes all schedule item rows from raw file text,
// skipping malformed rows.
func ParseScheduleFile(text string) []model.ScheduleItem {
	rows := ParseRows(text)
	items := make([]model.ScheduleItem, 0, len(rows))
	for _, row := range rows {
		it, ok := DecodeScheduleItemRow(SplitFields(row))
		if !ok {
			appLog.Warn("records: dropping malformed schedule row", "row", row)
			continue
		}
		items = append(items, it)
	}
	return items
}

// File headers written ahead of data rows so the files stay readable when
// edited by hand in the repository.
const (
	EventFileHeader     = "# date,top_line,bottom_line,image,color[,start_hour,end_hour]"
	RecurringFileHeader = "# month-day,top_line,bottom_line,image,color[,start_hour,end_hour]"
	ScheduleFileHeader  = "# name,enabled,days,start_hour,start_min,end_hour,end_min,image,progressbar"
)

// EncodeEventFile renders a full event file, header included.
func EncodeEventFile(events []model.Event) string {
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, EventFileHeader)
	for _, ev := range events {
		lines = append(lines, EncodeEventRow(ev))
	}
	return strings.Join(lines, "\n") + "\n"
}

// EncodeRecurringFile renders a full recurring event file, header included.
func EncodeRecurringFile(events []model.RecurringEvent) string {
	lines := make([]string, 0, len(events)+1)
	lines = append(lines, RecurringFileHeader)
	for _, ev := range events {
		lines = append(lines, EncodeRecurringRow(ev))
	}
	return strings.Join(lines, "\n") + "\n"
}

// EncodeScheduleFile renders a full schedule file, header included.
func EncodeScheduleFile(items []model.ScheduleItem) string {
	lines := make([]string, 0, len(items)+1)
	lines = append(lines, ScheduleFileHeader)
	for _, it := range items {
		lines = append(lines, EncodeScheduleItemRow(it))
	}
	return strings.Join(lines, "\n") + "\n"
}

// decodeHourRange applies optional hour fields 5 and 6, leaving the all-day
// defaults in place when the fields are absent or unparseable.
func decodeHourRange(fields []string, startHour, endHour *int) {
	if len(fields) > 5 {
		*startHour = atoiDefault(fields[5], *startHour)
	}
	if len(fields) > 6 {
		*endHour = atoiDefault(fields[6], *endHour)
	}
}

// appendHourRange is the single serialization policy for the optional hour
// pair: the pair is written only when it differs from the all-day default,
// so an all-day event encodes to a 5-field row. decodeHourRange restores
// the defaults on the way back in, which keeps the round-trip exact.
func appendHourRange(fields []string, startHour, endHour int) []string {
	if startHour == model.DefaultStartHour && endHour == model.DefaultEndHour {
		return fields
	}
	return append(fields, strconv.Itoa(startHour), strconv.Itoa(endHour))
}

func encodeBool(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}
