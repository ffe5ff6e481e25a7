package scene

import (
	"context"
	"time"

	"signadmin/internal/canvas"
	"signadmin/internal/dates"
	appLog "signadmin/internal/log"
	"signadmin/internal/model"
	"signadmin/internal/timeline"
)

// RenderCurrent draws what the sign should be showing at now, given a
// snapshot of the data: a dated event active today wins, then a recurring
// event occurring today, then the schedule window containing now. With
// nothing to show the frame is left cleared (matrix dark).
func (r *Renderer) RenderCurrent(
	ctx context.Context,
	f *canvas.Frame,
	events []model.Event,
	recurring []model.RecurringEvent,
	items []model.ScheduleItem,
	now time.Time,
) {
	hour := now.Hour()

	for _, ev := range events {
		if dates.SameDate(ev.Date, now) && ev.StartHour <= hour && hour <= ev.EndHour {
			r.RenderEventFrame(ctx, f, ViewOfEvent(ev))
			return
		}
	}

	for _, rev := range recurring {
		next, err := dates.NextOccurrence(rev.MonthDay, now)
		if err != nil {
			appLog.Warn("scene: skipping recurring event with bad key",
				"month_day", rev.MonthDay, "reason", err)
			continue
		}
		if dates.SameDate(next, now) && rev.StartHour <= hour && hour <= rev.EndHour {
			r.RenderEventFrame(ctx, f, ViewOfRecurring(rev))
			return
		}
	}

	weekday := dates.WeekdayIndex(now)
	minute := hour*60 + now.Minute()
	if item, ok := timeline.ActiveAt(items, weekday, minute); ok {
		r.RenderScheduleFrame(ctx, f, item, minute)
		return
	}

	f.Clear()
}
