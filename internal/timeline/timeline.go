// Package timeline computes the day view of a schedule: which items apply
// on a weekday, where they overlap, and which parts of the day are free.
package timeline

import (
	"sort"

	"signadmin/internal/model"
)

// EntryKind tags a timeline entry as an occupied window or a free gap.
type EntryKind int

const (
	EntryItem EntryKind = iota
	EntryGap
)

// Entry is one element of a day timeline. For EntryItem, Item carries the
// schedule item and Overlapping reports a detected collision with its
// neighbor. StartMinute/EndMinute are set for both kinds.
type Entry struct {
	Kind        EntryKind
	Item        model.ScheduleItem
	Overlapping bool
	StartMinute int
	EndMinute   int
}

// BuildDay filters items to those enabled on the given weekday (Monday=0),
// sorts them by start time, flags overlaps, and interleaves free gaps so
// that the returned entries tile [0, 1440) in order.
//
// Overlap detection compares each item only against its predecessor in
// start order (strict '>', so touching windows do not collide). An item
// fully nested inside an earlier window but separated from it in sort
// order is not flagged; this mirrors the deployed behavior and is a known
// limitation rather than an oversight.
func BuildDay(items []model.ScheduleItem, weekday int) []Entry {
	active := make([]model.ScheduleItem, 0, len(items))
	for _, it := range items {
		if it.Enabled && it.HasDay(weekday) {
			active = append(active, it)
		}
	}

	// Stable sort keeps file order for identical start times, which keeps
	// the emitted timeline deterministic.
	sort.SliceStable(active, func(i, j int) bool {
		return active[i].StartMinute() < active[j].StartMinute()
	})

	overlapping := make([]bool, len(active))
	for i := 1; i < len(active); i++ {
		if active[i-1].EndMinute() > active[i].StartMinute() {
			overlapping[i-1] = true
			overlapping[i] = true
		}
	}

	entries := make([]Entry, 0, 2*len(active)+1)
	cursor := 0
	for i, it := range active {
		if start := it.StartMinute(); start > cursor {
			entries = append(entries, Entry{
				Kind:        EntryGap,
				StartMinute: cursor,
				EndMinute:   start,
			})
		}
		entries = append(entries, Entry{
			Kind:        EntryItem,
			Item:        it,
			Overlapping: overlapping[i],
			StartMinute: it.StartMinute(),
			EndMinute:   it.EndMinute(),
		})
		cursor = it.EndMinute()
	}
	if cursor < model.MinutesPerDay {
		entries = append(entries, Entry{
			Kind:        EntryGap,
			StartMinute: cursor,
			EndMinute:   model.MinutesPerDay,
		})
	}

	return entries
}

// ActiveAt returns the first enabled item whose window contains the given
// minute of the day, in timeline order.
func ActiveAt(items []model.ScheduleItem, weekday, minuteOfDay int) (model.ScheduleItem, bool) {
	for _, e := range BuildDay(items, weekday) {
		if e.Kind != EntryItem {
			continue
		}
		if e.StartMinute <= minuteOfDay && minuteOfDay < e.EndMinute {
			return e.Item, true
		}
	}
	return model.ScheduleItem{}, false
}
