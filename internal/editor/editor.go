// Package editor is the session layer over the store: it loads and saves
// the sign's data files as typed records, tracks revision tokens for
// optimistic writes, and hosts the record-level edit operations. All
// state lives in the Session value handed around explicitly; there are no
// package-level mutables.
package editor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"signadmin/internal/dates"
	appLog "signadmin/internal/log"
	"signadmin/internal/model"
	"signadmin/internal/records"
	"signadmin/internal/store"
	"signadmin/internal/validate"
)

// Paths locates the sign data inside the store.
type Paths struct {
	Events    string
	Recurring string
	// ScheduleDir holds default.csv plus per-date override schedules.
	ScheduleDir string
	ImagesDir   string
}

// DefaultPaths matches the layout of the sign data repository.
func DefaultPaths() Paths {
	return Paths{
		Events:      "events.csv",
		Recurring:   "recurring.csv",
		ScheduleDir: "schedules",
		ImagesDir:   "images",
	}
}

// imageListTTL bounds how long a cached image listing is trusted.
const imageListTTL = 60 * time.Second

// Session owns one editing context against a store.
type Session struct {
	Store store.Store
	Paths Paths

	mu        sync.Mutex
	revisions map[string]string

	imagesMu      sync.Mutex
	imageEntries  []store.Entry
	imagesFetched time.Time
}

// NewSession opens an editing session over a store.
func NewSession(st store.Store, paths Paths) *Session {
	return &Session{
		Store:     st,
		Paths:     paths,
		revisions: make(map[string]string),
	}
}

// LoadEvents reads the dated event file. A missing file is an empty
// event list, not an error.
func (s *Session) LoadEvents(ctx context.Context) ([]model.Event, error) {
	text, err := s.loadText(ctx, s.Paths.Events)
	if err != nil {
		return nil, err
	}
	return records.ParseEventFile(text), nil
}

// SaveEvents overwrites the event file with the full list.
func (s *Session) SaveEvents(ctx context.Context, events []model.Event) error {
	return s.saveText(ctx, s.Paths.Events, records.EncodeEventFile(events))
}

// LoadRecurring reads the recurring event file; missing means empty.
func (s *Session) LoadRecurring(ctx context.Context) ([]model.RecurringEvent, error) {
	text, err := s.loadText(ctx, s.Paths.Recurring)
	if err != nil {
		return nil, err
	}
	return records.ParseRecurringFile(text), nil
}

// SaveRecurring overwrites the recurring event file with the full list.
func (s *Session) SaveRecurring(ctx context.Context, events []model.RecurringEvent) error {
	return s.saveText(ctx, s.Paths.Recurring, records.EncodeRecurringFile(events))
}

// ScheduleFileName derives the store path for a schedule.
func (s *Session) ScheduleFileName(kind model.ScheduleKind, date time.Time) string {
	if kind == model.ScheduleDated {
		return s.Paths.ScheduleDir + "/" + dates.FormatISODate(date) + ".csv"
	}
	return s.Paths.ScheduleDir + "/default.csv"
}

// LoadSchedule reads one specific schedule. A missing file yields an
// empty schedule of the requested kind.
func (s *Session) LoadSchedule(ctx context.Context, kind model.ScheduleKind, date time.Time) (model.Schedule, error) {
	text, err := s.loadText(ctx, s.ScheduleFileName(kind, date))
	if err != nil {
		return model.Schedule{}, err
	}
	return model.Schedule{Kind: kind, Date: date, Items: records.ParseScheduleFile(text)}, nil
}

// LoadScheduleFor resolves the schedule in effect on a date: the
// date-specific override if one exists, otherwise the weekly default.
func (s *Session) LoadScheduleFor(ctx context.Context, date time.Time) (model.Schedule, error) {
	dated, err := s.loadTextStrict(ctx, s.ScheduleFileName(model.ScheduleDated, date))
	if err == nil {
		return model.Schedule{Kind: model.ScheduleDated, Date: dates.Midnight(date), Items: records.ParseScheduleFile(dated)}, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return model.Schedule{}, err
	}
	return s.LoadSchedule(ctx, model.ScheduleDefault, time.Time{})
}

// SaveSchedule persists a schedule as a full-file overwrite.
func (s *Session) SaveSchedule(ctx context.Context, sched model.Schedule) error {
	return s.saveText(ctx, s.ScheduleFileName(sched.Kind, sched.Date), records.EncodeScheduleFile(sched.Items))
}

// AddItem appends an item, enforcing name uniqueness (case-insensitive,
// trimmed) within the schedule.
func (s *Session) AddItem(sched *model.Schedule, item model.ScheduleItem) error {
	if findItem(sched.Items, item.Name) >= 0 {
		return fmt.Errorf("editor: item name %q already in use", item.Name)
	}
	sched.Items = append(sched.Items, item)
	return nil
}

// UpdateItem replaces the item with the given name.
func (s *Session) UpdateItem(sched *model.Schedule, name string, item model.ScheduleItem) error {
	i := findItem(sched.Items, name)
	if i < 0 {
		return fmt.Errorf("editor: no item named %q", name)
	}
	if !sameName(name, item.Name) && findItem(sched.Items, item.Name) >= 0 {
		return fmt.Errorf("editor: item name %q already in use", item.Name)
	}
	sched.Items[i] = item
	return nil
}

// DeleteItem removes the item with the given name.
func (s *Session) DeleteItem(sched *model.Schedule, name string) error {
	i := findItem(sched.Items, name)
	if i < 0 {
		return fmt.Errorf("editor: no item named %q", name)
	}
	sched.Items = append(sched.Items[:i], sched.Items[i+1:]...)
	return nil
}

// RemapDays rewrites every item's day set, moving fromDay to toDay. Used
// when a one-off calendar shift (holiday weeks and the like) moves a
// whole day's programming onto another weekday.
func (s *Session) RemapDays(sched *model.Schedule, fromDay, toDay int) error {
	if fromDay < 0 || fromDay > 6 || toDay < 0 || toDay > 6 {
		return fmt.Errorf("editor: weekday out of range (%d -> %d)", fromDay, toDay)
	}
	for i := range sched.Items {
		sched.Items[i].Days = remapDayDigits(sched.Items[i].Days, fromDay, toDay)
	}
	return nil
}

// ListImages returns the image directory listing and a name lookup set.
func (s *Session) ListImages(ctx context.Context) ([]store.Entry, map[string]bool, error) {
	entries, err := s.imageListing(ctx)
	if err != nil {
		return nil, nil, err
	}
	known := make(map[string]bool, len(entries))
	for _, e := range entries {
		known[e.Name] = true
	}
	return entries, known, nil
}

// LoadImage fetches the raw bytes of a named sign image. Implements the
// renderer's image loader.
func (s *Session) LoadImage(ctx context.Context, name string) ([]byte, error) {
	entries, err := s.imageListing(ctx)
	if err != nil {
		return nil, err
	}
	for _, e := range entries {
		if e.Name == name {
			return s.Store.FetchBytes(ctx, e.DownloadRef)
		}
	}
	return nil, fmt.Errorf("%w: image %s", store.ErrNotFound, name)
}

// Validate runs every check over the current store contents and returns
// the combined report. Store failures abort; findings never do.
func (s *Session) Validate(ctx context.Context, today time.Time) (validate.Report, error) {
	var report validate.Report

	_, known, err := s.ListImages(ctx)
	if err != nil {
		// Without a listing the dangling-image checks are skipped, but
		// the rest of the validation still runs.
		appLog.Warn("editor: image listing unavailable, skipping image checks", "reason", err)
		known = nil
	}

	events, err := s.LoadEvents(ctx)
	if err != nil {
		return report, err
	}
	report.Merge(validate.CheckEvents(events, today, known))

	recurring, err := s.LoadRecurring(ctx)
	if err != nil {
		return report, err
	}
	report.Merge(validate.CheckRecurring(recurring, known))

	sched, err := s.LoadSchedule(ctx, model.ScheduleDefault, time.Time{})
	if err != nil {
		return report, err
	}
	report.Merge(validate.CheckSchedule(sched.Items, known))

	return report, nil
}

// loadText reads a file, mapping a missing file to empty content.
func (s *Session) loadText(ctx context.Context, path string) (string, error) {
	text, err := s.loadTextStrict(ctx, path)
	if errors.Is(err, store.ErrNotFound) {
		return "", nil
	}
	return text, err
}

// loadTextStrict reads a file and records its revision for later writes.
func (s *Session) loadTextStrict(ctx context.Context, path string) (string, error) {
	f, err := s.Store.ReadFile(ctx, path)
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	s.revisions[path] = f.Revision
	s.mu.Unlock()
	return f.Content, nil
}

// saveText writes a file using the last seen revision token. An empty
// token creates the file.
func (s *Session) saveText(ctx context.Context, path, content string) error {
	s.mu.Lock()
	rev := s.revisions[path]
	s.mu.Unlock()

	newRev, err := s.Store.WriteFile(ctx, path, content, rev)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.revisions[path] = newRev
	s.mu.Unlock()
	return nil
}

func (s *Session) imageListing(ctx context.Context) ([]store.Entry, error) {
	s.imagesMu.Lock()
	defer s.imagesMu.Unlock()

	if s.imageEntries != nil && time.Since(s.imagesFetched) < imageListTTL {
		return s.imageEntries, nil
	}
	entries, err := s.Store.ListDirectory(ctx, s.Paths.ImagesDir)
	if err != nil {
		return nil, err
	}
	s.imageEntries = entries
	s.imagesFetched = time.Now()
	return entries, nil
}

func findItem(items []model.ScheduleItem, name string) int {
	for i, it := range items {
		if sameName(it.Name, name) {
			return i
		}
	}
	return -1
}

func sameName(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

// remapDayDigits moves one weekday digit to another, keeping the digit
// string sorted and free of duplicates.
func remapDayDigits(days string, fromDay, toDay int) string {
	var present [7]bool
	for _, r := range days {
		if r >= '0' && r <= '6' {
			present[r-'0'] = true
		}
	}
	if present[fromDay] {
		present[fromDay] = false
		present[toDay] = true
	}
	var b strings.Builder
	for d := 0; d < 7; d++ {
		if present[d] {
			b.WriteByte(byte('0' + d))
		}
	}
	return b.String()
}
