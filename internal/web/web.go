// Package web exposes the admin console API: JSON views of the sign data,
// the validation report, a rendered PNG preview of the matrix, and an ICS
// export of the event files.
package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"sync/atomic"
	"time"

	"signadmin/internal/canvas"
	"signadmin/internal/config"
	"signadmin/internal/dates"
	"signadmin/internal/editor"
	"signadmin/internal/icalx"
	appLog "signadmin/internal/log"
	"signadmin/internal/model"
	"signadmin/internal/scene"
	"signadmin/internal/store"
	"signadmin/internal/timeline"
	"signadmin/internal/validate"
)

// Server provides the HTTP API over an editing session.
type Server struct {
	cfg      *config.Config
	session  *editor.Session
	renderer *scene.Renderer
	loc      *time.Location
	mux      *http.ServeMux

	// Cached /api/events response; data files change rarely relative to
	// UI polling.
	eventsMu    sync.RWMutex
	eventsCache *eventsCache

	// Last background-rendered frame plus the render generation counter
	// that lets a superseded refresh discard its own result.
	previewMu    sync.RWMutex
	previewFrame *canvas.Frame
	renderGen    atomic.Int64
}

const eventsCacheTTL = 30 * time.Second

// NewServer constructs a Server over a session and renderer.
func NewServer(cfg *config.Config, session *editor.Session, renderer *scene.Renderer, loc *time.Location) *Server {
	s := &Server{
		cfg:      cfg,
		session:  session,
		renderer: renderer,
		loc:      loc,
		mux:      http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler, wrapped with basic auth
// when configured.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="signadmin", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/events", s.handleEvents)
	s.mux.HandleFunc("/api/schedule", s.handleSchedule)
	s.mux.HandleFunc("/api/timeline", s.handleTimeline)
	s.mux.HandleFunc("/api/validate", s.handleValidate)
	s.mux.HandleFunc("/api/images", s.handleImages)
	s.mux.HandleFunc("/export.ics", s.handleExportICS)
	s.mux.HandleFunc("/preview.png", s.handlePreview)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

// eventDTO is the JSON view of a dated event. Index is its position in
// the file; events have no stable key.
type eventDTO struct {
	Index      int    `json:"index"`
	Date       string `json:"date"`
	TopLine    string `json:"top_line"`
	BottomLine string `json:"bottom_line"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	StartHour  int    `json:"start_hour"`
	EndHour    int    `json:"end_hour"`
}

// recurringDTO adds the derived next-occurrence date; it is never stored.
type recurringDTO struct {
	Index      int    `json:"index"`
	MonthDay   string `json:"month_day"`
	NextDate   string `json:"next_date,omitempty"`
	TopLine    string `json:"top_line"`
	BottomLine string `json:"bottom_line"`
	Icon       string `json:"icon"`
	Color      string `json:"color"`
	StartHour  int    `json:"start_hour"`
	EndHour    int    `json:"end_hour"`
}

type eventsResponse struct {
	Events    []eventDTO     `json:"events"`
	Recurring []recurringDTO `json:"recurring"`
	Timezone  string         `json:"timezone"`
}

type eventsCache struct {
	resp      eventsResponse
	updatedAt time.Time
}

// handleEvents serves both event files. PUT replaces the dated event file
// wholesale; the data model has no partial update.
func (s *Server) handleEvents(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleEventsGet(w, r)
	case http.MethodPut:
		s.handleEventsPut(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleEventsGet(w http.ResponseWriter, r *http.Request) {
	now := time.Now().In(s.loc)

	s.eventsMu.RLock()
	ec := s.eventsCache
	s.eventsMu.RUnlock()
	if ec != nil && time.Since(ec.updatedAt) < eventsCacheTTL {
		writeJSON(w, http.StatusOK, ec.resp)
		return
	}

	events, err := s.session.LoadEvents(r.Context())
	if err != nil {
		s.writeStoreError(w, "load events", err)
		return
	}
	recurring, err := s.session.LoadRecurring(r.Context())
	if err != nil {
		s.writeStoreError(w, "load recurring", err)
		return
	}

	resp := eventsResponse{
		Events:    make([]eventDTO, 0, len(events)),
		Recurring: make([]recurringDTO, 0, len(recurring)),
		Timezone:  s.loc.String(),
	}
	for i, ev := range events {
		resp.Events = append(resp.Events, eventDTO{
			Index:      i,
			Date:       dates.FormatISODate(ev.Date),
			TopLine:    ev.TopLine,
			BottomLine: ev.BottomLine,
			Icon:       ev.Icon,
			Color:      ev.Color,
			StartHour:  ev.StartHour,
			EndHour:    ev.EndHour,
		})
	}
	for i, rev := range recurring {
		dto := recurringDTO{
			Index:      i,
			MonthDay:   rev.MonthDay,
			TopLine:    rev.TopLine,
			BottomLine: rev.BottomLine,
			Icon:       rev.Icon,
			Color:      rev.Color,
			StartHour:  rev.StartHour,
			EndHour:    rev.EndHour,
		}
		if next, err := dates.NextOccurrence(rev.MonthDay, now); err == nil {
			dto.NextDate = dates.FormatISODate(next)
		}
		resp.Recurring = append(resp.Recurring, dto)
	}

	s.eventsMu.Lock()
	s.eventsCache = &eventsCache{resp: resp, updatedAt: time.Now()}
	s.eventsMu.Unlock()

	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleEventsPut(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Events []eventDTO `json:"events"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	events := make([]model.Event, 0, len(body.Events))
	for _, dto := range body.Events {
		date, err := dates.ParseISODate(dto.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid date "+dto.Date)
			return
		}
		ev := model.Event{
			Date:       date,
			TopLine:    dto.TopLine,
			BottomLine: dto.BottomLine,
			Icon:       dto.Icon,
			Color:      dto.Color,
			StartHour:  dto.StartHour,
			EndHour:    dto.EndHour,
		}
		events = append(events, ev)
	}

	if err := s.session.SaveEvents(r.Context(), events); err != nil {
		s.writeStoreError(w, "save events", err)
		return
	}

	s.eventsMu.Lock()
	s.eventsCache = nil
	s.eventsMu.Unlock()

	writeJSON(w, http.StatusOK, map[string]int{"saved": len(events)})
}

type scheduleItemDTO struct {
	Name        string `json:"name"`
	Enabled     bool   `json:"enabled"`
	Days        string `json:"days"`
	StartHour   int    `json:"start_hour"`
	StartMin    int    `json:"start_min"`
	EndHour     int    `json:"end_hour"`
	EndMin      int    `json:"end_min"`
	Image       string `json:"image"`
	ProgressBar bool   `json:"progress_bar"`
}

type scheduleResponse struct {
	Kind  string            `json:"kind"`
	Date  string            `json:"date,omitempty"`
	Items []scheduleItemDTO `json:"items"`
}

// handleSchedule serves the schedule in effect for ?date= (default:
// today). PUT overwrites the named schedule file in full.
func (s *Server) handleSchedule(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		s.handleScheduleGet(w, r)
	case http.MethodPut:
		s.handleSchedulePut(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *Server) handleScheduleGet(w http.ResponseWriter, r *http.Request) {
	date, err := s.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sched, err := s.session.LoadScheduleFor(r.Context(), date)
	if err != nil {
		s.writeStoreError(w, "load schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, scheduleToResponse(sched))
}

func (s *Server) handleSchedulePut(w http.ResponseWriter, r *http.Request) {
	var body scheduleResponse
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	sched := model.Schedule{Kind: model.ScheduleDefault}
	if body.Kind == "dated" {
		date, err := dates.ParseISODate(body.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "dated schedule needs a valid date")
			return
		}
		sched.Kind = model.ScheduleDated
		sched.Date = date
	}
	for _, dto := range body.Items {
		sched.Items = append(sched.Items, model.ScheduleItem{
			Name:        dto.Name,
			Enabled:     dto.Enabled,
			Days:        dto.Days,
			StartHour:   dto.StartHour,
			StartMin:    dto.StartMin,
			EndHour:     dto.EndHour,
			EndMin:      dto.EndMin,
			Image:       dto.Image,
			ProgressBar: dto.ProgressBar,
		})
	}

	if err := s.session.SaveSchedule(r.Context(), sched); err != nil {
		s.writeStoreError(w, "save schedule", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"saved": len(sched.Items)})
}

func scheduleToResponse(sched model.Schedule) scheduleResponse {
	resp := scheduleResponse{Kind: "default", Items: make([]scheduleItemDTO, 0, len(sched.Items))}
	if sched.Kind == model.ScheduleDated {
		resp.Kind = "dated"
		resp.Date = dates.FormatISODate(sched.Date)
	}
	for _, it := range sched.Items {
		resp.Items = append(resp.Items, scheduleItemDTO{
			Name:        it.Name,
			Enabled:     it.Enabled,
			Days:        it.Days,
			StartHour:   it.StartHour,
			StartMin:    it.StartMin,
			EndHour:     it.EndHour,
			EndMin:      it.EndMin,
			Image:       it.Image,
			ProgressBar: it.ProgressBar,
		})
	}
	return resp
}

type timelineEntryDTO struct {
	Kind        string `json:"kind"`
	Name        string `json:"name,omitempty"`
	StartMinute int    `json:"start_minute"`
	EndMinute   int    `json:"end_minute"`
	Overlapping bool   `json:"overlapping,omitempty"`
}

// handleTimeline returns the day timeline for ?date= (default today).
func (s *Server) handleTimeline(w http.ResponseWriter, r *http.Request) {
	date, err := s.queryDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sched, err := s.session.LoadScheduleFor(r.Context(), date)
	if err != nil {
		s.writeStoreError(w, "load schedule", err)
		return
	}

	entries := timeline.BuildDay(sched.Items, dates.WeekdayIndex(date))
	dtos := make([]timelineEntryDTO, 0, len(entries))
	for _, e := range entries {
		dto := timelineEntryDTO{
			Kind:        "gap",
			StartMinute: e.StartMinute,
			EndMinute:   e.EndMinute,
		}
		if e.Kind == timeline.EntryItem {
			dto.Kind = "item"
			dto.Name = e.Item.Name
			dto.Overlapping = e.Overlapping
		}
		dtos = append(dtos, dto)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"date":    dates.FormatISODate(date),
		"weekday": dates.WeekdayIndex(date),
		"entries": dtos,
	})
}

type issueDTO struct {
	Severity string `json:"severity"`
	Subject  string `json:"subject"`
	Message  string `json:"message"`
}

// handleValidate runs the validator over the store contents.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	report, err := s.session.Validate(r.Context(), time.Now().In(s.loc))
	if err != nil {
		s.writeStoreError(w, "validate", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string][]issueDTO{
		"errors":   issuesToDTO(report.Errors),
		"warnings": issuesToDTO(report.Warnings),
		"infos":    issuesToDTO(report.Infos),
	})
}

func issuesToDTO(issues []validate.Issue) []issueDTO {
	out := make([]issueDTO, 0, len(issues))
	for _, is := range issues {
		out = append(out, issueDTO{
			Severity: is.Severity.String(),
			Subject:  is.Subject,
			Message:  is.Message,
		})
	}
	return out
}

// handleImages lists the available sign images.
func (s *Server) handleImages(w http.ResponseWriter, r *http.Request) {
	entries, _, err := s.session.ListImages(r.Context())
	if err != nil {
		s.writeStoreError(w, "list images", err)
		return
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name)
	}
	writeJSON(w, http.StatusOK, map[string][]string{"images": names})
}

// handleExportICS serves the calendar feed.
func (s *Server) handleExportICS(w http.ResponseWriter, r *http.Request) {
	events, err := s.session.LoadEvents(r.Context())
	if err != nil {
		s.writeStoreError(w, "load events", err)
		return
	}
	recurring, err := s.session.LoadRecurring(r.Context())
	if err != nil {
		s.writeStoreError(w, "load recurring", err)
		return
	}

	feed := icalx.ExportCalendar(events, recurring, time.Now().In(s.loc))
	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(feed))
}

// handlePreview renders a frame as PNG.
//
//	GET /preview.png                  -> last background-rendered frame
//	GET /preview.png?event=2          -> dated event by index
//	GET /preview.png?recurring=0      -> recurring event by index
//	GET /preview.png?item=Lunch       -> schedule item by name, bar at now
//	GET /preview.png?scale=6          -> integer upscale (default config)
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	scale := parseIntDefault(q.Get("scale"), s.cfg.PreviewScale)

	frame := canvas.NewMatrixFrame()
	switch {
	case q.Get("event") != "":
		events, err := s.session.LoadEvents(r.Context())
		if err != nil {
			s.writeStoreError(w, "load events", err)
			return
		}
		i := parseIntDefault(q.Get("event"), -1)
		if i < 0 || i >= len(events) {
			writeError(w, http.StatusNotFound, "no event at that index")
			return
		}
		s.renderer.RenderEventFrame(r.Context(), frame, scene.ViewOfEvent(events[i]))

	case q.Get("recurring") != "":
		recurring, err := s.session.LoadRecurring(r.Context())
		if err != nil {
			s.writeStoreError(w, "load recurring", err)
			return
		}
		i := parseIntDefault(q.Get("recurring"), -1)
		if i < 0 || i >= len(recurring) {
			writeError(w, http.StatusNotFound, "no recurring event at that index")
			return
		}
		s.renderer.RenderEventFrame(r.Context(), frame, scene.ViewOfRecurring(recurring[i]))

	case q.Get("item") != "":
		date, err := s.queryDate(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		sched, err := s.session.LoadScheduleFor(r.Context(), date)
		if err != nil {
			s.writeStoreError(w, "load schedule", err)
			return
		}
		name := q.Get("item")
		found := false
		now := time.Now().In(s.loc)
		for _, it := range sched.Items {
			if it.Name == name {
				s.renderer.RenderScheduleFrame(r.Context(), frame, it, now.Hour()*60+now.Minute())
				found = true
				break
			}
		}
		if !found {
			writeError(w, http.StatusNotFound, "no schedule item named "+name)
			return
		}

	default:
		s.previewMu.RLock()
		last := s.previewFrame
		s.previewMu.RUnlock()
		if last == nil {
			// No background render yet; build one on the spot.
			if err := s.RefreshPreview(r.Context()); err != nil {
				s.writeStoreError(w, "render preview", err)
				return
			}
			s.previewMu.RLock()
			last = s.previewFrame
			s.previewMu.RUnlock()
		}
		frame = last
	}

	w.Header().Set("Content-Type", "image/png")
	sink := &canvas.PNGSink{W: w, Scale: scale}
	if err := frame.Flush(sink); err != nil {
		appLog.Error("preview encode failed", err)
	}
}

// RefreshPreview recomputes the current frame from store data. It is
// called by the cron refresher and on cold preview requests. Each call
// takes a new render generation; a call that finds itself superseded
// discards its frame so a slow stale render never overwrites a newer one.
func (s *Server) RefreshPreview(ctx context.Context) error {
	gen := s.renderGen.Add(1)
	now := time.Now().In(s.loc)

	events, err := s.session.LoadEvents(ctx)
	if err != nil {
		return err
	}
	recurring, err := s.session.LoadRecurring(ctx)
	if err != nil {
		return err
	}
	sched, err := s.session.LoadScheduleFor(ctx, now)
	if err != nil {
		return err
	}

	frame := canvas.NewMatrixFrame()
	s.renderer.RenderCurrent(ctx, frame, events, recurring, sched.Items, now)

	if s.renderGen.Load() != gen {
		appLog.Debug("discarding superseded preview render", "generation", gen)
		return nil
	}

	s.previewMu.Lock()
	s.previewFrame = frame
	s.previewMu.Unlock()

	appLog.Info("preview refreshed",
		"generation", gen,
		"events", len(events),
		"recurring", len(recurring),
		"schedule_items", len(sched.Items),
	)
	return nil
}

// queryDate parses ?date=YYYY-MM-DD, defaulting to today in the sign's
// timezone.
func (s *Server) queryDate(r *http.Request) (time.Time, error) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		return time.Now().In(s.loc), nil
	}
	date, err := dates.ParseISODate(raw)
	if err != nil {
		return time.Time{}, errors.New("invalid date, want YYYY-MM-DD")
	}
	return date, nil
}

// writeStoreError maps store failures onto HTTP statuses: a missing file
// is a 404 the UI can treat as "empty", anything else is a 502 from the
// backing service.
func (s *Server) writeStoreError(w http.ResponseWriter, op string, err error) {
	appLog.Error("api "+op+" failed", err)
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, op+": not found")
	case errors.Is(err, store.ErrConflict):
		writeError(w, http.StatusConflict, op+": edited elsewhere, reload first")
	default:
		writeError(w, http.StatusBadGateway, op+" failed")
	}
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	type errResp struct {
		Error string `json:"error"`
	}
	writeJSON(w, status, errResp{Error: msg})
}
