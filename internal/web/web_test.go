package web

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"signadmin/internal/config"
	"signadmin/internal/editor"
	"signadmin/internal/font"
	"signadmin/internal/model"
	"signadmin/internal/scene"
	"signadmin/internal/store"
)

func newTestServer(t *testing.T) (*Server, *editor.Session) {
	t.Helper()
	cfg := config.DefaultConfig()
	session := editor.NewSession(store.NewLocal(t.TempDir()), editor.DefaultPaths())
	renderer := scene.NewRenderer(font.Matrix, session)
	return NewServer(cfg, session, renderer, time.UTC), session
}

func doJSON(t *testing.T, h http.Handler, method, target, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	var reqBody *strings.Reader
	if body == "" {
		reqBody = strings.NewReader("")
	} else {
		reqBody = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reqBody)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var decoded map[string]any
	if ct := rec.Header().Get("Content-Type"); strings.HasPrefix(ct, "application/json") {
		if err := json.Unmarshal(rec.Body.Bytes(), &decoded); err != nil {
			t.Fatalf("%s %s: decode response: %v", method, target, err)
		}
	}
	return rec, decoded
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if rec.Body.String() != "OK" {
		t.Fatalf("body = %q, want OK", rec.Body.String())
	}
}

func TestEventsPutThenGet(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	put := `{"events":[{"date":"2025-06-15","top_line":"BDAY","bottom_line":"ALEX","color":"yellow","start_hour":0,"end_hour":23}]}`
	rec, body := doJSON(t, h, http.MethodPut, "/api/events", put)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}
	if body["saved"].(float64) != 1 {
		t.Fatalf("saved = %v, want 1", body["saved"])
	}

	rec, body = doJSON(t, h, http.MethodGet, "/api/events", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	events := body["events"].([]any)
	if len(events) != 1 {
		t.Fatalf("len(events) = %d, want 1", len(events))
	}
	ev := events[0].(map[string]any)
	if ev["top_line"] != "BDAY" || ev["date"] != "2025-06-15" {
		t.Fatalf("event = %#v", ev)
	}
}

func TestEventsPutInvalidDate(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodPut, "/api/events",
		`{"events":[{"date":"junk","top_line":"X","color":"red"}]}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestEventsGetIncludesNextOccurrence(t *testing.T) {
	s, session := newTestServer(t)
	err := session.SaveRecurring(context.Background(), []model.RecurringEvent{
		{MonthDay: "12-25", TopLine: "XMAS", Color: "red",
			StartHour: model.DefaultStartHour, EndHour: model.DefaultEndHour},
	})
	if err != nil {
		t.Fatalf("SaveRecurring: %v", err)
	}

	_, body := doJSON(t, s.Handler(), http.MethodGet, "/api/events", "")
	recurring := body["recurring"].([]any)
	if len(recurring) != 1 {
		t.Fatalf("len(recurring) = %d, want 1", len(recurring))
	}
	next := recurring[0].(map[string]any)["next_date"].(string)
	if !strings.HasSuffix(next, "-12-25") {
		t.Fatalf("next_date = %q, want a December 25th", next)
	}
}

func TestSchedulePutThenTimeline(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	put := `{"kind":"default","items":[
		{"name":"Morning","enabled":true,"days":"0123456","start_hour":8,"start_min":0,"end_hour":9,"end_min":0},
		{"name":"Lunch","enabled":true,"days":"0123456","start_hour":12,"start_min":0,"end_hour":13,"end_min":0}
	]}`
	rec, _ := doJSON(t, h, http.MethodPut, "/api/schedule", put)
	if rec.Code != http.StatusOK {
		t.Fatalf("PUT status = %d: %s", rec.Code, rec.Body.String())
	}

	rec, body := doJSON(t, h, http.MethodGet, "/api/timeline?date=2025-06-16", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("GET status = %d", rec.Code)
	}
	if body["weekday"].(float64) != 0 { // 2025-06-16 is a Monday
		t.Fatalf("weekday = %v, want 0", body["weekday"])
	}
	entries := body["entries"].([]any)
	// gap, item, gap, item, gap
	if len(entries) != 5 {
		t.Fatalf("len(entries) = %d, want 5", len(entries))
	}
	first := entries[0].(map[string]any)
	if first["kind"] != "gap" || first["end_minute"].(float64) != 480 {
		t.Fatalf("first entry = %#v, want gap ending at 480", first)
	}
}

func TestScheduleGetPrefersDatedOverride(t *testing.T) {
	s, _ := newTestServer(t)
	h := s.Handler()

	doJSON(t, h, http.MethodPut, "/api/schedule",
		`{"kind":"default","items":[{"name":"Usual","enabled":true,"days":"0123456"}]}`)
	doJSON(t, h, http.MethodPut, "/api/schedule",
		`{"kind":"dated","date":"2025-06-16","items":[{"name":"Holiday","enabled":true,"days":"0123456"}]}`)

	_, body := doJSON(t, h, http.MethodGet, "/api/schedule?date=2025-06-16", "")
	if body["kind"] != "dated" {
		t.Fatalf("kind = %v, want dated", body["kind"])
	}
	items := body["items"].([]any)
	if len(items) != 1 || items[0].(map[string]any)["name"] != "Holiday" {
		t.Fatalf("items = %#v, want [Holiday]", items)
	}

	_, body = doJSON(t, h, http.MethodGet, "/api/schedule?date=2025-06-17", "")
	if body["kind"] != "default" {
		t.Fatalf("kind = %v, want default fallback", body["kind"])
	}
}

func TestTimelineBadDate(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodGet, "/api/timeline?date=junk", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestValidateEndpoint(t *testing.T) {
	s, session := newTestServer(t)
	err := session.SaveEvents(context.Background(), []model.Event{
		{Date: time.Now().AddDate(0, 0, 1), TopLine: "X", Color: "not-a-color",
			StartHour: model.DefaultStartHour, EndHour: model.DefaultEndHour},
	})
	if err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	rec, body := doJSON(t, s.Handler(), http.MethodGet, "/api/validate", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if errs := body["errors"].([]any); len(errs) != 1 {
		t.Fatalf("errors = %#v, want 1 finding", errs)
	}
}

func TestExportICS(t *testing.T) {
	s, session := newTestServer(t)
	err := session.SaveEvents(context.Background(), []model.Event{
		{Date: time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC),
			TopLine: "NYD", Color: "white",
			StartHour: model.DefaultStartHour, EndHour: model.DefaultEndHour},
	})
	if err != nil {
		t.Fatalf("SaveEvents: %v", err)
	}

	rec, _ := doJSON(t, s.Handler(), http.MethodGet, "/export.ics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/calendar") {
		t.Fatalf("Content-Type = %q, want text/calendar", ct)
	}
	if !strings.Contains(rec.Body.String(), "SUMMARY:NYD") {
		t.Fatal("feed missing the event summary")
	}
}

func TestPreviewRendersPNG(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodGet, "/preview.png?scale=1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q, want image/png", ct)
	}
	body := rec.Body.Bytes()
	if len(body) < 8 || body[1] != 'P' || body[2] != 'N' || body[3] != 'G' {
		t.Fatal("body is not a PNG")
	}
}

func TestPreviewUnknownEventIndex(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodGet, "/preview.png?event=5", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestBasicAuth(t *testing.T) {
	s, _ := newTestServer(t)
	s.cfg.BasicAuth = &config.BasicAuthConfig{Username: "admin", Password: "secret"}
	h := s.Handler()

	// /health stays open.
	rec, _ := doJSON(t, h, http.MethodGet, "/health", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/api/events", nil)
	rec2 := httptest.NewRecorder()
	h.ServeHTTP(rec2, req)
	if rec2.Code != http.StatusUnauthorized {
		t.Fatalf("unauthenticated status = %d, want 401", rec2.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events", nil)
	req.SetBasicAuth("admin", "secret")
	rec3 := httptest.NewRecorder()
	h.ServeHTTP(rec3, req)
	if rec3.Code != http.StatusOK {
		t.Fatalf("authenticated status = %d, want 200", rec3.Code)
	}
}

func TestMethodNotAllowed(t *testing.T) {
	s, _ := newTestServer(t)
	rec, _ := doJSON(t, s.Handler(), http.MethodDelete, "/api/events", "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
