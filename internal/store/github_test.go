package store

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestGitHub(handler http.Handler) (*GitHub, *httptest.Server) {
	srv := httptest.NewServer(handler)
	g := NewGitHub("owner", "repo", "main", "tok")
	g.APIBase = srv.URL
	return g, srv
}

func TestGitHubReadFile(t *testing.T) {
	var gotPath, gotAuth, gotRef string
	g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		gotRef = r.URL.Query().Get("ref")
		// GitHub wraps base64 content with newlines.
		content := base64.StdEncoding.EncodeToString([]byte("hello,world\n"))
		resp := map[string]any{
			"name":     "events.csv",
			"sha":      "abc123",
			"encoding": "base64",
			"content":  content[:8] + "\n" + content[8:],
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer srv.Close()

	f, err := g.ReadFile(context.Background(), "events.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Content != "hello,world\n" {
		t.Fatalf("Content = %q, want hello,world", f.Content)
	}
	if f.Revision != "abc123" {
		t.Fatalf("Revision = %q, want abc123", f.Revision)
	}
	if gotPath != "/repos/owner/repo/contents/events.csv" {
		t.Fatalf("request path = %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Fatalf("Authorization = %q, want Bearer tok", gotAuth)
	}
	if gotRef != "main" {
		t.Fatalf("ref = %q, want main", gotRef)
	}
}

func TestGitHubReadFileNotFound(t *testing.T) {
	g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	if _, err := g.ReadFile(context.Background(), "missing.csv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadFile err = %v, want ErrNotFound", err)
	}
}

func TestGitHubWriteFile(t *testing.T) {
	var gotBody writeRequest
	g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			t.Errorf("method = %s, want PUT", r.Method)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": map[string]any{"sha": "newsha"},
		})
	}))
	defer srv.Close()

	rev, err := g.WriteFile(context.Background(), "events.csv", "data", "oldsha")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if rev != "newsha" {
		t.Fatalf("revision = %q, want newsha", rev)
	}
	if gotBody.SHA != "oldsha" || gotBody.Branch != "main" {
		t.Fatalf("request body = %+v, want sha oldsha on main", gotBody)
	}
	decoded, err := base64.StdEncoding.DecodeString(gotBody.Content)
	if err != nil || string(decoded) != "data" {
		t.Fatalf("content = %q/%v, want base64 of data", gotBody.Content, err)
	}
}

func TestGitHubWriteFileConflict(t *testing.T) {
	for _, status := range []int{http.StatusConflict, http.StatusUnprocessableEntity} {
		g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(status)
		}))
		_, err := g.WriteFile(context.Background(), "events.csv", "data", "stale")
		srv.Close()
		if !errors.Is(err, ErrConflict) {
			t.Fatalf("status %d: err = %v, want ErrConflict", status, err)
		}
	}
}

func TestGitHubListDirectory(t *testing.T) {
	g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"name": "a.bmp", "type": "file", "download_url": "http://x/a.bmp"},
			{"name": "nested", "type": "dir"},
			{"name": "b.bmp", "type": "file", "download_url": "http://x/b.bmp"},
		})
	}))
	defer srv.Close()

	entries, err := g.ListDirectory(context.Background(), "images")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2 (dir filtered)", len(entries))
	}
	if entries[0].Name != "a.bmp" || entries[0].DownloadRef != "http://x/a.bmp" {
		t.Fatalf("entries[0] = %#v", entries[0])
	}
}

func TestGitHubListDirectoryMissingIsEmpty(t *testing.T) {
	g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.NotFound(w, r)
	}))
	defer srv.Close()

	entries, err := g.ListDirectory(context.Background(), "absent")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("entries = %#v, want empty", entries)
	}
}

func TestGitHubFetchBytes(t *testing.T) {
	g, srv := newTestGitHub(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte{1, 2, 3})
	}))
	defer srv.Close()

	data, err := g.FetchBytes(context.Background(), srv.URL+"/raw/a.bmp")
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("data = %v, want 3 bytes", data)
	}
}

func TestServiceErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := &ServiceError{Op: "read x", Err: inner}
	if !errors.Is(err, inner) {
		t.Fatal("ServiceError does not unwrap to its cause")
	}
	if err.Error() == "" {
		t.Fatal("ServiceError has an empty message")
	}
}
