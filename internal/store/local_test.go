package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalReadMissingFile(t *testing.T) {
	l := NewLocal(t.TempDir())
	if _, err := l.ReadFile(context.Background(), "nope.csv"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ReadFile err = %v, want ErrNotFound", err)
	}
}

func TestLocalWriteThenRead(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	rev, err := l.WriteFile(ctx, "sub/data.csv", "hello\n", "")
	if err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if rev == "" {
		t.Fatal("WriteFile returned an empty revision")
	}

	f, err := l.ReadFile(ctx, "sub/data.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Content != "hello\n" {
		t.Fatalf("Content = %q, want %q", f.Content, "hello\n")
	}
	if f.Revision != rev {
		t.Fatalf("Revision = %q, want %q", f.Revision, rev)
	}
}

func TestLocalWriteConflict(t *testing.T) {
	l := NewLocal(t.TempDir())
	ctx := context.Background()

	rev, err := l.WriteFile(ctx, "data.csv", "v1", "")
	if err != nil {
		t.Fatalf("initial WriteFile: %v", err)
	}

	// A write with the current revision succeeds.
	rev2, err := l.WriteFile(ctx, "data.csv", "v2", rev)
	if err != nil {
		t.Fatalf("WriteFile with matching revision: %v", err)
	}

	// Reusing the stale revision conflicts.
	if _, err := l.WriteFile(ctx, "data.csv", "v3", rev); !errors.Is(err, ErrConflict) {
		t.Fatalf("stale WriteFile err = %v, want ErrConflict", err)
	}

	f, err := l.ReadFile(ctx, "data.csv")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if f.Content != "v2" || f.Revision != rev2 {
		t.Fatalf("file = %q/%q, want v2/%q", f.Content, f.Revision, rev2)
	}
}

func TestLocalListDirectory(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images", "nested"), 0o700); err != nil {
		t.Fatal(err)
	}
	for _, name := range []string{"b.bmp", "a.bmp"} {
		if err := os.WriteFile(filepath.Join(dir, "images", name), []byte("x"), 0o600); err != nil {
			t.Fatal(err)
		}
	}

	l := NewLocal(dir)
	entries, err := l.ListDirectory(context.Background(), "images")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	// Directories are skipped and names come back sorted.
	if len(entries) != 2 || entries[0].Name != "a.bmp" || entries[1].Name != "b.bmp" {
		t.Fatalf("entries = %#v, want [a.bmp b.bmp]", entries)
	}

	missing, err := l.ListDirectory(context.Background(), "absent")
	if err != nil {
		t.Fatalf("ListDirectory absent: %v", err)
	}
	if len(missing) != 0 {
		t.Fatalf("absent dir entries = %#v, want empty", missing)
	}
}

func TestLocalFetchBytes(t *testing.T) {
	dir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(dir, "images"), 0o700); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "images", "icon.bmp"), []byte{1, 2, 3}, 0o600); err != nil {
		t.Fatal(err)
	}

	l := NewLocal(dir)
	entries, err := l.ListDirectory(context.Background(), "images")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	data, err := l.FetchBytes(context.Background(), entries[0].DownloadRef)
	if err != nil {
		t.Fatalf("FetchBytes: %v", err)
	}
	if len(data) != 3 || data[0] != 1 {
		t.Fatalf("data = %v, want [1 2 3]", data)
	}

	if _, err := l.FetchBytes(context.Background(), "images/none.bmp"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("FetchBytes missing err = %v, want ErrNotFound", err)
	}
}
