// Package store abstracts where the sign data lives. The production
// backend is a GitHub repository driven through the Contents API (the
// repository doubles as the sign's database); a local directory backend
// serves development and tests.
package store

import (
	"context"
	"errors"
	"fmt"
)

// ErrNotFound marks a missing file or directory. Callers rely on the
// distinction to treat "no events yet" as an empty state, not a broken
// one.
var ErrNotFound = errors.New("store: not found")

// ErrConflict marks a write whose revision token no longer matches the
// stored file, i.e. someone else wrote in between.
var ErrConflict = errors.New("store: revision conflict")

// ServiceError wraps any other backend failure.
type ServiceError struct {
	Op     string
	Status int
	Err    error
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("store: %s: status %d", e.Op, e.Status)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// File is a read result: the text content plus the revision token to pass
// back on write for optimistic concurrency.
type File struct {
	Content  string
	Revision string
}

// Entry is one directory listing element. DownloadRef is an opaque
// reference usable with FetchBytes.
type Entry struct {
	Name        string
	DownloadRef string
}

// Store is the persistence collaborator the rest of the system consumes.
type Store interface {
	// ReadFile returns a file's content and revision token.
	ReadFile(ctx context.Context, path string) (File, error)
	// WriteFile overwrites a file and returns the new revision token.
	// An empty revision creates the file.
	WriteFile(ctx context.Context, path, content, revision string) (string, error)
	// ListDirectory lists a directory; a missing directory yields an
	// empty slice, not an error.
	ListDirectory(ctx context.Context, path string) ([]Entry, error)
	// FetchBytes retrieves raw bytes (bitmap assets) by download ref.
	FetchBytes(ctx context.Context, ref string) ([]byte, error)
}
