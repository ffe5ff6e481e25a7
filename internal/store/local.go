package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// Local serves sign data from a plain directory. Revisions are content
// hashes, so the same optimistic-concurrency contract holds as with the
// GitHub backend. Used for development runs and tests.
type Local struct {
	Dir string
}

// NewLocal builds a directory-backed store rooted at dir.
func NewLocal(dir string) *Local {
	return &Local{Dir: dir}
}

func (l *Local) ReadFile(_ context.Context, path string) (File, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, filepath.FromSlash(path)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return File{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return File{}, &ServiceError{Op: "read " + path, Err: err}
	}
	return File{Content: string(data), Revision: contentRevision(data)}, nil
}

func (l *Local) WriteFile(_ context.Context, path, content, revision string) (string, error) {
	full := filepath.Join(l.Dir, filepath.FromSlash(path))

	if revision != "" {
		current, err := os.ReadFile(full)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("%w: %s", ErrNotFound, path)
			}
			return "", &ServiceError{Op: "write " + path, Err: err}
		}
		if contentRevision(current) != revision {
			return "", fmt.Errorf("%w: %s", ErrConflict, path)
		}
	}

	if err := os.MkdirAll(filepath.Dir(full), 0o700); err != nil {
		return "", &ServiceError{Op: "write " + path, Err: err}
	}
	if err := os.WriteFile(full, []byte(content), 0o600); err != nil {
		return "", &ServiceError{Op: "write " + path, Err: err}
	}
	return contentRevision([]byte(content)), nil
}

func (l *Local) ListDirectory(_ context.Context, path string) ([]Entry, error) {
	full := filepath.Join(l.Dir, filepath.FromSlash(path))
	items, err := os.ReadDir(full)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []Entry{}, nil
		}
		return nil, &ServiceError{Op: "list " + path, Err: err}
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.IsDir() {
			continue
		}
		entries = append(entries, Entry{
			Name:        item.Name(),
			DownloadRef: path + "/" + item.Name(),
		})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name < entries[j].Name })
	return entries, nil
}

func (l *Local) FetchBytes(_ context.Context, ref string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(l.Dir, filepath.FromSlash(ref)))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
		}
		return nil, &ServiceError{Op: "fetch " + ref, Err: err}
	}
	return data, nil
}

// contentRevision derives a stable revision token from file bytes.
func contentRevision(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:8])
}
