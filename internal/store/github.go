package store

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	appLog "signadmin/internal/log"
)

const defaultAPIBase = "https://api.github.com"

// GitHub stores sign data as files in a GitHub repository via the
// Contents API. The file's blob SHA is the revision token.
type GitHub struct {
	client *http.Client

	APIBase string
	Owner   string
	Repo    string
	Branch  string
	Token   string
}

// NewGitHub builds a GitHub-backed store for owner/repo on branch.
func NewGitHub(owner, repo, branch, token string) *GitHub {
	return &GitHub{
		client:  &http.Client{Timeout: 15 * time.Second},
		APIBase: defaultAPIBase,
		Owner:   owner,
		Repo:    repo,
		Branch:  branch,
		Token:   token,
	}
}

// contentsResponse is the subset of the Contents API file response we use.
type contentsResponse struct {
	Name        string `json:"name"`
	SHA         string `json:"sha"`
	Encoding    string `json:"encoding"`
	Content     string `json:"content"`
	DownloadURL string `json:"download_url"`
	Type        string `json:"type"`
}

// writeRequest is the PUT body for creating or updating a file.
type writeRequest struct {
	Message string `json:"message"`
	Content string `json:"content"`
	Branch  string `json:"branch,omitempty"`
	SHA     string `json:"sha,omitempty"`
}

// writeResponse is the subset of the PUT response we use.
type writeResponse struct {
	Content struct {
		SHA string `json:"sha"`
	} `json:"content"`
}

// ReadFile fetches a file's decoded content and its blob SHA.
func (g *GitHub) ReadFile(ctx context.Context, path string) (File, error) {
	body, status, err := g.do(ctx, http.MethodGet, g.contentsURL(path), nil)
	if err != nil {
		return File{}, err
	}
	if status == http.StatusNotFound {
		return File{}, fmt.Errorf("%w: %s", ErrNotFound, path)
	}
	if status != http.StatusOK {
		return File{}, &ServiceError{Op: "read " + path, Status: status}
	}

	var resp contentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return File{}, &ServiceError{Op: "read " + path, Err: err}
	}

	content, err := decodeContent(resp)
	if err != nil {
		return File{}, &ServiceError{Op: "read " + path, Err: err}
	}
	return File{Content: content, Revision: resp.SHA}, nil
}

// WriteFile overwrites (or, with an empty revision, creates) a file. The
// backend surfaces a stale revision as ErrConflict; last-write-wins is
// the caller's call, not ours.
func (g *GitHub) WriteFile(ctx context.Context, path, content, revision string) (string, error) {
	req := writeRequest{
		Message: "signadmin: update " + path,
		Content: base64.StdEncoding.EncodeToString([]byte(content)),
		Branch:  g.Branch,
		SHA:     revision,
	}
	payload, err := json.Marshal(req)
	if err != nil {
		return "", &ServiceError{Op: "write " + path, Err: err}
	}

	body, status, err := g.do(ctx, http.MethodPut, g.contentsURL(path), payload)
	if err != nil {
		return "", err
	}
	switch status {
	case http.StatusOK, http.StatusCreated:
	case http.StatusNotFound:
		return "", fmt.Errorf("%w: %s", ErrNotFound, path)
	case http.StatusConflict, http.StatusUnprocessableEntity:
		return "", fmt.Errorf("%w: %s", ErrConflict, path)
	default:
		return "", &ServiceError{Op: "write " + path, Status: status}
	}

	var resp writeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", &ServiceError{Op: "write " + path, Err: err}
	}
	return resp.Content.SHA, nil
}

// ListDirectory lists a repository directory. A missing directory is an
// empty listing.
func (g *GitHub) ListDirectory(ctx context.Context, path string) ([]Entry, error) {
	body, status, err := g.do(ctx, http.MethodGet, g.contentsURL(path), nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return []Entry{}, nil
	}
	if status != http.StatusOK {
		return nil, &ServiceError{Op: "list " + path, Status: status}
	}

	var items []contentsResponse
	if err := json.Unmarshal(body, &items); err != nil {
		return nil, &ServiceError{Op: "list " + path, Err: err}
	}

	entries := make([]Entry, 0, len(items))
	for _, item := range items {
		if item.Type != "" && item.Type != "file" {
			continue
		}
		entries = append(entries, Entry{Name: item.Name, DownloadRef: item.DownloadURL})
	}
	return entries, nil
}

// FetchBytes downloads raw bytes from a listing's download ref.
func (g *GitHub) FetchBytes(ctx context.Context, ref string) ([]byte, error) {
	body, status, err := g.do(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, err
	}
	if status == http.StatusNotFound {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if status != http.StatusOK {
		return nil, &ServiceError{Op: "fetch " + ref, Status: status}
	}
	return body, nil
}

func (g *GitHub) contentsURL(path string) string {
	u := fmt.Sprintf("%s/repos/%s/%s/contents/%s",
		g.APIBase, g.Owner, g.Repo, strings.TrimPrefix(path, "/"))
	if g.Branch != "" {
		u += "?ref=" + url.QueryEscape(g.Branch)
	}
	return u
}

// do performs one API request, returning the body and status. Transport
// failures come back as ServiceError; HTTP status handling stays with the
// caller because 404 means different things per operation.
func (g *GitHub) do(ctx context.Context, method, rawURL string, payload []byte) ([]byte, int, error) {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return nil, 0, &ServiceError{Op: method + " " + rawURL, Err: err}
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	appLog.Debug("store: github request", "method", method, "url", rawURL)

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, 0, &ServiceError{Op: method + " " + rawURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, &ServiceError{Op: method + " " + rawURL, Err: err}
	}
	return body, resp.StatusCode, nil
}

// decodeContent unwraps the base64 file payload the Contents API returns.
// GitHub inserts newlines into the base64 text; strip them first.
func decodeContent(resp contentsResponse) (string, error) {
	if resp.Encoding != "" && resp.Encoding != "base64" {
		return "", fmt.Errorf("unexpected content encoding %q", resp.Encoding)
	}
	raw := strings.ReplaceAll(resp.Content, "\n", "")
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return "", err
	}
	return string(decoded), nil
}
