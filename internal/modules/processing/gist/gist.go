// Package gist resolves embedded gists into fenced-code markdown.
package gist

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"strings"
	"time"
)

const defaultAPIBase = "https://api.github.com/gists"

// gistFile is one file entry in the gist API response.
type gistFile struct {
	Language string `json:"language"`
	Content  string `json:"content"`
}

type gistResponse struct {
	Files map[string]gistFile `json:"files"`
}

// Resolver fetches gist metadata from the public gist API.
type Resolver struct {
	client  *http.Client
	apiBase string
}

// NewResolver wires an HTTP client; a nil client gets a 10s timeout default.
func NewResolver(client *http.Client) *Resolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &Resolver{client: client, apiBase: defaultAPIBase}
}

// SetAPIBase overrides the gist API base URL. Used by tests.
func (r *Resolver) SetAPIBase(base string) {
	r.apiBase = strings.TrimRight(base, "/")
}

// Resolve renders every file of the gist as a fenced code block tagged with
// the file's language (lower-cased), joined by blank lines. Files are sorted
// by filename so output is stable across calls. An empty result with a nil
// error means the gist has no files.
func (r *Resolver) Resolve(id string) (string, error) {
	resp, err := r.client.Get(r.apiBase + "/" + id)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("gist %s: unexpected status %s", id, resp.Status)
	}

	var data gistResponse
	if err := json.NewDecoder(resp.Body).Decode(&data); err != nil {
		return "", fmt.Errorf("gist %s: decode response: %w", id, err)
	}

	names := make([]string, 0, len(data.Files))
	for name := range data.Files {
		names = append(names, name)
	}
	sort.Strings(names)

	blocks := make([]string, 0, len(names))
	for _, name := range names {
		f := data.Files[name]
		blocks = append(blocks, renderFence(f))
	}
	return strings.Join(blocks, "\n\n"), nil
}

func renderFence(f gistFile) string {
	var b strings.Builder
	b.WriteString("```")
	b.WriteString(strings.ToLower(f.Language))
	b.WriteString("\n")
	b.WriteString(f.Content)
	if !strings.HasSuffix(f.Content, "\n") {
		b.WriteString("\n")
	}
	b.WriteString("```")
	return b.String()
}
