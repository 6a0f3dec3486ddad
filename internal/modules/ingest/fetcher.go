package ingest

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// ErrUnsupportedScheme marks source URLs the fetcher cannot request, such as
// data: URIs or scheme-less paths inside scraped documents.
var ErrUnsupportedScheme = errors.New("unsupported url scheme")

const (
	dropboxViewHost     = "https://www.dropbox.com"
	dropboxDownloadHost = "https://dl.dropbox.com"
)

// RewriteAlias maps known alias hosts to their direct-download equivalents.
// Currently the only rule is the Dropbox viewer domain.
func RewriteAlias(raw string) string {
	if strings.HasPrefix(raw, dropboxViewHost) {
		return dropboxDownloadHost + strings.TrimPrefix(raw, dropboxViewHost)
	}
	return raw
}

// Fetcher performs blocking GETs against remote content: scraped markdown,
// embedded images, and anything else the pipeline pulls in.
type Fetcher struct {
	client *http.Client
}

// NewFetcher wires an HTTP client with the given timeout. Expiry surfaces as
// an ordinary fetch error.
func NewFetcher(timeout time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 20 * time.Second
	}
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Client exposes the underlying HTTP client for collaborators that share the
// same timeout policy.
func (f *Fetcher) Client() *http.Client { return f.client }

// Fetch GETs the URL after alias rewriting and returns the body and response
// headers. Non-2xx statuses are errors.
func (f *Fetcher) Fetch(raw string) ([]byte, http.Header, error) {
	target := RewriteAlias(raw)

	u, err := url.Parse(target)
	if err != nil {
		return nil, nil, fmt.Errorf("parse %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, nil, fmt.Errorf("%q: %w", raw, ErrUnsupportedScheme)
	}

	resp, err := f.client.Get(target)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("fetch %s: unexpected status %s", target, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, err
	}
	return body, resp.Header, nil
}
