package gist

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestResolver(t *testing.T, handler http.HandlerFunc) *Resolver {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	r := NewResolver(srv.Client())
	r.SetAPIBase(srv.URL)
	return r
}

func TestResolveSingleFile(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		assert.Equal(t, "/abc123", req.URL.Path)
		w.Write([]byte(`{"files": {"foo.py": {"language": "Python", "content": "print(1)"}}}`))
	})

	md, err := r.Resolve("abc123")
	require.NoError(t, err)
	assert.Equal(t, "```python\nprint(1)\n```", md)
}

func TestResolveSortsFilesByName(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"files": {
			"b.go": {"language": "Go", "content": "package b"},
			"a.rb": {"language": "Ruby", "content": "puts 1"}
		}}`))
	})

	md, err := r.Resolve("deadbeef")
	require.NoError(t, err)
	assert.Equal(t, "```ruby\nputs 1\n```\n\n```go\npackage b\n```", md)
}

func TestResolveEmptyGist(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte(`{"files": {}}`))
	})

	md, err := r.Resolve("empty")
	require.NoError(t, err)
	assert.Empty(t, md)
}

func TestResolveHTTPError(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})

	_, err := r.Resolve("missing")
	assert.Error(t, err)
}

func TestResolveBadJSON(t *testing.T) {
	r := newTestResolver(t, func(w http.ResponseWriter, req *http.Request) {
		w.Write([]byte("<!doctype html>"))
	})

	_, err := r.Resolve("garbled")
	assert.Error(t, err)
}
