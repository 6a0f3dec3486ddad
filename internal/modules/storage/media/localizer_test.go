package media

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"image"
	"image/png"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeFetcher serves canned responses and counts fetches per URL.
type fakeFetcher struct {
	responses map[string]fakeResponse
	hits      map[string]int
}

type fakeResponse struct {
	body     []byte
	fileName string
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		responses: map[string]fakeResponse{},
		hits:      map[string]int{},
	}
}

func (f *fakeFetcher) Fetch(url string) ([]byte, http.Header, error) {
	f.hits[url]++
	resp, ok := f.responses[url]
	if !ok {
		return nil, nil, fmt.Errorf("fetch %s: unexpected status 404 Not Found", url)
	}
	header := http.Header{}
	if resp.fileName != "" {
		header.Set("x-file-name", resp.fileName)
	}
	return resp.body, header, nil
}

func newTestLocalizer(t *testing.T, fetcher Fetcher) (*Localizer, string) {
	t.Helper()
	root := t.TempDir()
	l := NewLocalizer(Options{
		Root:      root,
		URLPrefix: "/media/",
		MaxWidth:  1200,
		MaxHeight: 1200,
	}, fetcher, nil)
	return l, root
}

func hashedName(t *testing.T, urlPath string) string {
	t.Helper()
	sum := md5.Sum([]byte(urlPath))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

func TestLocalizeRewritesAndStores(t *testing.T) {
	src := "https://cdn.example.com/photos/cat.png"
	fetcher := newFakeFetcher()
	fetcher.responses[src] = fakeResponse{body: []byte("image-bytes")}

	l, root := newTestLocalizer(t, fetcher)

	html := `<p>hi</p><img src="` + src + `">`
	content := "hi\n\n![](" + src + ")"

	newHTML, newContent, err := l.Localize("d42", html, content)
	require.NoError(t, err)

	wantName := hashedName(t, "/photos/cat.png")
	wantURL := "/media/draftin/img/d42/" + wantName

	assert.Contains(t, newHTML, `src="`+wantURL+`"`)
	assert.NotContains(t, newHTML, src)
	assert.Contains(t, newContent, wantURL)
	assert.NotContains(t, newContent, src)

	stored, err := os.ReadFile(filepath.Join(root, "draftin/img/d42", wantName))
	require.NoError(t, err)
	assert.Equal(t, "image-bytes", string(stored))
}

func TestLocalizePrefersFileNameHeader(t *testing.T) {
	src := "https://cdn.example.com/x"
	fetcher := newFakeFetcher()
	fetcher.responses[src] = fakeResponse{body: []byte("b"), fileName: "diagram.png"}

	l, root := newTestLocalizer(t, fetcher)

	newHTML, _, err := l.Localize("d1", `<img src="`+src+`">`, "")
	require.NoError(t, err)

	assert.Contains(t, newHTML, `src="/media/draftin/img/d1/diagram.png"`)
	_, err = os.Stat(filepath.Join(root, "draftin/img/d1/diagram.png"))
	assert.NoError(t, err)
}

func TestLocalizeIdempotent(t *testing.T) {
	src := "https://cdn.example.com/a.jpg"
	fetcher := newFakeFetcher()
	fetcher.responses[src] = fakeResponse{body: []byte("b")}

	l, _ := newTestLocalizer(t, fetcher)

	html1, content1, err := l.Localize("d1", `<img src="`+src+`">`, src)
	require.NoError(t, err)

	// Second run sees only local URLs; nothing is fetched again.
	html2, content2, err := l.Localize("d1", html1, content1)
	require.NoError(t, err)

	assert.Equal(t, html1, html2)
	assert.Equal(t, content1, content2)
	assert.Equal(t, 1, fetcher.hits[src])
}

func TestLocalizeSkipsExistingFile(t *testing.T) {
	src := "https://cdn.example.com/pic.gif"
	fetcher := newFakeFetcher()
	fetcher.responses[src] = fakeResponse{body: []byte("fresh")}

	l, root := newTestLocalizer(t, fetcher)

	name := hashedName(t, "/pic.gif")
	dir := filepath.Join(root, "draftin/img/d9")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("original"), 0o644))

	newHTML, _, err := l.Localize("d9", `<img src="`+src+`">`, "")
	require.NoError(t, err)

	// Reference is rewritten but the present file is not overwritten.
	assert.Contains(t, newHTML, "/media/draftin/img/d9/"+name)
	stored, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	assert.Equal(t, "original", string(stored))
}

func TestLocalizeSkipsFailingImage(t *testing.T) {
	good := "https://cdn.example.com/good.png"
	bad := "https://cdn.example.com/bad.png"
	fetcher := newFakeFetcher()
	fetcher.responses[good] = fakeResponse{body: []byte("g")}

	l, _ := newTestLocalizer(t, fetcher)

	html := `<img src="` + bad + `"><img src="` + good + `">`
	newHTML, _, err := l.Localize("d1", html, "")
	require.NoError(t, err)

	// The failing image keeps its remote reference; the rest proceeds.
	assert.Contains(t, newHTML, `src="`+bad+`"`)
	assert.Contains(t, newHTML, "/media/draftin/img/d1/")
}

func encodePNG(t *testing.T, width, height int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, width, height))))
	return buf.Bytes()
}

func decodeStoredConfig(t *testing.T, path string) image.Config {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	cfg, _, err := image.DecodeConfig(f)
	require.NoError(t, err)
	return cfg
}

func TestLocalizeResizesOversizedImage(t *testing.T) {
	src := "https://cdn.example.com/wide"
	fetcher := newFakeFetcher()
	fetcher.responses[src] = fakeResponse{body: encodePNG(t, 3000, 150), fileName: "wide.png"}

	l, root := newTestLocalizer(t, fetcher)

	_, _, err := l.Localize("d1", `<img src="`+src+`">`, "")
	require.NoError(t, err)

	// Fit into the 1200x1200 box keeping aspect: 3000x150 scales to 1200x60.
	cfg := decodeStoredConfig(t, filepath.Join(root, "draftin/img/d1/wide.png"))
	assert.Equal(t, 1200, cfg.Width)
	assert.Equal(t, 60, cfg.Height)
}

func TestLocalizeKeepsSmallImageDimensions(t *testing.T) {
	src := "https://cdn.example.com/small"
	fetcher := newFakeFetcher()
	fetcher.responses[src] = fakeResponse{body: encodePNG(t, 400, 300), fileName: "small.png"}

	l, root := newTestLocalizer(t, fetcher)

	_, _, err := l.Localize("d1", `<img src="`+src+`">`, "")
	require.NoError(t, err)

	cfg := decodeStoredConfig(t, filepath.Join(root, "draftin/img/d1/small.png"))
	assert.Equal(t, 400, cfg.Width)
	assert.Equal(t, 300, cfg.Height)
}

func TestHashedFileNameDeterministic(t *testing.T) {
	a := hashedFileName("https://a.example.com/img/x.png?v=1")
	b := hashedFileName("https://a.example.com/img/x.png?v=2")
	assert.Equal(t, a, b) // query ignored, path-keyed
	assert.NotEqual(t, a, hashedFileName("https://a.example.com/img/y.png"))
}
