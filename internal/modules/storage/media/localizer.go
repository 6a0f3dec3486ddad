// Package media caches remote images referenced by draft content under the
// local media root and rewrites content to point at the local copies.
package media

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/disintegration/imaging"
	"go.uber.org/zap"
)

// Fetcher pulls remote image bytes. Satisfied by ingest.Fetcher, which also
// applies the host-alias rewrite before requesting.
type Fetcher interface {
	Fetch(url string) ([]byte, http.Header, error)
}

// fileNameHeader is the server-provided filename hint used by the origin tool.
const fileNameHeader = "x-file-name"

// imageSubdir namespaces localized images inside the media root.
const imageSubdir = "draftin/img"

// Options configures the localizer. All values come from AppConfig at
// construction; the localizer holds no ambient state.
type Options struct {
	Root      string // filesystem media root
	URLPrefix string // public URL prefix for Root, always "/"-terminated
	MaxWidth  int
	MaxHeight int
}

// Localizer scans rendered HTML for remote images, stores them under a
// deterministic per-draft path, and rewrites references to the local URL.
type Localizer struct {
	opts    Options
	fetcher Fetcher
	log     *zap.Logger
}

func NewLocalizer(opts Options, fetcher Fetcher, log *zap.Logger) *Localizer {
	if !strings.HasSuffix(opts.URLPrefix, "/") {
		opts.URLPrefix += "/"
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Localizer{opts: opts, fetcher: fetcher, log: log}
}

// Localize processes every img tag in contentHTML, in document order. It
// returns the rewritten HTML and content. Per-image failures are skipped;
// only a malformed HTML fragment is a hard error.
func (l *Localizer) Localize(draftID, contentHTML, content string) (string, string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(contentHTML))
	if err != nil {
		return "", "", fmt.Errorf("parse content html: %w", err)
	}

	doc.Find("img[src]").Each(func(_ int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		if src == "" {
			return
		}
		// Already localized; don't repeat.
		if strings.HasPrefix(src, l.opts.URLPrefix) {
			return
		}

		data, header, err := l.fetcher.Fetch(src)
		if err != nil {
			l.log.Debug("skip image", zap.String("src", src), zap.Error(err))
			return
		}

		filename := header.Get(fileNameHeader)
		if filename == "" {
			filename = hashedFileName(src)
		}

		filePath := filepath.Join(l.opts.Root, imageSubdir, draftID, filename)
		fileURL := l.opts.URLPrefix + imageSubdir + "/" + draftID + "/" + filename

		// Rewrite references before the existence check so repeated runs
		// converge even if an earlier run died between rewrite and write.
		content = strings.ReplaceAll(content, src, fileURL)
		sel.SetAttr("src", fileURL)

		if info, err := os.Stat(filePath); err == nil && info.Size() > 0 {
			return
		}

		if err := writeFileAtomic(filePath, data); err != nil {
			l.log.Warn("store image", zap.String("src", src), zap.Error(err))
			return
		}

		l.resizeInPlace(filePath)
	})

	html, err := doc.Find("body").Html()
	if err != nil {
		return "", "", fmt.Errorf("serialize content html: %w", err)
	}
	return html, content, nil
}

// hashedFileName derives a stable name from the URL path, so the same source
// always maps to the same file and the existence check can dedup downloads.
func hashedFileName(src string) string {
	p := src
	if u, err := url.Parse(src); err == nil {
		p = u.Path
	}
	sum := md5.Sum([]byte(p))
	return hex.EncodeToString(sum[:]) + ".jpg"
}

// writeFileAtomic writes via a temp file and rename, so a concurrent reader
// never sees a partial file as "already present".
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".download-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, path)
}

// resizeInPlace bounds the stored image to the configured box, preserving
// aspect ratio. Corrupt or unreadable images are left untouched.
func (l *Localizer) resizeInPlace(path string) {
	if l.opts.MaxWidth <= 0 || l.opts.MaxHeight <= 0 {
		return
	}

	img, err := imaging.Open(path)
	if err != nil {
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() <= l.opts.MaxWidth && bounds.Dy() <= l.opts.MaxHeight {
		return
	}

	resized := imaging.Fit(img, l.opts.MaxWidth, l.opts.MaxHeight, imaging.Lanczos)
	if err := imaging.Save(resized, path); err != nil {
		l.log.Warn("resize image", zap.String("path", path), zap.Error(err))
	}
}
