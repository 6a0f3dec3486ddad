// Package ingest populates scrape-origin drafts: fetch the external URL,
// expand embedded gists, render markdown, and localize images. The pipeline
// is an explicit step run before persistence, never a side effect of a
// data-layer write.
package ingest

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/betheshoe/draftin-core/internal/models"
	"github.com/betheshoe/draftin-core/internal/modules/processing/gist"
	"github.com/betheshoe/draftin-core/internal/modules/processing/markdown"
	"go.uber.org/zap"
)

// ErrScrapeFailed aborts the whole save when the external URL cannot be
// fetched. Nothing is persisted in that case.
var ErrScrapeFailed = errors.New("External url failed to scrape")

// gistEmbedPattern matches a gist JS embed script tag and captures the gist id.
var gistEmbedPattern = regexp.MustCompile(`<script[^>]*src="https?://gist\.github\.com/(?:[^"/]+/)?([0-9a-zA-Z]+)\.js[^"]*"[^>]*>\s*</script>`)

// Localizer rewrites remote images in rendered HTML to local copies. It may
// also mutate the raw content. Satisfied by media.Localizer.
type Localizer interface {
	Localize(draftID, contentHTML, content string) (html string, newContent string, err error)
}

// Pipeline orchestrates content ingestion for scrape-origin drafts.
type Pipeline struct {
	fetcher   *Fetcher
	gists     *gist.Resolver
	localizer Localizer
	log       *zap.Logger
}

func NewPipeline(fetcher *Fetcher, gists *gist.Resolver, localizer Localizer, log *zap.Logger) *Pipeline {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{fetcher: fetcher, gists: gists, localizer: localizer, log: log}
}

// Run fills Content and ContentHTML from the draft's external URL. The draft
// must already carry its identifier: localized image paths are namespaced by
// it. A fetch failure is a hard error; gist and image failures degrade to
// leaving the original reference in place.
func (p *Pipeline) Run(draft *models.DraftModel) error {
	body, _, err := p.fetcher.Fetch(draft.ExternalURL)
	if err != nil {
		p.log.Warn("scrape failed",
			zap.String("draft", draft.ID),
			zap.String("url", draft.ExternalURL),
			zap.Error(err),
		)
		return fmt.Errorf("%w: %s", ErrScrapeFailed, draft.ExternalURL)
	}

	draft.Content = p.expandGists(string(body))
	draft.ContentHTML = markdown.Render(draft.Content)

	html, content, err := p.localizer.Localize(draft.ID, draft.ContentHTML, draft.Content)
	if err != nil {
		return err
	}
	draft.ContentHTML = html
	draft.Content = content
	return nil
}

// expandGists splices resolved gist markdown in place of embed script tags.
// A gist that fails to resolve leaves its tag byte-for-byte untouched.
func (p *Pipeline) expandGists(content string) string {
	return gistEmbedPattern.ReplaceAllStringFunc(content, func(tag string) string {
		match := gistEmbedPattern.FindStringSubmatch(tag)
		if len(match) < 2 {
			return tag
		}
		md, err := p.gists.Resolve(match[1])
		if err != nil || md == "" {
			if err != nil {
				p.log.Debug("gist unresolved", zap.String("gist", match[1]), zap.Error(err))
			}
			return tag
		}
		return md
	})
}
