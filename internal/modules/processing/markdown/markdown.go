// Package markdown converts document markdown into HTML.
package markdown

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

// Fenced code blocks are core CommonMark; footnotes need the extension.
// Scraped documents mix raw HTML into their markdown, so it passes through.
var engine = goldmark.New(
	goldmark.WithExtensions(
		extension.Footnote,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithUnsafe(),
	),
)

// Render converts markdown text to an HTML fragment.
func Render(markdownText string) string {
	text := strings.TrimSpace(markdownText)
	if text == "" {
		return ""
	}

	var out bytes.Buffer
	if err := engine.Convert([]byte(text), &out); err != nil {
		return template.HTMLEscapeString(text)
	}
	return out.String()
}
