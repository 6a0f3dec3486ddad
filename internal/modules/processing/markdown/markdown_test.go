package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderBasics(t *testing.T) {
	html := Render("# Hello\n\nsome *text*")
	assert.Contains(t, html, "<h1>Hello</h1>")
	assert.Contains(t, html, "<em>text</em>")
}

func TestRenderFencedCode(t *testing.T) {
	html := Render("```python\nprint(1)\n```")
	assert.Contains(t, html, `<code class="language-python">`)
	assert.Contains(t, html, "print(1)")
}

func TestRenderFootnotes(t *testing.T) {
	html := Render("text with a note[^1]\n\n[^1]: the note body")
	assert.Contains(t, html, "footnote")
	assert.Contains(t, html, "the note body")
}

func TestRenderKeepsRawHTML(t *testing.T) {
	html := Render(`para with <img src="https://example.com/a.png"> inline`)
	assert.Contains(t, html, `<img src="https://example.com/a.png">`)
}

func TestRenderEmpty(t *testing.T) {
	assert.Empty(t, Render("   \n  "))
}
