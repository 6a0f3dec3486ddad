// Package htmlutil holds small text transforms shared by derived-field
// computation.
package htmlutil

import "regexp"

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// StripTags removes HTML tags from text. It is an opportunistic strip for
// word counting, not a sanitizer.
func StripTags(text string) string {
	return tagPattern.ReplaceAllString(text, "")
}
