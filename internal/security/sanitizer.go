// Package security cleans user-supplied entry HTML before it is stored or
// sent to a text-generation provider.
package security

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

// NewSanitizer builds the two policies. Rich keeps the formatting the editor
// produces; plain strips every tag.
func NewSanitizer() *Sanitizer {
	rich := bluemonday.UGCPolicy()
	rich.AllowElements("u", "s", "mark")
	rich.RequireNoReferrerOnLinks(true)
	rich.AddTargetBlankToFullyQualifiedLinks(true)

	plain := bluemonday.StrictPolicy()
	plain.AddSpaceWhenStrippingTag(true)

	return &Sanitizer{rich: rich, plain: plain}
}

// Sanitize returns HTML safe to store and render.
func (s *Sanitizer) Sanitize(raw string) string {
	return strings.TrimSpace(s.rich.Sanitize(raw))
}

// PlainText returns the visible text of the HTML with whitespace collapsed.
func (s *Sanitizer) PlainText(raw string) string {
	text := html.UnescapeString(s.plain.Sanitize(raw))
	return strings.Join(strings.Fields(text), " ")
}
