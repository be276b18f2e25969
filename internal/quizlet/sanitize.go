package quizlet

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// cardPolicy keeps the inline formatting Quizlet allows in card text
// (bold, italics, line breaks) plus images, and strips everything else.
// Anki fields accept HTML, so sanitized markup can pass through as-is.
var cardPolicy = func() *bluemonday.Policy {
	policy := bluemonday.NewPolicy()
	policy.AllowElements("b", "strong", "i", "em", "u", "sub", "sup", "br")
	policy.AllowElements("img")
	policy.AllowAttrs("src", "alt").OnElements("img")
	return policy
}()

// SanitizeCardText sanitizes a card side scraped from the page and
// normalizes its whitespace
func SanitizeCardText(raw string) string {
	clean := cardPolicy.Sanitize(raw)
	clean = strings.ReplaceAll(clean, " ", " ")
	return collapseSpace(clean)
}

// collapseSpace trims the string and folds runs of whitespace into
// single spaces, keeping <br/> tags intact
func collapseSpace(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}

// textPolicy strips every tag, leaving only the text content
var textPolicy = bluemonday.StrictPolicy()

// PlainText reduces sanitized card markup to bare words. TTS prompts
// and image search queries want the text without inline formatting.
func PlainText(s string) string {
	s = strings.ReplaceAll(s, "<br/>", " ")
	return collapseSpace(html.UnescapeString(textPolicy.Sanitize(s)))
}
