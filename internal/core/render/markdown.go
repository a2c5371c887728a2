// Package render converts raw markdown into sanitized display HTML.
//
// Rendering is a strict two-step pipeline: blackfriday parses the markdown,
// then bluemonday strips the result down to an explicit allow-list of tags,
// attributes, and URI schemes. Nothing executable survives: no script
// elements, no event-handler attributes, no javascript: URIs.
package render

import (
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/russross/blackfriday/v2"
)

// DefaultPreviewLength is the excerpt length used by page listings.
const DefaultPreviewLength = 200

var policy = newPolicy()
var stripPolicy = bluemonday.StrictPolicy()
var whitespace = regexp.MustCompile(`\s+`)

func newPolicy() *bluemonday.Policy {
	p := bluemonday.NewPolicy()

	p.AllowElements(
		"h1", "h2", "h3", "h4", "h5", "h6",
		"p", "br", "hr",
		"strong", "em", "u", "s", "code", "pre",
		"blockquote",
		"ul", "ol", "li",
		"table", "thead", "tbody", "tr", "th", "td",
		"div", "span",
	)
	p.AllowAttrs("class", "id").Globally()
	p.AllowAttrs("href", "title", "target", "rel").OnElements("a")
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")

	p.AllowURLSchemes("http", "https", "ftp", "ftps", "mailto", "tel", "callto", "sms", "cid", "xmpp")
	p.AllowRelativeURLs(true)

	return p
}

// Markdown renders raw markdown to sanitized HTML. Degenerate input (empty
// or whitespace-only) yields "", not an error.
func Markdown(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return ""
	}
	unsafe := blackfriday.Run([]byte(raw))
	return strings.TrimSpace(string(policy.SanitizeBytes(unsafe)))
}

// Preview renders raw markdown, strips all markup to plain text, collapses
// whitespace, and truncates to at most maxLength runes. A trailing "..."
// marker is appended only when truncation happened.
func Preview(raw string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultPreviewLength
	}

	text := stripPolicy.Sanitize(Markdown(raw))
	text = strings.TrimSpace(whitespace.ReplaceAllString(text, " "))

	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	return strings.TrimSpace(string(runes[:maxLength])) + "..."
}
