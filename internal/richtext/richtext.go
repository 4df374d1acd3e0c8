// Package richtext holds question markup that has passed the sanitizer.
//
// Question bodies and options are authored in a rich-text editor and stored
// as HTML. Values of type HTML are only ever produced by Sanitize (or read back
// from storage that Sanitize fed), so the renderer can embed them verbatim.
package richtext

import (
	"html"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// HTML is sanitized question markup.
type HTML string

var (
	policy = newPolicy()
	strip  = bluemonday.StrictPolicy().AddSpaceWhenStrippingTag(true)
	spaces = regexp.MustCompile(`\s+`)
)

// newPolicy keeps what the editor toolbar can produce: inline emphasis,
// sub/superscript, lists, links, images, alignment classes and colors.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowElements("u", "s", "sub", "sup", "span")
	p.AllowAttrs("class").
		Matching(regexp.MustCompile(`^ql-[a-z0-9-]+( ql-[a-z0-9-]+)*$`)).
		Globally()
	p.AllowStyles("color", "background-color", "text-align").Globally()
	return p
}

// Sanitize strips everything outside the allow-list from raw.
func Sanitize(raw string) HTML {
	return HTML(strings.TrimSpace(policy.Sanitize(raw)))
}

// SanitizeAll sanitizes each element of raw.
func SanitizeAll(raw []string) []HTML {
	out := make([]HTML, len(raw))
	for i, r := range raw {
		out[i] = Sanitize(r)
	}
	return out
}

// Template marks h as safe for html/template.
func (h HTML) Template() template.HTML {
	return template.HTML(h)
}

func (h HTML) String() string {
	return string(h)
}

// PlainText returns the visible text with tags removed and whitespace collapsed.
func (h HTML) PlainText() string {
	text := html.UnescapeString(strip.Sanitize(string(h)))
	return strings.TrimSpace(spaces.ReplaceAllString(text, " "))
}

// IsEmpty reports whether h carries neither text nor an image.
// An untouched editor submits "<p><br></p>", which counts as empty.
func (h HTML) IsEmpty() bool {
	if strings.Contains(string(h), "<img") {
		return false
	}
	return h.PlainText() == ""
}
