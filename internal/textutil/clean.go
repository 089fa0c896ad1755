package textutil

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/text/unicode/norm"
)

var tagPattern = regexp.MustCompile(`<[^>]+>`)

// StripMarkup removes HTML tags and decodes entities, returning the visible
// text with whitespace collapsed. Feed summaries frequently embed anchor tags,
// images, and tracking pixels; only their text content survives.
func StripMarkup(s string) string {
	if s == "" {
		return ""
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return CollapseSpace(strings.ReplaceAll(tagPattern.ReplaceAllString(s, " "), "&nbsp;", " "))
	}
	return CollapseSpace(doc.Text())
}

// CollapseSpace trims the string and folds any run of Unicode whitespace,
// including NBSP from decoded entities, into a single ASCII space.
func CollapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Truncate returns s cut to at most max runes. A non-positive max returns the
// empty string.
func Truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// Clean normalizes a feed-supplied fragment: NFC form, markup stripped,
// whitespace collapsed, truncated to max runes.
func Clean(s string, max int) string {
	return Truncate(StripMarkup(norm.NFC.String(s)), max)
}
