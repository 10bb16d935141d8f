package feed

import (
	"html"
	"regexp"
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
)

var (
	stripPolicy = bluemonday.StrictPolicy()
	tagRe       = regexp.MustCompile(`<[^>]*>`)
)

// CleanText removes markup from feed text and collapses all whitespace runs into single spaces.
// Entities are decoded, so the result is plain text ready to be rendered by clients.
func CleanText(s string) string {
	if s == "" {
		return ""
	}
	s = stripPolicy.Sanitize(s)
	s = html.UnescapeString(s)
	s = tagRe.ReplaceAllString(s, "") // escaped markup becomes real tags after unescape
	return strings.Join(strings.Fields(s), " ")
}

// CleanPubDate replaces line breaks and tabs in a raw publish date and trims it
func CleanPubDate(s string) string {
	return strings.TrimSpace(strings.NewReplacer("\n", " ", "\r", " ", "\t", " ").Replace(s))
}

// PublishedAt parses a cleaned publish date. Unparsable dates return the zero time.
func PublishedAt(pubDate string) time.Time {
	if pubDate == "" {
		return time.Time{}
	}
	t, err := dateparse.ParseAny(pubDate)
	if err != nil {
		return time.Time{}
	}
	return t
}
