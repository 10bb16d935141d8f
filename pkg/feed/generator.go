package feed

import (
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"github.com/khabarwire/khabar/pkg/domain"
)

// RSS is the root element of a generated RSS 2.0 document
type RSS struct {
	XMLName xml.Name    `xml:"rss"`
	Version string      `xml:"version,attr"`
	Atom    string      `xml:"xmlns:atom,attr"`
	Channel *RSSChannel `xml:"channel"`
}

// RSSChannel is the channel of a generated feed
type RSSChannel struct {
	Title         string     `xml:"title"`
	Link          string     `xml:"link"`
	Description   string     `xml:"description"`
	AtomLink      *AtomLink  `xml:"atom:link"`
	LastBuildDate string     `xml:"lastBuildDate"`
	Items         []*RSSItem `xml:"item"`
}

// AtomLink is the self reference of a generated feed
type AtomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
	Type string `xml:"type,attr"`
}

// RSSItem is a single item of a generated feed
type RSSItem struct {
	Title       string        `xml:"title"`
	Link        string        `xml:"link"`
	GUID        string        `xml:"guid"`
	Description string        `xml:"description"`
	Author      string        `xml:"author,omitempty"`
	PubDate     string        `xml:"pubDate,omitempty"`
	Categories  []string      `xml:"category,omitempty"`
	Enclosure   *RSSEnclosure `xml:"enclosure,omitempty"`
}

// RSSEnclosure points to the article image
type RSSEnclosure struct {
	URL  string `xml:"url,attr"`
	Type string `xml:"type,attr"`
}

// Generator republishes aggregated articles as RSS and the source list as OPML
type Generator struct {
	baseURL string
	now     func() time.Time
}

// NewGenerator creates a new feed generator
func NewGenerator(baseURL string) *Generator {
	return &Generator{
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// GenerateRSS creates an RSS 2.0 feed from aggregated articles, optionally limited to one category
func (g *Generator) GenerateRSS(articles []domain.Article, category string) (string, error) {
	title := "Khabar - All News"
	selfLink := g.baseURL + "/rss"
	if category != "" {
		title = "Khabar - " + category
		selfLink = fmt.Sprintf("%s/rss/%s", g.baseURL, category)
	}

	rssItems := make([]*RSSItem, 0, len(articles))
	for _, a := range articles {
		if category != "" && a.Category != category {
			continue
		}
		rssItems = append(rssItems, g.convertToRSSItem(a))
	}

	feed := &RSS{
		Version: "2.0",
		Atom:    "http://www.w3.org/2005/Atom",
		Channel: &RSSChannel{
			Title:         title,
			Link:          g.baseURL + "/",
			Description:   "Latest Nepali news from all sources",
			AtomLink:      &AtomLink{Href: selfLink, Rel: "self", Type: "application/rss+xml"},
			LastBuildDate: g.now().Format(time.RFC1123Z),
			Items:         rssItems,
		},
	}

	output, err := xml.MarshalIndent(feed, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal RSS: %w", err)
	}
	return xml.Header + string(output), nil
}

// convertToRSSItem converts an article to an RSS item. Source name goes to author,
// the publish date is re-formatted when parsable and passed through otherwise.
func (g *Generator) convertToRSSItem(a domain.Article) *RSSItem {
	item := &RSSItem{
		Title:       a.Title,
		Link:        a.Link,
		GUID:        a.Link,
		Description: a.Description,
		Author:      a.Source,
		PubDate:     a.PubDate,
	}
	if ts := PublishedAt(a.PubDate); !ts.IsZero() {
		item.PubDate = ts.Format(time.RFC1123Z)
	}
	if a.Category != "" {
		item.Categories = []string{a.Category}
	}
	if a.Image != "" {
		item.Enclosure = &RSSEnclosure{URL: a.Image, Type: imageType(a.Image)}
	}
	return item
}

// imageType guesses mime type of an image by url extension
func imageType(u string) string {
	u = strings.ToLower(u)
	if i := strings.IndexAny(u, "?#"); i >= 0 {
		u = u[:i]
	}
	switch {
	case strings.HasSuffix(u, ".png"):
		return "image/png"
	case strings.HasSuffix(u, ".gif"):
		return "image/gif"
	case strings.HasSuffix(u, ".webp"):
		return "image/webp"
	default:
		return "image/jpeg"
	}
}

// GenerateOPML creates an OPML file with configured feed sources
func (g *Generator) GenerateOPML(sources []domain.FeedSource) (string, error) {
	type outline struct {
		XMLName xml.Name `xml:"outline"`
		Text    string   `xml:"text,attr"`
		Title   string   `xml:"title,attr"`
		Type    string   `xml:"type,attr"`
		XMLUrl  string   `xml:"xmlUrl,attr"`
	}

	type body struct {
		XMLName  xml.Name  `xml:"body"`
		Outlines []outline `xml:"outline"`
	}

	type head struct {
		XMLName     xml.Name `xml:"head"`
		Title       string   `xml:"title"`
		DateCreated string   `xml:"dateCreated"`
	}

	type opml struct {
		XMLName xml.Name `xml:"opml"`
		Version string   `xml:"version,attr"`
		Head    head     `xml:"head"`
		Body    body     `xml:"body"`
	}

	outlines := make([]outline, 0, len(sources))
	for _, src := range sources {
		outlines = append(outlines, outline{Text: src.Name, Title: src.Name, Type: "rss", XMLUrl: src.URL})
	}

	doc := opml{
		Version: "2.0",
		Head:    head{Title: "Khabar Feed Sources", DateCreated: g.now().Format(time.RFC1123Z)},
		Body:    body{Outlines: outlines},
	}

	output, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal OPML: %w", err)
	}
	return xml.Header + string(output), nil
}
