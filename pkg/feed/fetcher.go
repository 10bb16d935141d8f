package feed

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/mmcdole/gofeed"
	ext "github.com/mmcdole/gofeed/extensions"

	"github.com/khabarwire/khabar/pkg/domain"
)

// HTTPFetcher fetches RSS/Atom feeds via HTTP
type HTTPFetcher struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
}

// NewHTTPFetcher creates a new feed fetcher
func NewHTTPFetcher(timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client: &http.Client{
			Transport: &http.Transport{
				MaxIdleConns:        100,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     90 * time.Second,
			},
		},
		timeout:   timeout,
		userAgent: userAgent,
	}
}

// Fetch retrieves and parses a feed from the given URL
func (f *HTTPFetcher) Fetch(ctx context.Context, feedURL string) (domain.FeedDocument, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feedURL, http.NoBody)
	if err != nil {
		return domain.FeedDocument{}, fmt.Errorf("create request: %w", err)
	}
	addFeedHeaders(req, f.userAgent)

	resp, err := f.client.Do(req)
	if err != nil {
		return domain.FeedDocument{}, fmt.Errorf("fetch feed %s: %w", feedURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.FeedDocument{}, fmt.Errorf("fetch feed %s: unexpected status code %d", feedURL, resp.StatusCode)
	}

	feed, err := gofeed.NewParser().Parse(resp.Body)
	if err != nil {
		return domain.FeedDocument{}, fmt.Errorf("parse feed %s: %w", feedURL, err)
	}

	doc := domain.FeedDocument{Title: feed.Title, Items: make([]domain.RawItem, 0, len(feed.Items))}
	for _, item := range feed.Items {
		if item == nil {
			continue
		}
		raw := domain.RawItem{
			Title:          item.Title,
			Link:           strings.TrimSpace(item.Link),
			PubDate:        item.Published,
			ContentSnippet: item.Description,
			EnclosureURL:   enclosureURL(item),
			MediaURL:       mediaURL(item.Extensions),
		}
		if raw.PubDate == "" {
			raw.PubDate = item.Updated
		}
		if raw.ContentSnippet == "" {
			raw.ContentSnippet = item.Content
		}
		doc.Items = append(doc.Items, raw)
	}

	return doc, nil
}

// enclosureURL returns the first enclosure with a url
func enclosureURL(item *gofeed.Item) string {
	for _, enc := range item.Enclosures {
		if enc != nil && strings.TrimSpace(enc.URL) != "" {
			return strings.TrimSpace(enc.URL)
		}
	}
	return ""
}

// mediaURL returns url of media:content, either direct or inside media:group
func mediaURL(exts ext.Extensions) string {
	media, ok := exts["media"]
	if !ok {
		return ""
	}
	if u := firstURLAttr(media["content"]); u != "" {
		return u
	}
	for _, group := range media["group"] {
		if u := firstURLAttr(group.Children["content"]); u != "" {
			return u
		}
	}
	return ""
}

func firstURLAttr(list []ext.Extension) string {
	for _, e := range list {
		if u := strings.TrimSpace(e.Attrs["url"]); u != "" {
			return u
		}
	}
	return ""
}
