package feed

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/khabarwire/khabar/pkg/domain"
)

// Normalizer converts raw feed items into articles
type Normalizer struct {
	images ImageResolver
}

// NewNormalizer makes a normalizer. images can be nil, in which case pages are never scraped.
func NewNormalizer(images ImageResolver) *Normalizer {
	return &Normalizer{images: images}
}

// Normalize converts up to limit items of the document. With resolveImages set, items without
// an embedded image get one scraped from the article page; these lookups run concurrently.
// The result keeps the feed order.
func (n *Normalizer) Normalize(ctx context.Context, src domain.FeedSource, doc domain.FeedDocument, limit int, resolveImages bool) []domain.Article {
	items := doc.Items
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}

	res := make([]domain.Article, len(items))
	var g errgroup.Group
	for i, item := range items {
		res[i] = n.article(src, item)
		if !resolveImages || n.images == nil || item.EnclosureURL != "" || item.MediaURL != "" || res[i].Link == "" {
			continue
		}
		g.Go(func() error {
			if img := n.images.Resolve(ctx, res[i].Link); img != "" {
				res[i].Image = img
			}
			return nil
		})
	}
	_ = g.Wait() // goroutines never return errors

	return res
}

// article builds an article with embedded or fallback image; page scraping is done by the caller
func (n *Normalizer) article(src domain.FeedSource, item domain.RawItem) domain.Article {
	a := domain.Article{
		Source:      src.Name,
		Title:       CleanText(item.Title),
		Description: CleanText(item.ContentSnippet),
		Link:        item.Link,
		PubDate:     CleanPubDate(item.PubDate),
		Profile:     src.FallbackImage,
	}
	a.Category = Categorize(a.Title + " " + a.Description)

	switch {
	case item.EnclosureURL != "":
		a.Image = item.EnclosureURL
	case item.MediaURL != "":
		a.Image = item.MediaURL
	default:
		a.Image = src.FallbackImage
	}
	return a
}
