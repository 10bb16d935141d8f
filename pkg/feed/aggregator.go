package feed

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/go-pkgz/lgr"
	"golang.org/x/sync/errgroup"

	"github.com/khabarwire/khabar/pkg/domain"
)

//go:generate moq -out mocks/fetcher.go -pkg mocks -skip-ensure -fmt goimports . Fetcher
//go:generate moq -out mocks/image_resolver.go -pkg mocks -skip-ensure -fmt goimports . ImageResolver

// ErrAllSourcesFailed is returned when every configured source failed to fetch
var ErrAllSourcesFailed = errors.New("all feed sources failed")

// Mode selects how much work an aggregation pass does
type Mode int

const (
	// ModeFull takes more items per source and resolves missing images, used for client listing
	ModeFull Mode = iota
	// ModeLight takes fewer items and skips image resolution, used by the background job
	ModeLight
)

func (m Mode) String() string {
	if m == ModeLight {
		return "light"
	}
	return "full"
}

// Fetcher retrieves and parses RSS/Atom feeds
type Fetcher interface {
	Fetch(ctx context.Context, feedURL string) (domain.FeedDocument, error)
}

// ImageResolver finds a preview image for an article page, empty string if none
type ImageResolver interface {
	Resolve(ctx context.Context, pageURL string) string
}

// Aggregator fetches all sources concurrently and merges them into one list
type Aggregator struct {
	sources    []domain.FeedSource
	fetcher    Fetcher
	normalizer *Normalizer
	fullLimit  int
	lightLimit int
}

// AggregatorParams defines dependencies and limits for the aggregator
type AggregatorParams struct {
	Sources    []domain.FeedSource
	Fetcher    Fetcher
	Images     ImageResolver
	FullLimit  int
	LightLimit int
}

// sourceResult is an outcome of a single source fetch
type sourceResult struct {
	articles []domain.Article
	err      error
}

// NewAggregator creates a new aggregator
func NewAggregator(params AggregatorParams) *Aggregator {
	if params.FullLimit <= 0 {
		params.FullLimit = 10
	}
	if params.LightLimit <= 0 {
		params.LightLimit = 5
	}
	return &Aggregator{
		sources:    params.Sources,
		fetcher:    params.Fetcher,
		normalizer: NewNormalizer(params.Images),
		fullLimit:  params.FullLimit,
		lightLimit: params.LightLimit,
	}
}

// Fetch fetches all sources in parallel. A failed source contributes no articles and doesn't fail
// the pass unless all sources failed. Articles are sorted by publish date, newest first, articles
// with unparsable dates go last. Ties keep source order, then feed order.
func (a *Aggregator) Fetch(ctx context.Context, mode Mode) ([]domain.Article, error) {
	st := time.Now()
	results := make([]sourceResult, len(a.sources))

	var g errgroup.Group
	for i, src := range a.sources {
		g.Go(func() error {
			results[i] = a.fetchSource(ctx, src, mode)
			return nil
		})
	}
	_ = g.Wait() // failures are collected per source

	articles := []domain.Article{}
	failed := 0
	for i, r := range results {
		if r.err != nil {
			failed++
			lgr.Printf("[WARN] feed %s failed: %v", a.sources[i].Name, r.err)
			continue
		}
		articles = append(articles, r.articles...)
	}

	if len(a.sources) > 0 && failed == len(a.sources) {
		return nil, ErrAllSourcesFailed
	}

	SortByDate(articles)
	lgr.Printf("[INFO] %s aggregation: %d articles from %d/%d sources in %v",
		mode, len(articles), len(a.sources)-failed, len(a.sources), time.Since(st).Truncate(time.Millisecond))
	return articles, nil
}

// fetchSource fetches and normalizes a single source
func (a *Aggregator) fetchSource(ctx context.Context, src domain.FeedSource, mode Mode) sourceResult {
	lgr.Printf("[DEBUG] fetching feed %s: %s", src.Name, src.URL)
	doc, err := a.fetcher.Fetch(ctx, src.URL)
	if err != nil {
		return sourceResult{err: err}
	}

	limit, resolve := a.fullLimit, true
	if mode == ModeLight {
		limit, resolve = a.lightLimit, false
	}
	return sourceResult{articles: a.normalizer.Normalize(ctx, src, doc, limit, resolve)}
}

// SortByDate sorts articles by parsed publish date descending, in place. Articles with
// unparsable dates are treated as the zero time, so they sink to the end in original order.
func SortByDate(articles []domain.Article) {
	keys := make([]time.Time, len(articles))
	for i := range articles {
		keys[i] = PublishedAt(articles[i].PubDate)
	}
	idx := make([]int, len(articles))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(i, j int) bool { return keys[idx[i]].After(keys[idx[j]]) })

	sorted := make([]domain.Article, len(articles))
	for i, k := range idx {
		sorted[i] = articles[k]
	}
	copy(articles, sorted)
}
