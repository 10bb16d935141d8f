package content

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html/charset"
)

// imageSelectors are checked in order, the first non-empty content wins
var imageSelectors = []string{
	`meta[property="og:image"]`,
	`meta[name="twitter:image"]`,
}

// ImageResolver scrapes preview images from article pages
type ImageResolver struct {
	client    *http.Client
	timeout   time.Duration
	userAgent string
	maxBody   int64
	deepScan  bool
}

// ImageResolverParams defines settings for the image resolver
type ImageResolverParams struct {
	Timeout   time.Duration // per page, including body read
	UserAgent string
	MaxBody   int64 // max bytes of page read, 0 means 1MiB
	DeepScan  bool  // fall back to trafilatura metadata when no meta tag found
}

// NewImageResolver creates a new image resolver
func NewImageResolver(params ImageResolverParams) *ImageResolver {
	if params.Timeout <= 0 {
		params.Timeout = 6 * time.Second
	}
	if params.UserAgent == "" {
		params.UserAgent = "Mozilla/5.0"
	}
	if params.MaxBody <= 0 {
		params.MaxBody = 1 << 20
	}
	return &ImageResolver{
		client:    &http.Client{},
		timeout:   params.Timeout,
		userAgent: params.UserAgent,
		maxBody:   params.MaxBody,
		deepScan:  params.DeepScan,
	}
}

// Resolve returns a preview image url for the page or empty string. It never fails,
// all errors are logged at debug level and treated as "no image".
func (r *ImageResolver) Resolve(ctx context.Context, pageURL string) string {
	img, err := r.resolve(ctx, pageURL)
	if err != nil {
		lgr.Printf("[DEBUG] no image for %s: %v", pageURL, err)
		return ""
	}
	return img
}

func (r *ImageResolver) resolve(ctx context.Context, pageURL string) (string, error) {
	parsedURL, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("parse URL: %w", err)
	}
	if parsedURL.Scheme == "" || parsedURL.Host == "" {
		return "", fmt.Errorf("invalid URL: %s", pageURL)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, http.NoBody)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req)
	req.Header.Set("User-Agent", r.userAgent)

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("unexpected status code %d", resp.StatusCode)
	}

	utf8Body, err := charset.NewReader(io.LimitReader(resp.Body, r.maxBody), resp.Header.Get("Content-Type"))
	if err != nil {
		return "", fmt.Errorf("decode charset: %w", err)
	}
	body, err := io.ReadAll(utf8Body)
	if err != nil {
		return "", fmt.Errorf("read page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	if img := metaImage(doc); img != "" {
		return resolveURL(img, pageURL), nil
	}

	if !r.deepScan {
		return "", nil
	}
	result, err := trafilatura.Extract(bytes.NewReader(body), trafilatura.Options{OriginalURL: parsedURL})
	if err != nil || result == nil {
		return "", nil //nolint:nilerr // page without extractable content simply has no image
	}
	return resolveURL(strings.TrimSpace(result.Metadata.Image), pageURL), nil
}

// metaImage returns the first non-empty image meta content
func metaImage(doc *goquery.Document) string {
	for _, sel := range imageSelectors {
		if val, ok := doc.Find(sel).First().Attr("content"); ok && strings.TrimSpace(val) != "" {
			return strings.TrimSpace(val)
		}
	}
	return ""
}

// resolveURL resolves a possibly relative url against the page url
func resolveURL(raw, base string) string {
	if raw == "" {
		return ""
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	if parsed.IsAbs() {
		return parsed.String()
	}
	baseURL, err := url.Parse(base)
	if err != nil {
		return raw
	}
	return baseURL.ResolveReference(parsed).String()
}
