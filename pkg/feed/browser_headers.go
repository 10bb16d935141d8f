package feed

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains Accept-Language values typical for readers of nepali news sites
var acceptLanguages = []string{
	"ne-NP,ne;q=0.9,en-US;q=0.8,en;q=0.7",
	"ne,en-US;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,ne;q=0.8",
	"en-GB,en;q=0.9,ne;q=0.7",
	"hi-IN,hi;q=0.9,ne;q=0.8,en;q=0.7",
}

// addFeedHeaders sets browser-like headers for feed requests.
// some publishers behind CDNs reject bare Go clients
func addFeedHeaders(req *http.Request, userAgent string) {
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/rss+xml,application/atom+xml,application/xml;q=0.9,text/xml;q=0.8,text/html;q=0.7,*/*;q=0.5")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation
	req.Header.Set("Connection", "keep-alive")
}
