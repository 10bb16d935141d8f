package content

import (
	"math/rand"
	"net/http"
)

// acceptLanguages contains browser Accept-Language values typical for Nepali news readers
var acceptLanguages = []string{
	"ne-NP,ne;q=0.9,en;q=0.8",
	"ne,en-US;q=0.9,en;q=0.8",
	"en-US,en;q=0.9,ne;q=0.8",
	"en-GB,en;q=0.9,ne;q=0.7",
	"hi-IN,hi;q=0.9,ne;q=0.8,en;q=0.7",
	"en-US,en;q=0.9",
}

// addBrowserHeaders adds common browser headers to a page request with some randomization.
// Accept-Encoding is left to the transport, so gzip responses are decoded transparently.
func addBrowserHeaders(req *http.Request) {
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("Pragma", "no-cache")
	req.Header.Set("Upgrade-Insecure-Requests", "1")

	req.Header.Set("Accept-Language", acceptLanguages[rand.Intn(len(acceptLanguages))]) //nolint:gosec // non-cryptographic randomness is fine for header variation

	if rand.Float32() < 0.3 { //nolint:gosec // non-cryptographic randomness is fine
		req.Header.Set("DNT", "1")
	}

	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
}
