package notify

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/khabarwire/khabar/pkg/domain"
)

// Identity is a stable key of the underlying article: sha256 of the lowercased title and the
// publish date. Re-fetches of one article with different link query params collapse to one key.
func Identity(a domain.Article) string {
	h := sha256.Sum256([]byte(strings.ToLower(a.Title) + a.PubDate))
	return hex.EncodeToString(h[:])
}
