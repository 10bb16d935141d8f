package notify

import (
	"strings"

	"github.com/khabarwire/khabar/pkg/domain"
)

// DefaultKeywords are high priority terms, each distinct hit adds KeywordWeight to the score
var DefaultKeywords = []string{
	"भूकम्प", "बाढी", "पहिरो", "हिमपात", "आगलागी", "दुर्घटना", "मृत्यु", "आपतकालीन",
	"विस्फोट", "प्रधानमन्त्री", "पक्राउ", "गणतन्त्र", "नरसंहार", "आदेश", "बेपत्ता", "राशिफल",
}

// DefaultEmergencyKeywords are checked in titles when cooldown override is enabled
var DefaultEmergencyKeywords = []string{
	"दुर्घटना", "मृत्यु", "भूकम्प", "विस्फोट", "बाढी", "पहिरो", "हिमपात", "आगलागी",
	"आपतकालीन", "प्रधानमन्त्री", "पक्राउ", "गणतन्त्र", "नरसंहार", "आदेश", "बेपत्ता", "राशिफल",
}

// KeywordWeight is a score of a single keyword hit
const KeywordWeight = 5

// Scorer rates articles by keyword presence
type Scorer struct {
	keywords  []string
	emergency []string
}

// NewScorer makes a scorer. Empty lists fall back to defaults; keywords are trimmed and deduplicated.
func NewScorer(keywords, emergency []string) *Scorer {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	if len(emergency) == 0 {
		emergency = DefaultEmergencyKeywords
	}
	return &Scorer{keywords: uniq(keywords), emergency: uniq(emergency)}
}

// Score is KeywordWeight times the number of distinct keywords found in title and description.
// Matching is case-sensitive, repeated occurrences of one keyword count once.
func (s *Scorer) Score(a domain.Article) int {
	text := a.Title + " " + a.Description
	score := 0
	for _, k := range s.keywords {
		if strings.Contains(text, k) {
			score += KeywordWeight
		}
	}
	return score
}

// Emergency reports if the article title has any emergency keyword
func (s *Scorer) Emergency(a domain.Article) bool {
	for _, k := range s.emergency {
		if strings.Contains(a.Title, k) {
			return true
		}
	}
	return false
}

// Keywords returns a copy of the effective keyword list
func (s *Scorer) Keywords() []string {
	res := make([]string, len(s.keywords))
	copy(res, s.keywords)
	return res
}

// uniq trims and deduplicates keywords. A trimmed keyword also matches inside compound words.
func uniq(list []string) []string {
	seen := make(map[string]bool, len(list))
	res := make([]string, 0, len(list))
	for _, k := range list {
		k = strings.TrimSpace(k)
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		res = append(res, k)
	}
	return res
}
