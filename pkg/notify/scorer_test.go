package notify

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/khabarwire/khabar/pkg/domain"
)

func TestScorer_Score(t *testing.T) {
	s := NewScorer(nil, nil)

	tests := []struct {
		name    string
		article domain.Article
		want    int
	}{
		{name: "no keywords", article: domain.Article{Title: "स्थानीय मेला", Description: "सम्पन्न"}, want: 0},
		{name: "one keyword in title", article: domain.Article{Title: "भूकम्प आयो", Description: "ठूलो क्षति"}, want: 5},
		{name: "one keyword in description", article: domain.Article{Title: "खबर", Description: "बाढी आयो"}, want: 5},
		{name: "two distinct keywords", article: domain.Article{Title: "भूकम्प र पहिरो", Description: ""}, want: 10},
		{name: "repeated keyword counts once", article: domain.Article{Title: "भूकम्प भूकम्प", Description: "फेरि भूकम्प"}, want: 5},
		{name: "keyword across title and description", article: domain.Article{Title: "प्रधानमन्त्री", Description: "पक्राउ"}, want: 10},
		{name: "trimmed keyword matches without trailing space", article: domain.Article{Title: "गणतन्त्रदिवस"}, want: 5},
		{name: "empty", article: domain.Article{}, want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Score(tt.article))
		})
	}
}

func TestScorer_CaseSensitive(t *testing.T) {
	s := NewScorer([]string{"Flood", "flood", " Flood "}, nil)
	assert.Equal(t, []string{"Flood", "flood"}, s.Keywords())
	assert.Equal(t, 5, s.Score(domain.Article{Title: "Flood warning"}))
	assert.Equal(t, 0, s.Score(domain.Article{Title: "FLOOD warning"}))
	assert.Equal(t, 10, s.Score(domain.Article{Title: "Flood", Description: "flood"}))
}

func TestScorer_Emergency(t *testing.T) {
	s := NewScorer(nil, []string{"विस्फोट", ""})
	assert.True(t, s.Emergency(domain.Article{Title: "ठूलो विस्फोट"}))
	assert.False(t, s.Emergency(domain.Article{Title: "सामान्य", Description: "विस्फोट"}), "only title is checked")

	def := NewScorer(nil, nil)
	assert.True(t, def.Emergency(domain.Article{Title: "भूकम्प"}))
	assert.False(t, def.Emergency(domain.Article{Title: "क्रिकेट"}))
}

func TestDefaultKeywords(t *testing.T) {
	assert.Len(t, DefaultKeywords, 16)
	assert.Len(t, NewScorer(nil, nil).Keywords(), 16)
	for _, k := range DefaultKeywords {
		assert.NotContains(t, k, " ")
	}
}

func TestIdentity(t *testing.T) {
	a := domain.Article{Title: "Earthquake Hits", PubDate: "2024-01-01T00:00:00Z", Link: "https://x/1"}
	b := domain.Article{Title: "earthquake hits", PubDate: "2024-01-01T00:00:00Z", Link: "https://x/1?utm=feed"}
	c := domain.Article{Title: "earthquake hits", PubDate: "2024-01-02T00:00:00Z", Link: "https://x/1"}

	assert.Len(t, Identity(a), 64)
	assert.Equal(t, Identity(a), Identity(b), "case and link don't matter")
	assert.NotEqual(t, Identity(a), Identity(c), "publish date matters")
	assert.Equal(t, Identity(a), Identity(domain.Article{Title: "EARTHQUAKE HITS", PubDate: "2024-01-01T00:00:00Z"}))
}
