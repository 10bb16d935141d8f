package feed

import "strings"

// CategoryGeneral is assigned when no category keyword matches
const CategoryGeneral = "general"

type category struct {
	name     string
	keywords []string
}

// categories are checked in order, the first one with a keyword hit wins
var categories = []category{
	{name: "politics", keywords: []string{"प्रधानमन्त्री", "राष्ट्रपति", "संसद", "मन्त्री", "सरकार", "निर्वाचन", "चुनाव", "कांग्रेस", "एमाले", "माओवादी", "पार्टी"}},
	{name: "disaster", keywords: []string{"भूकम्प", "बाढी", "पहिरो", "हिमपात", "आगलागी", "दुर्घटना", "विपद्", "earthquake", "flood", "landslide"}},
	{name: "sports", keywords: []string{"क्रिकेट", "फुटबल", "खेलकुद", "खेलाडी", "विश्वकप", "ओलम्पिक", "cricket", "football"}},
	{name: "business", keywords: []string{"सेयर", "नेप्से", "बजेट", "बैंक", "अर्थतन्त्र", "लगानी", "व्यापार", "ब्याजदर", "nepse"}},
	{name: "technology", keywords: []string{"प्रविधि", "इन्टरनेट", "मोबाइल", "स्मार्टफोन", "कृत्रिम बौद्धिकता", "technology", "smartphone"}},
	{name: "health", keywords: []string{"स्वास्थ्य", "अस्पताल", "डेंगु", "खोप", "उपचार", "चिकित्सक", "महामारी"}},
	{name: "entertainment", keywords: []string{"चलचित्र", "फिल्म", "गायक", "गायिका", "नायिका", "नायक", "सङ्गीत", "गीत"}},
	{name: "world", keywords: []string{"अमेरिका", "भारत", "चीन", "रुस", "युक्रेन", "इजरायल", "संयुक्त राष्ट्रसंघ"}},
}

// Categorize returns the first category with a keyword found in the text, case-insensitive
func Categorize(text string) string {
	lower := strings.ToLower(text)
	for _, c := range categories {
		for _, k := range c.keywords {
			if strings.Contains(lower, strings.ToLower(k)) {
				return c.name
			}
		}
	}
	return CategoryGeneral
}
