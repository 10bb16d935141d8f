package domain

// FeedSource represents a configured news feed
type FeedSource struct {
	Name          string
	URL           string
	FallbackImage string // used when no image can be resolved for an item
}

// RawItem represents a single feed entry as exposed by the feed client
type RawItem struct {
	Title          string
	Link           string
	PubDate        string // raw publish date as found in the feed
	ContentSnippet string
	EnclosureURL   string
	MediaURL       string // media:content url
}

// FeedDocument represents a fetched and parsed feed
type FeedDocument struct {
	Title string
	Items []RawItem
}
