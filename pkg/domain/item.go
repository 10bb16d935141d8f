package domain

// Article represents a normalized news article served to clients
type Article struct {
	Source      string `json:"source"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	PubDate     string `json:"pubDate"`
	Category    string `json:"category"`
	Profile     string `json:"profile"`
	Score       int    `json:"score,omitempty"`
}

// Notification is a push message for a single article
type Notification struct {
	ID    string `json:"id,omitempty"` // article identity, the same on every attempt
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
	Image string `json:"image,omitempty"`
}
