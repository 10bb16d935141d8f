package server

import (
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/khabarwire/khabar/pkg/domain"
)

// newsResponse is a successful /news reply
type newsResponse struct {
	Status   string           `json:"status"`
	Cached   bool             `json:"cached"`
	Total    int              `json:"total"`
	Articles []domain.Article `json:"articles"`
}

// errorResponse is a failed api reply
type errorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// statusResponse is /api/v1/status reply
type statusResponse struct {
	Status           string     `json:"status"`
	Version          string     `json:"version"`
	Time             time.Time  `json:"time"`
	CacheAge         string     `json:"cache_age"`
	CachedTotal      int        `json:"cached_total"`
	LastNotification *time.Time `json:"last_notification"`
	NotifiedTotal    int        `json:"notified_total"`
	SentSinceStart   int        `json:"sent_since_start"`
}

// newsHandler returns aggregated articles, from cache when fresh
func (s *Server) newsHandler(w http.ResponseWriter, r *http.Request) {
	entry, cached, err := s.articles(r.Context())
	if err != nil {
		lgr.Printf("[ERROR] failed to fetch news: %v", err)
		renderJSON(w, r, http.StatusInternalServerError, errorResponse{Status: "error", Message: "Failed to fetch news"})
		return
	}
	if cached {
		lgr.Printf("[DEBUG] serving %d articles from cache", len(entry.Articles))
	}

	articles := entry.Articles
	if articles == nil {
		articles = []domain.Article{}
	}
	renderJSON(w, r, http.StatusOK, newsResponse{Status: "success", Cached: cached, Total: len(articles), Articles: articles})
}

// statusHandler returns server, cache and notification status
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{
		Status:   "ok",
		Version:  s.version,
		Time:     time.Now().UTC(),
		CacheAge: s.cache.Age().Truncate(time.Second).String(),
	}
	if e, ok := s.cache.Last(); ok {
		resp.CachedTotal = len(e.Articles)
	}
	if s.status != nil {
		st := s.status.Status()
		if !st.LastSent.IsZero() {
			ts := st.LastSent.UTC()
			resp.LastNotification = &ts
		}
		resp.NotifiedTotal = st.Notified
		resp.SentSinceStart = st.Sent
	}
	renderJSON(w, r, http.StatusOK, resp)
}
