// Package server serves the aggregated news list and service status over HTTP
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"
	"golang.org/x/sync/singleflight"

	"github.com/khabarwire/khabar/pkg/cache"
	"github.com/khabarwire/khabar/pkg/domain"
	"github.com/khabarwire/khabar/pkg/feed"
	"github.com/khabarwire/khabar/pkg/notify"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/news.go -pkg mocks -skip-ensure -fmt goimports . NewsProvider
//go:generate moq -out mocks/notifier.go -pkg mocks -skip-ensure -fmt goimports . Notifier
//go:generate moq -out mocks/status.go -pkg mocks -skip-ensure -fmt goimports . StatusProvider

// Server represents HTTP server instance
type Server struct {
	config   ConfigProvider
	news     NewsProvider
	cache    *cache.Cache
	notifier Notifier
	status   StatusProvider
	version  string
	debug    bool

	refresh    singleflight.Group
	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
	Sources() []domain.FeedSource
}

// NewsProvider aggregates articles from all sources
type NewsProvider interface {
	Fetch(ctx context.Context, mode feed.Mode) ([]domain.Article, error)
}

// Notifier accepts freshly fetched articles for background dispatch
type Notifier interface {
	Submit(articles []domain.Article) bool
}

// StatusProvider reports notification state
type StatusProvider interface {
	Status() notify.Status
}

// Params contains dependencies for the server
type Params struct {
	Config   ConfigProvider
	News     NewsProvider
	Cache    *cache.Cache
	Notifier Notifier
	Status   StatusProvider
	Version  string
	Debug    bool
}

// New initializes a new server instance
func New(params Params) *Server {
	if params.Cache == nil {
		params.Cache = cache.New(cache.DefaultTTL)
	}
	s := &Server{
		config:   params.Config,
		news:     params.News,
		cache:    params.Cache,
		notifier: params.Notifier,
		status:   params.Status,
		version:  params.Version,
		debug:    params.Debug,
		router:   routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	lgr.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		lgr.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			lgr.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("khabar", "khabarwire", s.version))
	s.router.Use(rest.Ping)
	s.router.Use(corsAllowAll)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024)) // read-only api, small requests
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.HandleFunc("GET /news", s.newsHandler)

	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})

	s.router.HandleFunc("GET /rss", s.rssHandler)
	s.router.HandleFunc("GET /rss/{category}", s.rssHandler)
	s.router.HandleFunc("GET /opml", s.opmlHandler)
}

// corsAllowAll lets browser clients from any origin read the api
func corsAllowAll(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// articles returns the cached list if fresh, otherwise runs a full aggregation. Concurrent
// refreshes share one aggregation. A fresh list is handed to the notifier for dispatch.
func (s *Server) articles(ctx context.Context) (entry cache.Entry, cached bool, err error) {
	if e, ok := s.cache.Get(); ok {
		return e, true, nil
	}

	type flight struct {
		entry  cache.Entry
		cached bool
	}
	res, err, _ := s.refresh.Do("news", func() (any, error) {
		if e, ok := s.cache.Get(); ok { // refreshed by a flight which just ended
			return flight{entry: e, cached: true}, nil
		}
		// the shared fetch outlives a single client disconnect
		articles, err := s.news.Fetch(context.WithoutCancel(ctx), feed.ModeFull)
		if err != nil {
			return flight{}, err
		}
		e := s.cache.Put(articles)
		if s.notifier != nil {
			s.notifier.Submit(articles)
		}
		return flight{entry: e}, nil
	})
	if err != nil {
		return cache.Entry{}, false, err
	}
	f := res.(flight)
	return f.entry, f.cached, nil
}

// renderJSON sends JSON response
func renderJSON(w http.ResponseWriter, _ *http.Request, code int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			lgr.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
