// Package cache keeps the last aggregated article list for a freshness window
package cache

import (
	"sync"
	"time"

	"github.com/khabarwire/khabar/pkg/domain"
)

// DefaultTTL is the freshness window of cached articles
const DefaultTTL = 30 * time.Minute

// Entry is a snapshot of aggregated articles, always replaced as a whole
type Entry struct {
	Articles  []domain.Article
	FetchedAt time.Time
}

// Cache holds a single entry, safe for concurrent use
type Cache struct {
	mu    sync.RWMutex
	ttl   time.Duration
	entry *Entry
	now   func() time.Time
}

// Option func type
type Option func(c *Cache)

// WithClock sets the time source, used by tests
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New makes a cache with the given ttl, DefaultTTL if ttl is zero
func New(ttl time.Duration, opts ...Option) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	res := &Cache{ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(res)
	}
	return res
}

// Get returns the entry if present and younger than ttl
func (c *Cache) Get() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil || c.now().Sub(c.entry.FetchedAt) >= c.ttl {
		return Entry{}, false
	}
	return *c.entry, true
}

// Put replaces the entry with articles fetched now
func (c *Cache) Put(articles []domain.Article) Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entry = &Entry{Articles: articles, FetchedAt: c.now()}
	return *c.entry
}

// Last returns the entry regardless of freshness, false if nothing was cached yet
func (c *Cache) Last() (Entry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return Entry{}, false
	}
	return *c.entry, true
}

// Age returns time since the entry was fetched, zero if empty
func (c *Cache) Age() time.Duration {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.entry == nil {
		return 0
	}
	return c.now().Sub(c.entry.FetchedAt)
}
