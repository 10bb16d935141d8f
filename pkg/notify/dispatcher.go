// Package notify picks the most important unseen article and pushes it, at most once per article
// and no more often than the cooldown allows.
package notify

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/khabarwire/khabar/pkg/domain"
)

//go:generate moq -out mocks/sender.go -pkg mocks -skip-ensure -fmt goimports . Sender
//go:generate moq -out mocks/store.go -pkg mocks -skip-ensure -fmt goimports . Store

// DefaultBody is a push body for articles without description
const DefaultBody = "ताजा महत्वपूर्ण समाचार"

// dispatch outcomes reported in Result.Reason
const (
	ReasonNoCandidates = "no candidates"
	ReasonCooldown     = "cooldown"
	ReasonSendFailed   = "send failed"
	ReasonSent         = "sent"
)

// Sender delivers a push notification, returns provider's notification id
type Sender interface {
	Send(ctx context.Context, n domain.Notification) (string, error)
}

// Store is a persisted set of notified article identities
type Store interface {
	Contains(id string) bool
	Add(id string)
	Persist(ctx context.Context) error
	Len() int
}

// Dispatcher runs filter, send and record as one critical section
type Dispatcher struct {
	Params

	mu sync.Mutex // held for a whole dispatch, network included

	stateMu  sync.Mutex // guards lastSent and sent, never held across i/o
	lastSent time.Time
	sent     int
}

// Params defines dependencies and policy of the dispatcher
type Params struct {
	Scorer            *Scorer
	Store             Store
	Sender            Sender
	Cooldown          time.Duration
	MinScore          int
	EmergencyOverride bool // allow sending during cooldown if a candidate title has an emergency keyword
	DefaultBody       string
	Now               func() time.Time
}

// Result describes what a single dispatch run did
type Result struct {
	Candidates int            // articles passed score and identity filter
	Sent       bool           // push confirmed by the provider
	Article    domain.Article // winner, set if a send was attempted
	ID         string         // winner's identity
	ProviderID string
	Reason     string
	Err        error
}

// Status is a snapshot of dispatcher state
type Status struct {
	LastSent time.Time
	Sent     int // pushes since start
	Notified int // identities in the store
}

type candidate struct {
	article domain.Article
	id      string
}

// NewDispatcher makes a dispatcher with defaults for unset params
func NewDispatcher(params Params) *Dispatcher {
	if params.Scorer == nil {
		params.Scorer = NewScorer(nil, nil)
	}
	if params.MinScore <= 0 {
		params.MinScore = KeywordWeight
	}
	if params.DefaultBody == "" {
		params.DefaultBody = DefaultBody
	}
	if params.Now == nil {
		params.Now = time.Now
	}
	return &Dispatcher{Params: params}
}

// Dispatch scores the batch and pushes the single best unseen article, if cooldown allows.
// Only the pushed article is recorded, and only after the provider confirmed it,
// so a failed push is retried on the next run.
func (d *Dispatcher) Dispatch(ctx context.Context, articles []domain.Article) Result {
	d.mu.Lock()
	defer d.mu.Unlock()

	candidates := d.candidates(articles)
	lgr.Printf("[DEBUG] important news found: %d of %d", len(candidates), len(articles))
	if len(candidates) == 0 {
		return Result{Reason: ReasonNoCandidates}
	}

	now := d.Now()
	d.stateMu.Lock()
	lastSent := d.lastSent
	d.stateMu.Unlock()
	if !lastSent.IsZero() && now.Sub(lastSent) < d.Cooldown {
		if !d.EmergencyOverride || !d.hasEmergency(candidates) {
			lgr.Printf("[DEBUG] cooldown active, %v left, skip push", d.Cooldown-now.Sub(lastSent))
			return Result{Candidates: len(candidates), Reason: ReasonCooldown}
		}
		lgr.Printf("[INFO] emergency news, cooldown overridden")
	}

	sort.SliceStable(candidates, func(i, j int) bool { return candidates[i].article.Score > candidates[j].article.Score })
	top := candidates[0]
	res := Result{Candidates: len(candidates), Article: top.article, ID: top.id}

	body := top.article.Description
	if body == "" {
		body = d.DefaultBody
	}
	providerID, err := d.Sender.Send(ctx, domain.Notification{
		ID:    top.id,
		Title: top.article.Title,
		Body:  body,
		URL:   top.article.Link,
		Image: top.article.Image,
	})
	if err != nil {
		lgr.Printf("[WARN] failed to push %q: %v", top.article.Title, err)
		res.Reason, res.Err = ReasonSendFailed, err
		return res
	}

	d.stateMu.Lock()
	d.lastSent = now
	d.sent++
	d.stateMu.Unlock()
	d.Store.Add(top.id)
	if err := d.Store.Persist(ctx); err != nil {
		// identity is kept in memory and written on the next persist
		lgr.Printf("[ERROR] failed to persist notified ids: %v", err)
		res.Err = err
	}
	lgr.Printf("[INFO] push sent %s, score %d: %s", providerID, top.article.Score, top.article.Title)
	res.Sent, res.ProviderID, res.Reason = true, providerID, ReasonSent
	return res
}

// Status returns a snapshot of the dispatcher state, it doesn't wait for a dispatch in progress
func (d *Dispatcher) Status() Status {
	d.stateMu.Lock()
	defer d.stateMu.Unlock()
	return Status{LastSent: d.lastSent, Sent: d.sent, Notified: d.Store.Len()}
}

// candidates returns scored articles passing the threshold and not notified before, in input order
func (d *Dispatcher) candidates(articles []domain.Article) []candidate {
	res := []candidate{}
	seen := map[string]bool{}
	for _, a := range articles {
		a.Score = d.Scorer.Score(a)
		if a.Score < d.MinScore {
			continue
		}
		id := Identity(a)
		if seen[id] || d.Store.Contains(id) {
			continue
		}
		seen[id] = true
		res = append(res, candidate{article: a, id: id})
	}
	return res
}

func (d *Dispatcher) hasEmergency(candidates []candidate) bool {
	for _, c := range candidates {
		if d.Scorer.Emergency(c.article) {
			return true
		}
	}
	return false
}
