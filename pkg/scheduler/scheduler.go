// Package scheduler runs the periodic breaking news check and the dispatch queue
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"

	"github.com/khabarwire/khabar/pkg/domain"
	"github.com/khabarwire/khabar/pkg/feed"
	"github.com/khabarwire/khabar/pkg/notify"
)

//go:generate moq -out mocks/aggregator.go -pkg mocks -skip-ensure -fmt goimports . Aggregator
//go:generate moq -out mocks/dispatcher.go -pkg mocks -skip-ensure -fmt goimports . Dispatcher

// Scheduler runs two workers: the dispatch worker consuming submitted batches, and,
// if enabled, the periodic worker doing light aggregation followed by dispatch
type Scheduler struct {
	aggregator Aggregator
	dispatcher Dispatcher
	interval   time.Duration
	enabled    bool
	queue      chan []domain.Article
	wg         sync.WaitGroup
	cancel     context.CancelFunc
}

// Aggregator interface for fetching all feeds
type Aggregator interface {
	Fetch(ctx context.Context, mode feed.Mode) ([]domain.Article, error)
}

// Dispatcher interface for pushing the most important article
type Dispatcher interface {
	Dispatch(ctx context.Context, articles []domain.Article) notify.Result
}

// Params contains dependencies and settings for the scheduler
type Params struct {
	Aggregator Aggregator
	Dispatcher Dispatcher
	Interval   time.Duration
	Enabled    bool // periodic worker, only one instance should run it
	QueueSize  int
}

// NewScheduler creates a new scheduler instance
func NewScheduler(params Params) *Scheduler {
	if params.Interval == 0 {
		params.Interval = 5 * time.Minute
	}
	if params.QueueSize <= 0 {
		params.QueueSize = 16
	}

	return &Scheduler{
		aggregator: params.Aggregator,
		dispatcher: params.Dispatcher,
		interval:   params.Interval,
		enabled:    params.Enabled,
		queue:      make(chan []domain.Article, params.QueueSize),
	}
}

// Start begins the scheduler
func (s *Scheduler) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)

	s.wg.Add(1)
	go s.dispatchWorker(ctx)

	if !s.enabled {
		lgr.Printf("[INFO] scheduler started, periodic check disabled on this instance")
		return
	}

	s.wg.Add(1)
	go s.periodicWorker(ctx)
	lgr.Printf("[INFO] scheduler started with interval %v", s.interval)
}

// Stop gracefully stops the scheduler. Batches still queued are dropped.
func (s *Scheduler) Stop() {
	lgr.Printf("[INFO] stopping scheduler...")
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
	lgr.Printf("[INFO] scheduler stopped")
}

// Submit queues articles for dispatch without blocking. Returns false if the queue is full
// and the batch was dropped.
func (s *Scheduler) Submit(articles []domain.Article) bool {
	select {
	case s.queue <- articles:
		return true
	default:
		lgr.Printf("[WARN] dispatch queue is full, batch of %d articles dropped", len(articles))
		return false
	}
}

// RunNow runs a single light aggregation and dispatch synchronously
func (s *Scheduler) RunNow(ctx context.Context) (notify.Result, error) {
	articles, err := s.aggregator.Fetch(ctx, feed.ModeLight)
	if err != nil {
		return notify.Result{}, fmt.Errorf("light aggregation: %w", err)
	}
	res := s.dispatcher.Dispatch(ctx, articles)
	lgr.Printf("[DEBUG] periodic check: %d articles, %d candidates, %s", len(articles), res.Candidates, res.Reason)
	return res, nil
}

// dispatchWorker dispatches submitted batches one by one
func (s *Scheduler) dispatchWorker(ctx context.Context) {
	defer s.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case articles := <-s.queue:
			res := s.dispatcher.Dispatch(ctx, articles)
			lgr.Printf("[DEBUG] queued dispatch: %d articles, %d candidates, %s", len(articles), res.Candidates, res.Reason)
		}
	}
}

// periodicWorker runs light check every interval, first one right away
func (s *Scheduler) periodicWorker(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.runCycle(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.runCycle(ctx)
		}
	}
}

func (s *Scheduler) runCycle(ctx context.Context) {
	if _, err := s.RunNow(ctx); err != nil {
		lgr.Printf("[WARN] periodic check failed: %v", err)
	}
}
