package search

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"helpdesk-cli/internal/clock"
	"helpdesk-cli/internal/model"
)

const DefaultDebounce = 300 * time.Millisecond

// Snapshot is the observable state of a Searcher. Gen increases with every
// published snapshot so receivers can drop ones that arrive out of order.
type Snapshot struct {
	Gen     uint64
	Query   string
	Results []model.SearchResult
	Loading bool
	Err     error
}

type Options struct {
	Clock    clock.Clock
	Debounce time.Duration
	Logger   *slog.Logger
	// OnUpdate receives every published snapshot. It runs without the
	// Searcher's lock held, possibly from a background goroutine.
	OnUpdate func(Snapshot)
}

// Searcher debounces query changes and runs at most one live pass at a time.
// Starting a pass cancels the previous one and its late results are dropped.
type Searcher struct {
	src      Source
	clock    clock.Clock
	debounce time.Duration
	log      *slog.Logger
	onUpdate func(Snapshot)

	mu     sync.Mutex
	snap   Snapshot
	gen    uint64
	timer  clock.Timer
	cancel context.CancelFunc
	closed bool
	wg     sync.WaitGroup
}

func NewSearcher(src Source, opts Options) *Searcher {
	s := &Searcher{
		src:      src,
		clock:    opts.Clock,
		debounce: opts.Debounce,
		log:      opts.Logger,
		onUpdate: opts.OnUpdate,
	}
	if s.clock == nil {
		s.clock = clock.Real()
	}
	if s.debounce <= 0 {
		s.debounce = DefaultDebounce
	}
	if s.log == nil {
		s.log = slog.New(slog.DiscardHandler)
	}
	return s
}

func (s *Searcher) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snap
}

// SetQuery records a new query. Short queries reset the results right away;
// longer ones (re)start the debounce timer.
func (s *Searcher) SetQuery(q string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.stopLocked()
	s.gen++
	gen := s.gen

	if !Qualifies(q) {
		s.snap = Snapshot{Gen: gen, Query: q}
		snap := s.snap
		s.mu.Unlock()
		s.publish(snap)
		return
	}

	s.snap.Query = q
	query := strings.TrimSpace(q)
	s.timer = s.clock.AfterFunc(s.debounce, func() { s.start(gen, query) })
	s.mu.Unlock()
}

func (s *Searcher) stopLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Searcher) start(gen uint64, query string) {
	s.mu.Lock()
	if s.closed || gen != s.gen {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	s.snap.Gen = gen
	s.snap.Loading = true
	snap := s.snap
	s.wg.Add(1)
	s.mu.Unlock()
	s.publish(snap)

	go func() {
		defer s.wg.Done()
		defer cancel()
		s.log.Debug("search pass", "query", query, "gen", gen)
		results, err := Search(ctx, s.src, query, s.log)

		s.mu.Lock()
		if gen != s.gen || s.closed {
			s.mu.Unlock()
			return
		}
		s.cancel = nil
		s.snap = Snapshot{Gen: gen, Query: s.snap.Query, Results: results, Err: err}
		snap := s.snap
		s.mu.Unlock()
		s.publish(snap)
	}()
}

func (s *Searcher) publish(snap Snapshot) {
	if s.onUpdate != nil {
		s.onUpdate(snap)
	}
}

// Wait blocks until no pass is running.
func (s *Searcher) Wait() { s.wg.Wait() }

// Close cancels any pending timer and running pass. Later calls to SetQuery
// are ignored.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.closed = true
	s.stopLocked()
	s.gen++
	s.mu.Unlock()
	s.wg.Wait()
}
