// Package preload keeps speculatively resolved streams (typically the next
// episode) until the player asks for them.
package preload

import (
	"context"
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/pascal91DA/rezka-grabber/internal/config"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/resolver"
)

const (
	DefaultSize = 8
	DefaultTTL  = 10 * time.Minute
)

// Key identifies one preloaded selection.
type Key struct {
	MediaID       string
	TranslationID string
	SeasonID      string
	EpisodeID     string
}

// KeyFor returns the key of a resolve request.
func KeyFor(req resolver.Request) Key {
	return Key{
		MediaID:       req.Media.ID,
		TranslationID: req.TranslationID,
		SeasonID:      req.SeasonID,
		EpisodeID:     req.EpisodeID,
	}
}

// Result is the outcome of one preload.
type Result = models.StreamResult[*models.ResolutionResult]

// ResolveFunc produces the result of a preload.
type ResolveFunc func(ctx context.Context) (*models.ResolutionResult, error)

type flight struct {
	cancel context.CancelFunc
	done   chan struct{}
}

// Store holds finished preloads in an expiring LRU and marks preloads in
// progress so the same selection is never resolved twice at once.
type Store struct {
	mu       sync.Mutex
	ready    *lru.LRU[Key, Result]
	inflight map[Key]*flight
}

// NewStore creates a store keeping at most size results for ttl.
func NewStore(size int, ttl time.Duration) *Store {
	if size <= 0 {
		size = DefaultSize
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ready:    lru.NewLRU[Key, Result](size, nil, ttl),
		inflight: make(map[Key]*flight),
	}
}

// Start runs resolve in the background for key. It returns false, and does
// nothing, when key is already in flight or has a ready result.
func (s *Store) Start(ctx context.Context, key Key, resolve ResolveFunc) bool {
	s.mu.Lock()
	if _, busy := s.inflight[key]; busy || s.ready.Contains(key) {
		s.mu.Unlock()
		return false
	}
	ctx, cancel := context.WithCancel(ctx)
	f := &flight{cancel: cancel, done: make(chan struct{})}
	s.inflight[key] = f
	s.mu.Unlock()

	go func() {
		defer close(f.done)
		defer cancel()

		value, err := resolve(ctx)

		s.mu.Lock()
		defer s.mu.Unlock()
		// Invalidate dropped this flight while it ran.
		if s.inflight[key] != f {
			return
		}
		delete(s.inflight, key)
		s.ready.Add(key, Result{Value: value, Err: err})
	}()
	return true
}

// Preload starts resolving the episode after req's episode of page. It returns
// the key used and whether a preload was started.
func (s *Store) Preload(ctx context.Context, r *resolver.Resolver, page *models.MediaPage, req resolver.Request) (Key, bool) {
	logger := config.GetLogger()

	nextReq, next, ok := resolver.NextRequest(page, req)
	if !ok {
		return Key{}, false
	}
	nextReq.OnProgress = nil
	key := KeyFor(nextReq)

	started := s.Start(ctx, key, func(ctx context.Context) (*models.ResolutionResult, error) {
		return r.Resolve(ctx, nextReq)
	})
	if started {
		logger.Debug().Str("season", next.SeasonID).Str("episode", next.ID).Msg("Preloading next episode")
	}
	return key, started
}

// InFlight reports whether a preload for key is running.
func (s *Store) InFlight(key Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.inflight[key]
	return ok
}

// Take removes and returns the ready result for key.
func (s *Store) Take(key Key) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	res, ok := s.ready.Get(key)
	if ok {
		s.ready.Remove(key)
	}
	return res, ok
}

// Wait blocks until the preload for key finishes or ctx ends, then takes its
// result.
func (s *Store) Wait(ctx context.Context, key Key) (Result, bool) {
	s.mu.Lock()
	f, ok := s.inflight[key]
	s.mu.Unlock()
	if ok {
		select {
		case <-f.done:
		case <-ctx.Done():
			return Result{}, false
		}
	}
	return s.Take(key)
}

// Invalidate cancels running preloads and drops every ready result. Results of
// cancelled preloads are discarded when they arrive.
func (s *Store) Invalidate() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for key, f := range s.inflight {
		f.cancel()
		delete(s.inflight, key)
	}
	s.ready.Purge()
}

// Len returns the number of ready results.
func (s *Store) Len() int {
	return s.ready.Len()
}
