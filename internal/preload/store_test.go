package preload

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pascal91DA/rezka-grabber/internal/client"
	"github.com/pascal91DA/rezka-grabber/internal/models"
	"github.com/pascal91DA/rezka-grabber/internal/resolver"
)

var testKey = Key{MediaID: "646", TranslationID: "56", SeasonID: "1", EpisodeID: "2"}

func TestStore_StartDeduplicates(t *testing.T) {
	s := NewStore(4, time.Minute)
	release := make(chan struct{})
	var calls atomic.Int32

	resolve := func(ctx context.Context) (*models.ResolutionResult, error) {
		calls.Add(1)
		<-release
		return &models.ResolutionResult{URL: "https://cdn/2.mp4", Quality: "1080p"}, nil
	}

	if !s.Start(context.Background(), testKey, resolve) {
		t.Fatal("first Start must launch a preload")
	}
	if s.Start(context.Background(), testKey, resolve) {
		t.Fatal("second Start for an in-flight key must be a no-op")
	}
	if !s.InFlight(testKey) {
		t.Fatal("expected key to be in flight")
	}

	close(release)
	res, ok := s.Wait(context.Background(), testKey)
	if !ok || res.Err != nil || res.Value.URL != "https://cdn/2.mp4" {
		t.Fatalf("Wait() = %+v, %v", res, ok)
	}
	if calls.Load() != 1 {
		t.Errorf("resolve called %d times, want 1", calls.Load())
	}
	if _, ok := s.Take(testKey); ok {
		t.Error("a taken result must not be served twice")
	}
}

func TestStore_KeepsFailures(t *testing.T) {
	s := NewStore(4, time.Minute)
	boom := errors.New("boom")
	s.Start(context.Background(), testKey, func(context.Context) (*models.ResolutionResult, error) {
		return nil, boom
	})

	res, ok := s.Wait(context.Background(), testKey)
	if !ok || !errors.Is(res.Err, boom) {
		t.Fatalf("Wait() = %+v, %v", res, ok)
	}
}

func TestStore_InvalidateDiscardsLateResults(t *testing.T) {
	s := NewStore(4, time.Minute)
	started := make(chan struct{})
	var sawCancel atomic.Bool

	s.Start(context.Background(), testKey, func(ctx context.Context) (*models.ResolutionResult, error) {
		close(started)
		<-ctx.Done()
		sawCancel.Store(true)
		return &models.ResolutionResult{URL: "stale"}, nil
	})
	<-started

	s.Invalidate()
	if s.InFlight(testKey) {
		t.Fatal("Invalidate must clear in-flight markers")
	}

	res, ok := s.Wait(context.Background(), testKey)
	if ok {
		t.Fatalf("stale result served after Invalidate: %+v", res)
	}

	deadline := time.Now().Add(time.Second)
	for !sawCancel.Load() && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if !sawCancel.Load() {
		t.Fatal("running preload was not cancelled")
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after Invalidate, want 0", s.Len())
	}
}

func TestStore_WaitHonoursContext(t *testing.T) {
	s := NewStore(4, time.Minute)
	block := make(chan struct{})
	defer close(block)
	s.Start(context.Background(), testKey, func(context.Context) (*models.ResolutionResult, error) {
		<-block
		return nil, nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	if _, ok := s.Wait(ctx, testKey); ok {
		t.Fatal("Wait must give up when its context ends")
	}
}

type pageFetcher struct {
	gets atomic.Int32
}

func (f *pageFetcher) Get(_ context.Context, rawURL string, _ http.Header) (*client.Response, error) {
	f.gets.Add(1)
	body := `<script>{"streams":"[1080p]https:\/\/cdn\/` + strings.TrimSuffix(rawURL[strings.LastIndex(rawURL, "/")+1:], ".html") + `.mp4"}</script>`
	return &client.Response{StatusCode: http.StatusOK, Header: http.Header{}, Body: []byte(body)}, nil
}

func (f *pageFetcher) PostForm(context.Context, string, url.Values, http.Header) (*client.Response, error) {
	return nil, errors.New("unexpected post")
}

func TestStore_PreloadNextEpisode(t *testing.T) {
	page := &models.MediaPage{
		URL:          "https://rezka.ag/series/thriller/646-name.html",
		Translations: []models.Translation{{ID: "56", Slug: "56-dublyazh"}},
		Episodes: []models.Episode{
			{ID: "1", SeasonID: "1"},
			{ID: "2", SeasonID: "1"},
		},
	}
	opts := resolver.DefaultOptions()
	opts.RetryDelay = 0
	fetcher := &pageFetcher{}
	r := resolver.New(fetcher, opts)

	current := resolver.RequestFor(page, "56", "1", "1")
	current.MaxAttempts = 1

	s := NewStore(4, time.Minute)
	key, started := s.Preload(context.Background(), r, page, current)
	if !started || key.EpisodeID != "2" || key.SeasonID != "1" {
		t.Fatalf("Preload() = %+v, %v", key, started)
	}
	res, ok := s.Wait(context.Background(), key)
	if !ok || res.Err != nil {
		t.Fatalf("Wait() = %+v, %v", res, ok)
	}
	if res.Value.URL != "https://cdn/2-episode.mp4" {
		t.Errorf("URL = %q", res.Value.URL)
	}

	last := resolver.RequestFor(page, "56", "1", "2")
	if _, started := s.Preload(context.Background(), r, page, last); started {
		t.Error("no preload expected after the last episode")
	}
}
