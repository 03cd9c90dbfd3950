// Package fetch retrieves feed documents over HTTP with conditional
// requests, so unchanged feeds cost one 304 instead of a full body.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/abelbrown/subwatch/internal/logging"
	"github.com/abelbrown/subwatch/internal/sources"
)

const (
	maxAttempts          = 5
	backoffStep          = 100 * time.Millisecond
	maxConcurrentFetches = 16
)

// Outcome is the terminal result of fetching one feed. Exactly one state
// holds: NotModified, a fresh body, or Err.
type Outcome struct {
	FeedURL     string
	NotModified bool
	ETag        string
	Body        []byte
	Err         error
}

// Fetcher issues conditional GETs for feeds.
type Fetcher struct {
	client  *http.Client
	limiter *rate.Limiter
	backoff time.Duration
	after   func(time.Duration) <-chan time.Time
}

// NewFetcher creates a Fetcher with the given HTTP client timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		// Keeps a large subscription list from hammering one host.
		limiter: rate.NewLimiter(rate.Limit(20), 20),
		backoff: backoffStep,
		after:   time.After,
	}
}

// FetchAll retrieves every feed concurrently and returns one outcome per
// feed, in input order. etags maps feed URL to the last known validator.
// A failing feed never blocks or cancels the others.
func (f *Fetcher) FetchAll(ctx context.Context, feeds []sources.Feed, etags map[string]string) []Outcome {
	outcomes := make([]Outcome, len(feeds))
	var g errgroup.Group
	g.SetLimit(maxConcurrentFetches)
	for i, feed := range feeds {
		g.Go(func() error {
			outcomes[i] = f.FetchFeed(ctx, feed, etags[feed.URL])
			return nil
		})
	}
	g.Wait()
	return outcomes
}

// FetchFeed performs a conditional GET for one feed, retrying failures with
// linear backoff: after failed attempt i the delay is i * 100ms, so the
// first retry is immediate. Any non-2xx status other than 304 counts as a
// failed attempt; after the last attempt the final error is reported.
func (f *Fetcher) FetchFeed(ctx context.Context, feed sources.Feed, etag string) Outcome {
	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		out, err := f.fetchOnce(ctx, feed, etag)
		if err == nil {
			return out
		}
		lastErr = err
		logging.Debug("fetch attempt failed", "feed", feed.URL, "attempt", attempt+1, "err", err)
		if attempt < maxAttempts-1 {
			select {
			case <-f.after(time.Duration(attempt) * f.backoff):
			case <-ctx.Done():
				return Outcome{FeedURL: feed.URL, Err: ctx.Err()}
			}
		}
	}
	logging.Warn("feed unreachable", "feed", feed.URL, "err", lastErr)
	return Outcome{FeedURL: feed.URL, Err: lastErr}
}

func (f *Fetcher) fetchOnce(ctx context.Context, feed sources.Feed, etag string) (Outcome, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return Outcome{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, feed.URL, nil)
	if err != nil {
		return Outcome{}, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept-Encoding", "*/*")
	if etag != "" {
		req.Header.Set("If-None-Match", etag)
	}
	if feed.Auth != nil {
		req.SetBasicAuth(feed.Auth.Username, feed.Auth.Password)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return Outcome{}, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotModified {
		return Outcome{FeedURL: feed.URL, NotModified: true, ETag: etag}, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Outcome{}, fmt.Errorf("HTTP error: %d %s", resp.StatusCode, resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Outcome{}, fmt.Errorf("read body: %w", err)
	}
	return Outcome{FeedURL: feed.URL, ETag: resp.Header.Get("ETag"), Body: body}, nil
}
