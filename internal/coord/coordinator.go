// Package coord drives snapshot loading: the full resolve, fetch, parse,
// merge cycle and the cheap soft path that reuses the cache on disk.
package coord

import (
	"context"
	"sync"
	"time"

	"github.com/abelbrown/subwatch/internal/config"
	"github.com/abelbrown/subwatch/internal/feedxml"
	"github.com/abelbrown/subwatch/internal/fetch"
	"github.com/abelbrown/subwatch/internal/logging"
	"github.com/abelbrown/subwatch/internal/sources"
	"github.com/abelbrown/subwatch/internal/store"
)

// fetcher interface for dependency injection (testing).
type fetcher interface {
	FetchAll(ctx context.Context, feeds []sources.Feed, etags map[string]string) []fetch.Outcome
}

// Coordinator owns the reload lifecycle. One reload runs at a time; the UI
// keeps using its current snapshot until a replacement arrives.
type Coordinator struct {
	store   *store.Store
	fetcher fetcher
	cfg     *config.Config

	mu       sync.Mutex
	loadedAt time.Time
}

// NewCoordinator creates a Coordinator with the real fetcher.
func NewCoordinator(s *store.Store, f *fetch.Fetcher, cfg *config.Config) *Coordinator {
	return NewCoordinatorWithFetcher(s, f, cfg)
}

// NewCoordinatorWithFetcher allows injecting a custom fetcher (for testing).
func NewCoordinatorWithFetcher(s *store.Store, f fetcher, cfg *config.Config) *Coordinator {
	return &Coordinator{store: s, fetcher: f, cfg: cfg}
}

// Reload runs the full cycle against every configured source and returns
// the merged snapshot. When any feed stays unreachable the previous
// snapshot remains authoritative and the error describes which feeds
// failed. A feed that fetched but did not parse contributes zero items
// and does not fail the reload.
func (c *Coordinator) Reload(ctx context.Context, prev *store.Snapshot) (*store.Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	feeds := sources.Resolve(
		sources.ReadExport(c.cfg.SubscriptionsPath()),
		c.cfg.ChannelIDs,
		c.cfg.ChannelURLs,
	)
	logging.Info("reloading", "feeds", len(feeds))

	var etags map[string]string
	if prev != nil {
		etags = prev.ChannelETags
	}
	outcomes := c.fetcher.FetchAll(ctx, feeds, etags)

	results := make([]store.FeedResult, len(outcomes))
	for i, out := range outcomes {
		switch {
		case out.Err != nil:
			results[i] = store.FeedResult{FeedURL: out.FeedURL, Failed: true}
		case out.NotModified:
			results[i] = store.FeedResult{FeedURL: out.FeedURL, NotModified: true}
		default:
			results[i] = store.FeedResult{
				FeedURL: out.FeedURL,
				ETag:    out.ETag,
				Items:   feedxml.Parse(out.Body, out.FeedURL),
			}
		}
	}

	next, err := c.store.Merge(prev, results)
	if err != nil {
		return nil, err
	}
	c.loadedAt = time.Now()
	logging.Info("reload complete", "items", len(next.Items))
	return next, nil
}

// LoadOrReload returns the current snapshot. The soft path deserializes the
// cache file without touching the network; a reload happens only when
// forced, when no cache exists yet, or when the cache is unreadable.
func (c *Coordinator) LoadOrReload(ctx context.Context, force bool, prev *store.Snapshot) (*store.Snapshot, error) {
	if force || !c.store.Exists() {
		return c.Reload(ctx, prev)
	}
	snap, err := c.store.Load()
	if err != nil {
		logging.Warn("snapshot unreadable, reloading", "err", err)
		return c.Reload(ctx, prev)
	}
	c.mu.Lock()
	c.loadedAt = time.Now()
	c.mu.Unlock()
	return snap, nil
}

// Refreshed reports whether the cache file was rewritten after this
// coordinator last read it, which happens when a separate refresh process
// runs alongside the UI.
func (c *Coordinator) Refreshed() bool {
	mtime, ok := c.store.ModTime()
	if !ok {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return mtime.After(c.loadedAt)
}
