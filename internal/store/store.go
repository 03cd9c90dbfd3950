package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/abelbrown/subwatch/internal/logging"
)

// ErrFeedsFailed aborts a merge when one or more feeds could not be loaded.
var ErrFeedsFailed = errors.New("feeds failed to load")

// FeedResult is the outcome of fetching and parsing one feed during a reload.
// Exactly one of Failed, NotModified, or a fresh (ETag, Items) pair applies.
type FeedResult struct {
	FeedURL     string
	Failed      bool
	NotModified bool
	ETag        string
	Items       []Item
}

// Store reads and writes the snapshot file.
type Store struct {
	path string
	mu   sync.Mutex
}

// New creates a store for the snapshot at path. The file need not exist yet.
func New(path string) *Store {
	return &Store{path: path}
}

// Path returns the snapshot file location.
func (s *Store) Path() string { return s.path }

// Exists reports whether a snapshot file is present on disk.
func (s *Store) Exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// ModTime returns the snapshot file's modification time, and whether the
// file exists at all.
func (s *Store) ModTime() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}

// Load deserializes the snapshot from disk.
func (s *Store) Load() (*Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.ChannelETags == nil {
		snap.ChannelETags = make(map[string]string)
	}
	return &snap, nil
}

// Save overwrites the snapshot file. The document is written to a temp file
// in the same directory and renamed into place, so a crash mid-write leaves
// the previous snapshot intact.
func (s *Store) Save(snap *Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save(snap)
}

// save writes the file. Callers hold s.mu.
func (s *Store) save(snap *Snapshot) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".subwatch-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("replace snapshot: %w", err)
	}
	return nil
}

// Merge builds the next snapshot from a batch of feed results and persists
// it. If any feed failed, nothing changes: the previous snapshot stays
// authoritative in memory and on disk and ErrFeedsFailed is returned.
//
// NotModified feeds contribute their previous items and keep their previous
// ETag. Fresh feeds replace both. Read flags survive the swap: any item in
// the next snapshot whose content URL was flagged before stays flagged.
// A failed write is logged but does not invalidate the merged snapshot.
func (s *Store) Merge(prev *Snapshot, results []FeedResult) (*Snapshot, error) {
	var failed []string
	for _, r := range results {
		if r.Failed {
			failed = append(failed, r.FeedURL)
		}
	}
	if len(failed) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrFeedsFailed, strings.Join(failed, ", "))
	}

	next := NewSnapshot()
	for _, r := range results {
		if r.NotModified {
			next.ChannelETags[r.FeedURL] = prev.ETag(r.FeedURL)
			next.Items = append(next.Items, prev.ItemsForFeed(r.FeedURL)...)
			continue
		}
		next.ChannelETags[r.FeedURL] = r.ETag
		next.Items = append(next.Items, r.Items...)
	}

	flagged := make(map[string]Flag)
	if prev != nil {
		for _, it := range prev.Items {
			if it.Flag != "" {
				flagged[it.URL] = it.Flag
			}
		}
	}
	for i := range next.Items {
		if f, ok := flagged[next.Items[i].URL]; ok {
			next.Items[i].Flag = f
		}
	}

	if err := s.Save(next); err != nil {
		logging.Warn("snapshot write failed", "path", s.path, "err", err)
	}
	return next, nil
}

// SetFlag updates the flag on every item matching contentURL and persists
// the change. An empty flag clears the marker. Both the mutation and the
// write happen under the store lock, so concurrent SetFlag calls against
// the same snapshot serialize cleanly. The in-memory snapshot is updated
// even when the write fails.
func (s *Store) SetFlag(snap *Snapshot, contentURL string, flag Flag) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range snap.Items {
		if snap.Items[i].URL == contentURL {
			snap.Items[i].Flag = flag
		}
	}
	return s.save(snap)
}
