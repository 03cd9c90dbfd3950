// Package ui provides the Bubble Tea TUI for subwatch.
package ui

import "github.com/abelbrown/subwatch/internal/store"

// SnapshotLoaded is sent when a load or reload finishes.
type SnapshotLoaded struct {
	Snap   *store.Snapshot
	Forced bool
	Err    error
}

// FlagSaved is sent after a flag change has been written to the cache.
type FlagSaved struct {
	Err error
}

// PlaybackDone is sent when an external player exits.
type PlaybackDone struct {
	Err error
}

// URLYanked is sent after copying an item URL to the clipboard.
type URLYanked struct {
	URL string
	Err error
}
