package ui

import (
	"sort"
	"strings"

	"github.com/abelbrown/subwatch/internal/store"
)

// matchText is the haystack the filter and search run against.
func matchText(it store.Item) string {
	return strings.ToLower(string(it.Kind) + " " + it.Channel + " " + it.Title)
}

// fuzzyMatch reports whether every rune of needle appears in haystack in
// order, not necessarily adjacent. An empty needle matches everything.
func fuzzyMatch(needle, haystack string) bool {
	needle = strings.ToLower(needle)
	i := 0
	for _, r := range haystack {
		if i == len(needle) {
			return true
		}
		if strings.HasPrefix(needle[i:], string(r)) {
			i += len(string(r))
		}
	}
	return i == len(needle)
}

// visibleItems filters and orders the snapshot for display. Items sort by
// their published string, newest first unless the configured sort is "asc".
func visibleItems(snap *store.Snapshot, filter, sortOrder string) []store.Item {
	if snap == nil {
		return nil
	}
	items := make([]store.Item, 0, len(snap.Items))
	for _, it := range snap.Items {
		if filter == "" || fuzzyMatch(filter, matchText(it)) {
			items = append(items, it)
		}
	}
	sort.SliceStable(items, func(i, j int) bool {
		if sortOrder == "asc" {
			return items[i].Published < items[j].Published
		}
		return items[i].Published > items[j].Published
	})
	return items
}

// nextMatch returns the index of the first item after start whose text
// matches the search query, wrapping around. Returns -1 when nothing
// matches.
func nextMatch(items []store.Item, query string, start int) int {
	if query == "" || len(items) == 0 {
		return -1
	}
	for i := 1; i <= len(items); i++ {
		idx := (start + i) % len(items)
		if fuzzyMatch(query, matchText(items[idx])) {
			return idx
		}
	}
	return -1
}

// shortDate trims a timestamp to its date part for the list column.
func shortDate(published string) string {
	if len(published) >= 10 {
		return published[5:10]
	}
	return published
}

// padRight pads or truncates s to exactly width cells.
func padRight(s string, width int) string {
	r := []rune(s)
	if len(r) > width {
		return string(r[:width])
	}
	return s + strings.Repeat(" ", width-len(r))
}
