package ui

import (
	"testing"

	"github.com/abelbrown/subwatch/internal/store"
)

func TestFuzzyMatch(t *testing.T) {
	tests := []struct {
		needle, haystack string
		want             bool
	}{
		{"", "anything", true},
		{"abc", "abc", true},
		{"abc", "a-b-c", true},
		{"gol", "video golang weekly", true},
		{"cba", "abc", false},
		{"ABC", "xaxbxc", true},
		{"abc", "ab", false},
	}
	for _, tt := range tests {
		if got := fuzzyMatch(tt.needle, tt.haystack); got != tt.want {
			t.Errorf("fuzzyMatch(%q, %q) = %v, want %v", tt.needle, tt.haystack, got, tt.want)
		}
	}
}

func testSnapshot() *store.Snapshot {
	snap := store.NewSnapshot()
	snap.Items = []store.Item{
		{Kind: store.KindVideo, Channel: "alpha", Title: "old video", URL: "u1", Published: "2026-01-01T00:00:00Z"},
		{Kind: store.KindAudio, Channel: "beta", Title: "new episode", URL: "u2", Published: "2026-03-01T00:00:00Z"},
		{Kind: store.KindVideo, Channel: "alpha", Title: "mid video", URL: "u3", Published: "2026-02-01T00:00:00Z"},
	}
	return snap
}

func TestVisibleItemsSortsNewestFirst(t *testing.T) {
	items := visibleItems(testSnapshot(), "", "desc")
	if items[0].URL != "u2" || items[1].URL != "u3" || items[2].URL != "u1" {
		t.Errorf("wrong order: %v %v %v", items[0].URL, items[1].URL, items[2].URL)
	}
}

func TestVisibleItemsAscending(t *testing.T) {
	items := visibleItems(testSnapshot(), "", "asc")
	if items[0].URL != "u1" || items[2].URL != "u2" {
		t.Errorf("wrong ascending order: %v %v %v", items[0].URL, items[1].URL, items[2].URL)
	}
}

func TestVisibleItemsFilter(t *testing.T) {
	items := visibleItems(testSnapshot(), "episode", "desc")
	if len(items) != 1 || items[0].URL != "u2" {
		t.Errorf("filter matched %d items, want just the episode", len(items))
	}
	if got := visibleItems(testSnapshot(), "audio", "desc"); len(got) != 1 {
		t.Errorf("kind should participate in matching, got %d items", len(got))
	}
}

func TestNextMatchWrapsAround(t *testing.T) {
	items := visibleItems(testSnapshot(), "", "desc")
	idx := nextMatch(items, "video", 1)
	if idx != 2 {
		t.Fatalf("nextMatch = %d, want 2", idx)
	}
	idx = nextMatch(items, "video", 2)
	if idx != 1 {
		t.Errorf("nextMatch did not wrap, got %d", idx)
	}
	if nextMatch(items, "zzz", 0) != -1 {
		t.Error("impossible query should return -1")
	}
}

func TestShortDate(t *testing.T) {
	if got := shortDate("2026-08-25T10:00:00Z"); got != "08-25" {
		t.Errorf("shortDate = %q", got)
	}
	if got := shortDate("odd"); got != "odd" {
		t.Errorf("short input should pass through, got %q", got)
	}
}

func TestStripTags(t *testing.T) {
	if got := stripTags("<p>hello <b>world</b></p>"); got != "hello world" {
		t.Errorf("stripTags = %q", got)
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four", 9)
	for _, l := range lines {
		if len(l) > 9 {
			t.Errorf("line %q exceeds width", l)
		}
	}
	if len(lines) < 2 {
		t.Errorf("expected wrapping, got %v", lines)
	}
}
