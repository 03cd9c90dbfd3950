// Package store owns the persisted snapshot of subscription items: the data
// model, the JSON cache file, and the merge that replaces one snapshot with
// the next.
package store

// Kind classifies what an item's content URL points at.
type Kind string

const (
	KindVideo  Kind = "Video"
	KindAudio  Kind = "Audio"
	KindOther  Kind = "Other"
	KindMagnet Kind = "Magnet"
)

// Flag is a user-set marker on an item. Read is the only flag today.
type Flag string

const FlagRead Flag = "Read"

// Item is one piece of content from one feed.
type Item struct {
	Kind        Kind   `json:"kind"`
	ChannelURL  string `json:"channel_url"`
	Channel     string `json:"channel"`
	Title       string `json:"title"`
	URL         string `json:"url"`
	Published   string `json:"published"`
	Description string `json:"description"`
	Thumbnail   string `json:"thumbnail,omitempty"`
	Flag        Flag   `json:"flag,omitempty"`
	Content     string `json:"content,omitempty"`
}

// Read reports whether the user has marked the item read.
func (it Item) Read() bool { return it.Flag == FlagRead }

// Snapshot is the complete cached state: one ETag entry per known feed plus
// every item across all feeds. It is replaced wholesale or not at all.
type Snapshot struct {
	ChannelETags map[string]string `json:"channel_etags"`
	Items        []Item            `json:"items"`
}

// NewSnapshot returns an empty snapshot with an initialized ETag map.
func NewSnapshot() *Snapshot {
	return &Snapshot{ChannelETags: make(map[string]string)}
}

// ETag returns the stored validator for feedURL, or "" when none is known.
func (s *Snapshot) ETag(feedURL string) string {
	if s == nil || s.ChannelETags == nil {
		return ""
	}
	return s.ChannelETags[feedURL]
}

// Clone returns a copy sharing no memory with the receiver, so one copy can
// be handed to a writer goroutine while the other keeps changing.
func (s *Snapshot) Clone() *Snapshot {
	c := NewSnapshot()
	if s == nil {
		return c
	}
	for k, v := range s.ChannelETags {
		c.ChannelETags[k] = v
	}
	c.Items = append([]Item(nil), s.Items...)
	return c
}

// ItemsForFeed returns the items sourced from feedURL, preserving order.
func (s *Snapshot) ItemsForFeed(feedURL string) []Item {
	if s == nil {
		return nil
	}
	var items []Item
	for _, it := range s.Items {
		if it.ChannelURL == feedURL {
			items = append(items, it)
		}
	}
	return items
}
