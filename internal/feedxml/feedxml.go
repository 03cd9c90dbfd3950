// Package feedxml turns fetched feed documents into store items. Feeds in
// the wild mix dialects, namespaces, and missing elements, so parsing is a
// lenient element-tree walk: every lookup degrades to an empty value and a
// malformed document yields no items rather than an error.
package feedxml

import (
	"strings"
	"time"

	"github.com/abelbrown/subwatch/internal/logging"
	"github.com/abelbrown/subwatch/internal/store"
)

// now is replaced in tests that exercise the missing-date fallback.
var now = time.Now

// Parse extracts the items of one feed document. The dialect is chosen by
// structure, not by declared type: a document containing a channel element
// is walked item by item, anything else entry by entry.
func Parse(body []byte, feedURL string) []store.Item {
	root, err := parseTree(body)
	if err != nil {
		logging.Debug("feed parse failed", "feed", feedURL, "err", err)
		return nil
	}
	if ch := root.find("channel"); ch != nil {
		return channelItems(ch, feedURL)
	}
	return entryItems(root, feedURL)
}

// channelItems handles the channel/item shape: podcast and torrent feeds
// with enclosures, RFC 2822 pubDate values, and content:encoded bodies.
func channelItems(channel *node, feedURL string) []store.Item {
	title := channel.childText("title")
	var items []store.Item
	for _, entry := range channel.collect("item") {
		items = append(items, channelItem(entry, title, feedURL))
	}
	return items
}

func channelItem(entry *node, channelTitle, feedURL string) store.Item {
	kind := store.KindOther
	var contentURL string
	if enc := entry.find("enclosure"); enc != nil && enc.attrs["url"] != "" {
		contentURL = enc.attrs["url"]
		if strings.HasPrefix(contentURL, "magnet:") {
			kind = store.KindMagnet
		} else {
			kind = store.KindAudio
		}
	} else {
		contentURL = entry.childText("link")
	}

	thumbnail := entry.childAttr("thumbnail", "url")
	if kind == store.KindOther && thumbnail != "" {
		kind = store.KindVideo
	}

	return store.Item{
		Kind:        kind,
		ChannelURL:  feedURL,
		Channel:     channelTitle,
		Title:       entry.childText("title"),
		URL:         contentURL,
		Published:   canonicalDate(entry.childText("pubDate")),
		Description: entry.childText("description"),
		Thumbnail:   thumbnail,
		Content:     entry.childText("encoded"),
	}
}

// entryItems handles the entry shape: link href attributes, timestamps
// passed through verbatim, and media group children.
func entryItems(root *node, feedURL string) []store.Item {
	title := root.childText("title")
	var items []store.Item
	for _, entry := range root.collect("entry") {
		items = append(items, entryItem(entry, title, feedURL))
	}
	return items
}

func entryItem(entry *node, feedTitle, feedURL string) store.Item {
	thumbnail := entry.childAttr("thumbnail", "url")
	kind := store.KindOther
	if thumbnail != "" {
		kind = store.KindVideo
	}

	published := entry.childText("published")
	if published == "" {
		published = entry.childText("updated")
	}
	if published == "" {
		published = entry.childText("issued")
	}

	// Media-style feeds nest description and content under a group element.
	media := entry
	if g := entry.find("group"); g != nil {
		media = g
	}

	return store.Item{
		Kind:        kind,
		ChannelURL:  feedURL,
		Channel:     feedTitle,
		Title:       entry.childText("title"),
		URL:         entry.childAttr("link", "href"),
		Published:   published,
		Description: media.childText("description"),
		Thumbnail:   thumbnail,
		Content:     media.childText("content"),
	}
}

// rfc2822Layouts covers the date forms feeds actually emit, with and
// without a leading zero on the day and with zone names or offsets.
var rfc2822Layouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"Mon, 2 Jan 2006 15:04:05 MST",
}

// canonicalDate re-emits an RFC 2822 timestamp as RFC 3339. Unparsable or
// missing dates become the current time so sorting stays total.
func canonicalDate(s string) string {
	for _, layout := range rfc2822Layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return now().Format(time.RFC3339)
}
