// Package sources resolves the configured subscription inputs into the list
// of feed endpoints to fetch: an OPML export, channel IDs, and raw feed URLs.
package sources

import (
	"encoding/xml"
	"net/url"
	"os"
	"regexp"
)

const channelFeedPrefix = "https://www.youtube.com/feeds/videos.xml?channel_id="

// Credentials are basic-auth credentials recovered from an inline URL.
type Credentials struct {
	Username string
	Password string
}

// Feed is one resolved feed endpoint. URL never contains credentials; when
// the configured form embedded them, they live in Auth instead.
type Feed struct {
	URL  string
	Auth *Credentials
}

// Resolve expands the OPML document, channel IDs, and raw URLs into feeds,
// in that order. Duplicates are kept; fetching a feed twice is wasteful but
// harmless. An unparsable OPML document contributes nothing.
func Resolve(opmlText string, channelIDs, channelURLs []string) []Feed {
	var feeds []Feed
	for _, u := range outlineURLs(opmlText) {
		feeds = append(feeds, SplitBasicAuth(u))
	}
	for _, id := range channelIDs {
		feeds = append(feeds, SplitBasicAuth(channelFeedPrefix+id))
	}
	for _, u := range channelURLs {
		feeds = append(feeds, SplitBasicAuth(u))
	}
	return feeds
}

// ReadExport reads the OPML subscription export from path. A missing or
// unreadable file is treated as an empty document.
func ReadExport(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		return "<opml></opml>"
	}
	return string(data)
}

var basicAuthPattern = regexp.MustCompile(`^(https://)([^:/]*):([^@/]*)@(.*)$`)

// SplitBasicAuth strips inline credentials from an https URL, percent-decoding
// the username and password. URLs without inline credentials pass through
// unchanged with nil Auth.
func SplitBasicAuth(raw string) Feed {
	m := basicAuthPattern.FindStringSubmatch(raw)
	if m == nil {
		return Feed{URL: raw}
	}
	return Feed{
		URL: m[1] + m[4],
		Auth: &Credentials{
			Username: percentDecode(m[2]),
			Password: percentDecode(m[3]),
		},
	}
}

// percentDecode is best effort: malformed escapes leave the input as is.
func percentDecode(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}

type outline struct {
	XMLURL   string    `xml:"xmlUrl,attr"`
	Outlines []outline `xml:"outline"`
}

type opmlDoc struct {
	Body struct {
		Outlines []outline `xml:"outline"`
	} `xml:"body"`
}

// outlineURLs collects every outline xmlUrl attribute in document order,
// including nested folder outlines.
func outlineURLs(opmlText string) []string {
	var doc opmlDoc
	if err := xml.Unmarshal([]byte(opmlText), &doc); err != nil {
		return nil
	}
	var urls []string
	var walk func([]outline)
	walk = func(outlines []outline) {
		for _, o := range outlines {
			if o.XMLURL != "" {
				urls = append(urls, o.XMLURL)
			}
			walk(o.Outlines)
		}
	}
	walk(doc.Body.Outlines)
	return urls
}
