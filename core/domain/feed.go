// ABOUTME: Feed domain model represents a subscribed RSS/Atom feed and its schedule
// ABOUTME: The feed row carries the adaptive polling state alongside parsed metadata

package domain

import (
	"errors"
	"net/url"
	"time"
)

// FeedRecord is the persistent state of one subscribed feed, keyed by
// the final URL after HTTP redirects.
type FeedRecord struct {
	// FeedURL is the canonical feed URL (post-redirect)
	FeedURL string

	// HomeURL is the site homepage advertised by the feed
	HomeURL *string

	// Name is the feed title
	Name *string

	// Link is the URL the subscriber originally submitted
	Link *string

	// Image is the feed-level image or icon URL
	Image *string

	// LastPublished is the newest publish timestamp seen in the feed
	LastPublished *time.Time

	// LastFetched is when the feed was last successfully polled
	LastFetched *time.Time

	// NextFetchAt is the scheduled next-poll instant; nil for feeds
	// that have never been polled
	NextFetchAt *time.Time

	// PublishRatePerHour is the smoothed publish rate estimate; nil
	// until at least one poll produced enough history
	PublishRatePerHour *float64

	// FailureCount is the number of consecutive failed polls, driving
	// the retry backoff
	FailureCount int
}

// Validate checks the invariants the store relies on.
func (f *FeedRecord) Validate() error {
	if f.FeedURL == "" {
		return errors.New("feed URL cannot be empty")
	}

	parsed, err := url.Parse(f.FeedURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return errors.New("feed URL is not valid format")
	}

	if f.PublishRatePerHour != nil && *f.PublishRatePerHour <= 0 {
		return errors.New("publish rate must be positive when set")
	}

	return nil
}

// ParsedFeed is the parser's view of one fetched document: the feed
// metadata plus the items it currently advertises.
type ParsedFeed struct {
	// FinalURL is the feed URL after following redirects; it becomes
	// the canonical key so that http/https aliases and feed proxies
	// collapse to one row
	FinalURL string

	// Name is the feed title, normalized
	Name string

	// HomeURL is the site homepage
	HomeURL string

	// Image is the feed-level image URL
	Image string

	// LastPublished is the newest publish timestamp across the feed
	// header and its items
	LastPublished *time.Time

	// Items are the parsed entries, newest-first as the feed lists them
	Items []ParsedItem
}

// ParsedItem is one entry extracted from a feed document.
type ParsedItem struct {
	// URL is the article URL; items without one are dropped
	URL string

	// Title is the normalized item title
	Title string

	// Description is the normalized summary text
	Description string

	// Content is the raw content:encoded / content payload, unstripped
	Content string

	// Author is the entry author name
	Author string

	// ImageURL is the best-scoring image candidate, if any
	ImageURL string

	// Published is the parsed publish timestamp, nil when absent or
	// unparseable
	Published *time.Time
}
