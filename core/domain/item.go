// ABOUTME: Item domain model represents one stored article from a feed
// ABOUTME: Items are immutable per URL; re-fetching a feed never rewrites them

package domain

import (
	"errors"
	"time"
)

// ItemRecord is the persistent form of one article, keyed by URL.
type ItemRecord struct {
	// URL is the article URL and primary key
	URL string

	// FeedURL references the owning feed; deleting the feed cascades
	FeedURL string

	// Title is the normalized title
	Title *string

	// Description is the normalized summary
	Description *string

	// Content is the raw content payload
	Content *string

	// Image is an inline data URI, nil when no image could be fetched
	Image *string

	// Author is the entry author name
	Author *string

	// Published is the publish timestamp, nil when unknown
	Published *time.Time
}

// Validate checks the invariants the store relies on.
func (i *ItemRecord) Validate() error {
	if i.URL == "" {
		return errors.New("item URL cannot be empty")
	}
	if i.FeedURL == "" {
		return errors.New("item feed URL cannot be empty")
	}
	return nil
}

// SearchResult is one full-text search hit joined with feed metadata.
type SearchResult struct {
	URL         string
	Title       *string
	Description *string
	Image       *string
	Author      *string
	Published   *time.Time
	FeedURL     string
	FeedName    *string
	FeedHomeURL *string
	FeedImage   *string
}
