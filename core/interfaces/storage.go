// ABOUTME: Storage interfaces for persisting domain entities
// ABOUTME: Defines the persistence contract the processor, scheduler and API share

package interfaces

import (
	"context"
	"time"

	"feedpulse-api/core/domain"
)

// FeedStorage defines the persistence contract over the feed and item
// tables. A single implementation backs the scheduler, the processor
// and the API.
type FeedStorage interface {
	// DueFeeds returns the URLs of feeds whose next_fetch_at is null
	// or in the past, never-polled feeds first, then most overdue.
	DueFeeds(ctx context.Context, now time.Time) ([]string, error)

	// NextScheduledFetch returns the earliest next_fetch_at strictly in
	// the future, or nil when no future fetch is scheduled.
	NextScheduledFetch(ctx context.Context, now time.Time) (*time.Time, error)

	// FeedRate returns the stored publish rate for a feed, nil when the
	// feed is unknown or has no estimate yet.
	FeedRate(ctx context.Context, feedURL string) (*float64, error)

	// UpsertFeed inserts or updates a feed row by primary key. Parsed
	// metadata only overwrites previous values when non-nil; schedule
	// columns are always written and the failure counter resets.
	UpsertFeed(ctx context.Context, feed domain.FeedRecord) error

	// InsertItem stores an item unless its URL already exists.
	// Reports whether a new row was inserted.
	InsertItem(ctx context.Context, item domain.ItemRecord) (bool, error)

	// DeferFailedFeed pushes a feed's next_fetch_at out by an
	// exponential backoff on its consecutive failure count.
	DeferFailedFeed(ctx context.Context, feedURL string, now time.Time) error

	// SearchItems runs the full-text query over items joined with
	// their feed metadata, newest first.
	SearchItems(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error)

	// ListFeeds returns every subscribed feed row.
	ListFeeds(ctx context.Context) ([]domain.FeedRecord, error)

	// GetFeed returns one feed row, nil when unknown.
	GetFeed(ctx context.Context, feedURL string) (*domain.FeedRecord, error)

	// DeleteFeed removes a feed and, by cascade, its items.
	// Reports whether a row was deleted.
	DeleteFeed(ctx context.Context, feedURL string) (bool, error)
}
