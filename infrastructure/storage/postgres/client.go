// ABOUTME: PostgreSQL store adapter over pgxpool for feeds and items
// ABOUTME: Bootstraps the schema and implements the FeedStorage contract

package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"feedpulse-api/core/domain"
	"feedpulse-api/core/interfaces"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// schemaStatements create the tables and indexes on startup. All
// statements are idempotent so restarts are safe.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS feeds (
		feed_url TEXT PRIMARY KEY,
		home_url TEXT,
		name TEXT,
		link TEXT,
		image TEXT,
		last_published TIMESTAMPTZ,
		last_fetched TIMESTAMPTZ,
		next_fetch_at TIMESTAMPTZ,
		publish_rate_per_hour DOUBLE PRECISION,
		failure_count INTEGER NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS items (
		url TEXT PRIMARY KEY,
		feed_url TEXT NOT NULL REFERENCES feeds(feed_url) ON DELETE CASCADE,
		title TEXT,
		description TEXT,
		content TEXT,
		image TEXT,
		author TEXT,
		published TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_feeds_next_fetch_at ON feeds (next_fetch_at)`,
	`CREATE INDEX IF NOT EXISTS idx_items_feed_url ON items (feed_url)`,
	`CREATE INDEX IF NOT EXISTS idx_items_published ON items (published DESC NULLS LAST)`,
	`CREATE INDEX IF NOT EXISTS idx_items_fts ON items USING GIN (
		to_tsvector('english', coalesce(title,'') || ' ' || coalesce(description,'') || ' ' || coalesce(content,''))
	)`,
}

// Store implements interfaces.FeedStorage over a pgx connection pool.
type Store struct {
	pool *pgxpool.Pool
}

// compile-time contract check
var _ interfaces.FeedStorage = (*Store)(nil)

// NewStore connects to PostgreSQL and ensures the schema exists.
func NewStore(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}

	store := &Store{pool: pool}
	if err := store.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}

	return store, nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}

func (s *Store) ensureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// DueFeeds returns feeds whose schedule has elapsed, never-polled
// feeds first, then the most overdue.
func (s *Store) DueFeeds(ctx context.Context, now time.Time) ([]string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT feed_url FROM feeds
		 WHERE next_fetch_at IS NULL OR next_fetch_at <= $1
		 ORDER BY next_fetch_at ASC NULLS FIRST`, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var url string
		if err := rows.Scan(&url); err != nil {
			return nil, err
		}
		urls = append(urls, url)
	}

	return urls, rows.Err()
}

// NextScheduledFetch returns the earliest future next_fetch_at, nil
// when nothing is scheduled.
func (s *Store) NextScheduledFetch(ctx context.Context, now time.Time) (*time.Time, error) {
	var next time.Time
	err := s.pool.QueryRow(ctx,
		`SELECT next_fetch_at FROM feeds
		 WHERE next_fetch_at > $1
		 ORDER BY next_fetch_at ASC LIMIT 1`, now).Scan(&next)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &next, nil
}

// FeedRate returns the stored rate estimate, nil for unknown feeds or
// feeds without one.
func (s *Store) FeedRate(ctx context.Context, feedURL string) (*float64, error) {
	var rate *float64
	err := s.pool.QueryRow(ctx,
		`SELECT publish_rate_per_hour FROM feeds WHERE feed_url = $1`, feedURL).Scan(&rate)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rate, nil
}

// upsertFeedSQL writes the feed row in a single statement. link is
// written on insert only: it records the URL the feed was first
// submitted under, and scheduler re-polls invoke the processor with
// the canonical URL, which must not overwrite it.
const upsertFeedSQL = `INSERT INTO feeds (feed_url, home_url, name, link, image, last_published,
                    last_fetched, next_fetch_at, publish_rate_per_hour, failure_count)
 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 0)
 ON CONFLICT (feed_url) DO UPDATE SET
   home_url = COALESCE(EXCLUDED.home_url, feeds.home_url),
   name = COALESCE(EXCLUDED.name, feeds.name),
   image = COALESCE(EXCLUDED.image, feeds.image),
   last_published = COALESCE(EXCLUDED.last_published, feeds.last_published),
   last_fetched = EXCLUDED.last_fetched,
   next_fetch_at = EXCLUDED.next_fetch_at,
   publish_rate_per_hour = COALESCE(EXCLUDED.publish_rate_per_hour, feeds.publish_rate_per_hour),
   failure_count = 0`

// UpsertFeed writes the feed row. Parsed metadata only replaces
// previous values when the new value is non-null, so a feed that
// temporarily omits its title or image does not lose it. Schedule
// columns always advance and a successful poll resets the failure
// counter.
func (s *Store) UpsertFeed(ctx context.Context, feed domain.FeedRecord) error {
	if err := feed.Validate(); err != nil {
		return err
	}

	_, err := s.pool.Exec(ctx, upsertFeedSQL,
		feed.FeedURL, feed.HomeURL, feed.Name, feed.Link, feed.Image,
		feed.LastPublished, feed.LastFetched, feed.NextFetchAt, feed.PublishRatePerHour)

	return err
}

// InsertItem stores an item with insert-or-nothing semantics on the
// URL primary key, so re-fetching a feed is idempotent on its item set.
func (s *Store) InsertItem(ctx context.Context, item domain.ItemRecord) (bool, error) {
	if err := item.Validate(); err != nil {
		return false, err
	}

	tag, err := s.pool.Exec(ctx,
		`INSERT INTO items (url, feed_url, title, description, content, image, author, published)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (url) DO NOTHING`,
		item.URL, item.FeedURL, item.Title, item.Description, item.Content,
		item.Image, item.Author, item.Published)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() > 0, nil
}

// DeferFailedFeed bumps the consecutive failure count and pushes the
// next fetch out by 2^failures hours, capped at 24h. Unknown feeds are
// a no-op.
func (s *Store) DeferFailedFeed(ctx context.Context, feedURL string, now time.Time) error {
	_, err := s.pool.Exec(ctx,
		`UPDATE feeds
		 SET failure_count = failure_count + 1,
		     next_fetch_at = $2 + LEAST(
		       make_interval(hours => 1) * power(2, LEAST(failure_count, 5)),
		       make_interval(hours => 24))
		 WHERE feed_url = $1`, feedURL, now)
	return err
}

// SearchItems runs the prefix-match tsquery over the stemmed
// concatenation of title, description and content, newest first with
// undated items last.
func (s *Store) SearchItems(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error) {
	tsquery := BuildTSQuery(query)
	if tsquery == "" {
		return []domain.SearchResult{}, nil
	}

	rows, err := s.pool.Query(ctx,
		`SELECT i.url, i.title, i.description, i.image, i.author, i.published,
		        f.feed_url, f.name, f.home_url, f.image
		 FROM items i
		 JOIN feeds f ON f.feed_url = i.feed_url
		 WHERE to_tsvector('english',
		         coalesce(i.title,'') || ' ' || coalesce(i.description,'') || ' ' || coalesce(i.content,''))
		       @@ to_tsquery('english', $1)
		 ORDER BY i.published DESC NULLS LAST
		 LIMIT $2 OFFSET $3`, tsquery, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := []domain.SearchResult{}
	for rows.Next() {
		var r domain.SearchResult
		if err := rows.Scan(&r.URL, &r.Title, &r.Description, &r.Image, &r.Author,
			&r.Published, &r.FeedURL, &r.FeedName, &r.FeedHomeURL, &r.FeedImage); err != nil {
			return nil, err
		}
		results = append(results, r)
	}

	return results, rows.Err()
}

// ListFeeds returns every feed row.
func (s *Store) ListFeeds(ctx context.Context) ([]domain.FeedRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT feed_url, home_url, name, link, image, last_published,
		        last_fetched, next_fetch_at, publish_rate_per_hour, failure_count
		 FROM feeds ORDER BY feed_url`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	feeds := []domain.FeedRecord{}
	for rows.Next() {
		var f domain.FeedRecord
		if err := rows.Scan(&f.FeedURL, &f.HomeURL, &f.Name, &f.Link, &f.Image,
			&f.LastPublished, &f.LastFetched, &f.NextFetchAt,
			&f.PublishRatePerHour, &f.FailureCount); err != nil {
			return nil, err
		}
		feeds = append(feeds, f)
	}

	return feeds, rows.Err()
}

// GetFeed returns a single feed row, nil when the URL is unknown.
func (s *Store) GetFeed(ctx context.Context, feedURL string) (*domain.FeedRecord, error) {
	var f domain.FeedRecord
	err := s.pool.QueryRow(ctx,
		`SELECT feed_url, home_url, name, link, image, last_published,
		        last_fetched, next_fetch_at, publish_rate_per_hour, failure_count
		 FROM feeds WHERE feed_url = $1`, feedURL).Scan(
		&f.FeedURL, &f.HomeURL, &f.Name, &f.Link, &f.Image,
		&f.LastPublished, &f.LastFetched, &f.NextFetchAt,
		&f.PublishRatePerHour, &f.FailureCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// DeleteFeed removes a feed; the items go with it by cascade.
func (s *Store) DeleteFeed(ctx context.Context, feedURL string) (bool, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM feeds WHERE feed_url = $1`, feedURL)
	if err != nil {
		return false, err
	}
	return tag.RowsAffected() > 0, nil
}
