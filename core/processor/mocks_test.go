package processor

import (
	"context"
	"time"

	"feedpulse-api/core/domain"
)

// mockStorage is a hand-rolled FeedStorage double recording calls.
type mockStorage struct {
	dueFeedsFunc       func(ctx context.Context, now time.Time) ([]string, error)
	nextScheduledFunc  func(ctx context.Context, now time.Time) (*time.Time, error)
	feedRateFunc       func(ctx context.Context, feedURL string) (*float64, error)
	upsertFeedFunc     func(ctx context.Context, feed domain.FeedRecord) error
	insertItemFunc     func(ctx context.Context, item domain.ItemRecord) (bool, error)
	deferFailedFunc    func(ctx context.Context, feedURL string, now time.Time) error
	searchItemsFunc    func(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error)
	listFeedsFunc      func(ctx context.Context) ([]domain.FeedRecord, error)
	getFeedFunc        func(ctx context.Context, feedURL string) (*domain.FeedRecord, error)
	deleteFeedFunc     func(ctx context.Context, feedURL string) (bool, error)
	upsertedFeeds      []domain.FeedRecord
	insertedItems      []domain.ItemRecord
	deferredFeeds      []string
}

func (m *mockStorage) DueFeeds(ctx context.Context, now time.Time) ([]string, error) {
	if m.dueFeedsFunc != nil {
		return m.dueFeedsFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockStorage) NextScheduledFetch(ctx context.Context, now time.Time) (*time.Time, error) {
	if m.nextScheduledFunc != nil {
		return m.nextScheduledFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockStorage) FeedRate(ctx context.Context, feedURL string) (*float64, error) {
	if m.feedRateFunc != nil {
		return m.feedRateFunc(ctx, feedURL)
	}
	return nil, nil
}

func (m *mockStorage) UpsertFeed(ctx context.Context, feed domain.FeedRecord) error {
	m.upsertedFeeds = append(m.upsertedFeeds, feed)
	if m.upsertFeedFunc != nil {
		return m.upsertFeedFunc(ctx, feed)
	}
	return nil
}

func (m *mockStorage) InsertItem(ctx context.Context, item domain.ItemRecord) (bool, error) {
	m.insertedItems = append(m.insertedItems, item)
	if m.insertItemFunc != nil {
		return m.insertItemFunc(ctx, item)
	}
	return true, nil
}

func (m *mockStorage) DeferFailedFeed(ctx context.Context, feedURL string, now time.Time) error {
	m.deferredFeeds = append(m.deferredFeeds, feedURL)
	if m.deferFailedFunc != nil {
		return m.deferFailedFunc(ctx, feedURL, now)
	}
	return nil
}

func (m *mockStorage) SearchItems(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error) {
	if m.searchItemsFunc != nil {
		return m.searchItemsFunc(ctx, query, limit, offset)
	}
	return nil, nil
}

func (m *mockStorage) ListFeeds(ctx context.Context) ([]domain.FeedRecord, error) {
	if m.listFeedsFunc != nil {
		return m.listFeedsFunc(ctx)
	}
	return nil, nil
}

func (m *mockStorage) GetFeed(ctx context.Context, feedURL string) (*domain.FeedRecord, error) {
	if m.getFeedFunc != nil {
		return m.getFeedFunc(ctx, feedURL)
	}
	return nil, nil
}

func (m *mockStorage) DeleteFeed(ctx context.Context, feedURL string) (bool, error) {
	if m.deleteFeedFunc != nil {
		return m.deleteFeedFunc(ctx, feedURL)
	}
	return false, nil
}

// mockParser is a Parser double.
type mockParser struct {
	parseFunc func(ctx context.Context, feedURL string) (*domain.ParsedFeed, error)
}

func (m *mockParser) Parse(ctx context.Context, feedURL string) (*domain.ParsedFeed, error) {
	if m.parseFunc != nil {
		return m.parseFunc(ctx, feedURL)
	}
	return &domain.ParsedFeed{FinalURL: feedURL}, nil
}

// mockInliner is an ImageInliner double.
type mockInliner struct {
	inlineFunc func(ctx context.Context, imageURL string) string
}

func (m *mockInliner) Inline(ctx context.Context, imageURL string) string {
	if m.inlineFunc != nil {
		return m.inlineFunc(ctx, imageURL)
	}
	return ""
}

// mockLogger is a Logger double.
type mockLogger struct {
	errorMessages []string
}

func (m *mockLogger) Debug(msg string, fields map[string]interface{}) {}
func (m *mockLogger) Info(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Warn(msg string, fields map[string]interface{})  {}
func (m *mockLogger) Error(msg string, fields map[string]interface{}) {
	m.errorMessages = append(m.errorMessages, msg)
}
