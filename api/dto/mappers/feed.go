// ABOUTME: Mappers for converting between domain models and API DTOs
// ABOUTME: Provides clean separation between business logic and API layer

package mappers

import (
	"feedpulse-api/api/dto/responses"
	"feedpulse-api/core/domain"
)

// ToFeedResponse converts a domain FeedRecord to its wire form.
func ToFeedResponse(feed *domain.FeedRecord) *responses.FeedResponse {
	if feed == nil {
		return nil
	}

	return &responses.FeedResponse{
		FeedURL:            feed.FeedURL,
		HomeURL:            feed.HomeURL,
		Name:               feed.Name,
		Link:               feed.Link,
		Image:              feed.Image,
		LastPublished:      feed.LastPublished,
		LastFetched:        feed.LastFetched,
		NextFetchAt:        feed.NextFetchAt,
		PublishRatePerHour: feed.PublishRatePerHour,
	}
}

// ToFeedResponses converts a slice of feed rows.
func ToFeedResponses(feeds []domain.FeedRecord) []responses.FeedResponse {
	out := make([]responses.FeedResponse, 0, len(feeds))
	for i := range feeds {
		out = append(out, *ToFeedResponse(&feeds[i]))
	}
	return out
}

// ToSearchItemResponse converts one search hit.
func ToSearchItemResponse(r *domain.SearchResult) responses.SearchItemResponse {
	return responses.SearchItemResponse{
		URL:         r.URL,
		Title:       r.Title,
		Description: r.Description,
		Image:       r.Image,
		Author:      r.Author,
		Published:   r.Published,
		FeedURL:     r.FeedURL,
		FeedName:    r.FeedName,
		FeedHomeURL: r.FeedHomeURL,
		FeedImage:   r.FeedImage,
	}
}

// ToSearchItemResponses converts a result set.
func ToSearchItemResponses(results []domain.SearchResult) []responses.SearchItemResponse {
	out := make([]responses.SearchItemResponse, 0, len(results))
	for i := range results {
		out = append(out, ToSearchItemResponse(&results[i]))
	}
	return out
}
