// ABOUTME: Response DTOs for the feed and item endpoints
// ABOUTME: Keeps the wire format decoupled from the domain records

package responses

import "time"

// FeedResponse is the wire form of one subscribed feed.
type FeedResponse struct {
	FeedURL            string     `json:"feedUrl" doc:"Canonical feed URL after redirects"`
	HomeURL            *string    `json:"homeUrl,omitempty" doc:"Site homepage"`
	Name               *string    `json:"name,omitempty" doc:"Feed title"`
	Link               *string    `json:"link,omitempty" doc:"URL the subscription was created with"`
	Image              *string    `json:"image,omitempty" doc:"Feed image URL"`
	LastPublished      *time.Time `json:"lastPublished,omitempty" doc:"Newest publish timestamp seen"`
	LastFetched        *time.Time `json:"lastFetched,omitempty" doc:"Last successful poll"`
	NextFetchAt        *time.Time `json:"nextFetchAt,omitempty" doc:"Scheduled next poll"`
	PublishRatePerHour *float64   `json:"publishRatePerHour,omitempty" doc:"Smoothed publish rate estimate"`
}

// SubscribeResponse is returned when a feed is added (or re-added).
type SubscribeResponse struct {
	Feed          FeedResponse `json:"feed"`
	ItemsInserted int          `json:"itemsInserted" doc:"Items stored by the synchronous poll"`
}

// SearchItemResponse is one search hit joined with its feed metadata.
type SearchItemResponse struct {
	URL         string     `json:"url"`
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Image       *string    `json:"image,omitempty" doc:"Inline data URI when an image was captured"`
	Author      *string    `json:"author,omitempty"`
	Published   *time.Time `json:"published,omitempty"`
	FeedURL     string     `json:"feedUrl"`
	FeedName    *string    `json:"feedName,omitempty"`
	FeedHomeURL *string    `json:"feedHomeUrl,omitempty"`
	FeedImage   *string    `json:"feedImage,omitempty"`
}
