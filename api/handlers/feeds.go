// ABOUTME: Feed handlers for the Huma API
// ABOUTME: Provides HTTP endpoints for subscribing, listing and deleting feeds

package handlers

import (
	"context"
	"net/http"

	"feedpulse-api/api/dto/mappers"
	"feedpulse-api/api/dto/responses"
	"feedpulse-api/core/errors"
	"feedpulse-api/core/interfaces"
	"feedpulse-api/core/processor"

	"github.com/danielgtaylor/huma/v2"
)

// FeedProcessor is the slice of the processor the handler needs.
type FeedProcessor interface {
	Process(ctx context.Context, feedURL string) (*processor.Result, error)
}

// FeedHandler handles feed-related HTTP requests
type FeedHandler struct {
	processor FeedProcessor
	storage   interfaces.FeedStorage
}

// NewFeedHandler creates a new feed handler
func NewFeedHandler(proc FeedProcessor, storage interfaces.FeedStorage) *FeedHandler {
	return &FeedHandler{
		processor: proc,
		storage:   storage,
	}
}

// RegisterRoutes registers all feed-related routes
func (h *FeedHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "listFeeds",
		Method:      http.MethodGet,
		Path:        "/feeds",
		Summary:     "List subscribed feeds",
		Tags:        []string{"Feeds"},
	}, h.ListFeeds)

	huma.Register(api, huma.Operation{
		OperationID: "subscribeFeed",
		Method:      http.MethodPost,
		Path:        "/feeds",
		Summary:     "Subscribe to a feed",
		Description: "Fetches and indexes the feed synchronously; the row is keyed by the URL after redirects",
		Tags:        []string{"Feeds"},
	}, h.SubscribeFeed)

	huma.Register(api, huma.Operation{
		OperationID: "deleteFeed",
		Method:      http.MethodDelete,
		Path:        "/feeds",
		Summary:     "Unsubscribe from a feed",
		Description: "Deletes the feed row and, by cascade, its items",
		Tags:        []string{"Feeds"},
	}, h.DeleteFeed)
}

// ListFeedsOutput wraps the feed list response
type ListFeedsOutput struct {
	Body []responses.FeedResponse
}

// ListFeeds handles GET /feeds
func (h *FeedHandler) ListFeeds(ctx context.Context, _ *struct{}) (*ListFeedsOutput, error) {
	feeds, err := h.storage.ListFeeds(ctx)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &ListFeedsOutput{Body: mappers.ToFeedResponses(feeds)}, nil
}

// SubscribeFeedInput carries the feed URL as a query parameter
type SubscribeFeedInput struct {
	URL string `query:"url" required:"true" doc:"Feed URL to subscribe to"`
}

// SubscribeFeedOutput wraps the subscription response
type SubscribeFeedOutput struct {
	Body responses.SubscribeResponse
}

// SubscribeFeed handles POST /feeds. The poll runs synchronously so
// the caller immediately learns whether the URL is a working feed.
func (h *FeedHandler) SubscribeFeed(ctx context.Context, input *SubscribeFeedInput) (*SubscribeFeedOutput, error) {
	result, err := h.processor.Process(ctx, input.URL)
	if err != nil {
		if errors.IsValidation(err) {
			return nil, toHumaError(err)
		}
		return nil, huma.Error400BadRequest("could not fetch or parse feed", err)
	}

	feed, err := h.storage.GetFeed(ctx, result.FinalURL)
	if err != nil {
		return nil, toHumaError(err)
	}
	if feed == nil {
		return nil, huma.Error500InternalServerError("feed row missing after processing")
	}

	return &SubscribeFeedOutput{
		Body: responses.SubscribeResponse{
			Feed:          *mappers.ToFeedResponse(feed),
			ItemsInserted: result.Inserted,
		},
	}, nil
}

// DeleteFeedInput carries the feed URL as a query parameter
type DeleteFeedInput struct {
	URL string `query:"url" required:"true" doc:"Feed URL to unsubscribe"`
}

// DeleteFeedOutput reports the deletion
type DeleteFeedOutput struct {
	Body struct {
		Deleted bool `json:"deleted"`
	}
}

// DeleteFeed handles DELETE /feeds
func (h *FeedHandler) DeleteFeed(ctx context.Context, input *DeleteFeedInput) (*DeleteFeedOutput, error) {
	deleted, err := h.storage.DeleteFeed(ctx, input.URL)
	if err != nil {
		return nil, toHumaError(err)
	}
	if !deleted {
		return nil, toHumaError(&errors.NotFoundError{Resource: "feed", ID: input.URL})
	}

	out := &DeleteFeedOutput{}
	out.Body.Deleted = true
	return out, nil
}
