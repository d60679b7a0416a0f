// ABOUTME: Item search handler for the Huma API
// ABOUTME: Exposes the full-text index over stored articles

package handlers

import (
	"context"
	"net/http"

	"feedpulse-api/api/dto/mappers"
	"feedpulse-api/api/dto/responses"
	"feedpulse-api/core/domain"

	"github.com/danielgtaylor/huma/v2"
)

// SearchService is the slice of the search service the handler needs.
type SearchService interface {
	Search(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error)
}

// ItemHandler handles item search requests
type ItemHandler struct {
	search SearchService
}

// NewItemHandler creates a new item handler
func NewItemHandler(search SearchService) *ItemHandler {
	return &ItemHandler{search: search}
}

// RegisterRoutes registers item routes
func (h *ItemHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "searchItems",
		Method:      http.MethodGet,
		Path:        "/items",
		Summary:     "Search stored items",
		Description: "Full-text prefix search over item title, description and content",
		Tags:        []string{"Items"},
	}, h.SearchItems)
}

// SearchItemsInput carries the query parameters
type SearchItemsInput struct {
	Query  string `query:"q" doc:"Search query; tokens are ANDed with prefix matching"`
	Limit  int    `query:"limit" doc:"Page size, clamped to [1,100], default 20"`
	Offset int    `query:"offset" doc:"Result offset, default 0"`
}

// SearchItemsOutput wraps the search results
type SearchItemsOutput struct {
	Body []responses.SearchItemResponse
}

// SearchItems handles GET /items
func (h *ItemHandler) SearchItems(ctx context.Context, input *SearchItemsInput) (*SearchItemsOutput, error) {
	results, err := h.search.Search(ctx, input.Query, input.Limit, input.Offset)
	if err != nil {
		return nil, toHumaError(err)
	}

	return &SearchItemsOutput{Body: mappers.ToSearchItemResponses(results)}, nil
}
