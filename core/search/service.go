// ABOUTME: Search service runs full-text item queries with clamped pagination
// ABOUTME: Thin business layer between the API and the store's tsquery search

package search

import (
	"context"
	"strings"

	"feedpulse-api/core/domain"
	"feedpulse-api/core/interfaces"
)

const (
	defaultLimit = 20
	maxLimit     = 100
)

// Service handles item search requests.
type Service struct {
	deps interfaces.Dependencies
}

// NewService creates a new search service instance.
func NewService(deps interfaces.Dependencies) *Service {
	return &Service{deps: deps}
}

// Search runs a full-text query over stored items. limit is clamped to
// [1, 100] with a default of 20; negative offsets become 0. A blank
// query returns no results without touching the store.
func (s *Service) Search(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.SearchResult{}, nil
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	results, err := s.deps.Storage.SearchItems(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	if results == nil {
		results = []domain.SearchResult{}
	}

	return results, nil
}
