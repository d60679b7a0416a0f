// ABOUTME: Discover handler for finding RSS feed URLs from regular website URLs
// ABOUTME: Supports automatic RSS discovery from HTML pages and special handling for GitHub/Reddit

package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"feedpulse-api/core/interfaces"

	"github.com/PuerkitoBio/goquery"
	"github.com/danielgtaylor/huma/v2"
)

// DiscoverHandler handles RSS feed discovery
type DiscoverHandler struct {
	httpClient interfaces.HTTPClient
}

// NewDiscoverHandler creates a new discover handler
func NewDiscoverHandler(httpClient interfaces.HTTPClient) *DiscoverHandler {
	return &DiscoverHandler{httpClient: httpClient}
}

// RegisterRoutes registers discover routes
func (h *DiscoverHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "discoverFeeds",
		Method:      http.MethodPost,
		Path:        "/discover",
		Summary:     "Discover RSS feeds from websites",
		Description: "Attempts to discover RSS/Atom feed URLs from provided website URLs",
		Tags:        []string{"Discovery"},
	}, h.DiscoverFeeds)
}

// DiscoverFeedsInput defines the input for feed discovery
type DiscoverFeedsInput struct {
	Body struct {
		URLs []string `json:"urls" doc:"List of website URLs to discover feeds from"`
	}
}

// FeedDiscoveryResult represents a single discovery result
type FeedDiscoveryResult struct {
	URL      string `json:"url" doc:"Original URL that was checked"`
	Status   string `json:"status" doc:"Discovery status: 'ok' or 'error'"`
	FeedLink string `json:"feedLink,omitempty" doc:"Discovered RSS feed URL"`
	Error    string `json:"error,omitempty" doc:"Error message if discovery failed"`
}

// DiscoverFeedsOutput defines the output for feed discovery
type DiscoverFeedsOutput struct {
	Body struct {
		Feeds []FeedDiscoveryResult `json:"feeds" doc:"Discovery results for each URL"`
	}
}

// DiscoverFeeds handles the POST /discover endpoint
func (h *DiscoverHandler) DiscoverFeeds(ctx context.Context, input *DiscoverFeedsInput) (*DiscoverFeedsOutput, error) {
	if len(input.Body.URLs) == 0 {
		return nil, huma.Error400BadRequest("No URLs provided")
	}

	var wg sync.WaitGroup
	results := make([]FeedDiscoveryResult, len(input.Body.URLs))

	for i, siteURL := range input.Body.URLs {
		wg.Add(1)
		go func(idx int, siteURL string) {
			defer wg.Done()

			feedURL, err := h.discoverFeedURL(ctx, siteURL)
			if err != nil {
				results[idx] = FeedDiscoveryResult{
					URL:    siteURL,
					Status: "error",
					Error:  err.Error(),
				}
				return
			}
			results[idx] = FeedDiscoveryResult{
				URL:      siteURL,
				Status:   "ok",
				FeedLink: feedURL,
			}
		}(i, siteURL)
	}

	wg.Wait()

	output := &DiscoverFeedsOutput{}
	output.Body.Feeds = results
	return output, nil
}

// discoverFeedURL attempts to discover an RSS feed URL from a website
func (h *DiscoverHandler) discoverFeedURL(ctx context.Context, siteURL string) (string, error) {
	// GitHub and Reddit never advertise feeds in their HTML but have
	// well-known feed URLs.
	if strings.HasPrefix(siteURL, "https://github.com") {
		return strings.TrimRight(siteURL, "/") + "/commits.atom", nil
	}
	if strings.HasPrefix(siteURL, "https://www.reddit.com") || strings.HasPrefix(siteURL, "https://reddit.com") {
		return strings.TrimRight(siteURL, "/") + "/.rss", nil
	}

	resp, err := h.httpClient.Get(ctx, siteURL)
	if err != nil {
		return "", err
	}
	defer resp.Body().Close()

	if resp.StatusCode() != http.StatusOK {
		return "", errors.New("failed to fetch page")
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body())
	if err != nil {
		return "", err
	}

	var feedURL string
	doc.Find(`link[type="application/rss+xml"], link[type="application/atom+xml"]`).Each(func(i int, s *goquery.Selection) {
		if href, exists := s.Attr("href"); exists && feedURL == "" {
			feedURL = href
		}
	})

	if feedURL == "" {
		return "", errors.New("no RSS feed found")
	}

	return ensureAbsoluteURL(siteURL, feedURL)
}

// ensureAbsoluteURL converts relative URLs to absolute ones
func ensureAbsoluteURL(baseURL, ref string) (string, error) {
	u, err := url.Parse(ref)
	if err != nil {
		return "", err
	}
	if u.IsAbs() {
		return ref, nil
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", err
	}

	return base.ResolveReference(u).String(), nil
}
