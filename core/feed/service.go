// ABOUTME: Feed service fetches and parses RSS/Atom documents into domain records
// ABOUTME: Wraps gofeed with text normalization, date fallback and image selection

package feed

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"strings"
	"time"

	"context"

	"feedpulse-api/core/domain"
	apperrors "feedpulse-api/core/errors"
	"feedpulse-api/core/interfaces"
	htmlutil "feedpulse-api/pkg/utils/html"
	timeutil "feedpulse-api/pkg/utils/time"

	"github.com/mmcdole/gofeed"
)

// Service handles feed fetching and parsing
type Service struct {
	deps     interfaces.Dependencies
	maxItems int
}

// NewService creates a new feed parsing service. maxItems caps how
// many entries one parse yields; zero means no cap.
func NewService(deps interfaces.Dependencies, maxItems int) *Service {
	return &Service{
		deps:     deps,
		maxItems: maxItems,
	}
}

// Parse fetches a feed URL, following redirects, and returns the
// parsed document keyed by its final URL. Network errors, non-2xx
// responses and malformed documents all return an error; callers log
// and move on, they never crash on a bad feed.
func (s *Service) Parse(ctx context.Context, feedURL string) (*domain.ParsedFeed, error) {
	if feedURL == "" {
		return nil, &apperrors.ValidationError{Field: "url", Message: "cannot be empty"}
	}

	parsedURL, err := url.Parse(feedURL)
	if err != nil || parsedURL.Scheme == "" || parsedURL.Host == "" {
		return nil, &apperrors.ValidationError{Field: "url", Message: "must be an absolute URL"}
	}

	if s.deps.HTTPClient == nil {
		return nil, errors.New("HTTP client not configured")
	}

	resp, err := s.deps.HTTPClient.Get(ctx, feedURL)
	if err != nil {
		return nil, err
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return nil, &apperrors.ExternalAPIError{
			StatusCode: resp.StatusCode(),
			Message:    "feed returned non-success status",
			URL:        feedURL,
		}
	}

	body, err := io.ReadAll(resp.Body())
	if err != nil {
		return nil, err
	}

	parsed, err := s.ParseContent(body)
	if err != nil {
		return nil, err
	}

	finalURL := resp.FinalURL()
	if finalURL == "" {
		finalURL = feedURL
	}
	parsed.FinalURL = finalURL

	return parsed, nil
}

// ParseContent parses a feed document from bytes. Exposed separately
// so tests can exercise extraction without a network round trip.
func (s *Service) ParseContent(content []byte) (*domain.ParsedFeed, error) {
	if len(content) == 0 {
		return nil, errors.New("empty feed content")
	}

	parser := gofeed.NewParser()
	src, err := parser.Parse(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}

	feed := &domain.ParsedFeed{
		Name:    htmlutil.Normalize(src.Title),
		HomeURL: strings.TrimSpace(src.Link),
	}

	if src.Image != nil {
		feed.Image = strings.TrimSpace(src.Image.URL)
	}
	if feed.Image == "" && src.ITunesExt != nil {
		feed.Image = strings.TrimSpace(src.ITunesExt.Image)
	}

	var lastPublished *time.Time
	if src.UpdatedParsed != nil {
		lastPublished = laterOf(lastPublished, src.UpdatedParsed)
	}
	if src.PublishedParsed != nil {
		lastPublished = laterOf(lastPublished, src.PublishedParsed)
	}

	for _, item := range src.Items {
		converted := s.convertItem(item)
		if converted.URL == "" {
			continue
		}
		feed.Items = append(feed.Items, converted)
		lastPublished = laterOf(lastPublished, converted.Published)

		if s.maxItems > 0 && len(feed.Items) >= s.maxItems {
			break
		}
	}

	feed.LastPublished = lastPublished

	return feed, nil
}

// convertItem maps one gofeed item onto the domain record.
func (s *Service) convertItem(item *gofeed.Item) domain.ParsedItem {
	converted := domain.ParsedItem{
		URL:         strings.TrimSpace(item.Link),
		Title:       htmlutil.Normalize(item.Title),
		Description: htmlutil.Normalize(item.Description),
		// Content is preserved raw; consumers strip it at render time.
		Content:  item.Content,
		ImageURL: bestImage(imageCandidates(item)),
	}

	if item.Author != nil && item.Author.Name != "" {
		converted.Author = htmlutil.Normalize(item.Author.Name)
	} else if item.DublinCoreExt != nil && len(item.DublinCoreExt.Creator) > 0 {
		converted.Author = htmlutil.Normalize(item.DublinCoreExt.Creator[0])
	}

	converted.Published = itemPublished(item)

	return converted
}

// itemPublished resolves the publish timestamp: pubDate/published
// first, then updated, then the lenient string parser. Unparseable
// dates stay nil.
func itemPublished(item *gofeed.Item) *time.Time {
	if item.PublishedParsed != nil {
		return item.PublishedParsed
	}
	if item.UpdatedParsed != nil {
		return item.UpdatedParsed
	}

	for _, raw := range []string{item.Published, item.Updated} {
		if t := timeutil.ParseFlexibleTime(raw); !t.IsZero() {
			return &t
		}
	}

	return nil
}

func laterOf(current *time.Time, candidate *time.Time) *time.Time {
	if candidate == nil || candidate.IsZero() {
		return current
	}
	if current == nil || candidate.After(*current) {
		return candidate
	}
	return current
}
