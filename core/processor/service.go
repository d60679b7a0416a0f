// ABOUTME: Feed processor orchestrates one poll: parse, estimate, upsert, insert items
// ABOUTME: Closes the adaptive loop by writing the schedule the estimator computed

package processor

import (
	"context"
	"strings"
	"time"

	"feedpulse-api/core/domain"
	apperrors "feedpulse-api/core/errors"
	"feedpulse-api/core/estimator"
	"feedpulse-api/core/interfaces"
	"feedpulse-api/pkg/config"
)

// Parser is the slice of the feed service the processor needs.
type Parser interface {
	Parse(ctx context.Context, feedURL string) (*domain.ParsedFeed, error)
}

// ImageInliner converts a remote image URL into a data URI, empty on failure.
type ImageInliner interface {
	Inline(ctx context.Context, imageURL string) string
}

// Result reports the outcome of one successful poll.
type Result struct {
	// FinalURL is the canonical feed URL after redirects
	FinalURL string

	// Inserted is how many previously unseen items were stored
	Inserted int
}

// Service processes a single feed end to end.
type Service struct {
	deps   interfaces.Dependencies
	parser Parser
	images ImageInliner
	poll   config.Poll

	// now is the clock, replaceable in tests
	now func() time.Time
}

// NewService creates a feed processor.
func NewService(deps interfaces.Dependencies, parser Parser, images ImageInliner, poll config.Poll) *Service {
	return &Service{
		deps:   deps,
		parser: parser,
		images: images,
		poll:   poll,
		now:    time.Now,
	}
}

// SetClock overrides the processor's clock. Tests only.
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Process polls one feed: parse the document, re-estimate the publish
// rate from its item timestamps, upsert the feed row under its final
// URL and insert any unseen items. Item-level failures are logged and
// skipped; a fetch or parse failure defers the feed by its failure
// backoff and returns the error.
func (s *Service) Process(ctx context.Context, feedURL string) (*Result, error) {
	now := s.now()

	parsed, err := s.parser.Parse(ctx, feedURL)
	if err != nil {
		s.logError("feed parse failed", feedURL, err)
		if deferErr := s.deps.Storage.DeferFailedFeed(ctx, feedURL, now); deferErr != nil {
			s.logError("failed to defer feed", feedURL, deferErr)
		}
		return nil, err
	}

	prior, err := s.deps.Storage.FeedRate(ctx, parsed.FinalURL)
	if err != nil {
		return nil, apperrors.WrapError(err, "failed to read stored publish rate")
	}

	published := make([]time.Time, 0, len(parsed.Items))
	for _, item := range parsed.Items {
		if item.Published != nil {
			published = append(published, *item.Published)
		}
	}

	nextFetchAt, rate := estimator.Estimate(now, published, prior, s.poll)

	record := domain.FeedRecord{
		FeedURL:            parsed.FinalURL,
		HomeURL:            nilIfEmpty(parsed.HomeURL),
		Name:               nilIfEmpty(parsed.Name),
		Link:               nilIfEmpty(feedURL),
		Image:              nilIfEmpty(parsed.Image),
		LastPublished:      parsed.LastPublished,
		LastFetched:        &now,
		NextFetchAt:        &nextFetchAt,
		PublishRatePerHour: rate,
	}

	// The feed row must exist before any item insert so the foreign
	// key holds.
	if err := s.deps.Storage.UpsertFeed(ctx, record); err != nil {
		return nil, apperrors.WrapError(err, "failed to upsert feed")
	}

	inserted := 0
	for _, item := range parsed.Items {
		if item.URL == "" {
			continue
		}

		var image string
		if item.ImageURL != "" && s.images != nil {
			image = s.images.Inline(ctx, item.ImageURL)
		}

		ok, err := s.deps.Storage.InsertItem(ctx, domain.ItemRecord{
			URL:         item.URL,
			FeedURL:     parsed.FinalURL,
			Title:       nilIfEmpty(item.Title),
			Description: nilIfEmpty(item.Description),
			Content:     nilIfEmpty(item.Content),
			Image:       nilIfEmpty(image),
			Author:      nilIfEmpty(item.Author),
			Published:   item.Published,
		})
		if err != nil {
			s.logError("item insert failed", item.URL, err)
			continue
		}
		if ok {
			inserted++
		}
	}

	if s.deps.Logger != nil {
		s.deps.Logger.Info("feed processed", map[string]interface{}{
			"feed_url":      parsed.FinalURL,
			"inserted":      inserted,
			"next_fetch_at": nextFetchAt,
		})
	}

	return &Result{FinalURL: parsed.FinalURL, Inserted: inserted}, nil
}

func (s *Service) logError(msg, url string, err error) {
	if s.deps.Logger != nil {
		s.deps.Logger.Error(msg, map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
}

// nilIfEmpty turns empty or whitespace-only strings into nil so the
// store never persists blank columns. Non-blank values pass through
// untouched; raw content must not be reformatted here.
func nilIfEmpty(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}
