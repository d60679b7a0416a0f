// ABOUTME: Image service downloads item images and inlines them as data URIs
// ABOUTME: Results are memoized in a bounded process-local cache keyed by URL

package images

import (
	"context"
	"encoding/base64"
	"io"
	"net/url"
	"path"
	"strings"

	"feedpulse-api/core/interfaces"
)

// maxImageBytes bounds how much of an image body is inlined; anything
// larger is treated as unavailable rather than ballooning item rows.
const maxImageBytes = 5 << 20

// contentTypeByExtension maps URL extensions to MIME types for servers
// that omit or mislabel the Content-Type header.
var contentTypeByExtension = map[string]string{
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
	"png":  "image/png",
	"gif":  "image/gif",
	"webp": "image/webp",
	"svg":  "image/svg+xml",
	"bmp":  "image/bmp",
	"ico":  "image/x-icon",
}

// Service inlines remote images as data URIs.
type Service struct {
	deps interfaces.Dependencies
}

// NewService creates a new image inlining service.
func NewService(deps interfaces.Dependencies) *Service {
	return &Service{deps: deps}
}

// Inline downloads an image and returns it as a data URI. Every
// failure mode (bad URL, non-2xx, unknown content type, oversized
// body) returns the empty string so items degrade to no image instead
// of failing.
func (s *Service) Inline(ctx context.Context, imageURL string) string {
	imageURL = strings.TrimSpace(imageURL)
	if imageURL == "" || s.deps.HTTPClient == nil {
		return ""
	}

	if s.deps.Cache != nil {
		if cached, err := s.deps.Cache.Get(ctx, imageURL); err == nil && cached != nil {
			return string(cached)
		}
	}

	resp, err := s.deps.HTTPClient.Get(ctx, imageURL)
	if err != nil {
		return ""
	}
	defer resp.Body().Close()

	if resp.StatusCode() < 200 || resp.StatusCode() > 299 {
		return ""
	}

	contentType := resolveContentType(resp.Header("Content-Type"), imageURL)
	if contentType == "" {
		return ""
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body(), maxImageBytes+1))
	if err != nil || len(body) == 0 || len(body) > maxImageBytes {
		return ""
	}

	uri := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(body)

	if s.deps.Cache != nil {
		_ = s.deps.Cache.Set(ctx, imageURL, []byte(uri))
	}

	return uri
}

// resolveContentType prefers the response header when it is an image
// type, falling back to the URL extension table.
func resolveContentType(header, imageURL string) string {
	header = strings.TrimSpace(strings.Split(header, ";")[0])
	if strings.HasPrefix(header, "image/") {
		return header
	}

	parsed, err := url.Parse(imageURL)
	if err != nil {
		return ""
	}

	ext := strings.ToLower(strings.TrimPrefix(path.Ext(parsed.Path), "."))
	return contentTypeByExtension[ext]
}
