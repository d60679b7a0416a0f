package handlers

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"feedpulse-api/core/interfaces"
)

// mockHTTPClient is a mock implementation of the HTTPClient interface
type mockHTTPClient struct {
	getFunc func(ctx context.Context, url string) (interfaces.Response, error)
}

func (m *mockHTTPClient) Get(ctx context.Context, url string) (interfaces.Response, error) {
	if m.getFunc != nil {
		return m.getFunc(ctx, url)
	}
	return nil, errors.New("no handler")
}

// mockResponse is a mock implementation of the Response interface
type mockResponse struct {
	statusCode int
	body       string
}

func (m *mockResponse) StatusCode() int { return m.statusCode }

func (m *mockResponse) Body() io.ReadCloser {
	return io.NopCloser(strings.NewReader(m.body))
}

func (m *mockResponse) Header(key string) string { return "" }

func (m *mockResponse) FinalURL() string { return "" }

func TestDiscoverFeedURL_GitHub(t *testing.T) {
	handler := NewDiscoverHandler(&mockHTTPClient{})

	got, err := handler.discoverFeedURL(context.Background(), "https://github.com/golang/go")

	if err != nil {
		t.Fatalf("discoverFeedURL returned error: %v", err)
	}
	if got != "https://github.com/golang/go/commits.atom" {
		t.Errorf("feedURL = %q, want the commits atom feed", got)
	}
}

func TestDiscoverFeedURL_Reddit(t *testing.T) {
	handler := NewDiscoverHandler(&mockHTTPClient{})

	got, err := handler.discoverFeedURL(context.Background(), "https://www.reddit.com/r/golang/")

	if err != nil {
		t.Fatalf("discoverFeedURL returned error: %v", err)
	}
	if got != "https://www.reddit.com/r/golang/.rss" {
		t.Errorf("feedURL = %q, want the subreddit RSS feed", got)
	}
}

func TestDiscoverFeedURL_LinkTag(t *testing.T) {
	page := `<html><head>
		<link rel="alternate" type="application/rss+xml" href="/feed.xml">
	</head><body></body></html>`
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: page}, nil
		},
	}
	handler := NewDiscoverHandler(client)

	got, err := handler.discoverFeedURL(context.Background(), "https://blog.example.com/posts")

	if err != nil {
		t.Fatalf("discoverFeedURL returned error: %v", err)
	}
	if got != "https://blog.example.com/feed.xml" {
		t.Errorf("feedURL = %q, want relative href resolved against the page", got)
	}
}

func TestDiscoverFeedURL_AtomLinkTag(t *testing.T) {
	page := `<html><head>
		<link rel="alternate" type="application/atom+xml" href="https://blog.example.com/atom.xml">
	</head></html>`
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: page}, nil
		},
	}
	handler := NewDiscoverHandler(client)

	got, err := handler.discoverFeedURL(context.Background(), "https://blog.example.com")

	if err != nil {
		t.Fatalf("discoverFeedURL returned error: %v", err)
	}
	if got != "https://blog.example.com/atom.xml" {
		t.Errorf("feedURL = %q", got)
	}
}

func TestDiscoverFeedURL_NoFeed(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 200, body: "<html><head></head></html>"}, nil
		},
	}
	handler := NewDiscoverHandler(client)

	_, err := handler.discoverFeedURL(context.Background(), "https://plain.example.com")

	if err == nil {
		t.Error("discoverFeedURL should return error when no feed link exists")
	}
}

func TestDiscoverFeedURL_FetchFailure(t *testing.T) {
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			return &mockResponse{statusCode: 503}, nil
		},
	}
	handler := NewDiscoverHandler(client)

	_, err := handler.discoverFeedURL(context.Background(), "https://down.example.com")

	if err == nil {
		t.Error("discoverFeedURL should return error for non-200 pages")
	}
}

func TestDiscoverFeeds_MixedResults(t *testing.T) {
	page := `<html><head><link type="application/rss+xml" href="/rss"></head></html>`
	client := &mockHTTPClient{
		getFunc: func(ctx context.Context, url string) (interfaces.Response, error) {
			if strings.Contains(url, "bad") {
				return nil, errors.New("connection refused")
			}
			return &mockResponse{statusCode: 200, body: page}, nil
		},
	}
	handler := NewDiscoverHandler(client)

	input := &DiscoverFeedsInput{}
	input.Body.URLs = []string{"https://good.example.com", "https://bad.example.com"}

	out, err := handler.DiscoverFeeds(context.Background(), input)

	if err != nil {
		t.Fatalf("DiscoverFeeds returned error: %v", err)
	}
	if len(out.Body.Feeds) != 2 {
		t.Fatalf("got %d results, want 2", len(out.Body.Feeds))
	}
	if out.Body.Feeds[0].Status != "ok" || out.Body.Feeds[0].FeedLink != "https://good.example.com/rss" {
		t.Errorf("first result = %+v, want discovered feed", out.Body.Feeds[0])
	}
	if out.Body.Feeds[1].Status != "error" || out.Body.Feeds[1].Error == "" {
		t.Errorf("second result = %+v, want error status", out.Body.Feeds[1])
	}
}

func TestDiscoverFeeds_NoURLs(t *testing.T) {
	handler := NewDiscoverHandler(&mockHTTPClient{})

	_, err := handler.DiscoverFeeds(context.Background(), &DiscoverFeedsInput{})

	if err == nil {
		t.Error("DiscoverFeeds should reject an empty URL list")
	}
}
