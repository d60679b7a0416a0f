package scheduler

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"feedpulse-api/core/domain"
	"feedpulse-api/core/processor"
	"feedpulse-api/pkg/config"
)

var fixedNow = time.Date(2025, 6, 2, 12, 0, 0, 0, time.UTC)

// mockStorage implements the scheduling slice of FeedStorage.
type mockStorage struct {
	dueFeedsFunc      func(ctx context.Context, now time.Time) ([]string, error)
	nextScheduledFunc func(ctx context.Context, now time.Time) (*time.Time, error)
}

func (m *mockStorage) DueFeeds(ctx context.Context, now time.Time) ([]string, error) {
	if m.dueFeedsFunc != nil {
		return m.dueFeedsFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockStorage) NextScheduledFetch(ctx context.Context, now time.Time) (*time.Time, error) {
	if m.nextScheduledFunc != nil {
		return m.nextScheduledFunc(ctx, now)
	}
	return nil, nil
}

func (m *mockStorage) FeedRate(ctx context.Context, feedURL string) (*float64, error) {
	return nil, nil
}

func (m *mockStorage) UpsertFeed(ctx context.Context, feed domain.FeedRecord) error {
	return nil
}

func (m *mockStorage) InsertItem(ctx context.Context, item domain.ItemRecord) (bool, error) {
	return false, nil
}

func (m *mockStorage) DeferFailedFeed(ctx context.Context, feedURL string, now time.Time) error {
	return nil
}

func (m *mockStorage) SearchItems(ctx context.Context, query string, limit, offset int) ([]domain.SearchResult, error) {
	return nil, nil
}

func (m *mockStorage) ListFeeds(ctx context.Context) ([]domain.FeedRecord, error) {
	return nil, nil
}

func (m *mockStorage) GetFeed(ctx context.Context, feedURL string) (*domain.FeedRecord, error) {
	return nil, nil
}

func (m *mockStorage) DeleteFeed(ctx context.Context, feedURL string) (bool, error) {
	return false, nil
}

// mockProcessor records processed feeds and the peak number of
// concurrent Process calls.
type mockProcessor struct {
	mu        sync.Mutex
	processed []string
	inFlight  int
	peak      int
	delay     time.Duration
	failFor   map[string]error
}

func (m *mockProcessor) Process(ctx context.Context, feedURL string) (*processor.Result, error) {
	m.mu.Lock()
	m.inFlight++
	if m.inFlight > m.peak {
		m.peak = m.inFlight
	}
	m.mu.Unlock()

	if m.delay > 0 {
		time.Sleep(m.delay)
	}

	m.mu.Lock()
	m.inFlight--
	m.processed = append(m.processed, feedURL)
	m.mu.Unlock()

	if err, ok := m.failFor[feedURL]; ok {
		return nil, err
	}
	return &processor.Result{FinalURL: feedURL}, nil
}

type nopLogger struct{}

func (nopLogger) Debug(msg string, fields map[string]interface{}) {}
func (nopLogger) Info(msg string, fields map[string]interface{})  {}
func (nopLogger) Warn(msg string, fields map[string]interface{})  {}
func (nopLogger) Error(msg string, fields map[string]interface{}) {}

func testPoll() config.Poll {
	poll := config.DefaultPoll()
	poll.Concurrency = 2
	poll.Tick = 60 * time.Second
	return poll
}

func TestTick_ProcessesAllDueFeeds(t *testing.T) {
	due := []string{"a", "b", "c", "d", "e"}
	storage := &mockStorage{
		dueFeedsFunc: func(ctx context.Context, now time.Time) ([]string, error) {
			return due, nil
		},
	}
	proc := &mockProcessor{}

	s := New(storage, proc, nopLogger{}, testPoll())
	s.Tick(context.Background())

	if len(proc.processed) != len(due) {
		t.Errorf("processed %d feeds, want %d", len(proc.processed), len(due))
	}
}

func TestTick_BoundsConcurrency(t *testing.T) {
	due := []string{"a", "b", "c", "d", "e", "f"}
	storage := &mockStorage{
		dueFeedsFunc: func(ctx context.Context, now time.Time) ([]string, error) {
			return due, nil
		},
	}
	proc := &mockProcessor{delay: 10 * time.Millisecond}

	s := New(storage, proc, nopLogger{}, testPoll())
	s.Tick(context.Background())

	if proc.peak > 2 {
		t.Errorf("peak concurrency = %d, want at most 2", proc.peak)
	}
}

func TestTick_FailureDoesNotStopBatch(t *testing.T) {
	due := []string{"a", "b", "c"}
	storage := &mockStorage{
		dueFeedsFunc: func(ctx context.Context, now time.Time) ([]string, error) {
			return due, nil
		},
	}
	proc := &mockProcessor{
		failFor: map[string]error{"a": errors.New("fetch failed")},
	}

	s := New(storage, proc, nopLogger{}, testPoll())
	s.Tick(context.Background())

	if len(proc.processed) != 3 {
		t.Errorf("processed %d feeds, want all 3 despite one failure", len(proc.processed))
	}
}

func TestTick_StorageErrorIsNotFatal(t *testing.T) {
	storage := &mockStorage{
		dueFeedsFunc: func(ctx context.Context, now time.Time) ([]string, error) {
			return nil, errors.New("connection lost")
		},
	}
	proc := &mockProcessor{}

	s := New(storage, proc, nopLogger{}, testPoll())
	s.Tick(context.Background())

	if len(proc.processed) != 0 {
		t.Error("nothing should be processed when due selection fails")
	}
}

func TestNextWake_NoScheduledFetch(t *testing.T) {
	s := New(&mockStorage{}, &mockProcessor{}, nopLogger{}, testPoll())

	if got := s.NextWake(context.Background()); got != 60*time.Second {
		t.Errorf("NextWake = %v, want the full tick", got)
	}
}

func TestNextWake_ClampsToTick(t *testing.T) {
	next := fixedNow.Add(3 * time.Hour)
	storage := &mockStorage{
		nextScheduledFunc: func(ctx context.Context, now time.Time) (*time.Time, error) {
			return &next, nil
		},
	}

	s := New(storage, &mockProcessor{}, nopLogger{}, testPoll())
	s.now = func() time.Time { return fixedNow }

	if got := s.NextWake(context.Background()); got != 60*time.Second {
		t.Errorf("NextWake = %v, want clamped to the tick", got)
	}
}

func TestNextWake_ShortWaitPassesThrough(t *testing.T) {
	next := fixedNow.Add(20 * time.Second)
	storage := &mockStorage{
		nextScheduledFunc: func(ctx context.Context, now time.Time) (*time.Time, error) {
			return &next, nil
		},
	}

	s := New(storage, &mockProcessor{}, nopLogger{}, testPoll())
	s.now = func() time.Time { return fixedNow }

	if got := s.NextWake(context.Background()); got != 20*time.Second {
		t.Errorf("NextWake = %v, want 20s", got)
	}
}

func TestNextWake_OverdueWakesImmediately(t *testing.T) {
	next := fixedNow.Add(-5 * time.Minute)
	storage := &mockStorage{
		nextScheduledFunc: func(ctx context.Context, now time.Time) (*time.Time, error) {
			return &next, nil
		},
	}

	s := New(storage, &mockProcessor{}, nopLogger{}, testPoll())
	s.now = func() time.Time { return fixedNow }

	if got := s.NextWake(context.Background()); got != 0 {
		t.Errorf("NextWake = %v, want 0 for overdue fetches", got)
	}
}

func TestNextWake_StorageErrorFallsBackToTick(t *testing.T) {
	storage := &mockStorage{
		nextScheduledFunc: func(ctx context.Context, now time.Time) (*time.Time, error) {
			return nil, errors.New("connection lost")
		},
	}

	s := New(storage, &mockProcessor{}, nopLogger{}, testPoll())

	if got := s.NextWake(context.Background()); got != 60*time.Second {
		t.Errorf("NextWake = %v, want the full tick on error", got)
	}
}

func TestStartStop_Idempotent(t *testing.T) {
	storage := &mockStorage{
		dueFeedsFunc: func(ctx context.Context, now time.Time) ([]string, error) {
			return nil, nil
		},
	}

	s := New(storage, &mockProcessor{}, nopLogger{}, testPoll())

	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}
