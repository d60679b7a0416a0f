// ABOUTME: Scheduler runs the long-lived polling loop over due feeds
// ABOUTME: Dispatches batches with bounded concurrency and sleeps until the next wake

package scheduler

import (
	"context"
	"sync"
	"time"

	"feedpulse-api/core/interfaces"
	"feedpulse-api/core/processor"
	"feedpulse-api/pkg/config"
)

// Processor is the slice of the feed processor the scheduler needs.
type Processor interface {
	Process(ctx context.Context, feedURL string) (*processor.Result, error)
}

// Scheduler drives the adaptive polling loop. At most one instance
// may be active per database; there is no leader election.
type Scheduler struct {
	storage   interfaces.FeedStorage
	processor Processor
	logger    interfaces.Logger
	poll      config.Poll

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	running bool

	// now is the clock, replaceable in tests
	now func() time.Time
}

// New creates a scheduler over the given storage and processor.
func New(storage interfaces.FeedStorage, proc Processor, logger interfaces.Logger, poll config.Poll) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		storage:   storage,
		processor: proc,
		logger:    logger,
		poll:      poll,
		ctx:       ctx,
		cancel:    cancel,
		now:       time.Now,
	}
}

// Start begins the polling loop in a background goroutine.
func (s *Scheduler) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.running {
		return
	}
	s.running = true

	s.wg.Add(1)
	go s.loop()
}

// Stop cancels the loop and waits for in-flight work to finish.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// loop ticks forever: process everything due, then sleep until the
// next scheduled fetch, never longer than poll.Tick so new
// subscriptions are noticed within a minute.
func (s *Scheduler) loop() {
	defer s.wg.Done()

	for {
		s.Tick(s.ctx)

		select {
		case <-s.ctx.Done():
			return
		case <-time.After(s.NextWake(s.ctx)):
		}
	}
}

// Tick selects due feeds and processes them in sequential batches of
// poll.Concurrency. All feeds in a batch run in parallel and every
// result is awaited before the next batch starts; one feed failing
// never cancels its siblings. Tick errors are logged, never fatal.
func (s *Scheduler) Tick(ctx context.Context) {
	due, err := s.storage.DueFeeds(ctx, s.now())
	if err != nil {
		s.logError("failed to select due feeds", err)
		return
	}

	for start := 0; start < len(due); start += s.poll.Concurrency {
		end := start + s.poll.Concurrency
		if end > len(due) {
			end = len(due)
		}

		var wg sync.WaitGroup
		for _, feedURL := range due[start:end] {
			wg.Add(1)
			go func(url string) {
				defer wg.Done()
				if _, err := s.processor.Process(ctx, url); err != nil {
					// Already logged with context by the processor;
					// the feed keeps its schedule and is retried.
					return
				}
			}(feedURL)
		}
		wg.Wait()

		select {
		case <-ctx.Done():
			return
		default:
		}
	}
}

// NextWake computes how long to sleep before the next tick: the time
// until the earliest scheduled fetch, clamped to [0, poll.Tick].
func (s *Scheduler) NextWake(ctx context.Context) time.Duration {
	next, err := s.storage.NextScheduledFetch(ctx, s.now())
	if err != nil {
		s.logError("failed to read next scheduled fetch", err)
		return s.poll.Tick
	}

	if next == nil {
		return s.poll.Tick
	}

	wait := next.Sub(s.now())
	if wait < 0 {
		return 0
	}
	if wait > s.poll.Tick {
		return s.poll.Tick
	}
	return wait
}

func (s *Scheduler) logError(msg string, err error) {
	if s.logger != nil {
		s.logger.Error(msg, map[string]interface{}{"error": err.Error()})
	}
}
