package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"github.com/brandfolio/api/internal/platform/sched"
)

const (
	defaultFlushInterval = 5 * time.Second
	defaultBatchSize     = 50
	publishTimeout       = 10 * time.Second
)

// Tracker buffers events and flushes them to the sink in batches. A flush
// happens when the buffer reaches the batch size or when the flush interval
// elapses after the most recent event, whichever comes first. Failures are
// logged and the batch is dropped; events are never retried.
type Tracker struct {
	sink     Sink
	logger   *zap.Logger
	batch    int
	debounce *sched.Debouncer
	now      func() time.Time

	mu     sync.Mutex
	buffer []Event
	closed bool
}

// TrackerOption customises the Tracker.
type TrackerOption func(*Tracker)

// WithFlushInterval overrides the quiet period before a buffered batch flushes.
func WithFlushInterval(interval time.Duration) TrackerOption {
	return func(t *Tracker) {
		if interval > 0 {
			t.debounce = sched.NewDebouncer(interval)
		}
	}
}

// WithBatchSize overrides the buffer size that forces an immediate flush.
func WithBatchSize(size int) TrackerOption {
	return func(t *Tracker) {
		if size > 0 {
			t.batch = size
		}
	}
}

// WithClock injects a custom clock primarily for tests.
func WithClock(clock func() time.Time) TrackerOption {
	return func(t *Tracker) {
		if clock != nil {
			t.now = clock
		}
	}
}

// NewTracker constructs a Tracker publishing to sink.
func NewTracker(sink Sink, logger *zap.Logger, opts ...TrackerOption) *Tracker {
	if sink == nil {
		sink = NopSink{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		sink:     sink,
		logger:   logger,
		batch:    defaultBatchSize,
		debounce: sched.NewDebouncer(defaultFlushInterval),
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// Record buffers a single event. The event id and timestamp are filled in
// when absent.
func (t *Tracker) Record(name string, visitorID string, labels map[string]string) {
	if t == nil || name == "" {
		return
	}

	event := Event{
		ID:         ulid.Make().String(),
		Name:       name,
		VisitorID:  visitorID,
		OccurredAt: t.now().UTC(),
		Labels:     labels,
	}

	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.buffer = append(t.buffer, event)
	full := len(t.buffer) >= t.batch
	t.mu.Unlock()

	if full {
		t.Flush()
		return
	}
	t.debounce.Trigger(t.Flush)
}

// Flush publishes the buffered events immediately.
func (t *Tracker) Flush() {
	t.mu.Lock()
	batch := t.buffer
	t.buffer = nil
	t.mu.Unlock()

	if len(batch) == 0 {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()

	if err := t.sink.Publish(ctx, batch); err != nil {
		t.logger.Warn("analytics publish failed",
			zap.Int("events", len(batch)),
			zap.Error(err),
		)
	}
}

// Close flushes any remaining events and stops the tracker.
func (t *Tracker) Close() {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return
	}
	t.closed = true
	t.mu.Unlock()

	t.debounce.Stop()
	t.Flush()
}
