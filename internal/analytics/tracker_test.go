package analytics

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type captureSink struct {
	mu      sync.Mutex
	batches [][]Event
	err     error
}

func (s *captureSink) Publish(_ context.Context, events []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make([]Event, len(events))
	copy(copied, events)
	s.batches = append(s.batches, copied)
	return s.err
}

func (s *captureSink) batchCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.batches)
}

func (s *captureSink) allEvents() []Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []Event
	for _, batch := range s.batches {
		out = append(out, batch...)
	}
	return out
}

func TestTrackerFlushesWhenBatchFills(t *testing.T) {
	sink := &captureSink{}
	tracker := NewTracker(sink, nil,
		WithBatchSize(2),
		WithFlushInterval(time.Hour),
	)
	defer tracker.Close()

	tracker.Record(EventWishlistAdd, "v1", map[string]string{"productId": "p1"})
	if sink.batchCount() != 0 {
		t.Fatalf("expected no flush below batch size")
	}
	tracker.Record(EventWishlistAdd, "v1", map[string]string{"productId": "p2"})

	if sink.batchCount() != 1 {
		t.Fatalf("expected one batch, got %d", sink.batchCount())
	}
	events := sink.allEvents()
	if len(events) != 2 {
		t.Fatalf("expected two events, got %d", len(events))
	}
	for _, event := range events {
		if event.ID == "" {
			t.Fatalf("expected event id assigned")
		}
		if event.OccurredAt.IsZero() {
			t.Fatalf("expected event timestamp assigned")
		}
	}
}

func TestTrackerFlushesAfterQuietPeriod(t *testing.T) {
	sink := &captureSink{}
	tracker := NewTracker(sink, nil,
		WithBatchSize(100),
		WithFlushInterval(15*time.Millisecond),
	)
	defer tracker.Close()

	tracker.Record(EventFilterUsed, "v1", map[string]string{"search": "lamp"})

	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) && sink.batchCount() == 0 {
		time.Sleep(time.Millisecond)
	}
	if sink.batchCount() != 1 {
		t.Fatalf("expected debounced flush, got %d batches", sink.batchCount())
	}
}

func TestTrackerCloseFlushesRemainder(t *testing.T) {
	sink := &captureSink{}
	tracker := NewTracker(sink, nil,
		WithBatchSize(100),
		WithFlushInterval(time.Hour),
	)

	tracker.Record(EventAffiliateClick, "v1", map[string]string{"productId": "p1"})
	tracker.Close()

	if got := len(sink.allEvents()); got != 1 {
		t.Fatalf("expected buffered event flushed on close, got %d", got)
	}

	// Records after Close are dropped.
	tracker.Record(EventAffiliateClick, "v1", nil)
	if got := len(sink.allEvents()); got != 1 {
		t.Fatalf("expected no events after close, got %d", got)
	}
}

func TestTrackerSwallowsSinkFailures(t *testing.T) {
	sink := &captureSink{err: errors.New("broker down")}
	tracker := NewTracker(sink, nil, WithBatchSize(1))
	defer tracker.Close()

	tracker.Record(EventWishlistClear, "v1", nil)
	// The failure is logged and dropped; recording again must still work.
	tracker.Record(EventWishlistClear, "v1", nil)

	if sink.batchCount() != 2 {
		t.Fatalf("expected both batches attempted, got %d", sink.batchCount())
	}
}

func TestTrackerIgnoresUnnamedEvents(t *testing.T) {
	sink := &captureSink{}
	tracker := NewTracker(sink, nil, WithBatchSize(1))
	defer tracker.Close()

	tracker.Record("", "v1", nil)
	if sink.batchCount() != 0 {
		t.Fatalf("expected unnamed event dropped")
	}
}
