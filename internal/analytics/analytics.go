// Package analytics collects lightweight usage events and forwards them to a
// configurable sink. Publication is best effort: a sink failure is logged and
// never surfaces to the request that produced the event.
package analytics

import (
	"context"
	"time"
)

// Event names emitted across the service.
const (
	EventFilterUsed         = "filter_used"
	EventAffiliateClick     = "affiliate_click"
	EventAttachmentDownload = "attachment_download"
	EventWishlistAdd        = "wishlist_add"
	EventWishlistRemove     = "wishlist_remove"
	EventWishlistClear      = "wishlist_clear"
	EventProductAdded       = "product_added"
	EventProductRemoved     = "product_removed"
)

// Event is a single usage record.
type Event struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	VisitorID  string            `json:"visitorId,omitempty"`
	OccurredAt time.Time         `json:"occurredAt"`
	Labels     map[string]string `json:"labels,omitempty"`
}

// Sink receives event batches. Implementations must tolerate empty batches.
type Sink interface {
	Publish(ctx context.Context, events []Event) error
}

// SinkFunc adapts ordinary functions to Sink.
type SinkFunc func(ctx context.Context, events []Event) error

// Publish implements the Sink interface.
func (f SinkFunc) Publish(ctx context.Context, events []Event) error {
	return f(ctx, events)
}

// NopSink discards all events.
type NopSink struct{}

// Publish implements the Sink interface.
func (NopSink) Publish(context.Context, []Event) error { return nil }
