package analytics

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cloud.google.com/go/pubsub"
)

// PubSubSink publishes event batches to a Pub/Sub topic, one message per
// event so downstream consumers can route on attributes.
type PubSubSink struct {
	topic   *pubsub.Topic
	marshal func(any) ([]byte, error)
}

// NewPubSubSink constructs a Pub/Sub backed analytics sink.
func NewPubSubSink(topic *pubsub.Topic) (*PubSubSink, error) {
	if topic == nil {
		return nil, errors.New("pubsub analytics sink: topic is required")
	}
	return &PubSubSink{
		topic:   topic,
		marshal: json.Marshal,
	}, nil
}

// Publish enqueues each event on the configured topic and waits for the
// server acknowledgements.
func (s *PubSubSink) Publish(ctx context.Context, events []Event) error {
	if s == nil || s.topic == nil {
		return errors.New("pubsub analytics sink: not initialised")
	}
	if len(events) == 0 {
		return nil
	}

	results := make([]*pubsub.PublishResult, 0, len(events))
	for _, event := range events {
		data, err := s.marshal(event)
		if err != nil {
			return fmt.Errorf("marshal analytics event: %w", err)
		}

		attrs := make(map[string]string)
		setAttr(attrs, "eventId", event.ID)
		setAttr(attrs, "event", event.Name)
		setAttr(attrs, "visitorId", event.VisitorID)

		results = append(results, s.topic.Publish(ctx, &pubsub.Message{
			Data:       data,
			Attributes: attrs,
		}))
	}

	for _, result := range results {
		if _, err := result.Get(ctx); err != nil {
			return fmt.Errorf("publish analytics event: %w", err)
		}
	}
	return nil
}

func setAttr(attrs map[string]string, key string, value string) {
	if v := strings.TrimSpace(value); v != "" {
		attrs[key] = v
	}
}
