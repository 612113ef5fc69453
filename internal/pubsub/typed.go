package pubsub

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// Topic[T] binds a topic name to its payload type and provides type-safe publishing.
type Topic[T any] struct {
	name        string
	description string
}

// NewTopic creates a typed topic.
func NewTopic[T any](name, description string) Topic[T] {
	return Topic[T]{name: name, description: description}
}

// Name returns the topic name.
func (t Topic[T]) Name() string {
	return t.name
}

// Description returns the human-readable purpose of the topic.
func (t Topic[T]) Description() string {
	return t.description
}

// Publish sends a typed event. The compiler ensures 'payload' matches 'T'.
func Publish[T any](ctx context.Context, p Publisher, topic Topic[T], payload T) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", topic.Name(), err)
	}

	return p.Publish(ctx, Message{
		Topic:   topic.Name(),
		Payload: data,
	})
}

// Subscribe registers a handler that receives decoded payloads of the topic.
// Messages that fail to decode are logged and dropped, never redelivered.
func Subscribe[T any](ctx context.Context, s Subscriber, topic Topic[T], handler func(ctx context.Context, payload T) error) error {
	return s.Subscribe(ctx, topic.Name(), func(ctx context.Context, msg Message) error {
		var payload T
		if err := json.Unmarshal(msg.Payload, &payload); err != nil {
			slog.Error("Dropping undecodable message", "topic", topic.Name(), "error", err)
			return nil
		}
		return handler(ctx, payload)
	})
}
