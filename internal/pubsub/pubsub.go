package pubsub

import (
	"context"
	"errors"
)

// ErrClosed is returned when publishing or subscribing on a bus that has been shut down.
var ErrClosed = errors.New("pubsub: bus closed")

// Message is the structure passed between components on the bus.
// It is intentionally simple to act as a wrapper for raw data.
type Message struct {
	// Topic identifies the channel the message belongs to (e.g., "CHAT_CHANNEL").
	Topic string
	// Payload contains the encoded message data.
	Payload []byte
	// Metadata can contain arbitrary key-value pairs for context (e.g., timestamps).
	Metadata map[string]string
}

// Handler defines the function signature for processing a received message.
type Handler func(ctx context.Context, msg Message) error

// Publisher defines the contract for sending messages to the Pub/Sub system.
type Publisher interface {
	Publish(ctx context.Context, msg Message) error
	Close() error
}

// Subscriber defines the contract for receiving messages from the Pub/Sub system.
type Subscriber interface {
	// Subscribe registers interest in the given topic and processes messages with the handler.
	// The registration is active when Subscribe returns and lasts until ctx is canceled.
	Subscribe(ctx context.Context, topic string, handler Handler) error
	Close() error
}
