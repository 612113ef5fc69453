package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

const (
	// Metadata keys used to transfer our Message structure fields through watermill's message.
	metaKeyTopic     = "topic"
	metaKeyPublished = "published_at"
)

// BridgeConfig tunes the in-memory bus.
type BridgeConfig struct {
	// OutputBuffer is the size of each subscriber's watermill output channel.
	OutputBuffer int64
	// Debug enables watermill's own debug logging.
	Debug bool
}

// WatermillBridge implements the Publisher and Subscriber interfaces using watermill's GoChannel.
//
// The GoChannel is non-persistent, so a subscriber only sees messages published after it
// registered, and a publish with no subscribers is dropped. Publish blocks until every
// subscriber has acknowledged the message, which keeps delivery FIFO per subscriber.
type WatermillBridge struct {
	pub    message.Publisher
	sub    message.Subscriber
	logger watermill.LoggerAdapter
	closed atomic.Bool
}

// NewWatermillBridge initializes an in-memory Pub/Sub system.
func NewWatermillBridge(cfg BridgeConfig) *WatermillBridge {
	logger := watermill.NewStdLogger(cfg.Debug, false)
	goChannel := gochannel.NewGoChannel(
		gochannel.Config{
			OutputChannelBuffer:            cfg.OutputBuffer,
			Persistent:                     false,
			BlockPublishUntilSubscriberAck: true,
		},
		logger,
	)

	return &WatermillBridge{
		pub:    goChannel,
		sub:    goChannel,
		logger: logger,
	}
}

// mapToWatermillMessage converts our pubsub.Message to a watermill message.
func mapToWatermillMessage(msg Message) *message.Message {
	wmMsg := message.NewMessage(watermill.NewUUID(), msg.Payload)

	wmMsg.Metadata.Set(metaKeyTopic, msg.Topic)
	wmMsg.Metadata.Set(metaKeyPublished, time.Now().UTC().Format(time.RFC3339Nano))

	for k, v := range msg.Metadata {
		wmMsg.Metadata.Set(k, v)
	}

	return wmMsg
}

// mapToPubSubMessage converts a watermill message back to our internal pubsub.Message.
func mapToPubSubMessage(wmMsg *message.Message) Message {
	metadata := make(map[string]string, len(wmMsg.Metadata))
	for k, v := range wmMsg.Metadata {
		if k != metaKeyTopic {
			metadata[k] = v
		}
	}

	return Message{
		Topic:    wmMsg.Metadata.Get(metaKeyTopic),
		Payload:  wmMsg.Payload,
		Metadata: metadata,
	}
}

// Publish implements the Publisher interface.
func (wb *WatermillBridge) Publish(ctx context.Context, msg Message) error {
	if wb.closed.Load() {
		return ErrClosed
	}
	if err := wb.pub.Publish(msg.Topic, mapToWatermillMessage(msg)); err != nil {
		return fmt.Errorf("publish to %q: %w", msg.Topic, err)
	}
	return nil
}

// Subscribe implements the Subscriber interface.
func (wb *WatermillBridge) Subscribe(ctx context.Context, topic string, handler Handler) error {
	if wb.closed.Load() {
		return ErrClosed
	}

	// The GoChannel registers the subscriber before returning, so anything published
	// after this call is delivered.
	messages, err := wb.sub.Subscribe(ctx, topic)
	if err != nil {
		return fmt.Errorf("subscribe to %q: %w", topic, err)
	}

	// Run the message processing in a separate goroutine so that Subscribe is non-blocking.
	go func() {
		for wmMsg := range messages {
			msg := mapToPubSubMessage(wmMsg)

			if err := handler(ctx, msg); err != nil {
				// GoChannel redelivers nacked messages to the same subscriber, so
				// handlers are expected to only fail on unrecoverable input.
				slog.Error("Failed to handle message", "topic", topic, "msg_id", wmMsg.UUID, "error", err)
				wmMsg.Nack()
			} else {
				wmMsg.Ack()
			}
		}
		slog.Debug("Subscription message loop ended", "topic", topic)
	}()

	return nil
}

// Close implements the Publisher and Subscriber interface to shut down the bridge.
func (wb *WatermillBridge) Close() error {
	if !wb.closed.CompareAndSwap(false, true) {
		return nil
	}
	// Closing the subscriber will close the gochannel and stop message consumption.
	return wb.sub.Close()
}

// Shutdown lets the dependency injector close the bus on application shutdown.
func (wb *WatermillBridge) Shutdown() error {
	return wb.Close()
}
