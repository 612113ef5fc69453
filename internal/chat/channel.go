package chat

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/nfrund/livechat/internal/domain"
	"github.com/nfrund/livechat/internal/pubsub"
)

// DefaultSubscriberBuffer is the number of undelivered messages a subscription holds
// before it starts discarding the oldest one.
const DefaultSubscriberBuffer = 64

// Channel fans out newly created messages to every live subscription.
// It keeps no history: a subscription only sees messages published after it was opened.
type Channel struct {
	publisher  pubsub.Publisher
	subscriber pubsub.Subscriber
	buffer     int
	logger     *slog.Logger
}

// NewChannel creates a channel on top of the given bus. A buffer below 1 falls back
// to DefaultSubscriberBuffer.
func NewChannel(pub pubsub.Publisher, sub pubsub.Subscriber, buffer int) *Channel {
	if buffer < 1 {
		buffer = DefaultSubscriberBuffer
	}
	return &Channel{
		publisher:  pub,
		subscriber: sub,
		buffer:     buffer,
		logger:     slog.Default().With("component", "chat.channel"),
	}
}

// Publish delivers msg to every currently registered subscription.
// With no subscribers the message is dropped.
func (c *Channel) Publish(ctx context.Context, msg domain.Message) error {
	return pubsub.Publish(ctx, c.publisher, TopicMessageSent, msg)
}

// Subscribe opens a subscription that receives every message published from now on,
// in publish order, until Close is called or ctx is canceled.
func (c *Channel) Subscribe(ctx context.Context) (*Subscription, error) {
	subCtx, cancel := context.WithCancel(ctx)
	s := &Subscription{
		id:     uuid.NewString(),
		out:    make(chan domain.Message, c.buffer),
		done:   make(chan struct{}),
		cancel: cancel,
	}
	s.logger = c.logger.With("subscription_id", s.id)

	if err := pubsub.Subscribe(subCtx, c.subscriber, TopicMessageSent, s.deliver); err != nil {
		cancel()
		return nil, fmt.Errorf("subscribe to %s: %w", TopicMessageSent.Name(), err)
	}

	go func() {
		<-subCtx.Done()
		s.close()
	}()

	s.logger.Debug("Subscription opened")
	return s, nil
}

// Subscription is a live registration on the channel.
type Subscription struct {
	id      string
	out     chan domain.Message
	done    chan struct{}
	cancel  context.CancelFunc
	logger  *slog.Logger
	dropped atomic.Uint64

	mu     sync.Mutex
	closed bool
}

// ID uniquely identifies the subscription in logs.
func (s *Subscription) ID() string {
	return s.id
}

// C yields published messages. It is closed when the subscription ends; messages
// already buffered at that point are still readable.
func (s *Subscription) C() <-chan domain.Message {
	return s.out
}

// Done is closed once the subscription has ended.
func (s *Subscription) Done() <-chan struct{} {
	return s.done
}

// Dropped reports how many messages were discarded because the reader fell behind.
func (s *Subscription) Dropped() uint64 {
	return s.dropped.Load()
}

// Close unregisters the subscription. It is safe to call more than once.
func (s *Subscription) Close() {
	s.cancel()
	s.close()
}

func (s *Subscription) close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	s.closed = true
	close(s.out)
	close(s.done)
	s.logger.Debug("Subscription closed", "dropped", s.dropped.Load())
}

// deliver never blocks: when the buffer is full the oldest pending message is
// discarded to make room, so a slow reader cannot stall publishers.
func (s *Subscription) deliver(_ context.Context, msg domain.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	select {
	case s.out <- msg:
		return nil
	default:
	}

	select {
	case old := <-s.out:
		s.dropped.Add(1)
		s.logger.Warn("Subscriber buffer full, dropping oldest message", "dropped_id", old.ID, "total_dropped", s.dropped.Load())
	default:
	}

	select {
	case s.out <- msg:
	default:
		s.dropped.Add(1)
	}
	return nil
}
