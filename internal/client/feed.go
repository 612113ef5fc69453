package client

import (
	"context"
	"sync"

	"github.com/nfrund/livechat/internal/domain"
)

// Feed is the client-side view of the conversation: the history fetched once, then every
// new message prepended as it arrives. It never refetches or reconciles.
type Feed struct {
	client *Client

	mu       sync.RWMutex
	messages []domain.Message // arrivals first, then the history in creation order
	onChange func([]domain.Message)
}

// NewFeed creates an empty feed backed by client.
func NewFeed(client *Client) *Feed {
	return &Feed{client: client}
}

// OnChange registers fn to be called with a snapshot after every update.
func (f *Feed) OnChange(fn func(messages []domain.Message)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onChange = fn
}

// Messages returns a snapshot of the cache: live arrivals newest first, followed by
// the loaded history in creation order.
func (f *Feed) Messages() []domain.Message {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]domain.Message(nil), f.messages...)
}

// Load fetches the full history and replaces the cache with it.
func (f *Feed) Load(ctx context.Context) error {
	msgs, err := f.client.AllMessages(ctx)
	if err != nil {
		return err
	}
	f.update(func([]domain.Message) []domain.Message {
		return msgs
	})
	return nil
}

// Run subscribes to new messages and prepends each one. It returns nil once ctx is
// canceled, the server's error if the stream failed, or domain.ErrSubscriptionClosed if
// the server completed it.
func (f *Feed) Run(ctx context.Context) error {
	sub, err := f.client.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer sub.Close()

	for msg := range sub.C() {
		f.update(func(current []domain.Message) []domain.Message {
			return append([]domain.Message{msg}, current...)
		})
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := sub.Err(); err != nil {
		return err
	}
	return domain.ErrSubscriptionClosed
}

func (f *Feed) update(fn func(current []domain.Message) []domain.Message) {
	f.mu.Lock()
	f.messages = fn(f.messages)
	snapshot := append([]domain.Message(nil), f.messages...)
	onChange := f.onChange
	f.mu.Unlock()

	if onChange != nil {
		onChange(snapshot)
	}
}
