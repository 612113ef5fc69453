package chat

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nfrund/livechat/internal/domain"
)

// Service is the single entry point for reading, creating and watching messages.
// The API and UI layers only talk to the chat state through it.
type Service struct {
	store   *Store
	channel *Channel
	logger  *slog.Logger

	// sendMu keeps publish order identical to id order.
	sendMu sync.Mutex
}

// NewService wires a store and a channel together.
func NewService(store *Store, channel *Channel) *Service {
	return &Service{
		store:   store,
		channel: channel,
		logger:  slog.Default().With("component", "chat.service"),
	}
}

// AllMessages returns every message in creation order.
func (s *Service) AllMessages(ctx context.Context) []domain.Message {
	return s.store.List()
}

// Count returns the number of stored messages.
func (s *Service) Count() int {
	return s.store.Len()
}

// SendMessage stores a new message and broadcasts it to live subscribers.
// The text is not validated here; clients are expected to suppress empty messages.
func (s *Service) SendMessage(ctx context.Context, author, text string) domain.Message {
	s.sendMu.Lock()
	defer s.sendMu.Unlock()

	msg := s.store.Append(author, text)
	s.logger.Debug("Message stored", "id", msg.ID, "author", msg.Author)

	// The message is already part of the list, so a failed broadcast only affects live viewers.
	if err := s.channel.Publish(context.WithoutCancel(ctx), msg); err != nil {
		s.logger.Error("Failed to broadcast message", "id", msg.ID, "error", err)
	}
	return msg
}

// MessageSent opens a subscription to messages created from now on.
func (s *Service) MessageSent(ctx context.Context) (*Subscription, error) {
	return s.channel.Subscribe(ctx)
}
