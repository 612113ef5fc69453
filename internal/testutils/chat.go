package testutils

import (
	"context"
	"testing"
	"time"

	"github.com/nfrund/livechat/internal/chat"
	"github.com/nfrund/livechat/internal/pubsub"
)

// NewChatService builds a chat service on a fresh in-memory bus that is closed with the test.
func NewChatService(t *testing.T) *chat.Service {
	t.Helper()
	bus := pubsub.NewWatermillBridge(pubsub.BridgeConfig{})
	t.Cleanup(func() { _ = bus.Close() })
	return chat.NewService(chat.NewStore(), chat.NewChannel(bus, bus, 16))
}

// SignalingService reports every opened subscription, so a test can wait until a remote
// subscriber is registered before it sends.
type SignalingService struct {
	*chat.Service
	subscribed chan struct{}
}

// NewSignalingService wraps a fresh chat service.
func NewSignalingService(t *testing.T) *SignalingService {
	t.Helper()
	return &SignalingService{Service: NewChatService(t), subscribed: make(chan struct{}, 16)}
}

// MessageSent opens a subscription and signals it.
func (s *SignalingService) MessageSent(ctx context.Context) (*chat.Subscription, error) {
	sub, err := s.Service.MessageSent(ctx)
	if err == nil {
		s.subscribed <- struct{}{}
	}
	return sub, err
}

// WaitSubscribed blocks until one subscription has been opened.
func (s *SignalingService) WaitSubscribed(t *testing.T) {
	t.Helper()
	select {
	case <-s.subscribed:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for a subscription")
	}
}
