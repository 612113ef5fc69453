package chat

import (
	"sync"

	"github.com/nfrund/livechat/internal/domain"
)

// Store is the authoritative, append-only list of messages created during the
// process lifetime. Nothing is persisted.
type Store struct {
	mu       sync.RWMutex
	messages []domain.Message
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// List returns all messages in creation order. The returned slice is a copy.
func (s *Store) List() []domain.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Message, len(s.messages))
	copy(out, s.messages)
	return out
}

// Append creates a message with the next id and adds it to the end of the list.
func (s *Store) Append(author, text string) domain.Message {
	s.mu.Lock()
	defer s.mu.Unlock()

	msg := domain.Message{
		ID:     len(s.messages) + 1,
		Author: author,
		Text:   text,
	}
	s.messages = append(s.messages, msg)
	return msg
}

// Len returns the number of stored messages.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.messages)
}
