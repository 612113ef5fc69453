package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/nfrund/livechat/internal/domain"
)

const (
	subscriptionID = "1"
	ackTimeout     = 10 * time.Second
	writeWait      = 10 * time.Second
)

type frame struct {
	ID      string          `json:"id,omitempty"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Subscription is a live messageSent stream.
type Subscription struct {
	conn     *websocket.Conn
	messages chan domain.Message
	stop     chan struct{}
	done     chan struct{}

	writeMu sync.Mutex

	mu     sync.Mutex
	err    error
	closed bool
}

// Subscribe opens a messageSent subscription. Messages arrive on C until ctx is canceled,
// Close is called, or the server ends the stream; Err then reports why.
func (c *Client) Subscribe(ctx context.Context) (*Subscription, error) {
	wsURL, err := websocketURL(c.endpoint)
	if err != nil {
		return nil, err
	}

	conn, _, err := c.dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", wsURL, err)
	}

	s := &Subscription{
		conn:     conn,
		messages: make(chan domain.Message),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if err := s.handshake(); err != nil {
		_ = conn.Close()
		return nil, err
	}

	payload, _ := json.Marshal(request{Query: messageSentQuery, OperationName: "MessageSent"})
	if err := s.write(frame{ID: subscriptionID, Type: "subscribe", Payload: payload}); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("subscribe: %w", err)
	}

	go s.readLoop()
	go func() {
		select {
		case <-ctx.Done():
			s.Close()
		case <-s.done:
		}
	}()

	c.logger.Debug("Subscription opened", "url", wsURL)
	return s, nil
}

// C delivers new messages in arrival order.
func (s *Subscription) C() <-chan domain.Message {
	return s.messages
}

// Err reports why the stream ended. It is nil after a normal completion or Close.
func (s *Subscription) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Close stops the subscription. Calling it more than once is a no-op.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	close(s.stop)
	s.mu.Unlock()

	_ = s.write(frame{ID: subscriptionID, Type: "complete"})
	_ = s.conn.WriteControl(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
	_ = s.conn.Close()
}

func (s *Subscription) handshake() error {
	if err := s.write(frame{Type: "connection_init"}); err != nil {
		return fmt.Errorf("connection init: %w", err)
	}

	_ = s.conn.SetReadDeadline(time.Now().Add(ackTimeout))
	defer s.conn.SetReadDeadline(time.Time{})

	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			return fmt.Errorf("waiting for connection ack: %w", err)
		}
		switch f.Type {
		case "connection_ack":
			return nil
		case "ping":
			if err := s.write(frame{Type: "pong"}); err != nil {
				return err
			}
		default:
			return fmt.Errorf("unexpected %q before connection ack", f.Type)
		}
	}
}

func (s *Subscription) readLoop() {
	defer close(s.done)
	defer close(s.messages)

	for {
		var f frame
		if err := s.conn.ReadJSON(&f); err != nil {
			s.finish(err)
			return
		}

		switch f.Type {
		case "next":
			msg, err := decodeNext(f.Payload)
			if err != nil {
				s.finish(err)
				return
			}
			if msg == nil {
				continue
			}
			select {
			case s.messages <- *msg:
			case <-s.stop:
				return
			}
		case "error":
			var errs GraphQLErrors
			if err := json.Unmarshal(f.Payload, &errs); err != nil {
				errs = GraphQLErrors{{Message: string(f.Payload)}}
			}
			s.finish(errs)
			return
		case "complete":
			s.finish(nil)
			return
		case "ping":
			_ = s.write(frame{Type: "pong"})
		}
	}
}

func (s *Subscription) finish(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		// Errors caused by our own Close are not reported.
		return
	}
	var closeErr *websocket.CloseError
	if errors.As(err, &closeErr) && closeErr.Code == websocket.CloseNormalClosure {
		err = nil
	}
	s.err = err
	s.closed = true
	_ = s.conn.Close()
}

func (s *Subscription) write(f frame) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return s.conn.WriteJSON(f)
}

func decodeNext(payload json.RawMessage) (*domain.Message, error) {
	var resp struct {
		Data struct {
			MessageSent *wireMessage `json:"messageSent"`
		} `json:"data"`
		Errors GraphQLErrors `json:"errors"`
	}
	if err := json.Unmarshal(payload, &resp); err != nil {
		return nil, fmt.Errorf("decode subscription payload: %w", err)
	}
	if len(resp.Errors) > 0 {
		return nil, resp.Errors
	}
	if resp.Data.MessageSent == nil {
		return nil, nil
	}
	msg := resp.Data.MessageSent.toDomain()
	return &msg, nil
}

// websocketURL maps an http(s) GraphQL endpoint onto its ws(s) equivalent.
func websocketURL(endpoint string) (string, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("parse endpoint: %w", err)
	}
	switch u.Scheme {
	case "http":
		u.Scheme = "ws"
	case "https":
		u.Scheme = "wss"
	case "ws", "wss":
	default:
		return "", fmt.Errorf("unsupported endpoint scheme %q", u.Scheme)
	}
	return u.String(), nil
}
