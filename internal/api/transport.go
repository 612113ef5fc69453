package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/google/uuid"
	"github.com/graph-gophers/graphql-go"
	gqlerrors "github.com/graph-gophers/graphql-go/errors"
	"github.com/labstack/echo/v4"
)

// Time allowed to write a frame to the peer.
const writeWait = 10 * time.Second

// TransportConfig tunes the websocket transport.
type TransportConfig struct {
	// InitTimeout is how long a client has to send connection_init.
	InitTimeout time.Duration
	// KeepAlive is the period of "ka" frames on the legacy protocol.
	KeepAlive time.Duration
	// OriginPatterns lists the accepted Origin hosts ("*" accepts any).
	OriginPatterns []string
}

// Transport serves GraphQL operations, in practice subscriptions, over websockets.
type Transport struct {
	exec   Executor
	cfg    TransportConfig
	logger *slog.Logger
}

// NewTransport creates a websocket transport for the given executor.
func NewTransport(exec Executor, cfg TransportConfig) *Transport {
	if cfg.InitTimeout <= 0 {
		cfg.InitTimeout = 10 * time.Second
	}
	if cfg.KeepAlive <= 0 {
		cfg.KeepAlive = 12 * time.Second
	}
	return &Transport{
		exec:   exec,
		cfg:    cfg,
		logger: slog.Default().With("component", "api.transport"),
	}
}

// Serve upgrades the request and runs the session until either side closes it.
func (t *Transport) Serve(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		Subprotocols:   []string{ProtocolTransportWS, ProtocolLegacyWS},
		OriginPatterns: t.cfg.OriginPatterns,
	})
	if err != nil {
		// Accept has already written an HTTP error response.
		t.logger.Warn("Failed to upgrade connection to WebSocket", "error", err)
		return nil
	}

	s := &session{
		id:     uuid.NewString(),
		conn:   conn,
		proto:  protocolFor(conn.Subprotocol()),
		exec:   t.exec,
		cfg:    t.cfg,
		ops:    make(map[string]*operation),
		logger: t.logger,
	}
	s.logger = t.logger.With("session_id", s.id, "protocol", s.proto.name)
	s.logger.Info("GraphQL websocket session opened")

	s.run(c.Request().Context())
	return nil
}

// session is one websocket connection and the operations running on it.
type session struct {
	id     string
	conn   *websocket.Conn
	proto  protocol
	exec   Executor
	cfg    TransportConfig
	logger *slog.Logger

	acked atomic.Bool
	wg    sync.WaitGroup

	mu  sync.Mutex
	ops map[string]*operation
}

// operation is one running subscription. Ids may be reused once an
// operation completes, so entries are matched by pointer on removal.
type operation struct {
	cancel context.CancelFunc
}

func (s *session) run(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	defer func() {
		cancel()
		s.wg.Wait()
		s.conn.Close(websocket.StatusNormalClosure, "")
		s.logger.Info("GraphQL websocket session closed")
	}()

	initTimer := time.AfterFunc(s.cfg.InitTimeout, func() {
		if !s.acked.Load() {
			s.closeWith(closeInitTimeout, "Connection initialisation timeout")
		}
	})
	defer initTimer.Stop()

	for {
		_, data, err := s.conn.Read(ctx)
		if err != nil {
			status := websocket.CloseStatus(err)
			if status == websocket.StatusNormalClosure || status == websocket.StatusGoingAway || ctx.Err() != nil {
				s.logger.Debug("WebSocket closed", "status", status)
			} else {
				s.logger.Debug("WebSocket read ended", "error", err)
			}
			return
		}

		var msg operationMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type == "" {
			s.closeWith(closeBadRequest, "Invalid message received")
			return
		}

		if done := s.handle(ctx, msg); done {
			return
		}
	}
}

// handle processes one client frame and reports whether the session is over.
func (s *session) handle(ctx context.Context, msg operationMessage) bool {
	switch msg.Type {
	case msgConnectionInit:
		if s.acked.Swap(true) {
			s.closeWith(closeTooManyInitRequests, "Too many initialisation requests")
			return true
		}
		s.write(ctx, outgoingMessage{Type: msgConnectionAck})
		if s.proto.keepAlive {
			s.write(ctx, outgoingMessage{Type: msgKeepAlive})
			s.wg.Add(1)
			go s.keepAlive(ctx)
		}
		return false

	case s.proto.subscribe:
		if !s.acked.Load() {
			s.closeWith(closeUnauthorized, "Unauthorized")
			return true
		}
		if msg.ID == "" {
			s.closeWith(closeBadRequest, "Invalid message received")
			return true
		}
		return s.start(ctx, msg)

	case s.proto.stop:
		s.stop(msg.ID)
		return false
	}

	switch {
	case msg.Type == msgPing && s.proto == transportWS:
		s.write(ctx, outgoingMessage{Type: msgPong})
		return false
	case msg.Type == msgPong && s.proto == transportWS:
		return false
	case msg.Type == msgConnectionTerminate && s.proto == legacyWS:
		return true
	}

	s.closeWith(closeBadRequest, "Invalid message received")
	return true
}

// start launches an operation. It reports true when the session had to be closed.
func (s *session) start(ctx context.Context, msg operationMessage) bool {
	var payload operationPayload
	if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Query == "" {
		if s.proto == transportWS {
			s.closeWith(closeBadRequest, "Invalid message received")
			return true
		}
		s.writeErrors(ctx, msg.ID, []*gqlerrors.QueryError{gqlerrors.Errorf("invalid operation payload")})
		return false
	}

	s.mu.Lock()
	if _, exists := s.ops[msg.ID]; exists {
		s.mu.Unlock()
		s.closeWith(closeSubscriberExists, fmt.Sprintf("Subscriber for %s already exists", msg.ID))
		return true
	}
	opCtx, cancel := context.WithCancel(ctx)
	op := &operation{cancel: cancel}
	s.ops[msg.ID] = op
	s.mu.Unlock()

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		defer s.finish(msg.ID, op)
		s.stream(ctx, opCtx, msg.ID, payload)
	}()
	return false
}

// stream forwards every response of one operation to the client.
func (s *session) stream(ctx, opCtx context.Context, id string, payload operationPayload) {
	logger := s.logger.With("operation_id", id, "operation", payload.OperationName)
	logger.Debug("Operation started")

	responses, err := s.exec.Subscribe(opCtx, payload.Query, payload.OperationName, payload.Variables)
	if err != nil {
		s.writeErrors(ctx, id, []*gqlerrors.QueryError{gqlerrors.Errorf("%s", err)})
		return
	}

	first := true
	for {
		select {
		case <-opCtx.Done():
			logger.Debug("Operation stopped")
			return
		case r, ok := <-responses:
			if !ok {
				if opCtx.Err() == nil {
					s.write(ctx, outgoingMessage{ID: id, Type: msgComplete})
				}
				logger.Debug("Operation completed")
				return
			}

			resp, isResponse := r.(*graphql.Response)
			if !isResponse {
				logger.Error("Unexpected subscription value", "type", fmt.Sprintf("%T", r))
				continue
			}
			// Errors before any data mean the operation never started.
			if first && len(resp.Errors) > 0 && len(resp.Data) == 0 {
				s.writeErrors(ctx, id, resp.Errors)
				return
			}
			first = false
			s.write(ctx, outgoingMessage{ID: id, Type: s.proto.next, Payload: resp})
		}
	}
}

// stop cancels an operation. Unknown ids are ignored.
func (s *session) stop(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if op, ok := s.ops[id]; ok {
		op.cancel()
		delete(s.ops, id)
	}
}

// finish releases op and removes it unless a newer operation took its id.
func (s *session) finish(id string, op *operation) {
	op.cancel()
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ops[id] == op {
		delete(s.ops, id)
	}
}

func (s *session) keepAlive(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(s.cfg.KeepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.write(ctx, outgoingMessage{Type: msgKeepAlive})
		}
	}
}

func (s *session) writeErrors(ctx context.Context, id string, errs []*gqlerrors.QueryError) {
	s.write(ctx, outgoingMessage{ID: id, Type: msgError, Payload: s.proto.errorPayload(errs)})
}

func (s *session) write(ctx context.Context, msg outgoingMessage) {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()

	if err := wsjson.Write(ctx, s.conn, msg); err != nil && !errors.Is(err, context.Canceled) {
		s.logger.Debug("WebSocket write failed", "type", msg.Type, "error", err)
	}
}

func (s *session) closeWith(code int, reason string) {
	s.logger.Info("Closing GraphQL websocket session", "code", code, "reason", reason)
	s.conn.Close(websocket.StatusCode(code), reason)
}
