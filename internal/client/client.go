// Package client talks to a livechat server over GraphQL: queries and mutations over HTTP,
// subscriptions over a graphql-transport-ws websocket.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/samber/lo"

	"github.com/nfrund/livechat/internal/domain"
)

const (
	allMessagesQuery = `query AllMessages { allMessages { id author text } }`
	sendMessageQuery = `mutation SendMessage($author: String!, $text: String!) { sendMessage(author: $author, text: $text) { id author text } }`
	messageSentQuery = `subscription MessageSent { messageSent { id author text } }`
)

// Client is a GraphQL client for one livechat endpoint.
type Client struct {
	endpoint   string
	httpClient *http.Client
	dialer     *websocket.Dialer
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client used for queries and mutations.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithDialer replaces the websocket dialer used for subscriptions.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *Client) { c.dialer = d }
}

// New creates a client for endpoint, e.g. "http://localhost:8080/graphql".
func New(endpoint string, opts ...Option) *Client {
	c := &Client{
		endpoint:   endpoint,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		dialer: &websocket.Dialer{
			HandshakeTimeout: 10 * time.Second,
			Subprotocols:     []string{"graphql-transport-ws"},
		},
		logger: slog.Default().With("component", "client"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the GraphQL endpoint URL.
func (c *Client) Endpoint() string {
	return c.endpoint
}

type wireMessage struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Text   string `json:"text"`
}

func (w *wireMessage) toDomain() domain.Message {
	return domain.Message{ID: w.ID, Author: w.Author, Text: w.Text}
}

type request struct {
	Query         string         `json:"query"`
	OperationName string         `json:"operationName,omitempty"`
	Variables     map[string]any `json:"variables,omitempty"`
}

type response struct {
	Data   json.RawMessage `json:"data"`
	Errors GraphQLErrors   `json:"errors"`
}

// GraphQLError is one entry of a response's errors array.
type GraphQLError struct {
	Message string `json:"message"`
}

// GraphQLErrors is returned when the server answers with errors.
type GraphQLErrors []GraphQLError

func (e GraphQLErrors) Error() string {
	return strings.Join(lo.Map(e, func(err GraphQLError, _ int) string { return err.Message }), "; ")
}

// AllMessages fetches every message in creation order.
func (c *Client) AllMessages(ctx context.Context) ([]domain.Message, error) {
	var data struct {
		AllMessages []*wireMessage `json:"allMessages"`
	}
	if err := c.do(ctx, request{Query: allMessagesQuery, OperationName: "AllMessages"}, &data); err != nil {
		return nil, fmt.Errorf("all messages: %w", err)
	}

	// The list and its items are nullable in the schema.
	present := lo.Compact(data.AllMessages)
	return lo.Map(present, func(m *wireMessage, _ int) domain.Message { return m.toDomain() }), nil
}

// SendMessage creates a message. Empty text is rejected locally with domain.ErrEmptyText
// and never reaches the server.
func (c *Client) SendMessage(ctx context.Context, author, text string) (domain.Message, error) {
	if text == "" {
		return domain.Message{}, domain.ErrEmptyText
	}

	var data struct {
		SendMessage *wireMessage `json:"sendMessage"`
	}
	req := request{
		Query:         sendMessageQuery,
		OperationName: "SendMessage",
		Variables:     map[string]any{"author": author, "text": text},
	}
	if err := c.do(ctx, req, &data); err != nil {
		return domain.Message{}, fmt.Errorf("send message: %w", err)
	}
	if data.SendMessage == nil {
		return domain.Message{}, fmt.Errorf("send message: empty response")
	}
	return data.SendMessage.toDomain(), nil
}

func (c *Client) do(ctx context.Context, req request, out any) error {
	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var gqlResp response
	if err := json.NewDecoder(resp.Body).Decode(&gqlResp); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if len(gqlResp.Errors) > 0 {
		return gqlResp.Errors
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	if err := json.Unmarshal(gqlResp.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	c.logger.Debug("GraphQL request completed", "operation", req.OperationName)
	return nil
}
