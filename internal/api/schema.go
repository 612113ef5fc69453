package api

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/graph-gophers/graphql-go"

	"github.com/nfrund/livechat/internal/chat"
	"github.com/nfrund/livechat/internal/domain"
)

//go:embed schema.graphql
var schemaSDL string

// ChatService is the part of the chat service the resolvers depend on.
type ChatService interface {
	AllMessages(ctx context.Context) []domain.Message
	SendMessage(ctx context.Context, author, text string) domain.Message
	MessageSent(ctx context.Context) (*chat.Subscription, error)
}

// Executor runs GraphQL operations. *graphql.Schema satisfies it.
type Executor interface {
	Exec(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) *graphql.Response
	Subscribe(ctx context.Context, queryString string, operationName string, variables map[string]interface{}) (<-chan interface{}, error)
}

// NewSchema parses the chat schema and binds it to the resolvers.
func NewSchema(svc ChatService) (*graphql.Schema, error) {
	schema, err := graphql.ParseSchema(schemaSDL, NewResolver(svc), graphql.MaxDepth(8))
	if err != nil {
		return nil, fmt.Errorf("parse graphql schema: %w", err)
	}
	return schema, nil
}
