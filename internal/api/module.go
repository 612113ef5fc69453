package api

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/graph-gophers/graphql-go"
	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/nfrund/livechat/internal/chat"
	"github.com/nfrund/livechat/internal/config"
	"github.com/nfrund/livechat/internal/module"
)

// APIModule exposes the chat service as a GraphQL endpoint.
type APIModule struct {
	module.BaseModule
}

// New creates the GraphQL API module.
func New() *APIModule {
	return &APIModule{}
}

// Name returns the module name.
func (m *APIModule) Name() string {
	return "api"
}

// Register provides the executable schema.
func (m *APIModule) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (*graphql.Schema, error) {
		svc, err := do.Invoke[*chat.Service](i)
		if err != nil {
			return nil, err
		}
		return NewSchema(svc)
	})
	return nil
}

// Boot mounts /graphql for HTTP and websocket clients.
func (m *APIModule) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	schema, err := do.Invoke[*graphql.Schema](i)
	if err != nil {
		return fmt.Errorf("resolve graphql schema: %w", err)
	}
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	transport := NewTransport(schema, TransportConfig{
		InitTimeout:    cfg.WSInitTimeout,
		KeepAlive:      cfg.WSKeepAlive,
		OriginPatterns: cfg.OriginPatterns,
	})
	handler := NewHandler(schema, transport)

	slog.Info("Booting APIModule: Setting up routes...")
	g.POST("/graphql", handler.GraphQLPost)
	g.GET("/graphql", handler.GraphQLGet)
	return nil
}
