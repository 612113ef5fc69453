package web

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"
	"github.com/samber/do/v2"

	"github.com/nfrund/livechat/internal/chat"
	"github.com/nfrund/livechat/internal/config"
	"github.com/nfrund/livechat/internal/middleware"
	"github.com/nfrund/livechat/internal/module"
	"github.com/nfrund/livechat/internal/rendering"
)

// WebModule serves the server-rendered chat page.
type WebModule struct {
	module.BaseModule
}

// New creates the web UI module.
func New() *WebModule {
	return &WebModule{}
}

// Name returns the module name.
func (m *WebModule) Name() string {
	return "web"
}

// Register provides the component renderer.
func (m *WebModule) Register(i do.Injector) error {
	do.Provide(i, func(i do.Injector) (rendering.Renderer, error) {
		return rendering.NewUniversalRenderer(), nil
	})
	return nil
}

// Boot sets up the page, form and feed routes.
func (m *WebModule) Boot(ctx context.Context, g *echo.Group, i do.Injector) error {
	svc, err := do.Invoke[*chat.Service](i)
	if err != nil {
		return fmt.Errorf("resolve chat service: %w", err)
	}
	renderer, err := do.Invoke[rendering.Renderer](i)
	if err != nil {
		return fmt.Errorf("resolve renderer: %w", err)
	}
	cfg, err := do.Invoke[*config.Config](i)
	if err != nil {
		return fmt.Errorf("resolve config: %w", err)
	}

	slog.Info("Booting WebModule: Setting up routes...")
	handler := NewHandler(svc, renderer)
	feed := NewFeed(handler, cfg.OriginPatterns)

	g.GET("/", handler.ChatGet)
	g.POST("/messages", handler.MessagePost, middleware.RateLimiter(cfg.UIRateLimit))
	g.GET("/feed", feed.ServeWS)
	return nil
}
