package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/samber/do/v2"

	"github.com/nfrund/livechat/internal/app"
	"github.com/nfrund/livechat/internal/config"
	appmiddleware "github.com/nfrund/livechat/internal/middleware"
	"github.com/nfrund/livechat/internal/module"
)

// Server holds the HTTP server and the application modules it hosts.
type Server struct {
	E        *echo.Echo
	Cfg      *config.Config
	injector *do.RootScope
	modules  []module.Module
}

// New creates a new Server instance. Call RegisterRoutes before Start.
func New(cfg *config.Config) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	setupErrorHandling(e)

	e.Use(middleware.RequestID())
	e.Use(appmiddleware.Logger)
	e.Use(middleware.Recover())

	// Configure and use session middleware
	store := sessions.NewCookieStore([]byte(cfg.SessionSecret))
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
	}
	e.Use(session.Middleware(store))

	return &Server{
		E:        e,
		Cfg:      cfg,
		injector: app.NewContainer(cfg),
		modules:  app.NewModules(cfg),
	}
}

// Injector exposes the dependency container, useful for testing.
func (s *Server) Injector() do.Injector {
	return s.injector
}

// setupErrorHandling installs an error handler that logs unhandled errors with a stack
// trace. HTTP errors raised on purpose are passed through unchanged.
func setupErrorHandling(e *echo.Echo) {
	e.HTTPErrorHandler = func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		logger := appmiddleware.FromContext(c.Request().Context())

		var he *echo.HTTPError
		if errors.As(err, &he) {
			if he.Internal != nil {
				logger.Warn("Request failed", "status", he.Code, "path", c.Request().URL.Path, "error", he.Internal)
			}
			e.DefaultHTTPErrorHandler(err, c)
			return
		}

		logger.Error("Internal Server Error (Unhandled)",
			"error", err.Error(),
			"path", c.Request().URL.Path,
			"stack_trace", string(debug.Stack()),
		)
		e.DefaultHTTPErrorHandler(echo.NewHTTPError(http.StatusInternalServerError).SetInternal(err), c)
	}
}

// bootModules registers every module with the injector, then boots them on the root group.
func (s *Server) bootModules(ctx context.Context) error {
	for _, m := range s.modules {
		if err := m.Register(s.injector); err != nil {
			return fmt.Errorf("register module %s: %w", m.Name(), err)
		}
	}

	root := s.E.Group("")
	for _, m := range s.modules {
		if err := m.Boot(ctx, root, s.injector); err != nil {
			return fmt.Errorf("boot module %s: %w", m.Name(), err)
		}
		slog.Info("Module booted", "module", m.Name())
	}
	return nil
}
