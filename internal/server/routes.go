package server

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

// RegisterRoutes boots all modules and adds the framework routes.
func (s *Server) RegisterRoutes(ctx context.Context) error {
	s.E.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	return s.bootModules(ctx)
}
