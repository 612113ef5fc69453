package rendering

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/a-h/templ"
	"github.com/labstack/echo/v4"
)

// Renderer renders UI components, either to bytes for websocket pushes or to an HTTP response.
type Renderer interface {
	// RenderComponent renders a component to bytes.
	RenderComponent(ctx context.Context, component any) ([]byte, error)

	// RenderPage writes a component as a full HTML response.
	RenderPage(c echo.Context, status int, component any) error
}

// UniversalRenderer renders templ components and anything with a gomponents-style
// Render(io.Writer) method.
type UniversalRenderer struct{}

// NewUniversalRenderer creates a new UniversalRenderer.
func NewUniversalRenderer() *UniversalRenderer {
	return &UniversalRenderer{}
}

type gomponentNode interface {
	Render(w io.Writer) error
}

func (r *UniversalRenderer) render(ctx context.Context, component any, w io.Writer) error {
	switch c := component.(type) {
	case templ.Component:
		return c.Render(ctx, w)
	case gomponentNode:
		return c.Render(w)
	default:
		return fmt.Errorf("unsupported component type %T", component)
	}
}

// RenderComponent implements Renderer.
func (r *UniversalRenderer) RenderComponent(ctx context.Context, component any) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.render(ctx, component, &buf); err != nil {
		return nil, fmt.Errorf("render component: %w", err)
	}
	return buf.Bytes(), nil
}

// RenderPage implements Renderer. The component is rendered to a buffer first so a
// failure still produces a proper error response.
func (r *UniversalRenderer) RenderPage(c echo.Context, status int, component any) error {
	body, err := r.RenderComponent(c.Request().Context(), component)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "failed to render page").SetInternal(err)
	}
	return c.HTMLBlob(status, body)
}

// Render implements echo.Renderer so handlers can call c.Render(status, "", component).
func (r *UniversalRenderer) Render(w io.Writer, _ string, data any, c echo.Context) error {
	if c.Response().Header().Get(echo.HeaderContentType) == "" {
		c.Response().Header().Set(echo.HeaderContentType, echo.MIMETextHTMLCharsetUTF8)
	}
	return r.render(c.Request().Context(), data, w)
}
