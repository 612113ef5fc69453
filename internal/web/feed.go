package web

import (
	"context"
	"log/slog"
	"time"

	"github.com/coder/websocket"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/livechat/internal/view"
)

// Time allowed to write a fragment to the peer.
const writeWait = 10 * time.Second

// Feed pushes rendered message fragments to the page over a websocket.
type Feed struct {
	handler        *Handler
	originPatterns []string
	logger         *slog.Logger
}

// NewFeed creates the live feed endpoint.
func NewFeed(h *Handler, originPatterns []string) *Feed {
	return &Feed{
		handler:        h,
		originPatterns: originPatterns,
		logger:         slog.Default().With("component", "web.feed"),
	}
}

// ServeWS subscribes to new messages and streams each one as an htmx out-of-band fragment
// until the browser goes away.
func (f *Feed) ServeWS(c echo.Context) error {
	conn, err := websocket.Accept(c.Response(), c.Request(), &websocket.AcceptOptions{
		OriginPatterns: f.originPatterns,
	})
	if err != nil {
		f.logger.Warn("Failed to upgrade feed connection", "error", err)
		return nil
	}
	defer conn.CloseNow()

	// The page never sends anything; CloseRead cancels ctx once the peer closes.
	ctx := conn.CloseRead(c.Request().Context())

	sub, err := f.handler.chat.MessageSent(ctx)
	if err != nil {
		f.logger.Error("Failed to subscribe feed", "error", err)
		conn.Close(websocket.StatusInternalError, "subscription failed")
		return nil
	}
	defer sub.Close()

	printer := printerFor(c.Request().Header.Get("Accept-Language"))
	logger := f.logger.With("subscription_id", sub.ID())
	logger.Debug("Feed connected")

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Feed disconnected")
			return nil
		case msg, ok := <-sub.C():
			if !ok {
				conn.Close(websocket.StatusGoingAway, "feed closed")
				return nil
			}

			fragment := FeedFragment(msg, formatCount(printer, f.handler.chat.Count()))
			body, err := f.handler.renderer.RenderComponent(ctx, view.Component(fragment))
			if err != nil {
				logger.Error("Failed to render feed fragment", "id", msg.ID, "error", err)
				continue
			}
			if err := write(ctx, conn, body); err != nil {
				logger.Debug("Feed write failed", "error", err)
				return nil
			}
		}
	}
}

func write(ctx context.Context, conn *websocket.Conn, body []byte) error {
	ctx, cancel := context.WithTimeout(ctx, writeWait)
	defer cancel()
	return conn.Write(ctx, websocket.MessageText, body)
}
