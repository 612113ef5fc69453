package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/nfrund/livechat/internal/chat"
	"github.com/nfrund/livechat/internal/domain"
	"github.com/nfrund/livechat/internal/middleware"
	"github.com/nfrund/livechat/internal/rendering"
	"github.com/nfrund/livechat/internal/view"
)

// ChatService is the part of the chat service the UI depends on.
type ChatService interface {
	AllMessages(ctx context.Context) []domain.Message
	SendMessage(ctx context.Context, author, text string) domain.Message
	MessageSent(ctx context.Context) (*chat.Subscription, error)
	Count() int
}

// Handler serves the chat page and its form.
type Handler struct {
	chat      ChatService
	renderer  rendering.Renderer
	validator echo.Validator
}

// NewHandler creates a new UI handler.
func NewHandler(svc ChatService, renderer rendering.Renderer) *Handler {
	return &Handler{
		chat:      svc,
		renderer:  renderer,
		validator: NewValidator(),
	}
}

// ChatGet renders the message list in creation order with the post form.
func (h *Handler) ChatGet(c echo.Context) error {
	ctx := c.Request().Context()

	messages := h.chat.AllMessages(ctx)
	count := formatCount(printerFor(c.Request().Header.Get("Accept-Language")), len(messages))

	content := view.Component(ChatContent(messages, count, lastAuthor(c)))
	return h.renderer.RenderPage(c, http.StatusOK, Layout("", view.GetFlashData(c), content))
}

// MessagePost creates a message from the form. Empty text is suppressed.
func (h *Handler) MessagePost(c echo.Context) error {
	logger := middleware.FromContext(c.Request().Context())

	var req SendMessageRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid form").SetInternal(err)
	}

	if err := h.validator.Validate(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && verrs[0].Field() == "Text" && verrs[0].Tag() == "required" {
			logger.Debug("Suppressed empty message")
			view.SetFlashError(c, "Message text is required")
		} else {
			view.SetFlashError(c, "Message could not be sent")
		}
		return c.Redirect(http.StatusSeeOther, "/")
	}

	if err := rememberAuthor(c, req.Author); err != nil {
		logger.Warn("Could not remember author", "error", err)
	}

	msg := h.chat.SendMessage(c.Request().Context(), req.Author, req.Text)
	logger.Info("Message sent from UI", "id", msg.ID)

	return c.Redirect(http.StatusSeeOther, "/")
}
