package view_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"
	"github.com/nfrund/livechat/internal/view"
	"github.com/stretchr/testify/assert"
)

const testSessionSecret = "a-very-secret-key-for-testing-!"

func setupTestContext() (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()

	store := sessions.NewCookieStore([]byte(testSessionSecret))
	sessionMiddleware := session.Middleware(store)

	// Capture the context from inside the middleware so the session store is attached.
	var c echo.Context
	handler := func(ctx echo.Context) error { c = ctx; return nil }
	sessionMiddleware(handler)(e.NewContext(req, rec))

	return c, rec
}

func TestFlashMessages(t *testing.T) {
	t.Run("Set and Get Success Flash", func(t *testing.T) {
		c, _ := setupTestContext()

		view.SetFlashSuccess(c, "Message sent")

		flashes := view.GetFlashData(c)

		assert.NotEmpty(t, flashes.Success)
		assert.Equal(t, "Message sent", flashes.Success[0])
		assert.Empty(t, flashes.Error)

		flashesAfterRead := view.GetFlashData(c)
		assert.Empty(t, flashesAfterRead.Success, "Flashes should be cleared after being read")
	})

	t.Run("Set and Get Error Flash", func(t *testing.T) {
		c, _ := setupTestContext()

		view.SetFlashError(c, "Message text is required")

		flashes := view.GetFlashData(c)

		assert.NotEmpty(t, flashes.Error)
		assert.Equal(t, "Message text is required", flashes.Error[0])
		assert.Empty(t, flashes.Success)
	})

	t.Run("No flashes set", func(t *testing.T) {
		c, _ := setupTestContext()

		flashes := view.GetFlashData(c)
		assert.True(t, flashes.Empty())
	})

	t.Run("Multiple notices keep their order", func(t *testing.T) {
		c, _ := setupTestContext()

		view.SetFlashError(c, "Message text is required")
		view.SetFlashError(c, "Try again")

		flashes := view.GetFlashData(c)
		assert.Equal(t, []string{"Message text is required", "Try again"}, flashes.Error)
	})
}
