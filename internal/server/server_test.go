package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nfrund/livechat/internal/testutils"
)

func TestHTTPErrorHandler_WithStackTrace(t *testing.T) {
	// --- Setup ---
	e := echo.New()

	// 1. Capture log output
	// We temporarily redirect slog's output to a buffer to inspect it.
	var logBuffer bytes.Buffer
	// Create a new logger that writes to our buffer
	handler := slog.NewTextHandler(&logBuffer, &slog.HandlerOptions{
		AddSource: true,
	})
	logger := slog.New(handler)
	// Store the original default logger and defer its restoration
	originalLogger := slog.Default()
	slog.SetDefault(logger)
	defer slog.SetDefault(originalLogger)

	// 2. Set up the error handler we want to test
	setupErrorHandling(e)

	// 3. Define a route that will always produce an unhandled error
	e.GET("/test-unhandled-error", func(c echo.Context) error {
		// This is the kind of error that should trigger our stack trace logging.
		return errors.New("a deliberate unhandled error occurred")
	})

	// --- Act ---
	req := httptest.NewRequest(http.MethodGet, "/test-unhandled-error", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	// --- Assert ---
	// First, check that the HTTP response is correct (a 500 error)
	require.Equal(t, http.StatusInternalServerError, rec.Code, "Expected a 500 Internal Server Error response")

	// Now, check the captured log output
	logOutput := logBuffer.String()

	// Assert that the log contains the key pieces of information
	assert.Contains(t, logOutput, "Internal Server Error (Unhandled)", "Log message should indicate an unhandled error")
	assert.Contains(t, logOutput, "error=\"a deliberate unhandled error occurred\"", "Log should contain the original error message")
	assert.Contains(t, logOutput, "stack_trace=", "Log must contain the stack_trace field")

	// A good stack trace will contain the path to the Go runtime and this test file.
	// This is a strong indicator that a real stack trace was captured.
	assert.Contains(t, logOutput, "runtime/debug/stack.go", "Stack trace should originate from the debug package")
	assert.Contains(t, logOutput, "internal/server/server_test.go", "Stack trace should point back to this test file")
}

func newTestServer(t *testing.T, uiEnabled bool) *Server {
	t.Helper()
	cfg := testutils.ConfigForTests(t, map[string]string{"UI_ENABLED": strconv.FormatBool(uiEnabled)})

	s := New(cfg)
	require.NoError(t, s.RegisterRoutes(context.Background()))
	t.Cleanup(func() { s.injector.Shutdown() })
	return s
}

func TestServer_Health(t *testing.T) {
	s := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "OK", rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestServer_GraphQLEndToEnd(t *testing.T) {
	s := newTestServer(t, false)

	post := func(query string) string {
		body, err := json.Marshal(map[string]string{"query": query})
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodPost, "/graphql", bytes.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		s.E.ServeHTTP(rec, req)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}

	assert.JSONEq(t, `{"data":{"sendMessage":{"id":1,"author":"Alice","text":"hi"}}}`,
		post(`mutation { sendMessage(author: "Alice", text: "hi") { id author text } }`))
	assert.JSONEq(t, `{"data":{"sendMessage":{"id":2,"author":"Bob","text":"yo"}}}`,
		post(`mutation { sendMessage(author: "Bob", text: "yo") { id author text } }`))
	assert.JSONEq(t, `{"data":{"allMessages":[{"id":1,"author":"Alice","text":"hi"},{"id":2,"author":"Bob","text":"yo"}]}}`,
		post(`{ allMessages { id author text } }`))
}

func TestServer_UIToggle(t *testing.T) {
	testCases := []struct {
		name      string
		uiEnabled bool
		want      int
	}{
		{name: "enabled", uiEnabled: true, want: http.StatusOK},
		{name: "disabled", uiEnabled: false, want: http.StatusNotFound},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestServer(t, tc.uiEnabled)

			rec := httptest.NewRecorder()
			s.E.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

func TestHTTPErrorHandler_PassesThroughHTTPErrors(t *testing.T) {
	e := echo.New()
	setupErrorHandling(e)
	e.GET("/bad", func(c echo.Context) error {
		return echo.NewHTTPError(http.StatusBadRequest, "nope")
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/bad", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "nope")
}
