package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLimitedEcho(perSecond float64) *echo.Echo {
	e := echo.New()
	e.POST("/messages", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	}, RateLimiter(perSecond))
	return e
}

func hit(e *echo.Echo, remoteAddr string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/messages", nil)
	req.RemoteAddr = remoteAddr
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRateLimiter_BurstMatchesRate(t *testing.T) {
	for _, perSecond := range []float64{1, 3, 10} {
		t.Run(fmt.Sprintf("%v per second", perSecond), func(t *testing.T) {
			e := newLimitedEcho(perSecond)

			for i := 0; i < int(perSecond); i++ {
				require.Equal(t, http.StatusOK, hit(e, "192.0.2.10:1234").Code, "request %d should be allowed", i+1)
			}

			rec := hit(e, "192.0.2.10:1234")
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
			assert.Contains(t, rec.Body.String(), "Too many requests")
		})
	}
}

func TestRateLimiter_ClientsAreIndependent(t *testing.T) {
	e := newLimitedEcho(1)

	require.Equal(t, http.StatusOK, hit(e, "192.0.2.20:1234").Code)
	require.Equal(t, http.StatusTooManyRequests, hit(e, "192.0.2.20:1234").Code)

	assert.Equal(t, http.StatusOK, hit(e, "192.0.2.21:1234").Code)
}

func TestRateLimiter_RefillsOverTime(t *testing.T) {
	e := newLimitedEcho(20)
	const client = "192.0.2.30:1234"

	for i := 0; i < 20; i++ {
		require.Equal(t, http.StatusOK, hit(e, client).Code)
	}
	require.Equal(t, http.StatusTooManyRequests, hit(e, client).Code)

	// One token comes back every 50ms at 20 per second.
	time.Sleep(150 * time.Millisecond)
	assert.Equal(t, http.StatusOK, hit(e, client).Code)
}
