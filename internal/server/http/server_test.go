package http

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	echo "github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/Additional-Code/tableside/internal/config"
	"github.com/Additional-Code/tableside/pkg/errorbank"
)

func newTestEcho(limit config.RateLimit) *echo.Echo {
	e := NewEcho(config.Config{RateLimit: limit}, nil, zap.NewNop())
	e.GET("/boom", func(echo.Context) error { return errors.New("db exploded") })
	e.GET("/locked", func(echo.Context) error { return errorbank.OrderLocked("order is locked") })
	e.GET("/ping", func(c echo.Context) error { return c.NoContent(http.StatusNoContent) })
	return e
}

func serve(e *echo.Echo, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = "10.0.0.1:1234"
	e.ServeHTTP(rec, req)
	return rec
}

func TestHealthAndRequestID(t *testing.T) {
	e := newTestEcho(config.RateLimit{})

	rec := serve(e, "/health")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
}

func TestErrorHandlerMapsAppErrors(t *testing.T) {
	e := newTestEcho(config.RateLimit{})

	rec := serve(e, "/locked")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "order_locked")

	rec = serve(e, "/boom")
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "exploded")

	rec = serve(e, "/nowhere")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRateLimiterRejectsBurstOverflow(t *testing.T) {
	e := newTestEcho(config.RateLimit{Enabled: true, RequestsPerSecond: 0.001, Burst: 2})

	assert.Equal(t, http.StatusNoContent, serve(e, "/ping").Code)
	assert.Equal(t, http.StatusNoContent, serve(e, "/ping").Code)

	rec := serve(e, "/ping")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Body.String(), "rate_limited")

	assert.Equal(t, http.StatusOK, serve(e, "/health").Code)
}
