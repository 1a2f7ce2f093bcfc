package middleware

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewLoggerAddsContextValues(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger("production", &buf)

	ctx := context.WithValue(context.Background(), RequestIDKey, "req-1")
	ctx = context.WithValue(ctx, UserIDKey, uint(9))
	logger.With("component", "test").InfoContext(ctx, "hello")

	out := buf.String()
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"user_id":9`)
	assert.Contains(t, out, `"component":"test"`)
}

func TestContextAndTracingMiddleware(t *testing.T) {
	var seenRequestID, seenTraceID string

	app := fiber.New()
	app.Use(requestid.New())
	app.Use(TracingMiddleware())
	app.Use(ContextMiddleware())
	app.Get("/x", func(c *fiber.Ctx) error {
		seenRequestID, _ = c.UserContext().Value(RequestIDKey).(string)
		seenTraceID, _ = c.UserContext().Value(TraceIDKey).(string)
		return c.SendStatus(fiber.StatusNoContent)
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/x", nil))
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.NotEmpty(t, seenRequestID)
	assert.Equal(t, resp.Header.Get("X-Trace-ID"), seenTraceID)
}

func TestInitMetricsIsShared(t *testing.T) {
	a := InitMetrics("alumnet-test")
	b := InitMetrics("alumnet-test")
	assert.Same(t, a, b)
}
