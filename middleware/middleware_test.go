package middleware

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/robmiller/expurgate/utils/logger"
)

func TestRequestIDMiddleware_GeneratesID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var seen string
	handler := RequestIDMiddleware()(func(c echo.Context) error {
		seen, _ = c.Request().Context().Value(logger.RequestIDKey).(string)
		return c.NoContent(http.StatusOK)
	})

	require.NoError(t, handler(c))
	assert.NotEmpty(t, seen)
	assert.Len(t, seen, 36)
	assert.Equal(t, seen, rec.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddleware_PropagatesCallerID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := RequestIDMiddleware()(func(c echo.Context) error {
		assert.Equal(t, "req-123", c.Request().Context().Value(logger.RequestIDKey))
		return nil
	})

	require.NoError(t, handler(c))
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))
}

func TestRequestIDMiddleware_ReplacesOversizedID(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(RequestIDHeader, strings.Repeat("x", 500))
	rec := httptest.NewRecorder()

	require.NoError(t, RequestIDMiddleware()(func(c echo.Context) error { return nil })(e.NewContext(req, rec)))
	assert.Len(t, rec.Header().Get(RequestIDHeader), 36)
}

func TestLoggingMiddleware(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(&buf, "debug", "json")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/?url=http%3A%2F%2Fexample.com%2Fa.png&checksum=abc", nil)
	req = req.WithContext(logger.WithRequestID(context.Background(), "req-1"))
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := LoggingMiddleware(log)(func(c echo.Context) error {
		return c.String(http.StatusNotFound, "not found")
	})
	require.NoError(t, handler(c))

	out := buf.String()
	assert.Contains(t, out, `"msg":"request completed"`)
	assert.Contains(t, out, `"status":404`)
	assert.Contains(t, out, `"request_id":"req-1"`)
	assert.Contains(t, out, `"level":"WARN"`)
	assert.NotContains(t, out, "checksum=abc")
}

func TestLoggingMiddleware_SkipsHealth(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewLogger(&buf, "debug", "json")

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/health", nil)
	rec := httptest.NewRecorder()

	handler := LoggingMiddleware(log)(func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	require.NoError(t, handler(e.NewContext(req, rec)))
	assert.Empty(t, buf.String())
}

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()
	spanRecorder := tracetest.NewSpanRecorder()
	original := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spanRecorder)))
	t.Cleanup(func() { otel.SetTracerProvider(original) })
	return spanRecorder
}

func TestOTelStatusMiddleware(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		handlerErr error
		wantCode   codes.Code
	}{
		{name: "ok", status: http.StatusOK, wantCode: codes.Unset},
		{name: "not found", status: http.StatusNotFound, wantCode: codes.Unset},
		{name: "server error", status: http.StatusInternalServerError, handlerErr: errors.New("boom"), wantCode: codes.Error},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spanRecorder := setupTestTracer(t)

			e := echo.New()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			ctx, span := otel.Tracer("test").Start(req.Context(), "test-span")
			c.SetRequest(req.WithContext(ctx))

			handler := OTelStatusMiddleware()(func(c echo.Context) error {
				_ = c.NoContent(tt.status)
				return tt.handlerErr
			})
			err := handler(c)
			assert.Equal(t, tt.handlerErr, err)
			span.End()

			spans := spanRecorder.Ended()
			require.Len(t, spans, 1)
			assert.Equal(t, tt.wantCode, spans[0].Status().Code)

			var found bool
			for _, attr := range spans[0].Attributes() {
				if string(attr.Key) == "http.response.status_code" {
					found = true
					assert.Equal(t, int64(tt.status), attr.Value.AsInt64())
				}
			}
			assert.True(t, found)
		})
	}
}
