package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
)

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var logEntry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &logEntry); err != nil {
		t.Fatalf("Failed to parse JSON log output: %v (%q)", err, buf.String())
	}
	return logEntry
}

func TestTraceContextHandler_Handle_WithValidSpan(t *testing.T) {
	exporter := tracetest.NewInMemoryExporter()
	provider := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	defer func() { _ = provider.Shutdown(context.Background()) }()

	var buf bytes.Buffer
	logger := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	ctx, span := provider.Tracer("test").Start(context.Background(), "test-span")
	defer span.End()

	logger.InfoContext(ctx, "cache hit")

	logEntry := decodeLine(t, &buf)
	if logEntry["trace_id"] != span.SpanContext().TraceID().String() {
		t.Errorf("trace_id = %v, want %s", logEntry["trace_id"], span.SpanContext().TraceID())
	}
	if logEntry["span_id"] != span.SpanContext().SpanID().String() {
		t.Errorf("span_id = %v, want %s", logEntry["span_id"], span.SpanContext().SpanID())
	}
}

func TestTraceContextHandler_Handle_WithoutSpan(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(NewTraceContextHandler(slog.NewJSONHandler(&buf, nil)))

	logger.Info("no span")

	logEntry := decodeLine(t, &buf)
	if _, ok := logEntry["trace_id"]; ok {
		t.Error("trace_id must be absent without a span")
	}
}

func TestNewLogger_Levels(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "warn", "json")

	logger.Info("dropped")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}

	logger.Warn("kept")
	if decodeLine(t, &buf)["msg"] != "kept" {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestNewLogger_TextFormat(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, "debug", "text")

	logger.Debug("sweep finished", "removed", 3)

	out := buf.String()
	if !strings.Contains(out, "sweep finished") || !strings.Contains(out, "removed") {
		t.Errorf("text output missing fields: %q", out)
	}
	if json.Valid(buf.Bytes()) {
		t.Error("text format should not produce JSON")
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
	}
	for in, want := range tests {
		if got := parseLevel(in); got != want {
			t.Errorf("parseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestContextLogger_WithContext(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	ctx := WithRequestID(context.Background(), "req-123")
	ctx = WithChecksum(ctx, "abcd")
	ctx = WithOperation(ctx, "GetImage")

	cl.WithContext(ctx).Info("hit")

	logEntry := decodeLine(t, &buf)
	if logEntry["request_id"] != "req-123" {
		t.Errorf("request_id = %v", logEntry["request_id"])
	}
	if logEntry["checksum"] != "abcd" {
		t.Errorf("checksum = %v", logEntry["checksum"])
	}
	if logEntry["operation"] != "GetImage" {
		t.Errorf("operation = %v", logEntry["operation"])
	}
}

func TestContextLogger_EmptyContext(t *testing.T) {
	var buf bytes.Buffer
	cl := NewContextLogger(slog.New(slog.NewJSONHandler(&buf, nil)))

	cl.WithContext(context.Background()).Info("plain")

	logEntry := decodeLine(t, &buf)
	if _, ok := logEntry["request_id"]; ok {
		t.Error("request_id must be absent")
	}
}
