package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

var Logger *slog.Logger

// InitLogger builds the process logger and installs it as slog's default.
// JSON output carries trace ids; text output is colored for local use.
func InitLogger(level, format string) *slog.Logger {
	Logger = NewLogger(os.Stdout, level, format)
	slog.SetDefault(Logger)

	Logger.Info("Logger initialized", "level", level, "format", format)

	return Logger
}

// NewLogger creates a logger writing to w without touching the global default.
func NewLogger(w io.Writer, level, format string) *slog.Logger {
	logLevel := parseLevel(level)

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "text":
		handler = tint.NewHandler(w, &tint.Options{
			Level:      logLevel,
			TimeFormat: time.TimeOnly,
		})
	default:
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: logLevel,
		})
	}

	return slog.New(NewTraceContextHandler(handler))
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
