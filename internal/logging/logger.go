// Package logging configures log/slog for the editor binaries.
//
// Loggers taken from a request context carry the chi request id and, once
// the session middleware has run, the editor session id, so every entry
// for one request and one sheet can be correlated.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/JonMunkholm/sheetedit/internal/core"
)

// Setup installs the default logger, writing to stdout.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	SetupWriter(os.Stdout, level, format)
}

// SetupWriter is Setup with an explicit destination. The terminal editor
// owns stdout, so cmd/sheet passes a log file or io.Discard.
func SetupWriter(w io.Writer, level, format string) {
	slog.SetDefault(slog.New(NewHandler(w, level, format)))
}

// NewHandler builds a text or JSON handler at the given level.
func NewHandler(w io.Writer, level, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if strings.EqualFold(format, "json") {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
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

// FromContext returns the default logger with request_id and session_id
// attached when ctx carries them.
//
//	logger := logging.FromContext(r.Context())
//	logger.Info("rows deleted", "count", n)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if id := core.SessionIDFromContext(ctx); id != "" {
		logger = logger.With("session_id", id)
	}
	return logger
}

// WithFields returns FromContext(ctx) with extra fields, for loggers that
// follow one operation across several steps:
//
//	logger := logging.WithFields(ctx, "file", name)
//	logger.Info("import started")
//	logger.Info("import finished", "rows", view.Total)
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
