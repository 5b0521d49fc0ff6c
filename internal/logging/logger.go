// Package logging provides structured logging configuration using log/slog.
//
// Two identifiers are picked up from the context: chi's request id for calls
// made through the ops HTTP server, and the submission id of the message
// being validated. Either, both or neither may be present.
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/go-chi/chi/v5/middleware"
)

// Setup configures the global slog logger based on level and format.
//
// Level values: "debug", "info", "warn", "error" (default: "info")
// Format values: "text", "json" (default: "text")
func Setup(level, format string) {
	slog.SetDefault(New(os.Stdout, level, format))
}

// New builds a logger writing to w. Setup uses it for stdout; tests use it
// with a buffer.
func New(w io.Writer, level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level: parseLevel(level),
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}

// parseLevel converts a string log level to slog.Level.
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

type contextKey string

const ctxKeySubmissionID contextKey = "submission_id"

// WithSubmissionID returns a context whose loggers carry submission_id.
func WithSubmissionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKeySubmissionID, id)
}

// SubmissionID returns the submission id stored by WithSubmissionID, or "".
func SubmissionID(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeySubmissionID).(string); ok {
		return v
	}
	return ""
}

// FromContext returns the default logger enriched with request_id and
// submission_id when the context carries them.
//
// Usage:
//
//	logger := logging.FromContext(ctx)
//	logger.Info("validation finished", "errors", n)
func FromContext(ctx context.Context) *slog.Logger {
	logger := slog.Default()

	// Chi's RequestID middleware stores the ID in context
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		logger = logger.With("request_id", reqID)
	}
	if subID := SubmissionID(ctx); subID != "" {
		logger = logger.With("submission_id", subID)
	}

	return logger
}

// WithFields returns a logger with additional structured fields.
//
// Usage:
//
//	runLogger := logging.WithFields(ctx,
//	    "row_type", rowType,
//	    "rows", len(rows),
//	)
//	runLogger.Info("validation started")
func WithFields(ctx context.Context, args ...any) *slog.Logger {
	return FromContext(ctx).With(args...)
}
