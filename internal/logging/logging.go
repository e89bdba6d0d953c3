// Package logging builds the [log/slog] logger shared by the aibot CLI and
// HTTP server and moves it through context values. Request handlers and the
// ingestion pipeline never hold a logger field; they call [FromContext], so
// request-scoped attributes like the request ID travel with the context.
//
// Environment variables:
//
//	LOG_LEVEL  = debug | info | warn | error  (default: info)
//	LOG_FORMAT = json | text                  (default: json)
package logging

import (
	"context"
	"log/slog"
	"os"
	"strings"
)

// ctxKey keys the logger in a context. Unexported so only this package can
// store it.
type ctxKey struct{}

// New constructs the process logger from LOG_LEVEL and LOG_FORMAT. The
// default is JSON on stderr; LOG_FORMAT=text is friendlier when running
// `aibot serve` in a terminal.
func New() *slog.Logger {
	opts := &slog.HandlerOptions{Level: level(os.Getenv("LOG_LEVEL"))}

	var handler slog.Handler
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		handler = slog.NewTextHandler(os.Stderr, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// FromContext returns the logger stored in ctx, or [slog.Default] when none
// is present. Callers never need a nil check; `aibot serve` installs the
// configured logger as the process default so both paths agree.
func FromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// level maps a LOG_LEVEL value to a [slog.Level]. Unknown values fall back
// to Info rather than erroring: a typo in LOG_LEVEL should not stop the
// service from starting.
func level(s string) slog.Level {
	switch strings.ToLower(s) {
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
