// Package logger configures the slog loggers used by the server, the CLI and the test harness.
//
// dev and test environments get human readable, coloured output (tint).
// prod and staging get JSON lines suitable for log collectors.
//
// Request handlers should use ContextRequestLogger to get a logger that carries the request id,
// and ContextWithLogAttrs to add attributes to the single log line written when the request completes
// (see RequestLogging).
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// LevelNone is above every level used by the app, so nothing is logged.
const LevelNone = slog.Level(12)

// ParseLogLevel converts a level name to a slog.Level.
//
// Accepts debug, info, warn (or warning), error and none, the slog text form (e.g. "ERROR+4")
// and numeric levels. Unknown values default to debug.
func ParseLogLevel(level string) slog.Level {
	l, err := parseLevel(level)
	if err != nil {
		return slog.LevelDebug
	}
	return l
}

// ValidLogLevel reports whether level can be parsed by ParseLogLevel without falling back to the default.
func ValidLogLevel(level string) bool {
	_, err := parseLevel(level)
	return err == nil
}

func parseLevel(raw string) (slog.Level, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return slog.LevelDebug, nil
	}
	switch strings.ToLower(value) {
	case "none", "off":
		return LevelNone, nil
	case "warning":
		value = "warn"
	}

	if numeric, err := strconv.Atoi(value); err == nil {
		return slog.Level(numeric), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(value)); err != nil {
		return slog.LevelDebug, fmt.Errorf("invalid log level %q", raw)
	}
	return level, nil
}

// InitLogger creates the application logger and installs it as the slog default.
func InitLogger(level slog.Level, environment string) *slog.Logger {
	l := NewLogger(os.Stderr, level, environment)
	slog.SetDefault(l)
	return l
}

// NewLogger creates a logger writing to w without changing the slog default.
func NewLogger(w io.Writer, level slog.Level, environment string) *slog.Logger {
	var handler slog.Handler

	switch environment {
	case "prod", "staging":
		handler = slog.NewJSONHandler(w, &slog.HandlerOptions{
			Level: level,
		})
	default:
		handler = tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			NoColor:    environment == "test",
		})
	}

	return slog.New(handler)
}

type contextKey int

const (
	requestLoggerKey contextKey = iota
	logAttrsKey
)

// logAttrs collects attributes added by handlers for the final request log line.
type logAttrs struct {
	attrs []slog.Attr
}

// ContextWithRequestLogger returns a copy of ctx carrying the request logger.
func ContextWithRequestLogger(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, requestLoggerKey, l)
}

// ContextRequestLogger returns the request scoped logger, or the default logger when
// the context was not created by the RequestLogging middleware.
func ContextRequestLogger(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(requestLoggerKey).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// ContextWithLogAttrs adds attributes to the log line written at the end of the request.
// It is a no-op when ctx does not come from the RequestLogging middleware.
func ContextWithLogAttrs(ctx context.Context, attrs ...slog.Attr) {
	if la, ok := ctx.Value(logAttrsKey).(*logAttrs); ok {
		la.attrs = append(la.attrs, attrs...)
	}
}

func contextWithLogAttrStore(ctx context.Context) (context.Context, *logAttrs) {
	la := &logAttrs{}
	return context.WithValue(ctx, logAttrsKey, la), la
}
