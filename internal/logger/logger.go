package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogLevel represents the logging level
type LogLevel string

const (
	DebugLevel LogLevel = "debug"
	InfoLevel  LogLevel = "info"
	WarnLevel  LogLevel = "warn"
	ErrorLevel LogLevel = "error"
)

type ctxKey struct{}

// Logger wraps slog.Logger for structured logging
type Logger struct {
	*slog.Logger
}

var (
	mu           sync.RWMutex
	globalLogger *Logger
)

// New builds a logger writing to w in the given format ("text" or "json").
func New(level LogLevel, format string, w io.Writer) *Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	switch strings.ToLower(format) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}

	return &Logger{Logger: slog.New(handler)}
}

// Init initializes the global logger
func Init(level LogLevel, format string) *Logger {
	l := New(level, format, os.Stdout)

	mu.Lock()
	globalLogger = l
	mu.Unlock()

	slog.SetDefault(l.Logger)
	return l
}

// Get returns the global logger instance
func Get() *Logger {
	mu.RLock()
	l := globalLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	return New(InfoLevel, "text", os.Stdout)
}

// Discard returns a logger that drops every record. Used by tests.
func Discard() *Logger {
	return New(ErrorLevel, "text", io.Discard)
}

// With returns a new logger with additional attributes
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithRequestID stores a request id in ctx for WithContext to pick up.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxKey{}, requestID)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// WithContext returns a new logger with context attributes
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID := RequestID(ctx); requestID != "" {
		return l.With("request_id", requestID)
	}
	return l
}

// ErrorWithErr logs an error message with an error object
func (l *Logger) ErrorWithErr(msg string, err error, args ...any) {
	args = append(args, slog.Any("error", err))
	l.Logger.Error(msg, args...)
}

// IsValidLevel reports whether level names a known log level.
func IsValidLevel(level string) bool {
	switch LogLevel(strings.ToLower(level)) {
	case DebugLevel, InfoLevel, WarnLevel, ErrorLevel:
		return true
	}
	return false
}

func parseLevel(level LogLevel) slog.Level {
	switch LogLevel(strings.ToLower(string(level))) {
	case DebugLevel:
		return slog.LevelDebug
	case WarnLevel:
		return slog.LevelWarn
	case ErrorLevel:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
