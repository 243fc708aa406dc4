// Package logger wraps log/slog for file-based structured logging.
//
// The dashboard owns the terminal once the UI starts, so log output never
// goes to stdout/stderr: it goes to the configured file, or nowhere.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LevelTrace sits below slog.LevelDebug for wire-level noise
// (stream frames, request/response bodies).
const LevelTrace = slog.LevelDebug - 4

var (
	mu            sync.RWMutex
	defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	logFile       *os.File
)

// Setup directs logging to the given file at the given level.
// An empty path or the level "silent" leaves logging disabled.
// Call once at startup, before the UI takes the terminal.
func Setup(path, level string) error {
	if path == "" || strings.EqualFold(level, "silent") {
		return nil
	}

	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	handler := slog.NewJSONHandler(f, &slog.HandlerOptions{
		Level:     lvl,
		AddSource: false,
	})

	mu.Lock()
	if logFile != nil {
		_ = logFile.Close()
	}
	logFile = f
	defaultLogger = slog.New(handler)
	mu.Unlock()
	return nil
}

// ParseLevel maps a config level name to its slog level.
// "silent" is handled by Setup and is not a valid slog level here.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warning", "warn":
		return slog.LevelWarn, nil
	case "error", "":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", level)
	}
}

// Close closes the log file if one is open.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	defaultLogger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	return err
}

// Get returns the active structured logger
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// Trace logs below debug level
func Trace(msg string, args ...any) {
	Get().Log(context.Background(), LevelTrace, msg, args...)
}

// Info logs an info level message
func Info(msg string, args ...any) {
	Get().Info(msg, args...)
}

// InfoContext logs an info level message with context
func InfoContext(ctx context.Context, msg string, args ...any) {
	Get().InfoContext(ctx, msg, args...)
}

// Warn logs a warning level message
func Warn(msg string, args ...any) {
	Get().Warn(msg, args...)
}

// WarnContext logs a warning level message with context
func WarnContext(ctx context.Context, msg string, args ...any) {
	Get().WarnContext(ctx, msg, args...)
}

// Error logs an error level message
func Error(msg string, args ...any) {
	Get().Error(msg, args...)
}

// ErrorContext logs an error level message with context
func ErrorContext(ctx context.Context, msg string, args ...any) {
	Get().ErrorContext(ctx, msg, args...)
}

// Debug logs a debug level message
func Debug(msg string, args ...any) {
	Get().Debug(msg, args...)
}

// DebugContext logs a debug level message with context
func DebugContext(ctx context.Context, msg string, args ...any) {
	Get().DebugContext(ctx, msg, args...)
}

// With returns a logger with the given attributes
func With(args ...any) *slog.Logger {
	return Get().With(args...)
}

// WithGroup returns a logger with the given group name
func WithGroup(name string) *slog.Logger {
	return Get().WithGroup(name)
}
