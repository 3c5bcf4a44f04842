package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

var defaultLogger *slog.Logger

func init() {
	// JSON to stdout until Configure is called from main
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})
	defaultLogger = slog.New(handler)
}

// Configure replaces the default logger with one writing to out at the given
// level ("debug", "info", "warn", "error") in the given format ("json" or "text").
func Configure(out io.Writer, level, format string) error {
	lvl, err := ParseLevel(level)
	if err != nil {
		return err
	}
	if out == nil {
		out = os.Stdout
	}

	opts := &slog.HandlerOptions{Level: lvl}
	var handler slog.Handler
	switch strings.ToLower(format) {
	case "", "json":
		handler = slog.NewJSONHandler(out, opts)
	case "text":
		handler = slog.NewTextHandler(out, opts)
	default:
		return fmt.Errorf("unknown log format %q", format)
	}

	defaultLogger = slog.New(handler)
	return nil
}

// ParseLevel maps a level name to a slog.Level.
func ParseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

// SetLogger allows setting a custom logger (useful for testing)
func SetLogger(logger *slog.Logger) {
	defaultLogger = logger
}

// GetLogger returns the default logger
func GetLogger() *slog.Logger {
	return defaultLogger
}

// Default returns the default logger (alias for GetLogger)
func Default() *slog.Logger {
	return defaultLogger
}

// Info logs an info message with optional attributes
func Info(msg string, args ...any) {
	defaultLogger.Info(msg, args...)
}

// Error logs an error message with optional attributes
func Error(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
}

// Warn logs a warning message with optional attributes
func Warn(msg string, args ...any) {
	defaultLogger.Warn(msg, args...)
}

// Debug logs a debug message with optional attributes
func Debug(msg string, args ...any) {
	defaultLogger.Debug(msg, args...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...any) {
	defaultLogger.Error(msg, args...)
	os.Exit(1)
}

// WithRequestID adds request_id to logger context
func WithRequestID(requestID string) *slog.Logger {
	return defaultLogger.With(slog.String("request_id", requestID))
}

// WithEntity adds the content entity kind ("post", "tag", ...) to logger context
func WithEntity(entity string) *slog.Logger {
	return defaultLogger.With(slog.String("entity", entity))
}
