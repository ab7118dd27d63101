package logger

import (
	"context"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strings"
	"time"
)

var Logger *slog.Logger

// Formats accepted by Setup.
const (
	FormatJSON    = "json"
	FormatConsole = "console"
)

// Init initializes the logger to output to console (stdout) with JSON format
func Init() {
	Setup(os.Stdout, FormatJSON, "info")
}

// Setup replaces the global logger. Unknown levels fall back to info, unknown
// formats to JSON.
func Setup(out io.Writer, format, level string) {
	lvl := ParseLevel(level)

	var handler slog.Handler
	switch strings.ToLower(format) {
	case FormatConsole:
		handler = NewConsoleHandler(out, lvl)
	default:
		handler = slog.NewJSONHandler(out, &slog.HandlerOptions{
			Level:     lvl,
			AddSource: true, // Include file and line number in logs
		})
	}

	Logger = slog.New(handler)
}

// ParseLevel maps debug/info/warn/error to a slog level.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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

// LogError logs an error with a message and optional key-value pairs
func LogError(msg string, err error, args ...any) {
	if Logger == nil {
		Init() // Auto-initialize if not done
	}

	attrs := []any{"error", err}
	attrs = append(attrs, args...)
	emit(slog.LevelError, msg, attrs...)
}

// LogErrorWithContext logs an error with additional context as a map
func LogErrorWithContext(msg string, err error, context map[string]any) {
	if Logger == nil {
		Init()
	}

	attrs := []any{"error", err}
	for k, v := range context {
		attrs = append(attrs, k, v)
	}
	emit(slog.LevelError, msg, attrs...)
}

// LogInfo logs an informational message with optional key-value pairs
func LogInfo(msg string, args ...any) {
	if Logger == nil {
		Init()
	}
	emit(slog.LevelInfo, msg, args...)
}

// LogWarn logs a warning message with optional key-value pairs
func LogWarn(msg string, args ...any) {
	if Logger == nil {
		Init()
	}
	emit(slog.LevelWarn, msg, args...)
}

// LogDebug logs a debug message with optional key-value pairs
func LogDebug(msg string, args ...any) {
	if Logger == nil {
		Init()
	}
	emit(slog.LevelDebug, msg, args...)
}

// emit must be called directly from one of the Log helpers: the source
// attached to the record is the helper's caller.
func emit(level slog.Level, msg string, args ...any) {
	ctx := context.Background()
	if !Logger.Enabled(ctx, level) {
		return
	}

	var pcs [1]uintptr
	runtime.Callers(3, pcs[:]) // skip Callers, emit and the helper
	r := slog.NewRecord(time.Now(), level, msg, pcs[0])
	r.Add(args...)
	_ = Logger.Handler().Handle(ctx, r)
}
