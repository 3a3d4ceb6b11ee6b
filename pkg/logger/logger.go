// Package logger provides a structured, levelled logger built on log/slog.
//
// Log lines go to stderr so command output on stdout stays clean and pipeable:
//
//	logger.Info("cart synced", "items", 3)
//	// → time=... level=INFO msg="cart synced" items=3
package logger

import (
	"log/slog"
	"os"

	"github.com/shashiranjanraj/bazario/config"
)

var L *slog.Logger

func init() {
	var handler slog.Handler

	switch config.AppEnv() {
	case "production", "prod":
		opts := &slog.HandlerOptions{Level: slog.LevelInfo}
		handler = slog.NewJSONHandler(os.Stderr, opts) // structured JSON for log aggregators
	default:
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		handler = slog.NewTextHandler(os.Stderr, opts) // human-readable for dev
	}

	L = slog.New(handler)
	slog.SetDefault(L)
}

// Debug logs at DEBUG level.
func Debug(msg string, args ...any) { L.Debug(msg, args...) }

// Info logs at INFO level.
func Info(msg string, args ...any) { L.Info(msg, args...) }

// Warn logs at WARN level.
func Warn(msg string, args ...any) { L.Warn(msg, args...) }

// Error logs at ERROR level.
func Error(msg string, args ...any) { L.Error(msg, args...) }
