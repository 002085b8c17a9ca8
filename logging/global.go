// Package logging provides the gateway's structured logging: a process-wide
// slog logger writing to console and weekly rotating files, plus an HTTP
// request-logging middleware.
package logging

import (
	"log/slog"
	"os"
)

// Service wraps the configured slog logger.
type Service struct {
	Logger *slog.Logger
}

// Default is the process-wide logging service set up by Init.
var Default *Service

// Init initializes the global logger writing to logDir.
func Init(logDir string, retentionWeeks int, maxFileSize int64) {
	Default = &Service{Logger: Setup(logDir, retentionWeeks, maxFileSize)}
	slog.SetDefault(Default.Logger)
}

func active() *slog.Logger {
	if Default != nil && Default.Logger != nil {
		return Default.Logger
	}
	// Not initialized yet (early startup, tests): log to stderr.
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func Info(msg string, args ...any)  { active().Info(msg, args...) }
func Warn(msg string, args ...any)  { active().Warn(msg, args...) }
func Error(msg string, args ...any) { active().Error(msg, args...) }
func Debug(msg string, args ...any) { active().Debug(msg, args...) }
