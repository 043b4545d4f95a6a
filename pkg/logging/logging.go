// Package logging configures colored structured logging with tint.
//
// Usage:
//
//	logging.Setup()                          // INFO level, from LOG_LEVEL env
//	logging.SetupWithLevel(slog.LevelDebug)  // explicit level override
//	closer := logging.SetupWithOptions(logging.Options{Level: "debug", File: "logs/pizzeria.log"})
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lmittmann/tint"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select the level and an optional rotating log file.
type Options struct {
	// Level is one of debug, info, warn, error. Empty means LOG_LEVEL.
	Level string
	// File, when set, receives a copy of every record (rotated at 50 MB).
	File string
	// Component is attached to every record when set.
	Component string
}

// Setup configures colored logging at the level specified by LOG_LEVEL env var
// (default: INFO).
func Setup() {
	SetupWithLevel(levelFromEnv())
}

// SetupWithLevel configures colored logging at the given level.
func SetupWithLevel(level slog.Level) {
	slog.SetDefault(New(os.Stderr, level, false))
}

// SetupWithOptions installs the default logger and returns a closer for the
// log file. Colors are disabled when records also go to a file.
func SetupWithOptions(opts Options) io.Closer {
	level := levelFromEnv()
	if opts.Level != "" {
		level = ParseLevel(opts.Level)
	}

	var (
		w      io.Writer = os.Stderr
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		_ = os.MkdirAll(filepath.Dir(opts.File), 0755)
		rot := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    50, // MB
			MaxBackups: 3,
			MaxAge:     7, // days
		}
		w = io.MultiWriter(os.Stderr, rot)
		closer = rot
	}

	logger := New(w, level, opts.File != "")
	if opts.Component != "" {
		logger = logger.With("component", opts.Component)
	}
	slog.SetDefault(logger)
	return closer
}

// New returns a tint logger writing to w.
func New(w io.Writer, level slog.Level, noColor bool) *slog.Logger {
	return slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
			AddSource:  true,
			NoColor:    noColor,
		}),
	)
}

// ParseLevel maps a level name to a slog level. Unknown names mean INFO.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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

func levelFromEnv() slog.Level {
	return ParseLevel(os.Getenv("LOG_LEVEL"))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
