// Package logging wraps the std lib's structured logger, providing level
// selection and an interface that services can depend upon.
package logging

import (
	"io"
	"log/slog"
	"os"
	"slices"

	"golang.org/x/exp/maps"
)

const DefaultLevel = "info"

var levels = map[string]slog.Level{
	"debug":      slog.LevelDebug,
	DefaultLevel: slog.LevelInfo,
	"warn":       slog.LevelWarn,
	"error":      slog.LevelError,
}

// ValidLevels returns valid strings for choosing a log level. Returns the
// default log level first.
func ValidLevels() []string {
	keys := maps.Keys(levels)
	slices.SortFunc(keys, func(a, b string) int {
		if a == DefaultLevel {
			return -1
		}
		if b == DefaultLevel {
			return 1
		}
		// Sort remaining in alphabetical order.
		if a < b {
			return -1
		}
		return 1
	})
	return keys
}

// Interface provides logging.
type Interface interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type Options struct {
	// The log level of the logger.
	Level string
	// Any additional writers the log handler should write to, e.g. a log
	// file.
	AdditionalWriters []io.Writer
}

// Logger is a slog wrapper satisfying Interface.
type Logger struct {
	logger *slog.Logger
}

// NewLogger constructs a logger writing human-readable records to stderr and
// any additional writers.
func NewLogger(opts Options) *Logger {
	writers := append([]io.Writer{os.Stderr}, opts.AdditionalWriters...)
	handler := slog.NewTextHandler(
		io.MultiWriter(writers...),
		&slog.HandlerOptions{
			Level: levels[opts.Level],
		},
	)
	return &Logger{logger: slog.New(handler)}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
