// Package logging provides the leveled, structured logger used across lvsnap.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Logger is the logging surface the rest of the application depends on.
// args are slog key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// LevelCritical sits one step above error; only criticals pass at this level.
const LevelCritical = slog.LevelError + 4

// levelStep is the slog distance between adjacent named levels.
const levelStep = 4

// Options configures New.
type Options struct {
	Level  string // debug, info, warn, error, critical
	Format string // text, json
	File   string // rotate into this file instead of writing to Writer

	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int

	// Verbose and Quiet shift the level down and up one step per count.
	Verbose int
	Quiet   int

	Writer io.Writer // defaults to os.Stderr
}

// New builds a slog-backed Logger. The returned closer releases the log file
// and is never nil.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	base, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}
	level := Shift(base, opts.Verbose, opts.Quiet)

	var (
		w      io.Writer = opts.Writer
		closer io.Closer = nopCloser{}
	)
	if opts.File != "" {
		lj := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    opts.MaxSizeMB,
			MaxBackups: opts.MaxBackups,
			MaxAge:     opts.MaxAgeDays,
		}
		w, closer = lj, lj
	}
	if w == nil {
		w = os.Stderr
	}

	hopts := &slog.HandlerOptions{
		Level:       level,
		ReplaceAttr: renameCritical,
	}

	var h slog.Handler
	switch strings.ToLower(opts.Format) {
	case "", "text":
		h = slog.NewTextHandler(w, hopts)
	case "json":
		h = slog.NewJSONHandler(w, hopts)
	default:
		_ = closer.Close()
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	return slog.New(h), closer, nil
}

// ParseLevel maps a configured level name to its slog level. Empty means warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	case "critical":
		return LevelCritical, nil
	default:
		return 0, fmt.Errorf("unknown log level %q", s)
	}
}

// Shift moves base one step down per verbose count and one step up per quiet
// count, clamped to [debug, critical].
func Shift(base slog.Level, verbose, quiet int) slog.Level {
	level := base + slog.Level((quiet-verbose)*levelStep)
	return min(max(level, slog.LevelDebug), LevelCritical)
}

// Discard returns a logger that drops everything.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func renameCritical(_ []string, a slog.Attr) slog.Attr {
	if a.Key != slog.LevelKey {
		return a
	}
	if lvl, ok := a.Value.Any().(slog.Level); ok && lvl >= LevelCritical {
		a.Value = slog.StringValue("CRITICAL")
	}
	return a
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
