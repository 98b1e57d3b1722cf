package logging

import (
	"log/slog"
	"os"
	"strings"
)

// Logger is a small structured logging facade so application services do not
// bind to a concrete handler. It is backed by log/slog.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	With(args ...any) Logger
}

// Config controls handler selection and verbosity
type Config struct {
	Level  string // debug, info, warn, error
	Format string // text or json
}

// New constructs a Logger writing to stdout with the provided config
func New(cfg Config) Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(cfg.Level)}

	var handler slog.Handler
	if strings.EqualFold(cfg.Format, "json") {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	return &slogger{l: slog.New(handler)}
}

// Noop returns a logger that drops everything
func Noop() Logger { return noop{} }

type slogger struct {
	l *slog.Logger
}

func (s *slogger) Debug(msg string, args ...any) { s.l.Debug(msg, args...) }
func (s *slogger) Info(msg string, args ...any)  { s.l.Info(msg, args...) }
func (s *slogger) Warn(msg string, args ...any)  { s.l.Warn(msg, args...) }
func (s *slogger) Error(msg string, args ...any) { s.l.Error(msg, args...) }
func (s *slogger) With(args ...any) Logger       { return &slogger{l: s.l.With(args...)} }

type noop struct{}

func (noop) Debug(string, ...any) {}
func (noop) Info(string, ...any)  {}
func (noop) Warn(string, ...any)  {}
func (noop) Error(string, ...any) {}
func (noop) With(...any) Logger   { return noop{} }

func parseLevel(level string) slog.Leveler {
	switch strings.ToLower(level) {
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
