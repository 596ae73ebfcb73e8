// Package logging wraps charmbracelet/log behind a narrow interface so
// every engine package logs through a context-carried logger instead
// of talking to a concrete implementation directly.
package logging

import (
	"context"
	"io"
	"os"
	"testing"

	charmlog "github.com/charmbracelet/log"
)

// LogLevel is a string log-level name, the form config files and
// environment variables supply.
type LogLevel string

const (
	DebugLevel    LogLevel = "debug"
	InfoLevel     LogLevel = "info"
	WarnLevel     LogLevel = "warn"
	ErrorLevel    LogLevel = "error"
	DisabledLevel LogLevel = "disabled"
)

// ToCharmlogLevel converts to the underlying library's level type,
// defaulting unrecognised values to InfoLevel.
func (l LogLevel) ToCharmlogLevel() charmlog.Level {
	switch l {
	case DebugLevel:
		return charmlog.DebugLevel
	case WarnLevel:
		return charmlog.WarnLevel
	case ErrorLevel:
		return charmlog.ErrorLevel
	case DisabledLevel:
		return charmlog.Level(1000)
	default:
		return charmlog.InfoLevel
	}
}

// ParseLevel converts a config-supplied level name to a LogLevel,
// defaulting unrecognised names to InfoLevel.
func ParseLevel(name string) LogLevel {
	switch LogLevel(name) {
	case DebugLevel, WarnLevel, ErrorLevel, DisabledLevel:
		return LogLevel(name)
	default:
		return InfoLevel
	}
}

// Logger is the surface every engine package logs through.
type Logger interface {
	Debug(msg string, kv ...any)
	Info(msg string, kv ...any)
	Warn(msg string, kv ...any)
	Error(msg string, kv ...any)
	With(kv ...any) Logger
}

// Config controls NewLogger's output.
type Config struct {
	Level      LogLevel
	Output     io.Writer
	JSON       bool
	AddSource  bool
	TimeFormat string
}

// DefaultConfig is the production default: info level, plain text, to
// stdout.
func DefaultConfig() *Config {
	return &Config{
		Level:      InfoLevel,
		Output:     os.Stdout,
		JSON:       false,
		AddSource:  false,
		TimeFormat: "15:04:05",
	}
}

// TestConfig silences output, for use in package tests that construct
// a Logger but don't want it writing anywhere.
func TestConfig() *Config {
	return &Config{
		Level:      DisabledLevel,
		Output:     io.Discard,
		JSON:       false,
		AddSource:  false,
		TimeFormat: "15:04:05",
	}
}

// IsTestEnvironment reports whether the current binary is a `go test`
// run, used by NewLogger to pick a quiet default when none is supplied.
func IsTestEnvironment() bool {
	return testing.Testing()
}

type charmLogger struct {
	l *charmlog.Logger
}

func (c *charmLogger) Debug(msg string, kv ...any) { c.l.Debug(msg, kv...) }
func (c *charmLogger) Info(msg string, kv ...any)  { c.l.Info(msg, kv...) }
func (c *charmLogger) Warn(msg string, kv ...any)  { c.l.Warn(msg, kv...) }
func (c *charmLogger) Error(msg string, kv ...any) { c.l.Error(msg, kv...) }
func (c *charmLogger) With(kv ...any) Logger {
	return &charmLogger{l: c.l.With(kv...)}
}

// NewLogger builds a Logger from cfg. A nil cfg picks DefaultConfig,
// unless called from a test binary, in which case it picks TestConfig
// so package tests stay quiet by default.
func NewLogger(cfg *Config) Logger {
	if cfg == nil {
		if IsTestEnvironment() {
			cfg = TestConfig()
		} else {
			cfg = DefaultConfig()
		}
	}
	opts := charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      cfg.TimeFormat,
		ReportCaller:    cfg.AddSource,
	}
	if cfg.JSON {
		opts.Formatter = charmlog.JSONFormatter
	}
	l := charmlog.NewWithOptions(cfg.Output, opts)
	l.SetLevel(cfg.Level.ToCharmlogLevel())
	return &charmLogger{l: l}
}

type ctxKey struct{}

// LoggerCtxKey is the context key NewLogger results are stored under.
var LoggerCtxKey = ctxKey{}

// ContextWithLogger returns a child context carrying l.
func ContextWithLogger(ctx context.Context, l Logger) context.Context {
	return context.WithValue(ctx, LoggerCtxKey, l)
}

var fallback = NewLogger(DefaultConfig())

// FromContext returns the Logger stashed in ctx by ContextWithLogger,
// or a process-wide default if ctx carries none (or an unusable
// value).
func FromContext(ctx context.Context) Logger {
	if ctx == nil {
		return fallback
	}
	l, ok := ctx.Value(LoggerCtxKey).(Logger)
	if !ok || l == nil {
		return fallback
	}
	return l
}
