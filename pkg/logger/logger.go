// Package logger provides a ctx-first structured logging interface backed by slog.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"
)

// getCaller -> log -> level method -> caller
const callerSkipFrames = 3

// Logger defines the logging interface.
type Logger interface {
	Info(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)
	Debug(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	// Fatal logs at error level and exits the process.
	Fatal(ctx context.Context, msg string, fields ...Field)

	Named(name string) Logger
}

// Field represents a key-value pair for structured logging.
type Field struct {
	Key   string
	Value any
}

func String(key, val string) Field          { return Field{Key: key, Value: val} }
func Int(key string, val int) Field         { return Field{Key: key, Value: val} }
func Float64(key string, val float64) Field { return Field{Key: key, Value: val} }
func Bool(key string, val bool) Field       { return Field{Key: key, Value: val} }
func Any(key string, val any) Field         { return Field{Key: key, Value: val} }
func Error(err error) Field                 { return Field{Key: "error", Value: err} }
func Strings(key string, vals []string) Field {
	return Field{Key: key, Value: vals}
}

// Duration logs d in milliseconds.
func Duration(key string, d time.Duration) Field {
	return Field{Key: key, Value: float64(d.Microseconds()) / 1000}
}

// Keys shared by every build-path log line so records can be joined per member.
func UserID(id string) Field    { return String("user_id", id) }
func RequestID(id string) Field { return String("request_id", id) }
func FieldName(f string) Field  { return String("field", f) }

type slogLogger struct {
	l *slog.Logger
}

func (s *slogLogger) Named(name string) Logger {
	return &slogLogger{l: s.l.WithGroup(name)}
}

func (s *slogLogger) Info(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelInfo, msg, fields)
}

func (s *slogLogger) Error(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
}

func (s *slogLogger) Debug(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelDebug, msg, fields)
}

func (s *slogLogger) Warn(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelWarn, msg, fields)
}

func (s *slogLogger) Fatal(ctx context.Context, msg string, fields ...Field) {
	s.log(ctx, slog.LevelError, msg, fields)
	os.Exit(1)
}

func (s *slogLogger) log(ctx context.Context, level slog.Level, msg string, fields []Field) {
	if ctx == nil {
		ctx = context.Background()
	}
	if !s.l.Enabled(ctx, level) {
		return
	}
	attrs := make([]slog.Attr, 0, len(fields)+1)
	for _, f := range fields {
		attrs = append(attrs, slog.Any(f.Key, f.Value))
	}
	attrs = append(attrs, slog.String("source", getCaller()))
	s.l.LogAttrs(ctx, level, msg, attrs...)
}

var (
	global   Logger
	levelVar slog.LevelVar
)

// Option configures Init.
type Option func(*options)

type options struct {
	format string
	out    io.Writer
}

// WithFormat selects "text" (default) or "json" output.
func WithFormat(format string) Option {
	return func(o *options) {
		if format != "" {
			o.format = strings.ToLower(format)
		}
	}
}

// WithWriter redirects output, mainly for tests.
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		if w != nil {
			o.out = w
		}
	}
}

// Init initializes the global logger at info level.
func Init(opts ...Option) error {
	o := options{format: "text", out: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}
	levelVar.Set(slog.LevelInfo)
	ho := &slog.HandlerOptions{Level: &levelVar}
	var h slog.Handler
	switch o.format {
	case "text":
		h = slog.NewTextHandler(o.out, ho)
	case "json":
		h = slog.NewJSONHandler(o.out, ho)
	default:
		return fmt.Errorf("unknown log format: %s", o.format)
	}
	global = &slogLogger{l: slog.New(h)}
	return nil
}

// getCaller returns file:line relative to the working directory when possible.
func getCaller() string {
	_, file, line, ok := runtime.Caller(callerSkipFrames)
	if !ok {
		return "unknown:0"
	}
	if cwd, err := os.Getwd(); err == nil {
		if rel, err := filepath.Rel(cwd, file); err == nil {
			file = rel
		}
	}
	return fmt.Sprintf("%s:%d", file, line)
}

// Get returns the global logger. It panics before Init.
func Get() Logger {
	if global == nil {
		panic("logger not initialized: call logger.Init first")
	}
	return global
}

// Named is shorthand for Get().Named(name).
func Named(name string) Logger {
	return Get().Named(name)
}

// Sync is a no-op; slog does not buffer.
func Sync() error { return nil }

func SetLevel(level slog.Level) { levelVar.Set(level) }

// SetLevelString accepts debug, info, warn/warning and error, case-insensitively.
func SetLevelString(level string) error {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		SetLevel(slog.LevelDebug)
	case "", "info":
		SetLevel(slog.LevelInfo)
	case "warn", "warning":
		SetLevel(slog.LevelWarn)
	case "error":
		SetLevel(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %s", level)
	}
	return nil
}
