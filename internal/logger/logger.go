// Package logger provides a structured logging abstraction so the rest of
// the agent does not bind to a concrete backend. The shipped implementation
// wraps log/slog.
package logger

import (
	"context"
	"time"
)

// Level represents log severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// ParseLevel converts a string to a Level, defaulting to info.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Field is a key-value pair attached to a log entry.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field             { return Field{Key: key, Value: value} }
func Int(key string, value int) Field            { return Field{Key: key, Value: value} }
func Bool(key string, value bool) Field          { return Field{Key: key, Value: value} }
func Time(key string, value time.Time) Field     { return Field{Key: key, Value: value} }
func Duration(key string, v time.Duration) Field { return Field{Key: key, Value: v} }
func Any(key string, value any) Field            { return Field{Key: key, Value: value} }

func Err(err error) Field {
	if err == nil {
		return Field{Key: "error", Value: nil}
	}
	return Field{Key: "error", Value: err.Error()}
}

// Logger is implemented by logging backends.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// With returns a child logger with the fields attached to every entry.
	With(fields ...Field) Logger
	// WithContext returns a child logger carrying the context's request and
	// user ids, when present.
	WithContext(ctx context.Context) Logger
}

// Config controls the slog-backed logger.
type Config struct {
	Level  Level
	Format string // "json" or "text"
}

// DefaultConfig is info-level JSON output.
func DefaultConfig() Config {
	return Config{Level: LevelInfo, Format: "json"}
}

// nopLogger discards everything. Used as the default in tests.
type nopLogger struct{}

func (nopLogger) Debug(string, ...Field)               {}
func (nopLogger) Info(string, ...Field)                {}
func (nopLogger) Warn(string, ...Field)                {}
func (nopLogger) Error(string, ...Field)               {}
func (n nopLogger) With(...Field) Logger               { return n }
func (n nopLogger) WithContext(context.Context) Logger { return n }

// Nop returns a logger that discards all output.
func Nop() Logger { return nopLogger{} }
