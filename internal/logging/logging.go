// Package logging provides structured logging for gitfolio built on zerolog.
//
// Loggers are carried through context.Context so that library packages can
// log without holding a logger field. Every CLI invocation gets a trace ID
// (a ULID) attached to the context logger, which makes it possible to
// correlate all log lines produced by a single command run.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"
)

// Config controls logger construction.
type Config struct {
	// Level is the minimum log level ("trace", "debug", "info", "warn",
	// "error"). Invalid values fall back to "info".
	Level string

	// Format selects the output encoding: "console" (default) or "json".
	Format string

	// Out is the destination writer. Defaults to os.Stderr.
	Out io.Writer
}

// New builds a logger from cfg.
func New(cfg Config) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		lvl = zerolog.InfoLevel
	}

	out := cfg.Out
	if out == nil {
		out = os.Stderr
	}

	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(out).Level(lvl).With().Timestamp().Logger()
}

// ComponentLogger returns a child logger tagged with a component name.
// Component names identify the subsystem emitting the line ("cli", "cache",
// "github", ...).
func ComponentLogger(logger zerolog.Logger, component string) zerolog.Logger {
	return logger.With().Str("component", component).Logger()
}

// FromContext returns the logger stored in ctx, or a disabled logger when
// none was attached. Library code should always log through this accessor.
func FromContext(ctx context.Context) *zerolog.Logger {
	return zerolog.Ctx(ctx)
}

type traceIDKey struct{}

// NewTraceID generates a trace ID for a command invocation.
func NewTraceID() string {
	return ulid.Make().String()
}

// ContextWithTraceID stores a trace ID in ctx.
func ContextWithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey{}, traceID)
}

// TraceIDFromContext returns the trace ID stored in ctx, or an empty string.
func TraceIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(traceIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GetOrGenerateTraceID returns the trace ID from ctx, generating a fresh one
// when the context carries none.
func GetOrGenerateTraceID(ctx context.Context) string {
	if id := TraceIDFromContext(ctx); id != "" {
		return id
	}
	return NewTraceID()
}
