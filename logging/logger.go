// Package logging wraps a process-wide zerolog logger and enriches events
// with the trace and span IDs of the active OpenTelemetry span.
package logging

import (
	"context"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

var logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

// Init configures the global logger. Development mode writes human-readable
// console output with caller information; otherwise JSON lines are emitted.
func Init(isDevelopment bool) {
	InitWithWriter(os.Stdout, isDevelopment)
}

// InitWithWriter is Init with an explicit destination.
func InitWithWriter(w io.Writer, isDevelopment bool) {
	zerolog.TimeFieldFormat = time.RFC3339

	if isDevelopment {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}).
			With().
			Timestamp().
			Caller().
			Logger()
		return
	}

	logger = zerolog.New(w).
		With().
		Timestamp().
		Logger()
}

// Logger returns the global logger.
func Logger() *zerolog.Logger {
	return &logger
}

// WithContext returns the global logger annotated with the span found in ctx.
func WithContext(ctx context.Context) zerolog.Logger {
	span := trace.SpanFromContext(ctx)
	if !span.SpanContext().IsValid() {
		return logger
	}

	return logger.With().
		Str("traceId", span.SpanContext().TraceID().String()).
		Str("spanId", span.SpanContext().SpanID().String()).
		Logger()
}

func Info(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Info()
}

func Error(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Error()
}

func Debug(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Debug()
}

func Warn(ctx context.Context) *zerolog.Event {
	l := WithContext(ctx)
	return l.Warn()
}
