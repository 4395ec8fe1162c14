// Package logging defines the structured, context-aware logger used across
// the server. SlogLogger wraps log/slog and ZapLogger wraps go.uber.org/zap;
// New picks one by name.
package logging

import (
	"context"
	"fmt"
	"os"

	"go.opentelemetry.io/otel/trace"
)

// Logger is a context-aware, structured logger.
//
// The variadic args are interpreted as key–value pairs, e.g.:
//
//	log.Info(ctx, "login succeeded", "user_id", user.ID)
type Logger interface {
	// Debug logs verbose diagnostics, usually disabled in production.
	Debug(ctx context.Context, msg string, args ...any)

	// Info logs an informational message.
	Info(ctx context.Context, msg string, args ...any)

	// Warn logs a warning message for unusual but non-fatal conditions.
	Warn(ctx context.Context, msg string, args ...any)

	// Error logs an error message for failures.
	Error(ctx context.Context, msg string, args ...any)

	// With returns a child logger that always includes the given key–value pairs.
	With(args ...any) Logger
}

// Backend names accepted by New.
const (
	BackendZap  = "zap"
	BackendSlog = "slog"
)

// New builds a JSON logger writing to stdout for the given backend and level.
func New(backend, level string) (Logger, error) {
	switch backend {
	case BackendZap, "":
		z, err := NewZapProduction(level)
		if err != nil {
			return nil, err
		}
		return NewZapLogger(z), nil
	case BackendSlog:
		return NewSlogJSON(os.Stdout, level)
	default:
		return nil, fmt.Errorf("unknown log backend %q", backend)
	}
}

// withTrace appends trace_id and span_id when ctx carries a valid span, so a
// log line can be matched to its request trace. args is never modified.
func withTrace(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return args
	}
	out := make([]any, 0, len(args)+4)
	out = append(out, args...)
	return append(out, "trace_id", sc.TraceID().String(), "span_id", sc.SpanID().String())
}
