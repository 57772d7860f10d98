package log

import (
	"context"

	"github.com/emberlink/chatstream/internal/tracing"
)

// Hook derives extra fields from the context for every log entry.
type Hook interface {
	Apply(ctx context.Context, msg string, fields ...Field) []Field
}

// HookFunc adapts a function to the Hook interface.
type HookFunc func(ctx context.Context, msg string, fields ...Field) []Field

// Apply implements Hook.
func (f HookFunc) Apply(ctx context.Context, msg string, fields ...Field) []Field {
	return f(ctx, msg, fields...)
}

var hooks = []Hook{HookFunc(traceFields)}

// AddHook registers a hook applied to every subsequent log entry.
// Not goroutine-safe, call during initialization.
func AddHook(hook Hook) {
	hooks = append(hooks, hook)
}

// traceFields adds trace, request, and operation identifiers to log
// entries when they are present in the context.
func traceFields(ctx context.Context, msg string, fields ...Field) []Field {
	if ctx == nil {
		return fields
	}

	if traceID, ok := tracing.TraceID(ctx); ok {
		fields = append(fields, String("trace_id", traceID))
	}

	if requestID, ok := tracing.RequestID(ctx); ok {
		fields = append(fields, String("request_id", requestID))
	}

	if operationName, ok := tracing.OperationName(ctx); ok {
		fields = append(fields, String("operation_name", operationName))
	}

	return fields
}
