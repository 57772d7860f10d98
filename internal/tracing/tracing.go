// Package tracing carries per-request identifiers through context.
package tracing

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

type contextKey int

const (
	traceIDKey contextKey = iota
	requestIDKey
	operationNameKey
)

// GenerateTraceID generates a trace id, formatted as cs-{{uuid}}.
func GenerateTraceID() string {
	return fmt.Sprintf("cs-%s", uuid.NewString())
}

// WithTraceID attaches a trace identifier to the context.
func WithTraceID(ctx context.Context, traceID string) context.Context {
	return context.WithValue(ctx, traceIDKey, traceID)
}

// TraceID returns the trace identifier attached to the context, if any.
func TraceID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	id, ok := ctx.Value(traceIDKey).(string)

	return id, ok && id != ""
}

// WithRequestID attaches a request identifier to the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request identifier attached to the context, if any.
func RequestID(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	id, ok := ctx.Value(requestIDKey).(string)

	return id, ok && id != ""
}

// WithOperationName attaches an operation name to the context.
func WithOperationName(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, operationNameKey, name)
}

// OperationName returns the operation name attached to the context, if any.
func OperationName(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}

	name, ok := ctx.Value(operationNameKey).(string)

	return name, ok && name != ""
}
