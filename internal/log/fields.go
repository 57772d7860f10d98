package log

import "go.uber.org/zap"

// Field is a structured log field.
type Field = zap.Field

// String constructs a string field.
func String(key, value string) Field { return zap.String(key, value) }

// Int constructs an int field.
func Int(key string, value int) Field { return zap.Int(key, value) }

// Int64 constructs an int64 field.
func Int64(key string, value int64) Field { return zap.Int64(key, value) }

// Bool constructs a bool field.
func Bool(key string, value bool) Field { return zap.Bool(key, value) }

// Any constructs a field with best-effort encoding of value.
func Any(key string, value any) Field { return zap.Any(key, value) }

// Cause attaches an error as the failure cause of the log entry.
func Cause(err error) Field { return zap.NamedError("cause", err) }
