// Package log provides context-aware structured logging on top of zap.
package log

import (
	"context"
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var global atomic.Pointer[zap.Logger]

func init() {
	global.Store(zap.NewNop())
}

// Config controls the global logger.
type Config struct {
	// Level is one of "debug", "info", "warn", "error". Defaults to "info".
	Level string `json:"level" mapstructure:"level"`

	// Format is "json" or "console". Defaults to "console".
	Format string `json:"format" mapstructure:"format"`

	// File enables an additional rotating file sink when Path is set.
	File FileConfig `json:"file" mapstructure:"file"`
}

// FileConfig configures the rotating file sink.
type FileConfig struct {
	Path       string `json:"path" mapstructure:"path"`
	MaxSizeMB  int    `json:"max_size_mb" mapstructure:"max_size_mb"`
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"`
	MaxAgeDays int    `json:"max_age_days" mapstructure:"max_age_days"`
}

// Setup replaces the global logger according to cfg.
func Setup(cfg Config) error {
	level := zapcore.InfoLevel
	if cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return err
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var encoder zapcore.Encoder
	if cfg.Format == "json" {
		encoder = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoder = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), level),
	}

	if cfg.File.Path != "" {
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   cfg.File.Path,
			MaxSize:    cfg.File.MaxSizeMB,
			MaxBackups: cfg.File.MaxBackups,
			MaxAge:     cfg.File.MaxAgeDays,
		})
		fileEnc := zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig())
		cores = append(cores, zapcore.NewCore(fileEnc, sink, level))
	}

	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	global.Store(logger)

	return nil
}

func logger() *zap.Logger {
	return global.Load()
}

// DebugEnabled reports whether debug logging is active.
func DebugEnabled(ctx context.Context) bool {
	return logger().Core().Enabled(zapcore.DebugLevel)
}

// Debug logs a debug message with context-derived fields applied.
func Debug(ctx context.Context, msg string, fields ...zap.Field) {
	logger().Debug(msg, withContextFields(ctx, msg, fields)...)
}

// Info logs an info message with context-derived fields applied.
func Info(ctx context.Context, msg string, fields ...zap.Field) {
	logger().Info(msg, withContextFields(ctx, msg, fields)...)
}

// Warn logs a warning with context-derived fields applied.
func Warn(ctx context.Context, msg string, fields ...zap.Field) {
	logger().Warn(msg, withContextFields(ctx, msg, fields)...)
}

// Error logs an error with context-derived fields applied.
func Error(ctx context.Context, msg string, fields ...zap.Field) {
	logger().Error(msg, withContextFields(ctx, msg, fields)...)
}

// Sync flushes buffered log entries.
func Sync() error {
	return logger().Sync()
}

func withContextFields(ctx context.Context, msg string, fields []zap.Field) []zap.Field {
	for _, hook := range hooks {
		fields = append(fields, hook.Apply(ctx, msg)...)
	}

	return fields
}
