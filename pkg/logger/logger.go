package logger

import (
	"fmt"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger so call sites depend on a single package.
type Logger struct {
	*zap.Logger
}

// New creates a logger with the given level and encoding ("json" or "console").
func New(level, encoding string) (*Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	if encoding != "" {
		cfg.Encoding = encoding
	}
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	zapLogger, err := cfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{zapLogger}, nil
}

// Field creates a generic structured log field.
func Field(key string, value interface{}) zap.Field {
	return zap.Any(key, value)
}

// StringField creates a string log field.
func StringField(key, value string) zap.Field {
	return zap.String(key, value)
}

// IntField creates an int log field.
func IntField(key string, value int) zap.Field {
	return zap.Int(key, value)
}

// Float64Field creates a float64 log field.
func Float64Field(key string, value float64) zap.Field {
	return zap.Float64(key, value)
}

// ErrorField creates an error log field.
func ErrorField(err error) zap.Field {
	return zap.Error(err)
}
