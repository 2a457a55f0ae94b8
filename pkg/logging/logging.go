// Package logging configures the process-wide zap logger. Packages log
// through zap.S()/zap.L() after Init has run.
package logging

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Config struct {
	Level string `yaml:"level"`
	Dev   bool   `yaml:"dev"`
}

// Init builds the global logger and installs it with zap.ReplaceGlobals.
// The returned function flushes buffered entries and should be deferred
// from main.
func Init(cfg *Config) (func(), error) {
	level := zapcore.InfoLevel
	if cfg != nil && cfg.Level != "" {
		if err := level.Set(cfg.Level); err != nil {
			return nil, err
		}
	}

	zapCfg := zap.NewProductionConfig()
	if cfg != nil && cfg.Dev {
		zapCfg = zap.NewDevelopmentConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	zapCfg.EncoderConfig.TimeKey = "timestamp"
	zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder

	logger, err := zapCfg.Build()
	if err != nil {
		return nil, err
	}
	zap.ReplaceGlobals(logger)

	return func() { _ = logger.Sync() }, nil
}

type contextKey string

const requestIDKey contextKey = "request_id"

// WithRequestID tags the context with a request id, generating one when
// the caller has none.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		requestID = uuid.New().String()
	}
	return context.WithValue(ctx, requestIDKey, requestID)
}

// For returns a sugared logger carrying the context's request id.
func For(ctx context.Context) *zap.SugaredLogger {
	if reqID, ok := ctx.Value(requestIDKey).(string); ok {
		return zap.S().With("request_id", reqID)
	}
	return zap.S()
}
