// Package logger owns the process-wide zap logger.
package logger

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu  sync.RWMutex
	log = zap.NewNop()
)

// Init builds the process logger.  Production uses JSON output; every other
// environment uses the colourless development console encoder.
func Init(env, level string) (*zap.Logger, error) {
	var cfg zap.Config
	if env == "prod" || env == "production" {
		cfg = zap.NewProductionConfig()
	} else {
		cfg = zap.NewDevelopmentConfig()
	}
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	l, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	Set(l)
	return l, nil
}

// Set replaces the process logger.
func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	log = l
}

// L returns the process logger.  It is a no-op logger until Init or Set runs.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return log
}

// WithTrace returns the process logger annotated with the trace and span
// IDs of the span in ctx, when there is one.
func WithTrace(ctx context.Context) *zap.Logger {
	sc := trace.SpanFromContext(ctx).SpanContext()
	if !sc.IsValid() {
		return L()
	}
	return L().With(
		zap.String("trace_id", sc.TraceID().String()),
		zap.String("span_id", sc.SpanID().String()),
	)
}
