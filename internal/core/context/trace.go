// Package appctx provides typed access to request-scoped values.
package appctx

import (
	"context"
)

// TraceContext carries request tracing identifiers.
type TraceContext struct {
	TraceID   string
	SpanID    string
	RequestID string
}

type traceKey struct{}

// WithTrace adds trace context to ctx.
func WithTrace(ctx context.Context, trace *TraceContext) context.Context {
	return context.WithValue(ctx, traceKey{}, trace)
}

// GetTrace returns trace context from ctx, or nil if none.
func GetTrace(ctx context.Context) *TraceContext {
	if trace, ok := ctx.Value(traceKey{}).(*TraceContext); ok {
		return trace
	}
	return nil
}
