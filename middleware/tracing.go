package middleware

import (
	"context"

	"github.com/shrek82/lappa/core"
)

// ContextKey is the type of the context keys TracingMiddleware reads.
type ContextKey string

const (
	RequestIDKey ContextKey = "request_id"
	UserIPKey    ContextKey = "user_ip"
	TraceIDKey   ContextKey = "trace_id"
)

// TracingMiddleware copies request identifiers from the context into the
// statement's log fields.
type TracingMiddleware struct {
	keys []ContextKey
}

// NewTracing reads RequestIDKey, UserIPKey and TraceIDKey, plus any extra keys.
func NewTracing(extra ...ContextKey) *TracingMiddleware {
	keys := append([]ContextKey{RequestIDKey, UserIPKey, TraceIDKey}, extra...)
	return &TracingMiddleware{keys: keys}
}

func (m *TracingMiddleware) Name() string {
	return "Tracing"
}

func (m *TracingMiddleware) Process(ctx context.Context, st *core.Statement, next core.QueryFunc) error {
	fields := make(map[string]any)
	for _, k := range m.keys {
		if v := ctx.Value(k); v != nil {
			fields[string(k)] = v
		}
	}
	if len(fields) > 0 {
		st.WithFields(fields)
	}
	return next(ctx, st)
}
