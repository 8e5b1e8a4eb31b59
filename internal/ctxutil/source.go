// Package ctxutil provides context utilities that can be safely imported anywhere.
// This package has no internal dependencies to avoid import cycles.
package ctxutil

import "context"

// SourceKey is the context key for the mutation source recorded in the
// status history ledger.
type SourceKey struct{}

// WithSource returns a context with the mutation source embedded.
func WithSource(ctx context.Context, source string) context.Context {
	return context.WithValue(ctx, SourceKey{}, source)
}

// SourceFromContext returns the mutation source from context, or "unknown"
// if not set. Every history row carries a source, so the fallback is a
// value rather than an empty string.
func SourceFromContext(ctx context.Context) string {
	if v := ctx.Value(SourceKey{}); v != nil {
		return v.(string)
	}
	return "unknown"
}
