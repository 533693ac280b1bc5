// Package requestctx propagates per-request values — the correlation
// (request) id and the authenticated principal — through context.Context.
//
// Each inbound request gets its own context chain, so values stored here are
// isolated across concurrent requests and vanish when the request ends; no
// explicit cleanup is needed. The logging layer reads these values to stamp
// every log line with the request it belongs to.
package requestctx

import (
	"context"
)

// Unresolved is the sentinel used for ids that have not been assigned yet.
const Unresolved = "-"

// contextKey is an unexported type to prevent collisions with other packages.
type contextKey int

const (
	requestIDKey contextKey = iota
	principalKey
)

// principalBox lets authentication middleware publish the resolved principal
// to middleware that ran earlier in the chain (the request logger wraps the
// handler, so by the time it emits its line the box has been filled in).
// One box per request; never shared across requests.
type principalBox struct {
	id     string
	claims any
}

// WithRequestID stores the correlation id in the context and allocates the
// principal box for this request.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDKey, id)
	return context.WithValue(ctx, principalKey, &principalBox{id: Unresolved})
}

// RequestID returns the correlation id for this request, or Unresolved if
// the request never passed through the propagator.
func RequestID(ctx context.Context) string {
	if id, ok := ctx.Value(requestIDKey).(string); ok {
		return id
	}
	return Unresolved
}

// SetPrincipal records the authenticated principal for this request.
// It is a no-op on a context that never passed through WithRequestID.
func SetPrincipal(ctx context.Context, id string, claims any) {
	if box, ok := ctx.Value(principalKey).(*principalBox); ok {
		box.id = id
		box.claims = claims
	}
}

// PrincipalID returns the authenticated principal id for this request, or
// Unresolved if no principal has been resolved (yet).
func PrincipalID(ctx context.Context) string {
	if box, ok := ctx.Value(principalKey).(*principalBox); ok {
		return box.id
	}
	return Unresolved
}

// Principal retrieves the typed principal stored by the authentication
// middleware. Returns the zero value and false if absent or of another type.
func Principal[T any](ctx context.Context) (T, bool) {
	box, ok := ctx.Value(principalKey).(*principalBox)
	if !ok || box.claims == nil {
		var zero T
		return zero, false
	}
	p, ok := box.claims.(T)
	return p, ok
}
