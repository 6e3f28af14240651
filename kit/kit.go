// CLAUDE:SUMMARY Transport-agnostic endpoint type and request-scoped context helpers.
// Package kit carries the small glue shared by the MCP and HTTP surfaces: a
// transport-agnostic endpoint shape and request-scoped context values.
package kit

import "context"

// Endpoint is a transport-agnostic handler: decoded request in, response
// value out. Transports own encoding on both sides.
type Endpoint func(ctx context.Context, req any) (any, error)

type contextKey string

const (
	requestIDKey contextKey = "bundlescope_request_id"
	transportKey contextKey = "bundlescope_transport" // "mcp", "http", "cli"
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey).(string)
	return v
}

func WithTransport(ctx context.Context, t string) context.Context {
	return context.WithValue(ctx, transportKey, t)
}

func Transport(ctx context.Context) string {
	if v, ok := ctx.Value(transportKey).(string); ok {
		return v
	}
	return "cli"
}
