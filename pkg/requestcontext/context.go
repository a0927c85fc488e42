// Package requestcontext carries request-scoped values between middleware
// and services without either side importing net/http. Middleware writes
// the values; services read them through typed accessors that fall back to
// a zero value when the middleware never ran, so the same service code
// works under tests and CLI callers.
package requestcontext

import (
	"context"
	"time"

	"attesto/pkg/domain"
)

type (
	partyIDKey     struct{}
	clientIPKey    struct{}
	userAgentKey   struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// PartyID returns the authenticated relying-party id, or the empty id when
// the request was not authenticated.
func PartyID(ctx context.Context) domain.PartyID {
	v, _ := ctx.Value(partyIDKey{}).(domain.PartyID)
	return v
}

// WithPartyID records the authenticated relying-party id.
func WithPartyID(ctx context.Context, partyID domain.PartyID) context.Context {
	return context.WithValue(ctx, partyIDKey{}, partyID)
}

// ClientIP returns the client address captured by the metadata middleware.
func ClientIP(ctx context.Context) string {
	v, _ := ctx.Value(clientIPKey{}).(string)
	return v
}

// UserAgent returns the User-Agent captured by the metadata middleware.
func UserAgent(ctx context.Context) string {
	v, _ := ctx.Value(userAgentKey{}).(string)
	return v
}

// WithClientMetadata records the client address and User-Agent. Service
// tests use it in place of the middleware chain.
func WithClientMetadata(ctx context.Context, clientIP, userAgent string) context.Context {
	ctx = context.WithValue(ctx, clientIPKey{}, clientIP)
	return context.WithValue(ctx, userAgentKey{}, userAgent)
}

// RequestID returns the request correlation id, or "" when unset.
func RequestID(ctx context.Context) string {
	v, _ := ctx.Value(requestIDKey{}).(string)
	return v
}

// WithRequestID records the request correlation id.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, requestID)
}

// Now returns the time the request entered the server, so every decision in
// one request shares a single clock reading. Outside a request it falls
// back to time.Now.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(requestTimeKey{}).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime pins the request clock, either from the request-time middleware
// or from a test that needs a fixed instant.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, requestTimeKey{}, t)
}
