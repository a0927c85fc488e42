// Package ratelimit throttles abusive callers before they reach the
// handlers. The credential exchange is limited per client IP since callers
// are unauthenticated there; the verification surface is limited per relying
// party. Limits are sliding windows over a pluggable store so a single
// instance can run in memory while a fleet shares state through Redis.
package ratelimit

import (
	"context"
	"strings"
	"time"
)

// Scope names a limited endpoint group. Each scope carries its own limit so
// the expensive proof path can be throttled tighter than reads.
type Scope string

const (
	// ScopeToken covers the credential exchange, keyed by client IP.
	ScopeToken Scope = "token"
	// ScopeVerify covers the authenticated verification surface, keyed by
	// relying party.
	ScopeVerify Scope = "verify"
)

// Limit is a request budget over a window.
type Limit struct {
	Requests int
	Window   time.Duration
}

// PerMinute builds a one-minute limit.
func PerMinute(requests int) Limit {
	return Limit{Requests: requests, Window: time.Minute}
}

// Limits maps each scope to its budget. A scope with no entry is unlimited;
// misconfiguration must never lock every caller out.
type Limits map[Scope]Limit

// DefaultLimits returns the budgets used when none are configured: the token
// exchange is tight because failures there are credential guessing, the
// verify surface is sized for a busy relying party.
func DefaultLimits() Limits {
	return Limits{
		ScopeToken:  PerMinute(10),
		ScopeVerify: PerMinute(120),
	}
}

// Result is the outcome of one admission check.
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// RetryAfterSeconds is the whole-second wait a denied caller should observe
// before retrying, never less than one second.
func (r Result) RetryAfterSeconds(now time.Time) int {
	secs := int(r.ResetAt.Sub(now).Round(time.Second).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}

// Store admits or denies one request against the key's window. Allow both
// checks and consumes: an allowed request counts against the budget.
type Store interface {
	Allow(ctx context.Context, key string, limit Limit) (Result, error)
}

// bucketKey builds the store key for a scope and identifier. The identifier
// is caller-controlled (IP header, party id), so the delimiter is escaped to
// keep one caller from steering its requests into another caller's bucket.
func bucketKey(scope Scope, kind, identifier string) string {
	return string(scope) + ":" + kind + ":" + strings.ReplaceAll(identifier, ":", "_")
}
