package ratelimit

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	dErrors "attesto/pkg/domain-errors"
	"attesto/pkg/platform/httputil"
	"attesto/pkg/requestcontext"
)

// Middleware enforces per-scope limits on the HTTP surface. A store failure
// fails open: a broken limiter backend must not take the service down with
// it.
type Middleware struct {
	store  Store
	limits Limits
	logger *slog.Logger
	clock  func() time.Time
}

// Option configures the Middleware.
type Option func(*Middleware)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Middleware) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// WithClock sets the time source used for Retry-After arithmetic. Tests use
// it to pin the clock.
func WithClock(clock func() time.Time) Option {
	return func(m *Middleware) {
		if clock != nil {
			m.clock = clock
		}
	}
}

// NewMiddleware builds the limiter over a store and per-scope budgets.
func NewMiddleware(store Store, limits Limits, opts ...Option) *Middleware {
	m := &Middleware{
		store:  store,
		limits: limits,
		logger: slog.Default(),
		clock:  time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// ByClientIP limits the scope per originating client IP, for endpoints
// callers reach before they hold credentials.
func (m *Middleware) ByClientIP(scope Scope) func(http.Handler) http.Handler {
	return m.limit(scope, func(ctx context.Context) (string, string) {
		return "ip", requestcontext.ClientIP(ctx)
	})
}

// ByParty limits the scope per authenticated relying party. Mounted after
// the auth middleware; a request that somehow carries no party falls back to
// its client IP so the budget cannot be sidestepped.
func (m *Middleware) ByParty(scope Scope) func(http.Handler) http.Handler {
	return m.limit(scope, func(ctx context.Context) (string, string) {
		if party := requestcontext.PartyID(ctx); party != "" {
			return "party", party.String()
		}
		return "ip", requestcontext.ClientIP(ctx)
	})
}

func (m *Middleware) limit(scope Scope, identify func(context.Context) (kind, id string)) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			budget, ok := m.limits[scope]
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			kind, id := identify(ctx)
			result, err := m.store.Allow(ctx, bucketKey(scope, kind, id), budget)
			if err != nil {
				observeDecision(scope, decisionError)
				m.logger.ErrorContext(ctx, "rate limit check failed",
					"scope", scope,
					"error", err,
				)
				next.ServeHTTP(w, r)
				return
			}

			writeLimitHeaders(w, result)

			if !result.Allowed {
				observeDecision(scope, decisionDenied)
				m.logger.WarnContext(ctx, "rate limit exceeded",
					"scope", scope,
					"key_kind", kind,
					"identifier", id,
					"limit", result.Limit,
				)
				w.Header().Set("Retry-After", strconv.Itoa(result.RetryAfterSeconds(m.clock())))
				httputil.WriteError(w, dErrors.New(dErrors.CodeRateLimited, "request rate limit exceeded, retry later"))
				return
			}

			observeDecision(scope, decisionAllowed)
			next.ServeHTTP(w, r)
		})
	}
}

// writeLimitHeaders reports the budget on every limited response so clients
// can pace themselves before hitting the wall.
func writeLimitHeaders(w http.ResponseWriter, result Result) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
}
