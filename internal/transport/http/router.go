// Package httptransport assembles the public HTTP surface: the middleware
// chain, the domain handlers and the operational endpoints. Business logic
// stays in the services; this package only wires.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	partyhandler "attesto/internal/party/handler"
	platformmetrics "attesto/internal/platform/metrics"
	"attesto/internal/ratelimit"
	verifierhandler "attesto/internal/verifier/handler"
	authmw "attesto/pkg/platform/middleware/auth"
	"attesto/pkg/platform/middleware/contenttype"
	"attesto/pkg/platform/middleware/logging"
	"attesto/pkg/platform/middleware/metadata"
	"attesto/pkg/platform/middleware/recovery"
	"attesto/pkg/platform/middleware/requestid"
	"attesto/pkg/platform/middleware/requesttime"
	timeoutmw "attesto/pkg/platform/middleware/timeout"
)

// DefaultRequestTimeout bounds a request when no timeout is configured.
const DefaultRequestTimeout = 15 * time.Second

// ReadyCheck reports whether one backing dependency is usable.
type ReadyCheck func(ctx context.Context) error

// Config carries everything the router needs beyond the handlers.
type Config struct {
	Logger         *slog.Logger
	TokenValidator authmw.TokenValidator
	RequestTimeout time.Duration
	HTTPMetrics    *platformmetrics.HTTP
	RateLimiter    *ratelimit.Middleware
	ReadyChecks    []ReadyCheck
}

// NewRouter wires the public endpoints.
//
// Chain order matters: recovery is outermost so panics anywhere are caught;
// request id precedes logging so every line carries it; the timeout bounds
// handler work; auth runs innermost so the probes and the token exchange
// stay reachable without credentials.
func NewRouter(cfg Config, verify *verifierhandler.Handler, token *partyhandler.Handler) http.Handler {
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}

	r := chi.NewRouter()
	r.Use(recovery.Middleware(cfg.Logger))
	r.Use(requestid.Middleware)
	r.Use(requesttime.Middleware)
	r.Use(metadata.ClientMetadata)
	r.Use(logging.Middleware(cfg.Logger))
	if cfg.HTTPMetrics != nil {
		r.Use(cfg.HTTPMetrics.Middleware)
	}
	r.Use(timeoutmw.Middleware(cfg.RequestTimeout))

	// Operational endpoints: unauthenticated, no content negotiation.
	r.Get("/healthz", handleHealthz)
	r.Get("/readyz", handleReadyz(cfg.ReadyChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	// Credential exchange stays outside RequireParty: it is how parties
	// obtain a token in the first place. Its rate limit keys on the client
	// IP since there is no identity to key on yet.
	r.Group(func(g chi.Router) {
		g.Use(contenttype.RequireJSON)
		if cfg.RateLimiter != nil {
			g.Use(cfg.RateLimiter.ByClientIP(ratelimit.ScopeToken))
		}
		token.Register(g)
	})

	// The verify surface limits per party, so it mounts after RequireParty.
	r.Group(func(g chi.Router) {
		g.Use(contenttype.RequireJSON)
		g.Use(authmw.RequireParty(cfg.TokenValidator, cfg.Logger))
		if cfg.RateLimiter != nil {
			g.Use(cfg.RateLimiter.ByParty(ratelimit.ScopeVerify))
		}
		verify.Register(g)
	})

	return r
}

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, "ok")
}

// handleReadyz pings the backing stores; any failure means not ready.
func handleReadyz(checks []ReadyCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		for _, check := range checks {
			if err := check(ctx); err != nil {
				writeStatus(w, http.StatusServiceUnavailable, "unavailable")
				return
			}
		}
		writeStatus(w, http.StatusOK, "ready")
	}
}

func writeStatus(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(`{"status":"` + body + `"}`))
}
