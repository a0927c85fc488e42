// Package metadata captures client network metadata so auth failures and
// credential exchanges can be attributed in the security log. The values live
// in requestcontext; nothing here is persisted or emitted to the audit stream.
package metadata

import (
	"net"
	"net/http"
	"strings"

	"attesto/pkg/requestcontext"
)

// ClientMetadata extracts the client IP and User-Agent from the request and
// stores them in the context. Applied early in the chain.
func ClientMetadata(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithClientMetadata(r.Context(),
			ClientIPFromRequest(r),
			r.Header.Get("User-Agent"),
		)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClientIPFromRequest extracts the originating client address, preferring
// proxy headers over the socket peer.
func ClientIPFromRequest(r *http.Request) string {
	// X-Forwarded-For carries a chain (client, proxy1, proxy2, ...); only
	// the first entry names the client.
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	if r.RemoteAddr != "" {
		return r.RemoteAddr
	}
	return "unknown"
}
