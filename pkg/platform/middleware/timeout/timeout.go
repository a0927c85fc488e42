// Package timeout bounds request handling time. Services treat context
// expiry as backend unavailability, which is safe to surface: the ledger
// write is the only non-idempotent step and it has not happened when a
// deadline interrupts the pipeline ahead of it.
package timeout

import (
	"context"
	"net/http"
	"time"
)

func Middleware(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
