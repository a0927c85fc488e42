// Package requestid assigns every request a correlation id. Incoming
// X-Request-ID headers are honored so ids survive proxy hops; otherwise a
// fresh UUID is generated. The id is echoed on the response and stored in the
// context for log and audit correlation.
package requestid

import (
	"net/http"

	"github.com/google/uuid"

	"attesto/pkg/requestcontext"
)

// Header is the request id header read and written by the middleware.
const Header = "X-Request-ID"

// Limit accepted inbound ids so a hostile client cannot stuff the log stream.
const maxInboundLength = 128

func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(Header)
		if requestID == "" || len(requestID) > maxInboundLength {
			requestID = uuid.NewString()
		}

		w.Header().Set(Header, requestID)
		ctx := requestcontext.WithRequestID(r.Context(), requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
