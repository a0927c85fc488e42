// Package auth guards routes behind party access tokens.
package auth

import (
	"log/slog"
	"net/http"
	"strings"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
	"attesto/pkg/platform/httputil"
	"attesto/pkg/requestcontext"
)

// TokenValidator validates a bearer token and names the party it belongs to.
type TokenValidator interface {
	ValidateToken(tokenString string) (domain.PartyID, error)
}

// RequireParty authenticates the request's bearer token and stores the
// resulting party id in the context, where handlers and the audit trail read
// it. Requests without a valid token never reach the wrapped handler.
func RequireParty(validator TokenValidator, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
			if !ok {
				logger.WarnContext(ctx, "unauthorized access - missing token",
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				httputil.WriteError(w, dErrors.New(dErrors.CodeUnauthorized, "missing bearer token"))
				return
			}

			partyID, err := validator.ValidateToken(token)
			if err != nil {
				logger.WarnContext(ctx, "unauthorized access - invalid token",
					"error", err,
					"request_id", requestcontext.RequestID(ctx),
					"client_ip", requestcontext.ClientIP(ctx),
				)
				// The validator's errors already carry CodeUnauthorized and a
				// client-safe message.
				httputil.WriteError(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(requestcontext.WithPartyID(ctx, partyID)))
		})
	}
}
