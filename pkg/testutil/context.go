package testutil

import (
	"net/http"

	"attesto/pkg/domain"
	"attesto/pkg/requestcontext"
)

// WithParty stores a party id on the request context, simulating what the
// auth middleware does for an authenticated request. Invalid ids are
// silently ignored so tests can also exercise the unauthenticated path.
func WithParty(req *http.Request, partyID string) *http.Request {
	parsed, err := domain.ParsePartyID(partyID)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithPartyID(req.Context(), parsed))
}
