package handler

import (
	"strings"

	dErrors "attesto/pkg/domain-errors"
)

// TokenRequest is the credential exchange body for POST /v1/token.
type TokenRequest struct {
	PartyID     string `json:"party_id"`
	PartySecret string `json:"party_secret"`
}

// Validate rejects bodies that cannot name a credential pair. Whether the
// credentials are correct is the service's call; everything here is shape
// only.
func (r *TokenRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}
	r.PartyID = strings.TrimSpace(r.PartyID)
	if r.PartyID == "" {
		return dErrors.New(dErrors.CodeValidation, "party_id is required")
	}
	if r.PartySecret == "" {
		return dErrors.New(dErrors.CodeValidation, "party_secret is required")
	}
	return nil
}
