package jwttoken

import (
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// MiddlewareAdapter narrows the token service to the shape the auth
// middleware consumes: a bearer token in, the authenticated party out.
type MiddlewareAdapter struct {
	service *Service
}

func NewMiddlewareAdapter(service *Service) *MiddlewareAdapter {
	return &MiddlewareAdapter{service: service}
}

func (a *MiddlewareAdapter) ValidateToken(tokenString string) (domain.PartyID, error) {
	claims, err := a.service.ValidateToken(tokenString)
	if err != nil {
		return "", err
	}
	partyID, err := domain.ParsePartyID(claims.PartyID)
	if err != nil {
		return "", dErrors.New(dErrors.CodeUnauthorized, "invalid token claims")
	}
	return partyID, nil
}
