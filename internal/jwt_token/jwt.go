// Package jwttoken issues and validates the HS256 access tokens that gate the
// verification API. A token carries the relying-party id and standard
// registered claims, nothing else; holder identity never appears in a token.
package jwttoken

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// AccessTokenClaims are the claims carried by a party access token.
type AccessTokenClaims struct {
	PartyID string `json:"party_id"`
	jwt.RegisteredClaims
}

// Service signs and validates party access tokens with a shared HS256 key.
type Service struct {
	signingKey []byte
	issuer     string
	audience   string
}

func NewService(signingKey, issuer, audience string) *Service {
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		audience:   audience,
	}
}

// IssuePartyToken signs a token for the given relying party. The caller
// supplies the issue time so request-scoped clocks stay consistent.
func (s *Service) IssuePartyToken(partyID domain.PartyID, now time.Time, expiresIn time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, AccessTokenClaims{
		PartyID: partyID.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   partyID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
			Audience:  []string{s.audience},
			ID:        uuid.NewString(),
		},
	})
	return token.SignedString(s.signingKey)
}

// ValidateToken checks the signature, expiry, issuer and audience of a token
// string and returns its claims. Every failure maps to CodeUnauthorized; only
// expiry gets its own message, so clients know to request a fresh token.
func (s *Service) ValidateToken(tokenString string) (*AccessTokenClaims, error) {
	var claims AccessTokenClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims,
		func(*jwt.Token) (any, error) { return s.signingKey, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(s.issuer),
		jwt.WithAudience(s.audience),
		jwt.WithExpirationRequired(),
	)
	switch {
	case err == nil:
		return &claims, nil
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, dErrors.New(dErrors.CodeUnauthorized, "token has expired")
	default:
		return nil, dErrors.New(dErrors.CodeUnauthorized, "invalid token")
	}
}
