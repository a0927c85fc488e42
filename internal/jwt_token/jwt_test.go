package jwttoken

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

var tokenService = NewService(
	"test-signing-key",
	"attesto",
	"attesto-api",
)
var partyID = domain.PartyID("acme-checkout")
var expiresIn = time.Hour

func Test_IssuePartyToken(t *testing.T) {
	now := time.Now()
	token, err := tokenService.IssuePartyToken(partyID, now, expiresIn)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := tokenService.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, partyID.String(), claims.PartyID)
	assert.Equal(t, partyID.String(), claims.Subject)
	assert.Equal(t, "attesto", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, now.Add(expiresIn), claims.ExpiresAt.Time, time.Minute)
}

func Test_ValidateToken_InvalidToken(t *testing.T) {
	_, err := tokenService.ValidateToken("invalid-token-string")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_ExpiredToken(t *testing.T) {
	token, err := tokenService.IssuePartyToken(partyID, time.Now(), -time.Hour)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
	assert.Contains(t, err.Error(), "expired")
}

func Test_ValidateToken_WrongKey(t *testing.T) {
	other := NewService("different-signing-key", "attesto", "attesto-api")
	token, err := other.IssuePartyToken(partyID, time.Now(), expiresIn)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_ValidateToken_WrongIssuer(t *testing.T) {
	other := NewService("test-signing-key", "someone-else", "attesto-api")
	token, err := other.IssuePartyToken(partyID, time.Now(), expiresIn)
	require.NoError(t, err)

	_, err = tokenService.ValidateToken(token)
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}

func Test_MiddlewareAdapter(t *testing.T) {
	adapter := NewMiddlewareAdapter(tokenService)

	token, err := tokenService.IssuePartyToken(partyID, time.Now(), expiresIn)
	require.NoError(t, err)

	got, err := adapter.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, partyID, got)

	_, err = adapter.ValidateToken("garbage")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeUnauthorized))
}
