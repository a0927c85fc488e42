package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasCode(t *testing.T) {
	t.Run("direct error carries its code", func(t *testing.T) {
		err := New(CodeProofAlreadyUsed, "nullifier already consumed")
		assert.True(t, HasCode(err, CodeProofAlreadyUsed))
		assert.False(t, HasCode(err, CodeProofInvalid))
	})

	t.Run("code survives fmt wrapping", func(t *testing.T) {
		err := New(CodeUnknownClaim, "claim is not registered")
		wrapped := fmt.Errorf("verify bundle: %w", err)
		assert.True(t, HasCode(wrapped, CodeUnknownClaim))
	})

	t.Run("plain errors carry no code", func(t *testing.T) {
		assert.False(t, HasCode(errors.New("boom"), CodeInternal))
		assert.False(t, HasCode(nil, CodeInternal))
	})
}

func TestWrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeVerifierUnavailable, "proof backend unreachable")

	require.Error(t, err)
	assert.True(t, HasCode(err, CodeVerifierUnavailable))
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "proof backend unreachable")
	assert.Contains(t, err.Error(), "connection refused")

	// MessageOf must never leak the wrapped cause to clients.
	assert.Equal(t, "proof backend unreachable", MessageOf(err))
}

func TestCodeOf(t *testing.T) {
	assert.Equal(t, CodeMalformedPublicInputs, CodeOf(New(CodeMalformedPublicInputs, "bad shape")))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("uncoded")))
}

func TestToHTTPStatus(t *testing.T) {
	tests := []struct {
		code Code
		want int
	}{
		{CodeInvalidInputShape, http.StatusBadRequest},
		{CodeMalformedPublicInputs, http.StatusBadRequest},
		{CodeUnauthorized, http.StatusUnauthorized},
		{CodeUnknownClaim, http.StatusNotFound},
		{CodeProofAlreadyUsed, http.StatusConflict},
		{CodeRateLimited, http.StatusTooManyRequests},
		{CodeProofInvalid, http.StatusUnprocessableEntity},
		{CodeProofGenerationFailed, http.StatusUnprocessableEntity},
		{CodeProverUnavailable, http.StatusServiceUnavailable},
		{CodeVerifierUnavailable, http.StatusServiceUnavailable},
		{CodeDuplicateClaim, http.StatusInternalServerError},
		{CodeInternal, http.StatusInternalServerError},
		{Code("unmapped"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.want, ToHTTPStatus(tt.code))
		})
	}
}
