// Package secrets mints, hashes and checks party API secrets. Only the
// bcrypt hash is ever stored or configured; the plaintext exists once, at
// minting time.
package secrets

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "attesto/pkg/domain-errors"
)

// secretBytes is the entropy drawn for a freshly minted secret.
const secretBytes = 32

// Generate mints a random secret, base64url-encoded for pasting into
// configuration and request bodies.
func Generate() (string, error) {
	buf := make([]byte, secretBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Hash derives the bcrypt hash that is stored in place of a party secret.
func Hash(secret string) (string, error) {
	if secret == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret cannot be empty")
	}
	if len(secret) > 72 {
		// bcrypt's input limit.
		return "", dErrors.New(dErrors.CodeInvalidInput, "secret is too long")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash secret: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext secret against a stored bcrypt hash.
func Verify(secret, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	switch {
	case err == nil:
		return nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return dErrors.New(dErrors.CodeInvalidInput, "invalid secret")
	default:
		return fmt.Errorf("verify secret: %w", err)
	}
}
