package domain

import (
	"encoding/hex"
	"strings"

	dErrors "attesto/pkg/domain-errors"
)

// Nullifier is the replay-protection key: a 32-byte field element derived from
// the holder's identity secret and the claim context, carried as lowercase hex.
// Invariant: exactly 64 hex characters, not all zero. Same (identity, claim,
// salt) always yields the same nullifier, which is the whole point: the ledger
// keys uniqueness on it, never on proof bytes.
type Nullifier string

// ParseNullifier constructs a Nullifier from external input, normalizing the
// hex casing.
func ParseNullifier(s string) (Nullifier, error) {
	b, err := parseHex32(s, "nullifier")
	if err != nil {
		return "", err
	}
	return NullifierFromBytes(b), nil
}

// NullifierFromBytes builds a Nullifier from a raw 32-byte value. Shorter
// slices are left-padded, matching big-endian field-element serialization.
func NullifierFromBytes(b []byte) Nullifier {
	return Nullifier(hexFromBytes(b))
}

// String returns the lowercase hex representation.
func (n Nullifier) String() string {
	return string(n)
}

// IsZero reports whether the nullifier is unset.
func (n Nullifier) IsZero() bool {
	return n == ""
}

// RequirementHash identifies what a relying party required (claim, context
// salt, policy tag) without carrying any attribute data. SHA-256, lowercase hex.
type RequirementHash string

// ParseRequirementHash constructs a RequirementHash from external input.
func ParseRequirementHash(s string) (RequirementHash, error) {
	b, err := parseHex32(s, "requirement hash")
	if err != nil {
		return "", err
	}
	return RequirementHash(hexFromBytes(b)), nil
}

// RequirementHashFromBytes builds a RequirementHash from a raw digest.
func RequirementHashFromBytes(b []byte) RequirementHash {
	return RequirementHash(hexFromBytes(b))
}

// String returns the lowercase hex representation.
func (h RequirementHash) String() string {
	return string(h)
}

// IsZero reports whether the hash is unset.
func (h RequirementHash) IsZero() bool {
	return h == ""
}

// parseHex32 is the shared validation for 32-byte hex values: non-empty,
// 64 hex digits, decodable, not all zero.
func parseHex32(s, kind string) ([]byte, error) {
	if s == "" {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", kind)
	}
	if len(s) != 64 {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s must be 64 hex characters", kind)
	}
	b, err := hex.DecodeString(strings.ToLower(s))
	if err != nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not valid hex", kind)
	}
	allZero := true
	for _, v := range b {
		if v != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		return nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be zero", kind)
	}
	return b, nil
}

// hexFromBytes left-pads b to 32 bytes and hex-encodes it.
func hexFromBytes(b []byte) string {
	buf := make([]byte, 32)
	if len(b) > 32 {
		b = b[len(b)-32:]
	}
	copy(buf[32-len(b):], b)
	return hex.EncodeToString(buf)
}
