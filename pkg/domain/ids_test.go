package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "attesto/pkg/domain-errors"
)

// Receipt and event ids arrive as path segments and query parameters, so the
// parsers are a trust boundary: anything that is not a well-formed, non-nil
// uuid must be rejected with CodeInvalidInput.
func TestParseReceiptID(t *testing.T) {
	t.Run("accepts and normalizes a valid uuid", func(t *testing.T) {
		valid := uuid.New()
		id, err := ParseReceiptID(valid.String())
		require.NoError(t, err)
		assert.Equal(t, ReceiptID(valid), id)

		upper, err := ParseReceiptID("550E8400-E29B-41D4-A716-446655440000")
		require.NoError(t, err)
		assert.Equal(t, "550e8400-e29b-41d4-a716-446655440000", upper.String())
	})

	rejected := []struct {
		name  string
		input string
	}{
		{"empty string", ""},
		{"not a uuid", "not-a-uuid"},
		{"nil uuid", uuid.Nil.String()},
		{"whitespace only", "   "},
		{"sql injection", "'; DROP TABLE receipts;--"},
		{"path traversal", "../../../etc/passwd"},
		{"embedded null byte", "550e8400\x00-e29b-41d4-a716-446655440000"},
		{"zero-width space", "550e8400​-e29b-41d4-a716-446655440000"},
		{"oversized input", strings.Repeat("a", 1000)},
	}
	for _, tt := range rejected {
		t.Run("rejects "+tt.name, func(t *testing.T) {
			_, err := ParseReceiptID(tt.input)
			require.Error(t, err)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		})
	}
}

// Every uuid-backed id shares parseUUID, so one divergent parser would mean
// the shared path was bypassed.
func TestUUIDParsersAgree(t *testing.T) {
	parsers := map[string]func(string) error{
		"receipt id": func(s string) error { _, err := ParseReceiptID(s); return err },
		"event id":   func(s string) error { _, err := ParseEventID(s); return err },
	}

	valid := uuid.New().String()
	for name, parse := range parsers {
		assert.NoError(t, parse(valid), "%s rejected a valid uuid", name)
		for _, bad := range []string{"", "invalid", uuid.Nil.String()} {
			assert.Error(t, parse(bad), "%s accepted %q", name, bad)
		}
	}
}

func TestParsePartyID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"simple slug", "acme-checkout", false},
		{"with dots and underscores", "acme.web_2", false},
		{"single character", "a", false},
		{"empty", "", true},
		{"uppercase rejected", "Acme", true},
		{"leading punctuation rejected", "-acme", true},
		{"spaces rejected", "acme checkout", true},
		{"oversized", strings.Repeat("a", 65), true},
		{"injection attempt", "acme'; DROP TABLE parties;--", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePartyID(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.input, got.String())
		})
	}
}

func TestParseClaimID(t *testing.T) {
	t.Run("well-known ids parse", func(t *testing.T) {
		for _, known := range []ClaimID{ClaimOver18, ClaimNameMatch, ClaimIdentityAttestation} {
			got, err := ParseClaimID(known.String())
			require.NoError(t, err)
			assert.Equal(t, known, got)
		}
	})

	t.Run("rejects bad shapes", func(t *testing.T) {
		for _, input := range []string{"", "Over_18", "over 18", "over-18", strings.Repeat("x", 65)} {
			_, err := ParseClaimID(input)
			require.Error(t, err, "input %q", input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})

	t.Run("unregistered but well-formed ids are shape-valid", func(t *testing.T) {
		// Whether the claim exists is the registry's call, not the parser's.
		got, err := ParseClaimID("over_21")
		require.NoError(t, err)
		assert.Equal(t, ClaimID("over_21"), got)
	})
}

func TestParseNullifier(t *testing.T) {
	validHex := strings.Repeat("ab", 32)

	t.Run("accepts and normalizes hex", func(t *testing.T) {
		got, err := ParseNullifier(strings.ToUpper(validHex))
		require.NoError(t, err)
		assert.Equal(t, Nullifier(validHex), got)
	})

	t.Run("round-trips through bytes", func(t *testing.T) {
		raw := make([]byte, 32)
		for i := range raw {
			raw[i] = byte(i + 1)
		}
		n := NullifierFromBytes(raw)
		parsed, err := ParseNullifier(n.String())
		require.NoError(t, err)
		assert.Equal(t, n, parsed)
	})

	t.Run("left-pads short values", func(t *testing.T) {
		n := NullifierFromBytes([]byte{0x01})
		assert.Len(t, n.String(), 64)
		assert.Equal(t, Nullifier(strings.Repeat("0", 62)+"01"), n)
	})

	t.Run("rejects bad shapes", func(t *testing.T) {
		for _, input := range []string{"", "abc", strings.Repeat("zz", 32), strings.Repeat("00", 32), validHex + "ab"} {
			_, err := ParseNullifier(input)
			require.Error(t, err, "input %q", input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
		}
	})
}

func TestParseRequirementHash(t *testing.T) {
	validHex := strings.Repeat("0f", 32)

	got, err := ParseRequirementHash(validHex)
	require.NoError(t, err)
	assert.Equal(t, RequirementHash(validHex), got)

	_, err = ParseRequirementHash("not-hex")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
}
