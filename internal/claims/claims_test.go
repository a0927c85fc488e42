package claims

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

func over18Inputs(dob, current Date, secret, salt int64) (Inputs, Inputs) {
	private := Inputs{
		FieldBirthYear:      big.NewInt(int64(dob.Year)),
		FieldBirthMonth:     big.NewInt(int64(dob.Month)),
		FieldBirthDay:       big.NewInt(int64(dob.Day)),
		FieldIdentitySecret: big.NewInt(secret),
	}
	public := Inputs{
		FieldCurrentYear:  big.NewInt(int64(current.Year)),
		FieldCurrentMonth: big.NewInt(int64(current.Month)),
		FieldCurrentDay:   big.NewInt(int64(current.Day)),
		FieldSalt:         big.NewInt(salt),
		FieldNullifier:    big.NewInt(1),
		FieldOver18:       big.NewInt(0),
	}
	return private, public
}

func TestOver18Predicate(t *testing.T) {
	t.Run("adult evaluates true", func(t *testing.T) {
		private, public := over18Inputs(Date{1990, 1, 1}, Date{2026, 2, 20}, 7, 11)
		out, err := over18Predicate(private, public)
		require.NoError(t, err)
		assert.True(t, out[FieldOver18])
	})

	t.Run("minor evaluates false, not error", func(t *testing.T) {
		private, public := over18Inputs(Date{2010, 1, 1}, Date{2026, 2, 20}, 7, 11)
		out, err := over18Predicate(private, public)
		require.NoError(t, err)
		assert.False(t, out[FieldOver18])
	})

	t.Run("missing component is an input shape error", func(t *testing.T) {
		private, public := over18Inputs(Date{1990, 1, 1}, Date{2026, 2, 20}, 7, 11)
		delete(private, FieldBirthMonth)

		_, err := over18Predicate(private, public)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInputShape))
	})

	t.Run("out-of-calendar component is an input shape error", func(t *testing.T) {
		private, public := over18Inputs(Date{1990, 1, 1}, Date{2026, 2, 20}, 7, 11)
		private[FieldBirthMonth] = big.NewInt(13)

		_, err := over18Predicate(private, public)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInputShape))
	})
}

func TestNameMatchPredicate(t *testing.T) {
	t.Run("equal digests match", func(t *testing.T) {
		digest := big.NewInt(123456789)
		out, err := nameMatchPredicate(Inputs{
			FieldPassportNameDigest:  digest,
			FieldSubmittedNameDigest: new(big.Int).Set(digest),
			FieldIdentitySecret:      big.NewInt(7),
		}, nil)
		require.NoError(t, err)
		assert.True(t, out[FieldNameMatch])
	})

	t.Run("different digests report false", func(t *testing.T) {
		out, err := nameMatchPredicate(Inputs{
			FieldPassportNameDigest:  big.NewInt(123456789),
			FieldSubmittedNameDigest: big.NewInt(987654321),
			FieldIdentitySecret:      big.NewInt(7),
		}, nil)
		require.NoError(t, err)
		assert.False(t, out[FieldNameMatch])
	})
}

// TestIdentityAttestationPredicate_IndependentOutcomes checks the combined
// claim reports each sub-claim separately instead of collapsing them, so a
// relying party can see which one failed.
func TestIdentityAttestationPredicate_IndependentOutcomes(t *testing.T) {
	private, public := over18Inputs(Date{2010, 1, 1}, Date{2026, 2, 20}, 7, 11)
	private[FieldPassportNameDigest] = big.NewInt(42)
	private[FieldSubmittedNameDigest] = big.NewInt(42)
	public[FieldNameMatch] = big.NewInt(0)

	out, err := identityAttestationPredicate(private, public)
	require.NoError(t, err)

	assert.False(t, out[FieldOver18], "underage must evaluate false")
	assert.True(t, out[FieldNameMatch], "matching digests must evaluate true independently")
}

func TestValidatePublicSeq(t *testing.T) {
	spec := Over18Spec()

	valid := []*big.Int{
		big.NewInt(2026), big.NewInt(2), big.NewInt(20),
		big.NewInt(11), big.NewInt(99), big.NewInt(1),
	}

	t.Run("valid sequence passes", func(t *testing.T) {
		require.NoError(t, spec.ValidatePublicSeq(valid))
	})

	t.Run("wrong length is malformed", func(t *testing.T) {
		err := spec.ValidatePublicSeq(valid[:4])
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedPublicInputs))
	})

	t.Run("month outside domain is malformed", func(t *testing.T) {
		bad := append([]*big.Int{}, valid...)
		bad[1] = big.NewInt(13)
		err := spec.ValidatePublicSeq(bad)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedPublicInputs))
	})

	t.Run("non-boolean output is malformed", func(t *testing.T) {
		bad := append([]*big.Int{}, valid...)
		bad[5] = big.NewInt(2)
		err := spec.ValidatePublicSeq(bad)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedPublicInputs))
	})

	t.Run("value at the field modulus is malformed", func(t *testing.T) {
		bad := append([]*big.Int{}, valid...)
		bad[3] = new(big.Int).Set(frModulus)
		err := spec.ValidatePublicSeq(bad)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeMalformedPublicInputs))
	})
}

func TestPublicSeq_Ordering(t *testing.T) {
	spec := Over18Spec()
	_, public := over18Inputs(Date{1990, 1, 1}, Date{2026, 2, 20}, 7, 11)
	public[FieldNullifier] = big.NewInt(99)

	seq, err := spec.PublicSeq(public)
	require.NoError(t, err)
	require.Len(t, seq, 6)

	// Schema order: current y/m/d, salt, nullifier, over_18.
	assert.Equal(t, int64(2026), seq[0].Int64())
	assert.Equal(t, int64(2), seq[1].Int64())
	assert.Equal(t, int64(20), seq[2].Int64())
	assert.Equal(t, int64(11), seq[3].Int64())
	assert.Equal(t, int64(99), seq[4].Int64())
	assert.Equal(t, int64(0), seq[5].Int64())
}

func TestSpecOutputs(t *testing.T) {
	assert.Equal(t, []string{FieldOver18}, Over18Spec().Outputs())
	assert.Equal(t, []string{FieldNameMatch}, NameMatchSpec().Outputs())
	assert.Equal(t, []string{FieldOver18, FieldNameMatch}, IdentityAttestationSpec().Outputs())
}

func TestRequirement(t *testing.T) {
	salt := big.NewInt(11)

	t.Run("deterministic", func(t *testing.T) {
		a := Requirement(domain.ClaimOver18, salt, "checkout")
		b := Requirement(domain.ClaimOver18, big.NewInt(11), "checkout")
		assert.Equal(t, a, b)
	})

	t.Run("any component changes the hash", func(t *testing.T) {
		base := Requirement(domain.ClaimOver18, salt, "checkout")
		assert.NotEqual(t, base, Requirement(domain.ClaimNameMatch, salt, "checkout"))
		assert.NotEqual(t, base, Requirement(domain.ClaimOver18, big.NewInt(12), "checkout"))
		assert.NotEqual(t, base, Requirement(domain.ClaimOver18, salt, "signup"))
	})

	t.Run("length prefixing keeps parts from bleeding", func(t *testing.T) {
		// Without prefixes both would hash the byte stream 'a','b',0x01,'d'.
		a := Requirement(domain.ClaimID("ab"), big.NewInt(0x01), "d")
		b := Requirement(domain.ClaimID("a"), big.NewInt(0x6201), "d")
		assert.NotEqual(t, a, b)
	})
}
