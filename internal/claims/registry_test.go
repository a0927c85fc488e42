package claims

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

func TestRegistry(t *testing.T) {
	t.Run("registered specs are retrievable", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(Over18Spec()))

		spec, err := r.Get(domain.ClaimOver18)
		require.NoError(t, err)
		assert.Equal(t, domain.ClaimOver18, spec.ID)
	})

	t.Run("duplicate registration fails", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(Over18Spec()))

		err := r.Register(Over18Spec())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeDuplicateClaim))
	})

	t.Run("unknown claim lookup fails", func(t *testing.T) {
		r := NewRegistry()

		_, err := r.Get(domain.ClaimID("over_21"))
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeUnknownClaim))
	})

	t.Run("spec without predicate is rejected", func(t *testing.T) {
		r := NewRegistry()

		err := r.Register(Spec{ID: domain.ClaimID("hollow")})
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvariantViolation))
	})

	t.Run("list preserves registration order", func(t *testing.T) {
		r := NewRegistry()
		require.NoError(t, r.Register(NameMatchSpec()))
		require.NoError(t, r.Register(Over18Spec()))

		specs := r.List()
		require.Len(t, specs, 2)
		assert.Equal(t, domain.ClaimNameMatch, specs[0].ID)
		assert.Equal(t, domain.ClaimOver18, specs[1].ID)
	})
}

func TestDefault(t *testing.T) {
	r, err := Default()
	require.NoError(t, err)

	for _, id := range []domain.ClaimID{domain.ClaimOver18, domain.ClaimNameMatch, domain.ClaimIdentityAttestation} {
		spec, err := r.Get(id)
		require.NoError(t, err, "claim %s", id)
		assert.NotNil(t, spec.Predicate)
		assert.NotEmpty(t, spec.Public)
	}
}
