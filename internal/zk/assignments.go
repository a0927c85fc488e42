package zk

import (
	"math/big"

	"github.com/consensys/gnark/frontend"

	"attesto/internal/claims"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// blankCircuit returns the compile-time shape of a claim's circuit, claim tag
// included. Compiling an unknown claim is a wiring bug, not caller input.
func blankCircuit(id domain.ClaimID) (frontend.Circuit, error) {
	switch id {
	case domain.ClaimOver18:
		return NewOver18Circuit(), nil
	case domain.ClaimNameMatch:
		return NewNameMatchCircuit(), nil
	case domain.ClaimIdentityAttestation:
		return NewIdentityAttestationCircuit(), nil
	default:
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "no circuit for claim %s", id)
	}
}

// fullAssignment maps named prover inputs onto the circuit struct for proving.
// Callers validate the inputs against the claim spec first; a missing name
// here would surface as an unsatisfiable witness, so we fail fast instead.
func fullAssignment(id domain.ClaimID, private, public claims.Inputs) (frontend.Circuit, error) {
	pick := func(in claims.Inputs, name string) (*big.Int, error) {
		v, ok := in[name]
		if !ok || v == nil {
			return nil, dErrors.Newf(dErrors.CodeInvalidInputShape, "missing input %s", name)
		}
		return v, nil
	}

	switch id {
	case domain.ClaimOver18:
		c := NewOver18Circuit()
		for _, bind := range []struct {
			in   claims.Inputs
			name string
			dst  *frontend.Variable
		}{
			{private, claims.FieldBirthYear, &c.BirthYear},
			{private, claims.FieldBirthMonth, &c.BirthMonth},
			{private, claims.FieldBirthDay, &c.BirthDay},
			{private, claims.FieldIdentitySecret, &c.IdentitySecret},
			{public, claims.FieldCurrentYear, &c.CurrentYear},
			{public, claims.FieldCurrentMonth, &c.CurrentMonth},
			{public, claims.FieldCurrentDay, &c.CurrentDay},
			{public, claims.FieldSalt, &c.Salt},
			{public, claims.FieldNullifier, &c.Nullifier},
			{public, claims.FieldOver18, &c.OverEighteen},
		} {
			v, err := pick(bind.in, bind.name)
			if err != nil {
				return nil, err
			}
			*bind.dst = v
		}
		return c, nil

	case domain.ClaimNameMatch:
		c := NewNameMatchCircuit()
		for _, bind := range []struct {
			in   claims.Inputs
			name string
			dst  *frontend.Variable
		}{
			{private, claims.FieldPassportNameDigest, &c.PassportNameDigest},
			{private, claims.FieldSubmittedNameDigest, &c.SubmittedNameDigest},
			{private, claims.FieldIdentitySecret, &c.IdentitySecret},
			{public, claims.FieldSalt, &c.Salt},
			{public, claims.FieldNullifier, &c.Nullifier},
			{public, claims.FieldNameMatch, &c.NameMatches},
		} {
			v, err := pick(bind.in, bind.name)
			if err != nil {
				return nil, err
			}
			*bind.dst = v
		}
		return c, nil

	case domain.ClaimIdentityAttestation:
		c := NewIdentityAttestationCircuit()
		for _, bind := range []struct {
			in   claims.Inputs
			name string
			dst  *frontend.Variable
		}{
			{private, claims.FieldBirthYear, &c.BirthYear},
			{private, claims.FieldBirthMonth, &c.BirthMonth},
			{private, claims.FieldBirthDay, &c.BirthDay},
			{private, claims.FieldPassportNameDigest, &c.PassportNameDigest},
			{private, claims.FieldSubmittedNameDigest, &c.SubmittedNameDigest},
			{private, claims.FieldIdentitySecret, &c.IdentitySecret},
			{public, claims.FieldCurrentYear, &c.CurrentYear},
			{public, claims.FieldCurrentMonth, &c.CurrentMonth},
			{public, claims.FieldCurrentDay, &c.CurrentDay},
			{public, claims.FieldSalt, &c.Salt},
			{public, claims.FieldNullifier, &c.Nullifier},
			{public, claims.FieldOver18, &c.OverEighteen},
			{public, claims.FieldNameMatch, &c.NameMatches},
		} {
			v, err := pick(bind.in, bind.name)
			if err != nil {
				return nil, err
			}
			*bind.dst = v
		}
		return c, nil

	default:
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "no circuit for claim %s", id)
	}
}

// publicAssignment maps an ordered public input sequence onto the circuit
// struct for verification. The sequence order is the claim schema order, which
// is also the struct's public field declaration order.
func publicAssignment(id domain.ClaimID, seq []*big.Int) (frontend.Circuit, error) {
	fill := func(n int, dst ...*frontend.Variable) error {
		if len(seq) != n {
			return dErrors.Newf(dErrors.CodeMalformedPublicInputs, "expected %d public inputs, got %d", n, len(seq))
		}
		for i, d := range dst {
			*d = seq[i]
		}
		return nil
	}

	switch id {
	case domain.ClaimOver18:
		c := NewOver18Circuit()
		if err := fill(6, &c.CurrentYear, &c.CurrentMonth, &c.CurrentDay, &c.Salt, &c.Nullifier, &c.OverEighteen); err != nil {
			return nil, err
		}
		return c, nil
	case domain.ClaimNameMatch:
		c := NewNameMatchCircuit()
		if err := fill(3, &c.Salt, &c.Nullifier, &c.NameMatches); err != nil {
			return nil, err
		}
		return c, nil
	case domain.ClaimIdentityAttestation:
		c := NewIdentityAttestationCircuit()
		if err := fill(7, &c.CurrentYear, &c.CurrentMonth, &c.CurrentDay, &c.Salt, &c.Nullifier, &c.OverEighteen, &c.NameMatches); err != nil {
			return nil, err
		}
		return c, nil
	default:
		return nil, dErrors.Newf(dErrors.CodeInvariantViolation, "no circuit for claim %s", id)
	}
}
