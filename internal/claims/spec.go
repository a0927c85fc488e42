// Package claims declares the fixed set of verifiable claims: each claim's
// input schema, its boolean predicate, and the requirement hash that names a
// verification context.
//
// Predicates here are the native mirror of the circuit constraints. The
// prover evaluates them to learn the expected outputs before proving; the
// circuit then enforces that the claimed outputs equal the recomputed ones.
// A predicate that is false is a valid, provable outcome, never an error.
//
// Salt caveat: the context salt is public and shared by both digest sides, so
// it defeats precomputed rainbow tables over common names but does not stop
// targeted guessing against a known digest. Treat leaked digests as sensitive.
package claims

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// FieldKind classifies an input field and defines its value domain.
type FieldKind string

const (
	// KindYear is a calendar year in [1, 9999].
	KindYear FieldKind = "year"
	// KindMonth is a calendar month in [1, 12].
	KindMonth FieldKind = "month"
	// KindDay is a calendar day in [1, 31].
	KindDay FieldKind = "day"
	// KindField is an arbitrary BN254 scalar field element.
	KindField FieldKind = "field"
	// KindDigest is a field element produced by the MiMC digest pipeline.
	KindDigest FieldKind = "digest"
	// KindBool is a claim output: exactly 0 or 1.
	KindBool FieldKind = "bool"
)

// frModulus is the BN254 scalar field modulus; every input must lie below it.
var frModulus = fr.Modulus()

// InDomain reports whether v is a valid value for the kind.
func (k FieldKind) InDomain(v *big.Int) bool {
	if v == nil || v.Sign() < 0 || v.Cmp(frModulus) >= 0 {
		return false
	}
	switch k {
	case KindYear:
		return v.IsInt64() && v.Int64() >= 1 && v.Int64() <= 9999
	case KindMonth:
		return v.IsInt64() && v.Int64() >= 1 && v.Int64() <= 12
	case KindDay:
		return v.IsInt64() && v.Int64() >= 1 && v.Int64() <= 31
	case KindBool:
		return v.IsInt64() && (v.Int64() == 0 || v.Int64() == 1)
	default:
		return true
	}
}

// Field is one named, typed input in a claim schema.
type Field struct {
	Name string
	Kind FieldKind
}

// Inputs maps field names to their circuit-encoded values.
type Inputs map[string]*big.Int

// Predicate evaluates a claim natively over encoded inputs. It returns one
// boolean per declared output. Missing or out-of-domain inputs are reported
// as CodeInvalidInputShape.
type Predicate func(private, public Inputs) (map[string]bool, error)

// Spec declares a claim: its identity, the ordered private and public input
// schemas, and the native predicate. Public ordering is load-bearing: it is
// the exact order public witness values serialize in, so the verifier can
// validate and extract by position. Specs are immutable once registered.
type Spec struct {
	ID        domain.ClaimID
	Private   []Field
	Public    []Field
	Predicate Predicate
}

// Outputs returns the names of the boolean output fields, in public order.
func (s Spec) Outputs() []string {
	var out []string
	for _, f := range s.Public {
		if f.Kind == KindBool {
			out = append(out, f.Name)
		}
	}
	return out
}

// PublicIndex returns the position of a public field by name, or -1.
func (s Spec) PublicIndex(name string) int {
	for i, f := range s.Public {
		if f.Name == name {
			return i
		}
	}
	return -1
}

// CheckInputs verifies that both input maps carry exactly the declared
// fields, each within its kind's domain. Used by the proof requester before
// it touches the prover backend.
//
// Errors: CodeInvalidInputShape naming the first offending field.
func (s Spec) CheckInputs(private, public Inputs) error {
	if err := checkAgainstSchema(s.Private, private, "private"); err != nil {
		return err
	}
	return checkAgainstSchema(s.Public, public, "public")
}

// ValidatePublicSeq verifies an ordered public input sequence against the
// schema: exact length, every value in its field's domain. This is the
// verifier's structural check; it runs before any cryptography.
//
// Errors: CodeMalformedPublicInputs.
func (s Spec) ValidatePublicSeq(values []*big.Int) error {
	if len(values) != len(s.Public) {
		return dErrors.Newf(dErrors.CodeMalformedPublicInputs,
			"claim %s expects %d public inputs, got %d", s.ID, len(s.Public), len(values))
	}
	for i, f := range s.Public {
		if !f.Kind.InDomain(values[i]) {
			return dErrors.Newf(dErrors.CodeMalformedPublicInputs,
				"public input %s is outside the %s domain", f.Name, f.Kind)
		}
	}
	return nil
}

// PublicSeq flattens named public inputs into schema order, the layout the
// proving backend serializes.
//
// Errors: CodeInvalidInputShape if a declared field is absent.
func (s Spec) PublicSeq(public Inputs) ([]*big.Int, error) {
	out := make([]*big.Int, len(s.Public))
	for i, f := range s.Public {
		v, ok := public[f.Name]
		if !ok {
			return nil, dErrors.Newf(dErrors.CodeInvalidInputShape, "missing public input %s", f.Name)
		}
		out[i] = v
	}
	return out, nil
}

func checkAgainstSchema(schema []Field, in Inputs, side string) error {
	if len(in) != len(schema) {
		return dErrors.Newf(dErrors.CodeInvalidInputShape,
			"%s inputs carry %d fields, schema declares %d", side, len(in), len(schema))
	}
	for _, f := range schema {
		v, ok := in[f.Name]
		if !ok {
			return dErrors.Newf(dErrors.CodeInvalidInputShape, "missing %s input %s", side, f.Name)
		}
		if !f.Kind.InDomain(v) {
			return dErrors.Newf(dErrors.CodeInvalidInputShape,
				"%s input %s is outside the %s domain", side, f.Name, f.Kind)
		}
	}
	return nil
}
