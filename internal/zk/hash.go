// Package zk is the proving backend: the claim circuits, the Groth16 engine
// that proves and verifies them, and the native hash helpers that must stay
// bit-compatible with the in-circuit constraints.
//
// Everything here hashes with MiMC over the BN254 scalar field because the
// same function has to run inside the circuits; swapping either side alone
// breaks every nullifier and name digest in existence.
package zk

import (
	"crypto/sha256"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"

	"attesto/internal/normalize"
	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// ToField maps arbitrary bytes into the scalar field: SHA-256, then reduce.
// The reduction bias is negligible for a 254-bit modulus.
func ToField(data []byte) *big.Int {
	sum := sha256.Sum256(data)
	v := new(big.Int).SetBytes(sum[:])
	return v.Mod(v, fr.Modulus())
}

// ClaimTag is the field element that binds a nullifier to its claim. It is
// baked into each circuit as a constant, so proofs cannot be replayed across
// claims even when their witness layouts coincide.
func ClaimTag(id domain.ClaimID) *big.Int {
	return ToField([]byte("attesto.claim." + id.String()))
}

// NameDigest produces the digest both sides of the name-match claim carry:
// MiMC(salt, toField(Normalize(rawName))). The passport registry and the
// holder must run this exact pipeline or the claim is unsatisfiable.
func NameDigest(salt *big.Int, rawName string) *big.Int {
	nameField := ToField([]byte(normalize.Normalize(rawName)))
	return MiMCSum(salt, nameField)
}

// NullifierFor derives the replay key MiMC(identitySecret, claimTag, salt).
// The circuit recomputes the same value and pins it to the public nullifier
// input, so the verifier can trust it without seeing the secret.
func NullifierFor(identitySecret *big.Int, claimID domain.ClaimID, salt *big.Int) *big.Int {
	return MiMCSum(identitySecret, ClaimTag(claimID), salt)
}

// NullifierKey converts a nullifier field element into its ledger key form.
func NullifierKey(n *big.Int) domain.Nullifier {
	var fe fr.Element
	fe.SetBigInt(n)
	b := fe.Bytes()
	return domain.NullifierFromBytes(b[:])
}

// MiMCSum hashes field elements with the native MiMC, writing each element as
// its canonical 32-byte encoding. This matches the in-circuit
// std/hash/mimc Write(a, b, c) + Sum() sequence element for element.
func MiMCSum(elems ...*big.Int) *big.Int {
	h := mimc.NewMiMC()
	for _, e := range elems {
		var fe fr.Element
		fe.SetBigInt(e)
		b := fe.Bytes()
		_, _ = h.Write(b[:])
	}
	return new(big.Int).SetBytes(h.Sum(nil))
}

// ParseFieldElement parses a decimal string into [0, r). Public inputs travel
// as decimal strings because BN254 scalars exceed 64-bit integers.
func ParseFieldElement(s string) (*big.Int, error) {
	if s == "" {
		return nil, dErrors.New(dErrors.CodeMalformedPublicInputs, "field element cannot be empty")
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, dErrors.Newf(dErrors.CodeMalformedPublicInputs, "field element %q is not a decimal integer", s)
	}
	if v.Sign() < 0 || v.Cmp(fr.Modulus()) >= 0 {
		return nil, dErrors.New(dErrors.CodeMalformedPublicInputs, "field element is outside the scalar field")
	}
	return v, nil
}

// FormatFieldElement renders a field element in its decimal wire form.
func FormatFieldElement(v *big.Int) string {
	return v.String()
}
