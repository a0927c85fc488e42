package claims

import (
	"crypto/sha256"
	"encoding/binary"
	"hash"
	"math/big"

	"attesto/pkg/domain"
)

// Requirement derives the hash that names a verification context: which claim
// was required, under which salt, and the relying party's policy tag. It
// carries no attribute data, so receipts and audit events can reference the
// requirement without touching PII. Parts are length-prefixed to keep the
// encoding injective.
func Requirement(claimID domain.ClaimID, salt *big.Int, policyTag string) domain.RequirementHash {
	h := sha256.New()
	writePart(h, []byte(claimID))
	writePart(h, salt.Bytes())
	writePart(h, []byte(policyTag))
	return domain.RequirementHashFromBytes(h.Sum(nil))
}

func writePart(h hash.Hash, part []byte) {
	var size [4]byte
	binary.BigEndian.PutUint32(size[:], uint32(len(part)))
	h.Write(size[:])
	h.Write(part)
}
