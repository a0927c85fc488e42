// Package attestation hosts the stable, minimal DTOs shared across services
// for attribute-verification traffic. Keep these PII-light and versioned
// independently from any internal circuit or persistence models.
package attestation

// ContractVersion identifies the contract schema version for compatibility checks.
// Bump on breaking changes to the shapes below; consumers can pin or roll forward.
const ContractVersion = "v0.1.0"

// ProofBundle is the unit a holder submits for verification: the claim it
// targets, the opaque proof blob, and the ordered public inputs the proof was
// generated against. Public inputs travel as decimal field-element strings
// because BN254 scalars exceed 64-bit integers.
type ProofBundle struct {
	ContractVersion string   `json:"contract_version"`
	ClaimID         string   `json:"claim_id"`
	Proof           []byte   `json:"proof"`
	PublicInputs    []string `json:"public_inputs"`
	RequirementHash string   `json:"requirement_hash"`
}

// VerificationResult is the verifier's answer: one boolean per sub-claim plus
// the nullifier the outcome is keyed on. A false entry means the predicate did
// not hold; it is a valid outcome, not an error.
type VerificationResult struct {
	ContractVersion string          `json:"contract_version"`
	ClaimID         string          `json:"claim_id"`
	Results         map[string]bool `json:"results"`
	Nullifier       string          `json:"nullifier"`
	ReceiptID       string          `json:"receipt_id,omitempty"`
	VerifiedAt      string          `json:"verified_at"`
}

// VerificationReceipt is the persisted record of a consumed nullifier. Used
// transitions false to true exactly once and never back.
type VerificationReceipt struct {
	ContractVersion string `json:"contract_version"`
	Nullifier       string `json:"nullifier"`
	ClaimID         string `json:"claim_id"`
	RequirementHash string `json:"requirement_hash"`
	Timestamp       string `json:"timestamp"`
	Used            bool   `json:"used"`
}

// VerificationEvent is emitted on every terminal verification outcome,
// acceptance or rejection, for the audit/compliance stream. IdentityRef names
// the relying party that submitted the bundle, never the holder.
type VerificationEvent struct {
	ContractVersion string `json:"contract_version"`
	IdentityRef     string `json:"identity_ref"`
	ClaimID         string `json:"claim_id"`
	RequirementHash string `json:"requirement_hash"`
	Nullifier       string `json:"nullifier"`
	Timestamp       string `json:"timestamp"`
	Accepted        bool   `json:"accepted"`
	Reason          string `json:"reason,omitempty"`
}
