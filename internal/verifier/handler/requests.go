package handler

import (
	"strings"

	attestation "attesto/contracts/attestation"
	dErrors "attesto/pkg/domain-errors"
)

// maxPublicInputs bounds the public input sequence before any parsing; the
// widest registered schema carries 7 values.
const maxPublicInputs = 64

// VerifyRequest is the HTTP request body for POST /v1/verify. It mirrors the
// attestation ProofBundle contract; Proof travels base64-encoded as JSON
// bytes do.
type VerifyRequest struct {
	ContractVersion string   `json:"contract_version"`
	ClaimID         string   `json:"claim_id"`
	Proof           []byte   `json:"proof"`
	PublicInputs    []string `json:"public_inputs"`
	RequirementHash string   `json:"requirement_hash"`
}

// Validate validates the request shape. Field-element and schema validation
// stay in the service; this only rejects bodies no claim could accept.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *VerifyRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request body is required")
	}

	if r.ContractVersion != "" && r.ContractVersion != attestation.ContractVersion {
		return dErrors.Newf(dErrors.CodeValidation,
			"contract_version %q is not supported, expected %s", r.ContractVersion, attestation.ContractVersion)
	}

	r.ClaimID = strings.TrimSpace(r.ClaimID)
	if r.ClaimID == "" {
		return dErrors.New(dErrors.CodeValidation, "claim_id is required")
	}

	if len(r.Proof) == 0 {
		return dErrors.New(dErrors.CodeValidation, "proof is required")
	}

	if len(r.PublicInputs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "public_inputs are required")
	}
	if len(r.PublicInputs) > maxPublicInputs {
		return dErrors.Newf(dErrors.CodeValidation, "public_inputs must carry at most %d values", maxPublicInputs)
	}

	r.RequirementHash = strings.TrimSpace(r.RequirementHash)
	if r.RequirementHash == "" {
		return dErrors.New(dErrors.CodeValidation, "requirement_hash is required")
	}

	return nil
}

// Bundle returns the request as the contract type the service consumes.
func (r *VerifyRequest) Bundle() attestation.ProofBundle {
	return attestation.ProofBundle{
		ContractVersion: r.ContractVersion,
		ClaimID:         r.ClaimID,
		Proof:           r.Proof,
		PublicInputs:    r.PublicInputs,
		RequirementHash: r.RequirementHash,
	}
}
