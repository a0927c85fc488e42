package handler

import (
	"time"

	attestation "attesto/contracts/attestation"
	"attesto/internal/ledger"
	"attesto/internal/verifier"
)

// ReceiptsResponse is the HTTP response for GET /v1/receipts.
type ReceiptsResponse struct {
	Receipts []attestation.VerificationReceipt `json:"receipts"`
}

// ClaimResponse describes one registered claim.
type ClaimResponse struct {
	ClaimID            string   `json:"claim_id"`
	PrivateFields      []string `json:"private_fields"`
	PublicFields       []string `json:"public_fields"`
	Outputs            []string `json:"outputs"`
	Constraints        int      `json:"constraints,omitempty"`
	VerifyingKeyDigest string   `json:"verifying_key_digest,omitempty"`
}

// ClaimsResponse is the HTTP response for GET /v1/claims.
type ClaimsResponse struct {
	Claims []ClaimResponse `json:"claims"`
}

// FromResult converts a verification result to its wire contract.
func FromResult(result *verifier.Result) attestation.VerificationResult {
	return attestation.VerificationResult{
		ContractVersion: attestation.ContractVersion,
		ClaimID:         result.ClaimID.String(),
		Results:         result.Outcomes,
		Nullifier:       result.Nullifier.String(),
		ReceiptID:       result.Receipt.ID.String(),
		VerifiedAt:      result.VerifiedAt.UTC().Format(time.RFC3339Nano),
	}
}

// FromReceipt converts a stored receipt to its wire contract.
func FromReceipt(receipt *ledger.Receipt) attestation.VerificationReceipt {
	return attestation.VerificationReceipt{
		ContractVersion: attestation.ContractVersion,
		Nullifier:       receipt.Nullifier.String(),
		ClaimID:         receipt.ClaimID.String(),
		RequirementHash: receipt.RequirementHash.String(),
		Timestamp:       receipt.ConsumedAt.UTC().Format(time.RFC3339Nano),
		Used:            receipt.Used,
	}
}

// FromReceipts converts a receipt listing.
func FromReceipts(receipts []*ledger.Receipt) ReceiptsResponse {
	out := ReceiptsResponse{Receipts: make([]attestation.VerificationReceipt, 0, len(receipts))}
	for _, r := range receipts {
		out.Receipts = append(out.Receipts, FromReceipt(r))
	}
	return out
}

// FromDescriptors converts the registered claim descriptors.
func FromDescriptors(descriptors []verifier.ClaimDescriptor) ClaimsResponse {
	out := ClaimsResponse{Claims: make([]ClaimResponse, 0, len(descriptors))}
	for _, d := range descriptors {
		out.Claims = append(out.Claims, ClaimResponse{
			ClaimID:            d.ID.String(),
			PrivateFields:      d.PrivateFields,
			PublicFields:       d.PublicFields,
			Outputs:            d.Outputs,
			Constraints:        d.Constraints,
			VerifyingKeyDigest: d.VerifyingKeyDigest,
		})
	}
	return out
}
