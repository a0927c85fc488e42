// Package domainerrors provides code-carrying errors for the domain layer.
//
// Services and models return these so transports can translate outcomes into
// protocol responses without string matching. Stores do NOT use this package;
// they return pkg/platform/sentinel errors which services translate here.
//
// Usage:
//
//	return dErrors.New(dErrors.CodeUnknownClaim, "claim is not registered")
//	return dErrors.Wrap(err, dErrors.CodeInternal, "failed to persist receipt")
//	if dErrors.HasCode(err, dErrors.CodeProofAlreadyUsed) { ... }
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code classifies a domain error for programmatic handling.
type Code string

// Generic codes shared by every domain.
const (
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeBadRequest         Code = "bad_request"
	CodeNotFound           Code = "not_found"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeConflict           Code = "conflict"
	CodeRateLimited        Code = "rate_limited"
	CodeTimeout            Code = "timeout"
	CodeUnavailable        Code = "unavailable"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Claim-verification codes. One per terminal failure kind so callers can act
// on the outcome (retry, fix input, reject) without parsing messages.
const (
	CodeUnknownClaim          Code = "unknown_claim"
	CodeDuplicateClaim        Code = "duplicate_claim"
	CodeInvalidInputShape     Code = "invalid_input_shape"
	CodeMalformedPublicInputs Code = "malformed_public_inputs"
	CodeProverUnavailable     Code = "prover_unavailable"
	CodeVerifierUnavailable   Code = "verifier_unavailable"
	CodeProofGenerationFailed Code = "proof_generation_failed"
	CodeProofInvalid          Code = "proof_invalid"
	CodeProofAlreadyUsed      Code = "proof_already_used"
)

// Error is a domain error with a stable code and a human-readable message.
// The wrapped cause, if any, is preserved for errors.Is/As chains but never
// serialized to clients.
type Error struct {
	Code    Code
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// New creates a domain error with the given code and message.
func New(code Code, message string) error {
	return &Error{Code: code, Message: message}
}

// Newf creates a domain error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying cause.
func Wrap(err error, code Code, message string) error {
	return &Error{Code: code, Message: message, cause: err}
}

// HasCode reports whether err (or anything it wraps) carries the given code.
func HasCode(err error, code Code) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Is is an alias for HasCode kept for readability at call sites that assert
// outcomes in tests.
func Is(err error, code Code) bool {
	return HasCode(err, code)
}

// CodeOf extracts the code from err, or CodeInternal when err carries none.
func CodeOf(err error) Code {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code
	}
	return CodeInternal
}

// MessageOf extracts the client-safe message from err. Wrapped causes are
// excluded; only the domain message is returned.
func MessageOf(err error) string {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return ""
}

// ToHTTPStatus maps a domain code to its HTTP status.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeInvalidInput, CodeBadRequest,
		CodeInvalidInputShape, CodeMalformedPublicInputs:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound, CodeUnknownClaim:
		return http.StatusNotFound
	case CodeConflict, CodeProofAlreadyUsed:
		return http.StatusConflict
	case CodeRateLimited:
		return http.StatusTooManyRequests
	case CodeProofGenerationFailed, CodeProofInvalid:
		return http.StatusUnprocessableEntity
	case CodeTimeout:
		return http.StatusGatewayTimeout
	case CodeUnavailable, CodeProverUnavailable, CodeVerifierUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
