package domain

import (
	"github.com/google/uuid"

	dErrors "attesto/pkg/domain-errors"
)

// Typed identifiers backed by UUIDs. Distinct types prevent a receipt id from
// being passed where an event id belongs; the compiler enforces what code
// review would otherwise have to catch.
//
// Invariant: IDs must be valid, non-nil UUIDs. Construct via the ParseX
// functions at trust boundaries; NewX for fresh values.
type (
	// ReceiptID identifies a verification receipt.
	ReceiptID uuid.UUID

	// EventID identifies an audit event.
	EventID uuid.UUID
)

// NewReceiptID returns a fresh random receipt id.
func NewReceiptID() ReceiptID {
	return ReceiptID(uuid.New())
}

// NewEventID returns a fresh random event id.
func NewEventID() EventID {
	return EventID(uuid.New())
}

// ParseReceiptID parses a receipt id from external input.
func ParseReceiptID(s string) (ReceiptID, error) {
	u, err := parseUUID(s, "receipt id")
	if err != nil {
		return ReceiptID{}, err
	}
	return ReceiptID(u), nil
}

// ParseEventID parses an event id from external input.
func ParseEventID(s string) (EventID, error) {
	u, err := parseUUID(s, "event id")
	if err != nil {
		return EventID{}, err
	}
	return EventID(u), nil
}

func (r ReceiptID) String() string { return uuid.UUID(r).String() }
func (e EventID) String() string   { return uuid.UUID(e).String() }

// parseUUID is the shared validation for all UUID-backed ids: non-empty,
// well-formed, non-nil.
func parseUUID(s, kind string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be empty", kind)
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s is not a valid UUID", kind)
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.Newf(dErrors.CodeInvalidInput, "%s cannot be the nil UUID", kind)
	}
	return u, nil
}

// PartyID identifies a relying party. Parties are provisioned through
// configuration, so the id is an operator-chosen slug rather than a UUID.
// Invariant: 1-64 characters from [a-z0-9._-], starting with a letter or digit.
type PartyID string

// ParsePartyID constructs a PartyID from external input.
func ParsePartyID(s string) (PartyID, error) {
	if s == "" {
		return "", dErrors.New(dErrors.CodeInvalidInput, "party id cannot be empty")
	}
	if len(s) > 64 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "party id must be 64 characters or less")
	}
	for i, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		case (r == '.' || r == '_' || r == '-') && i > 0:
		default:
			return "", dErrors.New(dErrors.CodeInvalidInput, "party id must match [a-z0-9._-] and start alphanumeric")
		}
	}
	return PartyID(s), nil
}

// String returns the string representation of the party id.
func (p PartyID) String() string {
	return string(p)
}
