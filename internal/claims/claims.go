package claims

import (
	"math/big"

	"attesto/pkg/domain"
	dErrors "attesto/pkg/domain-errors"
)

// Canonical input field names. The prover, the circuits and the verifier all
// key on these; the names never reach the wire (public inputs travel as an
// ordered sequence) but keep the three sides aligned.
const (
	FieldBirthYear           = "birth_year"
	FieldBirthMonth          = "birth_month"
	FieldBirthDay            = "birth_day"
	FieldPassportNameDigest  = "passport_name_digest"
	FieldSubmittedNameDigest = "submitted_name_digest"
	FieldIdentitySecret      = "identity_secret"

	FieldCurrentYear  = "current_year"
	FieldCurrentMonth = "current_month"
	FieldCurrentDay   = "current_day"
	FieldSalt         = "salt"
	FieldNullifier    = "nullifier"

	FieldOver18    = "over_18"
	FieldNameMatch = "name_match"
)

// AdultYears is the age threshold the over_18 claim proves.
const AdultYears = 18

// Over18Spec declares the age claim: the holder's date of birth stays
// private; the verification date, context salt, nullifier and the boolean
// outcome are public.
func Over18Spec() Spec {
	return Spec{
		ID: domain.ClaimOver18,
		Private: []Field{
			{Name: FieldBirthYear, Kind: KindYear},
			{Name: FieldBirthMonth, Kind: KindMonth},
			{Name: FieldBirthDay, Kind: KindDay},
			{Name: FieldIdentitySecret, Kind: KindField},
		},
		Public: []Field{
			{Name: FieldCurrentYear, Kind: KindYear},
			{Name: FieldCurrentMonth, Kind: KindMonth},
			{Name: FieldCurrentDay, Kind: KindDay},
			{Name: FieldSalt, Kind: KindField},
			{Name: FieldNullifier, Kind: KindField},
			{Name: FieldOver18, Kind: KindBool},
		},
		Predicate: over18Predicate,
	}
}

// NameMatchSpec declares the name claim: both digests stay private, the salt
// they were produced under is public. The predicate is digest equality; it
// does not re-derive the passport-side digest (document acquisition is
// upstream), which is the documented binding limitation.
func NameMatchSpec() Spec {
	return Spec{
		ID: domain.ClaimNameMatch,
		Private: []Field{
			{Name: FieldPassportNameDigest, Kind: KindDigest},
			{Name: FieldSubmittedNameDigest, Kind: KindDigest},
			{Name: FieldIdentitySecret, Kind: KindField},
		},
		Public: []Field{
			{Name: FieldSalt, Kind: KindField},
			{Name: FieldNullifier, Kind: KindField},
			{Name: FieldNameMatch, Kind: KindBool},
		},
		Predicate: nameMatchPredicate,
	}
}

// IdentityAttestationSpec composes the age and name predicates. The outcomes
// stay independent booleans so a relying party can tell which sub-claim
// failed; collapsing them into one AND inside the circuit would destroy that.
func IdentityAttestationSpec() Spec {
	return Spec{
		ID: domain.ClaimIdentityAttestation,
		Private: []Field{
			{Name: FieldBirthYear, Kind: KindYear},
			{Name: FieldBirthMonth, Kind: KindMonth},
			{Name: FieldBirthDay, Kind: KindDay},
			{Name: FieldPassportNameDigest, Kind: KindDigest},
			{Name: FieldSubmittedNameDigest, Kind: KindDigest},
			{Name: FieldIdentitySecret, Kind: KindField},
		},
		Public: []Field{
			{Name: FieldCurrentYear, Kind: KindYear},
			{Name: FieldCurrentMonth, Kind: KindMonth},
			{Name: FieldCurrentDay, Kind: KindDay},
			{Name: FieldSalt, Kind: KindField},
			{Name: FieldNullifier, Kind: KindField},
			{Name: FieldOver18, Kind: KindBool},
			{Name: FieldNameMatch, Kind: KindBool},
		},
		Predicate: identityAttestationPredicate,
	}
}

// over18Predicate is pure domain logic - no I/O, no side effects. It mirrors
// the circuit's calendar comparison exactly.
func over18Predicate(private, public Inputs) (map[string]bool, error) {
	dob, err := dateFrom(private, FieldBirthYear, FieldBirthMonth, FieldBirthDay)
	if err != nil {
		return nil, err
	}
	current, err := dateFrom(public, FieldCurrentYear, FieldCurrentMonth, FieldCurrentDay)
	if err != nil {
		return nil, err
	}
	return map[string]bool{FieldOver18: dob.YearsReached(AdultYears, current)}, nil
}

// nameMatchPredicate is pure domain logic - no I/O, no side effects.
func nameMatchPredicate(private, _ Inputs) (map[string]bool, error) {
	passport, err := fieldFrom(private, FieldPassportNameDigest)
	if err != nil {
		return nil, err
	}
	submitted, err := fieldFrom(private, FieldSubmittedNameDigest)
	if err != nil {
		return nil, err
	}
	return map[string]bool{FieldNameMatch: passport.Cmp(submitted) == 0}, nil
}

func identityAttestationPredicate(private, public Inputs) (map[string]bool, error) {
	age, err := over18Predicate(private, public)
	if err != nil {
		return nil, err
	}
	name, err := nameMatchPredicate(private, public)
	if err != nil {
		return nil, err
	}
	return map[string]bool{
		FieldOver18:    age[FieldOver18],
		FieldNameMatch: name[FieldNameMatch],
	}, nil
}

// dateFrom assembles a Date from three named inputs.
func dateFrom(in Inputs, yName, mName, dName string) (Date, error) {
	y, err := fieldFrom(in, yName)
	if err != nil {
		return Date{}, err
	}
	m, err := fieldFrom(in, mName)
	if err != nil {
		return Date{}, err
	}
	d, err := fieldFrom(in, dName)
	if err != nil {
		return Date{}, err
	}
	if !y.IsInt64() || !m.IsInt64() || !d.IsInt64() {
		return Date{}, dErrors.New(dErrors.CodeInvalidInputShape, "date components exceed the calendar domain")
	}
	date := Date{Year: int(y.Int64()), Month: int(m.Int64()), Day: int(d.Int64())}
	if !date.Valid() {
		return Date{}, dErrors.Newf(dErrors.CodeInvalidInputShape, "date %s is outside the calendar domain", date)
	}
	return date, nil
}

func fieldFrom(in Inputs, name string) (*big.Int, error) {
	v, ok := in[name]
	if !ok || v == nil {
		return nil, dErrors.Newf(dErrors.CodeInvalidInputShape, "missing input %s", name)
	}
	return v, nil
}
