package zk

import (
	"math/big"

	"github.com/consensys/gnark/frontend"
	"github.com/consensys/gnark/std/hash/mimc"
	"github.com/consensys/gnark/std/math/cmp"

	"attesto/internal/claims"
	"attesto/pkg/domain"
)

// The circuits mirror the claim predicates in internal/claims constraint for
// constraint. Outcome booleans are public inputs that the circuit recomputes
// and pins with AssertIsEqual, so a failed claim still yields a valid proof
// carrying a false outcome instead of an unprovable statement.
//
// Field declaration order is the public witness order. It must match the
// Public schema of the corresponding claims.Spec exactly.

// Over18Circuit proves that the hidden date of birth lies at least eighteen
// calendar years before the public current date.
type Over18Circuit struct {
	BirthYear      frontend.Variable `gnark:",secret"`
	BirthMonth     frontend.Variable `gnark:",secret"`
	BirthDay       frontend.Variable `gnark:",secret"`
	IdentitySecret frontend.Variable `gnark:",secret"`

	CurrentYear  frontend.Variable `gnark:",public"`
	CurrentMonth frontend.Variable `gnark:",public"`
	CurrentDay   frontend.Variable `gnark:",public"`
	Salt         frontend.Variable `gnark:",public"`
	Nullifier    frontend.Variable `gnark:",public"`
	OverEighteen frontend.Variable `gnark:",public"`

	claimTag *big.Int
}

// NewOver18Circuit returns the circuit with its claim tag baked in. The tag is
// a compile-time constant, not a witness value, so the compiled constraint
// system is specific to the over_18 claim.
func NewOver18Circuit() *Over18Circuit {
	return &Over18Circuit{claimTag: ClaimTag(domain.ClaimOver18)}
}

func (c *Over18Circuit) Define(api frontend.API) error {
	assertCalendarDate(api, c.BirthYear, c.BirthMonth, c.BirthDay)
	assertCalendarDate(api, c.CurrentYear, c.CurrentMonth, c.CurrentDay)
	api.AssertIsBoolean(c.OverEighteen)

	over := over18Gate(api,
		c.BirthYear, c.BirthMonth, c.BirthDay,
		c.CurrentYear, c.CurrentMonth, c.CurrentDay,
	)
	api.AssertIsEqual(c.OverEighteen, over)

	return bindNullifier(api, c.claimTag, c.IdentitySecret, c.Salt, c.Nullifier)
}

// NameMatchCircuit proves that the submitted name digest equals the passport
// name digest. Both digests are MiMC(salt, nameField) values prepared outside
// the circuit; in here only their equality is decided.
type NameMatchCircuit struct {
	PassportNameDigest  frontend.Variable `gnark:",secret"`
	SubmittedNameDigest frontend.Variable `gnark:",secret"`
	IdentitySecret      frontend.Variable `gnark:",secret"`

	Salt        frontend.Variable `gnark:",public"`
	Nullifier   frontend.Variable `gnark:",public"`
	NameMatches frontend.Variable `gnark:",public"`

	claimTag *big.Int
}

// NewNameMatchCircuit returns the circuit with its claim tag baked in.
func NewNameMatchCircuit() *NameMatchCircuit {
	return &NameMatchCircuit{claimTag: ClaimTag(domain.ClaimNameMatch)}
}

func (c *NameMatchCircuit) Define(api frontend.API) error {
	api.AssertIsBoolean(c.NameMatches)

	match := api.IsZero(api.Sub(c.PassportNameDigest, c.SubmittedNameDigest))
	api.AssertIsEqual(c.NameMatches, match)

	return bindNullifier(api, c.claimTag, c.IdentitySecret, c.Salt, c.Nullifier)
}

// IdentityAttestationCircuit combines the age and name statements in one
// proof. The two outcomes are pinned independently: an underage holder with a
// matching name proves (false, true), never a single conjunction.
type IdentityAttestationCircuit struct {
	BirthYear           frontend.Variable `gnark:",secret"`
	BirthMonth          frontend.Variable `gnark:",secret"`
	BirthDay            frontend.Variable `gnark:",secret"`
	PassportNameDigest  frontend.Variable `gnark:",secret"`
	SubmittedNameDigest frontend.Variable `gnark:",secret"`
	IdentitySecret      frontend.Variable `gnark:",secret"`

	CurrentYear  frontend.Variable `gnark:",public"`
	CurrentMonth frontend.Variable `gnark:",public"`
	CurrentDay   frontend.Variable `gnark:",public"`
	Salt         frontend.Variable `gnark:",public"`
	Nullifier    frontend.Variable `gnark:",public"`
	OverEighteen frontend.Variable `gnark:",public"`
	NameMatches  frontend.Variable `gnark:",public"`

	claimTag *big.Int
}

// NewIdentityAttestationCircuit returns the circuit with its claim tag baked in.
func NewIdentityAttestationCircuit() *IdentityAttestationCircuit {
	return &IdentityAttestationCircuit{claimTag: ClaimTag(domain.ClaimIdentityAttestation)}
}

func (c *IdentityAttestationCircuit) Define(api frontend.API) error {
	assertCalendarDate(api, c.BirthYear, c.BirthMonth, c.BirthDay)
	assertCalendarDate(api, c.CurrentYear, c.CurrentMonth, c.CurrentDay)
	api.AssertIsBoolean(c.OverEighteen)
	api.AssertIsBoolean(c.NameMatches)

	over := over18Gate(api,
		c.BirthYear, c.BirthMonth, c.BirthDay,
		c.CurrentYear, c.CurrentMonth, c.CurrentDay,
	)
	api.AssertIsEqual(c.OverEighteen, over)

	match := api.IsZero(api.Sub(c.PassportNameDigest, c.SubmittedNameDigest))
	api.AssertIsEqual(c.NameMatches, match)

	return bindNullifier(api, c.claimTag, c.IdentitySecret, c.Salt, c.Nullifier)
}

// assertCalendarDate range-constrains a year/month/day triple. An invalid
// witness makes the system unsatisfiable, so a prover cannot smuggle month 13
// past the calendar comparison.
func assertCalendarDate(api frontend.API, year, month, day frontend.Variable) {
	api.AssertIsLessOrEqual(1, year)
	api.AssertIsLessOrEqual(year, 9999)
	api.AssertIsLessOrEqual(1, month)
	api.AssertIsLessOrEqual(month, 12)
	api.AssertIsLessOrEqual(1, day)
	api.AssertIsLessOrEqual(day, 31)
}

// over18Gate returns 1 iff (birthYear+18, birthMonth, birthDay) is
// lexicographically at most (currentYear, currentMonth, currentDay). This is
// the same comparison claims.YearsReached performs natively, including the
// leap-day consequence that a Feb 29 birthday turns eighteen on Mar 1.
func over18Gate(api frontend.API, bY, bM, bD, cY, cM, cD frontend.Variable) frontend.Variable {
	thresholdYear := api.Add(bY, claims.AdultYears)

	yearBefore := cmp.IsLess(api, thresholdYear, cY)
	yearSame := api.IsZero(api.Sub(thresholdYear, cY))

	monthBefore := cmp.IsLess(api, bM, cM)
	monthSame := api.IsZero(api.Sub(bM, cM))
	dayReached := cmp.IsLessOrEqual(api, bD, cD)

	sameYear := api.And(yearSame, api.Or(monthBefore, api.And(monthSame, dayReached)))
	return api.Or(yearBefore, sameYear)
}

// bindNullifier recomputes MiMC(identitySecret, claimTag, salt) in-circuit and
// pins it to the public nullifier. The write order matches NullifierFor.
func bindNullifier(api frontend.API, tag *big.Int, secret, salt, nullifier frontend.Variable) error {
	h, err := mimc.NewMiMC(api)
	if err != nil {
		return err
	}
	h.Write(secret, tag, salt)
	api.AssertIsEqual(nullifier, h.Sum())
	return nil
}
