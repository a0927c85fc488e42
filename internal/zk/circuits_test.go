package zk

import (
	"math/big"
	"testing"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark/test"

	"attesto/pkg/domain"
)

// Fixed holder material for circuit tests. The nullifier in each assignment is
// derived from these with the real native pipeline, so the in-circuit
// recomputation must agree or every test here fails.
var (
	testSecret = big.NewInt(7_180_014)
	testSalt   = big.NewInt(551_231)
)

func boolWire(b bool) int64 {
	if b {
		return 1
	}
	return 0
}

func over18Assignment(dobY, dobM, dobD, curY, curM, curD int64, outcome bool) *Over18Circuit {
	c := NewOver18Circuit()
	c.BirthYear = dobY
	c.BirthMonth = dobM
	c.BirthDay = dobD
	c.IdentitySecret = testSecret
	c.CurrentYear = curY
	c.CurrentMonth = curM
	c.CurrentDay = curD
	c.Salt = testSalt
	c.Nullifier = NullifierFor(testSecret, domain.ClaimOver18, testSalt)
	c.OverEighteen = boolWire(outcome)
	return c
}

func nameMatchAssignment(passport, submitted *big.Int, outcome bool) *NameMatchCircuit {
	c := NewNameMatchCircuit()
	c.PassportNameDigest = passport
	c.SubmittedNameDigest = submitted
	c.IdentitySecret = testSecret
	c.Salt = testSalt
	c.Nullifier = NullifierFor(testSecret, domain.ClaimNameMatch, testSalt)
	c.NameMatches = boolWire(outcome)
	return c
}

func TestOver18Circuit_AdultProvesTrue(t *testing.T) {
	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewOver18Circuit(),
		over18Assignment(1990, 1, 1, 2026, 2, 20, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_MinorProvesFalse(t *testing.T) {
	// A failed claim is still a provable statement: the outcome wire is 0
	// and the proof goes through.
	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewOver18Circuit(),
		over18Assignment(2010, 1, 1, 2026, 2, 20, false),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_EighteenthBirthdayCounts(t *testing.T) {
	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewOver18Circuit(),
		over18Assignment(2008, 2, 20, 2026, 2, 20, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_OneDayShort(t *testing.T) {
	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewOver18Circuit(),
		over18Assignment(2008, 2, 21, 2026, 2, 20, false),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_LeapDayBirthday(t *testing.T) {
	// Born Feb 29 2008: not yet eighteen on Feb 28 2026, eighteen on Mar 1.
	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewOver18Circuit(),
		over18Assignment(2008, 2, 29, 2026, 2, 28, false),
		test.WithCurves(ecc.BN254),
	)
	assert.ProverSucceeded(
		NewOver18Circuit(),
		over18Assignment(2008, 2, 29, 2026, 3, 1, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_RejectsOverstatedOutcome(t *testing.T) {
	// A minor cannot claim the outcome wire is 1.
	assert := test.NewAssert(t)
	assert.ProverFailed(
		NewOver18Circuit(),
		over18Assignment(2010, 1, 1, 2026, 2, 20, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_RejectsUnderstatedOutcome(t *testing.T) {
	// The binding is exact equality, so an adult cannot prove 0 either.
	assert := test.NewAssert(t)
	assert.ProverFailed(
		NewOver18Circuit(),
		over18Assignment(1990, 1, 1, 2026, 2, 20, false),
		test.WithCurves(ecc.BN254),
	)
}

func TestOver18Circuit_RejectsForeignNullifier(t *testing.T) {
	assert := test.NewAssert(t)

	// An arbitrary nullifier does not satisfy the in-circuit derivation.
	w := over18Assignment(1990, 1, 1, 2026, 2, 20, true)
	w.Nullifier = new(big.Int).Add(NullifierFor(testSecret, domain.ClaimOver18, testSalt), big.NewInt(1))
	assert.ProverFailed(NewOver18Circuit(), w, test.WithCurves(ecc.BN254))

	// Neither does a nullifier derived for a different claim, because the
	// claim tag is baked into the circuit.
	w = over18Assignment(1990, 1, 1, 2026, 2, 20, true)
	w.Nullifier = NullifierFor(testSecret, domain.ClaimNameMatch, testSalt)
	assert.ProverFailed(NewOver18Circuit(), w, test.WithCurves(ecc.BN254))
}

func TestOver18Circuit_RejectsImpossibleDate(t *testing.T) {
	assert := test.NewAssert(t)
	assert.ProverFailed(
		NewOver18Circuit(),
		over18Assignment(1990, 13, 1, 2026, 2, 20, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestNameMatchCircuit_MatchingDigests(t *testing.T) {
	passport := NameDigest(testSalt, "John Smith")
	submitted := NameDigest(testSalt, "john   SMITH")

	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewNameMatchCircuit(),
		nameMatchAssignment(passport, submitted, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestNameMatchCircuit_DivergentDigestsProveFalse(t *testing.T) {
	passport := NameDigest(testSalt, "John Smith")
	submitted := NameDigest(testSalt, "John Smyth")

	assert := test.NewAssert(t)
	assert.ProverSucceeded(
		NewNameMatchCircuit(),
		nameMatchAssignment(passport, submitted, false),
		test.WithCurves(ecc.BN254),
	)
}

func TestNameMatchCircuit_RejectsClaimedMatch(t *testing.T) {
	passport := NameDigest(testSalt, "John Smith")
	submitted := NameDigest(testSalt, "John Smyth")

	assert := test.NewAssert(t)
	assert.ProverFailed(
		NewNameMatchCircuit(),
		nameMatchAssignment(passport, submitted, true),
		test.WithCurves(ecc.BN254),
	)
}

func TestIdentityAttestationCircuit_IndependentOutcomes(t *testing.T) {
	// A minor with a matching name proves (over_18=0, name_match=1). The
	// outcomes never collapse into a conjunction.
	passport := NameDigest(testSalt, "John Smith")
	submitted := NameDigest(testSalt, "john smith")

	build := func(over, name bool) *IdentityAttestationCircuit {
		c := NewIdentityAttestationCircuit()
		c.BirthYear = 2010
		c.BirthMonth = 1
		c.BirthDay = 1
		c.PassportNameDigest = passport
		c.SubmittedNameDigest = submitted
		c.IdentitySecret = testSecret
		c.CurrentYear = 2026
		c.CurrentMonth = 2
		c.CurrentDay = 20
		c.Salt = testSalt
		c.Nullifier = NullifierFor(testSecret, domain.ClaimIdentityAttestation, testSalt)
		c.OverEighteen = boolWire(over)
		c.NameMatches = boolWire(name)
		return c
	}

	assert := test.NewAssert(t)
	assert.ProverSucceeded(NewIdentityAttestationCircuit(), build(false, true), test.WithCurves(ecc.BN254))
	assert.ProverFailed(NewIdentityAttestationCircuit(), build(true, true), test.WithCurves(ecc.BN254))
}
