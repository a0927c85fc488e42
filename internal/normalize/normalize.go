// Package normalize canonicalizes raw attribute strings before hashing.
//
// The policy is fixed and not configurable: proof generation and the
// passport-side digest pipeline must apply exactly the same rule, or the
// name-match claim becomes unsatisfiable for legitimate holders. Any change
// here invalidates every previously issued reference digest.
//
// Policy, in order:
//  1. Unicode NFKD decomposition with combining-mark removal (folds "José"
//     and "José" to "Jose", expands compatibility forms like "ﬁ"),
//  2. lowercase,
//  3. trim leading/trailing whitespace,
//  4. collapse internal whitespace runs to a single space.
package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldMarks strips diacritics: decompose, drop the combining marks, recompose
// what remains.
var foldMarks = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize applies the canonical attribute policy. It is deterministic,
// total, and idempotent: Normalize(Normalize(s)) == Normalize(s).
func Normalize(raw string) string {
	folded, _, err := transform.String(foldMarks, raw)
	if err != nil {
		// The chain only fails on transformer-internal limits; stay total and
		// continue with the undecomposed input.
		folded = raw
	}
	lowered := strings.ToLower(folded)
	return strings.Join(strings.Fields(lowered), " ")
}

// Equal reports whether two raw strings canonicalize to the same value.
func Equal(a, b string) bool {
	return Normalize(a) == Normalize(b)
}
