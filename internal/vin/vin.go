// Package vin validates vehicle identification numbers and drives the
// compliance-check hand-off to the state lookup site.
package vin

import (
	"fmt"
	"net/url"
	"strings"
)

// LookupBaseURL is the state compliance-status lookup page. The site has no
// API; the result is read by a human and self-reported back.
const LookupBaseURL = "https://cleantruckcheck.arb.ca.gov/Fleet/Vehicle/VehicleComplianceStatusLookup"

// Rule identifies which validation rule rejected an input.
type Rule int

const (
	RuleLetterO Rule = iota + 1
	RuleLetterI
	RuleLetterQ
	RuleLength
)

// ValidationError carries the first failing rule and its user-facing
// message. Rules are checked in a fixed priority order: O, then I, then Q,
// then length, so an input violating several reports the highest one.
type ValidationError struct {
	Rule    Rule
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Normalize upper-cases s and strips every non-alphanumeric rune. It is
// pure and idempotent, and runs on every input path (typed or scanned)
// before validation or storage.
func Normalize(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range strings.ToUpper(s) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks an already-normalized VIN against the rejection rules.
// VINs never contain the letters I, O, or Q; each gets its own message so
// the user knows what to retype.
func Validate(v string) error {
	if strings.ContainsRune(v, 'O') {
		return &ValidationError{
			Rule:    RuleLetterO,
			Message: "Invalid character: letter 'O' (Oh) is not allowed. Use number '0' (Zero).",
		}
	}
	if strings.ContainsRune(v, 'I') {
		return &ValidationError{
			Rule:    RuleLetterI,
			Message: "Invalid character: letter 'I' (Eye) is not allowed. Use number '1' (One).",
		}
	}
	if strings.ContainsRune(v, 'Q') {
		return &ValidationError{
			Rule:    RuleLetterQ,
			Message: "Invalid character: letter 'Q' is not allowed in VINs.",
		}
	}
	if len(v) < 17 {
		return &ValidationError{
			Rule:    RuleLength,
			Message: "Please enter a valid 17-character VIN.",
		}
	}
	return nil
}

// HasIllegalLetters reports whether v contains any of I, O, Q. Used to warn
// on scanner output before the user submits.
func HasIllegalLetters(v string) bool {
	return strings.ContainsAny(v, "IOQ")
}

// LookupURL builds the state lookup URL for a normalized VIN.
func LookupURL(v string) string {
	return fmt.Sprintf("%s?vin=%s", LookupBaseURL, url.QueryEscape(v))
}
