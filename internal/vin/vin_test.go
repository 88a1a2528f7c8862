package vin

import (
	"errors"
	"strings"
	"testing"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"1hgcm82633a004352", "1HGCM82633A004352"},
		{" 1HG-CM8 2633a00.4352 ", "1HGCM82633A004352"},
		{"", ""},
		{"---", ""},
		{"abc123", "ABC123"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Errorf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestNormalizeIdempotent(t *testing.T) {
	inputs := []string{"1hgcm82633a004352", "a-b-c 123", "", "ZZ99", "vin with spaces"}
	for _, in := range inputs {
		once := Normalize(in)
		if twice := Normalize(once); twice != once {
			t.Errorf("Normalize not idempotent for %q: %q != %q", in, once, twice)
		}
	}
}

func TestValidateRulePriority(t *testing.T) {
	cases := []struct {
		name string
		in   string
		rule Rule
	}{
		{"letter O wins over everything", "OIQ", RuleLetterO},
		{"letter O wins over length", "O12", RuleLetterO},
		{"letter I next", "IQ1", RuleLetterI},
		{"letter Q next", "Q12", RuleLetterQ},
		{"length last", "1HGCM8263", RuleLength},
		{"empty is a length failure", "", RuleLength},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Validate(tc.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Validate(%q) = %v, want ValidationError", tc.in, err)
			}
			if verr.Rule != tc.rule {
				t.Fatalf("Validate(%q) rule = %d, want %d", tc.in, verr.Rule, tc.rule)
			}
			if verr.Message == "" {
				t.Fatal("validation error has no user-facing message")
			}
		})
	}
}

func TestValidateAccepts17CharVIN(t *testing.T) {
	if err := Validate("1HGCM82633A004352"); err != nil {
		t.Fatalf("Validate rejected a valid VIN: %v", err)
	}
}

func TestValidateMessagesNameSubstitutes(t *testing.T) {
	oErr := Validate("O0000000000000000")
	if oErr == nil || !strings.Contains(oErr.Error(), "0") {
		t.Errorf("letter-O message should point at digit 0: %v", oErr)
	}
	iErr := Validate("1I000000000000000")
	if iErr == nil || !strings.Contains(iErr.Error(), "1") {
		t.Errorf("letter-I message should point at digit 1: %v", iErr)
	}
}

func TestHasIllegalLetters(t *testing.T) {
	if !HasIllegalLetters("1HGCO82633A004352") {
		t.Error("expected O to be flagged")
	}
	if HasIllegalLetters("1HGCM82633A004352") {
		t.Error("clean VIN flagged")
	}
}

func TestLookupURL(t *testing.T) {
	got := LookupURL("1HGCM82633A004352")
	want := LookupBaseURL + "?vin=1HGCM82633A004352"
	if got != want {
		t.Fatalf("LookupURL = %q, want %q", got, want)
	}
}
