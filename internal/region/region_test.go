package region

import "testing"

func TestLookup(t *testing.T) {
	cases := []struct {
		zip  string
		want string
	}{
		{"94105", "San Mateo County"},
		{"94010", "San Mateo County"},
		{"94601", "Alameda County"},
		{"95112", "Santa Clara County"},
		{"95814", "Sacramento County"},
		{"90012", "Los Angeles County"},
		{"92101", "San Diego County"},
		{"96001", "Shasta County"},
		{"12", DefaultRegion},      // too short
		{"", DefaultRegion},        // empty
		{"ab105", DefaultRegion},   // non-numeric prefix
		{"99999", DefaultRegion},   // outside every range
		{"10001", DefaultRegion},   // out of state
	}
	for _, tc := range cases {
		if got := Lookup(tc.zip); got != tc.want {
			t.Errorf("Lookup(%q) = %q, want %q", tc.zip, got, tc.want)
		}
	}
}

func TestLookupIgnoresSuffix(t *testing.T) {
	// Only the 3-digit prefix participates in the match.
	if Lookup("941xx") != "San Mateo County" {
		t.Error("suffix characters should not affect the lookup")
	}
}
