// Package region maps California zip codes to the county name shown in
// the tester locator. The table is a fixed business asset keyed on the
// 3-digit zip prefix, not derived from any postal dataset at runtime.
package region

import "strconv"

// DefaultRegion is returned when a zip is too short, malformed, or
// outside every known prefix range.
const DefaultRegion = "California"

type prefixRange struct {
	lo, hi int
	name   string
}

// Ordered; the first range containing the prefix wins.
var ranges = []prefixRange{
	{900, 918, "Los Angeles County"},
	{919, 921, "San Diego County"},
	{922, 925, "Riverside County"},
	{926, 928, "Orange County"},
	{930, 931, "Ventura County"},
	{932, 933, "Kern County"},
	{934, 934, "Santa Barbara County"},
	{935, 935, "Kern County"},
	{936, 938, "Fresno County"},
	{939, 939, "Monterey County"},
	{940, 941, "San Mateo County"},
	{942, 942, "Sacramento County"},
	{943, 943, "Santa Clara County"},
	{944, 944, "San Mateo County"},
	{945, 948, "Alameda County"},
	{949, 949, "Marin County"},
	{950, 951, "Santa Clara County"},
	{952, 953, "San Joaquin County"},
	{954, 954, "Sonoma County"},
	{955, 955, "Humboldt County"},
	{956, 958, "Sacramento County"},
	{959, 959, "Nevada County"},
	{960, 960, "Shasta County"},
	{961, 961, "Nevada County"},
}

// Lookup resolves a zip code to a service-area name. Only the first
// three digits matter; anything unresolvable falls back to DefaultRegion.
func Lookup(zip string) string {
	if len(zip) < 3 {
		return DefaultRegion
	}
	prefix, err := strconv.Atoi(zip[:3])
	if err != nil {
		return DefaultRegion
	}
	for _, r := range ranges {
		if prefix >= r.lo && prefix <= r.hi {
			return r.name
		}
	}
	return DefaultRegion
}
