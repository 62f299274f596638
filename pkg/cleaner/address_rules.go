// pkg/cleaner/address_rules.go
package cleaner

import (
	"regexp"
)

// Rule is one whole-word, case-insensitive rewrite applied to an address
type Rule struct {
	Pattern     *regexp.Regexp
	Replacement string
}

func wordRule(phrase, replacement string) Rule {
	return Rule{
		Pattern:     regexp.MustCompile(`(?i)\b` + phrase + `\b`),
		Replacement: replacement,
	}
}

// Each pass runs its rules in slice order, feeding the output of one rule into the
// next. The order is load-bearing: "Road" rewrites before "County Rd", so
// "County Road" ends up as "CR"; "Highway" rewrites before "State Highway", so that
// rule never fires on spaced input.
var (
	streetRules = []Rule{
		wordRule(`Street`, "St"),
		wordRule(`Avenue`, "Ave"),
		wordRule(`Boulevard`, "Blvd"),
		wordRule(`Drive`, "Dr"),
		wordRule(`Lane`, "Ln"),
		wordRule(`Road`, "Rd"),
		wordRule(`Circle`, "Cir"),
		wordRule(`Court`, "Ct"),
		wordRule(`Place`, "Pl"),
		wordRule(`Trail`, "Trl"),
		wordRule(`Parkway`, "Pkwy"),
		wordRule(`Highway`, "Hwy"),
		wordRule(`Way`, "Way"),
		wordRule(`Square`, "Sq"),
		wordRule(`Terrace`, "Ter"),
		wordRule(`Alley`, "Aly"),
		wordRule(`County Road`, "CR"),
		wordRule(`County Rd`, "CR"),
		{Pattern: regexp.MustCompile(`(?i)\bC\.R\.`), Replacement: "CR"},
		wordRule(`State Route`, "SR"),
		wordRule(`State Highway`, "SH"),
		wordRule(`Farm Road`, "FM"),
		wordRule(`Ranch Road`, "RR"),
		wordRule(`Garden`, "Gdn"),
		wordRule(`Gardens`, "Gdns"),
		wordRule(`Crescent`, "Cres"),
		wordRule(`Heights`, "Hts"),
		wordRule(`Creek`, "Crk"),
	}

	directionalRules = []Rule{
		wordRule(`North`, "N"),
		wordRule(`South`, "S"),
		wordRule(`East`, "E"),
		wordRule(`West`, "W"),
		wordRule(`Northeast`, "NE"),
		wordRule(`Northwest`, "NW"),
		wordRule(`Southeast`, "SE"),
		wordRule(`Southwest`, "SW"),
	}

	unitRules = []Rule{
		wordRule(`Apartment`, "Apt"),
		wordRule(`Suite`, "Ste"),
		wordRule(`Unit`, "Unit"),
		wordRule(`Building`, "Bldg"),
		wordRule(`Floor`, "Fl"),
		wordRule(`Room`, "Rm"),
		wordRule(`Office`, "Ofc"),
		wordRule(`Department`, "Dept"),
		wordRule(`Trailer`, "Trlr"),
		wordRule(`Space`, "Spc"),
		wordRule(`Lot`, "Lot"),
	}

	// Title casing lowers these; they are restored after a case conversion.
	// Replacements may reference the captured digit.
	uppercaseFixes = []Rule{
		{Pattern: regexp.MustCompile(`\bPo\b`), Replacement: "PO"},
		{Pattern: regexp.MustCompile(`\bCr\b`), Replacement: "CR"},
		{Pattern: regexp.MustCompile(`\bCr(\d)`), Replacement: "CR${1}"},
		{Pattern: regexp.MustCompile(`\bSr\b`), Replacement: "SR"},
		{Pattern: regexp.MustCompile(`\bSr(\d)`), Replacement: "SR${1}"},
		{Pattern: regexp.MustCompile(`\bUs\b`), Replacement: "US"},
		{Pattern: regexp.MustCompile(`\bUs(\d)`), Replacement: "US${1}"},
		{Pattern: regexp.MustCompile(`\bNe\b`), Replacement: "NE"},
		{Pattern: regexp.MustCompile(`\bNw\b`), Replacement: "NW"},
		{Pattern: regexp.MustCompile(`\bSe\b`), Replacement: "SE"},
		{Pattern: regexp.MustCompile(`\bSw\b`), Replacement: "SW"},
	}
)

// StreetRules returns a copy of the street-type pass
func StreetRules() []Rule { return append([]Rule(nil), streetRules...) }

// DirectionalRules returns a copy of the directional pass
func DirectionalRules() []Rule { return append([]Rule(nil), directionalRules...) }

// UnitRules returns a copy of the unit-type pass
func UnitRules() []Rule { return append([]Rule(nil), unitRules...) }

func applyRules(s string, rules []Rule) string {
	for _, r := range rules {
		s = r.Pattern.ReplaceAllString(s, r.Replacement)
	}
	return s
}
