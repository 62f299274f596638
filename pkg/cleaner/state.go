// pkg/cleaner/state.go
package cleaner

import (
	"strings"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// validStates holds the 50 US state abbreviations
var validStates = map[string]struct{}{
	"AL": {}, "AK": {}, "AZ": {}, "AR": {}, "CA": {}, "CO": {}, "CT": {}, "DE": {}, "FL": {}, "GA": {},
	"HI": {}, "ID": {}, "IL": {}, "IN": {}, "IA": {}, "KS": {}, "KY": {}, "LA": {}, "ME": {}, "MD": {},
	"MA": {}, "MI": {}, "MN": {}, "MS": {}, "MO": {}, "MT": {}, "NE": {}, "NV": {}, "NH": {}, "NJ": {},
	"NM": {}, "NY": {}, "NC": {}, "ND": {}, "OH": {}, "OK": {}, "OR": {}, "PA": {}, "RI": {}, "SC": {},
	"SD": {}, "TN": {}, "TX": {}, "UT": {}, "VT": {}, "VA": {}, "WA": {}, "WV": {}, "WI": {}, "WY": {},
}

// NormalizeState trims and upper-cases a state value. It does not validate.
func NormalizeState(v interface{}) string {
	return strings.ToUpper(strings.TrimSpace(model.ValueString(v)))
}

// IsValidState reports whether a normalized value is a known state abbreviation
func IsValidState(normalized string) bool {
	_, ok := validStates[normalized]
	return ok
}

// StateNormalizer writes back normalized state values and reports unknown abbreviations.
// Normalization and validity are independent: "XX" is still written back.
type StateNormalizer struct {
	Schema model.Schema
}

// Name returns the stage name
func (s StateNormalizer) Name() string { return StageState }

// Apply normalizes the state column in place
func (s StateNormalizer) Apply(t *model.Table) (*model.Table, Outcome) {
	col := s.Schema.State
	if !t.HasColumn(col) {
		return t, missingColumn(StageState, col)
	}

	out := Outcome{Report: model.NewReport(StageState)}
	out.Report.Add("invalid", 0)
	out.Report.Add("normalized", 0)

	for i, row := range t.Rows {
		original := row.String(col)
		normalized := NormalizeState(row[col])

		if original != normalized {
			out.add(model.NewCorrection(model.StateNormalization, col, original, normalized, i,
				model.IdentityOf(row, s.Schema)))
			row[col] = normalized
			out.Report.Add("normalized", 1)
		}

		// Blank states are allowed
		if normalized != "" && !IsValidState(normalized) {
			out.add(model.NewFinding(model.InvalidState, col, original, i, model.IdentityOf(row, s.Schema)).
				WithDetail("normalized", normalized))
			out.Report.Flag(i, row)
			out.Report.Add("invalid", 1)
		}
	}

	return t, out
}
