// pkg/cleaner/address.go
package cleaner

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

var (
	whitespaceRun = regexp.MustCompile(`\s+`)
	commaSpacing  = regexp.MustCompile(`\s*,\s*`)
	periodSpacing = regexp.MustCompile(`\s*\.\s*`)
	poBox         = regexp.MustCompile(`(?i)\bP\s*\.\s*O\s*\.\s*Box\b`)
	poBoxMask     = regexp.MustCompile(`POBOXMASK(\d+)X`)
)

// NormalizeSpacing collapses whitespace, puts a single space after commas and
// periods, and drops one trailing comma or period. P.O. Box tokens are masked
// while periods are respaced and restored exactly as written.
func NormalizeSpacing(address string) string {
	s := strings.TrimSpace(address)
	s = whitespaceRun.ReplaceAllString(s, " ")
	s = commaSpacing.ReplaceAllString(s, ", ")

	var masked []string
	s = poBox.ReplaceAllStringFunc(s, func(m string) string {
		masked = append(masked, m)
		return "POBOXMASK" + strconv.Itoa(len(masked)-1) + "X"
	})
	s = periodSpacing.ReplaceAllString(s, ". ")
	s = poBoxMask.ReplaceAllStringFunc(s, func(m string) string {
		idx, err := strconv.Atoi(poBoxMask.FindStringSubmatch(m)[1])
		if err != nil || idx >= len(masked) {
			return m
		}
		return masked[idx]
	})

	s = strings.TrimSpace(s)
	if strings.HasSuffix(s, ",") || strings.HasSuffix(s, ".") {
		s = s[:len(s)-1]
	}
	return strings.TrimSpace(s)
}

// ConvertCase title-cases an address whose letters are all upper case and then
// restores abbreviations such as PO, CR12 and NE. Periods and apostrophes start a
// new word, so "P.O.BOX" becomes "P.O.Box" and "O'CONNOR" becomes "O'Connor".
// Mixed-case input is returned as is.
func ConvertCase(address string) string {
	if !allUpper(address) {
		return address
	}
	return applyRules(titleWords(address), uppercaseFixes)
}

func titleWords(s string) string {
	caser := cases.Title(language.English)
	var b strings.Builder
	start := 0
	for i, r := range s {
		if r == '.' || r == '\'' {
			b.WriteString(caser.String(s[start:i]))
			b.WriteRune(r)
			start = i + 1
		}
	}
	b.WriteString(caser.String(s[start:]))
	return b.String()
}

// StandardizeStreet applies the street-type pass followed by the directional pass
func StandardizeStreet(address string) string {
	s := applyRules(address, streetRules)
	s = applyRules(s, directionalRules)
	return strings.TrimSpace(s)
}

// StandardizeUnit applies the unit-type pass
func StandardizeUnit(address string) string {
	return strings.TrimSpace(applyRules(address, unitRules))
}

// Standardize runs street, directional and unit passes in order
func Standardize(address string) string {
	return StandardizeUnit(StandardizeStreet(address))
}

func allUpper(s string) bool {
	hasLetter := false
	for _, r := range s {
		if !unicode.IsLetter(r) {
			continue
		}
		hasLetter = true
		if unicode.IsLower(r) {
			return false
		}
	}
	return hasLetter
}

// AddressSpacer runs the spacing and case sub-passes over the address column
type AddressSpacer struct {
	Schema  model.Schema
	Spacing bool
	Case    bool
}

// Name returns the stage name
func (a AddressSpacer) Name() string { return StageAddressSpacing }

// Apply rewrites addresses in place. Blank addresses are skipped and not counted.
func (a AddressSpacer) Apply(t *model.Table) (*model.Table, Outcome) {
	col := a.Schema.Address
	if !a.Spacing && !a.Case {
		return t, skipped(StageAddressSpacing, "address spacing and case passes disabled")
	}
	if !t.HasColumn(col) {
		return t, missingColumn(StageAddressSpacing, col)
	}

	out := Outcome{Report: model.NewReport(StageAddressSpacing)}
	out.Report.Add("spacing", 0)
	out.Report.Add("case", 0)
	out.Report.Add("processed", 0)

	for i, row := range t.Rows {
		original := row.String(col)
		if strings.TrimSpace(original) == "" {
			continue
		}
		out.Report.Add("processed", 1)

		current := original
		if a.Spacing {
			spaced := NormalizeSpacing(current)
			if spaced != current {
				out.add(model.NewCorrection(model.AddressSpacing, col, current, spaced, i,
					model.IdentityOf(row, a.Schema)))
				out.Report.Add("spacing", 1)
				current = spaced
			}
		}
		if a.Case {
			converted := ConvertCase(current)
			if converted != current {
				out.add(model.NewCorrection(model.AddressCaseConversion, col, current, converted, i,
					model.IdentityOf(row, a.Schema)))
				out.Report.Add("case", 1)
				current = converted
			}
		}

		if current != original {
			row[col] = current
		}
	}

	return t, out
}

// AddressStandardizer abbreviates street types, directionals and unit types
type AddressStandardizer struct {
	Schema  model.Schema
	Enabled bool
}

// Name returns the stage name
func (a AddressStandardizer) Name() string { return StageAddressStandardize }

// Apply standardizes the address column in place. Street and unit changes are
// logged separately against the intermediate value of each pass. Surrounding
// whitespace alone is not a change and is left in place.
func (a AddressStandardizer) Apply(t *model.Table) (*model.Table, Outcome) {
	col := a.Schema.Address
	if !a.Enabled {
		return t, skipped(StageAddressStandardize, "address standardization disabled")
	}
	if !t.HasColumn(col) {
		return t, missingColumn(StageAddressStandardize, col)
	}

	out := Outcome{Report: model.NewReport(StageAddressStandardize)}
	out.Report.Add("street", 0)
	out.Report.Add("unit", 0)
	out.Report.Add("processed", 0)

	for i, row := range t.Rows {
		original := row.String(col)
		trimmed := strings.TrimSpace(original)
		if trimmed == "" {
			continue
		}
		out.Report.Add("processed", 1)

		street := StandardizeStreet(original)
		final := StandardizeUnit(street)

		if street != trimmed {
			out.add(model.NewCorrection(model.AddressStreetType, col, original, street, i,
				model.IdentityOf(row, a.Schema)))
			out.Report.Add("street", 1)
		}
		if final != street {
			out.add(model.NewCorrection(model.AddressUnitType, col, street, final, i,
				model.IdentityOf(row, a.Schema)))
			out.Report.Add("unit", 1)
		}

		if final != trimmed {
			row[col] = final
		}
	}

	return t, out
}
