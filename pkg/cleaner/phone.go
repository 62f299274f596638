// pkg/cleaner/phone.go
package cleaner

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// phoneDigits is the digit count of a valid North American number without country code
const phoneDigits = 10

var phonePunctuation = regexp.MustCompile(`[\s\-()]`)

// CleanPhone strips a leading "1-" prefix, whitespace, hyphens and parentheses.
// It accepts any value and never fails; nil becomes "".
func CleanPhone(v interface{}) string {
	cleaned := strings.TrimSpace(model.ValueString(v))
	cleaned = strings.TrimPrefix(cleaned, "1-")
	return phonePunctuation.ReplaceAllString(cleaned, "")
}

// DigitCount counts the ASCII digits anywhere in s.
// Other characters are ignored, so "55x5123456x7" counts as 10.
func DigitCount(s string) int {
	n := 0
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			n++
		}
	}
	return n
}

// HasValidDigitCount reports whether a cleaned phone carries exactly ten digits
func HasValidDigitCount(cleaned string) bool {
	return DigitCount(cleaned) == phoneDigits
}

// FormatPhone renders a phone as AAA-BBB-CCCC when its cleaned form is exactly ten
// digits. Anything else is returned as the original string, unchanged.
func FormatPhone(v interface{}) string {
	cleaned := CleanPhone(v)
	if len(cleaned) == phoneDigits && DigitCount(cleaned) == phoneDigits {
		return cleaned[:3] + "-" + cleaned[3:6] + "-" + cleaned[6:]
	}
	return model.ValueString(v)
}

// PhoneValidator reports phones whose cleaned form does not carry ten digits.
// It never modifies the table.
type PhoneValidator struct {
	Schema model.Schema
}

// Name returns the stage name
func (p PhoneValidator) Name() string { return StagePhoneScan }

// Apply scans the phone column
func (p PhoneValidator) Apply(t *model.Table) (*model.Table, Outcome) {
	col := p.Schema.Phone
	if !t.HasColumn(col) {
		return t, missingColumn(StagePhoneScan, col)
	}

	out := Outcome{Report: model.NewReport(StagePhoneScan)}
	out.Report.Add("valid", 0)
	out.Report.Add("invalid", 0)

	for i, row := range t.Rows {
		original := row.String(col)
		cleaned := CleanPhone(row[col])
		digits := DigitCount(cleaned)

		if digits == phoneDigits {
			out.Report.Add("valid", 1)
			continue
		}

		out.add(model.NewFinding(model.InvalidPhone, col, original, i, model.IdentityOf(row, p.Schema)).
			WithDetail("clean", cleaned).
			WithDetail("digits", strconv.Itoa(digits)))
		out.Report.Flag(i, row)
		out.Report.Add("invalid", 1)
	}

	return t, out
}

// PhoneFormatter rewrites ten-digit phones into AAA-BBB-CCCC form.
// Running it twice yields the same table as running it once.
type PhoneFormatter struct {
	Schema model.Schema
}

// Name returns the stage name
func (p PhoneFormatter) Name() string { return StagePhoneFormat }

// Apply formats the phone column in place
func (p PhoneFormatter) Apply(t *model.Table) (*model.Table, Outcome) {
	col := p.Schema.Phone
	if !t.HasColumn(col) {
		return t, missingColumn(StagePhoneFormat, col)
	}

	out := Outcome{Report: model.NewReport(StagePhoneFormat)}
	out.Report.Add("changed", 0)
	out.Report.Add("already_valid", 0)
	out.Report.Add("invalid_unchanged", 0)

	for i, row := range t.Rows {
		current := row.String(col)
		valid := HasValidDigitCount(CleanPhone(row[col]))
		formatted := FormatPhone(row[col])

		switch {
		case formatted != current:
			out.add(model.NewCorrection(model.PhoneFormat, col, current, formatted, i,
				model.IdentityOf(row, p.Schema)))
			row[col] = formatted
			out.Report.Add("changed", 1)
		case valid:
			out.Report.Add("already_valid", 1)
		default:
			out.Report.Add("invalid_unchanged", 1)
		}
	}

	return t, out
}
