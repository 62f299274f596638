// pkg/cleaner/contact.go
package cleaner

import (
	"strings"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// ContactTrimmer strips leading and trailing whitespace from the email and phone columns
type ContactTrimmer struct {
	Schema model.Schema
}

// Name returns the stage name
func (c ContactTrimmer) Name() string { return StageContactTrim }

// Apply trims the contact columns in place. Values without surrounding
// whitespace are left alone and produce no entry.
func (c ContactTrimmer) Apply(t *model.Table) (*model.Table, Outcome) {
	out := Outcome{Report: model.NewReport(StageContactTrim)}
	out.Report.Add("total", 0)

	for _, col := range []string{c.Schema.Email, c.Schema.Phone} {
		if !t.HasColumn(col) {
			continue
		}
		out.Report.Add(col, 0)

		for i, row := range t.Rows {
			if row[col] == nil {
				continue
			}
			current := row.String(col)
			trimmed := strings.TrimSpace(current)
			if trimmed == current {
				continue
			}

			out.add(model.NewCorrection(model.SpaceCleanup, col, current, trimmed, i,
				model.IdentityOf(row, c.Schema)))
			row[col] = trimmed
			out.Report.Add(col, 1)
			out.Report.Add("total", 1)
		}
	}

	return t, out
}
