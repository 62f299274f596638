// pkg/cleaner/event.go
package cleaner

import (
	"strings"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// EventFlagValidator checks an event participation column against its expected value.
// It only reports; the table is never modified.
type EventFlagValidator struct {
	Schema model.Schema
}

// Name returns the stage name
func (e EventFlagValidator) Name() string { return StageEventFlag }

// Apply classifies every cell as valid, empty or invalid
func (e EventFlagValidator) Apply(t *model.Table) (*model.Table, Outcome) {
	col := e.Schema.EventColumn
	if col == "" {
		return t, skipped(StageEventFlag, "no event column specified")
	}
	if !t.HasColumn(col) {
		return t, missingColumn(StageEventFlag, col)
	}

	expected := e.Schema.EventValue
	if expected == "" {
		expected = model.DefaultEventValue
	}

	out := Outcome{Report: model.NewReport(StageEventFlag)}
	out.Report.Add("valid", 0)
	out.Report.Add("empty", 0)
	out.Report.Add("invalid", 0)

	for i, row := range t.Rows {
		value := strings.TrimSpace(row.String(col))

		switch value {
		case "":
			out.add(model.NewFinding(model.EmptyValue, col, value, i, model.IdentityOf(row, e.Schema)))
			out.Report.Flag(i, row)
			out.Report.Add("empty", 1)
		case expected:
			out.Report.Add("valid", 1)
		default:
			out.add(model.NewFinding(model.InvalidValue, col, value, i, model.IdentityOf(row, e.Schema)).
				WithDetail("expected", expected))
			out.Report.Flag(i, row)
			out.Report.Add("invalid", 1)
		}
	}

	return t, out
}
