// pkg/cleaner/stage.go
package cleaner

import (
	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// Stage names, in the order the default pipeline runs them
const (
	StageState              = "state"
	StagePhoneScan          = "phone_scan"
	StageContactTrim        = "contact_trim"
	StageAddressSpacing     = "address_spacing"
	StageAddressStandardize = "address_standardize"
	StagePhoneFormat        = "phone_format"
	StageEventFlag          = "event_flag"
)

// Outcome is everything a stage produced besides the table itself.
// Stages never write to a log; the driver appends Corrections to the shared sink.
type Outcome struct {
	Corrections []model.Correction
	Report      model.Report
}

func (o *Outcome) add(c model.Correction) {
	o.Corrections = append(o.Corrections, c)
}

// Stage transforms a table and returns it along with the corrections it made.
// Implementations may mutate the table in place and return the same pointer.
type Stage interface {
	Name() string
	Apply(t *model.Table) (*model.Table, Outcome)
}

// StageFunc adapts a function to the Stage interface
type StageFunc struct {
	StageName string
	Fn        func(t *model.Table) (*model.Table, Outcome)
}

// Name returns the stage name
func (f StageFunc) Name() string { return f.StageName }

// Apply runs the wrapped function
func (f StageFunc) Apply(t *model.Table) (*model.Table, Outcome) { return f.Fn(t) }

// Options toggles the optional address passes
type Options struct {
	AddressSpacing     bool
	AddressCase        bool
	AddressStandardize bool
}

// DefaultOptions enables every pass
func DefaultOptions() Options {
	return Options{
		AddressSpacing:     true,
		AddressCase:        true,
		AddressStandardize: true,
	}
}

// DefaultStages returns the cleaning stages in their fixed order:
// state, phone scan, trim, address spacing, address standardization,
// phone formatting, event flag.
func DefaultStages(schema model.Schema, opts Options) []Stage {
	return []Stage{
		StateNormalizer{Schema: schema},
		PhoneValidator{Schema: schema},
		ContactTrimmer{Schema: schema},
		AddressSpacer{Schema: schema, Spacing: opts.AddressSpacing, Case: opts.AddressCase},
		AddressStandardizer{Schema: schema, Enabled: opts.AddressStandardize},
		PhoneFormatter{Schema: schema},
		EventFlagValidator{Schema: schema},
	}
}

func skipped(stage, reason string) Outcome {
	report := model.NewReport(stage)
	report.Skipped = true
	report.Note = reason
	return Outcome{Report: report}
}

func missingColumn(stage, column string) Outcome {
	out := skipped(stage, "column '"+column+"' not found")
	out.Report.Missing = true
	return out
}
