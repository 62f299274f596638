// pkg/pipeline/summary.go
package pipeline

import (
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/cleaner"
	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// Summary is the final processing summary of a run
type Summary struct {
	Records          int
	InvalidStates    int
	InvalidPhones    int
	PhoneChanges     int
	AddressSpacing   int
	AddressCase      int
	AddressStreet    int
	AddressUnit      int
	EventColumn      string
	EventValid       int
	EventInvalid     int // Invalid and empty entries combined
	SafeToPersist    bool
	Changed          bool
	TotalCorrections int
}

// Summarize builds the summary from the stage reports of a result
func Summarize(schema model.Schema, r *Result) Summary {
	get := func(stage, name string) int {
		rep, ok := r.Report(stage)
		if !ok {
			return 0
		}
		return rep.Get(name)
	}

	s := Summary{
		Records:        r.Output.Len(),
		InvalidStates:  get(cleaner.StageState, "invalid"),
		InvalidPhones:  get(cleaner.StagePhoneScan, "invalid"),
		PhoneChanges:   get(cleaner.StagePhoneFormat, "changed"),
		AddressSpacing: get(cleaner.StageAddressSpacing, "spacing"),
		AddressCase:    get(cleaner.StageAddressSpacing, "case"),
		AddressStreet:  get(cleaner.StageAddressStandardize, "street"),
		AddressUnit:    get(cleaner.StageAddressStandardize, "unit"),
		EventColumn:    schema.EventColumn,
		EventValid:     get(cleaner.StageEventFlag, "valid"),
		EventInvalid:   get(cleaner.StageEventFlag, "invalid") + get(cleaner.StageEventFlag, "empty"),
		SafeToPersist:  r.SafeToPersist(),
		Changed:        r.Changed,
	}
	if r.Metrics != nil {
		s.TotalCorrections = r.Metrics.TotalCorrections()
	}
	return s
}

// Log writes the summary through the logger
func (s Summary) Log(logger *zap.Logger) {
	fields := []zap.Field{
		zap.Int("records", s.Records),
		zap.Int("invalidStates", s.InvalidStates),
		zap.Int("invalidPhones", s.InvalidPhones),
		zap.Int("phoneChanges", s.PhoneChanges),
		zap.Int("addressSpacing", s.AddressSpacing),
		zap.Int("addressCase", s.AddressCase),
		zap.Int("addressStreet", s.AddressStreet),
		zap.Int("addressUnit", s.AddressUnit),
		zap.Int("corrections", s.TotalCorrections),
		zap.Bool("changed", s.Changed),
		zap.Bool("safeToPersist", s.SafeToPersist),
	}
	if s.EventColumn != "" {
		fields = append(fields,
			zap.String("eventColumn", s.EventColumn),
			zap.Int("eventValid", s.EventValid),
			zap.Int("eventInvalidOrEmpty", s.EventInvalid))
	}
	logger.Info("Final processing summary", fields...)
}
