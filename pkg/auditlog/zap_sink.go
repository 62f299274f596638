// pkg/auditlog/zap_sink.go
package auditlog

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// ZapSink writes each entry as one structured log line. Findings are logged at
// warn level, applied corrections at info.
type ZapSink struct {
	logger *zap.Logger
}

// NewZapSink creates a sink that writes through the given logger
func NewZapSink(logger *zap.Logger) *ZapSink {
	return &ZapSink{logger: logger.Named("corrections")}
}

// Name returns the sink name
func (s *ZapSink) Name() string { return "log" }

// Write logs every entry
func (s *ZapSink) Write(_ context.Context, entries []model.Correction) error {
	for _, e := range entries {
		fields := []zap.Field{
			zap.String("type", string(e.Type)),
			zap.String("field", e.Field),
			zap.String("old", e.OldValue),
			zap.String("new", e.NewValue),
			zap.Int("row", e.RowIndex),
			zap.String("first_name", e.Identity.FirstName),
			zap.String("last_name", e.Identity.LastName),
			zap.String("email", e.Identity.Email),
			zap.String("phone", e.Identity.Phone),
			zap.Time("at", e.Timestamp),
		}

		keys := make([]string, 0, len(e.Details))
		for k := range e.Details {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fields = append(fields, zap.String(k, e.Details[k]))
		}

		switch e.Severity {
		case model.SeverityError:
			s.logger.Error(e.String(), fields...)
		case model.SeverityWarning:
			s.logger.Warn(e.String(), fields...)
		default:
			s.logger.Info(e.String(), fields...)
		}
	}
	return nil
}
