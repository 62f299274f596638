package auditlog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/contact-cleanse/pkg/auditlog"
	"github.com/David-Botos/contact-cleanse/pkg/model"
)

func TestZapSinkWritesOneLinePerEntry(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := auditlog.NewZapSink(zap.New(core))

	entries := sampleEntries()
	entries[1] = entries[1].WithDetail("normalized", "ZZ")

	require.NoError(t, sink.Write(context.Background(), entries))
	require.Equal(t, 3, logs.Len())

	all := logs.All()
	assert.Equal(t, zapcore.InfoLevel, all[0].Level)
	assert.Equal(t, "corrections", all[0].LoggerName)
	assert.Contains(t, all[0].Message, "PHONE_FORMAT - Phone: '5551234567' -> '555-123-4567'")

	assert.Equal(t, zapcore.WarnLevel, all[1].Level)
	ctx := all[1].ContextMap()
	assert.Equal(t, "INVALID_STATE", ctx["type"])
	assert.Equal(t, "ZZ", ctx["normalized"])
	assert.Equal(t, int64(1), ctx["row"])
}

func TestZapSinkErrorSeverity(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	sink := auditlog.NewZapSink(zap.New(core))

	e := model.NewFinding(model.InvalidValue, "Attended", "maybe", 4, model.Identity{})
	e.Severity = model.SeverityError

	require.NoError(t, sink.Write(context.Background(), []model.Correction{e}))
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, zapcore.ErrorLevel, logs.All()[0].Level)
}
