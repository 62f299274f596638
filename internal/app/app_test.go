package app_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/contact-cleanse/internal/app"
	"github.com/David-Botos/contact-cleanse/pkg/config"
	"github.com/David-Botos/contact-cleanse/pkg/pipeline"
	"github.com/David-Botos/contact-cleanse/pkg/tableio"
)

const header = "First name,Last name,email,Phone,Address,City,State,Zip,BulbSale2024\n"

func writeInput(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "Bulb Sale.csv")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func loadConfig(t *testing.T, input string, overrides ...map[string]interface{}) *config.Config {
	t.Helper()
	v := viper.New()
	config.SetDefaults(v)
	v.Set(config.KeyInput, input)
	v.Set(config.KeyEventColumn, "BulbSale2024")
	for _, o := range overrides {
		for k, val := range o {
			v.Set(k, val)
		}
	}

	cfg, err := config.Load(v, time.Date(2025, 9, 16, 14, 5, 0, 0, time.UTC))
	require.NoError(t, err)
	return cfg
}

func TestRunWritesCleanedFile(t *testing.T) {
	input := writeInput(t, header+
		"Ann,Lee, ann@x.org ,5551234567,123 NORTH MAIN STREET,Durango, co ,81301,Yes\n"+
		"Bob,Ray,bob@x.org,555123,2 Elm St,Durango,NM,87401,\n")
	cfg := loadConfig(t, input)

	out, err := app.Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	require.True(t, out.Written)
	assert.Equal(t, filepath.Join(filepath.Dir(input), "Bulb Sale_clean_20250916_1405.csv"), out.OutputPath)

	cleaned, err := tableio.ReadFile(out.OutputPath)
	require.NoError(t, err)
	require.Equal(t, 2, cleaned.Len())
	assert.Equal(t, "ann@x.org", cleaned.Rows[0]["email"])
	assert.Equal(t, "555-123-4567", cleaned.Rows[0]["Phone"])
	assert.Equal(t, "123 N Main St", cleaned.Rows[0]["Address"])
	assert.Equal(t, "CO", cleaned.Rows[0]["State"])
	assert.Equal(t, "555123", cleaned.Rows[1]["Phone"])

	assert.Equal(t, 1, out.Summary.InvalidPhones)
	assert.Equal(t, 1, out.Summary.EventValid)
	assert.Equal(t, 1, out.Summary.EventInvalid)
}

func TestRunSkipsUnchangedFile(t *testing.T) {
	input := writeInput(t, header+"Ann,Lee,ann@x.org,555-123-4567,1 Elm St,Durango,CO,81301,Yes\n")
	cfg := loadConfig(t, input)

	out, err := app.Run(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	assert.False(t, out.Written)

	_, statErr := os.Stat(out.OutputPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestRunMissingColumns(t *testing.T) {
	input := writeInput(t, "First name,Last name,email,Phone\nAnn,Lee,ann@x.org,5551234567\n")
	cfg := loadConfig(t, input)

	out, err := app.Run(context.Background(), cfg, zap.NewNop())
	assert.Nil(t, out)

	var schemaErr *pipeline.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"Address", "City", "State", "Zip"}, schemaErr.Missing)
}

func TestRunUnreadableInput(t *testing.T) {
	cfg := loadConfig(t, filepath.Join(t.TempDir(), "absent.xlsx"))

	_, err := app.Run(context.Background(), cfg, zap.NewNop())
	var srcErr *tableio.SourceError
	require.True(t, errors.As(err, &srcErr))
	assert.Equal(t, pipeline.CategoryEnvironment, pipeline.Categorize(err))
}

func TestRunAuditTableUnreachable(t *testing.T) {
	t.Setenv("POSTGRES_USER", "cleanse")
	t.Setenv("POSTGRES_PASSWORD", "secret")
	t.Setenv("POSTGRES_DB", "members")
	t.Setenv("POSTGRES_HOST", "127.0.0.1")
	t.Setenv("POSTGRES_PORT", "1")

	input := writeInput(t, header+"Ann,Lee, ann@x.org ,555-123-4567,1 Elm St,Durango, co ,81301,Yes\n")
	cfg := loadConfig(t, input, map[string]interface{}{config.KeyAuditEnabled: true})

	core, logs := observer.New(zapcore.InfoLevel)
	out, err := app.Run(context.Background(), cfg, zap.New(core))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "audit table")
	assert.False(t, errors.Is(err, app.ErrUnsafeOutput))

	require.NotNil(t, out)
	assert.True(t, out.Written)
	cleaned, readErr := tableio.ReadFile(out.OutputPath)
	require.NoError(t, readErr)
	assert.Equal(t, "CO", cleaned.Rows[0]["State"])
	assert.Equal(t, "ann@x.org", cleaned.Rows[0]["email"])

	corrections := logs.FilterLoggerName("corrections")
	assert.GreaterOrEqual(t, corrections.Len(), 2)
}
