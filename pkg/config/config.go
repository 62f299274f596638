// pkg/config/config.go
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"go.uber.org/zap/zapcore"

	"github.com/David-Botos/contact-cleanse/pkg/cleaner"
	"github.com/David-Botos/contact-cleanse/pkg/model"
	"github.com/David-Botos/contact-cleanse/pkg/tableio"
)

// EnvPrefix is the prefix for run settings read from the environment
const EnvPrefix = "CLEANSE"

// Source kinds
const (
	SourceFile      = "file"
	SourcePostgres  = "postgres"
	SourceSnowflake = "snowflake"
)

// Configuration keys
const (
	KeyInput              = "input"
	KeyOutput             = "output"
	KeyOutputDir          = "output_dir"
	KeySchemaFile         = "schema_file"
	KeyEventColumn        = "event_column"
	KeyEventValue         = "event_value"
	KeyAddressSpacing     = "address.spacing"
	KeyAddressCase        = "address.case"
	KeyAddressStandardize = "address.standardize"
	KeySource             = "source"
	KeySourceQuery        = "source_query"
	KeyAuditEnabled       = "audit.enabled"
	KeyAuditTable         = "audit.table"
	KeyLogLevel           = "log_level"
	KeyLogFormat          = "log_format"
)

// Config represents the configuration of a single cleaning run
type Config struct {
	RunID     uuid.UUID
	StartedAt time.Time
	Stamp     string // StartedAt formatted for file names

	// Input and output
	Source      string
	Input       string
	SourceQuery string
	Output      string // Explicit output path; derived from Input when empty
	OutputDir   string
	SchemaFile  string

	// Event participation column; an empty value keeps the schema's
	EventColumn string
	EventValue  string

	// Address passes
	AddressSpacing     bool
	AddressCase        bool
	AddressStandardize bool

	// Audit table
	AuditEnabled bool
	AuditTable   string

	// Database connections, loaded only when the run needs them
	Postgres  *PostgresConfig
	Snowflake *SnowflakeConfig

	// Logging
	LogLevel  string
	LogFormat string
}

// LoadDotEnv loads a .env file into the process environment. A missing file
// is not an error.
func LoadDotEnv(paths ...string) error {
	if len(paths) == 0 {
		paths = []string{".env"}
	}
	for _, p := range paths {
		if err := godotenv.Load(p); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", p, err)
		}
	}
	return nil
}

// SetDefaults registers default values and environment binding on v
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySource, SourceFile)
	v.SetDefault(KeyAddressSpacing, true)
	v.SetDefault(KeyAddressCase, true)
	v.SetDefault(KeyAddressStandardize, true)
	v.SetDefault(KeyAuditEnabled, false)
	v.SetDefault(KeyAuditTable, "contact_corrections")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
}

// Load builds the run configuration from v. Database settings come from the
// POSTGRES_* and SNOWFLAKE_* environment variables when the run needs them.
func Load(v *viper.Viper, now time.Time) (*Config, error) {
	cfg := &Config{
		RunID:     uuid.New(),
		StartedAt: now,
		Stamp:     tableio.Stamp(now),

		Source:      strings.ToLower(strings.TrimSpace(v.GetString(KeySource))),
		Input:       v.GetString(KeyInput),
		SourceQuery: v.GetString(KeySourceQuery),
		Output:      v.GetString(KeyOutput),
		OutputDir:   v.GetString(KeyOutputDir),
		SchemaFile:  v.GetString(KeySchemaFile),

		EventColumn: strings.TrimSpace(v.GetString(KeyEventColumn)),
		EventValue:  v.GetString(KeyEventValue),

		AddressSpacing:     v.GetBool(KeyAddressSpacing),
		AddressCase:        v.GetBool(KeyAddressCase),
		AddressStandardize: v.GetBool(KeyAddressStandardize),

		AuditEnabled: v.GetBool(KeyAuditEnabled),
		AuditTable:   v.GetString(KeyAuditTable),

		LogLevel:  v.GetString(KeyLogLevel),
		LogFormat: v.GetString(KeyLogFormat),
	}

	if cfg.Source == SourcePostgres || cfg.AuditEnabled {
		pgConfig, err := LoadPostgresConfig()
		if err != nil {
			return nil, errors.New("failed to load PostgreSQL configuration: " + err.Error())
		}
		cfg.Postgres = pgConfig
	}

	if cfg.Source == SourceSnowflake {
		snowConfig, err := LoadSnowflakeConfig()
		if err != nil {
			return nil, errors.New("failed to load Snowflake configuration: " + err.Error())
		}
		cfg.Snowflake = snowConfig
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures all required configuration is present and valid
func (c *Config) Validate() error {
	switch c.Source {
	case SourceFile:
		if c.Input == "" {
			return errors.New("input file is required")
		}
	case SourcePostgres, SourceSnowflake:
		if c.SourceQuery == "" {
			return fmt.Errorf("a source query is required for %s sources", c.Source)
		}
		if c.Output == "" {
			return fmt.Errorf("an output path is required for %s sources", c.Source)
		}
	default:
		return fmt.Errorf("unknown source %q (want file, postgres or snowflake)", c.Source)
	}

	if c.Source == SourcePostgres && c.Postgres == nil {
		return errors.New("postgreSQL configuration is required for a postgres source")
	}
	if c.AuditEnabled && c.Postgres == nil {
		return errors.New("postgreSQL configuration is required for the audit table")
	}
	if c.Source == SourceSnowflake && c.Snowflake == nil {
		return errors.New("snowflake configuration is required for a snowflake source")
	}

	if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	if c.LogFormat != "json" && c.LogFormat != "console" {
		return fmt.Errorf("invalid log format %q (want json or console)", c.LogFormat)
	}

	return nil
}

// SourceName labels the run's input in logs and the audit table
func (c *Config) SourceName() string {
	if c.Source == SourceFile {
		return c.Input
	}
	return c.Source
}

// OutputPath returns where the cleaned table is written
func (c *Config) OutputPath() string {
	if c.Output != "" {
		return c.Output
	}
	return tableio.OutputPath(c.Input, c.OutputDir, c.Stamp)
}

// LogPath returns the per-run log file, next to the input file or, for
// database sources, next to the output
func (c *Config) LogPath() string {
	if c.Source == SourceFile {
		return tableio.LogPath(c.Input, c.OutputDir, c.Stamp)
	}
	return tableio.LogPath(c.Output, "", c.Stamp)
}

// Schema returns the column schema for the run: the schema file when set,
// otherwise the defaults, with the event column applied
func (c *Config) Schema() (model.Schema, error) {
	schema := model.DefaultSchema()
	if c.SchemaFile != "" {
		loaded, err := model.LoadSchema(c.SchemaFile)
		if err != nil {
			return model.Schema{}, err
		}
		schema = loaded
	}
	if c.EventColumn != "" {
		schema.EventColumn = c.EventColumn
	}
	if c.EventValue != "" {
		schema.EventValue = c.EventValue
	}
	return schema, nil
}

// CleaningOptions returns the address pass toggles
func (c *Config) CleaningOptions() cleaner.Options {
	return cleaner.Options{
		AddressSpacing:     c.AddressSpacing,
		AddressCase:        c.AddressCase,
		AddressStandardize: c.AddressStandardize,
	}
}

// Helper functions for environment variables
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
