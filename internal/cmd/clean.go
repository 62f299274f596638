package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/internal/app"
	"github.com/David-Botos/contact-cleanse/pkg/config"
	"github.com/David-Botos/contact-cleanse/pkg/logging"
	"github.com/David-Botos/contact-cleanse/pkg/pipeline"
)

func newCleanCmd(v *viper.Viper) *cobra.Command {
	cleanCmd := &cobra.Command{
		Use:   "clean [input]",
		Short: "Clean a contact spreadsheet or database extract",
		Long: `Clean one contact list. The input is an .xlsx or .csv file, or a query
against PostgreSQL or Snowflake when --source is set.

Examples:
  contact-cleanse clean "Bulb Sale 2024.xlsx" --event-column BulbSale2024
  contact-cleanse clean members.csv --event-column "DurangoScape 2025" --event-value Y
  contact-cleanse clean --source postgres --query "SELECT * FROM attendees" --output attendees.xlsx --audit-db`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClean(cmd, v, args)
		},
	}

	flags := cleanCmd.Flags()
	flags.String("event-column", "", "event participation column to validate")
	flags.String("event-value", "", "expected value in the event column (default \"Yes\")")
	flags.String("output-dir", "", "directory for the cleaned file and log (default: next to the input)")
	flags.StringP("output", "o", "", "explicit output path (.xlsx or .csv)")
	flags.String("schema", "", "YAML file mapping contact fields to column names")
	flags.String("source", config.SourceFile, "input source: file, postgres, snowflake")
	flags.String("query", "", "query selecting the contacts for database sources")
	flags.Bool("audit-db", false, "record corrections in the PostgreSQL audit table")
	flags.Bool("no-address-spacing", false, "skip address spacing and punctuation cleanup")
	flags.Bool("no-address-case", false, "skip converting all-caps addresses to title case")
	flags.Bool("no-address-standardize", false, "skip street, directional and unit abbreviations")

	_ = v.BindPFlag(config.KeyEventColumn, flags.Lookup("event-column"))
	_ = v.BindPFlag(config.KeyEventValue, flags.Lookup("event-value"))
	_ = v.BindPFlag(config.KeyOutputDir, flags.Lookup("output-dir"))
	_ = v.BindPFlag(config.KeyOutput, flags.Lookup("output"))
	_ = v.BindPFlag(config.KeySchemaFile, flags.Lookup("schema"))
	_ = v.BindPFlag(config.KeySource, flags.Lookup("source"))
	_ = v.BindPFlag(config.KeySourceQuery, flags.Lookup("query"))
	_ = v.BindPFlag(config.KeyAuditEnabled, flags.Lookup("audit-db"))

	return cleanCmd
}

var negatedFlags = map[string]string{
	"no-address-spacing":     config.KeyAddressSpacing,
	"no-address-case":        config.KeyAddressCase,
	"no-address-standardize": config.KeyAddressStandardize,
}

func runClean(cmd *cobra.Command, v *viper.Viper, args []string) error {
	if len(args) == 1 {
		v.Set(config.KeyInput, args[0])
	}
	for flag, key := range negatedFlags {
		if off, _ := cmd.Flags().GetBool(flag); off {
			v.Set(key, false)
		}
	}

	cfg, err := config.Load(v, time.Now())
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(logging.Options{
		Level:    cfg.LogLevel,
		Format:   cfg.LogFormat,
		FilePath: cfg.LogPath(),
		Stdout:   cmd.OutOrStdout(),
	})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, err := app.Run(ctx, cfg, logger)
	if err != nil {
		logger.Error("Contact cleanse failed",
			zap.String("category", pipeline.Categorize(err).String()),
			zap.Error(err))
		return err
	}

	logger.Info("Contact cleanse completed",
		zap.Bool("written", result.Written),
		zap.String("log", cfg.LogPath()))
	return nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
