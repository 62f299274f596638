// Package app wires configuration, sources, the cleaning pipeline and the
// correction sinks into a single run.
package app

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/auditlog"
	"github.com/David-Botos/contact-cleanse/pkg/config"
	"github.com/David-Botos/contact-cleanse/pkg/connector"
	"github.com/David-Botos/contact-cleanse/pkg/pipeline"
	"github.com/David-Botos/contact-cleanse/pkg/tableio"
)

// ErrUnsafeOutput is returned when the record-count guard blocked the write
var ErrUnsafeOutput = errors.New("record count validation failed, output not written")

// RunResult is the outcome of a run
type RunResult struct {
	*pipeline.Result
	OutputPath string
	Written    bool
}

// Run reads the configured source, cleans it, flushes the correction log and
// writes the output when it is safe and something changed
func Run(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*RunResult, error) {
	logger = logger.With(zap.String("run_id", cfg.RunID.String()))

	schema, err := cfg.Schema()
	if err != nil {
		return nil, err
	}

	outputPath := cfg.OutputPath()
	logger.Info("Starting contact cleanse",
		zap.String("source", cfg.SourceName()),
		zap.String("output", outputPath),
		zap.String("log", cfg.LogPath()),
		zap.String("eventColumn", schema.EventColumn),
		zap.String("eventValue", schema.EventValue))

	factory := connector.NewConnectorFactory(cfg, logger)
	var closers []connector.DatabaseConnector
	defer func() {
		for _, c := range closers {
			if err := c.Close(); err != nil {
				logger.Warn("Failed to close connection", zap.Error(err))
			}
		}
	}()

	source, srcConn, err := openSource(ctx, cfg, factory, logger)
	if err != nil {
		return nil, err
	}
	if srcConn != nil {
		closers = append(closers, srcConn)
	}

	table, err := source.Read(ctx)
	if err != nil {
		logger.Error("Failed to read input", zap.Error(err))
		return nil, err
	}
	logger.Info("Loaded input",
		zap.Int("records", table.Len()),
		zap.Strings("columns", table.Columns))

	corrections := auditlog.New()
	p := pipeline.New(logger, corrections, pipeline.Options{
		Schema:   schema,
		Cleaning: cfg.CleaningOptions(),
	})

	result, err := p.Run(table)
	if err != nil {
		return nil, err
	}
	out := &RunResult{Result: result, OutputPath: outputPath}

	sinks := []auditlog.Sink{auditlog.NewZapSink(logger)}
	var auditErr error
	if cfg.AuditEnabled {
		sink, conn, err := openAuditSink(ctx, cfg, factory, srcConn, logger)
		if conn != nil {
			closers = append(closers, conn)
		}
		if err != nil {
			auditErr = fmt.Errorf("audit table: %w", err)
			logger.Error("Audit table unavailable, corrections go to the run log only", zap.Error(err))
		} else {
			sinks = append(sinks, sink)
		}
	}
	flushErr := corrections.Flush(ctx, sinks...)
	if flushErr != nil {
		logger.Error("Failed to record corrections", zap.Error(flushErr))
	}
	flushErr = errors.Join(auditErr, flushErr)

	if !result.SafeToPersist() {
		logger.Error("STOPPING: record count validation failed", zap.Error(result.GuardError()))
		return out, errors.Join(fmt.Errorf("%w: %v", ErrUnsafeOutput, result.GuardError()), flushErr)
	}

	if !result.Changed {
		logger.Info("No changes detected, skipping output file creation")
		return out, flushErr
	}

	if err := tableio.WriteFile(outputPath, result.Output); err != nil {
		logger.Error("Error writing output", zap.String("path", outputPath), zap.Error(err))
		return out, errors.Join(err, flushErr)
	}
	out.Written = true
	logger.Info("Cleaned data successfully written", zap.String("path", outputPath))

	return out, flushErr
}

// openAuditSink returns the Postgres correction sink, reusing the source
// connection when it is already Postgres. A connection opened here is returned
// for closing even when the sink could not be created.
func openAuditSink(
	ctx context.Context,
	cfg *config.Config,
	factory *connector.ConnectorFactory,
	srcConn connector.DatabaseConnector,
	logger *zap.Logger,
) (auditlog.Sink, connector.DatabaseConnector, error) {
	var opened connector.DatabaseConnector
	pgConn, ok := srcConn.(*connector.PostgresConnector)
	if !ok {
		conn, err := factory.CreatePostgresConnector(ctx)
		if err != nil {
			return nil, nil, err
		}
		pgConn, opened = conn, conn
	}

	sink, err := auditlog.NewPostgresSink(ctx, pgConn.DB(), logger, cfg.AuditTable, cfg.RunID, cfg.SourceName())
	if err != nil {
		return nil, opened, err
	}
	return sink, opened, nil
}

func openSource(
	ctx context.Context,
	cfg *config.Config,
	factory *connector.ConnectorFactory,
	logger *zap.Logger,
) (tableio.Source, connector.DatabaseConnector, error) {
	if cfg.Source == config.SourceFile {
		return tableio.FileSource{Path: cfg.Input}, nil, nil
	}

	conn, err := factory.CreateSourceConnector(ctx)
	if err != nil {
		return nil, nil, err
	}
	return tableio.NewSQLSource(conn.DB(), cfg.SourceName(), cfg.SourceQuery, logger), conn, nil
}
