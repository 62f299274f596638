// pkg/pipeline/pipeline.go
package pipeline

import (
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/David-Botos/contact-cleanse/pkg/auditlog"
	"github.com/David-Botos/contact-cleanse/pkg/cleaner"
	"github.com/David-Botos/contact-cleanse/pkg/guard"
	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// Options configures a pipeline
type Options struct {
	Schema   model.Schema
	Cleaning cleaner.Options
	// Stages replaces the default stage list when non-empty
	Stages []cleaner.Stage
}

// Pipeline runs the cleaning stages over a table and gates persisting the result
type Pipeline struct {
	logger *zap.Logger
	log    *auditlog.Log
	schema model.Schema
	stages []cleaner.Stage
	guard  *guard.RowCountGuard
}

// Result holds everything a run produced
type Result struct {
	Input       *model.Table // Snapshot of the table before any stage ran
	Output      *model.Table
	Reports     []model.Report
	NullsFilled []model.Count
	Changed     bool
	Metrics     *Metrics
	Summary     Summary

	guardErr error
}

// SafeToPersist reports whether the record-count guard passed
func (r *Result) SafeToPersist() bool {
	return r.guardErr == nil
}

// GuardError returns the *guard.RowCountError raised by the run, if any
func (r *Result) GuardError() error {
	return r.guardErr
}

// ShouldWrite reports whether output should be written: the guard passed and
// the cleaned table differs from the input
func (r *Result) ShouldWrite() bool {
	return r.SafeToPersist() && r.Changed
}

// Report returns the report of the named stage
func (r *Result) Report(stage string) (model.Report, bool) {
	for _, rep := range r.Reports {
		if rep.Stage == stage {
			return rep, true
		}
	}
	return model.Report{}, false
}

// New creates a pipeline. A nil log gets a fresh one.
func New(logger *zap.Logger, log *auditlog.Log, opts Options) *Pipeline {
	if log == nil {
		log = auditlog.New()
	}
	stages := opts.Stages
	if len(stages) == 0 {
		stages = cleaner.DefaultStages(opts.Schema, opts.Cleaning)
	}

	return &Pipeline{
		logger: logger.Named("pipeline"),
		log:    log,
		schema: opts.Schema,
		stages: stages,
		guard:  guard.NewRowCountGuard(logger),
	}
}

// Log returns the correction log the pipeline appends to
func (p *Pipeline) Log() *auditlog.Log {
	return p.log
}

// Run cleans a copy of the input table. Missing required columns fail with a
// *SchemaError before any stage runs. A row-count mismatch does not fail the
// run; it is reported through Result.SafeToPersist.
func (p *Pipeline) Run(input *model.Table) (*Result, error) {
	if input == nil {
		return nil, errors.New("input table cannot be nil")
	}

	if missing := p.schema.MissingColumns(input); len(missing) > 0 {
		err := &SchemaError{Missing: missing}
		p.logger.Error("Missing required columns",
			zap.Strings("missing", missing),
			zap.Strings("found", input.Columns))
		return nil, err
	}

	metrics := NewMetrics(p.logger)
	metrics.RowsIn = input.Len()

	p.logger.Info("Starting cleaning run",
		zap.Int("records", input.Len()),
		zap.Strings("columns", input.Columns),
		zap.Int("stages", len(p.stages)))

	original := input.Clone()
	work := input.Clone()

	result := &Result{Input: original, Metrics: metrics}

	for _, stage := range p.stages {
		start := time.Now()
		next, out := stage.Apply(work)
		if next == nil {
			// A lost table is a loss of every record; the guard reports it
			p.logger.Error("Stage returned no table", zap.String("stage", stage.Name()))
			next = model.NewTable(work.Columns...)
		}
		work = next
		p.log.Append(out.Corrections...)
		if out.Report.Stage == "" {
			out.Report.Stage = stage.Name()
		}
		metrics.RecordStage(stage.Name(), time.Since(start), out.Report, out.Corrections)
		result.Reports = append(result.Reports, out.Report)
		p.logReport(out.Report, len(out.Corrections))
	}

	result.NullsFilled = FillNulls(work)
	p.logNullsFilled(result.NullsFilled)
	for _, c := range result.NullsFilled {
		metrics.NullsFilled += c.Value
	}

	// Null cells are blank on export, so filling them alone is not a change
	baseline := original.Clone()
	FillNulls(baseline)
	result.Changed = !baseline.Equal(work)
	if result.Changed {
		p.logger.Info("Data modification check: changes detected")
	} else {
		p.logger.Info("Data modification check: no changes detected")
	}

	result.guardErr = p.guard.Check(original.Len(), work.Len())
	result.Output = work
	metrics.Finish(work.Len())
	result.Summary = Summarize(p.schema, result)
	result.Summary.Log(p.logger)
	metrics.LogSummary()

	return result, nil
}

func (p *Pipeline) logReport(r model.Report, corrections int) {
	if r.Skipped {
		if r.Missing {
			p.logger.Warn("Stage skipped", zap.String("stage", r.Stage), zap.String("reason", r.Note))
		} else {
			p.logger.Info("Stage skipped", zap.String("stage", r.Stage), zap.String("reason", r.Note))
		}
		return
	}

	fields := []zap.Field{
		zap.String("stage", r.Stage),
		zap.Int("corrections", corrections),
		zap.Int("flagged", len(r.Flagged)),
	}
	for _, c := range r.Counts {
		fields = append(fields, zap.Int(c.Name, c.Value))
	}
	p.logger.Info("Stage summary", fields...)

	for _, f := range r.Flagged {
		id := model.IdentityOf(f.Row, p.schema)
		p.logger.Debug("Flagged record",
			zap.String("stage", r.Stage),
			zap.Int("row", f.Index),
			zap.String("name", id.Name()),
			zap.String("email", id.Email),
			zap.String("phone", id.Phone))
	}
}

func (p *Pipeline) logNullsFilled(counts []model.Count) {
	if len(counts) == 0 {
		p.logger.Info("No null values found")
		return
	}
	total := 0
	for _, c := range counts {
		total += c.Value
		p.logger.Info("Null values replaced", zap.String("column", c.Name), zap.Int("count", c.Value))
	}
	p.logger.Info("Total null values cleaned", zap.Int("count", total))
}

// FillNulls replaces null cells with "" and returns per-column counts in column order
func FillNulls(t *model.Table) []model.Count {
	var counts []model.Count
	for _, col := range t.Columns {
		n := 0
		for _, row := range t.Rows {
			if v, ok := row[col]; !ok || v == nil {
				row[col] = ""
				n++
			}
		}
		if n > 0 {
			counts = append(counts, model.Count{Name: col, Value: n})
		}
	}
	return counts
}
