package pipeline_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/David-Botos/contact-cleanse/pkg/auditlog"
	"github.com/David-Botos/contact-cleanse/pkg/cleaner"
	"github.com/David-Botos/contact-cleanse/pkg/guard"
	"github.com/David-Botos/contact-cleanse/pkg/model"
	"github.com/David-Botos/contact-cleanse/pkg/pipeline"
	"github.com/David-Botos/contact-cleanse/pkg/tableio"
)

var columns = []string{"First name", "Last name", "email", "Phone", "Address", "City", "State", "Zip"}

func table(rows ...[]interface{}) *model.Table {
	t := model.NewTable(columns...)
	for _, r := range rows {
		t.Append(r...)
	}
	return t
}

func defaultPipeline(logger *zap.Logger) *pipeline.Pipeline {
	return pipeline.New(logger, auditlog.New(), pipeline.Options{
		Schema:   model.DefaultSchema(),
		Cleaning: cleaner.DefaultOptions(),
	})
}

func countType(entries []model.Correction, t model.CorrectionType) int {
	n := 0
	for _, e := range entries {
		if e.Type == t {
			n++
		}
	}
	return n
}

func TestRunPhoneScenario(t *testing.T) {
	input := table(
		[]interface{}{"Ann", "Lee", "ann@x.org", "5551234567", "1 Elm St", "Durango", "CO", "81301"},
		[]interface{}{"Bob", "Ray", "bob@x.org", "555123", "2 Elm St", "Durango", "CO", "81301"},
		[]interface{}{"Cy", "Oh", "cy@x.org", " (555) 123-4567 ", "3 Elm St", "Durango", "CO", "81301"},
	)

	p := defaultPipeline(zap.NewNop())
	result, err := p.Run(input)
	require.NoError(t, err)

	entries := p.Log().Entries()
	assert.Equal(t, 2, countType(entries, model.PhoneFormat))
	assert.Equal(t, 1, countType(entries, model.InvalidPhone))
	assert.Equal(t, 3, result.Output.Len())
	assert.Equal(t, "555-123-4567", result.Output.Rows[0]["Phone"])
	assert.Equal(t, "555123", result.Output.Rows[1]["Phone"])
	assert.Equal(t, "555-123-4567", result.Output.Rows[2]["Phone"])

	assert.True(t, result.SafeToPersist())
	assert.True(t, result.Changed)
	assert.True(t, result.ShouldWrite())
	assert.Equal(t, 2, result.Summary.PhoneChanges)
	assert.Equal(t, 1, result.Summary.InvalidPhones)
	assert.Equal(t, 3, result.Summary.Records)

	// The caller's table is untouched
	assert.Equal(t, "5551234567", input.Rows[0]["Phone"])
	assert.Equal(t, "5551234567", result.Input.Rows[0]["Phone"])
}

func TestRunStagesInOrder(t *testing.T) {
	p := defaultPipeline(zap.NewNop())
	result, err := p.Run(table(
		[]interface{}{"Ann", "Lee", "ann@x.org", "5551234567", "123 NORTH MAIN STREET", "Durango", " co ", "81301"},
	))
	require.NoError(t, err)

	stages := make([]string, 0, len(result.Reports))
	for _, r := range result.Reports {
		stages = append(stages, r.Stage)
	}
	assert.Equal(t, []string{
		cleaner.StageState,
		cleaner.StagePhoneScan,
		cleaner.StageContactTrim,
		cleaner.StageAddressSpacing,
		cleaner.StageAddressStandardize,
		cleaner.StagePhoneFormat,
		cleaner.StageEventFlag,
	}, stages)

	assert.Equal(t, "CO", result.Output.Rows[0]["State"])
	assert.Equal(t, "123 N Main St", result.Output.Rows[0]["Address"])
}

func TestRunMissingColumns(t *testing.T) {
	input := model.NewTable("First name", "Last name", "email", "Phone", "Address", "City")
	input.Append("Ann", "Lee", "ann@x.org", "5551234567", "1 Elm St", "Durango")

	p := defaultPipeline(zap.NewNop())
	result, err := p.Run(input)
	require.Error(t, err)
	assert.Nil(t, result)

	var schemaErr *pipeline.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, []string{"State", "Zip"}, schemaErr.Missing)
	assert.Equal(t, pipeline.CategoryFatal, pipeline.Categorize(err))
	assert.Equal(t, 0, p.Log().Len())
}

func TestRunCatchesDroppedRow(t *testing.T) {
	dropLast := cleaner.StageFunc{
		StageName: "drop_last",
		Fn: func(t *model.Table) (*model.Table, cleaner.Outcome) {
			out := t.Clone()
			out.Rows = out.Rows[:len(out.Rows)-1]
			return out, cleaner.Outcome{Report: model.NewReport("drop_last")}
		},
	}

	core, logs := observer.New(zapcore.InfoLevel)
	p := pipeline.New(zap.New(core), nil, pipeline.Options{
		Schema: model.DefaultSchema(),
		Stages: []cleaner.Stage{dropLast},
	})

	result, err := p.Run(table(
		[]interface{}{"Ann", "Lee", "ann@x.org", "5551234567", "1 Elm St", "Durango", "CO", "81301"},
		[]interface{}{"Bob", "Ray", "bob@x.org", "5551234568", "2 Elm St", "Durango", "CO", "81301"},
	))
	require.NoError(t, err)

	assert.False(t, result.SafeToPersist())
	assert.False(t, result.ShouldWrite())

	var countErr *guard.RowCountError
	require.True(t, errors.As(result.GuardError(), &countErr))
	assert.Equal(t, 2, countErr.Before)
	assert.Equal(t, 1, countErr.After)
	assert.Equal(t, pipeline.CategoryFatal, pipeline.Categorize(result.GuardError()))

	// The summary is still logged
	assert.Equal(t, 1, logs.FilterMessage("Final processing summary").Len())
	assert.Equal(t, 1, logs.FilterMessage("Record count mismatch").Len())
}

func TestRunTreatsNilTableAsLoss(t *testing.T) {
	lose := cleaner.StageFunc{
		StageName: "lose_table",
		Fn: func(*model.Table) (*model.Table, cleaner.Outcome) {
			return nil, cleaner.Outcome{Report: model.NewReport("lose_table")}
		},
	}

	core, logs := observer.New(zapcore.InfoLevel)
	p := pipeline.New(zap.New(core), nil, pipeline.Options{
		Schema: model.DefaultSchema(),
		Stages: []cleaner.Stage{lose},
	})

	result, err := p.Run(table(
		[]interface{}{"Ann", "Lee", "ann@x.org", "5551234567", "1 Elm St", "Durango", "CO", "81301"},
	))
	require.NoError(t, err)

	assert.False(t, result.SafeToPersist())
	assert.False(t, result.ShouldWrite())
	var countErr *guard.RowCountError
	require.True(t, errors.As(result.GuardError(), &countErr))
	assert.Equal(t, 1, countErr.Before)
	assert.Equal(t, 0, countErr.After)
	assert.Equal(t, 1, logs.FilterMessage("Stage returned no table").Len())
}

func TestRunUnchangedData(t *testing.T) {
	p := defaultPipeline(zap.NewNop())
	result, err := p.Run(table(
		[]interface{}{"Ann", "Lee", "ann@x.org", "555-123-4567", "1 Elm St", "Durango", "CO", "81301"},
	))
	require.NoError(t, err)

	assert.False(t, result.Changed)
	assert.True(t, result.SafeToPersist())
	assert.False(t, result.ShouldWrite())
	assert.Equal(t, 0, p.Log().Len())
}

func TestRunNullsAreFilledButNotAChange(t *testing.T) {
	p := defaultPipeline(zap.NewNop())
	result, err := p.Run(table(
		[]interface{}{"Ann", "Lee", nil, "555-123-4567", "1 Elm St", "Durango", "CO", nil},
	))
	require.NoError(t, err)

	assert.Equal(t, "", result.Output.Rows[0]["email"])
	assert.Equal(t, "", result.Output.Rows[0]["Zip"])
	assert.Equal(t, []model.Count{{Name: "email", Value: 1}, {Name: "Zip", Value: 1}}, result.NullsFilled)
	assert.False(t, result.Changed)
	assert.Nil(t, result.Input.Rows[0]["email"])
}

func TestRunIsIdempotent(t *testing.T) {
	input := table(
		[]interface{}{"Ann", "Lee", " ann@x.org ", "(555) 123-4567", "12 west oak avenue,apt 4", "Durango", " nm", "87401"},
	)

	first, err := defaultPipeline(zap.NewNop()).Run(input)
	require.NoError(t, err)
	require.True(t, first.Changed)

	second, err := defaultPipeline(zap.NewNop()).Run(first.Output)
	require.NoError(t, err)
	assert.False(t, second.Changed)
	assert.True(t, first.Output.Equal(second.Output))
}

func TestRunEventFlag(t *testing.T) {
	cols := append(append([]string(nil), columns...), "BulbSale2024")
	input := model.NewTable(cols...)
	input.Append("Ann", "Lee", "ann@x.org", "555-123-4567", "1 Elm St", "Durango", "CO", "81301", "Yes")
	input.Append("Bob", "Ray", "bob@x.org", "555-123-4568", "2 Elm St", "Durango", "CO", "81301", "")
	input.Append("Cy", "Oh", "cy@x.org", "555-123-4569", "3 Elm St", "Durango", "CO", "81301", "no")

	schema := model.DefaultSchema()
	schema.EventColumn = "BulbSale2024"

	p := pipeline.New(zap.NewNop(), nil, pipeline.Options{Schema: schema, Cleaning: cleaner.DefaultOptions()})
	result, err := p.Run(input)
	require.NoError(t, err)

	assert.Equal(t, "BulbSale2024", result.Summary.EventColumn)
	assert.Equal(t, 1, result.Summary.EventValid)
	assert.Equal(t, 2, result.Summary.EventInvalid)
	assert.Equal(t, "no", result.Output.Rows[2]["BulbSale2024"])
}

func TestRunMetrics(t *testing.T) {
	p := defaultPipeline(zap.NewNop())
	result, err := p.Run(table(
		[]interface{}{"Ann", "Lee", "ann@x.org", "5551234567", "1 Elm St", "Durango", "zz", "81301"},
	))
	require.NoError(t, err)

	m := result.Metrics
	assert.Equal(t, 1, m.RowsIn)
	assert.Equal(t, 1, m.RowsOut)
	assert.Len(t, m.Stages, 7)
	assert.Equal(t, 1, m.CorrectionsByType[model.PhoneFormat])
	assert.Equal(t, 1, m.CorrectionsByType[model.StateNormalization])
	assert.Equal(t, 1, m.CorrectionsByType[model.InvalidState])
	assert.Equal(t, 3, m.TotalCorrections())
	assert.False(t, m.EndTime.IsZero())
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want pipeline.ErrorCategory
	}{
		{"nil", nil, pipeline.CategoryNone},
		{"schema", &pipeline.SchemaError{Missing: []string{"Zip"}}, pipeline.CategoryFatal},
		{"row count", fmt.Errorf("guard: %w", &guard.RowCountError{Before: 2, After: 1}), pipeline.CategoryFatal},
		{"source", &tableio.SourceError{Path: "in.xlsx", Op: "read", Err: errors.New("corrupt")}, pipeline.CategoryEnvironment},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, pipeline.Categorize(tt.err))
			assert.NotEmpty(t, tt.want.String())
		})
	}
}

func TestCategoryOf(t *testing.T) {
	id := model.Identity{}
	assert.Equal(t, pipeline.CategoryDataQuality, pipeline.CategoryOf(model.NewFinding(model.InvalidPhone, "Phone", "1", 0, id)))
	assert.Equal(t, pipeline.CategoryCorrection, pipeline.CategoryOf(model.NewCorrection(model.PhoneFormat, "Phone", "a", "b", 0, id)))
}
