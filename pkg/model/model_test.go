package model_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

func TestValueString(t *testing.T) {
	tests := []struct {
		name string
		in   interface{}
		want string
	}{
		{name: "nil", in: nil, want: ""},
		{name: "string untrimmed", in: " a ", want: " a "},
		{name: "bytes", in: []byte("abc"), want: "abc"},
		{name: "integral float", in: float64(81301), want: "81301"},
		{name: "fractional float", in: 1.5, want: "1.5"},
		{name: "int", in: 42, want: "42"},
		{name: "bool", in: true, want: "true"},
		{name: "date", in: time.Date(2025, 10, 14, 0, 0, 0, 0, time.UTC), want: "2025-10-14"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, model.ValueString(tt.in))
		})
	}
}

func TestTableCloneAndEqual(t *testing.T) {
	table := model.NewTable("a", "b")
	table.Append("1", nil)
	table.Append("2")

	clone := table.Clone()
	require.True(t, table.Equal(clone))

	clone.Rows[0]["a"] = "changed"
	assert.False(t, table.Equal(clone))
	assert.Equal(t, "1", table.Rows[0].String("a"), "clone must not share rows")

	nullFilled := table.Clone()
	nullFilled.Rows[0]["b"] = ""
	assert.False(t, table.Equal(nullFilled), "null and empty string differ")

	shorter := table.Clone()
	shorter.Rows = shorter.Rows[:1]
	assert.False(t, table.Equal(shorter))
}

func TestIdentityOf(t *testing.T) {
	schema := model.DefaultSchema()
	row := model.Row{"First name": " Ann ", "Last name": nil, "email": "ann@example.com"}

	id := model.IdentityOf(row, schema)
	assert.Equal(t, "Ann", id.FirstName)
	assert.Equal(t, "N/A", id.LastName)
	assert.Equal(t, "N/A", id.Phone)
	assert.Equal(t, "Ann N/A", id.Name())
}

func TestSchemaMissingColumns(t *testing.T) {
	schema := model.DefaultSchema()
	table := model.NewTable("First name", "Last name", "email", "Phone", "Address", "City")

	assert.Equal(t, []string{"State", "Zip"}, schema.MissingColumns(table))
}

func TestLoadSchema(t *testing.T) {
	path := filepath.Join(t.TempDir(), "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("phone: Mobile\nevent_column: BulbSale2024\n"), 0o600))

	schema, err := model.LoadSchema(path)
	require.NoError(t, err)
	assert.Equal(t, "Mobile", schema.Phone)
	assert.Equal(t, "BulbSale2024", schema.EventColumn)
	assert.Equal(t, "Yes", schema.EventValue)
	assert.Equal(t, "First name", schema.FirstName)
}

func TestLoadSchemaMissingFile(t *testing.T) {
	_, err := model.LoadSchema(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestCorrectionString(t *testing.T) {
	id := model.Identity{FirstName: "Ann", LastName: "Smith", Email: "ann@example.com", Phone: "N/A"}

	c := model.NewCorrection(model.StateNormalization, "State", " ca", "CA", 0, id)
	assert.Equal(t, "STATE_NORMALIZATION - State: ' ca' -> 'CA' | Name: Ann Smith | Email: ann@example.com | Phone: N/A", c.String())

	f := model.NewFinding(model.InvalidState, "State", "XX", 0, id)
	assert.Equal(t, model.SeverityWarning, f.Severity)
	assert.Equal(t, "INVALID_STATE - State: 'XX' | Name: Ann Smith | Email: ann@example.com | Phone: N/A", f.String())

	withDetail := f.WithDetail("k", "v")
	assert.Nil(t, f.Details, "WithDetail must not mutate the receiver")
	assert.Equal(t, "v", withDetail.Details["k"])
}

func TestReportCounts(t *testing.T) {
	r := model.NewReport("x")
	r.Add("a", 0)
	r.Add("b", 2)
	r.Add("a", 1)

	assert.Equal(t, []model.Count{{Name: "a", Value: 1}, {Name: "b", Value: 2}}, r.Counts)
	assert.Equal(t, 0, r.Get("missing"))
}
