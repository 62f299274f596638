// pkg/model/record.go
package model

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Row is a single contact record keyed by column name.
// A nil value represents an empty (null) cell.
type Row map[string]interface{}

// Table is an ordered set of rows sharing one column schema
type Table struct {
	Columns []string // Column names in source order
	Rows    []Row
}

// NewTable creates an empty table with the given columns
func NewTable(columns ...string) *Table {
	return &Table{
		Columns: append([]string(nil), columns...),
		Rows:    make([]Row, 0),
	}
}

// Len returns the number of rows in the table
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// HasColumn reports whether the column is part of the table schema
func (t *Table) HasColumn(name string) bool {
	for _, col := range t.Columns {
		if col == name {
			return true
		}
	}
	return false
}

// Append adds a row built from values in column order.
// Extra values are ignored and missing values are stored as nil.
func (t *Table) Append(values ...interface{}) {
	row := make(Row, len(t.Columns))
	for i, col := range t.Columns {
		if i < len(values) {
			row[col] = values[i]
		} else {
			row[col] = nil
		}
	}
	t.Rows = append(t.Rows, row)
}

// Clone returns a deep copy of the table's rows and columns
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	out := &Table{
		Columns: append([]string(nil), t.Columns...),
		Rows:    make([]Row, len(t.Rows)),
	}
	for i, row := range t.Rows {
		out.Rows[i] = row.Clone()
	}
	return out
}

// Equal reports whether both tables hold the same columns and the same
// string form of every cell
func (t *Table) Equal(other *Table) bool {
	if t.Len() != other.Len() || len(t.Columns) != len(other.Columns) {
		return false
	}
	for i, col := range t.Columns {
		if other.Columns[i] != col {
			return false
		}
	}
	for i, row := range t.Rows {
		for _, col := range t.Columns {
			a, b := row[col], other.Rows[i][col]
			if (a == nil) != (b == nil) {
				return false
			}
			if ValueString(a) != ValueString(b) {
				return false
			}
		}
	}
	return true
}

// Clone returns a shallow copy of the row
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// String returns the string form of a cell, or "" when absent or null
func (r Row) String(col string) string {
	return ValueString(r[col])
}

// Identity is the human-readable snapshot used to locate a row in the source file.
// It is never validated for uniqueness.
type Identity struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// IdentityOf snapshots the identifying fields of a row using the schema's column names
func IdentityOf(row Row, schema Schema) Identity {
	return Identity{
		FirstName: orNA(row.String(schema.FirstName)),
		LastName:  orNA(row.String(schema.LastName)),
		Email:     orNA(row.String(schema.Email)),
		Phone:     orNA(row.String(schema.Phone)),
	}
}

// Name returns "First Last"
func (id Identity) Name() string {
	return id.FirstName + " " + id.LastName
}

func orNA(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "N/A"
	}
	return s
}

// ValueString converts a cell value to its string form without trimming.
// It never fails: unknown types fall back to fmt formatting.
func ValueString(v interface{}) string {
	if v == nil {
		return ""
	}

	switch val := v.(type) {
	case string:
		return val
	case []byte:
		return string(val)
	case *string:
		if val == nil {
			return ""
		}
		return *val
	case float64:
		// Spreadsheet numerics (phone, zip) must not render as 5.551234567e+09
		return strconv.FormatFloat(val, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(val), 'f', -1, 32)
	case time.Time:
		return val.Format("2006-01-02")
	case fmt.Stringer:
		return val.String()
	default:
		return fmt.Sprintf("%v", val)
	}
}
