// pkg/tableio/source.go
package tableio

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// ErrUnsupportedFormat is wrapped by SourceError for extensions with no reader or writer
var ErrUnsupportedFormat = errors.New("unsupported file format")

// SourceError reports a failure to read, parse or write a table.
// A failed read never yields an empty table.
type SourceError struct {
	Path string
	Op   string // read, parse, write, query
	Err  error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *SourceError) Unwrap() error { return e.Err }

// Source produces the table a run cleans
type Source interface {
	Name() string
	Read(ctx context.Context) (*model.Table, error)
}

// FileSource reads a spreadsheet or CSV file chosen by extension
type FileSource struct {
	Path string
}

// Name returns the file path
func (s FileSource) Name() string { return s.Path }

// Read loads the file
func (s FileSource) Read(_ context.Context) (*model.Table, error) {
	return ReadFile(s.Path)
}

// ReadFile loads a table from an .xlsx or .csv file
func ReadFile(path string) (*model.Table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv":
		return ReadCSV(path)
	default:
		return nil, &SourceError{Path: path, Op: "read", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
}

// WriteFile writes a table to an .xlsx or .csv file chosen by extension
func WriteFile(path string, t *model.Table) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return WriteXLSX(path, t)
	case ".csv":
		return WriteCSV(path, t)
	default:
		return &SourceError{Path: path, Op: "write", Err: fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)}
	}
}

// headerName returns a usable column name for a header cell
func headerName(raw string, index int, seen map[string]int) string {
	name := strings.TrimSpace(raw)
	if name == "" {
		name = fmt.Sprintf("Unnamed: %d", index)
	}
	if n, dup := seen[name]; dup {
		seen[name] = n + 1
		name = fmt.Sprintf("%s.%d", name, n+1)
	} else {
		seen[name] = 0
	}
	return name
}

// buildTable turns raw string records into a table. Blank cells become nil.
// A record with no content is kept as an all-null row unless only blank
// records follow it, so every record between the header and the last filled
// record is counted.
func buildTable(header []string, records [][]string) *model.Table {
	seen := make(map[string]int, len(header))
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = headerName(h, i, seen)
	}

	for len(records) > 0 && isBlank(records[len(records)-1]) {
		records = records[:len(records)-1]
	}

	t := model.NewTable(columns...)
	for _, rec := range records {
		row := make(model.Row, len(columns))
		for i, col := range columns {
			if i < len(rec) && rec[i] != "" {
				row[col] = rec[i]
			} else {
				row[col] = nil
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// recordOf renders a row in column order; null cells become ""
func recordOf(t *model.Table, row model.Row) []string {
	rec := make([]string, len(t.Columns))
	for i, col := range t.Columns {
		rec[i] = model.ValueString(row[col])
	}
	return rec
}
