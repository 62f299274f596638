// pkg/tableio/csv.go
package tableio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// ReadCSV loads a table from a CSV file whose first record is the header
func ReadCSV(path string) (*model.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &SourceError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	t, err := DecodeCSV(f)
	if err != nil {
		return nil, &SourceError{Path: path, Op: "parse", Err: err}
	}
	return t, nil
}

// DecodeCSV reads a table from CSV data
func DecodeCSV(r io.Reader) (*model.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	var records [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		records = append(records, rec)
	}
	return buildTable(header, records), nil
}

// WriteCSV writes the table to a CSV file, header first
func WriteCSV(path string, t *model.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return &SourceError{Path: path, Op: "write", Err: err}
	}

	if err := EncodeCSV(f, t); err != nil {
		f.Close()
		return &SourceError{Path: path, Op: "write", Err: err}
	}
	if err := f.Close(); err != nil {
		return &SourceError{Path: path, Op: "write", Err: err}
	}
	return nil
}

// EncodeCSV writes the table as CSV data
func EncodeCSV(w io.Writer, t *model.Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	for _, row := range t.Rows {
		if err := cw.Write(recordOf(t, row)); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
