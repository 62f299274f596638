// pkg/tableio/xlsx.go
package tableio

import (
	"errors"

	"github.com/xuri/excelize/v2"

	"github.com/David-Botos/contact-cleanse/pkg/model"
)

// DefaultSheet is the sheet name used when writing a workbook
const DefaultSheet = "Sheet1"

// ReadXLSX loads the first sheet of a workbook. The first row is the header.
func ReadXLSX(path string) (*model.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, &SourceError{Path: path, Op: "read", Err: err}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, &SourceError{Path: path, Op: "parse", Err: errors.New("workbook has no sheets")}
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, &SourceError{Path: path, Op: "parse", Err: err}
	}
	if len(rows) == 0 {
		return nil, &SourceError{Path: path, Op: "parse", Err: errors.New("sheet has no header row")}
	}

	return buildTable(rows[0], rows[1:]), nil
}

// WriteXLSX writes the table to a single-sheet workbook. Non-string values
// keep their type; null cells are left empty.
func WriteXLSX(path string, t *model.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(t.Columns))
	for i, col := range t.Columns {
		header[i] = col
	}
	if err := f.SetSheetRow(DefaultSheet, "A1", &header); err != nil {
		return &SourceError{Path: path, Op: "write", Err: err}
	}

	for r, row := range t.Rows {
		values := make([]interface{}, len(t.Columns))
		for i, col := range t.Columns {
			if v := row[col]; v != nil {
				values[i] = v
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, r+2)
		if err != nil {
			return &SourceError{Path: path, Op: "write", Err: err}
		}
		if err := f.SetSheetRow(DefaultSheet, cell, &values); err != nil {
			return &SourceError{Path: path, Op: "write", Err: err}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return &SourceError{Path: path, Op: "write", Err: err}
	}
	return nil
}
