package sheet

import (
	"errors"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Column layout of the I-Construye DTE export. The document-type label and
// the free-text reference description sit at fixed positions; the remaining
// columns are located by header name because the portal has shuffled them
// between export versions.
const (
	TypeColumn        = 1
	DescriptionColumn = 18
	MinColumns        = 19
)

// ErrInsufficientColumns is returned when the workbook is narrower than the
// 19 columns the pipeline expects.
var ErrInsufficientColumns = errors.New("sheet: file has insufficient columns (19 expected)")

// Table is one worksheet loaded into memory: a header row plus data rows.
// Rows are never mutated by the pipeline, only read and copied.
type Table struct {
	Headers []string
	Rows    [][]string
}

// ReadXLSX loads the first worksheet of an xlsx file into a Table.
func ReadXLSX(path string) (*Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	name := f.GetSheetName(0)
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", name, err)
	}
	if len(rows) == 0 {
		return &Table{}, nil
	}
	return &Table{Headers: rows[0], Rows: rows[1:]}, nil
}

// Validate checks that the table is wide enough for the fixed column
// layout. It must run before rows reach the expansion engine.
func (t *Table) Validate() error {
	if len(t.Headers) < MinColumns {
		return ErrInsufficientColumns
	}
	return nil
}

// Cell returns the value at idx, or "" when the row is shorter than idx+1.
// GetRows trims trailing empty cells, so short rows are normal.
func Cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

// ColumnIndex finds a column by header name, case-insensitive and ignoring
// surrounding whitespace. Returns -1 when absent.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Headers {
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}

// Sheet is one worksheet of an output workbook.
type Sheet struct {
	Name    string
	Headers []string
	Rows    [][]any
}

// WriteXLSX writes the given worksheets to an xlsx file, in order. The
// first sheet replaces the workbook's default sheet.
func WriteXLSX(path string, sheets []Sheet) error {
	if len(sheets) == 0 {
		return errors.New("sheet: no sheets to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheets[0].Name); err != nil {
		return fmt.Errorf("renaming default sheet: %w", err)
	}
	for _, s := range sheets[1:] {
		if _, err := f.NewSheet(s.Name); err != nil {
			return fmt.Errorf("creating sheet %q: %w", s.Name, err)
		}
	}

	for _, s := range sheets {
		header := make([]any, len(s.Headers))
		for i, h := range s.Headers {
			header[i] = h
		}
		if err := f.SetSheetRow(s.Name, "A1", &header); err != nil {
			return fmt.Errorf("writing header of %q: %w", s.Name, err)
		}
		for i, row := range s.Rows {
			cell, err := excelize.CoordinatesToCellName(1, i+2)
			if err != nil {
				return err
			}
			if err := f.SetSheetRow(s.Name, cell, &row); err != nil {
				return fmt.Errorf("writing row %d of %q: %w", i+2, s.Name, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving workbook: %w", err)
	}
	return nil
}
