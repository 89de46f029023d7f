package tabular

import (
	"errors"
	"fmt"
	"strings"
)

// ErrNoRows indicates the source held a header but no data rows.
var ErrNoRows = errors.New("no data rows")

// ParseError is fatal for a run: the blob was not valid tabular data.
type ParseError struct {
	Source string
	Reason string
	Err    error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s: %s: %v", e.Source, e.Reason, e.Err)
	}
	return fmt.Sprintf("parse %s: %s", e.Source, e.Reason)
}

// Unwrap returns the underlying cause.
func (e *ParseError) Unwrap() error { return e.Err }

// Row is one data row. Its 1-based source row number is preserved so
// validation errors can point a human back at the spreadsheet.
type Row struct {
	number int
	cells  []Cell
}

// NewRow creates a Row with its 1-based source row number.
func NewRow(number int, cells []Cell) Row {
	return Row{number: number, cells: cells}
}

// Number returns the 1-based row number in the source file (header is 1).
func (r Row) Number() int { return r.number }

// Cells returns the row's cells in column order.
func (r Row) Cells() []Cell { return r.cells }

// Cell returns the cell at a column index, or the empty cell when the row is
// ragged (short rows are common in hand-edited spreadsheets).
func (r Row) Cell(i int) Cell {
	if i < 0 || i >= len(r.cells) {
		return EmptyCell()
	}
	return r.cells[i]
}

// Table is an ordered sequence of rows under a header. Row 1 of the source
// is always the header naming the columns.
type Table struct {
	source  string
	header  []string
	rows    []Row
	columns map[string]int
}

// NewTable builds a Table, indexing header names case-insensitively.
// It fails with ErrNoRows when rows is empty.
func NewTable(source string, header []string, rows []Row) (Table, error) {
	if len(rows) == 0 {
		return Table{}, &ParseError{Source: source, Reason: "no data rows", Err: ErrNoRows}
	}
	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[normalizeColumn(name)] = i
	}
	return Table{source: source, header: header, rows: rows, columns: columns}, nil
}

// Source returns the origin of the table (file name, sheet name).
func (t Table) Source() string { return t.source }

// Header returns the column names as they appeared in row 1.
func (t Table) Header() []string { return t.header }

// Rows returns the data rows in order.
func (t Table) Rows() []Row { return t.rows }

// Len returns the number of data rows.
func (t Table) Len() int { return len(t.rows) }

// ColumnIndex looks up a column by name, ignoring case and surrounding
// whitespace. Returns -1 when the column does not exist.
func (t Table) ColumnIndex(name string) int {
	if i, ok := t.columns[normalizeColumn(name)]; ok {
		return i
	}
	return -1
}

// CellByColumn returns the named cell of a row, or the empty cell when the
// column is absent.
func (t Table) CellByColumn(row Row, column string) Cell {
	i := t.ColumnIndex(column)
	if i < 0 {
		return EmptyCell()
	}
	return row.Cell(i)
}

func normalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
