package spreadsheet

import (
	"encoding/csv"
	"errors"
	"io"
	"strings"

	"github.com/archmapio/archmap/domain/tabular"
)

// ReadCSV reads a CSV blob. CSV carries no type information, so every
// non-empty cell is text; typing happens in the validator. Records are read
// one at a time so row numbers stay anchored to the source file even when
// the reader skips blank lines.
func ReadCSV(r io.Reader, source string) (tabular.Table, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // hand-edited files are often ragged
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return tabular.Table{}, &tabular.ParseError{Source: source, Reason: "file is empty"}
	}
	if err != nil {
		return tabular.Table{}, &tabular.ParseError{Source: source, Reason: "not valid csv", Err: err}
	}

	var rows []tabular.Row
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return tabular.Table{}, &tabular.ParseError{Source: source, Reason: "not valid csv", Err: err}
		}
		if isBlank(record) {
			continue
		}

		line, _ := reader.FieldPos(0)
		cells := make([]tabular.Cell, len(record))
		for j, v := range record {
			if strings.TrimSpace(v) == "" {
				cells[j] = tabular.EmptyCell()
			} else {
				cells[j] = tabular.TextCell(v)
			}
		}
		rows = append(rows, tabular.NewRow(line, cells))
	}

	return tabular.NewTable(source, header, rows)
}
