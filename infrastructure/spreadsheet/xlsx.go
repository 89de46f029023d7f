// Package spreadsheet reads tabular input files into tabular.Table values.
package spreadsheet

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/archmapio/archmap/domain/tabular"
)

// ReadXLSX reads one worksheet of an xlsx blob. An empty sheet name selects
// the first worksheet. Cells are read raw: numeric cells (including
// serial-encoded dates) become number cells, everything else text.
func ReadXLSX(r io.Reader, source, sheet string) (tabular.Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return tabular.Table{}, &tabular.ParseError{Source: source, Reason: "not a valid xlsx file", Err: err}
	}
	defer func() { _ = f.Close() }()

	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return tabular.Table{}, &tabular.ParseError{Source: source, Reason: "workbook has no sheets"}
		}
		sheet = sheets[0]
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return tabular.Table{}, &tabular.ParseError{
			Source: source,
			Reason: fmt.Sprintf("read sheet %q", sheet),
			Err:    err,
		}
	}
	if len(raw) == 0 {
		return tabular.Table{}, &tabular.ParseError{Source: source, Reason: "sheet is empty"}
	}

	header := raw[0]
	rows := make([]tabular.Row, 0, len(raw)-1)
	for i, record := range raw[1:] {
		if isBlank(record) {
			continue
		}
		cells := make([]tabular.Cell, len(record))
		for j, v := range record {
			cells[j] = detectCell(v)
		}
		// Source row numbers are 1-based and include the header row.
		rows = append(rows, tabular.NewRow(i+2, cells))
	}

	return tabular.NewTable(sheetSource(source, sheet), header, rows)
}

// detectCell types a raw xlsx value. Raw numeric values cover both numbers
// and serial-encoded dates; the validator decides which one a column means.
func detectCell(v string) tabular.Cell {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		return tabular.EmptyCell()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return tabular.NumberCell(f)
	}
	switch trimmed {
	case "TRUE":
		return tabular.BoolCell(true)
	case "FALSE":
		return tabular.BoolCell(false)
	}
	return tabular.TextCell(v)
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func sheetSource(source, sheet string) string {
	if sheet == "" {
		return source
	}
	return source + "#" + sheet
}
