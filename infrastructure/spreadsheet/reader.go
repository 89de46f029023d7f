package spreadsheet

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/archmapio/archmap/domain/tabular"
)

// FileReader reads tabular files from the local filesystem. It satisfies the
// pipeline's table reader contract.
type FileReader struct{}

// ReadTable reads one sheet from a file on disk.
func (FileReader) ReadTable(path, sheet string) (tabular.Table, error) {
	return ReadFile(path, sheet)
}

// ReadFile reads a tabular file, picking the reader by extension
// (.xlsx/.xlsm → xlsx, .csv → csv).
func ReadFile(path, sheet string) (tabular.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return tabular.Table{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	source := filepath.Base(path)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx", ".xlsm":
		return ReadXLSX(f, source, sheet)
	case ".csv":
		return ReadCSV(f, source)
	default:
		return tabular.Table{}, &tabular.ParseError{
			Source: source,
			Reason: fmt.Sprintf("unsupported file extension %q", filepath.Ext(path)),
		}
	}
}
