package spreadsheet

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archmapio/archmap/domain/tabular"
)

func TestReadCSV(t *testing.T) {
	input := strings.Join([]string{
		"ID,Name,Owner",
		"CAP1,Billing,alice@example.com",
		"",
		"CAP2,HR,",
	}, "\n")

	table, err := ReadCSV(strings.NewReader(input), "capabilities.csv")
	require.NoError(t, err)

	assert.Equal(t, []string{"ID", "Name", "Owner"}, table.Header())
	// The blank line is skipped but row numbers stay anchored to the file.
	require.Equal(t, 2, table.Len())
	assert.Equal(t, 2, table.Rows()[0].Number())
	assert.Equal(t, 4, table.Rows()[1].Number())

	first := table.Rows()[0]
	assert.Equal(t, tabular.KindText, table.CellByColumn(first, "ID").Kind())
	assert.Equal(t, "Billing", table.CellByColumn(first, "Name").Text())

	second := table.Rows()[1]
	assert.True(t, table.CellByColumn(second, "Owner").IsEmpty())
}

func TestReadCSVRaggedRows(t *testing.T) {
	input := "A,B,C\nonly\n"

	table, err := ReadCSV(strings.NewReader(input), "ragged.csv")
	require.NoError(t, err)

	row := table.Rows()[0]
	assert.Equal(t, "only", table.CellByColumn(row, "A").Text())
	assert.True(t, table.CellByColumn(row, "C").IsEmpty())
}

func TestReadCSVEmptyInput(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), "empty.csv")
	require.Error(t, err)

	var parseErr *tabular.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestReadFileUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.parquet")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))

	_, err := ReadFile(path, "")
	require.Error(t, err)

	var parseErr *tabular.ParseError
	assert.True(t, errors.As(err, &parseErr))
}

func TestDetectCell(t *testing.T) {
	assert.Equal(t, tabular.KindNumber, detectCell("45292").Kind())
	assert.Equal(t, tabular.KindNumber, detectCell("3.14").Kind())
	assert.Equal(t, tabular.KindBool, detectCell("TRUE").Kind())
	assert.Equal(t, tabular.KindText, detectCell("CAP1").Kind())
	assert.Equal(t, tabular.KindEmpty, detectCell("  ").Kind())
}
