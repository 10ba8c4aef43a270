package sheet

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestValidate(t *testing.T) {
	wide := make([]string, MinColumns)
	assert.NoError(t, (&Table{Headers: wide}).Validate())

	narrow := make([]string, MinColumns-1)
	assert.ErrorIs(t, (&Table{Headers: narrow}).Validate(), ErrInsufficientColumns)

	assert.ErrorIs(t, (&Table{}).Validate(), ErrInsufficientColumns)
}

func TestCell(t *testing.T) {
	row := []string{"a", "b"}
	assert.Equal(t, "a", Cell(row, 0))
	assert.Equal(t, "b", Cell(row, 1))
	assert.Equal(t, "", Cell(row, 2))
	assert.Equal(t, "", Cell(row, 18))
	assert.Equal(t, "", Cell(row, -1))
	assert.Equal(t, "", Cell(nil, 0))
}

func TestColumnIndex(t *testing.T) {
	table := &Table{Headers: []string{"Folio", " Rut Emisor ", "Monto Total"}}

	assert.Equal(t, 0, table.ColumnIndex("Folio"))
	assert.Equal(t, 0, table.ColumnIndex("folio"))
	assert.Equal(t, 1, table.ColumnIndex("Rut Emisor"))
	assert.Equal(t, 2, table.ColumnIndex("monto total"))
	assert.Equal(t, -1, table.ColumnIndex("Fecha Emisión"))
}

func TestWriteReadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")

	sheets := []Sheet{
		{
			Name:    "Procesado",
			Headers: []string{"Folio", "Tipo", "Guía Extraída"},
			Rows: [][]any{
				{"4449", "Factura", 111},
				{"4450", "Guía", ""},
			},
		},
		{
			Name:    "Facturas",
			Headers: []string{"Folio", "Tipo", "Guía Extraída"},
			Rows:    [][]any{{"4449", "Factura", 111}},
		},
	}
	require.NoError(t, WriteXLSX(path, sheets))

	table, err := ReadXLSX(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Folio", "Tipo", "Guía Extraída"}, table.Headers)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "4449", table.Rows[0][0])
	assert.Equal(t, "111", table.Rows[0][2])

	// The second worksheet made it into the workbook too.
	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Procesado", "Facturas"}, f.GetSheetList())
}

func TestWriteXLSXNoSheets(t *testing.T) {
	err := WriteXLSX(filepath.Join(t.TempDir(), "out.xlsx"), nil)
	assert.Error(t, err)
}

func TestReadXLSXMissingFile(t *testing.T) {
	_, err := ReadXLSX(filepath.Join(t.TempDir(), "missing.xlsx"))
	assert.Error(t, err)
}
