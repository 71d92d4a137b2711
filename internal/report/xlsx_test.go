package report

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/Geotexan/data-wang/internal/model"
)

func TestWriteXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.xlsx")
	require.NoError(t, WriteXLSX(testReport(), path))

	f, err := xlsx.OpenFile(path)
	require.NoError(t, err)
	require.Len(t, f.Sheets, 1)

	sheet := f.Sheets[0]
	assert.Equal(t, "Fibra", sheet.Name)
	require.Len(t, sheet.Rows, 4)

	for i, col := range model.Columns {
		assert.Equal(t, col, sheet.Rows[0].Cells[i].String())
	}
	assert.Equal(t, "a.txt", sheet.Rows[1].Cells[0].String())
	assert.Equal(t, "LOTE 2378", sheet.Rows[1].Cells[3].String())
	assert.Equal(t, "c.txt", sheet.Rows[3].Cells[0].String())
}
