package excel

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestBuildAndReadRoundTrip(t *testing.T) {
	data, err := Build(
		Sheet{
			Name:    "Clients",
			Headers: []string{"Nom", "Téléphone"},
			Rows: [][]any{
				{"Amina Benali", "+213555000111"},
				{"Sara", nil},
			},
		},
		Sheet{Name: "Summary", Headers: []string{"Metric", "Value"}, Rows: [][]any{{"Total", 12.5}}},
	)
	require.NoError(t, err)

	rows, err := ReadFirstSheetBytes(data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Nom", "Téléphone"}, rows[0])
	assert.Equal(t, "Amina Benali", rows[1][0])
	assert.Equal(t, "Sara", rows[2][0])

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	assert.Equal(t, []string{"Clients", "Summary"}, f.GetSheetList())

	styleID, err := f.GetCellStyle("Clients", "B1")
	require.NoError(t, err)
	style, err := f.GetStyle(styleID)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	width, err := f.GetColWidth("Clients", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(len("Amina Benali")+2), width)
}

func TestColumnWidthIsCapped(t *testing.T) {
	data, err := Build(Sheet{Name: "Notes", Headers: []string{"Notes"}, Rows: [][]any{{strings.Repeat("x", 200)}}})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()
	width, err := f.GetColWidth("Notes", "A")
	require.NoError(t, err)
	assert.Equal(t, float64(maxColumnWidth), width)
}

func TestBuildRequiresSheet(t *testing.T) {
	_, err := Build()
	assert.Error(t, err)
}

func TestReadRejectsGarbage(t *testing.T) {
	_, err := ReadFirstSheetBytes([]byte("not a workbook"))
	assert.Error(t, err)
}
