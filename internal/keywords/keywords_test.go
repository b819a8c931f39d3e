package keywords

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/licitaware/pncpwatch/internal/types"
)

func buildWorkbook(t *testing.T, header []string, rows [][]string) *bytes.Buffer {
	t.Helper()

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	for i, h := range header {
		cellName, err := excelize.CoordinatesToCellName(i+1, 1)
		require.NoError(t, err)
		require.NoError(t, f.SetCellValue(sheet, cellName, h))
	}
	for r, row := range rows {
		for i, v := range row {
			cellName, err := excelize.CoordinatesToCellName(i+1, r+2)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheet, cellName, v))
		}
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return &buf
}

var defaultHeader = []string{"company", "term", "weight", "mandatory", "category"}

func TestLoadGroupsByCompany(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader, [][]string{
		{"Acme", "Ponte de Concreto", "4", "yes", "technical"},
		{"Acme", "pavimentação", "2", "no", "other"},
		{"Beta", "saneamento", "3", "", "tecnica"},
	})

	profiles, err := LoadReader(buf)
	require.NoError(t, err)

	require.Len(t, profiles, 2)
	require.Len(t, profiles["Acme"], 2)

	first := profiles["Acme"][0]
	assert.Equal(t, []string{"ponte", "de", "concreto"}, first.Tokens)
	assert.Equal(t, 4, first.Weight)
	assert.True(t, first.Mandatory)
	assert.Equal(t, types.CategoryTechnical, first.Category)

	second := profiles["Acme"][1]
	assert.Equal(t, []string{"pavimentacao"}, second.Tokens)
	assert.False(t, second.Mandatory)
	assert.Equal(t, types.CategoryOther, second.Category)

	assert.Equal(t, types.CategoryTechnical, profiles["Beta"][0].Category)
}

func TestLoadHeaderInsensitive(t *testing.T) {
	buf := buildWorkbook(t, []string{" Company ", "TERM", " Weight", "Mandatory ", "CATEGORY"}, [][]string{
		{"Acme", "obra", "1", "no", "other"},
	})

	profiles, err := LoadReader(buf)
	require.NoError(t, err)
	require.Len(t, profiles["Acme"], 1)
}

func TestLoadMissingColumnFatal(t *testing.T) {
	buf := buildWorkbook(t, []string{"company", "term", "weight", "mandatory"}, nil)

	_, err := LoadReader(buf)
	require.ErrorIs(t, err, ErrMissingColumn)
	assert.Contains(t, err.Error(), "category")
}

func TestLoadDropsBlankTerms(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader, [][]string{
		{"Acme", "   ", "4", "yes", "technical"},
		{"Acme", "ponte", "2", "no", "other"},
		{"", "estrada", "1", "no", "other"},
	})

	profiles, err := LoadReader(buf)
	require.NoError(t, err)
	require.Len(t, profiles, 1)
	require.Len(t, profiles["Acme"], 1)
	assert.Equal(t, []string{"ponte"}, profiles["Acme"][0].Tokens)
}

func TestLoadBadWeightBecomesZero(t *testing.T) {
	buf := buildWorkbook(t, defaultHeader, [][]string{
		{"Acme", "ponte", "abc", "yes", "technical"},
		{"Acme", "viaduto", "-2", "no", "other"},
	})

	profiles, err := LoadReader(buf)
	require.NoError(t, err)
	assert.Equal(t, 0, profiles["Acme"][0].Weight)
	assert.Equal(t, 0, profiles["Acme"][1].Weight)
}
