package template

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/ozwilder/xlconsolidate/internal/model"
)

func writeFixture(t *testing.T) string {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	require.NoError(t, f.SetCellValue(sheet, "A1", "Label"))
	require.NoError(t, f.SetCellValue(sheet, "B1", 100))
	require.NoError(t, f.SetCellValue(sheet, "B2", 0.5))

	pctFmt := "0.00%"
	pctStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &pctFmt})
	require.NoError(t, err)
	require.NoError(t, f.SetCellStyle(sheet, "B2", "B2", pctStyle))

	require.NoError(t, f.SetCellFormula(sheet, "B3", "SUM(B1:B2)"))
	require.NoError(t, f.MergeCell(sheet, "A1", "A2"))

	dir := t.TempDir()
	path := filepath.Join(dir, "template.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
	return path
}

func TestAnalyze(t *testing.T) {
	path := writeFixture(t)
	tmpl, err := Analyze(path)
	require.NoError(t, err)

	require.Contains(t, tmpl.Coords, model.Coordinate{Col: 2, Row: 1})
	require.Contains(t, tmpl.Coords, model.Coordinate{Col: 2, Row: 2})

	b2 := tmpl.FormatFor(model.Coordinate{Col: 2, Row: 2})
	require.Equal(t, model.Percentage, b2.Category)

	b3 := tmpl.FormatFor(model.Coordinate{Col: 2, Row: 3})
	require.True(t, b3.HasFormula)

	require.Len(t, tmpl.MergedRanges, 1)
	master, ok := tmpl.MergedMaster(model.Coordinate{Col: 1, Row: 2})
	require.True(t, ok)
	require.Equal(t, model.Coordinate{Col: 1, Row: 1}, master)
}

func TestAnalyze_MissingFile(t *testing.T) {
	_, err := Analyze(filepath.Join(os.TempDir(), "does-not-exist.xlsx"))
	require.Error(t, err)
}
