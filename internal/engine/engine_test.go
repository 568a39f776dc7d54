package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type recordingSink struct {
	events []string
}

func (s *recordingSink) OnProgress(percent int, message string) {
	s.events = append(s.events, message)
}

func writeWorkbook(t *testing.T, path string, values map[string]float64) {
	t.Helper()
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	for cell, v := range values {
		require.NoError(t, f.SetCellValue(sheet, cell, v))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func TestConsolidate_EndToEnd(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.xlsx")
	writeWorkbook(t, templatePath, map[string]float64{"B1": 0})

	sourceDir := filepath.Join(dir, "sources")
	require.NoError(t, os.MkdirAll(sourceDir, 0o755))
	writeWorkbook(t, filepath.Join(sourceDir, "east.xlsx"), map[string]float64{"B1": 10})
	writeWorkbook(t, filepath.Join(sourceDir, "west.xlsx"), map[string]float64{"B1": 20})

	outDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(outDir, 0o755))

	req := Request{
		TemplatePath: templatePath,
		SourceFolder: sourceDir,
		OutputFolder: outDir,
		Options:      DefaultOptions(),
	}

	sink := &recordingSink{}
	result, err := Consolidate(context.Background(), req, sink, nil)
	require.NoError(t, err)
	require.Equal(t, 2, result.FilesProcessed)
	require.Empty(t, result.FilesSkipped)
	require.FileExists(t, result.OutputPath)
	require.Contains(t, sink.events, "template-loaded")
	require.Contains(t, sink.events, "saved")
}

func TestConsolidate_NoSources(t *testing.T) {
	dir := t.TempDir()
	templatePath := filepath.Join(dir, "template.xlsx")
	writeWorkbook(t, templatePath, map[string]float64{"B1": 0})

	sourceDir := filepath.Join(dir, "empty")
	require.NoError(t, os.MkdirAll(sourceDir, 0o755))

	req := Request{
		TemplatePath: templatePath,
		SourceFolder: sourceDir,
		OutputFolder: dir,
		Options:      DefaultOptions(),
	}

	_, err := Consolidate(context.Background(), req, nil, nil)
	require.Error(t, err)
}
