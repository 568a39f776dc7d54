// Package template implements the TemplateAnalyzer: reading a template
// workbook once to produce the authoritative TemplateModel every source file
// is filtered and classified against.
package template

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/ozwilder/xlconsolidate/internal/apperrors"
	"github.com/ozwilder/xlconsolidate/internal/model"
	"github.com/ozwilder/xlconsolidate/internal/numfmt"
)

// Analyze opens the workbook at path with formulas preserved, selects the
// active worksheet, and builds a TemplateModel from its cells and merges.
func Analyze(path string) (*model.TemplateModel, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TemplateLoadError, apperrors.ReasonCorrupt, path, err)
	}
	defer f.Close()

	idx := f.GetActiveSheetIndex()
	sheets := f.GetSheetList()
	if idx < 0 || idx >= len(sheets) {
		return nil, apperrors.Wrap(apperrors.TemplateLoadError, apperrors.ReasonCorrupt, path, fmt.Errorf("no active sheet"))
	}
	sheet := sheets[idx]

	m := &model.TemplateModel{
		Coords:    make(map[model.Coordinate]struct{}),
		FormatOf:  make(map[model.Coordinate]model.FormatInfo),
		SheetName: sheet,
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TemplateLoadError, apperrors.ReasonCorrupt, path, err)
	}

	for rowIdx, row := range rows {
		rowNum := rowIdx + 1
		for colIdx := range row {
			colNum := colIdx + 1
			coord := model.Coordinate{Col: colNum, Row: rowNum}
			m.Coords[coord] = struct{}{}

			info, err := cellFormatInfo(f, sheet, coord)
			if err != nil {
				continue
			}
			m.FormatOf[coord] = info
		}
	}

	merges, err := f.GetMergeCells(sheet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.TemplateLoadError, apperrors.ReasonCorrupt, path, err)
	}
	for _, mc := range merges {
		rect, err := rectFromMergeCell(mc)
		if err != nil {
			continue
		}
		m.MergedRanges = append(m.MergedRanges, rect)

		master := rect.Master()
		masterInfo := m.FormatOf[master]
		for r := rect.MinRow; r <= rect.MaxRow; r++ {
			for c := rect.MinCol; c <= rect.MaxCol; c++ {
				coord := model.Coordinate{Col: c, Row: r}
				m.Coords[coord] = struct{}{}
				m.FormatOf[coord] = masterInfo
			}
		}
	}

	return m, nil
}

// cellFormatInfo reads the number format, formula presence, and derived
// category for a single template cell.
func cellFormatInfo(f *excelize.File, sheet string, coord model.Coordinate) (model.FormatInfo, error) {
	cellRef, err := excelize.CoordinatesToCellName(coord.Col, coord.Row)
	if err != nil {
		return model.FormatInfo{}, err
	}

	numFmt := numberFormatString(f, sheet, cellRef)
	category := numfmt.Classify(numFmt)

	hasFormula := false
	if formula, err := f.GetCellFormula(sheet, cellRef); err == nil && formula != "" {
		hasFormula = true
	}

	return model.FormatInfo{
		Category:           category,
		NumberFormatString: numFmt,
		HasFormula:         hasFormula,
	}, nil
}

// numberFormatString resolves the literal number-format pattern for a cell,
// preferring a custom format string and falling back to a built-in-ID
// lookup table for the common built-ins (see internal/numfmt.BuiltinPattern).
func numberFormatString(f *excelize.File, sheet, cellRef string) string {
	styleID, err := f.GetCellStyle(sheet, cellRef)
	if err != nil {
		return ""
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		return ""
	}
	if style.CustomNumFmt != nil && *style.CustomNumFmt != "" {
		return *style.CustomNumFmt
	}
	if pattern, ok := numfmt.BuiltinPattern(style.NumFmt); ok {
		return pattern
	}
	return ""
}

func rectFromMergeCell(mc excelize.MergeCell) (model.Rect, error) {
	startCol, startRow, err := excelize.CellNameToCoordinates(mc.GetStartAxis())
	if err != nil {
		return model.Rect{}, err
	}
	endCol, endRow, err := excelize.CellNameToCoordinates(mc.GetEndAxis())
	if err != nil {
		return model.Rect{}, err
	}
	return model.Rect{MinCol: startCol, MinRow: startRow, MaxCol: endCol, MaxRow: endRow}, nil
}
