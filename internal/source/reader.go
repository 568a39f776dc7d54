// Package source implements the SourceReader: streaming a single source
// workbook's active sheet, filtering to the template's coordinate universe,
// and emitting coerced records for the Aggregator.
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ozwilder/xlconsolidate/internal/apperrors"
	"github.com/ozwilder/xlconsolidate/internal/coerce"
	"github.com/ozwilder/xlconsolidate/internal/model"
)

// Record is a single (coordinate, value, source-label) emission.
type Record struct {
	Coord  model.Coordinate
	Value  decimal.Decimal
	Source string
}

// Label returns a source file's label: its base name without extension.
// Two sources with the same label combine additively in the Aggregator
// regardless of their original extension or folder.
func Label(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// StrictMismatch is returned when strict structural validation is enabled
// and a source's used-range size doesn't match the template's.
type StrictMismatch struct {
	Path           string
	TemplateCoords int
	SourceCoords   int
}

func (e *StrictMismatch) Error() string {
	return "source structure does not match template"
}

// Read streams path's active worksheet and emits one Record per cell that
// survives the coordinate filter, formula skip, and coercion. onRecord is
// invoked synchronously for each emitted record, in row-major order. ctx is
// checked once per row so a caller cancelling mid-file gets control back
// between rows rather than after the whole sheet is scanned.
//
// strict enables optional structural validation: a mismatch between the
// source's used-range cell count and the template's coordinate count fails
// fast with a StrictMismatch instead of proceeding.
func Read(ctx context.Context, path string, tmpl *model.TemplateModel, strict bool, onRecord func(Record)) (skipped []error, err error) {
	if IsLegacyXLS(path) {
		return nil, apperrors.Wrap(apperrors.SourceReadError, apperrors.ReasonEncoding, path, nil)
	}
	f, openErr := excelize.OpenFile(path)
	if openErr != nil {
		return nil, apperrors.Wrap(apperrors.SourceReadError, classifyOpenErr(openErr), path, openErr)
	}
	defer f.Close()

	idx := f.GetActiveSheetIndex()
	sheets := f.GetSheetList()
	if idx < 0 || idx >= len(sheets) {
		return nil, apperrors.Wrap(apperrors.SourceReadError, apperrors.ReasonCorrupt, path, nil)
	}
	sheet := sheets[idx]
	label := Label(path)

	if strict {
		if mismatchErr := checkStructure(f, sheet, tmpl, path); mismatchErr != nil {
			return nil, apperrors.Wrap(apperrors.StructureMismatchError, apperrors.ReasonStructureMismatch, path, mismatchErr)
		}
	}

	rows, err := f.Rows(sheet)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.SourceReadError, apperrors.ReasonCorrupt, path, err)
	}
	defer rows.Close()

	rowNum := 0
	for rows.Next() {
		rowNum++
		if cancelErr := ctx.Err(); cancelErr != nil {
			return skipped, apperrors.New(apperrors.Cancelled, cancelErr)
		}
		cols, colsErr := rows.Columns()
		if colsErr != nil {
			skipped = append(skipped, apperrors.Wrap(apperrors.SourceReadError, apperrors.ReasonIO, path, colsErr))
			continue
		}
		for colIdx, raw := range cols {
			if strings.TrimSpace(raw) == "" {
				continue
			}
			colNum := colIdx + 1
			coord := model.Coordinate{Col: colNum, Row: rowNum}

			if _, ok := tmpl.Coords[coord]; !ok {
				continue
			}

			cellRef, cellErr := excelize.CoordinatesToCellName(colNum, rowNum)
			if cellErr != nil {
				continue
			}
			if formula, fErr := f.GetCellFormula(sheet, cellRef); fErr == nil && formula != "" {
				continue
			}

			info := tmpl.FormatFor(coord)
			cellType, typeErr := f.GetCellType(sheet, cellRef)
			isNumeric := typeErr == nil && cellType == excelize.CellTypeNumber

			value, ok, coerceErr := coerce.Coerce(coerce.Input{Raw: raw, IsNumeric: isNumeric}, info.Category)
			if coerceErr != nil {
				skipped = append(skipped, apperrors.Wrap(apperrors.CoerceError, apperrors.ReasonCoerceFailed, cellRef, coerceErr))
				continue
			}
			if !ok {
				continue
			}

			onRecord(Record{Coord: coord, Value: value, Source: label})
		}
	}

	return skipped, nil
}

func checkStructure(f *excelize.File, sheet string, tmpl *model.TemplateModel, path string) error {
	rows, err := f.GetRows(sheet)
	if err != nil {
		return err
	}
	sourceCoords := 0
	for _, row := range rows {
		sourceCoords += len(row)
	}
	templateCoords := len(tmpl.Coords)
	if sourceCoords != templateCoords {
		return &StrictMismatch{Path: path, TemplateCoords: templateCoords, SourceCoords: sourceCoords}
	}
	return nil
}

func classifyOpenErr(err error) apperrors.ReasonCode {
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "password") || strings.Contains(msg, "encrypt"):
		return apperrors.ReasonPassword
	case strings.Contains(msg, "permission") || strings.Contains(msg, "denied"):
		return apperrors.ReasonAccessDenied
	case strings.Contains(msg, "too large") || strings.Contains(msg, "size"):
		return apperrors.ReasonTooLarge
	default:
		return apperrors.ReasonCorrupt
	}
}
