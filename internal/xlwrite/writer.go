// Package xlwrite implements the OutputWriter: cloning the template
// workbook, writing aggregated values with their audit trail, and building
// the Contributions sheet.
package xlwrite

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ozwilder/xlconsolidate/internal/aggregate"
	"github.com/ozwilder/xlconsolidate/internal/apperrors"
	"github.com/ozwilder/xlconsolidate/internal/model"
)

// Options controls OutputWriter's configurable behaviors.
type Options struct {
	// OverwriteOutputFormulas, when true (the default), overwrites a
	// template formula at a written coordinate with the aggregated value.
	OverwriteOutputFormulas bool
	// ExcludeZeroPercent mirrors the Aggregator's zero policy, needed here
	// only to phrase the comment's provenance clause correctly.
	ExcludeZeroPercent bool
}

const maxCommentLen = 32000

// auditBorderColor is the thin orange border applied to every written cell.
const auditBorderColor = "FFA500"

// Write clones the template at templatePath, writes every aggregated
// result from agg, builds the Contributions and Consolidated (Plain)
// sheets, and saves the result into outFolder. It returns the output
// file's path.
func Write(templatePath, outFolder string, tmpl *model.TemplateModel, agg *aggregate.Aggregator, opts Options, totalSources int) (string, error) {
	f, err := excelize.OpenFile(templatePath)
	if err != nil {
		return "", apperrors.Wrap(apperrors.TemplateLoadError, apperrors.ReasonCorrupt, templatePath, err)
	}
	defer f.Close()

	sheet := tmpl.SheetName

	results := agg.Results()
	sort.Slice(results, func(i, j int) bool { return results[i].Coord.Less(results[j].Coord) })

	labels := agg.SourceLabels()
	sort.Strings(labels)

	firstRowByCoord, err := writeContributionsSheet(f, results, labels)
	if err != nil {
		return "", err
	}

	for _, res := range results {
		if err := writeCell(f, sheet, tmpl, res, opts, firstRowByCoord[res.Coord], totalSources); err != nil {
			return "", err
		}
	}

	if err := writePlainSheet(f, sheet); err != nil {
		return "", err
	}

	removeDefaultSheet(f, sheet)

	outPath, err := outputPath(templatePath, outFolder)
	if err != nil {
		return "", err
	}
	if err := f.SaveAs(outPath); err != nil {
		return "", apperrors.Wrap(apperrors.OutputInUseError, apperrors.ReasonAccessDenied, outPath, err)
	}
	return outPath, nil
}

func writeCell(f *excelize.File, sheet string, tmpl *model.TemplateModel, res aggregate.Result, opts Options, contribRow int, totalSources int) error {
	coord := res.Coord
	if _, ok := tmpl.MergedMaster(coord); ok {
		return nil
	}

	cellRef, err := excelize.CoordinatesToCellName(coord.Col, coord.Row)
	if err != nil {
		return nil
	}

	info := tmpl.FormatFor(coord)
	if info.HasFormula && !opts.OverwriteOutputFormulas {
		return nil
	}

	acc := res.Acc
	var value float64
	switch acc.Method {
	case model.Mean:
		avg := aggregate.Average(acc)
		value, _ = avg.Div(decimal.NewFromInt(100)).Float64()
		if !strings.Contains(info.NumberFormatString, "%") {
			if err := applyNumFmt(f, sheet, cellRef, "0.00%"); err != nil {
				return err
			}
		}
	default:
		value, _ = acc.Total.Float64()
	}

	if info.HasFormula && opts.OverwriteOutputFormulas {
		_ = f.SetCellFormula(sheet, cellRef, "")
	}
	if err := f.SetCellValue(sheet, cellRef, value); err != nil {
		return nil
	}

	applyAuditBorder(f, sheet, cellRef)

	comment := buildComment(cellRef, info, acc, opts, totalSources)
	_ = f.AddComment(sheet, excelize.Comment{
		Cell:   cellRef,
		Author: "xlconsolidate",
		Text:   comment,
	})

	if contribRow > 0 {
		_ = f.SetCellHyperLink(sheet, cellRef, fmt.Sprintf("#'Contributions'!A%d", contribRow), "Location")
	}

	return nil
}

func applyNumFmt(f *excelize.File, sheet, cellRef, pattern string) error {
	styleID, err := f.GetCellStyle(sheet, cellRef)
	if err != nil {
		return nil
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		style = &excelize.Style{}
	}
	style.CustomNumFmt = &pattern
	newID, err := f.NewStyle(style)
	if err != nil {
		return nil
	}
	return f.SetCellStyle(sheet, cellRef, cellRef, newID)
}

func applyAuditBorder(f *excelize.File, sheet, cellRef string) {
	styleID, err := f.GetCellStyle(sheet, cellRef)
	if err != nil {
		return
	}
	style, err := f.GetStyle(styleID)
	if err != nil || style == nil {
		style = &excelize.Style{}
	}
	border := []excelize.Border{
		{Type: "left", Color: auditBorderColor, Style: 1},
		{Type: "top", Color: auditBorderColor, Style: 1},
		{Type: "right", Color: auditBorderColor, Style: 1},
		{Type: "bottom", Color: auditBorderColor, Style: 1},
	}
	style.Border = border
	newID, err := f.NewStyle(style)
	if err != nil {
		return
	}
	_ = f.SetCellStyle(sheet, cellRef, cellRef, newID)
}

func buildComment(cellRef string, info model.FormatInfo, acc *model.Accumulator, opts Options, totalSources int) string {
	var b strings.Builder
	b.WriteString("Consolidation Summary\n")
	fmt.Fprintf(&b, "Cell: %s\n", cellRef)

	contributors := make([]string, 0, len(acc.Contributors))
	for label := range acc.Contributors {
		contributors = append(contributors, label)
	}
	sort.Strings(contributors)

	if acc.Method == model.Mean {
		avg := aggregate.Average(acc)
		nonZero := 0
		for _, label := range contributors {
			if !acc.Contributors[label].IsZero() {
				nonZero++
			}
		}
		if opts.ExcludeZeroPercent {
			fmt.Fprintf(&b, "Average: %s%% (from %d files with values, %d non-zero, zero values excluded)\n", avg.StringFixed(2), len(contributors), nonZero)
		} else {
			fmt.Fprintf(&b, "Average: %s%% (from %d files, %d with values, %d empty)\n", avg.StringFixed(2), totalSources, len(contributors), totalSources-len(contributors))
		}
	} else {
		fmt.Fprintf(&b, "Total: %s\n", formatValue(acc.Total, info.Category))
	}

	b.WriteString("\nContributors (file  |  value)\n")
	b.WriteString("----------------------------\n")
	for _, label := range contributors {
		fmt.Fprintf(&b, "%-20s|  %s\n", label, formatValue(acc.Contributors[label], info.Category))
	}

	text := b.String()
	if len(text) > maxCommentLen {
		text = text[:maxCommentLen-len("… (truncated)")] + "… (truncated)"
	}
	return text
}

func formatValue(v decimal.Decimal, category model.FormatCategory) string {
	switch category {
	case model.Percentage:
		return v.StringFixed(2) + "%"
	case model.Currency:
		return v.StringFixed(2)
	default:
		return v.String()
	}
}

// writePlainSheet builds the "Consolidated (Plain)" sheet: the primary
// sheet's displayed cell text (written as text values), each cell's style,
// the merges and the column widths, with no hyperlinks or comments; row
// heights are not copied. It serves
// downstream consumers that don't tolerate cell comments (supplemental
// feature, carried from the original Excel-Consolidator).
func writePlainSheet(f *excelize.File, sheet string) error {
	const plainName = "Consolidated (Plain)"
	idx, err := f.NewSheet(plainName)
	if err != nil {
		return nil
	}
	_ = idx

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil
	}
	for rowIdx, row := range rows {
		rowNum := rowIdx + 1
		for colIdx, val := range row {
			colNum := colIdx + 1
			src, err := excelize.CoordinatesToCellName(colNum, rowNum)
			if err != nil {
				continue
			}
			dst := src
			_ = f.SetCellValue(plainName, dst, val)
			styleID, err := f.GetCellStyle(sheet, src)
			if err == nil {
				_ = f.SetCellStyle(plainName, dst, dst, styleID)
			}
		}
	}

	if merges, err := f.GetMergeCells(sheet); err == nil {
		for _, mc := range merges {
			_ = f.MergeCell(plainName, mc.GetStartAxis(), mc.GetEndAxis())
		}
	}

	if cols, err := f.GetCols(sheet); err == nil {
		for i := range cols {
			colName, err := excelize.ColumnNumberToName(i + 1)
			if err != nil {
				continue
			}
			if width, err := f.GetColWidth(sheet, colName); err == nil {
				_ = f.SetColWidth(plainName, colName, colName, width)
			}
		}
	}

	return nil
}

func removeDefaultSheet(f *excelize.File, keepSheet string) {
	for _, name := range f.GetSheetList() {
		if name == "Sheet 2" && name != keepSheet {
			_ = f.DeleteSheet(name)
		}
	}
}

func outputPath(templatePath, outFolder string) (string, error) {
	ext := ".xlsx"
	if strings.EqualFold(filepath.Ext(templatePath), ".xlsm") {
		ext = ".xlsm"
	}
	name := fmt.Sprintf("Consolidated - %s%s", time.Now().Format("Jan 02 2006"), ext)
	return filepath.Join(outFolder, name), nil
}
