package xlwrite

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/ozwilder/xlconsolidate/internal/aggregate"
	"github.com/ozwilder/xlconsolidate/internal/model"
)

const contributionsSheet = "Contributions"

// writeContributionsSheet builds the Contributions sheet: a header row,
// then for every coord (in Excel-natural order) one row per
// label in the full source-label universe — absent labels emit a zero —
// separated by a blank row between groups. Values are written as plain
// numbers; the template's number format for the coordinate is not applied.
// It returns, for each written coord, the row number of its group's first
// data row, used by writeCell to target the hyperlink.
func writeContributionsSheet(f *excelize.File, results []aggregate.Result, labels []string) (map[model.Coordinate]int, error) {
	idx, err := f.NewSheet(contributionsSheet)
	if err != nil {
		return nil, nil
	}
	_ = idx

	firstRow := make(map[model.Coordinate]int, len(results))

	_ = f.SetCellValue(contributionsSheet, "A1", "Cell")
	_ = f.SetCellValue(contributionsSheet, "B1", "File Name")
	_ = f.SetCellValue(contributionsSheet, "C1", "Contribution")

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetCellStyle(contributionsSheet, "A1", "C1", headerStyle)
	}

	row := 2
	for _, res := range results {
		cellRef, err := excelize.CoordinatesToCellName(res.Coord.Col, res.Coord.Row)
		if err != nil {
			continue
		}
		firstRow[res.Coord] = row

		for _, label := range labels {
			value, ok := res.Acc.Contributors[label]
			if !ok {
				value = decimal.Zero
			}
			_ = f.SetCellValue(contributionsSheet, fmt.Sprintf("A%d", row), cellRef)
			_ = f.SetCellValue(contributionsSheet, fmt.Sprintf("B%d", row), label)
			v, _ := value.Float64()
			_ = f.SetCellValue(contributionsSheet, fmt.Sprintf("C%d", row), v)
			row++
		}
		row++ // blank separator row between coord groups
	}

	lastRow := row - 1
	if lastRow < 1 {
		lastRow = 1
	}
	_ = f.AutoFilter(contributionsSheet, fmt.Sprintf("A1:C%d", lastRow), nil)
	_ = f.SetColWidth(contributionsSheet, "A", "A", 12)
	_ = f.SetColWidth(contributionsSheet, "B", "B", 40)
	_ = f.SetColWidth(contributionsSheet, "C", "C", 16)

	return firstRow, nil
}
