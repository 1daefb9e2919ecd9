package report

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// writeWorkbook exports every count table and the regression summaries as a
// spreadsheet companion to the HTML report.
func writeWorkbook(path string, doc *document) error {
	f := excelize.NewFile()
	defer f.Close() //nolint:errcheck // flushed by SaveAs below

	if err := f.SetSheetName("Sheet1", "Regressions"); err != nil {
		return fmt.Errorf("workbook: %w", err)
	}
	if err := writeFitsSheet(f, doc); err != nil {
		return err
	}

	for _, table := range doc.tables {
		sheet := sheetName(table.Dimensions)
		if _, err := f.NewSheet(sheet); err != nil {
			return fmt.Errorf("workbook sheet %s: %w", sheet, err)
		}

		for col, dim := range table.Dimensions {
			if err := setCell(f, sheet, col+1, 1, dim); err != nil {
				return err
			}
		}
		if err := setCell(f, sheet, len(table.Dimensions)+1, 1, "count"); err != nil {
			return err
		}

		for i, row := range table.Rows {
			for col, key := range row.Keys {
				if err := setCell(f, sheet, col+1, i+2, key); err != nil {
					return err
				}
			}
			if err := setCell(f, sheet, len(row.Keys)+1, i+2, row.Count); err != nil {
				return err
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeFitsSheet(f *excelize.File, doc *document) error {
	const sheet = "Regressions"
	row := 1
	for _, fit := range doc.Fits {
		if err := setCell(f, sheet, 1, row, fit.Name); err != nil {
			return err
		}
		row++

		for col, h := range []string{"term", "estimate", "std. error"} {
			if err := setCell(f, sheet, col+1, row, h); err != nil {
				return err
			}
		}
		row++

		for _, c := range fit.Coefficients {
			if err := setCell(f, sheet, 1, row, c.Name); err != nil {
				return err
			}
			if err := setCell(f, sheet, 2, row, c.Value); err != nil {
				return err
			}
			if err := setCell(f, sheet, 3, row, c.StdErr); err != nil {
				return err
			}
			row++
		}

		stats := fmt.Sprintf("n=%d R2=%.4f adjR2=%.4f F=%.2f", fit.N, fit.RSquared, fit.AdjRSquared, fit.FStatistic)
		if err := setCell(f, sheet, 1, row, stats); err != nil {
			return err
		}
		row += 2
	}
	return nil
}

func setCell(f *excelize.File, sheet string, col, row int, v any) error {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return fmt.Errorf("workbook cell (%d,%d): %w", col, row, err)
	}
	if err := f.SetCellValue(sheet, cell, v); err != nil {
		return fmt.Errorf("workbook cell %s!%s: %w", sheet, cell, err)
	}
	return nil
}

// sheetName builds a sheet title from grouping dimensions, e.g.
// ["year","borough"] → "By year, borough". Excel caps titles at 31 chars.
func sheetName(dims []string) string {
	name := "By " + strings.Join(dims, ", ")
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}
