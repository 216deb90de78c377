package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
)

// Options controls workbook styling.
type Options struct {
	// ColumnWidthCap is the maximum column width in characters.
	ColumnWidthCap int
	// ColumnPadding is added to the longest cell before capping.
	ColumnPadding int
}

// DefaultOptions matches the report's standard styling.
func DefaultOptions() Options {
	return Options{ColumnWidthCap: 28, ColumnPadding: 2}
}

// Write serializes the tables into a workbook at path, one sheet per
// table in order. Every sheet gets a bold header row, a frozen first row
// and content-sized column widths.
func Write(path string, tables []Table, opts Options) error {
	if len(tables) == 0 {
		return fmt.Errorf("no tables to write")
	}

	f := excelize.NewFile()
	defer f.Close()

	for i, tbl := range tables {
		if i == 0 {
			f.SetSheetName(f.GetSheetName(0), tbl.Title)
		} else {
			if _, err := f.NewSheet(tbl.Title); err != nil {
				return fmt.Errorf("failed to create sheet %s: %w", tbl.Title, err)
			}
		}
		if err := writeTable(f, tbl, opts); err != nil {
			return fmt.Errorf("failed to write sheet %s: %w", tbl.Title, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeTable(f *excelize.File, tbl Table, opts Options) error {
	widths := make([]int, len(tbl.Header))

	for ci, h := range tbl.Header {
		cell, err := excelize.CoordinatesToCellName(ci+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(tbl.Title, cell, h); err != nil {
			return err
		}
		widths[ci] = max(widths[ci], utf8.RuneCountInString(h))
	}

	for ri, row := range tbl.Rows {
		for ci, v := range row {
			if v == nil {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(ci+1, ri+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(tbl.Title, cell, v); err != nil {
				return err
			}
			if ci < len(widths) {
				widths[ci] = max(widths[ci], utf8.RuneCountInString(fmt.Sprint(v)))
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return err
	}
	lastCol, err := excelize.ColumnNumberToName(max(len(tbl.Header), 1))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(tbl.Title, "A1", lastCol+"1", bold); err != nil {
		return err
	}

	if err := f.SetPanes(tbl.Title, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}

	for ci, w := range widths {
		col, err := excelize.ColumnNumberToName(ci + 1)
		if err != nil {
			return err
		}
		width := min(w+opts.ColumnPadding, opts.ColumnWidthCap)
		if err := f.SetColWidth(tbl.Title, col, col, float64(width)); err != nil {
			return err
		}
	}
	return nil
}
