package extract

import (
	"fmt"
	"log/slog"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"shukeicli/internal/workbook"
)

// CountMastery counts completed curriculum units per student for one
// subject catalog. A unit is completed when its completion-date cell is
// non-empty and, if a cutoff applies, the date is on or before it.
// Duplicate rows or sheets for the same student/unit OR-reduce, so a
// unit is never counted twice. Units with no matching sheet or no usable
// columns contribute nothing.
//
// The result maps every student seen in at least one unit sheet to a
// count in [0, len(units)].
func CountMastery(f *excelize.File, units []string, cut null.Time, logger *slog.Logger) (map[string]int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	hits := workbook.MatchUnitSheets(f.GetSheetList(), units)

	counts := make(map[string]int)
	for _, unit := range units {
		done := make(map[string]bool)
		for _, h := range hits {
			if h.Unit != unit {
				continue
			}
			sheet, err := workbook.LoadSheet(f, h.Sheet)
			if err != nil {
				return nil, fmt.Errorf("failed to read sheet %s: %w", h.Sheet, err)
			}
			idCol, ok := workbook.FindColumn(sheet.Header, workbook.StudentIDRule)
			if !ok {
				continue
			}
			dateCol, ok := workbook.CompletionDateColumn(sheet.Header)
			if !ok {
				logger.Debug("unit sheet has no completion-date column", "sheet", h.Sheet)
				continue
			}
			for _, row := range sheet.Rows {
				id, ok := workbook.ParseStudentID(sheet.Cell(row, idCol))
				if !ok {
					continue
				}
				d := workbook.ParseDate(sheet.Cell(row, dateCol))
				completed := d.Valid && (!cut.Valid || !d.Time.After(cut.Time))
				done[id] = done[id] || completed
			}
		}
		for id, ok := range done {
			if ok {
				counts[id]++
			} else if _, seen := counts[id]; !seen {
				counts[id] = 0
			}
		}
	}
	return counts, nil
}

// CountLateMastery counts, per student, the units whose first completion
// date falls strictly after the cutoff. Without a cutoff there is no
// lateness to measure and the result is empty. A student with unit rows
// but no completion date is present with a zero count, never late.
func CountLateMastery(f *excelize.File, units []string, cut null.Time, logger *slog.Logger) (map[string]int, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if !cut.Valid {
		return map[string]int{}, nil
	}
	hits := workbook.MatchUnitSheets(f.GetSheetList(), units)

	late := make(map[string]int)
	for _, unit := range units {
		first := make(map[string]null.Time)
		for _, h := range hits {
			if h.Unit != unit {
				continue
			}
			sheet, err := workbook.LoadSheet(f, h.Sheet)
			if err != nil {
				return nil, fmt.Errorf("failed to read sheet %s: %w", h.Sheet, err)
			}
			idCol, ok := workbook.FindColumn(sheet.Header, workbook.StudentIDRule)
			if !ok {
				continue
			}
			dateCol, ok := workbook.CompletionDateColumn(sheet.Header)
			if !ok {
				continue
			}
			for _, row := range sheet.Rows {
				id, ok := workbook.ParseStudentID(sheet.Cell(row, idCol))
				if !ok {
					continue
				}
				d := workbook.ParseDate(sheet.Cell(row, dateCol))
				cur, seen := first[id]
				if !seen {
					first[id] = d
				} else if d.Valid && (!cur.Valid || d.Time.Before(cur.Time)) {
					first[id] = d
				}
			}
		}
		for id, d := range first {
			if d.Valid && d.Time.After(cut.Time) {
				late[id]++
			} else if _, seen := late[id]; !seen {
				late[id] = 0
			}
		}
	}
	return late, nil
}
