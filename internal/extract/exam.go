package extract

import (
	"fmt"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/width"

	"shukeicli/internal/domain"
	"shukeicli/internal/workbook"
)

// examColumnRules locates the exam results columns. English is mandatory
// per sheet; math and Japanese are optional.
var examColumnRules = []workbook.ColumnRule{
	workbook.StudentIDRule,
	workbook.GradeRule,
	workbook.EnglishRule,
	workbook.MathIARule,
	workbook.MathIIBCRule,
	workbook.JapaneseRule,
}

var gradeUpperRe = regexp.MustCompile(`(高\s*3|3年|\b3\b)`)

// NormalizeGrade folds full-width digits and spaces to half-width and
// classes the value as 高3 or 高1+2. Blank and unrecognized values fall
// into the lower cohort.
func NormalizeGrade(s string) string {
	s = strings.TrimSpace(width.Narrow.String(s))
	if gradeUpperRe.MatchString(s) {
		return domain.GradeUpper
	}
	return domain.GradeLower
}

// ReadExam extracts one StudentRecord per (student, cohort) from every
// exam results sheet in the workbook. Sheets without an English column,
// a student-id column, or a grade column are skipped whole; rows with a
// non-numeric student id are dropped. Duplicate entries for the same key
// reduce to the maximum of each score.
func ReadExam(f *excelize.File, logger *slog.Logger) ([]domain.StudentRecord, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var raw []domain.StudentRecord
	for _, name := range workbook.ExamSheets(f.GetSheetList()) {
		sheet, err := workbook.LoadSheet(f, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read sheet %s: %w", name, err)
		}

		cols := workbook.MapColumns(sheet.Header, examColumnRules)
		engCol, ok := cols["score_eng"]
		if !ok {
			logger.Debug("skipping results sheet without English column", "sheet", name)
			continue
		}
		idCol, hasID := cols["student_id"]
		gradeCol, hasGrade := cols["grade"]
		if !hasID || !hasGrade {
			logger.Debug("skipping results sheet without id or grade column", "sheet", name)
			continue
		}
		math1Col, hasMath1 := cols["score_math1"]
		math2Col, hasMath2 := cols["score_math2"]
		jpnCol, hasJpn := cols["score_jpn"]

		kept := 0
		for _, row := range sheet.Rows {
			id, ok := workbook.ParseStudentID(sheet.Cell(row, idCol))
			if !ok {
				continue
			}
			rec := domain.StudentRecord{
				StudentID: id,
				Grade:     NormalizeGrade(sheet.Cell(row, gradeCol)),
				ScoreEng:  workbook.ParseNumber(sheet.Cell(row, engCol)),
			}
			if hasMath1 && hasMath2 {
				// With both sub-columns present a blank cell counts as
				// zero, so the sum is always a valid score.
				m1 := workbook.ParseNumber(sheet.Cell(row, math1Col))
				m2 := workbook.ParseNumber(sheet.Cell(row, math2Col))
				rec.ScoreMath = null.Float64From(m1.Float64 + m2.Float64)
			}
			if hasJpn {
				rec.ScoreJpn = workbook.ParseNumber(sheet.Cell(row, jpnCol))
			}
			raw = append(raw, rec)
			kept++
		}
		logger.Debug("extracted results sheet", "sheet", name, "rows", kept)
	}

	return groupMaxScores(raw), nil
}

// groupMaxScores reduces duplicate (student, cohort) rows to the maximum
// of each score column, emitting records in key order.
func groupMaxScores(raw []domain.StudentRecord) []domain.StudentRecord {
	type key struct{ id, grade string }
	best := make(map[key]domain.StudentRecord, len(raw))
	for _, rec := range raw {
		k := key{rec.StudentID, rec.Grade}
		cur, seen := best[k]
		if !seen {
			best[k] = rec
			continue
		}
		cur.ScoreEng = maxScore(cur.ScoreEng, rec.ScoreEng)
		cur.ScoreMath = maxScore(cur.ScoreMath, rec.ScoreMath)
		cur.ScoreJpn = maxScore(cur.ScoreJpn, rec.ScoreJpn)
		best[k] = cur
	}

	out := make([]domain.StudentRecord, 0, len(best))
	for _, rec := range best {
		out = append(out, rec)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].StudentID != out[j].StudentID {
			return out[i].StudentID < out[j].StudentID
		}
		return out[i].Grade < out[j].Grade
	})
	return out
}

// maxScore takes the maximum of two optional scores; a null value never
// wins over a valid one.
func maxScore(a, b null.Float64) null.Float64 {
	switch {
	case !a.Valid:
		return b
	case !b.Valid:
		return a
	case b.Float64 > a.Float64:
		return b
	default:
		return a
	}
}
