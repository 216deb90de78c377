package domain

import (
	"github.com/volatiletech/null/v8"
)

// Grade cohort labels as they appear in the source workbooks and in the
// report output. Anything that is not recognizably third-year is pooled
// into the lower cohort.
const (
	GradeLower = "高1+2"
	GradeUpper = "高3"
)

// Grades lists the cohorts in report order.
var Grades = []string{GradeLower, GradeUpper}

// StudentRecord is one student's exam scores extracted from a single
// workbook. Scores are null when the workbook carries no usable value;
// duplicate sheet entries for the same (StudentID, Grade) key are already
// reduced to the maximum observed score.
type StudentRecord struct {
	StudentID string
	Grade     string
	ScoreEng  null.Float64
	ScoreMath null.Float64
	ScoreJpn  null.Float64
}

// PanelRow is a StudentRecord joined with that file's mastery and
// late-completion counts. SourceKey is the file-name stem the row came
// from; rows are never deduplicated across files.
type PanelRow struct {
	StudentRecord

	EngMas   int
	MathMas  int
	TotMas   int
	EngLate  int
	MathLate int

	SourceKey string
}

// FileMeta is one row of the run-metadata sheet.
type FileMeta struct {
	File     string
	Key      string
	Cutoff   null.Time
	Students int
}
