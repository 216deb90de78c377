package aggregate

import (
	"math"

	"github.com/volatiletech/null/v8"

	"shukeicli/internal/domain"
)

// BucketFunc selects the bucketing key of a panel row (a mastery or
// late-completion count).
type BucketFunc func(domain.PanelRow) int

// ScoreFunc selects the score being averaged.
type ScoreFunc func(domain.PanelRow) null.Float64

// LongRow is one cell of a dense (cohort × bucket) grid: distinct-student
// headcount and mean score. An unoccupied cell has headcount 0 and a null
// mean; a null mean is not a zero mean.
type LongRow struct {
	Grade     string
	Bucket    int
	Headcount int
	Mean      null.Float64
}

// WideRow is one bucket pivoted wide: the mean score per cohort, in
// domain.Grades order.
type WideRow struct {
	Bucket int
	Means  []null.Float64
}

// DistRow is one cell of a headcount-only distribution grid.
type DistRow struct {
	Grade     string
	Bucket    int
	Headcount int
}

type cell struct {
	ids map[string]struct{}
	sum float64
	n   int
}

// SummarizeLong builds the complete (cohort × 0..maxVal) grid over panel
// rows carrying a valid score. Headcount is the distinct student count
// among those rows; the mean averages every row (duplicate students
// included) and is rounded to one decimal. Rows without a score are
// excluded from both, so a bucket can exist with zero headcount even
// when students occupy it.
func SummarizeLong(panel []domain.PanelRow, bucket BucketFunc, score ScoreFunc, maxVal int) []LongRow {
	grid := newGrid(maxVal)
	for _, row := range panel {
		s := score(row)
		if !s.Valid {
			continue
		}
		c := grid.at(row.Grade, bucket(row))
		if c == nil {
			continue
		}
		c.ids[row.StudentID] = struct{}{}
		c.sum += s.Float64
		c.n++
	}

	out := make([]LongRow, 0, len(domain.Grades)*(maxVal+1))
	for gi, grade := range domain.Grades {
		for b := 0; b <= maxVal; b++ {
			c := grid.cells[gi][b]
			lr := LongRow{Grade: grade, Bucket: b, Headcount: len(c.ids)}
			if c.n > 0 {
				lr.Mean = null.Float64From(round1(c.sum / float64(c.n)))
			}
			out = append(out, lr)
		}
	}
	return out
}

// SummarizeWide pivots a long grid: one row per bucket, one mean column
// per cohort, headcounts dropped.
func SummarizeWide(long []LongRow, maxVal int) []WideRow {
	out := make([]WideRow, maxVal+1)
	for b := 0; b <= maxVal; b++ {
		out[b] = WideRow{Bucket: b, Means: make([]null.Float64, len(domain.Grades))}
	}
	gradeIdx := make(map[string]int, len(domain.Grades))
	for i, g := range domain.Grades {
		gradeIdx[g] = i
	}
	for _, lr := range long {
		if lr.Bucket < 0 || lr.Bucket > maxVal {
			continue
		}
		if gi, ok := gradeIdx[lr.Grade]; ok {
			out[lr.Bucket].Means[gi] = lr.Mean
		}
	}
	return out
}

// SummarizeDistribution builds the dense headcount-only grid over every
// panel row, score or no score.
func SummarizeDistribution(panel []domain.PanelRow, bucket BucketFunc, maxVal int) []DistRow {
	grid := newGrid(maxVal)
	for _, row := range panel {
		if c := grid.at(row.Grade, bucket(row)); c != nil {
			c.ids[row.StudentID] = struct{}{}
		}
	}

	out := make([]DistRow, 0, len(domain.Grades)*(maxVal+1))
	for gi, grade := range domain.Grades {
		for b := 0; b <= maxVal; b++ {
			out = append(out, DistRow{Grade: grade, Bucket: b, Headcount: len(grid.cells[gi][b].ids)})
		}
	}
	return out
}

// grid is the pre-sized accumulation table behind the dense joins.
type grid struct {
	maxVal int
	cells  [][]*cell
}

func newGrid(maxVal int) *grid {
	g := &grid{maxVal: maxVal, cells: make([][]*cell, len(domain.Grades))}
	for gi := range domain.Grades {
		g.cells[gi] = make([]*cell, maxVal+1)
		for b := 0; b <= maxVal; b++ {
			g.cells[gi][b] = &cell{ids: make(map[string]struct{})}
		}
	}
	return g
}

// at returns the accumulator for (grade, bucket), nil when the bucket
// falls outside 0..maxVal or the grade is unknown.
func (g *grid) at(grade string, bucket int) *cell {
	if bucket < 0 || bucket > g.maxVal {
		return nil
	}
	for gi, known := range domain.Grades {
		if known == grade {
			return g.cells[gi][bucket]
		}
	}
	return nil
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
