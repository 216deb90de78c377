package report

import (
	"time"

	"shukeicli/internal/aggregate"
	"shukeicli/internal/domain"
)

// Table is one output sheet: a title, a header row and data rows. A nil
// cell is written as a blank, which is how a missing mean stays distinct
// from a zero mean.
type Table struct {
	Title  string
	Header []string
	Rows   [][]interface{}
}

// Output sheet titles, in workbook order.
const (
	TitleLongEng  = "英語マスター×平均英語（長）"
	TitleLongMath = "数学マスター×平均数学（長）"
	TitleLongJpn  = "英数合計×平均国語（長）"
	TitleWideEng  = "棒グラフ用_英語（横）"
	TitleWideMath = "棒グラフ用_数学（横）"
	TitleWideJpn  = "棒グラフ用_国語（横）"
	TitleLateEng  = "参考_英語 締切超過数の分布"
	TitleLateMath = "参考_数学 締切超過数の分布"
	TitleMeta     = "集計メタデータ"
)

// LongTable renders a long grid with the given bucket-key and score
// labels.
func LongTable(title, keyLabel, scoreLabel string, rows []aggregate.LongRow) Table {
	t := Table{
		Title:  title,
		Header: []string{"学年区分", keyLabel, "人数", scoreLabel},
	}
	for _, r := range rows {
		var mean interface{}
		if r.Mean.Valid {
			mean = r.Mean.Float64
		}
		t.Rows = append(t.Rows, []interface{}{r.Grade, r.Bucket, r.Headcount, mean})
	}
	return t
}

// WideTable renders a pivoted grid: bucket rows, one mean column per
// cohort.
func WideTable(title, keyLabel string, rows []aggregate.WideRow) Table {
	t := Table{Title: title, Header: append([]string{keyLabel}, domain.Grades...)}
	for _, r := range rows {
		row := make([]interface{}, 0, 1+len(r.Means))
		row = append(row, r.Bucket)
		for _, m := range r.Means {
			if m.Valid {
				row = append(row, m.Float64)
			} else {
				row = append(row, nil)
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// DistributionTable renders a headcount-only grid.
func DistributionTable(title, keyLabel string, rows []aggregate.DistRow) Table {
	t := Table{Title: title, Header: []string{"学年区分", keyLabel, "人数"}}
	for _, r := range rows {
		t.Rows = append(t.Rows, []interface{}{r.Grade, r.Bucket, r.Headcount})
	}
	return t
}

// MetaTable renders the run-metadata sheet: one row per input file.
func MetaTable(runAt time.Time, runID string, metas []domain.FileMeta) Table {
	t := Table{
		Title:  TitleMeta,
		Header: []string{"実行時刻", "実行ID", "ファイル", "キー(年/年月)", "cutoff(適用日)", "生徒数(一意ID)"},
	}
	ts := runAt.Format("2006-01-02 15:04:05")
	for _, m := range metas {
		cut := ""
		if m.Cutoff.Valid {
			cut = m.Cutoff.Time.Format("2006-01-02")
		}
		t.Rows = append(t.Rows, []interface{}{ts, runID, m.File, m.Key, cut, m.Students})
	}
	return t
}
