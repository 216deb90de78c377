package app

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"shukeicli/internal/config"
	"shukeicli/internal/domain"
	"shukeicli/internal/report"
)

// buildFixture writes a workbook with one results sheet (students 101 in
// 高3 scoring 50, 102 in 高1+2 scoring 80) and one English unit sheet
// completed before the cutoff by student 101 only.
func buildFixture(t *testing.T, path string) {
	t.Helper()
	f := excelize.NewFile()

	exam := "202410合同共テ結果"
	f.SetSheetName(f.GetSheetName(0), exam)
	header := []interface{}{"生徒番号", "学年", "英語"}
	require.NoError(t, f.SetSheetRow(exam, "A1", &header))
	r1 := []interface{}{101, "３年", 50}
	require.NoError(t, f.SetSheetRow(exam, "A2", &r1))
	r2 := []interface{}{102, "1", 80}
	require.NoError(t, f.SetSheetRow(exam, "A3", &r2))

	unit := "2024英単語1800"
	_, err := f.NewSheet(unit)
	require.NoError(t, err)
	uheader := []interface{}{"生徒番号", "完全修得日"}
	require.NoError(t, f.SetSheetRow(unit, "A1", &uheader))
	u1 := []interface{}{101, "2024-06-01"}
	require.NoError(t, f.SetSheetRow(unit, "A2", &u1))

	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "202410結果.xlsx")
	out := filepath.Join(dir, "集計.xlsx")
	buildFixture(t, in)

	a := New(config.Default(), nil)
	result, err := a.Run(context.Background(), Options{
		Files:   []string{in},
		OutPath: out,
	})
	require.NoError(t, err)
	assert.Equal(t, out, result.OutPath)
	assert.Equal(t, 2, result.Rows)
	assert.Equal(t, 2, result.Students)
	assert.NotEmpty(t, result.RunID)

	f, err := excelize.OpenFile(out)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{
		report.TitleLongEng, report.TitleLongMath, report.TitleLongJpn,
		report.TitleWideEng, report.TitleWideMath, report.TitleWideJpn,
		report.TitleLateEng, report.TitleLateMath, report.TitleMeta,
	}, f.GetSheetList())

	rows, err := f.GetRows(report.TitleLongEng)
	require.NoError(t, err)
	require.Len(t, rows, 1+2*7, "dense grid over both cohorts and buckets 0..6")

	// Row layout: 学年区分, eng_mas, 人数, 平均英語得点.
	type cell struct {
		count string
		mean  string
	}
	got := make(map[string]cell)
	for _, r := range rows[1:] {
		mean := ""
		if len(r) > 3 {
			mean = r[3]
		}
		got[r[0]+"/"+r[1]] = cell{count: r[2], mean: mean}
	}

	// Student 101 (高3) has mastery 1 and score 50.
	assert.Equal(t, cell{count: "1", mean: "50"}, got[domain.GradeUpper+"/1"])
	// Student 102 (高1+2) has mastery 0 and score 80.
	assert.Equal(t, cell{count: "1", mean: "80"}, got[domain.GradeLower+"/0"])
	// Every other bucket is empty with a blank mean.
	for key, c := range got {
		if key == domain.GradeUpper+"/1" || key == domain.GradeLower+"/0" {
			continue
		}
		assert.Equal(t, cell{count: "0", mean: ""}, c, key)
	}

	// Cutoff 2025-01-18 resolved from the stem appears in the metadata.
	meta, err := f.GetRows(report.TitleMeta)
	require.NoError(t, err)
	require.Len(t, meta, 2)
	assert.Equal(t, "202410結果.xlsx", meta[1][2])
	assert.Equal(t, "202410結果", meta[1][3])
	assert.Equal(t, "2025-01-18", meta[1][4])
	assert.Equal(t, "2", meta[1][5])
}

func TestRunNoUsableData(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "empty.xlsx")
	f := excelize.NewFile()
	f.SetSheetName(f.GetSheetName(0), "メモ")
	require.NoError(t, f.SaveAs(in))
	require.NoError(t, f.Close())

	out := filepath.Join(dir, "out.xlsx")
	a := New(config.Default(), nil)
	_, err := a.Run(context.Background(), Options{Files: []string{in}, OutPath: out})
	require.ErrorIs(t, err, ErrNoData)
	assert.NoFileExists(t, out)
}

func TestRunUnopenableWorkbookAborts(t *testing.T) {
	a := New(config.Default(), nil)
	_, err := a.Run(context.Background(), Options{
		Files:   []string{filepath.Join(t.TempDir(), "missing.xlsx")},
		OutPath: filepath.Join(t.TempDir(), "out.xlsx"),
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestRunPanelConcatenatesFiles(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i := 0; i < 2; i++ {
		p := filepath.Join(dir, fmt.Sprintf("20241%d結果.xlsx", i))
		buildFixture(t, p)
		files = append(files, p)
	}
	out := filepath.Join(dir, "out.xlsx")

	a := New(config.Default(), nil)
	result, err := a.Run(context.Background(), Options{Files: files, OutPath: out})
	require.NoError(t, err)

	// Same students in two files contribute two panel rows each but
	// count once as distinct students.
	assert.Equal(t, 4, result.Rows)
	assert.Equal(t, 2, result.Students)
}
