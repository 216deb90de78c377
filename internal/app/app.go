package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"

	"shukeicli/internal/aggregate"
	"shukeicli/internal/config"
	"shukeicli/internal/cutoff"
	"shukeicli/internal/domain"
	"shukeicli/internal/extract"
	"shukeicli/internal/report"
)

// ErrNoData signals that no input file produced a single usable student
// row, so no workbook was written.
var ErrNoData = errors.New("no usable data in any input file")

// App runs the aggregation pipeline end to end.
type App struct {
	cfg    *config.Config
	logger *slog.Logger
}

// New creates an App. A nil logger falls back to slog.Default.
func New(cfg *config.Config, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{cfg: cfg, logger: logger}
}

// Options are the per-run inputs.
type Options struct {
	// Files are the input workbook paths, processed in order.
	Files []string
	// Overrides maps a 6-digit YYYYMM key to a manual cutoff date.
	Overrides map[string]time.Time
	// OutPath overrides the configured output path when non-empty.
	OutPath string
}

// Result reports what a successful run produced.
type Result struct {
	OutPath  string
	RunID    string
	Rows     int
	Students int
}

// Run processes every input workbook, shapes the report tables and
// writes the output workbook. A workbook that cannot be opened aborts
// the whole run; a run with zero extracted rows returns ErrNoData and
// writes nothing.
func (a *App) Run(ctx context.Context, opts Options) (*Result, error) {
	calendar, err := a.cfg.Calendar()
	if err != nil {
		return nil, err
	}
	engUnits := a.cfg.EnglishUnits()
	mathUnits := a.cfg.MathUnits()

	runID := uuid.NewString()
	runAt := time.Now()
	logger := a.logger.With("run_id", runID)

	var panel []domain.PanelRow
	var metas []domain.FileMeta
	for _, fp := range opts.Files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows, meta, err := a.processFile(fp, opts.Overrides, calendar, engUnits, mathUnits, logger)
		if err != nil {
			return nil, err
		}
		panel = append(panel, rows...)
		metas = append(metas, meta)
	}

	if len(panel) == 0 {
		logger.Warn("no usable data extracted, not writing a report",
			"files", len(opts.Files))
		return nil, ErrNoData
	}

	tables := buildTables(panel, len(engUnits), len(mathUnits), runAt, runID, metas)

	outPath := opts.OutPath
	if outPath == "" {
		outPath = a.cfg.Report.OutPath
	}
	writeOpts := report.Options{
		ColumnWidthCap: a.cfg.Report.ColumnWidthCap,
		ColumnPadding:  a.cfg.Report.ColumnPadding,
	}
	if err := report.Write(outPath, tables, writeOpts); err != nil {
		return nil, err
	}

	distinct := make(map[string]struct{}, len(panel))
	for _, row := range panel {
		distinct[row.StudentID] = struct{}{}
	}

	logger.Info("report written",
		"path", outPath,
		"rows", len(panel),
		"students", len(distinct),
		"files", len(metas))

	return &Result{
		OutPath:  outPath,
		RunID:    runID,
		Rows:     len(panel),
		Students: len(distinct),
	}, nil
}

// processFile extracts one workbook into panel rows plus its metadata
// row. The cutoff is resolved once from the file-name stem and applied
// to every unit in the file.
func (a *App) processFile(fp string, overrides map[string]time.Time, calendar map[int]time.Time, engUnits, mathUnits []string, logger *slog.Logger) ([]domain.PanelRow, domain.FileMeta, error) {
	f, err := excelize.OpenFile(fp)
	if err != nil {
		return nil, domain.FileMeta{}, fmt.Errorf("failed to open workbook %s: %w", fp, err)
	}
	defer f.Close()

	stem := strings.TrimSuffix(filepath.Base(fp), filepath.Ext(fp))
	cut := cutoff.Resolve(stem, overrides, calendar)
	if cut.Valid {
		logger.Info("resolved cutoff", "file", stem, "cutoff", cut.Time.Format("2006-01-02"))
	} else {
		// Without a cutoff any completion date counts, and the late
		// tables get nothing from this file.
		logger.Warn("no cutoff resolved, counting any completion date", "file", stem)
	}

	base, err := extract.ReadExam(f, logger)
	if err != nil {
		return nil, domain.FileMeta{}, err
	}
	engMas, err := extract.CountMastery(f, engUnits, cut, logger)
	if err != nil {
		return nil, domain.FileMeta{}, err
	}
	mathMas, err := extract.CountMastery(f, mathUnits, cut, logger)
	if err != nil {
		return nil, domain.FileMeta{}, err
	}
	engLate, err := extract.CountLateMastery(f, engUnits, cut, logger)
	if err != nil {
		return nil, domain.FileMeta{}, err
	}
	mathLate, err := extract.CountLateMastery(f, mathUnits, cut, logger)
	if err != nil {
		return nil, domain.FileMeta{}, err
	}

	rows := make([]domain.PanelRow, 0, len(base))
	distinct := make(map[string]struct{}, len(base))
	for _, rec := range base {
		row := domain.PanelRow{
			StudentRecord: rec,
			EngMas:        engMas[rec.StudentID],
			MathMas:       mathMas[rec.StudentID],
			EngLate:       engLate[rec.StudentID],
			MathLate:      mathLate[rec.StudentID],
			SourceKey:     stem,
		}
		row.TotMas = row.EngMas + row.MathMas
		rows = append(rows, row)
		distinct[rec.StudentID] = struct{}{}
	}

	logger.Info("processed workbook",
		"file", filepath.Base(fp),
		"rows", len(rows),
		"students", len(distinct))

	meta := domain.FileMeta{
		File:     filepath.Base(fp),
		Key:      stem,
		Cutoff:   cut,
		Students: len(distinct),
	}
	return rows, meta, nil
}

// buildTables shapes the panel into the nine output sheets in workbook
// order.
func buildTables(panel []domain.PanelRow, engMax, mathMax int, runAt time.Time, runID string, metas []domain.FileMeta) []report.Table {
	totMax := engMax + mathMax

	longEng := aggregate.SummarizeLong(panel,
		func(r domain.PanelRow) int { return r.EngMas },
		func(r domain.PanelRow) null.Float64 { return r.ScoreEng },
		engMax)
	longMath := aggregate.SummarizeLong(panel,
		func(r domain.PanelRow) int { return r.MathMas },
		func(r domain.PanelRow) null.Float64 { return r.ScoreMath },
		mathMax)
	longJpn := aggregate.SummarizeLong(panel,
		func(r domain.PanelRow) int { return r.TotMas },
		func(r domain.PanelRow) null.Float64 { return r.ScoreJpn },
		totMax)

	distEng := aggregate.SummarizeDistribution(panel,
		func(r domain.PanelRow) int { return r.EngLate }, engMax)
	distMath := aggregate.SummarizeDistribution(panel,
		func(r domain.PanelRow) int { return r.MathLate }, mathMax)

	return []report.Table{
		report.LongTable(report.TitleLongEng, "eng_mas", "平均英語得点", longEng),
		report.LongTable(report.TitleLongMath, "math_mas", "平均数学得点", longMath),
		report.LongTable(report.TitleLongJpn, "tot_mas", "平均国語得点", longJpn),
		report.WideTable(report.TitleWideEng, "英語 完全修得数", aggregate.SummarizeWide(longEng, engMax)),
		report.WideTable(report.TitleWideMath, "数学 完全修得数", aggregate.SummarizeWide(longMath, mathMax)),
		report.WideTable(report.TitleWideJpn, "英数合計 完全修得数", aggregate.SummarizeWide(longJpn, totMax)),
		report.DistributionTable(report.TitleLateEng, "eng_late", distEng),
		report.DistributionTable(report.TitleLateMath, "math_late", distMath),
		report.MetaTable(runAt, runID, metas),
	}
}
