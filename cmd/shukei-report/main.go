package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"shukeicli/internal/app"
	"shukeicli/internal/config"
	"shukeicli/internal/cutoff"
	"shukeicli/internal/infrastructure"
)

// stringList collects repeatable flag values.
type stringList []string

func (s *stringList) String() string { return fmt.Sprint([]string(*s)) }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var files, cutoffs stringList
	flag.Var(&files, "file", "input workbook path (repeatable, required)")
	flag.Var(&cutoffs, "cutoff", "cutoff override YYYYMM:YYYY-MM-DD (repeatable)")
	outPath := flag.String("out", "", "output workbook path (defaults to the configured path)")
	configPath := flag.String("config", "", "optional YAML config file")
	logLevel := flag.String("log-level", "", "override the configured log level")
	flag.Parse()

	// .env is optional; environment overrides still apply without it.
	_ = godotenv.Load()

	if len(files) == 0 {
		fmt.Fprintln(os.Stderr, "at least one --file is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Logging.Level = *logLevel
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("Failed to initialize logger", "error", err)
		os.Exit(1)
	}

	overrides := make(map[string]time.Time, len(cutoffs))
	for _, pair := range cutoffs {
		key, date, err := cutoff.ParseOverride(pair)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(2)
		}
		overrides[key] = date
	}

	a := app.New(cfg, logger)
	result, err := a.Run(context.Background(), app.Options{
		Files:     files,
		Overrides: overrides,
		OutPath:   *outPath,
	})
	if err != nil {
		if errors.Is(err, app.ErrNoData) {
			logger.Warn("No usable data, no report written")
		} else {
			logger.Error("Aggregation run failed", "error", err)
		}
		os.Exit(1)
	}

	logger.Info("Aggregation complete",
		"out", result.OutPath,
		"rows", result.Rows,
		"students", result.Students)
}
