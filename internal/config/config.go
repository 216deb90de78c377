package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v2"
)

// Config holds the full application configuration. Values come from the
// built-in defaults, overridden by an optional YAML file, overridden by
// SHUKEI_* environment variables.
type Config struct {
	Logging LoggingConfig `yaml:"logging" envconfig:"LOGGING"`
	Report  ReportConfig  `yaml:"report" envconfig:"REPORT"`

	// ExamCalendar maps an exam year to its exam date (YYYY-MM-DD).
	// Empty means the built-in calendar.
	ExamCalendar map[int]string `yaml:"exam_calendar" ignored:"true"`

	Catalog CatalogConfig `yaml:"catalog" ignored:"true"`
}

// LoggingConfig configures the slog logger.
type LoggingConfig struct {
	Level    string `yaml:"level" envconfig:"LEVEL" validate:"oneof=debug info warn error"`
	Format   string `yaml:"format" envconfig:"FORMAT" validate:"oneof=json text"`
	Output   string `yaml:"output" envconfig:"OUTPUT" validate:"oneof=console file both"`
	FilePath string `yaml:"file_path" envconfig:"FILE_PATH" validate:"required"`
}

// ReportConfig configures the output workbook.
type ReportConfig struct {
	OutPath        string `yaml:"out_path" envconfig:"OUT_PATH" validate:"required"`
	ColumnWidthCap int    `yaml:"column_width_cap" envconfig:"COLUMN_WIDTH_CAP" validate:"min=8"`
	ColumnPadding  int    `yaml:"column_padding" envconfig:"COLUMN_PADDING" validate:"min=0"`
}

// CatalogConfig overrides the built-in curriculum-unit catalogs.
type CatalogConfig struct {
	English []string `yaml:"english"`
	Math    []string `yaml:"math"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:    "info",
			Format:   "json",
			Output:   "console",
			FilePath: "logs/shukei.log",
		},
		Report: ReportConfig{
			OutPath:        "集計結果.xlsx",
			ColumnWidthCap: 28,
			ColumnPadding:  2,
		},
	}
}

// Load builds the configuration: built-in defaults, then the YAML file at
// path (when path is non-empty the file must exist), then environment
// overrides.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	// Only variables actually set in the environment overwrite anything.
	if err := envconfig.Process("SHUKEI", cfg); err != nil {
		return nil, fmt.Errorf("failed to apply env overrides: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// Calendar resolves the effective exam calendar: the configured mapping
// when present, the built-in one otherwise.
func (c *Config) Calendar() (map[int]time.Time, error) {
	if len(c.ExamCalendar) == 0 {
		return DefaultExamCalendar(), nil
	}
	cal := make(map[int]time.Time, len(c.ExamCalendar))
	for year, s := range c.ExamCalendar {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return nil, fmt.Errorf("exam_calendar[%d]: invalid date %q: %w", year, s, err)
		}
		cal[year] = d
	}
	return cal, nil
}

// EnglishUnits returns the effective English unit catalog.
func (c *Config) EnglishUnits() []string {
	if len(c.Catalog.English) > 0 {
		return c.Catalog.English
	}
	return EnglishUnits()
}

// MathUnits returns the effective Math unit catalog.
func (c *Config) MathUnits() []string {
	if len(c.Catalog.Math) > 0 {
		return c.Catalog.Math
	}
	return MathUnits()
}
