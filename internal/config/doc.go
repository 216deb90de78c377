// Package config provides application configuration for the shukei-report
// tool: logging and report options plus the exam-date calendar and the
// curriculum-unit catalogs.
//
// Configuration is layered: built-in defaults, then an optional YAML file,
// then SHUKEI_* environment variables. The calendar and catalogs are
// loaded once and treated as read-only for the rest of the run.
package config
