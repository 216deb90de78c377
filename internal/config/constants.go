package config

import "time"

// Built-in curriculum-unit catalogs. Sheet names in the source workbooks
// end with one of these unit names, optionally prefixed by a 4-digit year.
var (
	englishUnits = []string{
		"英単語1800", "英熟語750", "英文法750",
		"英例文300", "上級英単語1000", "上級英熟語500",
	}
	mathUnits = []string{
		"数学Ⅰ", "数学A", "数学Ⅱ", "数学B", "数学ⅠA上級", "数学ⅡB上級",
	}
)

// EnglishUnits returns a copy of the built-in English catalog.
func EnglishUnits() []string {
	return append([]string(nil), englishUnits...)
}

// MathUnits returns a copy of the built-in Math catalog.
func MathUnits() []string {
	return append([]string(nil), mathUnits...)
}

// DefaultExamCalendar maps an exam year to the national exam date used as
// the completion cutoff. Data for year Y is cut off at calendar[Y+1].
func DefaultExamCalendar() map[int]time.Time {
	return map[int]time.Time{
		2023: time.Date(2023, 1, 17, 0, 0, 0, 0, time.UTC),
		2024: time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC),
		2025: time.Date(2025, 1, 18, 0, 0, 0, 0, time.UTC),
	}
}
