package workbook

import (
	"strconv"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
	"github.com/xuri/excelize/v2"
)

// Sheet is a loaded worksheet: a cleaned header row plus raw data rows.
// excelize returns ragged rows, so cell access goes through Cell.
type Sheet struct {
	Name   string
	Header []string
	Rows   [][]string
}

// LoadSheet reads a worksheet into memory with its header cleaned.
// A sheet without rows loads as empty, not as an error.
func LoadSheet(f *excelize.File, name string) (*Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return nil, err
	}
	s := &Sheet{Name: name}
	if len(rows) == 0 {
		return s, nil
	}
	s.Header = make([]string, len(rows[0]))
	for i, h := range rows[0] {
		s.Header[i] = CleanHeader(h)
	}
	s.Rows = rows[1:]
	return s, nil
}

// Cell returns the value at col of a data row, empty when the row is too
// short.
func (s *Sheet) Cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}

// ParseNumber coerces a cell to a number. Thousands separators are
// tolerated; anything unparseable is null, never an error.
func ParseNumber(s string) null.Float64 {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return null.Float64{}
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float64{}
	}
	return null.Float64From(v)
}

// ParseStudentID coerces a cell to a student ID: numeric values are
// truncated to an integer and rendered back as a string; non-numeric
// cells report !ok and the row is dropped by the caller.
func ParseStudentID(s string) (string, bool) {
	v := ParseNumber(s)
	if !v.Valid {
		return "", false
	}
	return strconv.Itoa(int(v.Float64)), true
}

// dateLayouts covers the formats excelize renders date cells in, plus
// the ISO forms hand-typed cells tend to use.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"2006/1/2",
	"2006-1-2",
	"2006-01-02 15:04:05",
	"01-02-06",
	"1/2/06",
	"2006年1月2日",
	"20060102",
}

// ParseDate coerces a cell to a date. Unstyled numeric cells come back
// from excelize as Excel serials, so those are converted too. Anything
// unparseable is null.
func ParseDate(s string) null.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Time{}
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return null.TimeFrom(t)
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 && serial < 200000 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return null.TimeFrom(t)
		}
	}
	return null.Time{}
}
