package workbook

import (
	"regexp"
	"strings"
)

// ExamSheetMarker identifies the mock-exam results sheets, e.g.
// "202501合同共テ結果".
const ExamSheetMarker = "合同共テ結果"

// CompletionDateHeader is the header of the completion-date column in the
// curriculum-unit sheets. The column is matched by name, falling back to
// the fixed K-column position.
const CompletionDateHeader = "完全修得日"

// completionDateIndex is the fallback column position (0-based K column).
const completionDateIndex = 10

// headerJunk matches the whitespace variants human-edited headers carry:
// ASCII whitespace, NBSP and the ideographic (full-width) space.
var headerJunk = regexp.MustCompile(`[\s\x{00A0}\x{3000}]+`)

// CleanHeader normalizes a header cell: trims the edges and removes NBSP
// and full-width spaces anywhere in the string.
func CleanHeader(s string) string {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "　", "")
	return s
}

// ColumnRule pairs a label with a pure header predicate. Rules are
// evaluated column-major: the first column satisfying a rule wins, so a
// workbook with both an "ID" and a "生徒番号" column resolves to whichever
// comes first.
type ColumnRule struct {
	Label string
	Match func(header string) bool
}

// Exam results sheet column rules. Absence of an optional column means
// the sheet simply contributes no value for it.
var (
	StudentIDRule = ColumnRule{Label: "student_id", Match: func(h string) bool {
		return strings.Contains(h, "生徒番号") || h == "ID" || h == "生徒ID"
	}}
	GradeRule = ColumnRule{Label: "grade", Match: func(h string) bool {
		return strings.Contains(h, "学年")
	}}
	EnglishRule = ColumnRule{Label: "score_eng", Match: func(h string) bool {
		return h == "英語"
	}}
	MathIARule = ColumnRule{Label: "score_math1", Match: func(h string) bool {
		return strings.Contains(h, "数学Ⅰ・数学A")
	}}
	MathIIBCRule = ColumnRule{Label: "score_math2", Match: func(h string) bool {
		return strings.Contains(h, "数学Ⅱ・数学B・数学C")
	}}
	JapaneseRule = ColumnRule{Label: "score_jpn", Match: func(h string) bool {
		return strings.Contains(h, "国語(現古漢)")
	}}
)

// FindColumn returns the index of the first header satisfying the rule.
func FindColumn(header []string, rule ColumnRule) (int, bool) {
	for i, h := range header {
		if rule.Match(h) {
			return i, true
		}
	}
	return 0, false
}

// MapColumns resolves every rule against the header, returning
// label → column index for the rules that matched.
func MapColumns(header []string, rules []ColumnRule) map[string]int {
	cols := make(map[string]int, len(rules))
	for _, rule := range rules {
		if idx, ok := FindColumn(header, rule); ok {
			cols[rule.Label] = idx
		}
	}
	return cols
}

// CompletionDateColumn locates the completion-date column: any column
// whose cleaned header equals the label, else the fixed K-column position
// when its header carries the full label.
func CompletionDateColumn(header []string) (int, bool) {
	for i, h := range header {
		if h == CompletionDateHeader {
			return i, true
		}
	}
	if len(header) > completionDateIndex &&
		strings.TrimSpace(header[completionDateIndex]) == CompletionDateHeader {
		return completionDateIndex, true
	}
	return 0, false
}

// ExamSheets returns the sheet names carrying the exam results marker.
func ExamSheets(names []string) []string {
	var hits []string
	for _, n := range names {
		if strings.Contains(n, ExamSheetMarker) {
			hits = append(hits, n)
		}
	}
	return hits
}

// SheetMatch binds a curriculum unit to an actual sheet name.
type SheetMatch struct {
	Unit  string
	Sheet string
}

// MatchUnitSheets pairs sheet names with catalog units. A sheet matches a
// unit when, ignoring all whitespace and case, its name ends with the
// unit name, optionally prefixed by a 4-digit year and arbitrary text.
// Each sheet is claimed by the first unit that matches it.
func MatchUnitSheets(names []string, units []string) []SheetMatch {
	type compiled struct {
		unit string
		re   *regexp.Regexp
	}
	patterns := make([]compiled, 0, len(units))
	for _, u := range units {
		target := regexp.QuoteMeta(headerJunk.ReplaceAllString(u, ""))
		patterns = append(patterns, compiled{
			unit: u,
			re:   regexp.MustCompile(`(?i)^(?:\d{4})?.*` + target + `$`),
		})
	}

	var hits []SheetMatch
	for _, name := range names {
		norm := headerJunk.ReplaceAllString(name, "")
		for _, p := range patterns {
			if p.re.MatchString(norm) {
				hits = append(hits, SheetMatch{Unit: p.unit, Sheet: name})
				break
			}
		}
	}
	return hits
}
