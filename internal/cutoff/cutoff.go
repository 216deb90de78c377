// Package cutoff derives the per-file completion deadline from the
// file-name stem: a YYYYMM or YYYY run in the stem points at the exam
// calendar's entry for the following year, unless a manual override for
// that exact YYYYMM key exists.
package cutoff

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/volatiletech/null/v8"
)

var (
	sixDigitRe  = regexp.MustCompile(`\d{6}`)
	fourDigitRe = regexp.MustCompile(`\d{4}`)
)

// Resolve returns the effective cutoff for a file-name stem.
//
// A 6-digit run is checked against the override map first; otherwise its
// first four digits are the data year Y and the calendar entry for Y+1
// applies. A bare 4-digit run resolves the same way. No digit run, or a
// year missing from the calendar, means no cutoff: mastery then counts
// any non-empty completion date.
func Resolve(stem string, overrides map[string]time.Time, calendar map[int]time.Time) null.Time {
	if m := sixDigitRe.FindString(stem); m != "" {
		if d, ok := overrides[m]; ok {
			return null.TimeFrom(d)
		}
		return fromCalendar(yearOf(m[:4]), calendar)
	}
	if m := fourDigitRe.FindString(stem); m != "" {
		return fromCalendar(yearOf(m), calendar)
	}
	return null.Time{}
}

// DetectYear extracts the nominal data year from a stem: the first four
// digits of a 6-digit run, else a bare 4-digit run.
func DetectYear(stem string) (int, bool) {
	if m := sixDigitRe.FindString(stem); m != "" {
		return yearOf(m[:4]), true
	}
	if m := fourDigitRe.FindString(stem); m != "" {
		return yearOf(m), true
	}
	return 0, false
}

func yearOf(digits string) int {
	y := 0
	for _, c := range digits {
		y = y*10 + int(c-'0')
	}
	return y
}

func fromCalendar(year int, calendar map[int]time.Time) null.Time {
	if d, ok := calendar[year+1]; ok {
		return null.TimeFrom(d)
	}
	return null.Time{}
}

// ParseOverride parses one --cutoff flag value of the form
// "YYYYMM:YYYY-MM-DD".
func ParseOverride(s string) (key string, date time.Time, err error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return "", time.Time{}, fmt.Errorf("invalid cutoff override %q: want YYYYMM:YYYY-MM-DD", s)
	}
	key = parts[0]
	if !sixDigitRe.MatchString(key) || len(key) != 6 {
		return "", time.Time{}, fmt.Errorf("invalid cutoff override key %q: want a 6-digit YYYYMM", key)
	}
	date, err = time.Parse("2006-01-02", parts[1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("invalid cutoff override date %q: %w", parts[1], err)
	}
	return key, date, nil
}
