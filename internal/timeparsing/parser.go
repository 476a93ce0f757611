// Package timeparsing turns user-typed schedule dates into calendar days.
//
// Inputs are tried in order:
//  1. ISO date (2025-01-20)
//  2. Compact offset (+3d, -1w, +2m, 1y)
//  3. Natural language (tomorrow, next monday, in 2 weeks)
//
// Every result is normalized to midnight UTC of the resolved day.
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

// DateLayout is the canonical day format used for input and display.
const DateLayout = "2006-01-02"

var compactOffsetRe = regexp.MustCompile(`^([+-]?)(\d+)([dwmy])$`)

var nlp = func() *when.Parser {
	w := when.New(nil)
	w.Add(en.All...)
	w.Add(common.All...)
	return w
}()

// ParseDate resolves s relative to now.
func ParseDate(s string, now time.Time) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty date")
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if IsCompactOffset(s) {
		return ParseCompactOffset(s, now)
	}
	t, err := ParseNaturalLanguage(s, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized date %q (use YYYY-MM-DD, +3d or e.g. \"next friday\")", s)
	}
	return t, nil
}

// ParseOptionalDate is ParseDate for optional fields: empty input yields nil.
func ParseOptionalDate(s string, now time.Time) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := ParseDate(s, now)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ParseCompactOffset parses [+-]?N[dwmy] as an offset from now.
// No sign means forward.
func ParseCompactOffset(s string, now time.Time) (time.Time, error) {
	m := compactOffsetRe.FindStringSubmatch(s)
	if m == nil {
		return time.Time{}, fmt.Errorf("not a compact offset: %q", s)
	}
	n, err := strconv.Atoi(m[2])
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid offset amount: %q", m[2])
	}
	if m[1] == "-" {
		n = -n
	}
	base := Day(now)
	switch m[3] {
	case "d":
		return base.AddDate(0, 0, n), nil
	case "w":
		return base.AddDate(0, 0, 7*n), nil
	case "m":
		return base.AddDate(0, n, 0), nil
	default:
		return base.AddDate(n, 0, 0), nil
	}
}

// IsCompactOffset reports whether s uses the compact offset syntax.
func IsCompactOffset(s string) bool {
	return compactOffsetRe.MatchString(s)
}

// ParseNaturalLanguage resolves English date phrases.
func ParseNaturalLanguage(s string, now time.Time) (time.Time, error) {
	r, err := nlp.Parse(s, now)
	if err != nil {
		return time.Time{}, err
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("no date found in %q", s)
	}
	return Day(r.Time), nil
}

// Day returns midnight UTC of t's calendar day in t's own location.
func Day(t time.Time) time.Time {
	y, mo, d := t.Date()
	return time.Date(y, mo, d, 0, 0, 0, 0, time.UTC)
}

// Format renders a day, or "-" for nil.
func Format(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(DateLayout)
}
