// Package dates resolves natural-language date references in chat messages to
// closed calendar-day intervals.
//
// Resolution is phrase-first: a fixed set of relative phrases is matched
// before any fuzzy parsing, so "yesterday" can never be misread as a literal
// date. Everything that fails both stages falls back to today. Resolve never
// returns an error; a question about history always has some defensible day
// to answer for.
package dates

import (
	"strings"
	"time"
	"unicode"

	"github.com/araddon/dateparse"
)

// Range is a closed interval of calendar days, midnight-aligned in the
// reference day's location. Start and End are both inclusive.
type Range struct {
	Start time.Time
	End   time.Time
	Label string
}

// SingleDay reports whether the range covers exactly one day.
func (r Range) SingleDay() bool { return r.Start.Equal(r.End) }

// Days returns the number of calendar days in the range.
func (r Range) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func day(today time.Time, offset int, label string) Range {
	d := midnight(today).AddDate(0, 0, offset)
	return Range{Start: d, End: d, Label: label}
}

func span(today time.Time, startOff, endOff int, label string) Range {
	base := midnight(today)
	return Range{
		Start: base.AddDate(0, 0, startOff),
		End:   base.AddDate(0, 0, endOff),
		Label: label,
	}
}

// Resolve maps a message to the date range it refers to, relative to today.
// Phrases are checked in a fixed priority order:
//
//	yesterday > last week > this week > last/past 3 days > fuzzy date > today
//
// "last week" is the 7 days ending yesterday. "this week" runs from Monday of
// the current week through today. "last 3 days" is the 3 days ending today.
func Resolve(message string, today time.Time) Range {
	m := strings.ToLower(message)

	switch {
	case strings.Contains(m, "yesterday"):
		return day(today, -1, "yesterday")
	case strings.Contains(m, "last week"):
		return span(today, -7, -1, "last week")
	case strings.Contains(m, "this week"):
		// ISO weekday: Monday=1 .. Sunday=7.
		wd := int(today.Weekday())
		if wd == 0 {
			wd = 7
		}
		return span(today, -(wd - 1), 0, "this week")
	case strings.Contains(m, "last 3 days"), strings.Contains(m, "past 3 days"):
		return span(today, -2, 0, "last 3 days")
	}

	if d, ok := fuzzyDate(m, today); ok {
		return Range{Start: d, End: d, Label: d.Format("Jan 2, 2006")}
	}
	return day(today, 0, "today")
}

// fuzzyDate scans the message for a parseable explicit date such as
// "June 5" or "2024-06-05". Candidates are the whole message plus word
// n-grams of length >= 2 that contain a digit, longest first, so "on June 5
// I had pizza" resolves the date without the surrounding words confusing the
// parser.
func fuzzyDate(m string, today time.Time) (time.Time, bool) {
	for _, cand := range candidates(m) {
		t, err := dateparse.ParseAny(cand)
		if err != nil {
			continue
		}
		// A missing year parses as year 0; adopt the current year.
		if t.Year() == 0 {
			t = time.Date(today.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location())
		}
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, today.Location()), true
	}
	return time.Time{}, false
}

func candidates(m string) []string {
	words := strings.Fields(m)
	if len(words) == 1 && strings.ContainsFunc(words[0], unicode.IsDigit) {
		return words
	}
	var out []string
	for n := len(words); n >= 2; n-- {
		for i := 0; i+n <= len(words); i++ {
			c := strings.Join(words[i:i+n], " ")
			if strings.ContainsFunc(c, unicode.IsDigit) {
				out = append(out, c)
			}
		}
	}
	return out
}
