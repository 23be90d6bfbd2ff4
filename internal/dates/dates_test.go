package dates

import (
	"testing"
	"time"
)

// Wednesday.
var wed = time.Date(2025, 6, 4, 15, 30, 0, 0, time.UTC)

func d(y int, m time.Month, day int) time.Time {
	return time.Date(y, m, day, 0, 0, 0, 0, time.UTC)
}

func TestResolve_Yesterday(t *testing.T) {
	r := Resolve("What did I eat yesterday?", wed)
	if !r.Start.Equal(d(2025, 6, 3)) || !r.SingleDay() {
		t.Fatalf("yesterday = %v..%v; want 2025-06-03 single day", r.Start, r.End)
	}
	if r.Label != "yesterday" {
		t.Fatalf("label = %q; want yesterday", r.Label)
	}
}

func TestResolve_LastWeek(t *testing.T) {
	r := Resolve("show me last week", wed)
	if !r.Start.Equal(d(2025, 5, 28)) || !r.End.Equal(d(2025, 6, 3)) {
		t.Fatalf("last week = %v..%v; want 2025-05-28..2025-06-03", r.Start, r.End)
	}
	if r.Days() != 7 {
		t.Fatalf("last week days = %d; want 7", r.Days())
	}
}

func TestResolve_ThisWeek(t *testing.T) {
	r := Resolve("how am I doing this week", wed)
	if !r.Start.Equal(d(2025, 6, 2)) || !r.End.Equal(d(2025, 6, 4)) {
		t.Fatalf("this week = %v..%v; want Monday 2025-06-02..2025-06-04", r.Start, r.End)
	}
}

func TestResolve_ThisWeekOnSunday(t *testing.T) {
	sun := time.Date(2025, 6, 8, 9, 0, 0, 0, time.UTC)
	r := Resolve("this week", sun)
	if !r.Start.Equal(d(2025, 6, 2)) || !r.End.Equal(d(2025, 6, 8)) {
		t.Fatalf("this week on Sunday = %v..%v; want full ISO week", r.Start, r.End)
	}
}

func TestResolve_LastThreeDays(t *testing.T) {
	for _, msg := range []string{"last 3 days", "what about the past 3 days"} {
		r := Resolve(msg, wed)
		if !r.Start.Equal(d(2025, 6, 2)) || !r.End.Equal(d(2025, 6, 4)) {
			t.Fatalf("%q = %v..%v; want 2025-06-02..2025-06-04", msg, r.Start, r.End)
		}
	}
}

func TestResolve_PhraseBeatsFuzzy(t *testing.T) {
	// "yesterday" wins even when a literal date is present.
	r := Resolve("yesterday, not 2025-01-01", wed)
	if !r.Start.Equal(d(2025, 6, 3)) {
		t.Fatalf("phrase should outrank fuzzy date, got %v", r.Start)
	}
}

func TestResolve_FuzzyExplicitDate(t *testing.T) {
	r := Resolve("what did I eat on 2025-05-20", wed)
	if !r.Start.Equal(d(2025, 5, 20)) || !r.SingleDay() {
		t.Fatalf("fuzzy = %v..%v; want 2025-05-20 single day", r.Start, r.End)
	}
}

func TestResolve_FuzzyMonthName(t *testing.T) {
	r := Resolve("summary for May 20, 2025 please", wed)
	if !r.Start.Equal(d(2025, 5, 20)) {
		t.Fatalf("fuzzy month name = %v; want 2025-05-20", r.Start)
	}
}

func TestResolve_DefaultToday(t *testing.T) {
	for _, msg := range []string{"what did I eat today", "show my meals", "I had 2 eggs"} {
		r := Resolve(msg, wed)
		if !r.Start.Equal(d(2025, 6, 4)) || !r.SingleDay() {
			t.Fatalf("%q = %v..%v; want today", msg, r.Start, r.End)
		}
		if r.Label != "today" {
			t.Fatalf("%q label = %q; want today", msg, r.Label)
		}
	}
}

func TestRange_Days(t *testing.T) {
	r := Range{Start: d(2025, 6, 1), End: d(2025, 6, 1)}
	if r.Days() != 1 {
		t.Fatalf("single day Days() = %d; want 1", r.Days())
	}
	r.End = d(2025, 6, 7)
	if r.Days() != 7 {
		t.Fatalf("week Days() = %d; want 7", r.Days())
	}
}
