package orchestrator

import (
	"strings"
	"testing"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

func TestProgressBar(t *testing.T) {
	bar := progressBar(500, 2000, 10)
	if got := strings.Count(bar, ":large_green_square:"); got != 2 {
		t.Fatalf("filled = %d; want 2", got)
	}
	if got := strings.Count(bar, ":white_large_square:"); got != 8 {
		t.Fatalf("empty = %d; want 8", got)
	}

	// Over goal is clamped to a full bar.
	over := progressBar(3000, 2000, 10)
	if strings.Count(over, ":large_green_square:") != 10 {
		t.Fatalf("over-goal bar not full: %q", over)
	}

	// Zero goal renders an empty bar instead of dividing by zero.
	empty := progressBar(500, 0, 10)
	if strings.Count(empty, ":white_large_square:") != 10 {
		t.Fatalf("zero-goal bar not empty: %q", empty)
	}
}

func TestFmtNum(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{16, "16"},
		{230.555, "230.56"},
		{0.26, "0.26"},
		{0, "0"},
	}
	for _, c := range cases {
		if got := fmtNum(c.in); got != c.want {
			t.Errorf("fmtNum(%v) = %q; want %q", c.in, got, c.want)
		}
	}
}

func TestFoodEmoji(t *testing.T) {
	if got := foodEmoji("Scrambled Eggs"); got != ":egg:" {
		t.Fatalf("egg emoji = %q", got)
	}
	if got := foodEmoji("quinoa"); got != ":fork_and_knife:" {
		t.Fatalf("default emoji = %q", got)
	}
}

func TestFormatDailySummary_GoalHit(t *testing.T) {
	out := formatDailySummary("today", domain.Totals{Calories: 1980}, 2000, nil)
	if !strings.Contains(out, "You hit your goal") {
		t.Fatalf("within 50 cal should count as a hit: %q", out)
	}
}

func TestFormatRangeSummary_Empty(t *testing.T) {
	out := formatRangeSummary("last week", domain.RangeSummary{Days: 7}, 2000)
	if !strings.Contains(out, "No food logged in this period") {
		t.Fatalf("missing empty-period note: %q", out)
	}
}
