package nutrition

import (
	"context"
	"errors"
	"testing"

	"github.com/vithika-cyber/Calorie-Bot/internal/ai"
	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

type fakeSearcher struct {
	foods []Food
	err   error
	calls int
}

func (f *fakeSearcher) Search(_ context.Context, _ string, _ int) ([]Food, error) {
	f.calls++
	return f.foods, f.err
}

type fakeEstimator struct {
	est   ai.Estimate
	err   error
	calls int
}

func (f *fakeEstimator) EstimateNutrition(_ context.Context, _ string, _ float64, _ string) (ai.Estimate, error) {
	f.calls++
	return f.est, f.err
}

func TestResolve_DatabaseTier(t *testing.T) {
	db := &fakeSearcher{foods: []Food{{
		Description: "Chicken, breast, grilled",
		Calories:    165, Protein: 31, Carbs: 0, Fat: 3.6,
	}}}
	est := &fakeEstimator{}
	r := NewResolver(db, est)

	items := r.Resolve(context.Background(), []domain.ParsedFood{
		{Name: "chicken breast", Quantity: 1, Unit: "breast"},
	})
	if len(items) != 1 {
		t.Fatalf("got %d items; want 1", len(items))
	}
	it := items[0]
	if it.Provenance != domain.ProvenanceDatabase {
		t.Fatalf("provenance = %q; want database", it.Provenance)
	}
	// One breast is 170 g, so values scale by 1.7.
	if it.Grams != 170 {
		t.Fatalf("grams = %v; want 170", it.Grams)
	}
	if it.Calories != 280.5 {
		t.Fatalf("calories = %v; want 280.5", it.Calories)
	}
	if it.Match != "Chicken, breast, grilled" {
		t.Fatalf("match = %q", it.Match)
	}
	if est.calls != 0 {
		t.Fatalf("estimator called %d times on database hit; want 0", est.calls)
	}
}

func TestResolve_EstimateTier(t *testing.T) {
	db := &fakeSearcher{} // no results
	est := &fakeEstimator{est: ai.Estimate{Calories: 250, Protein: 8, Carbs: 30, Fat: 11}}
	r := NewResolver(db, est)

	items := r.Resolve(context.Background(), []domain.ParsedFood{
		{Name: "grandma's casserole", Quantity: 1, Unit: "serving"},
	})
	it := items[0]
	if it.Provenance != domain.ProvenanceAIEstimated {
		t.Fatalf("provenance = %q; want ai_estimated", it.Provenance)
	}
	if it.Confidence != domain.ConfidenceMedium {
		t.Fatalf("confidence = %q; want medium", it.Confidence)
	}
	if it.Calories != 250 {
		t.Fatalf("calories = %v; want 250", it.Calories)
	}
}

func TestResolve_UnknownTier(t *testing.T) {
	db := &fakeSearcher{err: errors.New("timeout")}
	est := &fakeEstimator{err: ai.ErrUnknownFood}
	r := NewResolver(db, est)

	items := r.Resolve(context.Background(), []domain.ParsedFood{
		{Name: "mystery goo", Quantity: 1, Unit: "serving"},
	})
	it := items[0]
	if it.Provenance != domain.ProvenanceUnknown {
		t.Fatalf("provenance = %q; want unknown", it.Provenance)
	}
	if it.Confidence != domain.ConfidenceUnknown {
		t.Fatalf("confidence = %q; want unknown", it.Confidence)
	}
	if it.Calories != 0 || it.Protein != 0 {
		t.Fatalf("unknown item should carry zero nutrients, got %+v", it)
	}
}

func TestResolve_Defaults(t *testing.T) {
	db := &fakeSearcher{foods: []Food{{Description: "apple, raw", Calories: 52}}}
	r := NewResolver(db, &fakeEstimator{})

	items := r.Resolve(context.Background(), []domain.ParsedFood{{Name: "apple"}})
	it := items[0]
	// Missing quantity defaults to 1, missing unit to "serving" (100 g).
	if it.Grams != 100 {
		t.Fatalf("grams = %v; want 100", it.Grams)
	}
	if it.Calories != 52 {
		t.Fatalf("calories = %v; want 52", it.Calories)
	}
}

func TestResolve_OnePerInput(t *testing.T) {
	db := &fakeSearcher{foods: []Food{{Description: "rice, white", Calories: 130}}}
	r := NewResolver(db, &fakeEstimator{err: ai.ErrUnknownFood})

	items := r.Resolve(context.Background(), []domain.ParsedFood{
		{Name: "rice", Quantity: 1, Unit: "cup"},
		{Name: "beans", Quantity: 1, Unit: "cup"},
	})
	if len(items) != 2 {
		t.Fatalf("got %d items; want 2 (one per input)", len(items))
	}
}

func TestMatchConfidence(t *testing.T) {
	cases := []struct {
		query, matched string
		want           domain.Confidence
	}{
		{"chicken breast", "chicken, breast, roasted chicken breast", domain.ConfidenceHigh}, // containment
		{"eggs", "eggs scrambled frozen mixture", domain.ConfidenceHigh},
		{"scrambled eggs toast", "eggs scrambled", domain.ConfidenceMedium}, // 2 of 3 words
		{"protein shake", "beverage, nutritional", domain.ConfidenceLow},
	}
	for _, c := range cases {
		if got := matchConfidence(c.query, c.matched); got != c.want {
			t.Errorf("matchConfidence(%q, %q) = %q; want %q", c.query, c.matched, got, c.want)
		}
	}
}
