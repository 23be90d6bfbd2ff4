package repo

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

func seedUser(t *testing.T, db *gorm.DB) *domain.User {
	t.Helper()
	u, err := GetOrCreateUser(context.Background(), db, "U123", "T456")
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

func item(name string, cal, protein float64) domain.FoodItem {
	return domain.FoodItem{
		ParsedFood: domain.ParsedFood{Name: name, Quantity: 1, Unit: "serving"},
		Calories:   cal,
		Protein:    protein,
		Provenance: domain.ProvenanceDatabase,
		Confidence: domain.ConfidenceHigh,
	}
}

func TestCreateMealRecord_Totals(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)

	m, err := CreateMealRecord(context.Background(), db, u.ID, "eggs and toast", "breakfast",
		[]domain.FoodItem{item("eggs", 155.555, 13), item("toast", 75, 3)})
	if err != nil {
		t.Fatalf("CreateMealRecord: %v", err)
	}
	// Totals are the rounded elementwise sum of items.
	if m.TotalCalories != 230.56 {
		t.Fatalf("total calories = %v; want 230.56", m.TotalCalories)
	}
	if m.TotalProtein != 16 {
		t.Fatalf("total protein = %v; want 16", m.TotalProtein)
	}
	if m.MealType != domain.MealBreakfast {
		t.Fatalf("meal type = %q", m.MealType)
	}

	// Items round-trip through the JSON serializer.
	var got domain.MealRecord
	if err := db.First(&got, "id = ?", m.ID).Error; err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(got.Items) != 2 || got.Items[0].Name != "eggs" {
		t.Fatalf("items not persisted: %+v", got.Items)
	}
}

func TestCreateMealRecord_UnknownMealType(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)

	m, err := CreateMealRecord(context.Background(), db, u.ID, "something", "brunch", []domain.FoodItem{item("x", 10, 0)})
	if err != nil {
		t.Fatalf("CreateMealRecord: %v", err)
	}
	if m.MealType != domain.MealOther {
		t.Fatalf("meal type = %q; want other", m.MealType)
	}
}

func TestDailyTotalsAndRange(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	ctx := context.Background()

	if _, err := CreateMealRecord(ctx, db, u.ID, "eggs", "breakfast", []domain.FoodItem{item("eggs", 150, 12)}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := CreateMealRecord(ctx, db, u.ID, "salad", "lunch", []domain.FoodItem{item("salad", 350, 20)}); err != nil {
		t.Fatalf("create: %v", err)
	}

	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	totals, err := DailyTotals(ctx, db, u.ID, today)
	if err != nil {
		t.Fatalf("DailyTotals: %v", err)
	}
	if totals.Calories != 500 || totals.Protein != 32 {
		t.Fatalf("daily totals = %+v; want 500 cal / 32 protein", totals)
	}

	sum, err := SummarizeRange(ctx, db, u.ID, today.AddDate(0, 0, -6), today)
	if err != nil {
		t.Fatalf("SummarizeRange: %v", err)
	}
	if sum.Days != 7 {
		t.Fatalf("days = %d; want 7", sum.Days)
	}
	if sum.Totals.Calories != 500 {
		t.Fatalf("range totals = %+v; want 500 cal", sum.Totals)
	}
	// Averages divide by all days in the range, not only logged days.
	if sum.Averages.Calories != 71.43 {
		t.Fatalf("avg calories = %v; want 71.43", sum.Averages.Calories)
	}
	if len(sum.Daily) != 1 {
		t.Fatalf("daily breakdown has %d days; want 1", len(sum.Daily))
	}
	if got := sum.Daily[0].Foods; len(got) != 2 {
		t.Fatalf("day foods = %v; want eggs and salad", got)
	}

	// A range elsewhere sees nothing.
	empty, err := SummarizeRange(ctx, db, u.ID, today.AddDate(0, 0, -20), today.AddDate(0, 0, -14))
	if err != nil {
		t.Fatalf("empty range: %v", err)
	}
	if empty.Totals.Calories != 0 || len(empty.Daily) != 0 {
		t.Fatalf("expected empty summary, got %+v", empty)
	}
}

func TestDeleteMeal(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	ctx := context.Background()

	m, err := CreateMealRecord(ctx, db, u.ID, "eggs", "breakfast", []domain.FoodItem{item("eggs", 150, 12)})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Another user cannot delete it.
	if err := DeleteMeal(ctx, db, "someone-else", m.ID); err != ErrMealNotFound {
		t.Fatalf("cross-user delete = %v; want ErrMealNotFound", err)
	}
	if err := DeleteMeal(ctx, db, u.ID, m.ID); err != nil {
		t.Fatalf("DeleteMeal: %v", err)
	}
	if err := DeleteMeal(ctx, db, u.ID, m.ID); err != ErrMealNotFound {
		t.Fatalf("second delete = %v; want ErrMealNotFound", err)
	}
}
