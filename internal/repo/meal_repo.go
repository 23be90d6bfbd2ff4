// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the MealRecord
// model, including the daily and range aggregates the query paths read.
package repo

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

// ErrMealNotFound is returned when a meal does not exist or belongs to
// another user.
var ErrMealNotFound = errors.New("repo: meal not found")

// CreateMealRecord inserts one meal record with its denormalized totals.
// Records are append-only.
func CreateMealRecord(ctx context.Context, db *gorm.DB, userID, rawText, mealType string, items []domain.FoodItem) (*domain.MealRecord, error) {
	totals := domain.Sum(items)
	m := &domain.MealRecord{
		ID:            uuid.NewString(),
		UserID:        userID,
		LoggedAt:      time.Now().UTC(),
		MealType:      domain.NormalizeMealType(mealType),
		RawText:       rawText,
		Items:         items,
		TotalCalories: totals.Calories,
		TotalProtein:  totals.Protein,
		TotalCarbs:    totals.Carbs,
		TotalFat:      totals.Fat,
		CreatedAt:     time.Now().UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// ListMealsByRange returns the user's meals with start <= logged_at < end+1d,
// ordered deterministically (LoggedAt ASC, ID ASC). Start and end are
// inclusive midnight-aligned days.
func ListMealsByRange(ctx context.Context, db *gorm.DB, userID string, start, end time.Time) ([]domain.MealRecord, error) {
	var out []domain.MealRecord
	err := db.WithContext(ctx).
		Where("user_id = ? AND logged_at >= ? AND logged_at < ?", userID, start, end.AddDate(0, 0, 1)).
		Order("logged_at ASC, id ASC").
		Find(&out).Error
	return out, err
}

// DailyTotals sums the denormalized totals of the user's meals on day.
func DailyTotals(ctx context.Context, db *gorm.DB, userID string, day time.Time) (domain.Totals, error) {
	meals, err := ListMealsByRange(ctx, db, userID, day, day)
	if err != nil {
		return domain.Totals{}, err
	}
	var t domain.Totals
	for i := range meals {
		t.Add(meals[i].Totals())
	}
	t.Round()
	return t, nil
}

// SummarizeRange aggregates the user's meals over the inclusive [start, end]
// interval into per-day totals plus overall totals and per-day averages.
// Days without meals are omitted from the daily breakdown but still count
// toward the averages.
func SummarizeRange(ctx context.Context, db *gorm.DB, userID string, start, end time.Time) (domain.RangeSummary, error) {
	meals, err := ListMealsByRange(ctx, db, userID, start, end)
	if err != nil {
		return domain.RangeSummary{}, err
	}

	days := int(end.Sub(start).Hours()/24) + 1
	sum := domain.RangeSummary{Days: days}

	byDay := make(map[time.Time]*domain.DayTotals)
	var order []time.Time
	for i := range meals {
		m := &meals[i]
		d := m.LoggedAt.In(start.Location())
		key := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, start.Location())
		dt, ok := byDay[key]
		if !ok {
			dt = &domain.DayTotals{Date: key}
			byDay[key] = dt
			order = append(order, key)
		}
		dt.Totals.Add(m.Totals())
		for _, it := range m.Items {
			dt.Foods = append(dt.Foods, it.Name)
		}
		sum.Totals.Add(m.Totals())
	}

	for _, key := range order {
		dt := byDay[key]
		dt.Totals.Round()
		sum.Daily = append(sum.Daily, *dt)
	}
	sum.Totals.Round()
	if days > 0 {
		sum.Averages = domain.Totals{
			Calories: domain.Round2(sum.Totals.Calories / float64(days)),
			Protein:  domain.Round2(sum.Totals.Protein / float64(days)),
			Carbs:    domain.Round2(sum.Totals.Carbs / float64(days)),
			Fat:      domain.Round2(sum.Totals.Fat / float64(days)),
			Fiber:    domain.Round2(sum.Totals.Fiber / float64(days)),
			Sugar:    domain.Round2(sum.Totals.Sugar / float64(days)),
		}
	}
	return sum, nil
}

// DeleteMeal removes one meal record, scoped to its owner.
func DeleteMeal(ctx context.Context, db *gorm.DB, userID, mealID string) error {
	res := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", mealID, userID).
		Delete(&domain.MealRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrMealNotFound
	}
	return nil
}
