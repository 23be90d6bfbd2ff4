// Package calc computes daily calorie targets from a user profile using the
// Mifflin-St Jeor equation.
package calc

import "strings"

// MinDailyCalories is the floor below which a goal is never set.
const MinDailyCalories = 1200

// activityMultipliers scale BMR to total daily energy expenditure.
var activityMultipliers = map[string]float64{
	"sedentary":         1.2,
	"lightly_active":    1.375,
	"moderately_active": 1.55,
	"very_active":       1.725,
	"extra_active":      1.9,
}

// goalAdjustments are daily kcal deltas applied to TDEE per fitness goal.
var goalAdjustments = map[string]float64{
	"lose_weight":     -500,
	"maintain_weight": 0,
	"gain_weight":     500,
	"build_muscle":    300,
	"general_health":  0,
}

func norm(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// BMR returns the basal metabolic rate in kcal/day for the given weight (kg),
// height (cm), age (years), and gender. Genders other than male/m use the
// female constant, the more conservative estimate.
func BMR(weightKg, heightCm float64, age int, gender string) float64 {
	bmr := 10*weightKg + 6.25*heightCm - 5*float64(age)
	switch norm(gender) {
	case "male", "m":
		bmr += 5
	default:
		bmr -= 161
	}
	return bmr
}

// TDEE computes total daily energy expenditure: BMR scaled by the
// activity-level multiplier. Unrecognized levels are treated as sedentary.
func TDEE(weightKg, heightCm float64, age int, gender, activityLevel string) float64 {
	m, ok := activityMultipliers[norm(activityLevel)]
	if !ok {
		m = activityMultipliers["sedentary"]
	}
	return BMR(weightKg, heightCm, age, gender) * m
}

// CalorieGoal applies the goal adjustment to TDEE, clamped to
// MinDailyCalories. Unrecognized goals mean maintenance.
func CalorieGoal(tdee float64, goal string) int {
	adj := goalAdjustments[norm(goal)]
	g := tdee + adj
	if g < MinDailyCalories {
		g = MinDailyCalories
	}
	return int(g)
}

// TargetWeight derives a target from the current weight and goal: 5 kg down
// to lose, 5 kg up to gain, unchanged otherwise.
func TargetWeight(currentKg float64, goal string) float64 {
	switch norm(goal) {
	case "lose_weight":
		return currentKg - 5
	case "gain_weight":
		return currentKg + 5
	default:
		return currentKg
	}
}
