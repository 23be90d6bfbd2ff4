// Package orchestrator – response formatting. Output uses Slack-style mrkdwn
// and emoji shortcodes, which the chat transports render natively.
package orchestrator

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

var titleCaser = cases.Title(language.English)

const onboardingInstructions = `:wave: *Welcome to CalorieBot!*

Before we start tracking, I need a few details to calculate your personalized calorie goal.

Please tell me:
1. Your age
2. Your gender (male/female)
3. Your current weight (in kg or lbs)
4. Your height (in cm or inches)
5. Your activity level (sedentary / lightly active / moderately active / very active)
6. Your goal (lose weight / maintain weight / gain weight)

You can say something like: _"I'm 30 years old, male, 75kg, 175cm, moderately active, and want to lose weight"_`

const helpMessage = `*How to use CalorieBot:*

*Logging food:*
Just tell me what you ate! Examples:
  "I had 2 eggs and toast for breakfast"
  "Ate a chicken salad for lunch"
  "Had a banana as a snack"

*Checking progress:*
  "What did I eat today?"
  "How many calories so far?"
  "Show me yesterday"
  "What about last week?"

*Tips:*
  Be specific about quantities when possible
  I understand natural language - just chat normally!
  I'll ask for clarification if I'm unsure

Need anything else?`

// fmtNum renders a float without trailing zeros (16, 230.56, 0.26).
func fmtNum(v float64) string {
	return strconv.FormatFloat(domain.Round2(v), 'f', -1, 64)
}

func formatOnboardingComplete(goal int, tdee float64, goalType string) string {
	return fmt.Sprintf(`:white_check_mark: *You're all set!*

Here's your personalized plan:
  *Daily Calorie Goal:* %d cal
  *TDEE (Maintenance):* %d cal
  *Goal:* %s

You can now start logging your meals! Just tell me what you eat, like:
  "I had 2 eggs and toast for breakfast"
  "Ate a chicken salad"
  "Had an apple as a snack"

Let's get started! :dart:`,
		goal, int(tdee), titleCaser.String(strings.ReplaceAll(goalType, "_", " ")))
}

// formatFoodLog renders the confirmation for a stored meal.
func formatFoodLog(mealType string, items []domain.FoodItem, totals domain.Totals, loggedAt time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":white_check_mark: *Logged %s* (%s)\n", titleCaser.String(mealType), loggedAt.Format("3:04 PM"))

	for _, it := range items {
		fmt.Fprintf(&b, "\n%s %s %s: *%s cal*", foodEmoji(it.Name), quantityLabel(it), it.Name, fmtNum(it.Calories))

		var macros []string
		if it.Protein > 0 {
			macros = append(macros, "P: "+fmtNum(it.Protein)+"g")
		}
		if it.Carbs > 0 {
			macros = append(macros, "C: "+fmtNum(it.Carbs)+"g")
		}
		if it.Fat > 0 {
			macros = append(macros, "F: "+fmtNum(it.Fat)+"g")
		}
		if len(macros) > 0 {
			b.WriteString(" | " + strings.Join(macros, " "))
		}
		if it.Provenance == domain.ProvenanceUnknown {
			b.WriteString("  _(estimate - item not in database)_")
		}
	}

	fmt.Fprintf(&b, "\n\n*Meal total: %s calories*", fmtNum(totals.Calories))
	var parts []string
	if totals.Protein > 0 {
		parts = append(parts, "Protein: "+fmtNum(totals.Protein)+"g")
	}
	if totals.Carbs > 0 {
		parts = append(parts, "Carbs: "+fmtNum(totals.Carbs)+"g")
	}
	if totals.Fat > 0 {
		parts = append(parts, "Fat: "+fmtNum(totals.Fat)+"g")
	}
	if len(parts) > 0 {
		b.WriteString("\n_" + strings.Join(parts, " | ") + "_")
	}
	return b.String()
}

func quantityLabel(it domain.FoodItem) string {
	if it.Unit == "" {
		return fmtNum(it.Quantity)
	}
	return fmtNum(it.Quantity) + " " + it.Unit
}

// formatAllUnknown asks for clarification when nothing resolved; no record
// was stored in that case.
func formatAllUnknown(unknown []domain.FoodItem) string {
	names := itemNames(unknown)
	first := "food"
	if len(unknown) > 0 && unknown[0].Name != "" {
		first = unknown[0].Name
	}
	return fmt.Sprintf(`:thinking_face: I couldn't find nutritional info for _%s_.

Could you help me out? You can:
  1. Try a more common name (e.g. instead of a brand name, describe the food type)
  2. Tell me the calories directly, like: _"%s is about 250 calories"_
  3. Break it down into ingredients I might know`, names, first)
}

func formatUnknownWarning(unknown []domain.FoodItem) string {
	first := "food"
	if unknown[0].Name != "" {
		first = unknown[0].Name
	}
	return fmt.Sprintf("\n\n:warning: I couldn't find _%s_ in my database, so those were logged as 0 cal. "+
		"You can tell me the calories like: _\"%s is about 250 calories\"_", itemNames(unknown), first)
}

// formatValidationWarning surfaces parse sanity issues; the meal was still
// logged as parsed.
func formatValidationWarning(issues []string) string {
	return "\n\n:mag: Some of that looked unusual: " + strings.Join(issues, "; ") +
		". I logged it as-is - double-check the numbers."
}

func formatEstimateNote(estimated []domain.FoodItem) string {
	return fmt.Sprintf("\n\n:information_source: _%s_ nutrition was estimated by AI (not from the nutrition database). Actual values may vary.", itemNames(estimated))
}

func itemNames(items []domain.FoodItem) string {
	names := make([]string, 0, len(items))
	for _, it := range items {
		name := it.Name
		if name == "" {
			name = "unknown"
		}
		names = append(names, name)
	}
	return strings.Join(names, ", ")
}

// formatDailySummary renders one day's progress with goal status, progress
// bar, macros, and the meals logged.
func formatDailySummary(label string, totals domain.Totals, goal int, meals []domain.MealRecord) string {
	var b strings.Builder
	fmt.Fprintf(&b, ":bar_chart: *Daily Summary - %s*\n\n", titleCaser.String(label))

	pct := 0
	if goal > 0 {
		pct = int(totals.Calories / float64(goal) * 100)
	}
	remaining := float64(goal) - totals.Calories

	fmt.Fprintf(&b, "*%d/%d calories* (%d%%)\n", int(totals.Calories), goal, pct)
	switch {
	case remaining > -50 && remaining < 50:
		b.WriteString(":dart: Perfect! You hit your goal!\n")
	case remaining > 0:
		fmt.Fprintf(&b, ":chart_with_upwards_trend: %d calories remaining\n", int(remaining))
	default:
		fmt.Fprintf(&b, ":chart_with_downwards_trend: %d calories over\n", int(-remaining))
	}

	b.WriteString("\n" + progressBar(totals.Calories, float64(goal), 10) + "\n")

	b.WriteString("\n*Macros:*\n")
	fmt.Fprintf(&b, "  Protein: %sg\n", fmtNum(totals.Protein))
	fmt.Fprintf(&b, "  Carbs: %sg\n", fmtNum(totals.Carbs))
	fmt.Fprintf(&b, "  Fat: %sg\n", fmtNum(totals.Fat))

	if len(meals) > 0 {
		b.WriteString("\n*Meals logged:*")
		for i := range meals {
			m := &meals[i]
			fmt.Fprintf(&b, "\n%s *%s:* %d cal", mealEmoji(m.MealType), titleCaser.String(m.MealType), int(m.TotalCalories))
			if names := mealFoodNames(m); names != "" {
				fmt.Fprintf(&b, "\n    _%s_", names)
			}
		}
	}
	return b.String()
}

func mealFoodNames(m *domain.MealRecord) string {
	names := make([]string, 0, len(m.Items))
	for _, it := range m.Items {
		if it.Name != "" {
			names = append(names, it.Name)
		}
	}
	return strings.Join(names, ", ")
}

// formatRangeSummary renders a multi-day aggregate with a per-day breakdown.
func formatRangeSummary(label string, sum domain.RangeSummary, goal int) string {
	var b strings.Builder
	plural := "s"
	if sum.Days == 1 {
		plural = ""
	}
	fmt.Fprintf(&b, ":calendar: *%s*  (%d day%s)\n\n", titleCaser.String(label), sum.Days, plural)
	fmt.Fprintf(&b, "*Total:* %s cal | P: %sg  C: %sg  F: %sg\n",
		fmtNum(sum.Totals.Calories), fmtNum(sum.Totals.Protein), fmtNum(sum.Totals.Carbs), fmtNum(sum.Totals.Fat))
	fmt.Fprintf(&b, "*Daily avg:* %s cal | P: %sg  C: %sg  F: %sg\n",
		fmtNum(sum.Averages.Calories), fmtNum(sum.Averages.Protein), fmtNum(sum.Averages.Carbs), fmtNum(sum.Averages.Fat))

	if goal > 0 {
		pct := int(sum.Averages.Calories / float64(goal) * 100)
		fmt.Fprintf(&b, "_Avg %d%% of your %d cal goal_\n", pct, goal)
	}

	b.WriteString("\n*Per-day breakdown:*")
	for _, d := range sum.Daily {
		fmt.Fprintf(&b, "\n  *%s:* %s cal", d.Date.Format("Mon, Jan 02"), fmtNum(d.Totals.Calories))
		if len(d.Foods) > 0 {
			fmt.Fprintf(&b, "\n    _%s_", strings.Join(d.Foods, ", "))
		}
	}
	if len(sum.Daily) == 0 {
		b.WriteString("\n  _No food logged in this period._")
	}
	return b.String()
}

// progressBar renders a 10-slot bar of filled and empty squares.
func progressBar(current, goal float64, length int) string {
	filled := 0
	if goal > 0 {
		filled = int(current / goal * float64(length))
		if filled > length {
			filled = length
		}
	}
	return strings.Repeat(":large_green_square:", filled) + strings.Repeat(":white_large_square:", length-filled)
}

// foodEmoji picks an emoji by keyword, defaulting to cutlery.
func foodEmoji(name string) string {
	n := strings.ToLower(name)
	pairs := []struct{ keyword, emoji string }{
		{"egg", ":egg:"},
		{"toast", ":bread:"},
		{"bread", ":bread:"},
		{"apple", ":apple:"},
		{"banana", ":banana:"},
		{"orange", ":tangerine:"},
		{"salad", ":green_salad:"},
		{"chicken", ":poultry_leg:"},
		{"rice", ":rice:"},
		{"pasta", ":spaghetti:"},
		{"pizza", ":pizza:"},
		{"burger", ":hamburger:"},
		{"sandwich", ":sandwich:"},
		{"coffee", ":coffee:"},
		{"tea", ":tea:"},
		{"milk", ":glass_of_milk:"},
		{"cheese", ":cheese_wedge:"},
		{"fish", ":fish:"},
		{"meat", ":cut_of_meat:"},
		{"steak", ":cut_of_meat:"},
		{"potato", ":potato:"},
		{"avocado", ":avocado:"},
		{"soup", ":stew:"},
		{"cake", ":cake:"},
		{"cookie", ":cookie:"},
		{"chocolate", ":chocolate_bar:"},
	}
	for _, p := range pairs {
		if strings.Contains(n, p.keyword) {
			return p.emoji
		}
	}
	return ":fork_and_knife:"
}

func mealEmoji(mealType string) string {
	switch strings.ToLower(mealType) {
	case domain.MealBreakfast:
		return ":sunrise:"
	case domain.MealLunch:
		return ":sunny:"
	case domain.MealDinner:
		return ":crescent_moon:"
	case domain.MealSnack:
		return ":popcorn:"
	default:
		return ":fork_and_knife:"
	}
}
