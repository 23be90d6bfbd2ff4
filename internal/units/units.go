// Package units maps a quantity and a free-form unit string to an estimated
// mass in grams, matching the per-100g convention of the nutrition database.
//
// Lookup order is fixed: exact weight units first, then volume/portion units,
// size descriptors, countable-piece units, and finally generic serving units.
// Matching is case-insensitive and exact; there is no fuzzy matching. The
// fallback for unknown units is a size heuristic, documented on Grams. The
// tables are deliberate approximations for conversational logging, not a
// precision nutrition model.
package units

import "strings"

// weightUnits convert exactly to grams.
var weightUnits = map[string]float64{
	"g": 1, "gram": 1, "grams": 1,
	"kg": 1000, "kilogram": 1000,
	"oz": 28.35, "ounce": 28.35, "ounces": 28.35,
	"lb": 453.592, "pound": 453.592, "pounds": 453.592,
}

// portionUnits approximate the grams of common volumes and dishes.
var portionUnits = map[string]float64{
	"cup": 240, "cups": 240,
	"tbsp": 15, "tablespoon": 15, "tablespoons": 15,
	"tsp": 5, "teaspoon": 5, "teaspoons": 5,
	"bowl": 300, "bowls": 300,
	"plate": 300, "plates": 300,
	"glass": 240,
}

// sizeUnits are grams per item for size descriptors.
var sizeUnits = map[string]float64{
	"small": 80, "medium": 130, "large": 180,
	"standard": 100, "regular": 130,
}

// pieceUnits are food-specific grams per countable piece.
var pieceUnits = map[string]float64{
	"piece": 30, "pieces": 30,
	"slice": 30, "slices": 30,
	"chip": 5, "chips": 5,
	"nacho": 7, "nachos": 7,
	"cracker": 5, "crackers": 5,
	"cookie": 30, "cookies": 30,
	"strip": 20, "strips": 20,
	"nugget": 18, "nuggets": 18,
	"wing": 30, "wings": 30,
	"bite": 15, "bites": 15,
	"scoop": 70, "scoops": 70,
	"handful": 30,
	"bar":    50, "bars": 50,
	"patty": 85, "patties": 85,
	"fillet": 170, "fillets": 170,
	"breast": 170, "breasts": 170,
	"thigh": 115, "thighs": 115,
	"drumstick": 75, "drumsticks": 75,
	"egg": 50, "eggs": 50,
	"wrap": 60, "wraps": 60,
	"tortilla": 50, "tortillas": 50,
	"roll": 50, "rolls": 50,
}

// servingUnits treat one serving as one standard 100 g portion.
var servingUnits = map[string]float64{
	"serving": 100, "servings": 100,
	"portion": 100, "portions": 100,
}

// tables in lookup priority order.
var tables = []map[string]float64{
	weightUnits,
	portionUnits,
	sizeUnits,
	pieceUnits,
	servingUnits,
}

// Known reports whether the unit appears in any table.
func Known(unit string) bool {
	u := strings.ToLower(strings.TrimSpace(unit))
	for _, t := range tables {
		if _, ok := t[u]; ok {
			return true
		}
	}
	return false
}

// Grams returns the estimated mass in grams of quantity units. For units
// absent from every table it applies a size heuristic: quantities of at most
// 2 are treated as whole 100 g servings, larger quantities as 30 g countable
// pieces. This resolves the ambiguity between "one dish" and "many small
// items" without a unit vocabulary for every food.
func Grams(quantity float64, unit string) float64 {
	u := strings.ToLower(strings.TrimSpace(unit))
	for _, t := range tables {
		if g, ok := t[u]; ok {
			return quantity * g
		}
	}
	if quantity <= 2 {
		return quantity * 100
	}
	return quantity * 30
}
