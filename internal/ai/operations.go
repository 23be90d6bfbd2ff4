package ai

import (
	"context"
	"fmt"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

// ParseResult is the structured output of food parsing.
type ParseResult struct {
	Foods                []domain.ParsedFood `json:"foods"`
	Confidence           string              `json:"confidence"`
	MealType             string              `json:"meal_type"`
	ClarificationsNeeded []string            `json:"clarifications_needed"`
}

// IntentResult is the structured output of intent classification.
type IntentResult struct {
	Intent     string            `json:"intent"`
	Confidence string            `json:"confidence"`
	Entities   map[string]string `json:"entities"`
}

// Estimate holds model-estimated nutrition for one food item as described,
// not per 100 g.
type Estimate struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Unknown  bool    `json:"unknown"`
}

// OnboardingProfile carries the six fields extracted from an onboarding
// message. Pointer fields distinguish "absent" from zero values.
type OnboardingProfile struct {
	Age           *int     `json:"age"`
	Gender        *string  `json:"gender"`
	WeightKg      *float64 `json:"weight_kg"`
	HeightCm      *float64 `json:"height_cm"`
	ActivityLevel *string  `json:"activity_level"`
	Goal          *string  `json:"goal"`
}

// Complete reports whether all six required fields were extracted.
func (p *OnboardingProfile) Complete() bool {
	return p.Age != nil && p.Gender != nil && p.WeightKg != nil &&
		p.HeightCm != nil && p.ActivityLevel != nil && p.Goal != nil
}

const parseFoodSystem = `You are a nutrition assistant that extracts food items from natural language.

Extract all food items mentioned with their quantities and units. Be smart about inferring:
- Standard serving sizes (e.g., "an apple" = 1 medium apple)
- Common portions (e.g., "toast" = 1 slice)
- Meal type from context (breakfast/lunch/dinner/snack)

Return a JSON object with this structure:
{
    "foods": [
        {
            "name": "food name (lowercase, descriptive)",
            "quantity": numeric quantity,
            "unit": "serving unit (e.g., large, medium, small, slice, cup, grams)",
            "meal_type": "breakfast/lunch/dinner/snack",
            "notes": "any preparation method or additional details"
        }
    ],
    "confidence": "high/medium/low",
    "meal_type": "overall meal type if determinable",
    "clarifications_needed": ["list of questions if ambiguous"]
}

IMPORTANT unit guidelines:
- Use standard units: "serving", "small", "medium", "large", "cup", "piece", "slice", "g", "oz"
- For fruits/vegetables: "small", "medium", or "large" (e.g., 1 medium apple)
- For countable items: "piece" or specific names (e.g., 2 pieces)
- For meals/dishes: "serving" (e.g., 1 serving nachos, 1 serving pasta)
- For drinks: "cup" or "glass"
- NEVER use the food name as the unit (wrong: unit="nacho", correct: unit="serving" or "piece")

Examples:
- "I had an apple" -> quantity: 1, unit: "medium"
- "2 eggs" -> quantity: 2, unit: "large"
- "a handful of almonds" -> quantity: 1, unit: "handful"
- "10 nachos" -> quantity: 10, unit: "piece"
- "some nachos" -> quantity: 1, unit: "serving"

Be concise but accurate. If unsure about quantity, default to 1 serving.`

// ParseFood extracts structured food items from a free-text message.
// extraContext carries optional hints such as time of day; it may be empty.
func (c *Client) ParseFood(ctx context.Context, message, extraContext string) (ParseResult, error) {
	user := "Parse this food message: " + message
	if extraContext != "" {
		user += "\n\nContext: " + extraContext
	}
	var out ParseResult
	if err := c.chatJSON(ctx, parseFoodSystem, user, &out); err != nil {
		return ParseResult{}, err
	}
	return out, nil
}

const classifyIntentSystem = `You are an intent classifier for a calorie tracking bot.

Classify the user's message into one of these intents:
- log_food: Logging food they ate (e.g., "I had pizza", "Ate an apple")
- query_history: Asking about past meals (e.g., "What did I eat yesterday?")
- query_today: Asking about today's progress (e.g., "How many calories today?")
- greeting: Greeting or casual chat (e.g., "Hi", "Hello")
- help: Asking for help (e.g., "How does this work?")
- other: Unclear or doesn't fit above

Return JSON:
{
    "intent": "intent_name",
    "confidence": "high/medium/low",
    "entities": {"key": "value"}
}`

// ClassifyIntent labels a message with one intent from the closed set the
// router understands. history carries a condensed recent-conversation
// snapshot for disambiguation; it may be empty.
func (c *Client) ClassifyIntent(ctx context.Context, message, history string) (IntentResult, error) {
	user := "Classify this message: " + message
	if history != "" {
		user += "\n\n" + history
	}
	var out IntentResult
	if err := c.chatJSON(ctx, classifyIntentSystem, user, &out); err != nil {
		return IntentResult{}, err
	}
	return out, nil
}

const estimateSystem = `You estimate nutritional content of foods using typical nutritional values. Be as accurate as possible.

Return ONLY a JSON object with these fields (numbers only, no text):
{
    "calories": <total calories as number>,
    "protein": <grams of protein>,
    "carbs": <grams of carbs>,
    "fat": <grams of fat>
}

If you truly have no idea what this food is, return: {"calories": 0, "protein": 0, "carbs": 0, "fat": 0, "unknown": true}`

// EstimateNutrition asks the model for the nutrition of the described
// quantity of a food. Returns ErrUnknownFood when the model does not
// recognize it or produces no usable calories.
func (c *Client) EstimateNutrition(ctx context.Context, name string, quantity float64, unit string) (Estimate, error) {
	user := fmt.Sprintf("Estimate the nutritional content for: %v %s of %s", quantity, unit, name)
	var out Estimate
	if err := c.chatJSON(ctx, estimateSystem, user, &out); err != nil {
		return Estimate{}, err
	}
	if out.Unknown || out.Calories <= 0 {
		return Estimate{}, ErrUnknownFood
	}
	return out, nil
}

const extractOnboardingSystem = `You extract user profile details for a calorie tracking bot.

Return JSON with these fields (use null if not found):
- age (number)
- gender ("male" or "female")
- weight_kg (number, convert from lbs if needed: lbs * 0.453592)
- height_cm (number, convert from inches if needed: inches * 2.54)
- activity_level ("sedentary", "lightly_active", "moderately_active", or "very_active")
- goal ("lose_weight", "maintain_weight", or "gain_weight")

Examples:
"I'm 30 years old, male, 75kg, 175cm, moderately active, and want to lose weight"
-> {"age": 30, "gender": "male", "weight_kg": 75, "height_cm": 175, "activity_level": "moderately_active", "goal": "lose_weight"}

"25 female 140 lbs 5'6" sedentary maintain"
-> {"age": 25, "gender": "female", "weight_kg": 63.5, "height_cm": 167.64, "activity_level": "sedentary", "goal": "maintain_weight"}`

// ExtractOnboarding pulls the six onboarding profile fields out of a message.
// Fields the message does not mention come back nil.
func (c *Client) ExtractOnboarding(ctx context.Context, message string) (OnboardingProfile, error) {
	var out OnboardingProfile
	if err := c.chatJSON(ctx, extractOnboardingSystem, fmt.Sprintf("Extract the information from this message if present:\nMessage: %q", message), &out); err != nil {
		return OnboardingProfile{}, err
	}
	return out, nil
}
