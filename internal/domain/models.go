// Package domain defines the persistence models for users, meal records, and
// conversation history, plus the value types that flow through a single
// message turn (parsed and enriched food items, nutrient totals). Persistence
// models are mapped with GORM; value types are plain structs owned by the
// orchestration layer.
package domain

import (
	"math"
	"time"
)

// Provenance records which resolution tier produced a nutrition value.
type Provenance string

const (
	// ProvenanceDatabase marks values scaled from a nutrition-database match.
	ProvenanceDatabase Provenance = "database"
	// ProvenanceAIEstimated marks values estimated by the AI collaborator.
	ProvenanceAIEstimated Provenance = "ai_estimated"
	// ProvenanceUnknown marks a synthesized zero-nutrient record.
	ProvenanceUnknown Provenance = "unknown"
)

// Confidence grades how well a resolved item matches what the user described.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"
	ConfidenceMedium  Confidence = "medium"
	ConfidenceLow     Confidence = "low"
	ConfidenceUnknown Confidence = "unknown"
)

// Meal types as stored on MealRecord. Free-form hints from the parser are
// normalized to this set.
const (
	MealBreakfast = "breakfast"
	MealLunch     = "lunch"
	MealDinner    = "dinner"
	MealSnack     = "snack"
	MealOther     = "other"
)

// NormalizeMealType maps an arbitrary meal-type hint onto the known set,
// defaulting to MealOther.
func NormalizeMealType(s string) string {
	switch s {
	case MealBreakfast, MealLunch, MealDinner, MealSnack:
		return s
	default:
		return MealOther
	}
}

// ParsedFood is one food item extracted from free text by the parsing
// collaborator. Name and a positive Quantity are required for the item to be
// usable; Unit is free-form and interpreted by the unit normalizer.
type ParsedFood struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
	MealType string  `json:"meal_type"`
	Notes    string  `json:"notes,omitempty"`
}

// FoodItem is a ParsedFood enriched with nutrition data by the resolution
// chain. Exactly one FoodItem is produced per ParsedFood, and it is immutable
// for the remainder of the turn.
type FoodItem struct {
	ParsedFood

	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`

	// Grams is the estimated mass the nutrients were scaled to.
	Grams float64 `json:"grams,omitempty"`
	// Match is the database description the item resolved against, when
	// Provenance is ProvenanceDatabase.
	Match string `json:"match,omitempty"`

	Provenance Provenance `json:"provenance"`
	Confidence Confidence `json:"confidence"`
}

// Totals is the elementwise sum of a set of food items, rounded to two
// decimal places.
type Totals struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fat      float64 `json:"fat"`
	Fiber    float64 `json:"fiber"`
	Sugar    float64 `json:"sugar"`
}

// Add accumulates another Totals value.
func (t *Totals) Add(o Totals) {
	t.Calories += o.Calories
	t.Protein += o.Protein
	t.Carbs += o.Carbs
	t.Fat += o.Fat
	t.Fiber += o.Fiber
	t.Sugar += o.Sugar
}

// Round rounds every field to two decimal places.
func (t *Totals) Round() {
	t.Calories = Round2(t.Calories)
	t.Protein = Round2(t.Protein)
	t.Carbs = Round2(t.Carbs)
	t.Fat = Round2(t.Fat)
	t.Fiber = Round2(t.Fiber)
	t.Sugar = Round2(t.Sugar)
}

// Sum computes the nutrient totals of items. Summation is commutative, so the
// result does not depend on resolution order.
func Sum(items []FoodItem) Totals {
	var t Totals
	for _, it := range items {
		t.Add(Totals{
			Calories: it.Calories,
			Protein:  it.Protein,
			Carbs:    it.Carbs,
			Fat:      it.Fat,
			Fiber:    it.Fiber,
			Sugar:    it.Sugar,
		})
	}
	t.Round()
	return t
}

// Round2 rounds v to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// User stores the semi-persistent profile of one end user, keyed by the
// identifier the chat platform supplies. Onboarding is complete once
// OnboardedAt is set.
type User struct {
	ID         string `json:"id"          gorm:"type:char(36);primaryKey"`
	ExternalID string `json:"external_id" gorm:"type:varchar(64);not null;uniqueIndex"`
	TeamID     string `json:"team_id"     gorm:"type:varchar(64);not null"`

	Age           int     `json:"age"`
	Gender        string  `json:"gender"         gorm:"type:varchar(10)"`
	CurrentWeight float64 `json:"current_weight"` // kg
	TargetWeight  float64 `json:"target_weight"`  // kg
	Height        float64 `json:"height"`         // cm
	ActivityLevel string  `json:"activity_level" gorm:"type:varchar(32)"`

	DailyCalorieGoal int               `json:"daily_calorie_goal"`
	Preferences      map[string]string `json:"preferences" gorm:"serializer:json"`

	OnboardedAt *time.Time `json:"onboarded_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// IsOnboarded reports whether the user completed onboarding.
func (u *User) IsOnboarded() bool { return u.OnboardedAt != nil }

// CalorieGoal returns the daily goal, falling back to 2000 kcal when unset.
func (u *User) CalorieGoal() int {
	if u.DailyCalorieGoal > 0 {
		return u.DailyCalorieGoal
	}
	return 2000
}

// MealRecord is the persisted aggregate of one food-logging turn. Records are
// append-only: they are never updated, only deleted by explicit request.
// Invariant: the Total* columns equal the elementwise sum of Items, rounded
// to two decimal places.
type MealRecord struct {
	ID     string `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID string `json:"user_id" gorm:"type:char(36);not null;index:idx_user_meals,priority:1"`

	LoggedAt time.Time `json:"logged_at" gorm:"index:idx_user_meals,priority:2"`
	MealType string    `json:"meal_type" gorm:"type:varchar(16);not null;default:'other'"`
	RawText  string    `json:"raw_text"  gorm:"type:text;not null"`

	Items []FoodItem `json:"items" gorm:"serializer:json"`

	TotalCalories float64 `json:"total_calories"`
	TotalProtein  float64 `json:"total_protein"`
	TotalCarbs    float64 `json:"total_carbs"`
	TotalFat      float64 `json:"total_fat"`

	CreatedAt time.Time `json:"created_at"`

	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for MealRecord.
func (MealRecord) TableName() string { return "meal_records" }

// Totals reconstructs a Totals value from the persisted columns.
func (m *MealRecord) Totals() Totals {
	return Totals{
		Calories: m.TotalCalories,
		Protein:  m.TotalProtein,
		Carbs:    m.TotalCarbs,
		Fat:      m.TotalFat,
	}
}

// Conversation roles.
const (
	RoleUser = "user"
	RoleBot  = "bot"
)

// ConversationMessage is one utterance in a user's conversation history.
// Both the inbound message and the bot response are appended after every
// turn; history beyond a fixed cap is pruned.
type ConversationMessage struct {
	ID        string    `json:"id"      gorm:"type:char(36);primaryKey"`
	UserID    string    `json:"user_id" gorm:"type:char(36);not null;index:idx_user_msgs,priority:1"`
	Role      string    `json:"role"    gorm:"type:varchar(8);not null;check:role IN ('user','bot')"`
	Content   string    `json:"content" gorm:"type:text;not null"`
	CreatedAt time.Time `json:"created_at" gorm:"index:idx_user_msgs,priority:2"`
}

// TableName returns the database table name for ConversationMessage.
func (ConversationMessage) TableName() string { return "conversation_messages" }

// DayTotals is the aggregate for one calendar day inside a range summary.
type DayTotals struct {
	Date   time.Time `json:"date"`
	Totals Totals    `json:"totals"`
	Foods  []string  `json:"foods"`
}

// RangeSummary aggregates meal records over a closed date interval. The
// Totals field equals the sum of the per-day totals, which in turn equal the
// sums of the underlying meal records.
type RangeSummary struct {
	Days     int         `json:"days"`
	Totals   Totals      `json:"totals"`
	Averages Totals      `json:"averages"`
	Daily    []DayTotals `json:"daily"`
}
