// Package orchestrator drives one conversational turn end to end: rate
// check, context load, intent routing, the intent-specific stage chain, and
// conversation-history bookkeeping.
//
// Turn state lives in a turnState value owned exclusively by the turn; the
// only cross-turn mutable state is the rate limiter and the database. Every
// stage degrades failures into a user-visible message rather than aborting,
// so a turn always produces a non-empty response.
package orchestrator

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/vithika-cyber/Calorie-Bot/internal/ai"
	"github.com/vithika-cyber/Calorie-Bot/internal/calc"
	"github.com/vithika-cyber/Calorie-Bot/internal/dates"
	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
	"github.com/vithika-cyber/Calorie-Bot/internal/router"
)

// Conversation history window and retention cap.
const (
	DefaultHistoryLimit = 5
	DefaultHistoryCap   = 50
)

// turnsTotal counts processed turns by final intent.
var turnsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "bot_turns_total",
		Help: "Total processed message turns, by intent.",
	},
	[]string{"intent"},
)

func init() {
	prometheus.MustRegister(turnsTotal)
}

// AI is the language-model collaborator the orchestrator needs directly.
type AI interface {
	ParseFood(ctx context.Context, message, extraContext string) (ai.ParseResult, error)
	ExtractOnboarding(ctx context.Context, message string) (ai.OnboardingProfile, error)
}

// IntentRouter classifies messages.
type IntentRouter interface {
	Route(ctx context.Context, message, history string, onboarded bool) router.Decision
}

// Resolver enriches parsed foods with nutrition data.
type Resolver interface {
	Resolve(ctx context.Context, foods []domain.ParsedFood) []domain.FoodItem
}

// Storage is the persistence collaborator.
type Storage interface {
	GetOrCreateUser(ctx context.Context, externalID, teamID string) (*domain.User, error)
	UpdateUser(ctx context.Context, u *domain.User) error
	MarkOnboarded(ctx context.Context, userID string) error

	CreateMealRecord(ctx context.Context, userID, rawText, mealType string, items []domain.FoodItem) (*domain.MealRecord, error)
	ListMealsByRange(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error)
	DailyTotals(ctx context.Context, userID string, day time.Time) (domain.Totals, error)
	SummarizeRange(ctx context.Context, userID string, start, end time.Time) (domain.RangeSummary, error)

	SaveMessage(ctx context.Context, userID, role, content string) (*domain.ConversationMessage, error)
	RecentMessages(ctx context.Context, userID string, limit int) ([]domain.ConversationMessage, error)
	PruneMessages(ctx context.Context, userID string, keep int) error
}

// Limiter admits or rejects turns per user.
type Limiter interface {
	Allow(user string) bool
	TimeUntilAllowed(user string) time.Duration
}

// Result is the outcome of one processed turn.
type Result struct {
	Response string `json:"response"`
	Intent   string `json:"intent"`
	Error    string `json:"error,omitempty"`
}

// Orchestrator wires the per-turn pipeline.
type Orchestrator struct {
	AI       AI
	Router   IntentRouter
	Resolver Resolver
	Store    Storage
	Limiter  Limiter

	HistoryLimit int
	HistoryCap   int

	// now is replaceable in tests.
	now func() time.Time
}

// New builds an Orchestrator with default history settings.
func New(aiClient AI, r IntentRouter, res Resolver, store Storage, lim Limiter) *Orchestrator {
	return &Orchestrator{
		AI:           aiClient,
		Router:       r,
		Resolver:     res,
		Store:        store,
		Limiter:      lim,
		HistoryLimit: DefaultHistoryLimit,
		HistoryCap:   DefaultHistoryCap,
		now:          time.Now,
	}
}

// turnState carries everything one turn accumulates. It is created at turn
// start, passed by pointer through the stages, and discarded at turn end.
type turnState struct {
	userID  string
	teamID  string
	message string

	user    *domain.User
	history []domain.ConversationMessage

	intent   router.Intent
	response string
	errMsg   string
}

// ProcessMessage runs one full turn for an inbound message. It never returns
// an empty response; failures fold into the response text and the Error
// field.
func (o *Orchestrator) ProcessMessage(ctx context.Context, userID, teamID, message string) Result {
	tr := otel.Tracer("orchestrator")
	ctx, span := tr.Start(ctx, "ProcessMessage",
		trace.WithAttributes(attribute.String("user.external_id", userID)),
	)
	defer span.End()

	if !o.Limiter.Allow(userID) {
		wait := int(o.Limiter.TimeUntilAllowed(userID).Seconds()) + 1
		turnsTotal.WithLabelValues("rate_limited").Inc()
		return Result{
			Response: fmt.Sprintf(":hourglass: You're sending messages too fast. Try again in %d seconds.", wait),
			Intent:   "rate_limited",
		}
	}

	st := &turnState{userID: userID, teamID: teamID, message: message}

	user, err := o.Store.GetOrCreateUser(ctx, userID, teamID)
	if err != nil {
		log.Error().Err(err).Str("user", userID).Msg("load user context failed")
		turnsTotal.WithLabelValues("error").Inc()
		return Result{
			Response: "Sorry, I encountered an error processing your message. Please try again.",
			Intent:   "error",
			Error:    err.Error(),
		}
	}
	st.user = user

	if hist, err := o.Store.RecentMessages(ctx, user.ID, o.HistoryLimit); err != nil {
		log.Warn().Err(err).Msg("could not load conversation history")
	} else {
		st.history = hist
	}

	decision := o.Router.Route(ctx, message, historyContext(st.history), user.IsOnboarded())
	st.intent = decision.Intent
	span.SetAttributes(attribute.String("intent", string(decision.Intent)))

	switch decision.Intent {
	case router.IntentOnboarding:
		o.handleOnboarding(ctx, st, decision.Step)
	case router.IntentLogFood:
		o.handleLogFood(ctx, st)
	case router.IntentQueryToday, router.IntentQueryHistory:
		o.handleQuery(ctx, st)
	case router.IntentGreeting:
		o.handleGreeting(st)
	case router.IntentHelp:
		o.handleHelp(st)
	default:
		o.handleError(st)
	}

	if st.response == "" {
		st.response = "I'm not sure how to help with that."
	}

	o.saveHistory(ctx, st)
	turnsTotal.WithLabelValues(string(st.intent)).Inc()

	return Result{Response: st.response, Intent: string(st.intent), Error: st.errMsg}
}

// saveHistory appends the turn's utterances and trims old history. Failures
// here never affect the response.
func (o *Orchestrator) saveHistory(ctx context.Context, st *turnState) {
	if _, err := o.Store.SaveMessage(ctx, st.user.ID, domain.RoleUser, st.message); err != nil {
		log.Warn().Err(err).Msg("could not save user message")
		return
	}
	if _, err := o.Store.SaveMessage(ctx, st.user.ID, domain.RoleBot, st.response); err != nil {
		log.Warn().Err(err).Msg("could not save bot message")
		return
	}
	if err := o.Store.PruneMessages(ctx, st.user.ID, o.HistoryCap); err != nil {
		log.Warn().Err(err).Msg("could not prune conversation history")
	}
}

// handleOnboarding extracts the six profile fields and, when all are
// present, computes the calorie plan and completes onboarding. Any miss
// re-emits the instructions.
func (o *Orchestrator) handleOnboarding(ctx context.Context, st *turnState, step string) {
	if step == router.StepWelcome {
		st.response = onboardingInstructions
		return
	}

	profile, err := o.AI.ExtractOnboarding(ctx, st.message)
	if err != nil || !profile.Complete() {
		if err != nil {
			log.Warn().Err(err).Msg("onboarding extraction failed")
		}
		st.response = onboardingInstructions
		return
	}

	tdee := calc.TDEE(*profile.WeightKg, *profile.HeightCm, *profile.Age, *profile.Gender, *profile.ActivityLevel)
	goal := calc.CalorieGoal(tdee, *profile.Goal)

	u := st.user
	u.Age = *profile.Age
	u.Gender = *profile.Gender
	u.CurrentWeight = *profile.WeightKg
	u.TargetWeight = calc.TargetWeight(*profile.WeightKg, *profile.Goal)
	u.Height = *profile.HeightCm
	u.ActivityLevel = *profile.ActivityLevel
	u.DailyCalorieGoal = goal

	if err := o.Store.UpdateUser(ctx, u); err != nil {
		st.errMsg = err.Error()
		st.response = onboardingInstructions
		return
	}
	if err := o.Store.MarkOnboarded(ctx, u.ID); err != nil {
		st.errMsg = err.Error()
		st.response = onboardingInstructions
		return
	}

	st.response = formatOnboardingComplete(goal, tdee, *profile.Goal)
}

// handleLogFood runs the parse -> resolve -> persist-and-summarize chain.
func (o *Orchestrator) handleLogFood(ctx context.Context, st *turnState) {
	parsed, err := o.AI.ParseFood(ctx, st.message, historyContext(st.history))
	if err != nil {
		log.Warn().Err(err).Msg("food parsing failed")
		st.errMsg = err.Error()
		st.response = "I couldn't identify any food items in your message. Could you try describing what you ate?"
		return
	}
	if len(parsed.Foods) == 0 {
		st.response = "I couldn't identify any food items in your message. Could you try describing what you ate?"
		return
	}

	// Sanity issues become warnings on the reply, never failures.
	issues := validateFoods(parsed.Foods)

	items := o.Resolver.Resolve(ctx, parsed.Foods)

	var known, unknown []domain.FoodItem
	for _, it := range items {
		if it.Provenance == domain.ProvenanceUnknown {
			unknown = append(unknown, it)
		} else {
			known = append(known, it)
		}
	}

	// When nothing resolved, store no record and ask for help instead.
	if len(known) == 0 {
		st.response = formatAllUnknown(unknown)
		return
	}

	// Prefer the parser's overall meal type; fall back to the first item's.
	mealType := parsed.MealType
	if mealType == "" {
		mealType = items[0].MealType
	}
	mealType = domain.NormalizeMealType(mealType)
	rec, err := o.Store.CreateMealRecord(ctx, st.user.ID, st.message, mealType, items)
	if err != nil {
		log.Error().Err(err).Msg("could not store meal record")
		st.errMsg = err.Error()
		st.response = "Sorry, I couldn't save that meal. Please try again."
		return
	}

	response := formatFoodLog(rec.MealType, items, rec.Totals(), o.now())

	today := midnight(o.now())
	if daily, err := o.Store.DailyTotals(ctx, st.user.ID, today); err == nil {
		goal := st.user.CalorieGoal()
		pct := 0
		if goal > 0 {
			pct = int(daily.Calories / float64(goal) * 100)
		}
		response += fmt.Sprintf("\n\n:bar_chart: *Daily Progress:* %d/%d cal (%d%%)", int(daily.Calories), goal, pct)
	}

	if len(unknown) > 0 {
		response += formatUnknownWarning(unknown)
	}
	if est := estimatedItems(known); len(est) > 0 {
		response += formatEstimateNote(est)
	}
	if len(issues) > 0 {
		response += formatValidationWarning(issues)
	}

	st.response = response
}

// maxSaneQuantity is the ceiling above which a parsed quantity is most
// likely a parsing mistake (e.g. grams read as servings).
const maxSaneQuantity = 100

// validateFoods flags parsed items that look wrong: missing names,
// non-positive quantities, and quantities above the sanity ceiling. Items
// are still resolved and logged; the issues only annotate the reply.
func validateFoods(foods []domain.ParsedFood) []string {
	var issues []string
	for i, f := range foods {
		name := f.Name
		if name == "" {
			name = "unknown"
			issues = append(issues, fmt.Sprintf("item %d: missing name", i+1))
		}
		switch {
		case f.Quantity <= 0:
			issues = append(issues, fmt.Sprintf("item %d (%s): quantity must be positive", i+1, name))
		case f.Quantity > maxSaneQuantity:
			issues = append(issues, fmt.Sprintf("item %d (%s): quantity %s seems very high", i+1, name, fmtNum(f.Quantity)))
		}
	}
	return issues
}

// handleQuery answers both today and historical queries; the date resolver
// decides between the daily and range paths.
func (o *Orchestrator) handleQuery(ctx context.Context, st *turnState) {
	r := dates.Resolve(st.message, o.now())
	goal := st.user.CalorieGoal()

	if r.SingleDay() {
		totals, err := o.Store.DailyTotals(ctx, st.user.ID, r.Start)
		if err != nil {
			st.errMsg = err.Error()
			st.response = "Sorry, I had trouble retrieving that information."
			return
		}
		meals, err := o.Store.ListMealsByRange(ctx, st.user.ID, r.Start, r.End)
		if err != nil {
			st.errMsg = err.Error()
			st.response = "Sorry, I had trouble retrieving that information."
			return
		}
		st.response = formatDailySummary(r.Label, totals, goal, meals)
		return
	}

	sum, err := o.Store.SummarizeRange(ctx, st.user.ID, r.Start, r.End)
	if err != nil {
		st.errMsg = err.Error()
		st.response = "Sorry, I had trouble retrieving that information."
		return
	}
	st.response = formatRangeSummary(r.Label, sum, goal)
}

func (o *Orchestrator) handleGreeting(st *turnState) {
	st.response = ":wave: Hey there! Ready to log your meals? Just tell me what you ate!"
}

func (o *Orchestrator) handleHelp(st *turnState) {
	st.response = helpMessage
}

func (o *Orchestrator) handleError(st *turnState) {
	st.intent = router.IntentOther
	st.response = "I'm not sure how to help with that. Try saying something like 'I had an apple' or 'show me today's meals'."
}

// historyContext condenses recent history into a context hint for the
// parser.
func historyContext(history []domain.ConversationMessage) string {
	if len(history) == 0 {
		return ""
	}
	out := "Recent conversation:\n"
	for _, m := range history {
		out += m.Role + ": " + m.Content + "\n"
	}
	return out
}

func estimatedItems(items []domain.FoodItem) []domain.FoodItem {
	var est []domain.FoodItem
	for _, it := range items {
		if it.Provenance == domain.ProvenanceAIEstimated {
			est = append(est, it)
		}
	}
	return est
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
