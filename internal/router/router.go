// Package router classifies inbound messages into the bot's closed intent
// set. Keyword matching runs first and is deterministic; the AI classifier is
// consulted only when no keyword matches, which keeps the hot paths free of
// model calls.
package router

import (
	"context"
	"strings"
	"unicode"

	"github.com/rs/zerolog/log"

	"github.com/vithika-cyber/Calorie-Bot/internal/ai"
)

// Intent is one of the closed set of message intents.
type Intent string

const (
	IntentLogFood      Intent = "log_food"
	IntentQueryToday   Intent = "query_today"
	IntentQueryHistory Intent = "query_history"
	IntentGreeting     Intent = "greeting"
	IntentHelp         Intent = "help"
	IntentOnboarding   Intent = "onboarding_needed"
	IntentOther        Intent = "other"
)

// Onboarding sub-steps: a greeting from a fresh user gets the welcome
// message, anything else the data-collection instructions.
const (
	StepWelcome = "welcome"
	StepStart   = "start"
)

// Decision is the routing outcome for one message.
type Decision struct {
	Intent     Intent
	Confidence string
	Step       string
	Entities   map[string]string
}

// Classifier is the AI fallback for messages no keyword covers.
type Classifier interface {
	ClassifyIntent(ctx context.Context, message, history string) (ai.IntentResult, error)
}

// Router decides the intent of each inbound message.
type Router struct {
	classifier Classifier
}

// New builds a Router over the given AI classifier.
func New(classifier Classifier) *Router {
	return &Router{classifier: classifier}
}

// keywordRule binds an intent to the phrases that trigger it.
type keywordRule struct {
	intent   Intent
	keywords []string
}

// keywordRules in priority order. Query rules come before log-food so that
// "what did I eat yesterday" never reads as logging; greeting comes after
// help so "can you help" is not a greeting.
var keywordRules = []keywordRule{
	{IntentQueryHistory, []string{
		"yesterday", "last week", "this week", "last 3 days", "past 3 days", "history",
	}},
	{IntentQueryToday, []string{
		"what did i eat", "what have i eaten", "how many calories",
		"today's", "so far today", "my progress", "summary", "how am i doing",
	}},
	{IntentHelp, []string{
		"help", "how does this work", "what can you do",
	}},
	{IntentGreeting, greetingKeywords},
	{IntentLogFood, []string{
		"i had", "i ate", "ate", "had", "eating", "drank", "just finished",
		"for breakfast", "for lunch", "for dinner", "snacked",
	}},
}

// greetingKeywords also gate the onboarding welcome sub-step.
var greetingKeywords = []string{
	"hi", "hello", "hey", "greetings", "good morning",
	"good afternoon", "good evening", "start", "begin",
}

// Route classifies message. When the user has not finished onboarding every
// message routes to onboarding, split into welcome/start sub-steps. history
// is a condensed recent-conversation snapshot forwarded to the AI fallback;
// the keyword path never reads it.
func (r *Router) Route(ctx context.Context, message, history string, onboarded bool) Decision {
	if !onboarded {
		step := StepStart
		if matchesAny(message, greetingKeywords) {
			step = StepWelcome
		}
		return Decision{Intent: IntentOnboarding, Confidence: "high", Step: step}
	}

	for _, rule := range keywordRules {
		if matchesAny(message, rule.keywords) {
			log.Debug().Str("intent", string(rule.intent)).Msg("keyword route")
			return Decision{Intent: rule.intent, Confidence: "high"}
		}
	}

	res, err := r.classifier.ClassifyIntent(ctx, message, history)
	if err != nil {
		log.Warn().Err(err).Msg("intent classification failed")
		return Decision{Intent: IntentOther, Confidence: "low"}
	}
	intent := normalizeIntent(res.Intent)
	log.Debug().Str("intent", string(intent)).Str("confidence", res.Confidence).Msg("ai route")
	return Decision{Intent: intent, Confidence: res.Confidence, Entities: res.Entities}
}

// normalizeIntent maps a classifier label onto the closed set; anything
// unrecognized degrades to other.
func normalizeIntent(s string) Intent {
	switch Intent(strings.ToLower(strings.TrimSpace(s))) {
	case IntentLogFood:
		return IntentLogFood
	case IntentQueryToday:
		return IntentQueryToday
	case IntentQueryHistory:
		return IntentQueryHistory
	case IntentGreeting:
		return IntentGreeting
	case IntentHelp:
		return IntentHelp
	default:
		return IntentOther
	}
}

// matchesAny reports whether any keyword occurs in the message. Keywords of
// three characters or fewer must match whole words, so "hi" cannot fire
// inside "chicken"; longer keywords match as substrings.
func matchesAny(message string, keywords []string) bool {
	m := strings.ToLower(message)
	var words []string
	for _, kw := range keywords {
		if len(kw) > 3 {
			if strings.Contains(m, kw) {
				return true
			}
			continue
		}
		if words == nil {
			words = strings.FieldsFunc(m, func(r rune) bool {
				return !unicode.IsLetter(r) && !unicode.IsDigit(r)
			})
		}
		for _, w := range words {
			if w == kw {
				return true
			}
		}
	}
	return false
}
