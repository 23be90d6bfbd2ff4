package nutrition

import (
	"context"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/vithika-cyber/Calorie-Bot/internal/ai"
	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
	"github.com/vithika-cyber/Calorie-Bot/internal/units"
)

// resolutions counts resolved items by the tier that produced them.
var resolutions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "nutrition_resolutions_total",
		Help: "Total food items resolved, by nutrition source.",
	},
	[]string{"source"},
)

func init() {
	prometheus.MustRegister(resolutions)
}

// searchPageSize limits database hits fetched per item; only the top match
// is used, the rest exist for cache warmth.
const searchPageSize = 5

// Searcher finds database foods for a free-text food name.
type Searcher interface {
	Search(ctx context.Context, query string, pageSize int) ([]Food, error)
}

// Estimator produces AI nutrition estimates for foods the database misses.
type Estimator interface {
	EstimateNutrition(ctx context.Context, name string, quantity float64, unit string) (ai.Estimate, error)
}

// Resolver runs the three-tier resolution chain.
type Resolver struct {
	db  Searcher
	est Estimator
}

// NewResolver wires a Resolver from its two collaborators.
func NewResolver(db Searcher, est Estimator) *Resolver {
	return &Resolver{db: db, est: est}
}

// Resolve enriches every parsed food with nutrition data. Exactly one
// FoodItem is returned per input, in order; failures degrade tier by tier
// and never drop an item.
func (r *Resolver) Resolve(ctx context.Context, foods []domain.ParsedFood) []domain.FoodItem {
	items := make([]domain.FoodItem, 0, len(foods))
	for _, f := range foods {
		items = append(items, r.resolveOne(ctx, f))
	}
	return items
}

func (r *Resolver) resolveOne(ctx context.Context, f domain.ParsedFood) domain.FoodItem {
	if f.Quantity <= 0 {
		f.Quantity = 1
	}
	if f.Unit == "" {
		f.Unit = "serving"
	}

	if item, ok := r.fromDatabase(ctx, f); ok {
		resolutions.WithLabelValues(string(domain.ProvenanceDatabase)).Inc()
		return item
	}
	if item, ok := r.fromEstimate(ctx, f); ok {
		resolutions.WithLabelValues(string(domain.ProvenanceAIEstimated)).Inc()
		return item
	}

	resolutions.WithLabelValues(string(domain.ProvenanceUnknown)).Inc()
	log.Warn().Str("food", f.Name).Msg("could not resolve nutrition")
	return domain.FoodItem{
		ParsedFood: f,
		Provenance: domain.ProvenanceUnknown,
		Confidence: domain.ConfidenceUnknown,
	}
}

// fromDatabase scales the best database match's per-100g values to the
// item's estimated mass.
func (r *Resolver) fromDatabase(ctx context.Context, f domain.ParsedFood) (domain.FoodItem, bool) {
	found, err := r.db.Search(ctx, f.Name, searchPageSize)
	if err != nil {
		log.Warn().Err(err).Str("food", f.Name).Msg("database search failed")
		return domain.FoodItem{}, false
	}
	if len(found) == 0 {
		return domain.FoodItem{}, false
	}

	best := found[0]
	grams := units.Grams(f.Quantity, f.Unit)
	scale := grams / 100

	item := domain.FoodItem{
		ParsedFood: f,
		Calories:   domain.Round2(best.Calories * scale),
		Protein:    domain.Round2(best.Protein * scale),
		Carbs:      domain.Round2(best.Carbs * scale),
		Fat:        domain.Round2(best.Fat * scale),
		Fiber:      domain.Round2(best.Fiber * scale),
		Sugar:      domain.Round2(best.Sugar * scale),
		Grams:      grams,
		Match:      best.Description,
		Provenance: domain.ProvenanceDatabase,
		Confidence: matchConfidence(f.Name, best.Description),
	}
	log.Info().
		Str("food", f.Name).
		Str("match", best.Description).
		Float64("calories", item.Calories).
		Msg("resolved from database")
	return item, true
}

func (r *Resolver) fromEstimate(ctx context.Context, f domain.ParsedFood) (domain.FoodItem, bool) {
	est, err := r.est.EstimateNutrition(ctx, f.Name, f.Quantity, f.Unit)
	if err != nil {
		return domain.FoodItem{}, false
	}
	item := domain.FoodItem{
		ParsedFood: f,
		Calories:   domain.Round2(est.Calories),
		Protein:    domain.Round2(est.Protein),
		Carbs:      domain.Round2(est.Carbs),
		Fat:        domain.Round2(est.Fat),
		Provenance: domain.ProvenanceAIEstimated,
		Confidence: domain.ConfidenceMedium,
	}
	log.Info().Str("food", f.Name).Float64("calories", item.Calories).Msg("resolved from AI estimate")
	return item, true
}

// matchConfidence grades how closely a database description matches the food
// the user named: containment either way is high, full word overlap is high,
// at least half overlap is medium, anything else low.
func matchConfidence(query, matched string) domain.Confidence {
	q := strings.ToLower(query)
	m := strings.ToLower(matched)

	if strings.Contains(m, q) || strings.Contains(q, m) {
		return domain.ConfidenceHigh
	}

	qWords := strings.Fields(q)
	mWords := make(map[string]bool)
	for _, w := range strings.Fields(m) {
		mWords[w] = true
	}
	overlap := 0
	for _, w := range qWords {
		if mWords[w] {
			overlap++
		}
	}
	switch {
	case len(qWords) == 0:
		return domain.ConfidenceLow
	case overlap >= len(qWords):
		return domain.ConfidenceHigh
	case float64(overlap) >= float64(len(qWords))*0.5:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
