// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file bundles the repository functions into a Store
// value suitable for injection into the orchestration layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

// Store adapts the package's free functions to a single injectable value.
type Store struct {
	DB *gorm.DB
}

// NewStore wraps db in a Store.
func NewStore(db *gorm.DB) *Store { return &Store{DB: db} }

func (s *Store) GetOrCreateUser(ctx context.Context, externalID, teamID string) (*domain.User, error) {
	return GetOrCreateUser(ctx, s.DB, externalID, teamID)
}

func (s *Store) UpdateUser(ctx context.Context, u *domain.User) error {
	return UpdateUser(ctx, s.DB, u)
}

func (s *Store) MarkOnboarded(ctx context.Context, userID string) error {
	return MarkOnboarded(ctx, s.DB, userID)
}

func (s *Store) CreateMealRecord(ctx context.Context, userID, rawText, mealType string, items []domain.FoodItem) (*domain.MealRecord, error) {
	return CreateMealRecord(ctx, s.DB, userID, rawText, mealType, items)
}

func (s *Store) ListMealsByRange(ctx context.Context, userID string, start, end time.Time) ([]domain.MealRecord, error) {
	return ListMealsByRange(ctx, s.DB, userID, start, end)
}

func (s *Store) DailyTotals(ctx context.Context, userID string, day time.Time) (domain.Totals, error) {
	return DailyTotals(ctx, s.DB, userID, day)
}

func (s *Store) SummarizeRange(ctx context.Context, userID string, start, end time.Time) (domain.RangeSummary, error) {
	return SummarizeRange(ctx, s.DB, userID, start, end)
}

func (s *Store) DeleteMeal(ctx context.Context, userID, mealID string) error {
	return DeleteMeal(ctx, s.DB, userID, mealID)
}

func (s *Store) SaveMessage(ctx context.Context, userID, role, content string) (*domain.ConversationMessage, error) {
	return SaveMessage(ctx, s.DB, userID, role, content)
}

func (s *Store) RecentMessages(ctx context.Context, userID string, limit int) ([]domain.ConversationMessage, error) {
	return RecentMessages(ctx, s.DB, userID, limit)
}

func (s *Store) PruneMessages(ctx context.Context, userID string, keep int) error {
	return PruneMessages(ctx, s.DB, userID, keep)
}
