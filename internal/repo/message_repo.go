// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// ConversationMessage model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

// SaveMessage appends one utterance to the user's conversation history.
func SaveMessage(ctx context.Context, db *gorm.DB, userID, role, content string) (*domain.ConversationMessage, error) {
	m := &domain.ConversationMessage{
		ID:        uuid.NewString(),
		UserID:    userID,
		Role:      role,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	return m, db.WithContext(ctx).Create(m).Error
}

// RecentMessages returns the user's most recent messages in chronological
// order (oldest of the window first).
func RecentMessages(ctx context.Context, db *gorm.DB, userID string, limit int) ([]domain.ConversationMessage, error) {
	var out []domain.ConversationMessage
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	// Reverse into chronological order.
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, nil
}

// PruneMessages deletes history beyond the newest keep messages.
func PruneMessages(ctx context.Context, db *gorm.DB, userID string, keep int) error {
	var ids []string
	err := db.WithContext(ctx).
		Model(&domain.ConversationMessage{}).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(keep).
		Pluck("id", &ids).Error
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}
	return db.WithContext(ctx).Delete(&domain.ConversationMessage{}, "id IN ?", ids).Error
}
