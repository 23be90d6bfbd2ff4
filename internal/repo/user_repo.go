// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the User model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

// GetOrCreateUser fetches the user identified by the chat platform's
// externalID, creating a fresh un-onboarded profile on first contact.
func GetOrCreateUser(ctx context.Context, db *gorm.DB, externalID, teamID string) (*domain.User, error) {
	var u domain.User
	err := db.WithContext(ctx).Where("external_id = ?", externalID).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	u = domain.User{
		ID:         uuid.NewString(),
		ExternalID: externalID,
		TeamID:     teamID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// UpdateUser persists the given profile fields.
func UpdateUser(ctx context.Context, db *gorm.DB, u *domain.User) error {
	return db.WithContext(ctx).Save(u).Error
}

// MarkOnboarded stamps the user's onboarding completion time.
func MarkOnboarded(ctx context.Context, db *gorm.DB, userID string) error {
	now := time.Now().UTC()
	return db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", userID).
		Update("onboarded_at", &now).Error
}
