package repo

import (
	"context"
	"fmt"
	"testing"

	"github.com/vithika-cyber/Calorie-Bot/internal/domain"
)

func TestSaveAndRecentMessages(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	ctx := context.Background()

	for i := 0; i < 8; i++ {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleBot
		}
		if _, err := SaveMessage(ctx, db, u.ID, role, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}

	got, err := RecentMessages(ctx, db, u.ID, 5)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if len(got) != 5 {
		t.Fatalf("got %d messages; want 5", len(got))
	}
	// Chronological order, newest window: msg-3 .. msg-7.
	if got[0].Content != "msg-3" || got[4].Content != "msg-7" {
		t.Fatalf("wrong window/order: first %q last %q", got[0].Content, got[4].Content)
	}
}

func TestPruneMessages(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		if _, err := SaveMessage(ctx, db, u.ID, domain.RoleUser, fmt.Sprintf("msg-%d", i)); err != nil {
			t.Fatalf("SaveMessage: %v", err)
		}
	}
	if err := PruneMessages(ctx, db, u.ID, 50); err != nil {
		t.Fatalf("PruneMessages: %v", err)
	}

	var count int64
	if err := db.Model(&domain.ConversationMessage{}).Where("user_id = ?", u.ID).Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 50 {
		t.Fatalf("count after prune = %d; want 50", count)
	}

	// The newest messages survive.
	got, err := RecentMessages(ctx, db, u.ID, 1)
	if err != nil {
		t.Fatalf("RecentMessages: %v", err)
	}
	if got[0].Content != "msg-59" {
		t.Fatalf("newest = %q; want msg-59", got[0].Content)
	}

	// Pruning below the cap is a no-op.
	if err := PruneMessages(ctx, db, u.ID, 50); err != nil {
		t.Fatalf("second PruneMessages: %v", err)
	}
}
